package course

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/pmezard/go-difflib/difflib"

	"github.com/Nolexnol/CourseRegistration-System/core"
)

var (
	// errors
	ErrNotFound     = errors.New("course does not exist")
	ErrCourseExists = errors.New("a course with this ID already exists")

	suggestMinRatio = .7
	suggestMax      = 3
)

// NotFoundError is returned when a course ID is unknown; Suggestions holds close IDs.
type NotFoundError struct {
	ID          string
	Suggestions []string
}

func (err *NotFoundError) Error() string {
	msg := fmt.Sprintf("course '%s' does not exist", err.ID)
	if len(err.Suggestions) > 0 {
		msg += fmt.Sprintf(" (did you mean %s?)", strings.Join(err.Suggestions, ", "))
	}
	return msg
}

func (err *NotFoundError) Unwrap() error { return ErrNotFound }

type (
	Repository interface {
		// CreateCourses stores all courses at once; it fails with ErrCourseExists on any duplicate.
		CreateCourses(ctx context.Context, courses ...Course) error
		// QueryAllCourses returns every course ordered by ID.
		QueryAllCourses(ctx context.Context) ([]Course, error)
		GetCourse(ctx context.Context, id string) (Course, error)
	}

	Service struct {
		repo            Repository
		hours           TeachingHours
		defaultCapacity int
		defaultCredits  int
		logger          core.Logger
	}
)

func NewService(repo Repository, conf *core.Config, logger core.Logger) (*Service, error) {
	hours, err := TeachingHoursFromConfig(conf)
	if err != nil {
		return nil, err
	}
	return &Service{
		repo:            repo,
		hours:           hours,
		defaultCapacity: conf.Rules.DefaultCapacity,
		defaultCredits:  conf.Rules.DefaultCredits,
		logger:          logger,
	}, nil
}

// TeachingHoursFromConfig reads the teaching day bounds from the rules config.
func TeachingHoursFromConfig(conf *core.Config) (TeachingHours, error) {
	start, err := ParseClock(conf.Rules.DayStart)
	if err != nil {
		return TeachingHours{}, errors.Wrap(err, "rules.day_start")
	}
	end, err := ParseClock(conf.Rules.DayEnd)
	if err != nil {
		return TeachingHours{}, errors.Wrap(err, "rules.day_end")
	}
	if start >= end {
		return TeachingHours{}, errors.New("rules.day_start must be before rules.day_end")
	}
	return TeachingHours{Start: start, End: end}, nil
}

func (svc *Service) TeachingHours() TeachingHours { return svc.hours }

func (svc *Service) Create(ctx context.Context, nc NewCourse) (Course, error) {
	if nc.MaxStudents == 0 {
		nc.MaxStudents = svc.defaultCapacity
	}
	if nc.Credits == 0 {
		nc.Credits = svc.defaultCredits
	}
	if err := nc.Validate(); err != nil {
		return Course{}, err
	}
	sch, err := NewSchedule(nc.Day, nc.Start, nc.End)
	if err != nil {
		return Course{}, core.NewValidationError(err, core.FieldError{Field: "schedule", Error: err.Error()})
	}
	if err := svc.hours.Check(sch); err != nil {
		return Course{}, core.NewValidationError(err, core.FieldError{Field: "schedule", Error: err.Error()})
	}

	crs := Course{
		ID:          nc.ID,
		Name:        nc.Name,
		Instructor:  nc.Instructor,
		Schedule:    sch,
		MaxStudents: nc.MaxStudents,
		Credits:     nc.Credits,
	}
	if err := svc.repo.CreateCourses(ctx, crs); err != nil {
		if errors.Is(err, ErrCourseExists) {
			return Course{}, core.NewValidationError(
				errors.Wrapf(err, "course '%s'", crs.ID),
				core.FieldError{Field: "course_id", Error: err.Error()},
			)
		}
		return Course{}, err
	}
	svc.logger.Info("course created", map[string]interface{}{"course_id": crs.ID})
	return crs, nil
}

// SeedDefaults stores DefaultCatalog when there is no course yet. It returns the number of courses added.
func (svc *Service) SeedDefaults(ctx context.Context) (int, error) {
	existing, err := svc.repo.QueryAllCourses(ctx)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		return 0, nil
	}

	courses := make([]Course, 0, len(DefaultCatalog()))
	for _, crs := range DefaultCatalog() {
		if err := svc.hours.Check(crs.Schedule); err != nil {
			svc.logger.Warn("skipping default course", map[string]interface{}{"course_id": crs.ID}, err)
			continue
		}
		courses = append(courses, crs)
	}
	if err := svc.repo.CreateCourses(ctx, courses...); err != nil {
		return 0, errors.Wrap(err, "seeding catalog")
	}
	svc.logger.Info("no courses found, default catalog created", map[string]interface{}{"courses": len(courses)})
	return len(courses), nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Course, error) {
	return svc.repo.QueryAllCourses(ctx)
}

// Get returns the course with the given ID; unknown IDs yield a *NotFoundError.
func (svc *Service) Get(ctx context.Context, id string) (Course, error) {
	id = core.CleanID(id)
	crs, err := svc.repo.GetCourse(ctx, id)
	if errors.Is(err, ErrNotFound) {
		return Course{}, &NotFoundError{ID: id, Suggestions: svc.Suggest(ctx, id)}
	}
	return crs, err
}

// Suggest returns up to 3 course IDs resembling id, best match first.
func (svc *Service) Suggest(ctx context.Context, id string) []string {
	courses, err := svc.repo.QueryAllCourses(ctx)
	if err != nil || id == "" {
		return nil
	}

	type match struct {
		id    string
		ratio float64
	}
	matches := make([]match, 0)
	target := strings.Split(core.CleanID(id), "")
	for _, crs := range courses {
		ratio := difflib.NewMatcher(target, strings.Split(crs.ID, "")).Ratio()
		if ratio >= suggestMinRatio {
			matches = append(matches, match{id: crs.ID, ratio: ratio})
		}
	}
	sort.SliceStable(matches, func(i, j int) bool { return matches[i].ratio > matches[j].ratio })

	ids := make([]string, 0, suggestMax)
	for i := 0; i < len(matches) && i < suggestMax; i++ {
		ids = append(ids, matches[i].id)
	}
	return ids
}

// Filter applies AND operation on the QueryFilter fields to listings.
func Filter(listings []Listing, filter QueryFilter) []Listing {
	filter.Clean()
	filtered := make([]Listing, 0, len(listings))
	for _, l := range listings {
		if filter.Search != "" &&
			!strings.Contains(strings.ToLower(l.ID), filter.Search) &&
			!strings.Contains(strings.ToLower(l.Name), filter.Search) &&
			!strings.Contains(strings.ToLower(l.Instructor), filter.Search) {
			continue
		}
		if filter.Day != "" && l.Schedule.Day != filter.Day {
			continue
		}
		if filter.Available && l.Full() {
			continue
		}
		filtered = append(filtered, l)
	}
	return filtered
}

// Sort orders listings by ord.Field: id (default), name, instructor, credits, seats or schedule.
func Sort(listings []Listing, ord core.Ordering) error {
	var less func(a, b Listing) bool
	switch ord.Field {
	case "", "id", "course_id":
		less = func(a, b Listing) bool { return a.ID < b.ID }
	case "name":
		less = func(a, b Listing) bool { return strings.ToLower(a.Name) < strings.ToLower(b.Name) }
	case "instructor":
		less = func(a, b Listing) bool { return strings.ToLower(a.Instructor) < strings.ToLower(b.Instructor) }
	case "credits":
		less = func(a, b Listing) bool { return a.Credits < b.Credits }
	case "seats":
		less = func(a, b Listing) bool { return a.MaxStudents-a.Enrolled < b.MaxStudents-b.Enrolled }
	case "schedule", "day":
		less = func(a, b Listing) bool { return a.Schedule.Before(b.Schedule) }
	default:
		return core.NewValidationError(errors.Errorf("cannot sort courses by %q", ord.Field))
	}
	core.SortBy(listings, ord, less)
	return nil
}
