package enrollment

import (
	"context"
	"fmt"
	"sort"

	"github.com/pkg/errors"

	"github.com/Nolexnol/CourseRegistration-System/core"
	"github.com/Nolexnol/CourseRegistration-System/core/audit"
	"github.com/Nolexnol/CourseRegistration-System/core/course"
	"github.com/Nolexnol/CourseRegistration-System/core/student"
)

type (
	Repository interface {
		// CreateEnrollment fails with ErrAlreadyEnrolled on a duplicate.
		CreateEnrollment(ctx context.Context, e Enrollment) error
		// DeleteEnrollment fails with ErrNotEnrolled when e does not exist.
		DeleteEnrollment(ctx context.Context, e Enrollment) error
		// QueryEnrollments returns matching enrollments ordered by student then course.
		QueryEnrollments(ctx context.Context, filter QueryFilter) ([]Enrollment, error)
	}

	StudentFinder interface {
		Get(ctx context.Context, id string) (student.Student, error)
	}

	CourseFinder interface {
		Get(ctx context.Context, id string) (course.Course, error)
		QueryAll(ctx context.Context) ([]course.Course, error)
	}

	Service struct {
		repo     Repository
		students StudentFinder
		courses  CourseFinder
		recorder audit.Recorder
		rules    Rules
		logger   core.Logger
	}
)

func NewService(
	repo Repository,
	students StudentFinder,
	courses CourseFinder,
	recorder audit.Recorder,
	rules Rules,
	logger core.Logger,
) *Service {
	return &Service{
		repo:     repo,
		students: students,
		courses:  courses,
		recorder: recorder,
		rules:    rules,
		logger:   logger,
	}
}

func (svc *Service) Rules() Rules { return svc.rules }

// Enroll registers the student in the course. Checks run in order: student and course exist,
// not already enrolled, free seat, credit limit, time conflicts.
func (svc *Service) Enroll(ctx context.Context, studentID, courseID string) (course.Course, error) {
	std, err := svc.students.Get(ctx, studentID)
	if err != nil {
		return course.Course{}, err
	}
	crs, err := svc.courses.Get(ctx, courseID)
	if err != nil {
		if errors.Is(err, course.ErrNotFound) {
			return course.Course{}, core.NewValidationError(err)
		}
		return course.Course{}, err
	}

	enrolled, err := svc.studentCourses(ctx, std.ID)
	if err != nil {
		return course.Course{}, err
	}
	if err = checkNotEnrolled(crs, enrolled); err != nil {
		return course.Course{}, err
	}

	seats, err := svc.repo.QueryEnrollments(ctx, QueryFilter{CourseID: crs.ID})
	if err != nil {
		return course.Course{}, errors.Wrap(err, "counting enrolled students")
	}
	if err = checkCapacity(crs, len(seats)); err != nil {
		return course.Course{}, err
	}
	if err = checkCredits(crs, TotalCredits(enrolled), svc.rules.MaxCredits); err != nil {
		return course.Course{}, err
	}
	if err = checkConflicts(crs, enrolled); err != nil {
		return course.Course{}, err
	}

	if err = svc.repo.CreateEnrollment(ctx, Enrollment{StudentID: std.ID, CourseID: crs.ID}); err != nil {
		if errors.Is(err, ErrAlreadyEnrolled) {
			return course.Course{}, ruleError(ErrAlreadyEnrolled, "already enrolled in %s", crs.Label())
		}
		return course.Course{}, errors.Wrap(err, "saving enrollment")
	}
	svc.recorder.Record(ctx, audit.ActionEnrolled, std.ID, crs.ID, crs.Name)
	svc.logger.Info("student enrolled", std, map[string]interface{}{"course_id": crs.ID})
	return crs, nil
}

// Drop removes the student from the course, even when the remaining credits fall under the
// minimum: DropResult.BelowMinimum then asks the caller to warn the student.
func (svc *Service) Drop(ctx context.Context, studentID, courseID string) (DropResult, error) {
	std, err := svc.students.Get(ctx, studentID)
	if err != nil {
		return DropResult{}, err
	}
	courseID = core.CleanID(courseID)

	mine, err := svc.repo.QueryEnrollments(ctx, QueryFilter{StudentID: std.ID, CourseID: courseID})
	if err != nil {
		return DropResult{}, errors.Wrap(err, "querying enrollments")
	}
	if len(mine) == 0 {
		return DropResult{}, ruleError(ErrNotEnrolled, "not enrolled in course '%s'", courseID)
	}

	enrolled, err := svc.studentCourses(ctx, std.ID)
	if err != nil {
		return DropResult{}, err
	}
	res := DropResult{CourseID: courseID, MinCredits: svc.rules.MinCredits, RemainingCredits: TotalCredits(enrolled)}
	for i := range enrolled {
		if enrolled[i].ID == courseID {
			crs := enrolled[i]
			res.Course = &crs
			res.RemainingCredits -= crs.Credits
		}
	}
	res.BelowMinimum = res.RemainingCredits < svc.rules.MinCredits

	if err = svc.repo.DeleteEnrollment(ctx, Enrollment{StudentID: std.ID, CourseID: courseID}); err != nil {
		if errors.Is(err, ErrNotEnrolled) {
			return DropResult{}, ruleError(ErrNotEnrolled, "not enrolled in course '%s'", courseID)
		}
		return DropResult{}, errors.Wrap(err, "deleting enrollment")
	}

	svc.recorder.Record(ctx, audit.ActionDropped, std.ID, courseID, fmt.Sprintf("%d credits left", res.RemainingCredits))
	if res.BelowMinimum {
		svc.logger.Warn("credits below minimum after drop", std, map[string]interface{}{
			"course_id": courseID, "credits": res.RemainingCredits, "min_credits": svc.rules.MinCredits,
		})
	} else {
		svc.logger.Info("course dropped", std, map[string]interface{}{"course_id": courseID})
	}
	return res, nil
}

// StudentCourses returns the courses the student is enrolled in, ordered by course ID.
func (svc *Service) StudentCourses(ctx context.Context, studentID string) ([]course.Course, error) {
	std, err := svc.students.Get(ctx, studentID)
	if err != nil {
		return nil, err
	}
	return svc.studentCourses(ctx, std.ID)
}

// studentCourses skips enrollments whose course is no longer in the catalog.
func (svc *Service) studentCourses(ctx context.Context, studentID string) ([]course.Course, error) {
	enrollments, err := svc.repo.QueryEnrollments(ctx, QueryFilter{StudentID: studentID})
	if err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	all, err := svc.courses.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	byID := make(map[string]course.Course, len(all))
	for _, crs := range all {
		byID[crs.ID] = crs
	}

	courses := make([]course.Course, 0, len(enrollments))
	for _, e := range enrollments {
		if crs, ok := byID[e.CourseID]; ok {
			courses = append(courses, crs)
		}
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (svc *Service) Credits(ctx context.Context, studentID string) (int, error) {
	courses, err := svc.StudentCourses(ctx, studentID)
	if err != nil {
		return 0, err
	}
	return TotalCredits(courses), nil
}

// Timetable returns the student's courses ordered by weekday then start time.
func (svc *Service) Timetable(ctx context.Context, studentID string) ([]course.Course, error) {
	courses, err := svc.StudentCourses(ctx, studentID)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(courses, func(i, j int) bool { return courses[i].Schedule.Before(courses[j].Schedule) })
	return courses, nil
}

func (svc *Service) Summary(ctx context.Context, studentID string) (Summary, error) {
	std, err := svc.students.Get(ctx, studentID)
	if err != nil {
		return Summary{}, err
	}
	courses, err := svc.studentCourses(ctx, std.ID)
	if err != nil {
		return Summary{}, err
	}
	return Summary{
		Student:    std,
		Courses:    courses,
		Credits:    TotalCredits(courses),
		MinCredits: svc.rules.MinCredits,
		MaxCredits: svc.rules.MaxCredits,
	}, nil
}

// Catalog lists every course with its number of enrolled students, ordered by course ID.
func (svc *Service) Catalog(ctx context.Context) ([]course.Listing, error) {
	all, err := svc.courses.QueryAll(ctx)
	if err != nil {
		return nil, errors.Wrap(err, "querying courses")
	}
	enrollments, err := svc.repo.QueryEnrollments(ctx, QueryFilter{})
	if err != nil {
		return nil, errors.Wrap(err, "querying enrollments")
	}
	counts := make(map[string]int, len(all))
	for _, e := range enrollments {
		counts[e.CourseID]++
	}

	listings := make([]course.Listing, 0, len(all))
	for _, crs := range all {
		listings = append(listings, course.Listing{Course: crs, Enrolled: counts[crs.ID]})
	}
	return listings, nil
}
