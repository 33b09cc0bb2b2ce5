package testutil

import (
	"context"
	"testing"

	"github.com/Nolexnol/CourseRegistration-System/core"
	"github.com/Nolexnol/CourseRegistration-System/core/audit"
	"github.com/Nolexnol/CourseRegistration-System/core/course"
	"github.com/Nolexnol/CourseRegistration-System/core/enrollment"
	"github.com/Nolexnol/CourseRegistration-System/core/student"
	inmemdb "github.com/Nolexnol/CourseRegistration-System/storage/inmem"
)

// Config returns the default configuration, without reading the environment.
func Config() *core.Config {
	return &core.Config{
		Env:         "TEST",
		TestMode:    true,
		AppName:     "Registrar",
		Build:       "test",
		DataDir:     "data",
		SeedCatalog: true,
		Log:         core.LogConfig{Level: "debug"},
		Rules: core.RulesConfig{
			MinCredits:      9,
			MaxCredits:      18,
			DefaultCapacity: 30,
			DefaultCredits:  3,
			DayStart:        "08:00",
			DayEnd:          "17:50",
		},
	}
}

// Services are the application services over an in-memory DB.
type Services struct {
	Conf        *core.Config
	DB          *inmemdb.DB
	StudentRepo student.Repository
	CourseRepo  course.Repository
	EnrollRepo  enrollment.Repository
	AuditRepo   audit.Repository
	History     *audit.Service
	Students    *student.Service
	Courses     *course.Service
	Enrollments *enrollment.Service
}

// NewServices wires every service on a fresh in-memory DB. The default catalog is seeded when seed is true.
func NewServices(t *testing.T, seed bool) *Services {
	t.Helper()
	logger := core.NopLogger{}
	s := &Services{Conf: Config(), DB: inmemdb.Open()}
	s.StudentRepo = inmemdb.NewStudentRepository(s.DB)
	s.CourseRepo = inmemdb.NewCourseRepository(s.DB)
	s.EnrollRepo = inmemdb.NewEnrollmentRepository(s.DB)
	s.AuditRepo = inmemdb.NewAuditRepository(s.DB)

	s.History = audit.NewService(s.AuditRepo, logger)
	s.Students = student.NewService(s.StudentRepo, s.History, logger)
	crsSvc, err := course.NewService(s.CourseRepo, s.Conf, logger)
	if err != nil {
		t.Fatalf("course.NewService() failed: %v", err)
	}
	s.Courses = crsSvc
	s.Enrollments = enrollment.NewService(
		s.EnrollRepo, s.Students, s.Courses, s.History, enrollment.RulesFromConfig(s.Conf), logger,
	)

	if seed {
		if _, err := s.Courses.SeedDefaults(context.Background()); err != nil {
			t.Fatalf("SeedDefaults() failed: %v", err)
		}
	}
	t.Cleanup(func() { _ = s.DB.Close() })
	return s
}

func CreateStudent(t *testing.T, repo student.Repository, id, name string) student.Student {
	t.Helper()
	std, err := repo.CreateStudent(context.Background(), student.Student{ID: id, Name: name})
	if err != nil {
		t.Fatalf("createStudent() failed: %v", err)
	}
	return std
}

func CreateCourse(
	t *testing.T,
	repo course.Repository,
	id string,
	day course.Weekday,
	start, end string,
	maxStudents, credits int,
) course.Course {
	t.Helper()
	crs := course.Course{
		ID:          id,
		Name:        "Course " + id,
		Instructor:  "Dr. Test",
		Schedule:    course.Schedule{Day: day, Start: course.MustParseClock(start), End: course.MustParseClock(end)},
		MaxStudents: maxStudents,
		Credits:     credits,
	}
	if err := repo.CreateCourses(context.Background(), crs); err != nil {
		t.Fatalf("createCourse() failed: %v", err)
	}
	return crs
}

// Enroll stores enrollments directly, bypassing the registration rules.
func Enroll(t *testing.T, repo enrollment.Repository, studentID string, courseIDs ...string) {
	t.Helper()
	for _, id := range courseIDs {
		if err := repo.CreateEnrollment(context.Background(), enrollment.Enrollment{StudentID: studentID, CourseID: id}); err != nil {
			t.Fatalf("enroll() failed: %v", err)
		}
	}
}
