package inmemdb

import (
	"context"
	"sort"

	"github.com/Nolexnol/CourseRegistration-System/core/audit"
	"github.com/Nolexnol/CourseRegistration-System/core/course"
	"github.com/Nolexnol/CourseRegistration-System/core/enrollment"
	"github.com/Nolexnol/CourseRegistration-System/core/student"
)

type (
	studentRepository    struct{ db *DB }
	courseRepository     struct{ db *DB }
	enrollmentRepository struct{ db *DB }
	auditRepository      struct{ db *DB }
)

// interface compliance checks
var (
	_ student.Repository    = (*studentRepository)(nil)
	_ course.Repository     = (*courseRepository)(nil)
	_ enrollment.Repository = (*enrollmentRepository)(nil)
	_ audit.Repository      = (*auditRepository)(nil)
)

func NewStudentRepository(db *DB) student.Repository       { return &studentRepository{db: db} }
func NewCourseRepository(db *DB) course.Repository         { return &courseRepository{db: db} }
func NewEnrollmentRepository(db *DB) enrollment.Repository { return &enrollmentRepository{db: db} }
func NewAuditRepository(db *DB) audit.Repository           { return &auditRepository{db: db} }

func (repo *studentRepository) CreateStudent(_ context.Context, std student.Student) (student.Student, error) {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.students[std.ID]; ok {
		return student.Student{}, student.ErrStudentExists
	}
	repo.db.students[std.ID] = std
	return std, nil
}

func (repo *studentRepository) QueryAllStudents(context.Context) ([]student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	students := make([]student.Student, 0, len(repo.db.students))
	for _, std := range repo.db.students {
		students = append(students, std)
	}
	sort.Slice(students, func(i, j int) bool { return students[i].ID < students[j].ID })
	return students, nil
}

func (repo *studentRepository) GetStudent(_ context.Context, id string) (student.Student, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if std, ok := repo.db.students[id]; ok {
		return std, nil
	}
	return student.Student{}, student.ErrNotFound
}

func (repo *courseRepository) CreateCourses(_ context.Context, courses ...course.Course) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	seen := make(map[string]bool, len(courses))
	for _, crs := range courses {
		if _, ok := repo.db.courses[crs.ID]; ok || seen[crs.ID] {
			return course.ErrCourseExists
		}
		seen[crs.ID] = true
	}
	for _, crs := range courses {
		repo.db.courses[crs.ID] = crs
	}
	return nil
}

func (repo *courseRepository) QueryAllCourses(context.Context) ([]course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	courses := make([]course.Course, 0, len(repo.db.courses))
	for _, crs := range repo.db.courses {
		courses = append(courses, crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })
	return courses, nil
}

func (repo *courseRepository) GetCourse(_ context.Context, id string) (course.Course, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	if crs, ok := repo.db.courses[id]; ok {
		return crs, nil
	}
	return course.Course{}, course.ErrNotFound
}

func (repo *enrollmentRepository) CreateEnrollment(_ context.Context, e enrollment.Enrollment) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.enrollments[e]; ok {
		return enrollment.ErrAlreadyEnrolled
	}
	repo.db.enrollments[e] = struct{}{}
	return nil
}

func (repo *enrollmentRepository) DeleteEnrollment(_ context.Context, e enrollment.Enrollment) error {
	repo.db.Lock()
	defer repo.db.Unlock()

	if _, ok := repo.db.enrollments[e]; !ok {
		return enrollment.ErrNotEnrolled
	}
	delete(repo.db.enrollments, e)
	return nil
}

func (repo *enrollmentRepository) QueryEnrollments(_ context.Context, filter enrollment.QueryFilter) ([]enrollment.Enrollment, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	enrollments := make([]enrollment.Enrollment, 0)
	for e := range repo.db.enrollments {
		if filter.Match(e) {
			enrollments = append(enrollments, e)
		}
	}
	sortEnrollments(enrollments)
	return enrollments, nil
}

func (repo *auditRepository) AppendEvents(_ context.Context, events ...audit.Event) error {
	repo.db.Lock()
	defer repo.db.Unlock()
	repo.db.events = append(repo.db.events, events...)
	return nil
}

func (repo *auditRepository) QueryEvents(_ context.Context, filter audit.QueryFilter) ([]audit.Event, error) {
	repo.db.RLock()
	defer repo.db.RUnlock()

	events := make([]audit.Event, 0)
	for _, ev := range repo.db.events {
		if filter.Match(ev) {
			events = append(events, ev)
		}
	}
	return audit.Limit(events, filter.Limit), nil
}

func sortEnrollments(enrollments []enrollment.Enrollment) {
	sort.Slice(enrollments, func(i, j int) bool {
		if enrollments[i].StudentID != enrollments[j].StudentID {
			return enrollments[i].StudentID < enrollments[j].StudentID
		}
		return enrollments[i].CourseID < enrollments[j].CourseID
	})
}
