package csvdb

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nolexnol/CourseRegistration-System/core/audit"
	"github.com/Nolexnol/CourseRegistration-System/core/course"
	"github.com/Nolexnol/CourseRegistration-System/core/enrollment"
	"github.com/Nolexnol/CourseRegistration-System/core/student"
)

func writeFile(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
}

func readFile(t *testing.T, dir, name string) string {
	t.Helper()
	b, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return string(b)
}

func openDB(t *testing.T, dir string) *DB {
	t.Helper()
	db, err := Open(dir, Options{})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func TestOpen_emptyDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	db := openDB(t, dir)

	info, err := os.Stat(dir)
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Equal(t, dir, db.Dir())
	assert.Len(t, db.Files(), 3)

	students, err := NewStudentRepository(db).QueryAllStudents(context.Background())
	require.NoError(t, err)
	assert.Empty(t, students)
}

func TestOpen_loadRules(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, StudentsFile, "student_id,name\n"+
		"s2,Bob Ray\n"+
		"S1, Alice \n"+
		",Nobody\n"+
		"S3,\n"+
		"\n")
	writeFile(t, dir, CoursesFile, "course_id,name,instructor,day,time,max_students,credits\n"+
		"cs101,Intro,Prof. Wilson,Monday,13:00-14:20,30,3\n"+
		"MATH101,Calculus I,Dr. Smith,mon,11:00-11:50,abc,\n"+
		"BAD1,Weekend,Dr. X,Saturday,10:00-11:00,10,3\n"+
		"BAD2,Inverted,Dr. X,Tuesday,11:00-10:00,10,3\n"+
		"BAD3,Too Late,Dr. X,Tuesday,17:00-18:00,10,3\n"+
		"BAD4,No Time,Dr. X,Tuesday,,10,3\n"+
		"BAD5,Short\n")
	writeFile(t, dir, EnrollmentsFile, "student_id,course_id\n"+
		"S1,CS101\n"+
		"s2,math101\n"+
		"S9,CS101\n"+
		"S1,NOPE1\n")

	db := openDB(t, dir)
	ctx := context.Background()

	students, err := NewStudentRepository(db).QueryAllStudents(ctx)
	require.NoError(t, err)
	assert.Equal(t, []student.Student{{ID: "S1", Name: "Alice"}, {ID: "S2", Name: "Bob Ray"}}, students)

	courses, err := NewCourseRepository(db).QueryAllCourses(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 2)
	assert.Equal(t, "CS101", courses[0].ID)
	assert.Equal(t, "Monday 13:00-14:20", courses[0].Schedule.String())
	assert.Equal(t, "MATH101", courses[1].ID)
	assert.Equal(t, course.Monday, courses[1].Schedule.Day)
	assert.Equal(t, 30, courses[1].MaxStudents, "non numeric capacity falls back to the default")
	assert.Equal(t, 3, courses[1].Credits, "missing credits fall back to the default")

	enrollments, err := NewEnrollmentRepository(db).QueryEnrollments(ctx, enrollment.QueryFilter{})
	require.NoError(t, err)
	assert.Equal(t, []enrollment.Enrollment{
		{StudentID: "S1", CourseID: "CS101"},
		{StudentID: "S2", CourseID: "MATH101"},
	}, enrollments)
}

func TestOpen_customDefaults(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, CoursesFile, "course_id,name,instructor,day,time\n"+
		"LATE1,Evening Class,Dr. Owl,Friday,18:00-19:00\n")

	db, err := Open(dir, Options{
		Hours:           course.TeachingHours{Start: course.MustParseClock("08:00"), End: course.MustParseClock("21:00")},
		DefaultCapacity: 12,
		DefaultCredits:  2,
	})
	require.NoError(t, err)

	crs, err := NewCourseRepository(db).GetCourse(context.Background(), "LATE1")
	require.NoError(t, err)
	assert.Equal(t, 12, crs.MaxStudents)
	assert.Equal(t, 2, crs.Credits)
}

func TestOpen_malformedRowsAreSkipped(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, StudentsFile, "student_id,name\nS1,\"Alice\nS2,Bob\n")

	db := openDB(t, dir)
	_, err := NewStudentRepository(db).QueryAllStudents(context.Background())
	require.NoError(t, err)
}

func TestStudentRepository(t *testing.T) {
	dir := t.TempDir()
	db := openDB(t, dir)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	_, err := repo.CreateStudent(ctx, student.Student{ID: "S2", Name: "Bob"})
	require.NoError(t, err)
	_, err = repo.CreateStudent(ctx, student.Student{ID: "S1", Name: "Alice"})
	require.NoError(t, err)

	_, err = repo.CreateStudent(ctx, student.Student{ID: "S1", Name: "Again"})
	assert.ErrorIs(t, err, student.ErrStudentExists)

	assert.Equal(t, "student_id,name\nS1,Alice\nS2,Bob\n", readFile(t, dir, StudentsFile))

	std, err := repo.GetStudent(ctx, "S2")
	require.NoError(t, err)
	assert.Equal(t, "Bob", std.Name)

	_, err = repo.GetStudent(ctx, "S3")
	assert.ErrorIs(t, err, student.ErrNotFound)
}

func TestStudentRepository_saveFailureRollsBack(t *testing.T) {
	dir := t.TempDir()
	db := openDB(t, dir)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	// a directory in place of the file makes the rename fail
	require.NoError(t, os.Mkdir(filepath.Join(dir, StudentsFile), 0o755))
	writeFile(t, filepath.Join(dir, StudentsFile), "keep", "")

	_, err := repo.CreateStudent(ctx, student.Student{ID: "S1", Name: "Alice"})
	require.Error(t, err)

	_, err = repo.GetStudent(ctx, "S1")
	assert.ErrorIs(t, err, student.ErrNotFound)
}

func TestCourseRepository(t *testing.T) {
	dir := t.TempDir()
	db := openDB(t, dir)
	repo := NewCourseRepository(db)
	ctx := context.Background()

	catalog := course.DefaultCatalog()
	require.NoError(t, repo.CreateCourses(ctx, catalog...))
	assert.ErrorIs(t, repo.CreateCourses(ctx, catalog[0]), course.ErrCourseExists)

	dup := catalog[1]
	dup.ID = "NEW100"
	assert.ErrorIs(t, repo.CreateCourses(ctx, dup, dup), course.ErrCourseExists)
	_, err := repo.GetCourse(ctx, "NEW100")
	assert.ErrorIs(t, err, course.ErrNotFound)

	lines := strings.Split(strings.TrimSpace(readFile(t, dir, CoursesFile)), "\n")
	require.Len(t, lines, len(catalog)+1)
	assert.Equal(t, "course_id,name,instructor,day,time,max_students,credits", lines[0])
	assert.Equal(t, "ART101,Art Appreciation,Dr. White,Friday,10:00-10:50,20,3", lines[1])

	// round trip
	require.NoError(t, db.Reload())
	courses, err := repo.QueryAllCourses(ctx)
	require.NoError(t, err)
	assert.Len(t, courses, len(catalog))
	crs, err := repo.GetCourse(ctx, "MATH101")
	require.NoError(t, err)
	assert.Equal(t, catalog[0], crs)
}

func TestEnrollmentRepository(t *testing.T) {
	dir := t.TempDir()
	db := openDB(t, dir)
	ctx := context.Background()

	require.NoError(t, NewCourseRepository(db).CreateCourses(ctx, course.DefaultCatalog()...))
	for _, id := range []string{"S2", "S1"} {
		_, err := NewStudentRepository(db).CreateStudent(ctx, student.Student{ID: id, Name: "Student " + id})
		require.NoError(t, err)
	}

	repo := NewEnrollmentRepository(db)
	for _, e := range []enrollment.Enrollment{
		{StudentID: "S2", CourseID: "MATH101"},
		{StudentID: "S1", CourseID: "PHYS101"},
		{StudentID: "S1", CourseID: "CHEM101"},
	} {
		require.NoError(t, repo.CreateEnrollment(ctx, e))
	}
	assert.ErrorIs(t, repo.CreateEnrollment(ctx, enrollment.Enrollment{StudentID: "S1", CourseID: "CHEM101"}),
		enrollment.ErrAlreadyEnrolled)

	assert.Equal(t, "student_id,course_id\nS1,CHEM101\nS1,PHYS101\nS2,MATH101\n", readFile(t, dir, EnrollmentsFile))

	mine, err := repo.QueryEnrollments(ctx, enrollment.QueryFilter{StudentID: "S1"})
	require.NoError(t, err)
	assert.Len(t, mine, 2)

	require.NoError(t, repo.DeleteEnrollment(ctx, enrollment.Enrollment{StudentID: "S1", CourseID: "PHYS101"}))
	assert.ErrorIs(t, repo.DeleteEnrollment(ctx, enrollment.Enrollment{StudentID: "S1", CourseID: "PHYS101"}),
		enrollment.ErrNotEnrolled)
	assert.Equal(t, "student_id,course_id\nS1,CHEM101\nS2,MATH101\n", readFile(t, dir, EnrollmentsFile))
}

func TestDB_Reload(t *testing.T) {
	dir := t.TempDir()
	db := openDB(t, dir)
	repo := NewStudentRepository(db)
	ctx := context.Background()

	_, err := repo.CreateStudent(ctx, student.Student{ID: "S1", Name: "Alice"})
	require.NoError(t, err)

	// edited by hand while the app runs
	writeFile(t, dir, StudentsFile, "student_id,name\nS1,Alice\nS7,Grace Hopper\n")
	require.NoError(t, db.Reload())

	std, err := repo.GetStudent(ctx, "S7")
	require.NoError(t, err)
	assert.Equal(t, "Grace Hopper", std.Name)
}

func TestAuditRepository(t *testing.T) {
	dir := t.TempDir()
	db := openDB(t, dir)
	repo := NewAuditRepository(db)
	ctx := context.Background()

	at := time.Date(2024, 9, 2, 10, 30, 0, 0, time.UTC)
	events := []audit.Event{
		{ID: "1", At: at, Action: audit.ActionRegistered, StudentID: "S1", Detail: "Alice"},
		{ID: "2", At: at.Add(time.Minute), Action: audit.ActionEnrolled, StudentID: "S1", CourseID: "CS101", Detail: "Intro, to Programming"},
		{ID: "3", At: at.Add(2 * time.Minute), Action: audit.ActionEnrolled, StudentID: "S2", CourseID: "CS101"},
	}
	require.NoError(t, repo.AppendEvents(ctx, events[:1]...))
	require.NoError(t, repo.AppendEvents(ctx, events[1:]...))

	content := readFile(t, dir, HistoryFile)
	assert.True(t, strings.HasPrefix(content, "id,at,action,student_id,course_id,detail\n"))
	assert.Equal(t, 1, strings.Count(content, "id,at,action"), "header is written once")

	got, err := repo.QueryEvents(ctx, audit.QueryFilter{})
	require.NoError(t, err)
	assert.Equal(t, events, got)

	got, err = repo.QueryEvents(ctx, audit.QueryFilter{StudentID: "s1", Actions: []audit.Action{audit.ActionEnrolled}})
	require.NoError(t, err)
	assert.Equal(t, events[1:2], got)

	got, err = repo.QueryEvents(ctx, audit.QueryFilter{Limit: 1})
	require.NoError(t, err)
	assert.Equal(t, events[2:], got)
}
