// Package csvdb stores the registration tables as CSV files in a data directory.
//
// Every table is loaded in memory when the DB is opened. A repository write updates memory and
// rewrites the whole table it touched (temp file + rename); history.csv is append-only.
package csvdb

import (
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"

	"github.com/pkg/errors"

	"github.com/Nolexnol/CourseRegistration-System/core"
	"github.com/Nolexnol/CourseRegistration-System/core/course"
	"github.com/Nolexnol/CourseRegistration-System/core/enrollment"
	"github.com/Nolexnol/CourseRegistration-System/core/student"
)

const (
	StudentsFile    = "students.csv"
	CoursesFile     = "courses.csv"
	EnrollmentsFile = "enrollments.csv"
	HistoryFile     = "history.csv"
)

var (
	studentColumns    = []string{"student_id", "name"}
	courseColumns     = []string{"course_id", "name", "instructor", "day", "time", "max_students", "credits"}
	enrollmentColumns = []string{"student_id", "course_id"}
	historyColumns    = []string{"id", "at", "action", "student_id", "course_id", "detail"}
)

type (
	Options struct {
		Hours           course.TeachingHours
		DefaultCapacity int
		DefaultCredits  int
		Logger          core.Logger
	}

	DB struct {
		sync.RWMutex
		dir  string
		opts Options

		students    map[string]student.Student
		courses     map[string]course.Course
		enrollments map[enrollment.Enrollment]struct{}
	}
)

var _ core.Store = (*DB)(nil)

// OptionsFromConfig builds Options out of the rules config.
func OptionsFromConfig(conf *core.Config, logger core.Logger) (Options, error) {
	hours, err := course.TeachingHoursFromConfig(conf)
	if err != nil {
		return Options{}, err
	}
	return Options{
		Hours:           hours,
		DefaultCapacity: conf.Rules.DefaultCapacity,
		DefaultCredits:  conf.Rules.DefaultCredits,
		Logger:          logger,
	}, nil
}

// Open creates dir if needed and loads every table found in it. Missing files are empty tables.
func Open(dir string, opts Options) (*DB, error) {
	if opts.Logger == nil {
		opts.Logger = core.NopLogger{}
	}
	if opts.Hours == (course.TeachingHours{}) {
		opts.Hours = course.DefaultTeachingHours
	}
	if opts.DefaultCapacity <= 0 {
		opts.DefaultCapacity = 30
	}
	if opts.DefaultCredits <= 0 {
		opts.DefaultCredits = 3
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrap(err, "creating data directory")
	}

	db := &DB{dir: dir, opts: opts}
	if err := db.Reload(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *DB) Dir() string { return db.dir }

func (db *DB) path(name string) string { return filepath.Join(db.dir, name) }

// Files lists the table files the DB loads from.
func (db *DB) Files() []string {
	return []string{db.path(StudentsFile), db.path(CoursesFile), db.path(EnrollmentsFile)}
}

// Reload reads all tables again. The in-memory tables are only replaced when loading succeeds.
func (db *DB) Reload() error {
	students, err := db.loadStudents()
	if err != nil {
		return errors.Wrap(err, "loading students")
	}
	courses, err := db.loadCourses()
	if err != nil {
		return errors.Wrap(err, "loading courses")
	}
	enrollments, err := db.loadEnrollments(students, courses)
	if err != nil {
		return errors.Wrap(err, "loading enrollments")
	}

	db.Lock()
	db.students, db.courses, db.enrollments = students, courses, enrollments
	db.Unlock()

	db.opts.Logger.Debug("data loaded", map[string]interface{}{
		"dir": db.dir, "students": len(students), "courses": len(courses), "enrollments": len(enrollments),
	})
	return nil
}

func (db *DB) Close() error { return nil }

func (db *DB) warnRow(file string, line int, reason string, err ...error) {
	args := []interface{}{map[string]interface{}{"file": file, "line": line, "reason": reason}}
	for _, e := range err {
		args = append(args, e)
	}
	db.opts.Logger.Warn("skipping invalid row", args...)
}

func (db *DB) loadStudents() (map[string]student.Student, error) {
	students := make(map[string]student.Student)
	err := readTable(db.path(StudentsFile), func(line int, row []string) {
		if len(row) < 2 || row[0] == "" || row[1] == "" {
			db.warnRow(StudentsFile, line, "student_id and name are required")
			return
		}
		id := core.CleanID(row[0])
		students[id] = student.Student{ID: id, Name: core.CollapseSpaces(row[1])}
	}, db.warnRow)
	return students, err
}

// parseCount reads a positive integer column, falling back to def.
func parseCount(row []string, idx, def int) int {
	if idx >= len(row) {
		return def
	}
	n, err := strconv.Atoi(row[idx])
	if err != nil || n < 1 {
		return def
	}
	return n
}

func (db *DB) loadCourses() (map[string]course.Course, error) {
	courses := make(map[string]course.Course)
	err := readTable(db.path(CoursesFile), func(line int, row []string) {
		if len(row) < 5 {
			db.warnRow(CoursesFile, line, "too few columns")
			return
		}
		for _, v := range row[:5] {
			if v == "" {
				db.warnRow(CoursesFile, line, "course_id, name, instructor, day and time are required")
				return
			}
		}

		start, end, err := course.ParseTimeRange(row[4])
		if err != nil {
			db.warnRow(CoursesFile, line, "invalid time", err)
			return
		}
		day, err := course.ParseWeekday(row[3])
		if err != nil {
			db.warnRow(CoursesFile, line, "invalid day", err)
			return
		}
		sch := course.Schedule{Day: day, Start: start, End: end}
		if err = db.opts.Hours.Check(sch); err != nil {
			db.warnRow(CoursesFile, line, "invalid schedule", err)
			return
		}

		id := core.CleanID(row[0])
		courses[id] = course.Course{
			ID:          id,
			Name:        row[1],
			Instructor:  row[2],
			Schedule:    sch,
			MaxStudents: parseCount(row, 5, db.opts.DefaultCapacity),
			Credits:     parseCount(row, 6, db.opts.DefaultCredits),
		}
	}, db.warnRow)
	return courses, err
}

func (db *DB) loadEnrollments(
	students map[string]student.Student,
	courses map[string]course.Course,
) (map[enrollment.Enrollment]struct{}, error) {
	enrollments := make(map[enrollment.Enrollment]struct{})
	err := readTable(db.path(EnrollmentsFile), func(line int, row []string) {
		if len(row) < 2 {
			db.warnRow(EnrollmentsFile, line, "too few columns")
			return
		}
		e := enrollment.Enrollment{StudentID: core.CleanID(row[0]), CourseID: core.CleanID(row[1])}
		_, stdOk := students[e.StudentID]
		_, crsOk := courses[e.CourseID]
		if !stdOk || !crsOk {
			db.warnRow(EnrollmentsFile, line, "unknown student or course")
			return
		}
		enrollments[e] = struct{}{}
	}, db.warnRow)
	return enrollments, err
}

// the save* methods expect the caller to hold the lock.

func (db *DB) saveStudents() error {
	ids := make([]string, 0, len(db.students))
	for id := range db.students {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	rows := make([][]string, 0, len(ids))
	for _, id := range ids {
		rows = append(rows, []string{id, db.students[id].Name})
	}
	return errors.Wrap(writeTable(db.path(StudentsFile), studentColumns, rows), "saving students")
}

func (db *DB) saveCourses() error {
	courses := make([]course.Course, 0, len(db.courses))
	for _, crs := range db.courses {
		courses = append(courses, crs)
	}
	sort.Slice(courses, func(i, j int) bool { return courses[i].ID < courses[j].ID })

	rows := make([][]string, 0, len(courses))
	for _, crs := range courses {
		rows = append(rows, []string{
			crs.ID,
			crs.Name,
			crs.Instructor,
			string(crs.Schedule.Day),
			crs.Schedule.TimeRange(),
			strconv.Itoa(crs.MaxStudents),
			strconv.Itoa(crs.Credits),
		})
	}
	return errors.Wrap(writeTable(db.path(CoursesFile), courseColumns, rows), "saving courses")
}

// saveEnrollments only writes enrollments whose student and course both exist.
func (db *DB) saveEnrollments() error {
	enrollments := make([]enrollment.Enrollment, 0, len(db.enrollments))
	for e := range db.enrollments {
		_, stdOk := db.students[e.StudentID]
		_, crsOk := db.courses[e.CourseID]
		if stdOk && crsOk {
			enrollments = append(enrollments, e)
		}
	}
	sortEnrollments(enrollments)

	rows := make([][]string, 0, len(enrollments))
	for _, e := range enrollments {
		rows = append(rows, []string{e.StudentID, e.CourseID})
	}
	return errors.Wrap(writeTable(db.path(EnrollmentsFile), enrollmentColumns, rows), "saving enrollments")
}

func sortEnrollments(enrollments []enrollment.Enrollment) {
	sort.Slice(enrollments, func(i, j int) bool {
		if enrollments[i].StudentID != enrollments[j].StudentID {
			return enrollments[i].StudentID < enrollments[j].StudentID
		}
		return strings.Compare(enrollments[i].CourseID, enrollments[j].CourseID) < 0
	})
}
