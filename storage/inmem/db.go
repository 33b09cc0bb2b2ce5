// Package inmemdb keeps every table in memory. Nothing is persisted.
package inmemdb

import (
	"sync"

	"github.com/Nolexnol/CourseRegistration-System/core"
	"github.com/Nolexnol/CourseRegistration-System/core/audit"
	"github.com/Nolexnol/CourseRegistration-System/core/course"
	"github.com/Nolexnol/CourseRegistration-System/core/enrollment"
	"github.com/Nolexnol/CourseRegistration-System/core/student"
)

type (
	DB struct {
		sync.RWMutex
		students    map[string]student.Student
		courses     map[string]course.Course
		enrollments map[enrollment.Enrollment]struct{}
		events      []audit.Event
	}
)

var _ core.Store = (*DB)(nil)

func Open() *DB {
	db := &DB{}
	db.reset()
	return db
}

func (db *DB) reset() {
	db.students = make(map[string]student.Student)
	db.courses = make(map[string]course.Course)
	db.enrollments = make(map[enrollment.Enrollment]struct{})
	db.events = nil
}

// Reload is a no-op: memory is the source.
func (db *DB) Reload() error { return nil }

// Close empties every table.
func (db *DB) Close() error {
	db.Lock()
	defer db.Unlock()
	db.reset()
	return nil
}
