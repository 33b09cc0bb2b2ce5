package course

import (
	"strconv"

	"github.com/Nolexnol/CourseRegistration-System/core"
)

type Course struct {
	ID          string   `json:"course_id" yaml:"course_id"`
	Name        string   `json:"name" yaml:"name"`
	Instructor  string   `json:"instructor" yaml:"instructor"`
	Schedule    Schedule `json:"schedule" yaml:"schedule"`
	MaxStudents int      `json:"max_students" yaml:"max_students"`
	Credits     int      `json:"credits" yaml:"credits"`
}

// Label is "Name (ID)", as used in messages.
func (c Course) Label() string { return c.Name + " (" + c.ID + ")" }

// Listing is a Course with its current number of enrolled students.
type Listing struct {
	Course
	Enrolled int `json:"enrolled" yaml:"enrolled"`
}

func (l Listing) Full() bool { return l.Enrolled >= l.MaxStudents }

// Seats is "enrolled/max".
func (l Listing) Seats() string {
	return strconv.Itoa(l.Enrolled) + "/" + strconv.Itoa(l.MaxStudents)
}

// NewCourse contains information needed to create a new Course.
type NewCourse struct {
	ID          string `json:"course_id" validate:"required,alphanum_,max=16"`
	Name        string `json:"name" validate:"required"`
	Instructor  string `json:"instructor" validate:"required"`
	Day         string `json:"day" validate:"required,weekday"`
	Start       string `json:"start" validate:"required,clock"`
	End         string `json:"end" validate:"required,clock"`
	MaxStudents int    `json:"max_students" validate:"gte=1"`
	Credits     int    `json:"credits" validate:"gte=1"`
}

func (nc *NewCourse) Validate() error {
	nc.ID = core.CleanID(nc.ID)
	nc.Name = core.CollapseSpaces(nc.Name)
	nc.Instructor = core.CollapseSpaces(nc.Instructor)
	nc.Day = core.CleanString(nc.Day)
	// accept H:MM
	if c, err := ParseClock(nc.Start); err == nil {
		nc.Start = c.String()
	}
	if c, err := ParseClock(nc.End); err == nil {
		nc.End = c.String()
	}
	return core.CheckStruct(nc)
}

type QueryFilter struct {
	Search    string // case-insensitive match on ID, Name or Instructor
	Day       Weekday
	Available bool // only courses with free seats
}

func (qf *QueryFilter) Clean() {
	qf.Search = core.CleanString(qf.Search, true /* lower */)
}
