package enrollment

import (
	"github.com/Nolexnol/CourseRegistration-System/core"
	"github.com/Nolexnol/CourseRegistration-System/core/course"
	"github.com/Nolexnol/CourseRegistration-System/core/student"
)

// Enrollment links a student to a course.
type Enrollment struct {
	StudentID string `json:"student_id" yaml:"student_id"`
	CourseID  string `json:"course_id" yaml:"course_id"`
}

type QueryFilter struct {
	StudentID string
	CourseID  string
}

func (qf QueryFilter) Match(e Enrollment) bool {
	return (qf.StudentID == "" || e.StudentID == qf.StudentID) &&
		(qf.CourseID == "" || e.CourseID == qf.CourseID)
}

// Rules are the credit bounds of a student's registration.
type Rules struct {
	MinCredits int
	MaxCredits int
}

func RulesFromConfig(conf *core.Config) Rules {
	return Rules{MinCredits: conf.Rules.MinCredits, MaxCredits: conf.Rules.MaxCredits}
}

// DropResult tells what is left after a drop.
// BelowMinimum is a warning only: dropping under the minimum is allowed.
type DropResult struct {
	CourseID         string
	Course           *course.Course // nil when the course left the catalog
	RemainingCredits int
	MinCredits       int
	BelowMinimum     bool
}

// Summary is a student's registration at a glance.
type Summary struct {
	Student    student.Student `json:"student" yaml:"student"`
	Courses    []course.Course `json:"courses" yaml:"courses"`
	Credits    int             `json:"credits" yaml:"credits"`
	MinCredits int             `json:"min_credits" yaml:"min_credits"`
	MaxCredits int             `json:"max_credits" yaml:"max_credits"`
}

func (s Summary) BelowMinimum() bool { return s.Credits < s.MinCredits }

// TotalCredits sums the credits of courses.
func TotalCredits(courses []course.Course) int {
	var total int
	for _, crs := range courses {
		total += crs.Credits
	}
	return total
}
