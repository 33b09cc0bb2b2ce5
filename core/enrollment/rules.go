package enrollment

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/Nolexnol/CourseRegistration-System/core"
	"github.com/Nolexnol/CourseRegistration-System/core/course"
)

var (
	// errors
	ErrAlreadyEnrolled = errors.New("already enrolled")
	ErrNotEnrolled     = errors.New("not enrolled")
	ErrCourseFull      = errors.New("course is full")
	ErrCreditLimit     = errors.New("credit limit exceeded")
	ErrTimeConflict    = errors.New("time conflict")
)

// RuleError is a rejected enrollment or drop. Rule is one of the sentinel errors above.
type RuleError struct {
	Rule error
	Msg  string
}

func (err *RuleError) Error() string { return err.Msg }

func (err *RuleError) Unwrap() error { return err.Rule }

func ruleError(rule error, format string, args ...interface{}) error {
	return core.NewValidationError(&RuleError{Rule: rule, Msg: fmt.Sprintf(format, args...)})
}

// checkNotEnrolled rejects a course already in the student's courses.
func checkNotEnrolled(crs course.Course, enrolled []course.Course) error {
	for _, c := range enrolled {
		if c.ID == crs.ID {
			return ruleError(ErrAlreadyEnrolled, "already enrolled in %s", crs.Label())
		}
	}
	return nil
}

// checkCapacity rejects a course whose seats are all taken.
func checkCapacity(crs course.Course, enrolledCount int) error {
	if enrolledCount >= crs.MaxStudents {
		return ruleError(ErrCourseFull, "course %s is full", crs.Label())
	}
	return nil
}

// checkCredits rejects a course that would take the student over max credits.
func checkCredits(crs course.Course, current, max int) error {
	if current+crs.Credits > max {
		return ruleError(ErrCreditLimit,
			"cannot enroll, exceeds max %d credits (current: %d, adding: %d)", max, current, crs.Credits)
	}
	return nil
}

// checkConflicts rejects a course overlapping one of the student's courses.
func checkConflicts(crs course.Course, enrolled []course.Course) error {
	for _, c := range enrolled {
		if crs.Schedule.Conflicts(c.Schedule) {
			return ruleError(ErrTimeConflict, "time conflict with %s (%s)", c.Label(), c.Schedule)
		}
	}
	return nil
}
