package course

import (
	"github.com/go-playground/validator/v10"

	"github.com/Nolexnol/CourseRegistration-System/core"
)

var (
	weekdayTag  = "weekday"
	weekdayText = "{0} must be a weekday (Monday to Friday)"
)

// register custom validators
func init() {
	_ = core.Validate.RegisterValidation(weekdayTag, weekdayValidation)
	core.RegisterCustomTranslation(weekdayTag, weekdayText)

	core.Validate.RegisterStructValidation(newCourseStructValidation, NewCourse{})
}

// Custom Validators

func weekdayValidation(fl validator.FieldLevel) bool {
	_, err := ParseWeekday(fl.Field().String())
	return err == nil
}

// newCourseStructValidation checks that the course does not end before it starts.
func newCourseStructValidation(sl validator.StructLevel) {
	nc, ok := sl.Current().Interface().(NewCourse)
	if !ok {
		return
	}
	start, sErr := ParseClock(nc.Start)
	end, eErr := ParseClock(nc.End)
	if sErr == nil && eErr == nil && start >= end {
		sl.ReportError(nc.End, "end", "End", "gtfield", "start")
	}
}
