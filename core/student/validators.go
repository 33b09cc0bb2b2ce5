package student

import (
	"unicode"

	"github.com/go-playground/validator/v10"

	"github.com/Nolexnol/CourseRegistration-System/core"
)

var (
	personNameTag  = "personname"
	personNameText = "{0} must only contain letters"
)

// register custom validators
func init() {
	_ = core.Validate.RegisterValidation(personNameTag, personNameValidation)
	core.RegisterCustomTranslation(personNameTag, personNameText)
}

// Custom Validators

// personNameValidation only allows letters and spaces.
func personNameValidation(fl validator.FieldLevel) bool {
	var letters int
	for _, r := range fl.Field().String() {
		switch {
		case unicode.IsLetter(r):
			letters++
		case r == ' ':
		default:
			return false
		}
	}
	return letters > 0
}
