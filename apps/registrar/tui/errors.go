package tui

import (
	"unicode"
	"unicode/utf8"

	"github.com/pkg/errors"

	"github.com/Nolexnol/CourseRegistration-System/core"
)

// DescribeError turns err into a message for the student.
// Rejected input and rule violations are shown as is; anything else is logged as unexpected.
func DescribeError(err error, logger core.Logger) string {
	if err == nil {
		return ""
	}
	var vErr *core.ValidationError
	if errors.As(err, &vErr) {
		msg := vErr.Error()
		if msg == "" {
			msg = err.Error()
		}
		return capitalize(msg)
	}
	logger.Error("unexpected error", err)
	return "An unexpected error occurred: " + err.Error()
}

func capitalize(s string) string {
	r, size := utf8.DecodeRuneInString(s)
	if r == utf8.RuneError {
		return s
	}
	return string(unicode.ToUpper(r)) + s[size:]
}
