package student

import (
	"strings"

	"github.com/Nolexnol/CourseRegistration-System/core"
)

type Student struct {
	ID   string `json:"student_id" yaml:"student_id"`
	Name string `json:"name" yaml:"name"`
}

// MatchesName compares names case-insensitively, ignoring extra spaces.
func (s Student) MatchesName(name string) bool {
	return strings.EqualFold(core.CollapseSpaces(s.Name), core.CollapseSpaces(name))
}

// NewStudent contains information needed to register a new Student.
type NewStudent struct {
	ID   string `json:"student_id" validate:"required,alphanum,max=20"`
	Name string `json:"name" validate:"required,personname,max=100"`
}

func (ns *NewStudent) Validate() error {
	ns.ID = core.CleanID(ns.ID)
	ns.Name = core.CollapseSpaces(ns.Name)
	return core.CheckStruct(ns)
}

// Credentials identify a student: there are no passwords, only ID and name.
type Credentials struct {
	ID   string `json:"student_id" validate:"required"`
	Name string `json:"name" validate:"required"`
}

func (c *Credentials) Validate() error {
	c.ID = core.CleanID(c.ID)
	c.Name = core.CollapseSpaces(c.Name)
	if err := core.Validate.Struct(c); err != nil {
		return core.NewValidationError(ErrMissingCredentials)
	}
	return nil
}
