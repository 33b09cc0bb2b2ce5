// Package audit keeps the activity journal: one Event per registration, enrollment and drop.
package audit

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/Nolexnol/CourseRegistration-System/core"
)

type Action string

const (
	ActionRegistered    Action = "registered"
	ActionEnrolled      Action = "enrolled"
	ActionDropped       Action = "dropped"
	ActionCatalogSeeded Action = "catalog_seeded"
)

var NowFunc = time.Now // mockable

type Event struct {
	ID        string    `json:"id" yaml:"id"`
	At        time.Time `json:"at" yaml:"at"` // UTC
	Action    Action    `json:"action" yaml:"action"`
	StudentID string    `json:"student_id,omitempty" yaml:"student_id,omitempty"`
	CourseID  string    `json:"course_id,omitempty" yaml:"course_id,omitempty"`
	Detail    string    `json:"detail,omitempty" yaml:"detail,omitempty"`
}

type QueryFilter struct {
	StudentID string
	Actions   []Action
	Limit     int // most recent events only; 0 means all
}

// Match reports whether ev passes the filter (Limit aside).
func (qf QueryFilter) Match(ev Event) bool {
	if qf.StudentID != "" && ev.StudentID != core.CleanID(qf.StudentID) {
		return false
	}
	if len(qf.Actions) == 0 {
		return true
	}
	for _, a := range qf.Actions {
		if ev.Action == a {
			return true
		}
	}
	return false
}

type (
	Repository interface {
		AppendEvents(ctx context.Context, events ...Event) error
		// QueryEvents returns matching events, oldest first.
		QueryEvents(ctx context.Context, filter QueryFilter) ([]Event, error)
	}

	// Recorder is what the other services need from the journal.
	Recorder interface {
		Record(ctx context.Context, action Action, studentID, courseID, detail string)
	}

	Service struct {
		repo   Repository
		logger core.Logger
	}
)

var _ Recorder = (*Service)(nil)

func NewService(repo Repository, logger core.Logger) *Service {
	return &Service{repo: repo, logger: logger}
}

// Record appends an event to the journal.
// The journal is informational: failures are logged and never abort the recorded operation.
func (svc *Service) Record(ctx context.Context, action Action, studentID, courseID, detail string) {
	ev := Event{
		ID:        uuid.New().String(),
		At:        NowFunc().UTC(),
		Action:    action,
		StudentID: studentID,
		CourseID:  courseID,
		Detail:    detail,
	}
	if err := svc.repo.AppendEvents(ctx, ev); err != nil {
		svc.logger.Error("recording activity", err, map[string]interface{}{"action": string(action)})
		return
	}
	svc.logger.Debug("activity recorded", map[string]interface{}{
		"action": string(action), "student_id": studentID, "course_id": courseID,
	})
}

func (svc *Service) Query(ctx context.Context, filter QueryFilter) ([]Event, error) {
	return svc.repo.QueryEvents(ctx, filter)
}

// Limit keeps the n most recent events of events (ordered oldest first).
func Limit(events []Event, n int) []Event {
	if n <= 0 || len(events) <= n {
		return events
	}
	return events[len(events)-n:]
}

// NopRecorder records nothing.
type NopRecorder struct{}

func (NopRecorder) Record(context.Context, Action, string, string, string) {}
