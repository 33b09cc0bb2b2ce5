package student

import (
	"context"

	"github.com/pkg/errors"

	"github.com/Nolexnol/CourseRegistration-System/core"
	"github.com/Nolexnol/CourseRegistration-System/core/audit"
)

var (
	// errors
	ErrNotFound           = errors.New("student ID not found, please register or check the ID")
	ErrStudentExists      = errors.New("a student with this ID is already registered, please log in")
	ErrNameMismatch       = errors.New("incorrect name for this student ID")
	ErrMissingCredentials = errors.New("please enter both student ID and name")
)

type (
	Repository interface {
		// CreateStudent fails with ErrStudentExists when the ID is taken.
		CreateStudent(ctx context.Context, std Student) (Student, error)
		// QueryAllStudents returns every student ordered by ID.
		QueryAllStudents(ctx context.Context) ([]Student, error)
		GetStudent(ctx context.Context, id string) (Student, error)
	}

	Service struct {
		repo     Repository
		recorder audit.Recorder
		logger   core.Logger
	}
)

func NewService(repo Repository, recorder audit.Recorder, logger core.Logger) *Service {
	return &Service{repo: repo, recorder: recorder, logger: logger}
}

func (svc *Service) Register(ctx context.Context, ns NewStudent) (Student, error) {
	if err := ns.Validate(); err != nil {
		return Student{}, err
	}

	std, err := svc.repo.CreateStudent(ctx, Student{ID: ns.ID, Name: ns.Name})
	if err != nil {
		if errors.Is(err, ErrStudentExists) {
			return Student{}, core.NewValidationError(
				errors.Wrapf(ErrStudentExists, "student ID '%s'", ns.ID),
				core.FieldError{Field: "student_id", Error: ErrStudentExists.Error()},
			)
		}
		return Student{}, errors.Wrap(err, "registering student")
	}
	svc.recorder.Record(ctx, audit.ActionRegistered, std.ID, "", std.Name)
	svc.logger.Info("student registered", std)
	return std, nil
}

// Login looks the student up by ID and checks the name.
func (svc *Service) Login(ctx context.Context, creds Credentials) (Student, error) {
	if err := creds.Validate(); err != nil {
		return Student{}, err
	}
	std, err := svc.Get(ctx, creds.ID)
	if err != nil {
		return Student{}, err
	}
	if !std.MatchesName(creds.Name) {
		return Student{}, core.NewValidationError(ErrNameMismatch, core.FieldError{Field: "name", Error: ErrNameMismatch.Error()})
	}
	svc.logger.Debug("student logged in", std)
	return std, nil
}

// Get returns the student with the given ID. A missing student is a *core.ValidationError wrapping ErrNotFound.
func (svc *Service) Get(ctx context.Context, id string) (Student, error) {
	id = core.CleanID(id)
	std, err := svc.repo.GetStudent(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return Student{}, core.NewValidationError(errors.Wrapf(ErrNotFound, "student '%s'", id))
		}
		return Student{}, err
	}
	return std, nil
}

func (svc *Service) QueryAll(ctx context.Context) ([]Student, error) {
	return svc.repo.QueryAllStudents(ctx)
}
