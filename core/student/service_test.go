package student_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nolexnol/CourseRegistration-System/core"
	"github.com/Nolexnol/CourseRegistration-System/core/audit"
	"github.com/Nolexnol/CourseRegistration-System/core/student"
	"github.com/Nolexnol/CourseRegistration-System/tests"
)

func TestService_Register(t *testing.T) {
	svcs := testutil.NewServices(t, false)
	ctx := context.Background()

	std, err := svcs.Students.Register(ctx, student.NewStudent{ID: " s1001 ", Name: "  Ada   Lovelace "})
	require.NoError(t, err)
	assert.Equal(t, student.Student{ID: "S1001", Name: "Ada Lovelace"}, std)

	tests := []struct {
		name      string
		ns        student.NewStudent
		wantErr   error
		wantField string
	}{
		{name: "no ID", ns: student.NewStudent{Name: "Ada"}, wantField: "student_id"},
		{name: "no name", ns: student.NewStudent{ID: "S2", Name: "   "}, wantField: "name"},
		{name: "ID with symbols", ns: student.NewStudent{ID: "S.2", Name: "Ada"}, wantField: "student_id"},
		{name: "name with digits", ns: student.NewStudent{ID: "S2", Name: "Ada 2"}, wantField: "name"},
		{name: "accented name", ns: student.NewStudent{ID: "S3", Name: "Élodie Brontë"}},
		{name: "duplicate", ns: student.NewStudent{ID: "s1001", Name: "Alan Turing"}, wantErr: student.ErrStudentExists, wantField: "student_id"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svcs.Students.Register(ctx, tt.ns)
			if tt.wantField == "" {
				require.NoError(t, err)
				return
			}
			require.Error(t, err)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			}
			vErr, ok := err.(*core.ValidationError)
			require.True(t, ok, "got %T", err)
			require.NotEmpty(t, vErr.Fields)
			assert.Equal(t, tt.wantField, vErr.Fields[0].Field)
		})
	}

	all, err := svcs.Students.QueryAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, []student.Student{{ID: "S1001", Name: "Ada Lovelace"}, {ID: "S3", Name: "Élodie Brontë"}}, all)

	events, err := svcs.History.Query(ctx, audit.QueryFilter{Actions: []audit.Action{audit.ActionRegistered}})
	require.NoError(t, err)
	assert.Len(t, events, 2)
}

func TestService_Login(t *testing.T) {
	svcs := testutil.NewServices(t, false)
	testutil.CreateStudent(t, svcs.StudentRepo, "S1", "Ada Lovelace")

	tests := []struct {
		name    string
		creds   student.Credentials
		wantErr error
	}{
		{name: "exact", creds: student.Credentials{ID: "S1", Name: "Ada Lovelace"}},
		{name: "case and spaces", creds: student.Credentials{ID: " s1", Name: "ada  LOVELACE "}},
		{name: "no ID", creds: student.Credentials{Name: "Ada Lovelace"}, wantErr: student.ErrMissingCredentials},
		{name: "no name", creds: student.Credentials{ID: "S1", Name: " "}, wantErr: student.ErrMissingCredentials},
		{name: "unknown ID", creds: student.Credentials{ID: "S2", Name: "Ada Lovelace"}, wantErr: student.ErrNotFound},
		{name: "wrong name", creds: student.Credentials{ID: "S1", Name: "Ada"}, wantErr: student.ErrNameMismatch},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			std, err := svcs.Students.Login(context.Background(), tt.creds)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.True(t, core.IsValidation(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "S1", std.ID)
			assert.Equal(t, "Ada Lovelace", std.Name)
		})
	}
}
