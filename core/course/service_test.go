package course_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nolexnol/CourseRegistration-System/core"
	"github.com/Nolexnol/CourseRegistration-System/core/course"
	"github.com/Nolexnol/CourseRegistration-System/tests"
)

func TestService_Create(t *testing.T) {
	svcs := testutil.NewServices(t, true)
	ctx := context.Background()

	crs, err := svcs.Courses.Create(ctx, course.NewCourse{
		ID: "cs201", Name: "Data Structures", Instructor: "Prof. Wilson", Day: "Thu", Start: "14:00", End: "15:20",
	})
	require.NoError(t, err)
	assert.Equal(t, "CS201", crs.ID)
	assert.Equal(t, 30, crs.MaxStudents, "default capacity")
	assert.Equal(t, 3, crs.Credits, "default credits")
	assert.Equal(t, "Thursday 14:00-15:20", crs.Schedule.String())

	got, err := svcs.Courses.Get(ctx, " Cs201")
	require.NoError(t, err)
	assert.Equal(t, crs, got)

	tests := []struct {
		name    string
		nc      course.NewCourse
		wantErr error
	}{
		{
			name:    "duplicate",
			nc:      course.NewCourse{ID: "MATH101", Name: "Calculus", Instructor: "Dr. Smith", Day: "mon", Start: "09:00", End: "09:50"},
			wantErr: course.ErrCourseExists,
		},
		{
			name:    "before teaching hours",
			nc:      course.NewCourse{ID: "EARLY1", Name: "Early", Instructor: "Dr. Dawn", Day: "mon", Start: "07:00", End: "07:50"},
			wantErr: course.ErrOutsideTeaching,
		},
		{
			name:    "after teaching hours",
			nc:      course.NewCourse{ID: "LATE1", Name: "Late", Instructor: "Dr. Dusk", Day: "fri", Start: "17:00", End: "18:00"},
			wantErr: course.ErrOutsideTeaching,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svcs.Courses.Create(ctx, tt.nc)
			require.Error(t, err)
			assert.ErrorIs(t, err, tt.wantErr)
			assert.True(t, core.IsValidation(err))
		})
	}
}

func TestService_SeedDefaults(t *testing.T) {
	svcs := testutil.NewServices(t, false)
	ctx := context.Background()

	n, err := svcs.Courses.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Equal(t, 12, n)

	n, err = svcs.Courses.SeedDefaults(ctx)
	require.NoError(t, err)
	assert.Zero(t, n, "catalog is only seeded when empty")

	courses, err := svcs.Courses.QueryAll(ctx)
	require.NoError(t, err)
	require.Len(t, courses, 12)
	assert.Equal(t, "ART101", courses[0].ID)
}

func TestService_SeedDefaults_narrowHours(t *testing.T) {
	svcs := testutil.NewServices(t, false)
	conf := testutil.Config()
	conf.Rules.DayStart = "09:00"
	svc, err := course.NewService(svcs.CourseRepo, conf, core.NopLogger{})
	require.NoError(t, err)

	n, err := svc.SeedDefaults(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 11, n, "SPAN101 starts at 08:00")

	_, err = svcs.Courses.Get(context.Background(), "SPAN101")
	assert.ErrorIs(t, err, course.ErrNotFound)
}

func TestNewService_invalidHours(t *testing.T) {
	conf := testutil.Config()
	conf.Rules.DayStart, conf.Rules.DayEnd = "18:00", "08:00"
	_, err := course.NewService(nil, conf, core.NopLogger{})
	assert.Error(t, err)
}

func TestService_Get(t *testing.T) {
	svcs := testutil.NewServices(t, true)
	ctx := context.Background()

	tests := []struct {
		id              string
		wantSuggestions []string
	}{
		{id: "MATH11", wantSuggestions: []string{"MATH101"}},
		{id: "chem10", wantSuggestions: []string{"CHEM101"}},
		{id: "XYZ", wantSuggestions: []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			_, err := svcs.Courses.Get(ctx, tt.id)
			assert.ErrorIs(t, err, course.ErrNotFound)
			var nfErr *course.NotFoundError
			require.ErrorAs(t, err, &nfErr)
			assert.Equal(t, core.CleanID(tt.id), nfErr.ID)
			assert.Equal(t, tt.wantSuggestions, nfErr.Suggestions)
		})
	}

	err := &course.NotFoundError{ID: "CS11", Suggestions: []string{"CS101", "CS110"}}
	assert.Equal(t, "course 'CS11' does not exist (did you mean CS101, CS110?)", err.Error())
	assert.Equal(t, "course 'X' does not exist", (&course.NotFoundError{ID: "X"}).Error())
}

func TestFilterSort(t *testing.T) {
	svcs := testutil.NewServices(t, true)
	ctx := context.Background()
	testutil.CreateStudent(t, svcs.StudentRepo, "S1", "Ada Lovelace")
	testutil.CreateCourse(t, svcs.CourseRepo, "TINY1", course.Tuesday, "16:00", "16:50", 1, 1)
	testutil.Enroll(t, svcs.EnrollRepo, "S1", "TINY1")

	listings, err := svcs.Enrollments.Catalog(ctx)
	require.NoError(t, err)
	require.Len(t, listings, 13)

	ids := func(listings []course.Listing) []string {
		res := make([]string, 0, len(listings))
		for _, l := range listings {
			res = append(res, l.ID)
		}
		return res
	}

	t.Run("filter", func(t *testing.T) {
		tests := []struct {
			name   string
			filter course.QueryFilter
			want   []string
		}{
			{name: "day", filter: course.QueryFilter{Day: course.Tuesday}, want: []string{"BIO101", "PHYS101", "TINY1"}},
			{name: "day available", filter: course.QueryFilter{Day: course.Tuesday, Available: true}, want: []string{"BIO101", "PHYS101"}},
			{name: "search instructor", filter: course.QueryFilter{Search: " dr. LEE"}, want: []string{"CHEM101"}},
			{name: "search name", filter: course.QueryFilter{Search: "intro"}, want: []string{"CS101", "PSY101"}},
			{name: "no match", filter: course.QueryFilter{Search: "intro", Day: course.Friday}, want: []string{}},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				assert.Equal(t, tt.want, ids(course.Filter(listings, tt.filter)))
			})
		}
	})

	t.Run("sort", func(t *testing.T) {
		monday := course.Filter(listings, course.QueryFilter{Day: course.Monday})

		require.NoError(t, course.Sort(monday, core.ParseOrdering("schedule")))
		assert.Equal(t, []string{"SPAN101", "MATH101", "CS101"}, ids(monday))

		require.NoError(t, course.Sort(monday, core.ParseOrdering("-credits")))
		assert.Equal(t, []string{"SPAN101", "MATH101", "CS101"}, ids(monday))

		require.NoError(t, course.Sort(monday, core.ParseOrdering("name")))
		assert.Equal(t, []string{"MATH101", "SPAN101", "CS101"}, ids(monday))

		require.NoError(t, course.Sort(monday, core.ParseOrdering("-id")))
		assert.Equal(t, []string{"SPAN101", "MATH101", "CS101"}, ids(monday))

		tuesday := course.Filter(listings, course.QueryFilter{Day: course.Tuesday})
		require.NoError(t, course.Sort(tuesday, core.ParseOrdering("seats")))
		assert.Equal(t, []string{"TINY1", "PHYS101", "BIO101"}, ids(tuesday))

		err := course.Sort(tuesday, core.ParseOrdering("room"))
		assert.True(t, core.IsValidation(err))
	})

	l := course.Listing{Course: course.Course{MaxStudents: 30}, Enrolled: 30}
	assert.True(t, l.Full())
	assert.Equal(t, "30/30", l.Seats())
}
