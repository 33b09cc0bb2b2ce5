package tui

import (
	"context"
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nolexnol/CourseRegistration-System/core"
	"github.com/Nolexnol/CourseRegistration-System/tests"
)

func newModel(t *testing.T) (Model, *testutil.Services) {
	svcs := testutil.NewServices(t, true)
	m := New(context.Background(), svcs.Students, svcs.Enrollments, core.NopLogger{}, PlainStyles())
	next, _ := m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	return next.(Model), svcs
}

func press(m Model, keys ...string) Model {
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "enter":
			msg = tea.KeyMsg{Type: tea.KeyEnter}
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		case "down":
			msg = tea.KeyMsg{Type: tea.KeyDown}
		case "ctrl+r":
			msg = tea.KeyMsg{Type: tea.KeyCtrlR}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		next, _ := m.Update(msg)
		m = next.(Model)
	}
	return m
}

func login(t *testing.T, m Model, id, name string) Model {
	t.Helper()
	m = press(m, "enter")
	require.Equal(t, LoginScreen, m.Screen())
	m = press(m, id, "tab", name, "enter")
	require.Equal(t, CoursesScreen, m.Screen(), m.Status())
	return m
}

func TestModel_welcome(t *testing.T) {
	m, _ := newModel(t)
	assert.Equal(t, WelcomeScreen, m.Screen())
	assert.Contains(t, m.View(), "Welcome! Please log in or register")

	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")})
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_login(t *testing.T) {
	tests := []struct {
		name       string
		id         string
		stdName    string
		wantScreen Screen
		wantStatus string
	}{
		{name: "missing name", id: "S1", wantScreen: LoginScreen, wantStatus: "Please enter both student ID and name"},
		{name: "unknown ID", id: "S9", stdName: "Bob", wantScreen: LoginScreen, wantStatus: "student ID not found"},
		{name: "wrong name", id: "S1", stdName: "Bob", wantScreen: LoginScreen, wantStatus: "Incorrect name for this student ID"},
		{name: "ok, case insensitive", id: "s1", stdName: "alice smith", wantScreen: CoursesScreen},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, svcs := newModel(t)
			testutil.CreateStudent(t, svcs.StudentRepo, "S1", "Alice Smith")

			got := press(m, "enter", tt.id, "tab")
			if tt.stdName != "" {
				got = press(got, tt.stdName)
			}
			got = press(got, "enter")

			assert.Equal(t, tt.wantScreen, got.Screen())
			assert.Contains(t, got.Status(), tt.wantStatus)
			if tt.wantScreen == CoursesScreen {
				std, ok := got.Student()
				require.True(t, ok)
				assert.Equal(t, "S1", std.ID)
				assert.Contains(t, got.View(), "Student: Alice Smith (S1)")
				assert.Contains(t, got.View(), "Credits: 0 (min 9, max 18)")
			}
		})
	}
}

func TestModel_register(t *testing.T) {
	m, svcs := newModel(t)
	testutil.CreateStudent(t, svcs.StudentRepo, "S1", "Alice")

	// prefilled from the login form
	m = press(m, "enter", "s2", "tab", "Bob Ray", "ctrl+r")
	require.Equal(t, RegisterScreen, m.Screen())
	m = press(m, "enter", "enter")
	assert.Equal(t, CoursesScreen, m.Screen(), m.Status())
	assert.Contains(t, m.Status(), "Student 'Bob Ray' registered successfully!")

	std, err := svcs.Students.Get(context.Background(), "S2")
	require.NoError(t, err)
	assert.Equal(t, "Bob Ray", std.Name)

	m = press(m, "l")
	assert.Equal(t, WelcomeScreen, m.Screen())
	_, ok := m.Student()
	assert.False(t, ok)

	// duplicate
	m = press(m, "r", "S1", "tab", "Alice", "enter")
	assert.Equal(t, RegisterScreen, m.Screen())
	assert.Contains(t, m.Status(), "already registered")

	m = press(m, "esc")
	assert.Equal(t, LoginScreen, m.Screen())
	assert.Empty(t, m.Status())
}

func TestModel_enrollDropTimetable(t *testing.T) {
	m, svcs := newModel(t)
	testutil.CreateStudent(t, svcs.StudentRepo, "S1", "Alice")
	m = login(t, m, "S1", "Alice")

	// catalog is ordered by ID: ART101 first, then BIO101
	m = press(m, "e")
	assert.Contains(t, m.Status(), "Enrolled in Art Appreciation (ART101).")
	m = press(m, "e")
	assert.Contains(t, m.Status(), "Enrolled in Principles of Biology (BIO101).")

	credits, err := svcs.Enrollments.Credits(context.Background(), "S1")
	require.NoError(t, err)
	assert.Equal(t, 6, credits)
	assert.Contains(t, m.View(), "Credits: 6")

	// drop is only allowed from the enrolled list
	m = press(m, "d")
	assert.Equal(t, "Please select a course to drop.", m.Status())

	m = press(m, "t")
	require.Equal(t, TimetableScreen, m.Screen())
	view := m.View()
	assert.Contains(t, view, "Tuesday")
	assert.Contains(t, view, "14:00 - 14:50")
	assert.Less(t, strings.Index(view, "Principles of Biology"), strings.Index(view, "Art Appreciation"),
		"Tuesday comes before Friday")

	m = press(m, "esc", "tab", "d")
	assert.Equal(t, CoursesScreen, m.Screen())
	assert.Contains(t, m.Status(), "Dropped ART101. Warning: your total credits are now 3, below the minimum of 9.")

	courses, err := svcs.Enrollments.StudentCourses(context.Background(), "S1")
	require.NoError(t, err)
	require.Len(t, courses, 1)
	assert.Equal(t, "BIO101", courses[0].ID)
}

func TestModel_enrollRules(t *testing.T) {
	m, svcs := newModel(t)
	testutil.CreateStudent(t, svcs.StudentRepo, "S1", "Alice")
	testutil.CreateStudent(t, svcs.StudentRepo, "S2", "Bob")
	// first in the list, its only seat is taken
	testutil.CreateCourse(t, svcs.CourseRepo, "AAA100", "Monday", "11:30", "12:20", 1, 3)
	testutil.Enroll(t, svcs.EnrollRepo, "S2", "AAA100")
	m = login(t, m, "S1", "Alice")

	m = press(m, "e")
	assert.Contains(t, m.Status(), "Course Course AAA100 (AAA100) is full")
}

func TestModel_dataChanged(t *testing.T) {
	m, svcs := newModel(t)
	testutil.CreateStudent(t, svcs.StudentRepo, "S1", "Alice")
	m = login(t, m, "S1", "Alice")
	assert.NotContains(t, m.View(), "AAA900")

	testutil.CreateCourse(t, svcs.CourseRepo, "AAA900", "Friday", "16:00", "16:50", 10, 1)
	next, _ := m.Update(DataChangedMsg{})
	m = next.(Model)
	assert.Contains(t, m.View(), "AAA900")

	next, _ = m.Update(DataChangedMsg{Err: errors.New("courses.csv: permission denied")})
	m = next.(Model)
	assert.Contains(t, m.Status(), "An unexpected error occurred: courses.csv: permission denied")
}

func TestDescribeError(t *testing.T) {
	assert.Empty(t, DescribeError(nil, core.NopLogger{}))
	assert.Equal(t, "Course is full",
		DescribeError(core.NewValidationError(errors.New("course is full")), core.NopLogger{}))
	assert.Equal(t, "Name: name is required",
		DescribeError(core.NewValidationError(nil, core.FieldError{Field: "name", Error: "name is required"}), core.NopLogger{}))
	assert.Equal(t, "An unexpected error occurred: boom", DescribeError(errors.New("boom"), core.NopLogger{}))
}
