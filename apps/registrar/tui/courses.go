package tui

import (
	"context"
	"fmt"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/Nolexnol/CourseRegistration-System/core/enrollment"
)

const (
	availablePane = iota
	enrolledPane
)

type coursesModel struct {
	available table.Model
	enrolled  table.Model
	pane      int
	summary   enrollment.Summary
	styles    Styles
}

func newTable(styles Styles, cols []table.Column, height int) table.Model {
	t := table.New(table.WithColumns(cols), table.WithHeight(height))
	ts := table.DefaultStyles()
	ts.Header = ts.Header.Foreground(Primary).Bold(true)
	ts.Selected = styles.Selected
	t.SetStyles(ts)
	return t
}

func newCoursesModel(styles Styles) coursesModel {
	available := newTable(styles, []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Name", Width: 24},
		{Title: "Instructor", Width: 16},
		{Title: "Schedule", Width: 22},
		{Title: "Enrollment", Width: 10},
		{Title: "Credits", Width: 7},
	}, 8)
	available.Focus()

	enrolled := newTable(styles, []table.Column{
		{Title: "ID", Width: 8},
		{Title: "Name", Width: 24},
		{Title: "Instructor", Width: 16},
		{Title: "Schedule", Width: 22},
		{Title: "Credits", Width: 7},
	}, 6)

	return coursesModel{available: available, enrolled: enrolled, pane: availablePane, styles: styles}
}

func (c *coursesModel) SetSize(_, h int) {
	// header, two pane titles and borders, help and status lines
	rows := (h - 14) / 2
	if rows < 3 {
		rows = 3
	}
	c.available.SetHeight(rows)
	c.enrolled.SetHeight(rows)
}

// load lists the courses the student is not enrolled in, and those they are.
func (c *coursesModel) load(ctx context.Context, svc EnrollmentService, studentID string) error {
	summary, err := svc.Summary(ctx, studentID)
	if err != nil {
		return err
	}
	listings, err := svc.Catalog(ctx)
	if err != nil {
		return err
	}
	mine := make(map[string]bool, len(summary.Courses))
	for _, crs := range summary.Courses {
		mine[crs.ID] = true
	}

	available := make([]table.Row, 0, len(listings))
	for _, l := range listings {
		if mine[l.ID] {
			continue
		}
		available = append(available, table.Row{
			l.ID, l.Name, l.Instructor, l.Schedule.String(), l.Seats(), strconv.Itoa(l.Credits),
		})
	}
	enrolled := make([]table.Row, 0, len(summary.Courses))
	for _, crs := range summary.Courses {
		enrolled = append(enrolled, table.Row{
			crs.ID, crs.Name, crs.Instructor, crs.Schedule.String(), strconv.Itoa(crs.Credits),
		})
	}

	c.summary = summary
	c.available.SetRows(available)
	c.enrolled.SetRows(enrolled)
	clampCursor(&c.available)
	clampCursor(&c.enrolled)
	return nil
}

func clampCursor(t *table.Model) {
	if n := len(t.Rows()); t.Cursor() >= n {
		t.SetCursor(n - 1)
	}
	if t.Cursor() < 0 && len(t.Rows()) > 0 {
		t.SetCursor(0)
	}
}

func (c *coursesModel) switchPane() {
	if c.pane == availablePane {
		c.pane = enrolledPane
		c.available.Blur()
		c.enrolled.Focus()
	} else {
		c.pane = availablePane
		c.enrolled.Blur()
		c.available.Focus()
	}
}

// selected returns the ID of the highlighted course of t.
func selected(t table.Model) (string, bool) {
	row := t.SelectedRow()
	if len(row) == 0 {
		return "", false
	}
	return row[0], true
}

func (c coursesModel) Update(msg tea.Msg) (coursesModel, tea.Cmd) {
	var cmd tea.Cmd
	if c.pane == availablePane {
		c.available, cmd = c.available.Update(msg)
	} else {
		c.enrolled, cmd = c.enrolled.Update(msg)
	}
	return c, cmd
}

func (c coursesModel) View() string {
	availableStyle, enrolledStyle := c.styles.Active, c.styles.Panel
	if c.pane == enrolledPane {
		availableStyle, enrolledStyle = c.styles.Panel, c.styles.Active
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		c.styles.Title.Render("Available Courses"),
		availableStyle.Render(c.available.View()),
		c.styles.Title.Render("Enrolled Courses"),
		enrolledStyle.Render(c.enrolled.View()),
	)
}

func (m Model) updateCourses(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "tab", "shift+tab":
			m.courses.switchPane()
			return m, nil
		case "e", "enter":
			if key.String() == "enter" && m.courses.pane != availablePane {
				m.dropSelected()
				return m, nil
			}
			m.enrollSelected()
			return m, nil
		case "d", "delete":
			m.dropSelected()
			return m, nil
		case "t":
			return m, m.show(TimetableScreen)
		case "r":
			m.status = status{}
			m.refresh()
			return m, nil
		case "l", "esc":
			return m, m.logout()
		case "q":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.courses, cmd = m.courses.Update(msg)
	return m, cmd
}

func (m *Model) enrollSelected() {
	courseID, ok := selected(m.courses.available)
	if m.courses.pane != availablePane || !ok {
		m.setStatus(statusError, "Please select a course to enroll in.")
		return
	}
	crs, err := m.enrollments.Enroll(m.ctx, m.current.ID, courseID)
	if err != nil {
		m.setError(err)
		return
	}
	m.refresh()
	m.setStatus(statusSuccess, "Enrolled in "+crs.Label()+".")
}

func (m *Model) dropSelected() {
	courseID, ok := selected(m.courses.enrolled)
	if m.courses.pane != enrolledPane || !ok {
		m.setStatus(statusError, "Please select a course to drop.")
		return
	}
	res, err := m.enrollments.Drop(m.ctx, m.current.ID, courseID)
	if err != nil {
		m.setError(err)
		return
	}
	m.refresh()
	if res.BelowMinimum {
		m.setStatus(statusWarning, fmt.Sprintf(
			"Dropped %s. Warning: your total credits are now %d, below the minimum of %d.",
			res.CourseID, res.RemainingCredits, res.MinCredits))
		return
	}
	m.setStatus(statusSuccess, "Dropped "+res.CourseID+".")
}

func (m Model) viewCourses() string {
	s := m.courses.summary
	info := fmt.Sprintf("Student: %s (%s)    Credits: %d (min %d, max %d)",
		s.Student.Name, s.Student.ID, s.Credits, s.MinCredits, s.MaxCredits)
	return m.viewHeader(info) +
		m.courses.View() + "\n" +
		m.styles.Help.Render("tab: switch list • e: enroll • d: drop • t: timetable • r: refresh • l: logout • q: quit")
}
