package tui

import (
	"context"
	"strconv"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
)

type timetableModel struct {
	table  table.Model
	empty  bool
	styles Styles
}

func newTimetableModel(styles Styles) timetableModel {
	t := newTable(styles, []table.Column{
		{Title: "Day", Width: 10},
		{Title: "Time", Width: 13},
		{Title: "Course", Width: 26},
		{Title: "Instructor", Width: 16},
		{Title: "Credits", Width: 7},
	}, 12)
	t.Focus()
	return timetableModel{table: t, styles: styles}
}

func (tt *timetableModel) SetSize(_, h int) {
	if rows := h - 8; rows > 3 {
		tt.table.SetHeight(rows)
	}
}

// load fills the table with the student's courses, by weekday then start time.
func (tt *timetableModel) load(ctx context.Context, svc EnrollmentService, studentID string) error {
	courses, err := svc.Timetable(ctx, studentID)
	if err != nil {
		return err
	}
	rows := make([]table.Row, 0, len(courses))
	for _, crs := range courses {
		rows = append(rows, table.Row{
			string(crs.Schedule.Day),
			crs.Schedule.Start.String() + " - " + crs.Schedule.End.String(),
			crs.Name,
			crs.Instructor,
			strconv.Itoa(crs.Credits),
		})
	}
	tt.table.SetRows(rows)
	tt.table.SetCursor(0)
	tt.empty = len(rows) == 0
	return nil
}

func (tt timetableModel) View() string {
	if tt.empty {
		return tt.styles.Muted.Render("You are not enrolled in any course yet.") + "\n"
	}
	return tt.styles.Panel.Render(tt.table.View()) + "\n"
}

func (m Model) updateTimetable(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc", "b", "backspace":
			return m, m.show(CoursesScreen)
		case "q":
			return m, tea.Quit
		}
	}
	var cmd tea.Cmd
	m.timetable.table, cmd = m.timetable.table.Update(msg)
	return m, cmd
}

func (m Model) viewTimetable() string {
	return m.viewHeader("Student Timetable") +
		m.timetable.View() + "\n" +
		m.styles.Help.Render("esc: back to enrollment • q: quit")
}
