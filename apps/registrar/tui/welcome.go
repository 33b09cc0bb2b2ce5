package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

func (m Model) updateWelcome(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "enter", "l":
			return m, m.show(LoginScreen)
		case "r":
			return m, m.show(RegisterScreen)
		case "q", "esc":
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m Model) viewWelcome() string {
	return m.viewHeader("University Course Registration") +
		m.styles.Body.Render("Welcome! Please log in or register to manage your courses.") + "\n\n" +
		m.styles.Help.Render("enter: login • r: register • q: quit")
}
