package tui

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/Nolexnol/CourseRegistration-System/core/student"
)

const (
	fieldID = iota
	fieldName
)

// formModel holds the student ID and name inputs shared by the login and register screens.
type formModel struct {
	inputs  [2]textinput.Model
	focused int
	styles  Styles
}

func newFormModel(styles Styles) formModel {
	id := textinput.New()
	id.Placeholder = "e.g. S1001"
	id.CharLimit = 20
	id.Width = 35

	name := textinput.New()
	name.Placeholder = "Full name"
	name.CharLimit = 100
	name.Width = 35

	return formModel{inputs: [2]textinput.Model{id, name}, styles: styles}
}

func (f *formModel) focus(i int) tea.Cmd {
	f.focused = (i + len(f.inputs)) % len(f.inputs)
	var cmd tea.Cmd
	for j := range f.inputs {
		if j == f.focused {
			cmd = f.inputs[j].Focus()
		} else {
			f.inputs[j].Blur()
		}
	}
	return cmd
}

func (f *formModel) reset() {
	for i := range f.inputs {
		f.inputs[i].Reset()
	}
	f.focused = fieldID
}

func (f *formModel) fill(id, name string) {
	f.inputs[fieldID].SetValue(id)
	f.inputs[fieldName].SetValue(name)
}

func (f formModel) values() (id, name string) {
	return strings.TrimSpace(f.inputs[fieldID].Value()), strings.TrimSpace(f.inputs[fieldName].Value())
}

// formAction is what a key press asks the screen to do.
type formAction int

const (
	formNone formAction = iota
	formSubmit
	formBack
)

func (f formModel) Update(msg tea.Msg) (formModel, formAction, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok {
		switch key.String() {
		case "esc":
			return f, formBack, nil
		case "tab", "down":
			return f, formNone, f.focus(f.focused + 1)
		case "shift+tab", "up":
			return f, formNone, f.focus(f.focused - 1)
		case "enter":
			if f.focused < len(f.inputs)-1 {
				return f, formNone, f.focus(f.focused + 1)
			}
			return f, formSubmit, nil
		}
	}
	var cmd tea.Cmd
	f.inputs[f.focused], cmd = f.inputs[f.focused].Update(msg)
	return f, formNone, cmd
}

func (f formModel) View() string {
	labels := []string{"Student ID:", "Full Name:"}
	var sb strings.Builder
	for i, input := range f.inputs {
		label := f.styles.Label.Render(labels[i])
		if i == f.focused {
			label = f.styles.Focused.Inherit(f.styles.Label).Render(labels[i])
		}
		sb.WriteString(label + " " + input.View() + "\n")
	}
	return sb.String()
}

func (m Model) updateLogin(msg tea.Msg) (tea.Model, tea.Cmd) {
	if key, ok := msg.(tea.KeyMsg); ok && key.String() == "ctrl+r" {
		id, name := m.login.values()
		m.register.fill(id, name)
		return m, m.show(RegisterScreen)
	}

	var (
		action formAction
		cmd    tea.Cmd
	)
	m.login, action, cmd = m.login.Update(msg)
	switch action {
	case formBack:
		return m, m.show(WelcomeScreen)
	case formSubmit:
		id, name := m.login.values()
		std, err := m.students.Login(m.ctx, student.Credentials{ID: id, Name: name})
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.login.reset()
		return m, m.loggedIn(std)
	}
	return m, cmd
}

func (m Model) viewLogin() string {
	return m.viewHeader("Student Login / Register") +
		m.login.View() + "\n" +
		m.styles.Help.Render("enter: login • ctrl+r: register new • tab: next field • esc: back")
}

func (m Model) updateRegister(msg tea.Msg) (tea.Model, tea.Cmd) {
	var (
		action formAction
		cmd    tea.Cmd
	)
	m.register, action, cmd = m.register.Update(msg)
	switch action {
	case formBack:
		return m, m.show(LoginScreen)
	case formSubmit:
		id, name := m.register.values()
		std, err := m.students.Register(m.ctx, student.NewStudent{ID: id, Name: name})
		if err != nil {
			m.setError(err)
			return m, nil
		}
		m.register.reset()
		cmd = m.loggedIn(std)
		m.setStatus(statusSuccess, "Student '"+std.Name+"' registered successfully!")
		return m, cmd
	}
	return m, cmd
}

func (m Model) viewRegister() string {
	return m.viewHeader("New Student Registration") +
		m.register.View() + "\n" +
		m.styles.Help.Render("enter: complete registration • tab: next field • esc: back to login")
}
