package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/pkg/errors"

	"github.com/Nolexnol/CourseRegistration-System/core"
	"github.com/Nolexnol/CourseRegistration-System/core/course"
	"github.com/Nolexnol/CourseRegistration-System/core/enrollment"
	"github.com/Nolexnol/CourseRegistration-System/core/student"
)

type (
	StudentService interface {
		Register(ctx context.Context, ns student.NewStudent) (student.Student, error)
		Login(ctx context.Context, creds student.Credentials) (student.Student, error)
	}

	EnrollmentService interface {
		Summary(ctx context.Context, studentID string) (enrollment.Summary, error)
		Catalog(ctx context.Context) ([]course.Listing, error)
		Enroll(ctx context.Context, studentID, courseID string) (course.Course, error)
		Drop(ctx context.Context, studentID, courseID string) (enrollment.DropResult, error)
		Timetable(ctx context.Context, studentID string) ([]course.Course, error)
	}
)

type Screen int

const (
	WelcomeScreen Screen = iota
	LoginScreen
	RegisterScreen
	CoursesScreen
	TimetableScreen
)

func (s Screen) String() string {
	return [...]string{"welcome", "login", "register", "courses", "timetable"}[s]
}

type statusKind int

const (
	statusNone statusKind = iota
	statusSuccess
	statusWarning
	statusError
)

type status struct {
	kind statusKind
	text string
}

// DataChangedMsg tells the UI that the data files were reloaded; Err is the reload error, if any.
type DataChangedMsg struct {
	Err error
}

// Model is the root bubbletea model. It owns navigation, the logged in student and the status line.
type Model struct {
	ctx         context.Context
	students    StudentService
	enrollments EnrollmentService
	logger      core.Logger
	styles      Styles

	screen    Screen
	current   *student.Student
	status    status
	width     int
	height    int
	login     formModel
	register  formModel
	courses   coursesModel
	timetable timetableModel
}

var _ tea.Model = Model{}

func New(ctx context.Context, students StudentService, enrollments EnrollmentService, logger core.Logger, styles Styles) Model {
	return Model{
		ctx:         ctx,
		students:    students,
		enrollments: enrollments,
		logger:      logger,
		styles:      styles,
		screen:      WelcomeScreen,
		login:       newFormModel(styles),
		register:    newFormModel(styles),
		courses:     newCoursesModel(styles),
		timetable:   newTimetableModel(styles),
	}
}

func (m Model) Screen() Screen { return m.screen }

// Student returns the logged in student.
func (m Model) Student() (student.Student, bool) {
	if m.current == nil {
		return student.Student{}, false
	}
	return *m.current, true
}

// Status returns the text of the status line.
func (m Model) Status() string { return m.status.text }

func (m Model) Init() tea.Cmd { return nil }

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.courses.SetSize(msg.Width, msg.Height)
		m.timetable.SetSize(msg.Width, msg.Height)
		return m, nil

	case DataChangedMsg:
		if msg.Err != nil {
			m.setError(msg.Err)
			return m, nil
		}
		m.refresh()
		return m, nil

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
	}

	switch m.screen {
	case WelcomeScreen:
		return m.updateWelcome(msg)
	case LoginScreen:
		return m.updateLogin(msg)
	case RegisterScreen:
		return m.updateRegister(msg)
	case CoursesScreen:
		return m.updateCourses(msg)
	case TimetableScreen:
		return m.updateTimetable(msg)
	}
	return m, nil
}

// show switches screens, clearing the status line and refreshing the new screen's data.
func (m *Model) show(screen Screen) tea.Cmd {
	m.screen = screen
	m.status = status{}
	var cmd tea.Cmd
	switch screen {
	case LoginScreen:
		cmd = m.login.focus(0)
	case RegisterScreen:
		cmd = m.register.focus(0)
	}
	m.refresh()
	return cmd
}

// refresh reloads the data of the current screen from the services.
func (m *Model) refresh() {
	if m.current == nil {
		return
	}
	var err error
	switch m.screen {
	case CoursesScreen:
		err = m.courses.load(m.ctx, m.enrollments, m.current.ID)
	case TimetableScreen:
		err = m.timetable.load(m.ctx, m.enrollments, m.current.ID)
	}
	if err != nil {
		m.setError(err)
	}
}

func (m *Model) loggedIn(std student.Student) tea.Cmd {
	m.current = &std
	m.logger.Debug("tui: logged in", std)
	return m.show(CoursesScreen)
}

func (m *Model) logout() tea.Cmd {
	m.current = nil
	m.login.reset()
	m.register.reset()
	return m.show(WelcomeScreen)
}

func (m *Model) setError(err error) {
	m.status = status{kind: statusError, text: DescribeError(err, m.logger)}
}

func (m *Model) setStatus(kind statusKind, text string) {
	m.status = status{kind: kind, text: text}
}

func (m Model) View() string {
	var body string
	switch m.screen {
	case WelcomeScreen:
		body = m.viewWelcome()
	case LoginScreen:
		body = m.viewLogin()
	case RegisterScreen:
		body = m.viewRegister()
	case CoursesScreen:
		body = m.viewCourses()
	case TimetableScreen:
		body = m.viewTimetable()
	}

	var sb strings.Builder
	sb.WriteString(body)
	if line := m.viewStatus(); line != "" {
		sb.WriteString("\n")
		sb.WriteString(line)
	}
	sb.WriteString("\n")
	return sb.String()
}

func (m Model) viewHeader(title string) string {
	width := m.width
	if width <= 0 {
		width = 80
	}
	return m.styles.Header.Width(width).Render(title) + "\n\n"
}

func (m Model) viewStatus() string {
	switch m.status.kind {
	case statusSuccess:
		return m.styles.Success.Render(m.status.text)
	case statusWarning:
		return m.styles.Warning.Render(m.status.text)
	case statusError:
		return m.styles.Error.Render(m.status.text)
	}
	return ""
}

// Run starts the UI and blocks until the student quits or ctx is done.
// send is called once the program exists so that background events can be delivered to it.
func Run(ctx context.Context, m Model, send func(p *tea.Program), opts ...tea.ProgramOption) error {
	opts = append([]tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}, opts...)
	p := tea.NewProgram(m, opts...)
	if send != nil {
		send(p)
	}
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
