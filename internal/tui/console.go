package tui

import (
	"context"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/attendly/attendly/internal/auth"
	"github.com/attendly/attendly/internal/directory"
	"github.com/attendly/attendly/internal/errors"
)

// pageSize is how many employees one listing page holds
const pageSize = 10

// View identifies a data view of the console
type View int

const (
	// ViewDashboard is the landing view
	ViewDashboard View = iota
	// ViewEmployees is the paginated employee listing
	ViewEmployees
	// ViewSubjects is the subject listing
	ViewSubjects
	// ViewAttendance shows the current user's attendance records
	ViewAttendance
	// ViewProfile shows the linked employee profile
	ViewProfile
)

// Requirement returns the access level the view demands. Employee and
// subject administration are admin views; everything else needs only a
// signed-in identity.
func (v View) Requirement() Requirement {
	switch v {
	case ViewEmployees, ViewSubjects:
		return RequireAdmin
	default:
		return RequireAuthenticated
	}
}

// Title returns the view's tab label
func (v View) Title() string {
	switch v {
	case ViewDashboard:
		return "Dashboard"
	case ViewEmployees:
		return "Employees"
	case ViewSubjects:
		return "Subjects"
	case ViewAttendance:
		return "Attendance"
	case ViewProfile:
		return "Profile"
	default:
		return "Unknown"
	}
}

// screen is the console's top-level mode
type screen int

const (
	screenLoading screen = iota
	screenLogin
	screenRegister
	screenOTP
	screenViews
)

// Controller is the slice of the auth controller the console drives
type Controller interface {
	authenticator
	registrar
	verifier
	Bootstrap(ctx context.Context) error
	Snapshot() auth.Snapshot
	Logout() error
	ClearPendingVerification()
}

// Directory is the slice of the directory service the console reads from
type Directory interface {
	ListEmployees(ctx context.Context, opts directory.ListOptions) (*directory.EmployeePage, bool, error)
	Subjects(ctx context.Context) ([]directory.Subject, error)
	AttendanceByEmployee(ctx context.Context, employeeID, startDate, endDate string) ([]directory.AttendanceRecord, error)
	MyProfile(ctx context.Context) (*directory.Employee, error)
}

// bootstrapDoneMsg fires once the initial session state is resolved
type bootstrapDoneMsg struct {
	err error
}

// employeesLoadedMsg carries one page of the employee listing
type employeesLoadedMsg struct {
	page   *directory.EmployeePage
	cached bool
	skip   int
	err    error
}

// subjectsLoadedMsg carries the subject listing
type subjectsLoadedMsg struct {
	subjects []directory.Subject
	err      error
}

// attendanceLoadedMsg carries the attendance records
type attendanceLoadedMsg struct {
	records []directory.AttendanceRecord
	err     error
}

// profileLoadedMsg carries the linked employee profile
type profileLoadedMsg struct {
	profile *directory.Employee
	err     error
}

// ConsoleModel is the root model of the interactive console
type ConsoleModel struct {
	controller Controller
	dir        Directory
	debugOTP   bool

	screen   screen
	view     View
	snapshot auth.Snapshot

	login    LoginModel
	register RegisterModel
	otp      OTPModel

	employees     *directory.EmployeePage
	employeesSkip int
	subjects      []directory.Subject
	attendance    []directory.AttendanceRecord
	profile       *directory.Employee

	loading   bool
	fromCache bool
	errMsg    string
	notice    string

	spinner spinner.Model

	width    int
	height   int
	quitting bool

	styles Styles
}

// NewConsoleModel creates the console rooted at the loading screen.
// debugOTP enables the development code display in the verification flow.
func NewConsoleModel(controller Controller, dir Directory, debugOTP bool) ConsoleModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("63"))

	return ConsoleModel{
		controller: controller,
		dir:        dir,
		debugOTP:   debugOTP,
		screen:     screenLoading,
		view:       ViewDashboard,
		spinner:    sp,
		styles:     DefaultStyles(),
	}
}

// Init implements tea.Model
func (m ConsoleModel) Init() tea.Cmd {
	c := m.controller
	return tea.Batch(
		m.spinner.Tick,
		func() tea.Msg {
			return bootstrapDoneMsg{err: c.Bootstrap(context.Background())}
		},
	)
}

// Update implements tea.Model
func (m ConsoleModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m.route(msg)

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			m.quitting = true
			return m, tea.Quit
		}
		return m.route(msg)

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd

	case bootstrapDoneMsg:
		if msg.err != nil {
			m.errMsg = errors.MessageOf(msg.err)
		}
		m.snapshot = m.controller.Snapshot()
		return m.enterGatedScreen()

	case LoginDoneMsg:
		m.snapshot = m.controller.Snapshot()
		m.screen = screenViews
		m.view = ViewDashboard
		cmd := m.loadView(ViewDashboard)
		return m, cmd

	case LoginNeedsOTPMsg:
		m.otp = NewOTPModel(m.controller, msg.Email, msg.DebugOTP, m.debugOTP)
		m.notice = msg.Message
		m.screen = screenOTP
		return m, m.otp.Init()

	case LoginSwitchRegisterMsg:
		m.register = NewRegisterModel(m.controller)
		m.screen = screenRegister
		return m, m.register.Init()

	case RegisterPendingMsg:
		m.otp = NewOTPModel(m.controller, msg.Email, msg.DebugOTP, m.debugOTP)
		m.notice = msg.Message
		m.screen = screenOTP
		return m, m.otp.Init()

	case RegisterSwitchLoginMsg:
		m.login = NewLoginModel(m.controller, "")
		m.screen = screenLogin
		return m, m.login.Init()

	case OTPVerifiedMsg:
		m.snapshot = m.controller.Snapshot()
		m.notice = ""
		if m.snapshot.IsAuthenticated() {
			m.screen = screenViews
			m.view = ViewDashboard
			cmd := m.loadView(ViewDashboard)
			return m, cmd
		}
		// Verified without a credential: sign in with the now-verified email.
		m.login = NewLoginModel(m.controller, m.snapshot.Email)
		m.screen = screenLogin
		return m, m.login.Init()

	case OTPCancelledMsg:
		m.controller.ClearPendingVerification()
		m.snapshot = m.controller.Snapshot()
		m.notice = ""
		m.login = NewLoginModel(m.controller, "")
		m.screen = screenLogin
		return m, m.login.Init()

	case employeesLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = errors.MessageOf(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.employees = msg.page
		m.employeesSkip = msg.skip
		m.fromCache = msg.cached
		return m, nil

	case subjectsLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = errors.MessageOf(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.subjects = msg.subjects
		return m, nil

	case attendanceLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = errors.MessageOf(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.attendance = msg.records
		return m, nil

	case profileLoadedMsg:
		m.loading = false
		if msg.err != nil {
			m.errMsg = errors.MessageOf(msg.err)
			return m, nil
		}
		m.errMsg = ""
		m.profile = msg.profile
		return m, nil
	}

	return m.route(msg)
}

// route forwards a message to the active child model or view handler
func (m ConsoleModel) route(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.screen {
	case screenLogin:
		m.login, cmd = m.login.Update(msg)
	case screenRegister:
		m.register, cmd = m.register.Update(msg)
	case screenOTP:
		m.otp, cmd = m.otp.Update(msg)
	case screenViews:
		if key, ok := msg.(tea.KeyMsg); ok {
			return m.handleViewKey(key)
		}
	}
	return m, cmd
}

// enterGatedScreen routes to the screen the resolved session state allows
func (m ConsoleModel) enterGatedScreen() (tea.Model, tea.Cmd) {
	switch Decide(m.snapshot, RequireAuthenticated) {
	case DecisionAllow:
		m.screen = screenViews
		m.view = ViewDashboard
		cmd := m.loadView(ViewDashboard)
		return m, cmd
	default:
		if m.snapshot.Phase == auth.PhasePendingVerification {
			m.otp = NewOTPModel(m.controller, m.snapshot.Email, "", m.debugOTP)
			m.screen = screenOTP
			return m, m.otp.Init()
		}
		m.login = NewLoginModel(m.controller, "")
		m.screen = screenLogin
		return m, m.login.Init()
	}
}

// handleViewKey handles keyboard input on the data views
func (m ConsoleModel) handleViewKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		m.quitting = true
		return m, tea.Quit

	case "1":
		return m.switchView(ViewDashboard)
	case "2":
		return m.switchView(ViewEmployees)
	case "3":
		return m.switchView(ViewSubjects)
	case "4":
		return m.switchView(ViewAttendance)
	case "5":
		return m.switchView(ViewProfile)

	case "r":
		cmd := m.loadView(m.view)
		return m, cmd

	case "n":
		if m.view == ViewEmployees && m.employees != nil && m.employees.HasNextPage {
			cmd := m.loadEmployees(m.employeesSkip + pageSize)
			return m, cmd
		}
	case "p":
		if m.view == ViewEmployees && m.employeesSkip >= pageSize {
			cmd := m.loadEmployees(m.employeesSkip - pageSize)
			return m, cmd
		}

	case "l":
		if err := m.controller.Logout(); err != nil {
			m.errMsg = errors.MessageOf(err)
			return m, nil
		}
		m.snapshot = m.controller.Snapshot()
		m.employees = nil
		m.subjects = nil
		m.attendance = nil
		m.profile = nil
		m.login = NewLoginModel(m.controller, "")
		m.screen = screenLogin
		return m, m.login.Init()
	}

	return m, nil
}

// switchView gates and activates a data view
func (m ConsoleModel) switchView(view View) (tea.Model, tea.Cmd) {
	switch Decide(m.snapshot, view.Requirement()) {
	case DecisionAllow:
		m.view = view
		m.notice = ""
		cmd := m.loadView(view)
		return m, cmd
	case DecisionDashboard:
		m.view = ViewDashboard
		m.notice = "That view needs admin access."
		cmd := m.loadView(ViewDashboard)
		return m, cmd
	case DecisionLogin:
		m.login = NewLoginModel(m.controller, "")
		m.screen = screenLogin
		return m, m.login.Init()
	default:
		return m, nil
	}
}

// loadView starts the fetch for a view's data
func (m *ConsoleModel) loadView(view View) tea.Cmd {
	m.loading = true
	m.errMsg = ""

	dir := m.dir
	switch view {
	case ViewEmployees:
		return m.loadEmployees(0)

	case ViewSubjects:
		return func() tea.Msg {
			subjects, err := dir.Subjects(context.Background())
			return subjectsLoadedMsg{subjects: subjects, err: err}
		}

	case ViewAttendance:
		employeeID := ""
		if m.snapshot.User != nil && m.snapshot.User.Employee != nil {
			employeeID = m.snapshot.User.Employee.ID
		}
		return func() tea.Msg {
			if employeeID == "" {
				return attendanceLoadedMsg{}
			}
			records, err := dir.AttendanceByEmployee(context.Background(), employeeID, "", "")
			return attendanceLoadedMsg{records: records, err: err}
		}

	case ViewProfile, ViewDashboard:
		return func() tea.Msg {
			profile, err := dir.MyProfile(context.Background())
			return profileLoadedMsg{profile: profile, err: err}
		}
	}
	return nil
}

// loadEmployees fetches one page of the employee listing
func (m *ConsoleModel) loadEmployees(skip int) tea.Cmd {
	m.loading = true
	dir := m.dir
	return func() tea.Msg {
		page, cached, err := dir.ListEmployees(context.Background(), directory.ListOptions{
			Skip:      skip,
			Take:      pageSize,
			SortBy:    "name",
			SortOrder: "asc",
		})
		return employeesLoadedMsg{page: page, cached: cached, skip: skip, err: err}
	}
}
