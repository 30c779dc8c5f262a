package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/attendly/attendly/internal/auth"
	"github.com/attendly/attendly/internal/authz"
	"github.com/attendly/attendly/internal/errors"
)

// RegisterPendingMsg is emitted after registration succeeded; verification of
// the registered email is always the next step.
type RegisterPendingMsg struct {
	Email    string
	Message  string
	DebugOTP string
}

// RegisterSwitchLoginMsg is emitted when the user wants the sign-in form
type RegisterSwitchLoginMsg struct{}

// registerResultMsg carries the outcome of the register call
type registerResultMsg struct {
	result *auth.RegisterResult
	err    error
}

// registrar is the slice of the auth controller the registration form drives
type registrar interface {
	Register(ctx context.Context, email, password, role string) (*auth.RegisterResult, error)
}

// RegisterModel is the account registration form
type RegisterModel struct {
	registrar registrar
	form      *huh.Form

	email    string
	password string
	confirm  string
	role     string

	submitting bool
	errMsg     string

	styles Styles
}

// NewRegisterModel creates the registration form
func NewRegisterModel(r registrar) RegisterModel {
	m := RegisterModel{
		registrar: r,
		role:      string(authz.RoleEmployee),
		styles:    DefaultStyles(),
	}
	m.form = m.newForm()
	return m
}

func (m *RegisterModel) newForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("email").
				Title("Email").
				Value(&m.email).
				Validate(func(s string) error {
					return auth.ValidateEmail(s)
				}),
			huh.NewInput().
				Key("password").
				Title("Password").
				EchoMode(huh.EchoModePassword).
				Value(&m.password).
				Validate(func(s string) error {
					return auth.ValidatePassword(s)
				}),
			huh.NewInput().
				Key("confirm").
				Title("Confirm password").
				EchoMode(huh.EchoModePassword).
				Value(&m.confirm).
				Validate(func(s string) error {
					return auth.ValidatePasswordConfirmation(m.password, s)
				}),
			huh.NewSelect[string]().
				Key("role").
				Title("Role").
				Options(
					huh.NewOption("Employee", string(authz.RoleEmployee)),
					huh.NewOption("Admin", string(authz.RoleAdmin)),
				).
				Value(&m.role),
		),
	).WithShowHelp(false)
}

// Init implements tea.Model
func (m RegisterModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m RegisterModel) Update(msg tea.Msg) (RegisterModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlL {
			return m, func() tea.Msg { return RegisterSwitchLoginMsg{} }
		}

	case registerResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = errors.MessageOf(msg.err)
			m.form = m.newForm()
			return m, m.form.Init()
		}
		result := msg.result
		return m, func() tea.Msg {
			return RegisterPendingMsg{
				Email:    result.Email,
				Message:  result.Message,
				DebugOTP: result.DebugOTP,
			}
		}
	}

	if m.submitting {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State == huh.StateCompleted {
		m.submitting = true
		m.errMsg = ""

		r := m.registrar
		email := m.form.GetString("email")
		password := m.form.GetString("password")
		role := m.form.GetString("role")
		return m, func() tea.Msg {
			result, err := r.Register(context.Background(), email, password, role)
			return registerResultMsg{result: result, err: err}
		}
	}

	return m, cmd
}

// View implements tea.Model
func (m RegisterModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Create an account"))
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errMsg))
		b.WriteString("\n\n")
	}

	if m.submitting {
		b.WriteString(m.styles.Status.Render("Creating account..."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.form.View())
	b.WriteString(m.styles.Help.Render("enter submit • ctrl+l sign in • ctrl+c quit"))
	return b.String()
}
