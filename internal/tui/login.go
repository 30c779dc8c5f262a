package tui

import (
	"context"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"github.com/attendly/attendly/internal/auth"
	"github.com/attendly/attendly/internal/errors"
)

// LoginDoneMsg is emitted when sign-in completed with an authenticated
// session.
type LoginDoneMsg struct {
	Result *auth.LoginResult
}

// LoginNeedsOTPMsg is emitted when sign-in requires email verification first
type LoginNeedsOTPMsg struct {
	Email    string
	Message  string
	DebugOTP string
}

// LoginSwitchRegisterMsg is emitted when the user wants the registration form
type LoginSwitchRegisterMsg struct{}

// loginResultMsg carries the outcome of the login call
type loginResultMsg struct {
	result *auth.LoginResult
	err    error
}

// authenticator is the slice of the auth controller the sign-in form drives
type authenticator interface {
	Login(ctx context.Context, email, password string) (*auth.LoginResult, error)
}

// LoginModel is the sign-in form
type LoginModel struct {
	auth authenticator
	form *huh.Form

	email    string
	password string

	submitting bool
	errMsg     string
	noAccount  bool

	styles Styles
}

// NewLoginModel creates the sign-in form, pre-filling email when known
func NewLoginModel(a authenticator, email string) LoginModel {
	m := LoginModel{
		auth:   a,
		email:  email,
		styles: DefaultStyles(),
	}
	m.form = m.newForm()
	return m
}

// newForm builds a fresh huh form bound to the model's fields
func (m *LoginModel) newForm() *huh.Form {
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
					if strings.TrimSpace(s) == "" {
						return errors.New(errors.ErrCodeValidationRequired, "password is required")
					}
					return nil
				}),
		),
	).WithShowHelp(false)
}

// Init implements tea.Model
func (m LoginModel) Init() tea.Cmd {
	return m.form.Init()
}

// Update implements tea.Model
func (m LoginModel) Update(msg tea.Msg) (LoginModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlR {
			return m, func() tea.Msg { return LoginSwitchRegisterMsg{} }
		}

	case loginResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.errMsg = errors.MessageOf(msg.err)
			m.noAccount = errors.IsNoAccount(msg.err)
			m.form = m.newForm()
			return m, m.form.Init()
		}
		if msg.result.VerificationRequired {
			return m, func() tea.Msg {
				return LoginNeedsOTPMsg{
					Email:    msg.result.Email,
					Message:  msg.result.Message,
					DebugOTP: msg.result.DebugOTP,
				}
			}
		}
		result := msg.result
		return m, func() tea.Msg { return LoginDoneMsg{Result: result} }
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
		m.noAccount = false

		a, email, password := m.auth, m.form.GetString("email"), m.form.GetString("password")
		return m, func() tea.Msg {
			result, err := a.Login(context.Background(), email, password)
			return loginResultMsg{result: result, err: err}
		}
	}

	return m, cmd
}

// View implements tea.Model
func (m LoginModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Sign in"))
	b.WriteString("\n")

	if m.errMsg != "" {
		b.WriteString(m.styles.Error.Render(m.errMsg))
		b.WriteString("\n")
		if m.noAccount {
			b.WriteString(m.styles.Muted.Render("Press ctrl+r to create an account instead."))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if m.submitting {
		b.WriteString(m.styles.Status.Render("Signing in..."))
		b.WriteString("\n")
		return b.String()
	}

	b.WriteString(m.form.View())
	b.WriteString(m.styles.Help.Render("enter submit • ctrl+r register • ctrl+c quit"))
	return b.String()
}
