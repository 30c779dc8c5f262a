package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/attendly/attendly/internal/auth"
	"github.com/attendly/attendly/internal/errors"
)

// codeLength is the number of digit cells in the verification code
const codeLength = 6

// verifiedDelay is how long the success message stays on screen before the
// flow continues.
const verifiedDelay = 1500 * time.Millisecond

// statusClearDelay is how long an informational status message stays visible
const statusClearDelay = 3 * time.Second

// verifier is the slice of the auth controller the OTP flow drives
type verifier interface {
	VerifyOTP(ctx context.Context, email, code string) (*auth.VerifyResult, error)
	ResendOTP(ctx context.Context, email string) (*auth.OTPResult, error)
	ResendAvailableIn() time.Duration
}

// OTPVerifiedMsg is emitted to the parent model once verification succeeded
// and the success message has been shown.
type OTPVerifiedMsg struct {
	Result *auth.VerifyResult
}

// OTPCancelledMsg is emitted when the user abandons the verification flow
type OTPCancelledMsg struct{}

// otpVerifyResultMsg carries the outcome of a verify call
type otpVerifyResultMsg struct {
	result *auth.VerifyResult
	err    error
}

// otpResendResultMsg carries the outcome of a resend call
type otpResendResultMsg struct {
	result *auth.OTPResult
	err    error
}

// otpContinueMsg fires after the post-success delay
type otpContinueMsg struct{}

// otpTickMsg drives the resend countdown
type otpTickMsg struct{}

// otpClearStatusMsg clears a self-expiring status message. The sequence
// number guards against clearing a newer message than the one that armed it.
type otpClearStatusMsg struct {
	seq int
}

// OTPModel is the verification code entry flow: six single-digit cells with
// focus choreography, a resend countdown, and a success hand-off.
type OTPModel struct {
	verifier     verifier
	email        string
	debugEnabled bool
	debugOTP     string

	cells [codeLength]string
	focus int

	submitting bool
	verified   bool
	result     *auth.VerifyResult

	status      string
	statusError bool
	statusSeq   int

	cooldown int

	styles Styles
}

// NewOTPModel creates the code entry flow for email. The server echoes the
// code back as a development convenience; it is displayed only when the
// debug mode is enabled in config, and otherwise never leaves the payload.
func NewOTPModel(v verifier, email, debugOTP string, debugEnabled bool) OTPModel {
	m := OTPModel{
		verifier:     v,
		email:        email,
		debugEnabled: debugEnabled,
		styles:       DefaultStyles(),
	}
	if debugEnabled {
		m.debugOTP = debugOTP
	}
	return m
}

// Init implements tea.Model
func (m OTPModel) Init() tea.Cmd {
	return nil
}

// Code returns the currently entered digits
func (m OTPModel) Code() string {
	return strings.Join(m.cells[:], "")
}

// complete reports whether all six cells are filled
func (m OTPModel) complete() bool {
	for _, c := range m.cells {
		if c == "" {
			return false
		}
	}
	return true
}

// Update implements tea.Model
func (m OTPModel) Update(msg tea.Msg) (OTPModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case otpVerifyResultMsg:
		m.submitting = false
		if msg.err != nil {
			// The entered digits are preserved so the user can compare
			// them against the emailed code before retrying.
			m.setError(errors.MessageOf(msg.err))
			return m, nil
		}
		if !msg.result.Authenticated {
			m.setError(msg.result.Message)
			return m, nil
		}
		m.verified = true
		m.result = msg.result
		m.setStatus(msg.result.Message)
		return m, tea.Tick(verifiedDelay, func(time.Time) tea.Msg {
			return otpContinueMsg{}
		})

	case otpContinueMsg:
		result := m.result
		return m, func() tea.Msg {
			return OTPVerifiedMsg{Result: result}
		}

	case otpResendResultMsg:
		m.submitting = false
		if msg.err != nil {
			m.setError(errors.MessageOf(msg.err))
			return m, nil
		}
		// A fresh code invalidates whatever was typed for the old one.
		m.cells = [codeLength]string{}
		m.focus = 0
		if m.debugEnabled && msg.result.DebugOTP != "" {
			m.debugOTP = msg.result.DebugOTP
		}
		m.setStatus(msg.result.Message)
		m.cooldown = int(m.verifier.ResendAvailableIn().Round(time.Second).Seconds())

		seq := m.statusSeq
		return m, tea.Batch(
			m.tick(),
			tea.Tick(statusClearDelay, func(time.Time) tea.Msg {
				return otpClearStatusMsg{seq: seq}
			}),
		)

	case otpTickMsg:
		m.cooldown = int(m.verifier.ResendAvailableIn().Round(time.Second).Seconds())
		if m.cooldown > 0 {
			return m, m.tick()
		}
		return m, nil

	case otpClearStatusMsg:
		if msg.seq == m.statusSeq && !m.statusError {
			m.status = ""
		}
		return m, nil
	}

	return m, nil
}

// handleKey handles keyboard input for the cells
func (m OTPModel) handleKey(msg tea.KeyMsg) (OTPModel, tea.Cmd) {
	if m.verified {
		return m, nil
	}

	switch msg.Type {
	case tea.KeyRunes:
		runes := msg.Runes
		if len(runes) == 1 {
			r := runes[0]
			if r == 'r' || r == 'R' {
				return m.resend()
			}
			if r >= '0' && r <= '9' && !m.submitting {
				m.cells[m.focus] = string(r)
				if m.focus < codeLength-1 {
					m.focus++
				}
			}
			return m, nil
		}
		// A multi-rune input is a paste. Exactly six digits fill every
		// cell and land focus on the last; anything else is ignored.
		if !m.submitting && len(runes) == codeLength && allDigits(runes) {
			for i, r := range runes {
				m.cells[i] = string(r)
			}
			m.focus = codeLength - 1
		}
		return m, nil

	case tea.KeyBackspace:
		if m.submitting {
			return m, nil
		}
		if m.cells[m.focus] != "" {
			m.cells[m.focus] = ""
		} else if m.focus > 0 {
			m.focus--
			m.cells[m.focus] = ""
		}
		return m, nil

	case tea.KeyLeft:
		if m.focus > 0 {
			m.focus--
		}
		return m, nil

	case tea.KeyRight:
		if m.focus < codeLength-1 {
			m.focus++
		}
		return m, nil

	case tea.KeyEnter:
		return m.submit()

	case tea.KeyEsc:
		return m, func() tea.Msg { return OTPCancelledMsg{} }
	}

	return m, nil
}

// submit sends the entered code for verification
func (m OTPModel) submit() (OTPModel, tea.Cmd) {
	if m.submitting || !m.complete() {
		return m, nil
	}
	m.submitting = true
	m.status = ""
	m.statusError = false

	v, email, code := m.verifier, m.email, m.Code()
	return m, func() tea.Msg {
		result, err := v.VerifyOTP(context.Background(), email, code)
		return otpVerifyResultMsg{result: result, err: err}
	}
}

// resend requests a fresh code unless the countdown is still running
func (m OTPModel) resend() (OTPModel, tea.Cmd) {
	if m.submitting || m.cooldown > 0 {
		return m, nil
	}
	m.submitting = true

	v, email := m.verifier, m.email
	return m, func() tea.Msg {
		result, err := v.ResendOTP(context.Background(), email)
		return otpResendResultMsg{result: result, err: err}
	}
}

// tick schedules the next countdown update
func (m OTPModel) tick() tea.Cmd {
	return tea.Tick(time.Second, func(time.Time) tea.Msg {
		return otpTickMsg{}
	})
}

func (m *OTPModel) setStatus(message string) {
	m.status = message
	m.statusError = false
	m.statusSeq++
}

func (m *OTPModel) setError(message string) {
	m.status = message
	m.statusError = true
	m.statusSeq++
}

// View implements tea.Model
func (m OTPModel) View() string {
	var b strings.Builder

	b.WriteString(m.styles.Title.Render("Verify your email"))
	b.WriteString("\n")
	b.WriteString(m.styles.Subtitle.Render(fmt.Sprintf("Enter the 6-digit code sent to %s", m.email)))
	b.WriteString("\n")

	cells := make([]string, codeLength)
	for i, c := range m.cells {
		display := c
		if display == "" {
			display = " "
		}
		style := m.styles.Cell
		if i == m.focus && !m.verified {
			style = m.styles.CellFocus
		}
		cells[i] = style.Render(display)
	}
	b.WriteString(strings.Join(cells, " "))
	b.WriteString("\n\n")

	if m.status != "" {
		style := m.styles.Success
		if m.statusError {
			style = m.styles.Error
		}
		b.WriteString(style.Render(m.status))
		b.WriteString("\n")
	}

	if m.debugOTP != "" {
		b.WriteString(m.styles.Warning.Render("Development code: " + m.debugOTP))
		b.WriteString("\n")
	}

	b.WriteString(m.styles.Muted.Render("The code expires 10 minutes after it was sent."))
	b.WriteString("\n")

	if m.submitting {
		b.WriteString(m.styles.Status.Render("Verifying..."))
		b.WriteString("\n")
	}

	help := "enter verify • r resend • esc back"
	if m.cooldown > 0 {
		help = fmt.Sprintf("enter verify • resend in %ds • esc back", m.cooldown)
	}
	b.WriteString(m.styles.Help.Render(help))

	return b.String()
}

// allDigits reports whether every rune is a decimal digit
func allDigits(runes []rune) bool {
	for _, r := range runes {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
