package cmd

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/attendly/attendly/internal/auth"
	"github.com/attendly/attendly/internal/errors"
	"github.com/attendly/attendly/internal/tui"
)

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify your email with the code that was sent",
	Long: `Verify your email address with the 6-digit code from the
verification email.

Without --code the interactive entry screen opens, with cell-by-cell
entry, paste support, and a resend countdown.

Examples:
  attendly verify
  attendly verify --email user@example.com --code 123456
  attendly verify --resend`,
	RunE: runVerify,
}

var (
	verifyEmail  string
	verifyCode   string
	verifyResend bool
)

func init() {
	verifyCmd.Flags().StringVar(&verifyEmail, "email", "", "email address (defaults to the pending verification)")
	verifyCmd.Flags().StringVar(&verifyCode, "code", "", "6-digit verification code")
	verifyCmd.Flags().BoolVar(&verifyResend, "resend", false, "request a new code instead of entering one")

	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	// Recover a pending verification left by a previous login or register.
	if err := a.controller.Bootstrap(cmd.Context()); err != nil {
		return err
	}
	snap := a.controller.Snapshot()

	email := verifyEmail
	if email == "" {
		email = snap.Email
	}
	if email == "" {
		return errors.New(errors.ErrCodeValidationEmail, "no pending verification").
			WithSuggestion("Pass --email, or run 'attendly login' first")
	}

	if verifyResend {
		result, err := a.controller.ResendOTP(cmd.Context(), email)
		if err != nil {
			return err
		}
		if result.Message != "" {
			fmt.Println(result.Message)
		} else {
			fmt.Printf("A new code was sent to %s.\n", email)
		}
		if a.cfg.DebugOTP && result.DebugOTP != "" {
			fmt.Printf("Development code: %s\n", result.DebugOTP)
		}
		return nil
	}

	if verifyCode != "" {
		result, err := a.controller.VerifyOTP(cmd.Context(), email, verifyCode)
		if err != nil {
			return err
		}
		return printVerifyOutcome(result)
	}

	// Interactive cell entry.
	model := newVerifyProgram(a.controller, email, a.cfg.DebugOTP)
	finished, err := tea.NewProgram(model).Run()
	if err != nil {
		return err
	}

	final, ok := finished.(verifyProgram)
	if !ok || final.result == nil {
		return nil
	}
	return printVerifyOutcome(final.result)
}

func printVerifyOutcome(result *auth.VerifyResult) error {
	if result.Message != "" {
		fmt.Println(result.Message)
	}
	if result.Authenticated {
		fmt.Printf("Signed in as %s.\n", result.User.Email)
	} else if result.Success {
		fmt.Println("Email verified. Run 'attendly login' to sign in.")
	}
	return nil
}

// verifyProgram hosts the OTP entry model as a standalone program
type verifyProgram struct {
	otp    tui.OTPModel
	result *auth.VerifyResult
}

func newVerifyProgram(controller *auth.Controller, email string, debugOTP bool) verifyProgram {
	return verifyProgram{otp: tui.NewOTPModel(controller, email, "", debugOTP)}
}

func (p verifyProgram) Init() tea.Cmd {
	return p.otp.Init()
}

func (p verifyProgram) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return p, tea.Quit
		}
	case tui.OTPVerifiedMsg:
		p.result = msg.Result
		return p, tea.Quit
	case tui.OTPCancelledMsg:
		return p, tea.Quit
	}

	var cmd tea.Cmd
	p.otp, cmd = p.otp.Update(msg)
	return p, cmd
}

func (p verifyProgram) View() string {
	if p.result != nil {
		return ""
	}
	return p.otp.View()
}
