package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/attendly/attendly/internal/auth"
	"github.com/attendly/attendly/internal/authz"
)

var registerCmd = &cobra.Command{
	Use:   "register",
	Short: "Create a new account",
	Long: `Create a new Attendly account.

Registration always requires verifying the email address afterwards:
a code is sent and the account stays unverified until 'attendly verify'
completes.

Examples:
  attendly register
  attendly register --email user@example.com --role employee`,
	RunE: runRegister,
}

var (
	registerEmail    string
	registerPassword string
	registerRole     string
)

func init() {
	registerCmd.Flags().StringVar(&registerEmail, "email", "", "email address")
	registerCmd.Flags().StringVar(&registerPassword, "password", "", "password (prompted when omitted)")
	registerCmd.Flags().StringVar(&registerRole, "role", "employee", "account role: employee or admin")

	rootCmd.AddCommand(registerCmd)
}

func runRegister(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if registerEmail == "" || registerPassword == "" {
		confirm := ""
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Value(&registerEmail).
					Validate(auth.ValidateEmail),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&registerPassword).
					Validate(auth.ValidatePassword),
				huh.NewInput().
					Title("Confirm password").
					EchoMode(huh.EchoModePassword).
					Value(&confirm).
					Validate(func(s string) error {
						return auth.ValidatePasswordConfirmation(registerPassword, s)
					}),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}

	role := string(authz.ParseRole(registerRole))

	result, err := a.controller.Register(cmd.Context(), registerEmail, registerPassword, role)
	if err != nil {
		return err
	}

	if result.Message != "" {
		fmt.Println(result.Message)
	} else {
		fmt.Printf("Account created. A verification code was sent to %s.\n", result.Email)
	}
	if a.cfg.DebugOTP && result.DebugOTP != "" {
		fmt.Printf("Development code: %s\n", result.DebugOTP)
	}
	fmt.Println()
	fmt.Println("Run 'attendly verify' to enter the code.")
	return nil
}
