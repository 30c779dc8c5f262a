package cmd

import (
	"fmt"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/attendly/attendly/internal/auth"
)

var loginCmd = &cobra.Command{
	Use:   "login",
	Short: "Sign in with email and password",
	Long: `Sign in to the Attendly service with your email and password.

If the account's email is not verified yet, sign-in pauses and a
verification code is sent; complete it with 'attendly verify'.

Examples:
  attendly login
  attendly login --email user@example.com`,
	RunE: runLogin,
}

var (
	loginEmail    string
	loginPassword string
)

func init() {
	loginCmd.Flags().StringVar(&loginEmail, "email", "", "email address")
	loginCmd.Flags().StringVar(&loginPassword, "password", "", "password (prompted when omitted)")

	rootCmd.AddCommand(loginCmd)
}

func runLogin(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if loginEmail == "" || loginPassword == "" {
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Email").
					Value(&loginEmail).
					Validate(auth.ValidateEmail),
				huh.NewInput().
					Title("Password").
					EchoMode(huh.EchoModePassword).
					Value(&loginPassword),
			),
		)
		if err := form.Run(); err != nil {
			return err
		}
	}

	result, err := a.controller.Login(cmd.Context(), loginEmail, loginPassword)
	if err != nil {
		return err
	}

	if result.VerificationRequired {
		if result.Message != "" {
			fmt.Println(result.Message)
		} else {
			fmt.Printf("A verification code was sent to %s.\n", result.Email)
		}
		if a.cfg.DebugOTP && result.DebugOTP != "" {
			fmt.Printf("Development code: %s\n", result.DebugOTP)
		}
		fmt.Println()
		fmt.Println("Run 'attendly verify' to enter the code.")
		return nil
	}

	fmt.Printf("Signed in as %s.\n", result.User.Email)
	return nil
}
