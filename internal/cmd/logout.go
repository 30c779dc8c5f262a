package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var logoutCmd = &cobra.Command{
	Use:   "logout",
	Short: "Sign out and remove the stored session",
	Long: `Sign out and remove the locally stored session token.

Signing out while already signed out is harmless.

Examples:
  attendly logout`,
	RunE: runLogout,
}

func init() {
	rootCmd.AddCommand(logoutCmd)
}

func runLogout(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if err := a.controller.Logout(); err != nil {
		return err
	}

	fmt.Println("Signed out.")
	return nil
}
