package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/attendly/attendly/internal/ux"
)

var whoamiCmd = &cobra.Command{
	Use:   "whoami",
	Short: "Show the current identity",
	Long: `Show the identity behind the stored session, confirmed against the
server. A stale or revoked session is purged and reported as signed out.

Examples:
  attendly whoami
  attendly whoami --format json`,
	RunE: runWhoami,
}

func init() {
	rootCmd.AddCommand(whoamiCmd)
}

func runWhoami(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	if err := a.requireSession(cmd.Context()); err != nil {
		return err
	}
	snap := a.controller.Snapshot()

	if flagFormat != "text" {
		formatter, err := ux.NewFormatter(flagFormat, nil)
		if err != nil {
			return err
		}
		return formatter.Format(snap.User)
	}

	fmt.Printf("%s (%s)\n", snap.User.Email, strings.ToLower(snap.User.Role))
	if snap.User.Employee != nil {
		fmt.Printf("Linked employee profile: %s\n", snap.User.Employee.Name)
	}
	return nil
}
