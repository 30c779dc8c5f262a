package cmd

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/attendly/attendly/internal/tui"
)

var consoleCmd = &cobra.Command{
	Use:   "console",
	Short: "Open the interactive console",
	Long: `Open the full-screen interactive console.

The console resolves the stored session first: a signed-in identity
lands on the dashboard, a pending email verification resumes the code
entry screen, and everyone else gets the sign-in form. Admin views are
gated by role.

Examples:
  attendly console`,
	RunE: runConsole,
}

func init() {
	rootCmd.AddCommand(consoleCmd)
}

func runConsole(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}

	model := tui.NewConsoleModel(a.controller, a.dir, a.cfg.DebugOTP)
	_, err = tea.NewProgram(model, tea.WithAltScreen()).Run()
	return err
}
