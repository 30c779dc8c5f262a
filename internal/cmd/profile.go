package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var profileCmd = &cobra.Command{
	Use:   "profile",
	Short: "Show or update your employee profile",
	Long: `Show the employee profile linked to your account, or update its
display name.

Examples:
  attendly profile
  attendly profile --set-name "Ada Lovelace"`,
	RunE: runProfile,
}

var profileSetName string

func init() {
	profileCmd.Flags().StringVar(&profileSetName, "set-name", "", "update the profile name")

	rootCmd.AddCommand(profileCmd)
}

func runProfile(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd.Context()); err != nil {
		return err
	}

	if profileSetName != "" {
		employee, err := a.dir.UpdateMyName(cmd.Context(), profileSetName)
		if err != nil {
			return err
		}
		// The cached identity carries the old profile; re-resolve it.
		if err := a.controller.Bootstrap(cmd.Context()); err != nil {
			return err
		}
		fmt.Printf("Profile name updated to %s.\n", employee.Name)
		return nil
	}

	profile, err := a.dir.MyProfile(cmd.Context())
	if err != nil {
		return err
	}
	if profile == nil {
		fmt.Println("No employee profile is linked to this account.")
		return nil
	}
	return formatOutput(profile)
}
