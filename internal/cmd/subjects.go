package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var subjectsCmd = &cobra.Command{
	Use:   "subjects",
	Short: "Manage subjects",
	Long: `List and manage the subjects employees can be assigned to.

Examples:
  attendly subjects list
  attendly subjects create --name Mathematics
  attendly subjects delete <id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var subjectsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List subjects",
	RunE:  runSubjectsList,
}

var subjectsCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a subject",
	RunE:  runSubjectsCreate,
}

var subjectsSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search subjects by name",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubjectsSearch,
}

var subjectsDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a subject",
	Args:  cobra.ExactArgs(1),
	RunE:  runSubjectsDelete,
}

var subjectName string

func init() {
	subjectsCreateCmd.Flags().StringVar(&subjectName, "name", "", "subject name (required)")

	subjectsCmd.AddCommand(subjectsListCmd)
	subjectsCmd.AddCommand(subjectsSearchCmd)
	subjectsCmd.AddCommand(subjectsCreateCmd)
	subjectsCmd.AddCommand(subjectsDeleteCmd)

	rootCmd.AddCommand(subjectsCmd)
}

func runSubjectsList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd.Context()); err != nil {
		return err
	}

	subjects, err := a.dir.Subjects(cmd.Context())
	if err != nil {
		return err
	}
	return formatOutput(subjects)
}

func runSubjectsSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd.Context()); err != nil {
		return err
	}

	subjects, err := a.dir.SearchSubjects(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return formatOutput(subjects)
}

func runSubjectsCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd.Context()); err != nil {
		return err
	}
	if subjectName == "" {
		return fmt.Errorf("--name is required")
	}

	subject, err := a.dir.CreateSubject(cmd.Context(), subjectName)
	if err != nil {
		return err
	}

	fmt.Printf("Created subject %s (%s).\n", subject.Name, subject.ID)
	return nil
}

func runSubjectsDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd.Context()); err != nil {
		return err
	}

	if err := a.dir.DeleteSubject(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Println("Subject deleted.")
	return nil
}
