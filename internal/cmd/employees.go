package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/attendly/attendly/internal/directory"
	"github.com/attendly/attendly/internal/ux"
)

var employeesCmd = &cobra.Command{
	Use:   "employees",
	Short: "Manage employee records",
	Long: `List, inspect, and manage employee records.

Listing and searching are available to admins; the server enforces the
same rule, so a non-admin request fails with the server's error.

Examples:
  attendly employees list
  attendly employees list --class A --active --page 2
  attendly employees search ada
  attendly employees get <id>
  attendly employees create --name "Ada Lovelace" --age 36 --class A
  attendly employees delete <id>`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var employeesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List employees",
	RunE:  runEmployeesList,
}

var employeesSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search employees by name",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeesSearch,
}

var employeesGetCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one employee",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeesGet,
}

var employeesCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an employee record",
	RunE:  runEmployeesCreate,
}

var employeesUpdateCmd = &cobra.Command{
	Use:   "update <id>",
	Short: "Update an employee record",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeesUpdate,
}

var employeesDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete an employee record",
	Args:  cobra.ExactArgs(1),
	RunE:  runEmployeesDelete,
}

var employeesUsersCmd = &cobra.Command{
	Use:   "users",
	Short: "List user accounts not linked to an employee",
	Long: `List user accounts with no employee record. Useful before
'employees create --user <id>' to link the new record to an account.`,
	RunE: runEmployeesUsers,
}

var (
	employeesPage      int
	employeesClass     string
	employeesActive    bool
	employeesSortBy    string
	employeesSortOrder string

	employeeName     string
	employeeAge      int
	employeeClass    string
	employeeSubjects []string
	employeeUserID   string
	employeeInactive bool
)

func init() {
	employeesListCmd.Flags().IntVar(&employeesPage, "page", 1, "page number")
	employeesListCmd.Flags().StringVar(&employeesClass, "class", "", "filter by class")
	employeesListCmd.Flags().BoolVar(&employeesActive, "active", false, "only active employees")
	employeesListCmd.Flags().StringVar(&employeesSortBy, "sort", "name", "sort field")
	employeesListCmd.Flags().StringVar(&employeesSortOrder, "order", "asc", "sort order: asc or desc")

	employeesCreateCmd.Flags().StringVar(&employeeName, "name", "", "employee name (required)")
	employeesCreateCmd.Flags().IntVar(&employeeAge, "age", 0, "employee age")
	employeesCreateCmd.Flags().StringVar(&employeeClass, "class", "", "class")
	employeesCreateCmd.Flags().StringSliceVar(&employeeSubjects, "subject", nil, "subject id (repeatable)")
	employeesCreateCmd.Flags().StringVar(&employeeUserID, "user", "", "link to a user account id")

	employeesUpdateCmd.Flags().StringVar(&employeeName, "name", "", "new name")
	employeesUpdateCmd.Flags().IntVar(&employeeAge, "age", 0, "new age")
	employeesUpdateCmd.Flags().StringVar(&employeeClass, "class", "", "new class")
	employeesUpdateCmd.Flags().StringSliceVar(&employeeSubjects, "subject", nil, "replacement subject id (repeatable)")
	employeesUpdateCmd.Flags().BoolVar(&employeeInactive, "inactive", false, "mark the employee inactive")

	employeesCmd.AddCommand(employeesListCmd)
	employeesCmd.AddCommand(employeesSearchCmd)
	employeesCmd.AddCommand(employeesGetCmd)
	employeesCmd.AddCommand(employeesCreateCmd)
	employeesCmd.AddCommand(employeesUpdateCmd)
	employeesCmd.AddCommand(employeesDeleteCmd)
	employeesCmd.AddCommand(employeesUsersCmd)

	rootCmd.AddCommand(employeesCmd)
}

const employeesPageSize = 20

func runEmployeesList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd.Context()); err != nil {
		return err
	}

	var filter *directory.EmployeeFilter
	if employeesClass != "" || employeesActive {
		filter = &directory.EmployeeFilter{Class: employeesClass}
		if employeesActive {
			active := true
			filter.IsActive = &active
		}
	}

	page := employeesPage
	if page < 1 {
		page = 1
	}

	result, _, err := a.dir.ListEmployees(cmd.Context(), directory.ListOptions{
		Filter:    filter,
		Skip:      (page - 1) * employeesPageSize,
		Take:      employeesPageSize,
		SortBy:    employeesSortBy,
		SortOrder: employeesSortOrder,
	})
	if err != nil {
		return err
	}

	return formatOutput(result)
}

func runEmployeesSearch(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd.Context()); err != nil {
		return err
	}

	result, err := a.dir.SearchEmployees(cmd.Context(), args[0], employeesPageSize)
	if err != nil {
		return err
	}
	return formatOutput(result)
}

func runEmployeesGet(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd.Context()); err != nil {
		return err
	}

	employee, err := a.dir.GetEmployee(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	if employee == nil {
		return fmt.Errorf("no employee with id %s", args[0])
	}
	return formatOutput(employee)
}

func runEmployeesCreate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd.Context()); err != nil {
		return err
	}
	if employeeName == "" {
		return fmt.Errorf("--name is required")
	}

	employee, err := a.dir.CreateEmployee(cmd.Context(), directory.CreateEmployeeInput{
		Name:       employeeName,
		Age:        employeeAge,
		Class:      employeeClass,
		SubjectIDs: employeeSubjects,
		UserID:     employeeUserID,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Created employee %s (%s).\n", employee.Name, employee.ID)
	return nil
}

func runEmployeesUpdate(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd.Context()); err != nil {
		return err
	}

	input := directory.UpdateEmployeeInput{SubjectIDs: employeeSubjects}
	if cmd.Flags().Changed("name") {
		input.Name = &employeeName
	}
	if cmd.Flags().Changed("age") {
		input.Age = &employeeAge
	}
	if cmd.Flags().Changed("class") {
		input.Class = &employeeClass
	}
	if cmd.Flags().Changed("inactive") {
		active := !employeeInactive
		input.IsActive = &active
	}

	employee, err := a.dir.UpdateEmployee(cmd.Context(), args[0], input)
	if err != nil {
		return err
	}

	fmt.Printf("Updated employee %s.\n", employee.Name)
	return nil
}

func runEmployeesDelete(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd.Context()); err != nil {
		return err
	}

	if err := a.dir.DeleteEmployee(cmd.Context(), args[0]); err != nil {
		return err
	}

	fmt.Println("Employee deleted.")
	return nil
}

func runEmployeesUsers(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd.Context()); err != nil {
		return err
	}

	users, err := a.dir.UsersWithoutEmployees(cmd.Context())
	if err != nil {
		return err
	}
	if len(users) == 0 {
		fmt.Println("Every user account has an employee record.")
		return nil
	}
	return formatOutput(users)
}

// formatOutput renders data with the formatter selected by --format
func formatOutput(data any) error {
	formatter, err := ux.NewFormatter(flagFormat, nil)
	if err != nil {
		return err
	}
	return formatter.Format(data)
}
