package cmd

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/attendly/attendly/internal/directory"
)

var attendanceCmd = &cobra.Command{
	Use:   "attendance",
	Short: "View and record attendance",
	Long: `View attendance records and mark attendance for employees.

Without --employee the listing shows your own records, via the employee
profile linked to your account.

Examples:
  attendly attendance list
  attendly attendance list --employee <id> --from 2026-08-01 --to 2026-08-31
  attendly attendance mark --employee <id> --status PRESENT`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

var attendanceListCmd = &cobra.Command{
	Use:   "list",
	Short: "List attendance records",
	RunE:  runAttendanceList,
}

var attendanceMarkCmd = &cobra.Command{
	Use:   "mark",
	Short: "Record attendance for an employee",
	RunE:  runAttendanceMark,
}

var (
	attendanceEmployee string
	attendanceFrom     string
	attendanceTo       string
	attendanceDate     string
	attendanceStatus   string
)

func init() {
	attendanceListCmd.Flags().StringVar(&attendanceEmployee, "employee", "", "employee id (defaults to your own profile)")
	attendanceListCmd.Flags().StringVar(&attendanceFrom, "from", "", "start date (YYYY-MM-DD)")
	attendanceListCmd.Flags().StringVar(&attendanceTo, "to", "", "end date (YYYY-MM-DD)")

	attendanceMarkCmd.Flags().StringVar(&attendanceEmployee, "employee", "", "employee id (required)")
	attendanceMarkCmd.Flags().StringVar(&attendanceDate, "date", "", "date (YYYY-MM-DD, defaults to today)")
	attendanceMarkCmd.Flags().StringVar(&attendanceStatus, "status", "PRESENT", "status: PRESENT or ABSENT")

	attendanceCmd.AddCommand(attendanceListCmd)
	attendanceCmd.AddCommand(attendanceMarkCmd)

	rootCmd.AddCommand(attendanceCmd)
}

func runAttendanceList(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd.Context()); err != nil {
		return err
	}

	employeeID := attendanceEmployee
	if employeeID == "" {
		snap := a.controller.Snapshot()
		if snap.User.Employee == nil {
			return fmt.Errorf("no employee profile is linked to this account; pass --employee")
		}
		employeeID = snap.User.Employee.ID
	}

	records, err := a.dir.AttendanceByEmployee(cmd.Context(), employeeID, attendanceFrom, attendanceTo)
	if err != nil {
		return err
	}
	return formatOutput(records)
}

func runAttendanceMark(cmd *cobra.Command, args []string) error {
	a, err := newApp()
	if err != nil {
		return err
	}
	if err := a.requireSession(cmd.Context()); err != nil {
		return err
	}
	if attendanceEmployee == "" {
		return fmt.Errorf("--employee is required")
	}

	date := attendanceDate
	if date == "" {
		date = time.Now().Format("2006-01-02")
	}

	record, err := a.dir.MarkAttendance(cmd.Context(), directory.MarkAttendanceInput{
		EmployeeID: attendanceEmployee,
		Date:       date,
		Status:     attendanceStatus,
	})
	if err != nil {
		return err
	}

	fmt.Printf("Marked %s on %s.\n", record.Status, record.Date)
	return nil
}
