package directory

import "github.com/attendly/attendly/internal/gateway"

// Employee is an employee record with its linked subjects, attendance, and
// user account.
type Employee struct {
	ID         string             `json:"id"`
	UserID     string             `json:"userId"`
	Name       string             `json:"name"`
	Age        int                `json:"age"`
	Class      string             `json:"class"`
	IsActive   bool               `json:"isActive"`
	CreatedAt  string             `json:"createdAt"`
	UpdatedAt  string             `json:"updatedAt"`
	Subjects   []Subject          `json:"subjects"`
	Attendance []AttendanceRecord `json:"attendance"`
	User       *gateway.User      `json:"user"`
}

// Subject is a teachable subject, optionally with assigned employees
type Subject struct {
	ID        string     `json:"id"`
	Name      string     `json:"name"`
	Employees []Employee `json:"employees"`
}

// AttendanceRecord is a single attendance entry for an employee
type AttendanceRecord struct {
	ID       string    `json:"id"`
	Date     string    `json:"date"`
	Status   string    `json:"status"`
	Employee *Employee `json:"employee"`
}

// EmployeePage is one page of the employees listing
type EmployeePage struct {
	Employees       []Employee `json:"employees"`
	TotalCount      int        `json:"totalCount"`
	HasNextPage     bool       `json:"hasNextPage"`
	HasPreviousPage bool       `json:"hasPreviousPage"`
}

// EmployeeFilter narrows the employees listing
type EmployeeFilter struct {
	Search   string `json:"search,omitempty"`
	Class    string `json:"class,omitempty"`
	IsActive *bool  `json:"isActive,omitempty"`
}

// ListOptions control pagination and ordering of the employees listing
type ListOptions struct {
	Filter    *EmployeeFilter
	Skip      int
	Take      int
	SortBy    string
	SortOrder string
}

// CreateEmployeeInput holds the fields for a new employee record
type CreateEmployeeInput struct {
	Name       string   `json:"name"`
	Age        int      `json:"age"`
	Class      string   `json:"class"`
	SubjectIDs []string `json:"subjectIds,omitempty"`
	UserID     string   `json:"userId,omitempty"`
}

// UpdateEmployeeInput holds the updatable fields of an employee record.
// Nil fields are left unchanged.
type UpdateEmployeeInput struct {
	Name       *string  `json:"name,omitempty"`
	Age        *int     `json:"age,omitempty"`
	Class      *string  `json:"class,omitempty"`
	IsActive   *bool    `json:"isActive,omitempty"`
	SubjectIDs []string `json:"subjectIds,omitempty"`
}

// MarkAttendanceInput records attendance for one employee on one date
type MarkAttendanceInput struct {
	EmployeeID string `json:"employeeId"`
	Date       string `json:"date"`
	Status     string `json:"status"`
}
