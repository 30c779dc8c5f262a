// Package directory exposes the employee, subject, and attendance operations
// of the API through the gateway.
package directory

import (
	"context"
	"strings"

	"github.com/attendly/attendly/internal/gateway"
)

// Transport is the slice of the gateway the directory service uses
type Transport interface {
	Query(ctx context.Context, spec gateway.QuerySpec, out any) (bool, error)
	Mutate(ctx context.Context, name, document string, variables map[string]any, out any) error
}

// Service wraps the directory operations
type Service struct {
	transport Transport
}

// NewService creates a directory service over the given transport
func NewService(transport Transport) *Service {
	return &Service{transport: transport}
}

// ListEmployees fetches one page of the employees listing.
//
// The cache key excludes skip/take so a page fetch replaces the previously
// cached page for the same filter and ordering, matching the gateway's
// replace-entirely merge policy for this query.
func (s *Service) ListEmployees(ctx context.Context, opts ListOptions) (*EmployeePage, bool, error) {
	var resp struct {
		Employees EmployeePage `json:"employees"`
	}

	vars := map[string]any{
		"skip": opts.Skip,
		"take": opts.Take,
	}
	if opts.Filter != nil {
		vars["filter"] = opts.Filter
	}
	if opts.SortBy != "" {
		vars["sortBy"] = opts.SortBy
	}
	if opts.SortOrder != "" {
		vars["sortOrder"] = opts.SortOrder
	}

	cached, err := s.transport.Query(ctx, gateway.QuerySpec{
		Name:      "GetEmployees",
		Document:  employeesQuery,
		Variables: vars,
		Policy:    gateway.PolicyCacheAndNetwork,
		CacheKey: map[string]any{
			"filter":    opts.Filter,
			"sortBy":    opts.SortBy,
			"sortOrder": opts.SortOrder,
		},
	}, &resp)
	if err != nil {
		return nil, false, err
	}
	return &resp.Employees, cached, nil
}

// GetEmployee fetches a single employee by id
func (s *Service) GetEmployee(ctx context.Context, id string) (*Employee, error) {
	var resp struct {
		Employee *Employee `json:"employee"`
	}

	_, err := s.transport.Query(ctx, gateway.QuerySpec{
		Name:      "GetEmployee",
		Document:  employeeQuery,
		Variables: map[string]any{"id": id},
		Policy:    gateway.PolicyCacheAndNetwork,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Employee, nil
}

// MyProfile fetches the employee record linked to the current user, if any
func (s *Service) MyProfile(ctx context.Context) (*Employee, error) {
	var resp struct {
		MyProfile *Employee `json:"myProfile"`
	}

	_, err := s.transport.Query(ctx, gateway.QuerySpec{
		Name:     "GetMyProfile",
		Document: myProfileQuery,
		Policy:   gateway.PolicyCacheAndNetwork,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.MyProfile, nil
}

// Subjects fetches all subjects
func (s *Service) Subjects(ctx context.Context) ([]Subject, error) {
	var resp struct {
		Subjects []Subject `json:"subjects"`
	}

	_, err := s.transport.Query(ctx, gateway.QuerySpec{
		Name:     "GetSubjects",
		Document: subjectsQuery,
		Policy:   gateway.PolicyCacheAndNetwork,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Subjects, nil
}

// AttendanceByEmployee fetches attendance records for one employee in an
// optional date range.
func (s *Service) AttendanceByEmployee(ctx context.Context, employeeID, startDate, endDate string) ([]AttendanceRecord, error) {
	var resp struct {
		Attendance []AttendanceRecord `json:"attendanceByEmployee"`
	}

	vars := map[string]any{"employeeId": employeeID}
	if startDate != "" {
		vars["startDate"] = startDate
	}
	if endDate != "" {
		vars["endDate"] = endDate
	}

	_, err := s.transport.Query(ctx, gateway.QuerySpec{
		Name:      "GetAttendance",
		Document:  attendanceQuery,
		Variables: vars,
		Policy:    gateway.PolicyCacheAndNetwork,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Attendance, nil
}

// UsersWithoutEmployees fetches user accounts with no linked employee record
func (s *Service) UsersWithoutEmployees(ctx context.Context) ([]gateway.User, error) {
	var resp struct {
		Users []gateway.User `json:"usersWithoutEmployees"`
	}

	_, err := s.transport.Query(ctx, gateway.QuerySpec{
		Name:     "GetUsersWithoutEmployees",
		Document: usersWithoutEmployeesQuery,
		Policy:   gateway.PolicyCacheAndNetwork,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return resp.Users, nil
}

// SearchEmployees runs the global employee search. Network-only: search
// results must reflect the live dataset, not the cache.
func (s *Service) SearchEmployees(ctx context.Context, search string, take int) (*EmployeePage, error) {
	var resp struct {
		Employees EmployeePage `json:"employees"`
	}

	_, err := s.transport.Query(ctx, gateway.QuerySpec{
		Name:     "SearchEmployees",
		Document: searchEmployeesQuery,
		Variables: map[string]any{
			"filter": &EmployeeFilter{Search: search},
			"take":   take,
		},
		Policy: gateway.PolicyNetworkOnly,
	}, &resp)
	if err != nil {
		return nil, err
	}
	return &resp.Employees, nil
}

// SearchSubjects fetches the subject list fresh and filters it by a
// case-insensitive name substring. The API has no subject filter input, so
// the narrowing happens here.
func (s *Service) SearchSubjects(ctx context.Context, search string) ([]Subject, error) {
	var resp struct {
		Subjects []Subject `json:"subjects"`
	}

	_, err := s.transport.Query(ctx, gateway.QuerySpec{
		Name:     "SearchSubjects",
		Document: searchSubjectsQuery,
		Policy:   gateway.PolicyNetworkOnly,
	}, &resp)
	if err != nil {
		return nil, err
	}

	term := strings.ToLower(strings.TrimSpace(search))
	if term == "" {
		return resp.Subjects, nil
	}

	matched := make([]Subject, 0, len(resp.Subjects))
	for _, subject := range resp.Subjects {
		if strings.Contains(strings.ToLower(subject.Name), term) {
			matched = append(matched, subject)
		}
	}
	return matched, nil
}

// CreateEmployee creates a new employee record
func (s *Service) CreateEmployee(ctx context.Context, input CreateEmployeeInput) (*Employee, error) {
	var resp struct {
		Employee *Employee `json:"createEmployee"`
	}

	vars := map[string]any{"input": input}
	if err := s.transport.Mutate(ctx, "CreateEmployee", createEmployeeMutation, vars, &resp); err != nil {
		return nil, err
	}
	return resp.Employee, nil
}

// UpdateEmployee updates an employee record
func (s *Service) UpdateEmployee(ctx context.Context, id string, input UpdateEmployeeInput) (*Employee, error) {
	var resp struct {
		Employee *Employee `json:"updateEmployee"`
	}

	vars := map[string]any{"id": id, "input": input}
	if err := s.transport.Mutate(ctx, "UpdateEmployee", updateEmployeeMutation, vars, &resp); err != nil {
		return nil, err
	}
	return resp.Employee, nil
}

// DeleteEmployee deletes an employee record
func (s *Service) DeleteEmployee(ctx context.Context, id string) error {
	vars := map[string]any{"id": id}
	return s.transport.Mutate(ctx, "DeleteEmployee", deleteEmployeeMutation, vars, nil)
}

// CreateSubject creates a subject
func (s *Service) CreateSubject(ctx context.Context, name string) (*Subject, error) {
	var resp struct {
		Subject *Subject `json:"createSubject"`
	}

	vars := map[string]any{"input": map[string]any{"name": name}}
	if err := s.transport.Mutate(ctx, "CreateSubject", createSubjectMutation, vars, &resp); err != nil {
		return nil, err
	}
	return resp.Subject, nil
}

// DeleteSubject deletes a subject
func (s *Service) DeleteSubject(ctx context.Context, id string) error {
	vars := map[string]any{"id": id}
	return s.transport.Mutate(ctx, "DeleteSubject", deleteSubjectMutation, vars, nil)
}

// MarkAttendance records attendance for an employee
func (s *Service) MarkAttendance(ctx context.Context, input MarkAttendanceInput) (*AttendanceRecord, error) {
	var resp struct {
		Record *AttendanceRecord `json:"markAttendance"`
	}

	vars := map[string]any{"input": input}
	if err := s.transport.Mutate(ctx, "MarkAttendance", markAttendanceMutation, vars, &resp); err != nil {
		return nil, err
	}
	return resp.Record, nil
}

// UpdateMyName updates the current user's employee name. Callers should
// refresh the identity afterwards since the linked profile may change.
func (s *Service) UpdateMyName(ctx context.Context, name string) (*Employee, error) {
	var resp struct {
		Employee *Employee `json:"updateMyName"`
	}

	vars := map[string]any{"input": map[string]any{"name": name}}
	if err := s.transport.Mutate(ctx, "UpdateMyName", updateMyNameMutation, vars, &resp); err != nil {
		return nil, err
	}
	return resp.Employee, nil
}
