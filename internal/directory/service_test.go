package directory

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/attendly/attendly/internal/gateway"
)

// fakeTransport records operations and answers them with canned JSON
type fakeTransport struct {
	queries   []gateway.QuerySpec
	mutations []fakeMutation

	queryData  string
	mutateData string
	err        error
	cached     bool
}

type fakeMutation struct {
	Name      string
	Variables map[string]any
}

func (f *fakeTransport) Query(ctx context.Context, spec gateway.QuerySpec, out any) (bool, error) {
	f.queries = append(f.queries, spec)
	if f.err != nil {
		return false, f.err
	}
	if err := json.Unmarshal([]byte(f.queryData), out); err != nil {
		return false, err
	}
	return f.cached, nil
}

func (f *fakeTransport) Mutate(ctx context.Context, name, document string, variables map[string]any, out any) error {
	f.mutations = append(f.mutations, fakeMutation{Name: name, Variables: variables})
	if f.err != nil {
		return f.err
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal([]byte(f.mutateData), out)
}

func TestListEmployeesCacheKeyExcludesPagination(t *testing.T) {
	transport := &fakeTransport{
		queryData: `{"employees":{"employees":[{"id":"e1","name":"Ada"}],"totalCount":12,"hasNextPage":true}}`,
		cached:    true,
	}
	svc := NewService(transport)

	filter := &EmployeeFilter{Class: "A"}
	page, cached, err := svc.ListEmployees(context.Background(), ListOptions{
		Filter:    filter,
		Skip:      10,
		Take:      5,
		SortBy:    "name",
		SortOrder: "asc",
	})
	require.NoError(t, err)
	assert.True(t, cached)
	assert.Equal(t, 12, page.TotalCount)
	assert.True(t, page.HasNextPage)
	require.Len(t, page.Employees, 1)
	assert.Equal(t, "Ada", page.Employees[0].Name)

	require.Len(t, transport.queries, 1)
	spec := transport.queries[0]
	assert.Equal(t, "GetEmployees", spec.Name)
	assert.Equal(t, gateway.PolicyCacheAndNetwork, spec.Policy)

	// Pagination goes on the wire but stays out of the cache key, so every
	// page fetch replaces the cached page for this filter and ordering.
	assert.Equal(t, 10, spec.Variables["skip"])
	assert.Equal(t, 5, spec.Variables["take"])
	assert.Equal(t, map[string]any{
		"filter":    filter,
		"sortBy":    "name",
		"sortOrder": "asc",
	}, spec.CacheKey)
	assert.NotContains(t, spec.CacheKey, "skip")
	assert.NotContains(t, spec.CacheKey, "take")
}

func TestListEmployeesOmitsUnsetVariables(t *testing.T) {
	transport := &fakeTransport{queryData: `{"employees":{}}`}
	svc := NewService(transport)

	_, _, err := svc.ListEmployees(context.Background(), ListOptions{Take: 10})
	require.NoError(t, err)

	spec := transport.queries[0]
	assert.NotContains(t, spec.Variables, "filter")
	assert.NotContains(t, spec.Variables, "sortBy")
	assert.NotContains(t, spec.Variables, "sortOrder")
}

func TestSearchEmployeesNetworkOnly(t *testing.T) {
	transport := &fakeTransport{
		queryData: `{"employees":{"employees":[{"id":"e2","name":"Grace"}],"totalCount":1}}`,
	}
	svc := NewService(transport)

	page, err := svc.SearchEmployees(context.Background(), "gra", 20)
	require.NoError(t, err)
	require.Len(t, page.Employees, 1)
	assert.Equal(t, "Grace", page.Employees[0].Name)

	spec := transport.queries[0]
	assert.Equal(t, gateway.PolicyNetworkOnly, spec.Policy, "search must always hit the live dataset")
	filter, ok := spec.Variables["filter"].(*EmployeeFilter)
	require.True(t, ok)
	assert.Equal(t, "gra", filter.Search)
}

func TestSearchSubjectsFiltersLocally(t *testing.T) {
	transport := &fakeTransport{
		queryData: `{"subjects":[{"id":"s1","name":"Mathematics"},{"id":"s2","name":"History"},{"id":"s3","name":"Applied Math"}]}`,
	}
	svc := NewService(transport)

	subjects, err := svc.SearchSubjects(context.Background(), "  MATH ")
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, "Mathematics", subjects[0].Name)
	assert.Equal(t, "Applied Math", subjects[1].Name)

	assert.Equal(t, gateway.PolicyNetworkOnly, transport.queries[0].Policy)
}

func TestSearchSubjectsEmptyTermReturnsAll(t *testing.T) {
	transport := &fakeTransport{
		queryData: `{"subjects":[{"id":"s1","name":"Mathematics"},{"id":"s2","name":"History"}]}`,
	}
	svc := NewService(transport)

	subjects, err := svc.SearchSubjects(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, subjects, 2)
}

func TestGetEmployee(t *testing.T) {
	transport := &fakeTransport{
		queryData: `{"employee":{"id":"e1","name":"Ada","subjects":[{"id":"s1","name":"Math"}]}}`,
	}
	svc := NewService(transport)

	emp, err := svc.GetEmployee(context.Background(), "e1")
	require.NoError(t, err)
	assert.Equal(t, "Ada", emp.Name)
	require.Len(t, emp.Subjects, 1)
	assert.Equal(t, "Math", emp.Subjects[0].Name)

	assert.Equal(t, map[string]any{"id": "e1"}, transport.queries[0].Variables)
}

func TestSubjects(t *testing.T) {
	transport := &fakeTransport{
		queryData: `{"subjects":[{"id":"s1","name":"Math"},{"id":"s2","name":"Physics"}]}`,
	}
	svc := NewService(transport)

	subjects, err := svc.Subjects(context.Background())
	require.NoError(t, err)
	require.Len(t, subjects, 2)
	assert.Equal(t, "Physics", subjects[1].Name)
}

func TestAttendanceByEmployeeDateRange(t *testing.T) {
	transport := &fakeTransport{
		queryData: `{"attendanceByEmployee":[{"id":"a1","date":"2026-08-31","status":"PRESENT"}]}`,
	}
	svc := NewService(transport)

	records, err := svc.AttendanceByEmployee(context.Background(), "e1", "2026-08-01", "2026-08-31")
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "PRESENT", records[0].Status)

	vars := transport.queries[0].Variables
	assert.Equal(t, "e1", vars["employeeId"])
	assert.Equal(t, "2026-08-01", vars["startDate"])
	assert.Equal(t, "2026-08-31", vars["endDate"])

	// An open range omits the date variables entirely.
	_, err = svc.AttendanceByEmployee(context.Background(), "e1", "", "")
	require.NoError(t, err)
	vars = transport.queries[1].Variables
	assert.NotContains(t, vars, "startDate")
	assert.NotContains(t, vars, "endDate")
}

func TestCreateEmployee(t *testing.T) {
	transport := &fakeTransport{
		mutateData: `{"createEmployee":{"id":"e9","name":"Alan"}}`,
	}
	svc := NewService(transport)

	emp, err := svc.CreateEmployee(context.Background(), CreateEmployeeInput{
		Name:       "Alan",
		Age:        41,
		Class:      "B",
		SubjectIDs: []string{"s1"},
	})
	require.NoError(t, err)
	assert.Equal(t, "e9", emp.ID)

	require.Len(t, transport.mutations, 1)
	m := transport.mutations[0]
	assert.Equal(t, "CreateEmployee", m.Name)
	input, ok := m.Variables["input"].(CreateEmployeeInput)
	require.True(t, ok)
	assert.Equal(t, "Alan", input.Name)
}

func TestDeleteEmployee(t *testing.T) {
	transport := &fakeTransport{}
	svc := NewService(transport)

	require.NoError(t, svc.DeleteEmployee(context.Background(), "e1"))
	require.Len(t, transport.mutations, 1)
	assert.Equal(t, "DeleteEmployee", transport.mutations[0].Name)
	assert.Equal(t, map[string]any{"id": "e1"}, transport.mutations[0].Variables)
}

func TestMarkAttendance(t *testing.T) {
	transport := &fakeTransport{
		mutateData: `{"markAttendance":{"id":"a1","date":"2026-09-01","status":"ABSENT"}}`,
	}
	svc := NewService(transport)

	record, err := svc.MarkAttendance(context.Background(), MarkAttendanceInput{
		EmployeeID: "e1",
		Date:       "2026-09-01",
		Status:     "ABSENT",
	})
	require.NoError(t, err)
	assert.Equal(t, "ABSENT", record.Status)
}

func TestQueryErrorPropagates(t *testing.T) {
	transport := &fakeTransport{err: assert.AnError}
	svc := NewService(transport)

	_, _, err := svc.ListEmployees(context.Background(), ListOptions{Take: 10})
	assert.ErrorIs(t, err, assert.AnError)

	_, err = svc.Subjects(context.Background())
	assert.ErrorIs(t, err, assert.AnError)
}
