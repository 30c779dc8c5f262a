package directory

// Field selections and operation documents for the directory surface.
// The employeeFields selection mirrors the server's Employee type.

const employeeFields = `
    id
    userId
    name
    age
    class
    isActive
    createdAt
    updatedAt
    subjects {
      id
      name
    }
    attendance {
      id
      date
      status
    }
    user {
      id
      email
      role
    }`

const employeesQuery = `
  query GetEmployees($filter: EmployeeFilterInput, $skip: Int, $take: Int, $sortBy: SortField, $sortOrder: SortOrder) {
    employees(filter: $filter, skip: $skip, take: $take, sortBy: $sortBy, sortOrder: $sortOrder) {
      employees {` + employeeFields + `
      }
      totalCount
      hasNextPage
      hasPreviousPage
    }
  }`

const employeeQuery = `
  query GetEmployee($id: ID!) {
    employee(id: $id) {` + employeeFields + `
    }
  }`

const myProfileQuery = `
  query GetMyProfile {
    myProfile {` + employeeFields + `
    }
  }`

const subjectsQuery = `
  query GetSubjects {
    subjects {
      id
      name
      employees {
        id
        name
      }
    }
  }`

const searchSubjectsQuery = `
  query SearchSubjects {
    subjects {
      id
      name
    }
  }`

const attendanceQuery = `
  query GetAttendance($employeeId: String!, $startDate: String, $endDate: String) {
    attendanceByEmployee(employeeId: $employeeId, startDate: $startDate, endDate: $endDate) {
      id
      date
      status
      employee {
        id
        name
      }
    }
  }`

const usersWithoutEmployeesQuery = `
  query GetUsersWithoutEmployees {
    usersWithoutEmployees {
      id
      email
      role
    }
  }`

const searchEmployeesQuery = `
  query SearchEmployees($filter: EmployeeFilterInput, $take: Int) {
    employees(filter: $filter, take: $take) {
      employees {
        id
        name
        class
        isActive
      }
      totalCount
    }
  }`

const createEmployeeMutation = `
  mutation CreateEmployee($input: CreateEmployeeInput!) {
    createEmployee(input: $input) {` + employeeFields + `
    }
  }`

const updateEmployeeMutation = `
  mutation UpdateEmployee($id: ID!, $input: UpdateEmployeeInput!) {
    updateEmployee(id: $id, input: $input) {` + employeeFields + `
    }
  }`

const deleteEmployeeMutation = `
  mutation DeleteEmployee($id: ID!) {
    deleteEmployee(id: $id)
  }`

const createSubjectMutation = `
  mutation CreateSubject($input: CreateSubjectInput!) {
    createSubject(input: $input) {
      id
      name
    }
  }`

const deleteSubjectMutation = `
  mutation DeleteSubject($id: ID!) {
    deleteSubject(id: $id)
  }`

const markAttendanceMutation = `
  mutation MarkAttendance($input: MarkAttendanceInput!) {
    markAttendance(input: $input) {
      id
      date
      status
      employee {
        id
        name
      }
    }
  }`

const updateMyNameMutation = `
  mutation UpdateMyName($input: UpdateMyNameInput!) {
    updateMyName(input: $input) {` + employeeFields + `
    }
  }`
