// Package authz holds the static role-to-capability table.
//
// Permissions are a pure function of the current role. There is no dynamic
// or remote permission lookup; this table is the single source of truth.
package authz

import "strings"

// Role identifies the account type assigned by the server
type Role string

// Roles known to the console
const (
	RoleAdmin    Role = "ADMIN"
	RoleEmployee Role = "EMPLOYEE"
)

// Capability is a named permission checked against the current role
type Capability string

// Capabilities consulted by the console views
const (
	CapCreate           Capability = "create"
	CapUpdate           Capability = "update"
	CapDelete           Capability = "delete"
	CapViewAll          Capability = "view_all"
	CapManageAttendance Capability = "manage_attendance"
	CapManageSubjects   Capability = "manage_subjects"
	CapViewOwn          Capability = "view_own"
	CapViewAttendance   Capability = "view_attendance"
)

// adminCapabilities are granted to admins on top of the baseline set
var adminCapabilities = map[Capability]bool{
	CapCreate:           true,
	CapUpdate:           true,
	CapDelete:           true,
	CapViewAll:          true,
	CapManageAttendance: true,
	CapManageSubjects:   true,
}

// baselineCapabilities are granted to every authenticated role
var baselineCapabilities = map[Capability]bool{
	CapViewOwn:        true,
	CapViewAttendance: true,
}

// IsAdmin reports whether role carries the admin capability set
func IsAdmin(role Role) bool {
	return role == RoleAdmin
}

// HasPermission reports whether role grants the given capability.
// Admins hold both the admin-only and baseline sets; every other role holds
// only the baseline set.
func HasPermission(role Role, capability Capability) bool {
	if baselineCapabilities[capability] {
		return role == RoleAdmin || role == RoleEmployee
	}
	if adminCapabilities[capability] {
		return IsAdmin(role)
	}
	return false
}

// ParseRole normalizes a role string, case-insensitively.
// Unknown values map to RoleEmployee, the least-privileged role.
func ParseRole(s string) Role {
	switch Role(strings.ToUpper(s)) {
	case RoleAdmin:
		return RoleAdmin
	default:
		return RoleEmployee
	}
}
