package tui

import "github.com/attendly/attendly/internal/auth"

// Requirement is the access level a view demands
type Requirement int

const (
	// RequireNone allows any visitor
	RequireNone Requirement = iota
	// RequireAuthenticated allows any signed-in identity
	RequireAuthenticated
	// RequireAdmin allows admins only
	RequireAdmin
)

// Decision is the outcome of gating a view against the session state
type Decision int

const (
	// DecisionWait means the session state is not resolved yet; render a
	// placeholder and decide again once it is.
	DecisionWait Decision = iota
	// DecisionAllow grants access to the requested view
	DecisionAllow
	// DecisionLogin redirects to the sign-in view
	DecisionLogin
	// DecisionDashboard redirects an authenticated but under-privileged
	// identity to the dashboard
	DecisionDashboard
)

// Decide gates a view requirement against the current session snapshot.
//
// While the session is still loading no protected view renders and no
// redirect fires. An anonymous visitor is sent to sign-in for any protected
// view, including admin ones: authentication is decided before privilege, so
// an anonymous visitor on an admin view lands on sign-in, never on the
// dashboard. Only an authenticated non-admin gets the dashboard redirect.
func Decide(snapshot auth.Snapshot, requirement Requirement) Decision {
	if requirement == RequireNone {
		return DecisionAllow
	}
	if snapshot.Phase == auth.PhaseLoading {
		return DecisionWait
	}
	if !snapshot.IsAuthenticated() {
		return DecisionLogin
	}
	if requirement == RequireAdmin && !snapshot.IsAdmin() {
		return DecisionDashboard
	}
	return DecisionAllow
}
