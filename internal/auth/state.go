package auth

import (
	"github.com/attendly/attendly/internal/authz"
	"github.com/attendly/attendly/internal/gateway"
)

// Phase is the derived authentication state. Exactly one phase holds at any
// instant; dependent UI reads only this derived state, never the raw token.
type Phase int

const (
	// PhaseLoading holds from startup until Bootstrap resolves
	PhaseLoading Phase = iota
	// PhaseAnonymous means no usable credential is present
	PhaseAnonymous
	// PhasePendingVerification means credentials were accepted but the
	// account's email has not been confirmed via OTP
	PhasePendingVerification
	// PhaseAuthenticated means a token is stored and the identity fetched
	PhaseAuthenticated
)

// String returns the phase name
func (p Phase) String() string {
	switch p {
	case PhaseLoading:
		return "loading"
	case PhaseAnonymous:
		return "anonymous"
	case PhasePendingVerification:
		return "pending-verification"
	case PhaseAuthenticated:
		return "authenticated"
	default:
		return "unknown"
	}
}

// Snapshot is a point-in-time copy of the derived session state.
// Email is set only in PhasePendingVerification; User only in
// PhaseAuthenticated.
type Snapshot struct {
	Phase Phase
	Email string
	User  *gateway.User
}

// Role returns the authenticated role, or the empty role otherwise
func (s Snapshot) Role() authz.Role {
	if s.Phase != PhaseAuthenticated || s.User == nil {
		return ""
	}
	return authz.ParseRole(s.User.Role)
}

// IsAuthenticated reports whether the snapshot is in the authenticated phase
func (s Snapshot) IsAuthenticated() bool {
	return s.Phase == PhaseAuthenticated
}

// IsAdmin reports whether the snapshot holds an admin identity
func (s Snapshot) IsAdmin() bool {
	return authz.IsAdmin(s.Role())
}
