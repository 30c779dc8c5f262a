package cmd

import "github.com/attendly/attendly/internal/errors"

// errNotSignedIn is returned by commands that need an authenticated session
func errNotSignedIn() error {
	return errors.New(errors.ErrCodeCredentialRejected, "not signed in").
		WithSuggestion("Run 'attendly login' first")
}

// errVerificationPending is returned when the stored session is waiting on an
// email verification.
func errVerificationPending(email string) error {
	return errors.New(errors.ErrCodeVerificationRequired, "email verification pending for "+email).
		WithSuggestion("Run 'attendly verify' to enter the code").
		WithSuggestion("Run 'attendly verify --resend' to request a new code")
}
