package errors

import (
	"errors"
	"fmt"
	"strings"
)

// ErrorCode represents a unique error identifier
type ErrorCode string

// Error categories
const (
	// Transport errors (TRANSPORT-001 to TRANSPORT-099)
	ErrCodeTransportUnreachable ErrorCode = "TRANSPORT-001"
	ErrCodeTransportMalformed   ErrorCode = "TRANSPORT-002"

	// Credential errors (CREDENTIAL-001 to CREDENTIAL-099)
	ErrCodeCredentialRejected  ErrorCode = "CREDENTIAL-001"
	ErrCodeCredentialNoAccount ErrorCode = "CREDENTIAL-002"

	// Verification errors (VERIFY-001 to VERIFY-099)
	ErrCodeVerificationRequired ErrorCode = "VERIFY-001"
	ErrCodeVerificationRejected ErrorCode = "VERIFY-002"
	ErrCodeVerificationCooldown ErrorCode = "VERIFY-003"

	// Client-side validation errors (VALIDATION-001 to VALIDATION-099)
	ErrCodeValidationEmail    ErrorCode = "VALIDATION-001"
	ErrCodeValidationPassword ErrorCode = "VALIDATION-002"
	ErrCodeValidationMismatch ErrorCode = "VALIDATION-003"
	ErrCodeValidationRequired ErrorCode = "VALIDATION-004"
	ErrCodeValidationCode     ErrorCode = "VALIDATION-005"

	// Session errors (SESSION-001 to SESSION-099)
	ErrCodeSessionReadFailed  ErrorCode = "SESSION-001"
	ErrCodeSessionWriteFailed ErrorCode = "SESSION-002"

	// Configuration errors (CONFIG-001 to CONFIG-099)
	ErrCodeConfigInvalid  ErrorCode = "CONFIG-001"
	ErrCodeConfigEndpoint ErrorCode = "CONFIG-002"
)

// ConsoleError represents an enhanced error with code, suggestions, and a cause
type ConsoleError struct {
	Code        ErrorCode
	Message     string
	Suggestions []string
	Cause       error
}

// Error implements the error interface
func (e *ConsoleError) Error() string {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("[%s] %s", e.Code, e.Message))

	if e.Cause != nil {
		b.WriteString(fmt.Sprintf(": %v", e.Cause))
	}

	if len(e.Suggestions) > 0 {
		b.WriteString("\n\nSuggestions:")
		for _, suggestion := range e.Suggestions {
			b.WriteString(fmt.Sprintf("\n  • %s", suggestion))
		}
	}

	return b.String()
}

// Unwrap implements error unwrapping for errors.Is and errors.As
func (e *ConsoleError) Unwrap() error {
	return e.Cause
}

// New creates a new ConsoleError
func New(code ErrorCode, message string) *ConsoleError {
	return &ConsoleError{
		Code:    code,
		Message: message,
	}
}

// Wrap creates a new ConsoleError wrapping an existing error
func Wrap(code ErrorCode, message string, cause error) *ConsoleError {
	return &ConsoleError{
		Code:    code,
		Message: message,
		Cause:   cause,
	}
}

// WithSuggestion adds a suggestion to the error
func (e *ConsoleError) WithSuggestion(suggestion string) *ConsoleError {
	e.Suggestions = append(e.Suggestions, suggestion)
	return e
}

// WithSuggestions adds multiple suggestions to the error
func (e *ConsoleError) WithSuggestions(suggestions ...string) *ConsoleError {
	e.Suggestions = append(e.Suggestions, suggestions...)
	return e
}

// CodeOf returns the error code of err, or the empty code when err is not a
// ConsoleError.
func CodeOf(err error) ErrorCode {
	var consoleErr *ConsoleError
	if errors.As(err, &consoleErr) {
		return consoleErr.Code
	}
	return ""
}

// MessageOf returns the bare message of err without the code prefix or
// suggestions. Server-raised messages are surfaced verbatim through here.
func MessageOf(err error) string {
	var consoleErr *ConsoleError
	if errors.As(err, &consoleErr) {
		return consoleErr.Message
	}
	if err != nil {
		return err.Error()
	}
	return ""
}

// IsTransport reports whether err is a transport-level failure
func IsTransport(err error) bool {
	switch CodeOf(err) {
	case ErrCodeTransportUnreachable, ErrCodeTransportMalformed:
		return true
	}
	return false
}

// IsNoAccount reports whether err is the distinguished "no account exists"
// credential rejection. Callers use it to offer a registration path instead
// of a generic login error.
func IsNoAccount(err error) bool {
	return CodeOf(err) == ErrCodeCredentialNoAccount
}

// IsValidation reports whether err is a client-side pre-flight validation error
func IsValidation(err error) bool {
	switch CodeOf(err) {
	case ErrCodeValidationEmail, ErrCodeValidationPassword,
		ErrCodeValidationMismatch, ErrCodeValidationRequired, ErrCodeValidationCode:
		return true
	}
	return false
}

// Common error constructors for frequently used errors

// NewTransportError creates a transport failure error with a retry suggestion
func NewTransportError(cause error) *ConsoleError {
	return Wrap(ErrCodeTransportUnreachable, "could not reach the server", cause).
		WithSuggestion("Check your network connection").
		WithSuggestion("Verify the endpoint URL with 'attendly config'")
}

// NewMalformedResponseError creates an error for an undecodable server response
func NewMalformedResponseError(cause error) *ConsoleError {
	return Wrap(ErrCodeTransportMalformed, "server returned a malformed response", cause).
		WithSuggestion("Retry the operation").
		WithSuggestion("Verify the endpoint points at a GraphQL API")
}

// NewCredentialError creates a credential rejection carrying the server's
// message verbatim. The "no account" condition is detected from the message
// so callers can offer registration instead.
func NewCredentialError(message string) *ConsoleError {
	if message == "" {
		message = "login failed"
	}

	lower := strings.ToLower(message)
	if strings.Contains(lower, "no account") || strings.Contains(lower, "user not found") {
		return New(ErrCodeCredentialNoAccount, message).
			WithSuggestion("Run 'attendly register' to create an account")
	}

	return New(ErrCodeCredentialRejected, message).
		WithSuggestion("Check your email and password")
}

// NewVerificationError creates an OTP rejection carrying the server's message
func NewVerificationError(message string) *ConsoleError {
	if message == "" {
		message = "verification failed"
	}
	return New(ErrCodeVerificationRejected, message).
		WithSuggestion("Re-enter the code from your email").
		WithSuggestion("Use resend if the code has expired")
}
