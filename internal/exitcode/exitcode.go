// Package exitcode maps console errors to process exit codes.
package exitcode

import (
	"os"
	"strings"

	"github.com/attendly/attendly/internal/errors"
)

// Exit codes for consistent error handling across the CLI
const (
	// Success indicates successful execution
	Success = 0

	// GeneralError indicates a general error condition
	GeneralError = 1

	// UsageError indicates invalid command usage (bad flags, missing args, etc.)
	UsageError = 2

	// AuthError indicates a sign-in or permission failure
	AuthError = 3

	// VerificationError indicates a failed or pending email verification
	VerificationError = 4

	// NetworkError indicates the API endpoint could not be reached
	NetworkError = 5

	// ConfigError indicates unusable configuration
	ConfigError = 6

	// Interrupted indicates the user cancelled the operation
	Interrupted = 130
)

// Exit terminates the program with the given exit code
func Exit(code int) {
	os.Exit(code)
}

// ExitWithError exits with an appropriate code based on error type
func ExitWithError(err error) {
	if err == nil {
		Exit(Success)
		return
	}
	Exit(DetermineExitCode(err))
}

// DetermineExitCode analyzes an error and returns the appropriate exit code.
// Console errors map by their code prefix; anything else falls back to a
// message scan for usage errors.
func DetermineExitCode(err error) int {
	if err == nil {
		return Success
	}

	if code := errors.CodeOf(err); code != "" {
		switch {
		case strings.HasPrefix(string(code), "TRANSPORT-"):
			return NetworkError
		case strings.HasPrefix(string(code), "CREDENTIAL-"):
			return AuthError
		case strings.HasPrefix(string(code), "VERIFY-"):
			return VerificationError
		case strings.HasPrefix(string(code), "VALIDATION-"):
			return UsageError
		case strings.HasPrefix(string(code), "CONFIG-"):
			return ConfigError
		}
		return GeneralError
	}

	errMsg := strings.ToLower(err.Error())
	if strings.Contains(errMsg, "unknown command") || strings.Contains(errMsg, "unknown flag") {
		return UsageError
	}
	if strings.Contains(errMsg, "required flag") || strings.Contains(errMsg, "is required") {
		return UsageError
	}

	return GeneralError
}

// Description returns a human-readable description of an exit code
func Description(code int) string {
	switch code {
	case Success:
		return "Success"
	case GeneralError:
		return "General error"
	case UsageError:
		return "Usage error (invalid flags or arguments)"
	case AuthError:
		return "Authentication error"
	case VerificationError:
		return "Email verification error"
	case NetworkError:
		return "Network error"
	case ConfigError:
		return "Configuration error"
	case Interrupted:
		return "Interrupted"
	default:
		return "Unknown error"
	}
}
