package exitcode

import (
	stderrors "errors"
	"testing"

	"github.com/attendly/attendly/internal/errors"
)

func TestDetermineExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"nil", nil, Success},
		{"transport", errors.NewTransportError(stderrors.New("refused")), NetworkError},
		{"malformed response", errors.New(errors.ErrCodeTransportMalformed, "bad json"), NetworkError},
		{"credentials rejected", errors.NewCredentialError("Invalid email or password"), AuthError},
		{"no account", errors.NewCredentialError("No account exists with this email"), AuthError},
		{"verification rejected", errors.NewVerificationError("Invalid code"), VerificationError},
		{"verification cooldown", errors.New(errors.ErrCodeVerificationCooldown, "wait"), VerificationError},
		{"validation", errors.New(errors.ErrCodeValidationEmail, "bad email"), UsageError},
		{"config", errors.New(errors.ErrCodeConfigEndpoint, "no endpoint"), ConfigError},
		{"session", errors.New(errors.ErrCodeSessionWriteFailed, "disk full"), GeneralError},
		{"plain error", stderrors.New("boom"), GeneralError},
		{"usage message", stderrors.New("unknown command \"foo\""), UsageError},
		{"required flag message", stderrors.New("--name is required"), UsageError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := DetermineExitCode(tt.err); got != tt.want {
				t.Errorf("DetermineExitCode() = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestDescription(t *testing.T) {
	if Description(Success) != "Success" {
		t.Error("unexpected description for Success")
	}
	if Description(999) != "Unknown error" {
		t.Error("unexpected description for unknown code")
	}
}
