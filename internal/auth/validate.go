package auth

import (
	"strings"

	"github.com/attendly/attendly/internal/errors"
)

// MinPasswordLength is the minimum accepted password length
const MinPasswordLength = 6

// ValidateEmail checks that email is present and plausibly shaped.
// Pre-flight only: the server remains authoritative on account existence.
func ValidateEmail(email string) error {
	email = strings.TrimSpace(email)
	if email == "" {
		return errors.New(errors.ErrCodeValidationEmail, "email is required")
	}

	at := strings.Index(email, "@")
	if at < 1 || at == len(email)-1 || !strings.Contains(email[at+1:], ".") {
		return errors.New(errors.ErrCodeValidationEmail, "email address is not valid")
	}
	return nil
}

// ValidatePassword checks the minimum password length
func ValidatePassword(password string) error {
	if password == "" {
		return errors.New(errors.ErrCodeValidationRequired, "password is required")
	}
	if len(password) < MinPasswordLength {
		return errors.New(errors.ErrCodeValidationPassword, "password must be at least 6 characters")
	}
	return nil
}

// ValidatePasswordConfirmation checks that the confirmation matches
func ValidatePasswordConfirmation(password, confirmation string) error {
	if password != confirmation {
		return errors.New(errors.ErrCodeValidationMismatch, "passwords do not match")
	}
	return nil
}

// ValidateName checks that a display name is present
func ValidateName(name string) error {
	if strings.TrimSpace(name) == "" {
		return errors.New(errors.ErrCodeValidationRequired, "name is required")
	}
	return nil
}

// ValidateCode checks that code is exactly six decimal digits
func ValidateCode(code string) error {
	if len(code) != 6 {
		return errors.New(errors.ErrCodeValidationCode, "enter the 6-digit code")
	}
	for _, r := range code {
		if r < '0' || r > '9' {
			return errors.New(errors.ErrCodeValidationCode, "the code contains only digits")
		}
	}
	return nil
}
