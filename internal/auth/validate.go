package auth

import (
	"net/mail"
	"strings"
	"unicode/utf8"
)

const (
	maxUsernameLength = 64
	maxEmailLength    = 254
	maxPasswordBytes  = 128
)

// RegisterInput carries the fields accepted by Register.
type RegisterInput struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// validateRegistration checks presence first, then format, so a request
// missing several fields reports the first missing one.
func validateRegistration(in RegisterInput, passwordLimit int) error {
	if strings.TrimSpace(in.Username) == "" {
		return &ValidationError{Field: "username", Message: "is required"}
	}
	if strings.TrimSpace(in.Email) == "" {
		return &ValidationError{Field: "email", Message: "is required"}
	}
	if in.Password == "" {
		return &ValidationError{Field: "password", Message: "is required"}
	}

	if utf8.RuneCountInString(in.Username) > maxUsernameLength {
		return &ValidationError{Field: "username", Message: "must be at most 64 characters"}
	}
	if !isValidEmail(in.Email) {
		return &ValidationError{Field: "email", Message: "is not a valid address"}
	}
	if len(in.Password) > passwordLimit {
		return &ValidationError{Field: "password", Message: "is too long"}
	}
	return nil
}

func validateLogin(email, password string) error {
	if strings.TrimSpace(email) == "" {
		return &ValidationError{Field: "email", Message: "is required"}
	}
	if password == "" {
		return &ValidationError{Field: "password", Message: "is required"}
	}
	return nil
}

// isValidEmail accepts a bare addr-spec such as "alice@x.com". Display-name
// forms like "Alice <alice@x.com>" are rejected.
func isValidEmail(email string) bool {
	if len(email) > maxEmailLength || email != strings.TrimSpace(email) {
		return false
	}
	addr, err := mail.ParseAddress(email)
	if err != nil {
		return false
	}
	return addr.Address == email && addr.Name == ""
}
