package auth

import (
	"errors"
	"fmt"
	"time"
)

// Account is a registered user. Email is unique and compared exactly as stored.
type Account struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // never serialised
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity is the verified subject of a session token.
type Identity struct {
	AccountID string
	Email     string
	TokenID   string
	ExpiresAt time.Time
}

// Session is the result of a successful login.
type Session struct {
	Token     string
	TokenType string
	ExpiresAt time.Time
	Account   *Account
}

// TokenTypeBearer is the only session token type issued.
const TokenTypeBearer = "Bearer"

// Sentinel errors for auth operations.
var (
	ErrValidation         = errors.New("validation failed")
	ErrDuplicateEmail     = errors.New("email already registered")
	ErrAccountNotFound    = errors.New("account not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrMissingCredential  = errors.New("no token provided")
	ErrTokenInvalid       = errors.New("invalid token")
)

// Token failure reasons. Every token failure also wraps ErrTokenInvalid, so
// callers outside this package see a single error class.
var (
	ErrTokenExpired   = errors.New("token has expired")
	ErrTokenMalformed = errors.New("token is malformed")
	ErrTokenSignature = errors.New("token signature is invalid")
	ErrTokenClaims    = errors.New("token claims rejected")
)

// ValidationError reports a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

// Unwrap lets errors.Is(err, ErrValidation) match any ValidationError.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// TokenFailureReason names the internal cause of a token verification
// failure for logs and metrics. It must not be sent to clients.
func TokenFailureReason(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrMissingCredential):
		return "missing"
	case errors.Is(err, ErrTokenExpired):
		return "expired"
	case errors.Is(err, ErrTokenSignature):
		return "signature"
	case errors.Is(err, ErrTokenMalformed):
		return "malformed"
	case errors.Is(err, ErrTokenClaims):
		return "claims"
	default:
		return "unknown"
	}
}
