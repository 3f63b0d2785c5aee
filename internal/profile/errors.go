package profile

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation is matched by every ValidationError.
	ErrValidation = errors.New("validation failed")

	// ErrProfileNotFound is returned when the account has no profile yet.
	ErrProfileNotFound = errors.New("profile not found")

	// ErrInvalidReference is returned when a department or designation id
	// does not exist.
	ErrInvalidReference = errors.New("unknown department or designation")

	// ErrEmployeeIDTaken is returned when another account's profile already
	// uses the employee id.
	ErrEmployeeIDTaken = errors.New("employee id already in use")

	// ErrOwnerNotFound is returned when the owning account no longer exists.
	ErrOwnerNotFound = errors.New("owning account not found")
)

// ValidationError reports a single rejected input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return ErrValidation
}

// ReferenceError names the foreign key field that failed.
type ReferenceError struct {
	Field string
	ID    int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Field, e.ID)
}

func (e *ReferenceError) Unwrap() error {
	return ErrInvalidReference
}
