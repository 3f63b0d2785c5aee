package profile

import (
	"strings"
	"time"
	"unicode/utf8"
)

const (
	maxEmployeeIDLength = 32
	maxNameLength       = 100
)

// Validate checks all five fields are present and well formed. Required
// checks run before format checks.
func Validate(in Input) error {
	switch {
	case strings.TrimSpace(in.EmployeeID) == "":
		return &ValidationError{Field: "employee_id", Message: "is required"}
	case strings.TrimSpace(in.Name) == "":
		return &ValidationError{Field: "name", Message: "is required"}
	case in.DepartmentID == 0:
		return &ValidationError{Field: "department_id", Message: "is required"}
	case in.DesignationID == 0:
		return &ValidationError{Field: "designation_id", Message: "is required"}
	case strings.TrimSpace(in.DateJoined) == "":
		return &ValidationError{Field: "date_joined", Message: "is required"}
	}

	if utf8.RuneCountInString(strings.TrimSpace(in.EmployeeID)) > maxEmployeeIDLength {
		return &ValidationError{Field: "employee_id", Message: "must be at most 32 characters"}
	}
	if utf8.RuneCountInString(strings.TrimSpace(in.Name)) > maxNameLength {
		return &ValidationError{Field: "name", Message: "must be at most 100 characters"}
	}
	if in.DepartmentID < 0 {
		return &ValidationError{Field: "department_id", Message: "must be positive"}
	}
	if in.DesignationID < 0 {
		return &ValidationError{Field: "designation_id", Message: "must be positive"}
	}
	if _, err := time.Parse(DateLayout, strings.TrimSpace(in.DateJoined)); err != nil {
		return &ValidationError{Field: "date_joined", Message: "must be a date in YYYY-MM-DD form"}
	}
	return nil
}

// normalise trims the free-text fields.
func normalise(in Input) Input {
	in.EmployeeID = strings.TrimSpace(in.EmployeeID)
	in.Name = strings.TrimSpace(in.Name)
	in.DateJoined = strings.TrimSpace(in.DateJoined)
	return in
}
