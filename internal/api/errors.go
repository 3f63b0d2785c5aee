package api

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/nerrad567/staffgate/internal/auth"
	"github.com/nerrad567/staffgate/internal/profile"
)

// Error represents a structured error response.
type Error struct {
	Status  int    `json:"status"`
	Code    string `json:"code"`
	Message string `json:"message"`
	Field   string `json:"field,omitempty"`
}

// Common error codes.
const (
	ErrCodeBadRequest        = "bad_request"
	ErrCodeNotFound          = "not_found"
	ErrCodeUnauthorized      = "unauthorised"
	ErrCodeMissingCredential = "missing_credential"
	ErrCodeInvalidToken      = "invalid_token"
	ErrCodeConflict          = "conflict"
	ErrCodeInternal          = "internal_error"
	ErrCodeValidation        = "validation_failed"
	ErrCodeUnavailable       = "unavailable"
	ErrCodeMethodNotAllow    = "method_not_allowed"
)

// writeJSON writes a JSON response with the given status code and payload.
func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		//nolint:errcheck // Best-effort write to response; connection may be closed
		json.NewEncoder(w).Encode(v)
	}
}

// writeError writes a structured error response.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, Error{
		Status:  status,
		Code:    code,
		Message: message,
	})
}

// writeValidation writes a 400 naming the rejected field.
func writeValidation(w http.ResponseWriter, field, message string) {
	writeJSON(w, http.StatusBadRequest, Error{
		Status:  http.StatusBadRequest,
		Code:    ErrCodeValidation,
		Message: message,
		Field:   field,
	})
}

// writeBadRequest writes a 400 error response.
func writeBadRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, ErrCodeBadRequest, message)
}

// writeNotFound writes a 404 error response.
func writeNotFound(w http.ResponseWriter, message string) {
	writeError(w, http.StatusNotFound, ErrCodeNotFound, message)
}

// writeInternalError writes a 500 error response.
func writeInternalError(w http.ResponseWriter, message string) {
	writeError(w, http.StatusInternalServerError, ErrCodeInternal, message)
}

// writeMissingCredential writes the gate's 403.
func writeMissingCredential(w http.ResponseWriter) {
	writeError(w, http.StatusForbidden, ErrCodeMissingCredential, auth.ErrMissingCredential.Error())
}

// writeInvalidToken writes the gate's 401. The message never names the
// verification failure.
func writeInvalidToken(w http.ResponseWriter) {
	writeError(w, http.StatusUnauthorized, ErrCodeInvalidToken, auth.ErrTokenInvalid.Error())
}

// writeDomainError maps errors from the auth and profile packages onto
// HTTP responses. Anything unrecognised is logged and reported as a 500
// carrying only internalMsg.
func (s *Server) writeDomainError(w http.ResponseWriter, r *http.Request, err error, internalMsg string) {
	var authVal *auth.ValidationError
	var profVal *profile.ValidationError
	var refErr *profile.ReferenceError

	switch {
	case errors.As(err, &authVal):
		writeValidation(w, authVal.Field, authVal.Error())
	case errors.As(err, &profVal):
		writeValidation(w, profVal.Field, profVal.Error())
	case errors.As(err, &refErr):
		writeValidation(w, refErr.Field, refErr.Error())
	case errors.Is(err, profile.ErrInvalidReference):
		writeError(w, http.StatusBadRequest, ErrCodeValidation, err.Error())
	case errors.Is(err, auth.ErrDuplicateEmail):
		writeError(w, http.StatusBadRequest, ErrCodeConflict, auth.ErrDuplicateEmail.Error())
	case errors.Is(err, profile.ErrEmployeeIDTaken):
		writeError(w, http.StatusBadRequest, ErrCodeConflict, profile.ErrEmployeeIDTaken.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeError(w, http.StatusUnauthorized, ErrCodeUnauthorized, auth.ErrInvalidCredentials.Error())
	case errors.Is(err, profile.ErrOwnerNotFound), errors.Is(err, auth.ErrAccountNotFound):
		// The token verified but its account is gone.
		writeInvalidToken(w)
	case errors.Is(err, profile.ErrProfileNotFound):
		writeNotFound(w, profile.ErrProfileNotFound.Error())
	default:
		s.logger.Error(internalMsg,
			"error", err,
			"method", r.Method,
			"path", r.URL.Path,
			"request_id", RequestIDFromContext(r.Context()),
		)
		writeInternalError(w, internalMsg)
	}
}

// decodeJSON decodes the request body into v, writing a 400 on failure.
func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, ErrCodeBadRequest, "request body too large")
			return false
		}
		writeBadRequest(w, "invalid JSON body")
		return false
	}
	return true
}
