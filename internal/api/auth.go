package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/nerrad567/staffgate/internal/audit"
	"github.com/nerrad567/staffgate/internal/auth"
	"github.com/nerrad567/staffgate/internal/events"
	"github.com/nerrad567/staffgate/internal/telemetry"
)

// loginRequest is the request body for POST /login.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// loginResponse is the response body for POST /login.
type loginResponse struct {
	Token     string    `json:"token"`
	TokenType string    `json:"token_type"`
	ExpiresIn int       `json:"expires_in"` // seconds
	ExpiresAt time.Time `json:"expires_at"`
}

// handleRegister creates an account and returns it without the hash.
func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req auth.RegisterInput
	if !decodeJSON(w, r, &req) {
		return
	}

	account, err := s.auth.Register(r.Context(), req)
	if err != nil {
		outcome := telemetry.OutcomeFailure
		reason := "validation"
		switch {
		case errors.Is(err, auth.ErrDuplicateEmail):
			reason = "duplicate_email"
		case !errors.Is(err, auth.ErrValidation):
			reason = "internal"
		}
		s.telemetry.AuthEvent(telemetry.EventRegister, outcome, reason)
		s.writeDomainError(w, r, err, "registration failed")
		return
	}

	s.telemetry.AuthEvent(telemetry.EventRegister, telemetry.OutcomeSuccess, "")
	s.audit.Record(audit.ActionRegister, audit.EntityAccount, account.ID, account.ID,
		map[string]any{"username": account.Username})
	s.events.AccountRegistered(events.AccountRegistered{
		AccountID: account.ID,
		Username:  account.Username,
		At:        account.CreatedAt,
	})

	s.logger.Info("account registered", "account_id", account.ID)
	writeJSON(w, http.StatusCreated, account)
}

// handleLogin verifies credentials and issues a session token.
func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	session, err := s.auth.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrInvalidCredentials):
			s.telemetry.AuthEvent(telemetry.EventLogin, telemetry.OutcomeFailure, "invalid_credentials")
			s.audit.Record(audit.ActionLoginFailed, audit.EntityAccount, "", "", nil)
		case errors.Is(err, auth.ErrValidation):
			s.telemetry.AuthEvent(telemetry.EventLogin, telemetry.OutcomeFailure, "validation")
		default:
			s.telemetry.AuthEvent(telemetry.EventLogin, telemetry.OutcomeFailure, "internal")
		}
		s.writeDomainError(w, r, err, "login failed")
		return
	}

	s.telemetry.AuthEvent(telemetry.EventLogin, telemetry.OutcomeSuccess, "")
	s.audit.Record(audit.ActionLogin, audit.EntityAccount, session.Account.ID, session.Account.ID, nil)

	writeJSON(w, http.StatusOK, loginResponse{
		Token:     session.Token,
		TokenType: session.TokenType,
		ExpiresIn: int(s.auth.Tokens().TTL().Seconds()),
		ExpiresAt: session.ExpiresAt,
	})
}

// handleDashboard greets the token's subject.
func (s *Server) handleDashboard(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeMissingCredential(w)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Welcome to your dashboard, " + id.Email,
		"email":   id.Email,
	})
}
