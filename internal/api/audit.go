package api

import (
	"net/http"
	"strconv"

	"github.com/nerrad567/staffgate/internal/audit"
)

// handleListAuditLogs returns the caller's own audit entries, most recent
// first.
//
// Query parameters:
//   - action: exact action filter (account.login, profile.save, ...)
//   - limit: max results (default 50, max 200)
//   - offset: pagination offset
func (s *Server) handleListAuditLogs(w http.ResponseWriter, r *http.Request) {
	if s.auditRepo == nil {
		writeError(w, http.StatusServiceUnavailable, ErrCodeUnavailable, "audit logging not configured")
		return
	}
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeMissingCredential(w)
		return
	}

	q := r.URL.Query()
	filter := audit.Filter{
		AccountID: id.AccountID,
		Action:    q.Get("action"),
	}
	if v := q.Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Limit = n
		}
	}
	if v := q.Get("offset"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			filter.Offset = n
		}
	}

	result, err := s.auditRepo.List(r.Context(), filter)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to list audit logs")
		return
	}

	writeJSON(w, http.StatusOK, result)
}
