package api

import (
	"net/http"

	"github.com/nerrad567/staffgate/internal/audit"
	"github.com/nerrad567/staffgate/internal/events"
	"github.com/nerrad567/staffgate/internal/profile"
)

// handleSaveProfile creates or replaces the caller's profile. The owner is
// always the token's account, never a body field.
func (s *Server) handleSaveProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeMissingCredential(w)
		return
	}

	var req profile.Input
	if !decodeJSON(w, r, &req) {
		return
	}

	view, err := s.profiles.Save(r.Context(), id.AccountID, req)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to save profile")
		return
	}

	s.audit.Record(audit.ActionProfileSave, audit.EntityProfile, view.EmployeeID, id.AccountID,
		map[string]any{
			"department_id":  view.DepartmentID,
			"designation_id": view.DesignationID,
		})
	s.events.ProfileSaved(events.ProfileSaved{
		AccountID:     id.AccountID,
		EmployeeID:    view.EmployeeID,
		DepartmentID:  view.DepartmentID,
		DesignationID: view.DesignationID,
		At:            view.UpdatedAt,
	})

	writeJSON(w, http.StatusOK, view)
}

// handleGetProfile returns the caller's profile with reference names.
func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	id, ok := IdentityFromContext(r.Context())
	if !ok {
		writeMissingCredential(w)
		return
	}

	view, err := s.profiles.GetByAccount(r.Context(), id.AccountID)
	if err != nil {
		s.writeDomainError(w, r, err, "failed to load profile")
		return
	}

	writeJSON(w, http.StatusOK, view)
}

// handleListDepartments returns the department reference set.
func (s *Server) handleListDepartments(w http.ResponseWriter, r *http.Request) {
	depts, err := s.profiles.ListDepartments(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err, "failed to list departments")
		return
	}
	if depts == nil {
		depts = []profile.Department{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"departments": depts, "count": len(depts)})
}

// handleListDesignations returns the designation reference set.
func (s *Server) handleListDesignations(w http.ResponseWriter, r *http.Request) {
	desigs, err := s.profiles.ListDesignations(r.Context())
	if err != nil {
		s.writeDomainError(w, r, err, "failed to list designations")
		return
	}
	if desigs == nil {
		desigs = []profile.Designation{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"designations": desigs, "count": len(desigs)})
}
