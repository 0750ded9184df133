package server

import (
	"net/http"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/types"
)

// handleSaveJob bookmarks a published listing.
func (s *Server) handleSaveJob(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireRole(w, r, types.RoleCandidate, "save jobs")
	if !ok {
		return
	}
	jobID, ok := s.pathUUID(w, r, "id", "job")
	if !ok {
		return
	}

	listing, err := s.store.GetJobListing(r.Context(), jobID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if listing == nil || listing.IsDraft() {
		s.writeError(w, &ErrNotFound{Resource: "Job listing"})
		return
	}

	if err := s.store.SaveJob(r.Context(), user.ID, jobID); err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusCreated, map[string]any{"job": jobID, "is_saved": true})
}

// handleUnsaveJob removes a bookmark.
func (s *Server) handleUnsaveJob(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireRole(w, r, types.RoleCandidate, "save jobs")
	if !ok {
		return
	}
	jobID, ok := s.pathUUID(w, r, "id", "job")
	if !ok {
		return
	}

	if err := s.store.UnsaveJob(r.Context(), user.ID, jobID); err != nil {
		s.writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
