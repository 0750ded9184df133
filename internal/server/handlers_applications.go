package server

import (
	"errors"
	"net/http"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/db"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/types"
)

// handleApply records the authenticated candidate's application to an open listing.
func (s *Server) handleApply(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireRole(w, r, types.RoleCandidate, "apply for jobs")
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
	if listing.JobStatus != types.JobStatusOpen {
		s.writeError(w, &ErrValidation{Field: "job_status", Message: "this job is not accepting applications"})
		return
	}

	var req types.ApplyRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	app, err := s.store.CreateApplication(r.Context(), jobID, user.ID, &req)
	if errors.Is(err, db.ErrDuplicate) {
		s.writeError(w, &ErrConflict{Message: "You have already applied for this job"})
		return
	}
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	// applicant counts are part of cached pages
	s.cache.Invalidate(r.Context())
	s.jsonResponse(w, http.StatusCreated, app)
}

// handleListApplications lists the applications to a listing the employer owns.
func (s *Server) handleListApplications(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireRole(w, r, types.RoleEmployer, "view applications")
	if !ok {
		return
	}
	listing, ok := s.ownedListing(w, r, user)
	if !ok {
		return
	}

	apps, err := s.store.ListApplicationsForJob(r.Context(), listing.ID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]any{
		"count":   len(apps),
		"results": apps,
	})
}

// loadApplication fetches the {id} application and checks the user is its candidate or the
// listing's owner. ownerOnly restricts access to the owner.
func (s *Server) loadApplication(w http.ResponseWriter, r *http.Request, user *types.User, ownerOnly bool) (*types.Application, bool) {
	id, ok := s.pathUUID(w, r, "id", "application")
	if !ok {
		return nil, false
	}

	app, err := s.store.GetApplication(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return nil, false
	}
	if app == nil {
		s.writeError(w, &ErrNotFound{Resource: "Application"})
		return nil, false
	}
	if !ownerOnly && app.CandidateID == user.ID {
		return app, true
	}
	if _, ok := s.ownedListingByID(w, r, user, app.JobID); !ok {
		return nil, false
	}
	return app, true
}

// handleGetApplication returns an application to its candidate or the listing's owner.
func (s *Server) handleGetApplication(w http.ResponseWriter, r *http.Request) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return
	}
	app, ok := s.loadApplication(w, r, user, false)
	if !ok {
		return
	}
	s.jsonResponse(w, http.StatusOK, app)
}

// handleUpdateApplicationStatus moves an application through the hiring stages.
func (s *Server) handleUpdateApplicationStatus(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireRole(w, r, types.RoleEmployer, "update applications")
	if !ok {
		return
	}
	app, ok := s.loadApplication(w, r, user, true)
	if !ok {
		return
	}

	var req types.UpdateApplicationStatusRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}

	if err := s.store.UpdateApplicationStatus(r.Context(), app.ID, req.Status); err != nil {
		s.writeError(w, err)
		return
	}
	app.Status = req.Status
	s.jsonResponse(w, http.StatusOK, app)
}
