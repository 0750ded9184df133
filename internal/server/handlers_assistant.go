package server

import (
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/assistant"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/types"
)

// contentResponse carries generated HTML.
type contentResponse struct {
	Content string `json:"content"`
}

func (s *Server) handleGenerateJobPost(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireRole(w, r, types.RoleEmployer, "use the assistant"); !ok {
		return
	}
	var in assistant.JobPostInput
	if err := s.decode(w, r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	html, err := s.assistant.GenerateJobPost(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, contentResponse{Content: html})
}

func (s *Server) handleGenerateBlogPost(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireRole(w, r, types.RoleEmployer, "use the assistant"); !ok {
		return
	}
	var in assistant.BlogPostInput
	if err := s.decode(w, r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	html, err := s.assistant.GenerateBlogPost(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, contentResponse{Content: html})
}

// handleGenerateCandidateBio writes a profile bio for the authenticated candidate.
func (s *Server) handleGenerateCandidateBio(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireRole(w, r, types.RoleCandidate, "generate a bio")
	if !ok {
		return
	}
	var in assistant.CandidateBioInput
	if err := s.decode(w, r, &in); err != nil {
		s.writeError(w, err)
		return
	}
	in.Name = user.Name

	html, err := s.assistant.GenerateCandidateBio(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, map[string]string{"bio": html})
}

// handleReviewJobPost checks a draft listing against the posting policy before publishing.
func (s *Server) handleReviewJobPost(w http.ResponseWriter, r *http.Request) {
	if _, ok := s.requireRole(w, r, types.RoleEmployer, "use the assistant"); !ok {
		return
	}
	var in types.JobListingInput
	if err := s.decode(w, r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	review, err := s.assistant.ReviewJobPost(r.Context(), &in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, review)
}

type recommendRequest struct {
	JobID uuid.UUID `json:"job_id" validate:"required"`
}

// handleRecommendCandidates ranks the applicants of an owned listing.
func (s *Server) handleRecommendCandidates(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireRole(w, r, types.RoleEmployer, "use the assistant")
	if !ok {
		return
	}
	var req recommendRequest
	if err := s.decode(w, r, &req); err != nil {
		s.writeError(w, err)
		return
	}
	listing, ok := s.ownedListingByID(w, r, user, req.JobID)
	if !ok {
		return
	}

	apps, err := s.store.ListApplicationsForJob(r.Context(), listing.ID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	candidates := make([]assistant.CandidateSummary, 0, len(apps))
	for _, app := range apps {
		resume := app.ExtractedResume
		if strings.TrimSpace(resume) == "" {
			resume = app.Resume
		}
		candidates = append(candidates, assistant.CandidateSummary{
			ApplicationID: app.ID,
			Name:          app.CandidateName,
			Resume:        resume,
		})
	}

	rec, err := s.assistant.RecommendCandidates(r.Context(), listing, candidates)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusOK, rec)
}

// handleDraftContract drafts, renders and stores a contract for an application to an owned
// listing, and records its location on the application.
func (s *Server) handleDraftContract(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireRole(w, r, types.RoleEmployer, "use the assistant")
	if !ok {
		return
	}
	var in assistant.ContractInput
	if err := s.decode(w, r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	app, err := s.store.GetApplication(r.Context(), in.ApplicationID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if app == nil {
		s.writeError(w, &ErrNotFound{Resource: "Application"})
		return
	}
	listing, ok := s.ownedListingByID(w, r, user, app.JobID)
	if !ok {
		return
	}

	in.Company = listing.Company
	in.CandidateName = app.CandidateName
	in.Title = listing.Title
	in.JobType = listing.JobType
	in.Location = listing.Location

	contract, err := s.assistant.DraftContract(r.Context(), in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.store.SetApplicationContract(r.Context(), app.ID, contract.Location); err != nil {
		s.writeError(w, err)
		return
	}
	s.jsonResponse(w, http.StatusCreated, contract)
}
