package server

import (
	"net/http"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/db"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/search"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/server/middleware"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/types"
)

const (
	defaultPageSize = 10
	maxPageSize     = 100
)

// listingResult is a listing with the caller's applied and saved state.
type listingResult struct {
	*types.JobListing
	HasApplied bool    `json:"has_applied"`
	IsSaved    bool    `json:"is_saved"`
	Score      float64 `json:"score,omitempty"`
}

// jobsPage is the paginated listing response.
type jobsPage struct {
	Count   int             `json:"count"`
	Page    int             `json:"page"`
	Limit   int             `json:"limit"`
	Results []listingResult `json:"results"`
}

func toListingResults(results []search.Result) []listingResult {
	out := make([]listingResult, len(results))
	for i, r := range results {
		out[i] = listingResult{JobListing: r.Listing, HasApplied: r.HasApplied, IsSaved: r.IsSaved, Score: r.Score}
	}
	return out
}

// handleListJobs searches published listings. Anonymous pages are served from the cache.
func (s *Server) handleListJobs(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	params := search.ParamsFromValues(r.URL.Query())
	page := parseQueryInt(r, "page", 1, 0)
	limit := parseQueryInt(r, "limit", defaultPageSize, maxPageSize)
	actor := middleware.OptionalUserID(r)

	var key string
	cacheable := false
	if actor == nil {
		key, cacheable = s.cache.Key(ctx, params, page, limit)
		var cached jobsPage
		if cacheable && s.cache.Get(ctx, key, &cached) {
			w.Header().Set("X-Cache", "HIT")
			s.jsonResponse(w, http.StatusOK, cached)
			return
		}
	}

	plan := search.BuildPlan(search.Scope{}, params, actor, s.now())
	found, err := s.store.SearchJobListings(ctx, plan, db.Page{Number: page, Size: limit})
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	resp := jobsPage{Count: found.Count, Page: page, Limit: limit, Results: toListingResults(found.Results)}
	if cacheable {
		s.cache.Set(ctx, key, resp)
	}
	s.jsonResponse(w, http.StatusOK, resp)
}

// handleGetJob returns one listing. Drafts are visible only to their owner.
func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	id, ok := s.pathUUID(w, r, "id", "job")
	if !ok {
		return
	}
	actor := middleware.OptionalUserID(r)

	listing, err := s.store.GetJobListing(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if listing == nil || (listing.IsDraft() && (actor == nil || *actor != listing.EmployerID)) {
		s.writeError(w, &ErrNotFound{Resource: "Job listing"})
		return
	}

	results, err := s.engine.Apply(r.Context(), []types.JobListing{*listing}, search.Params{}, actor, s.now())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.jsonResponse(w, http.StatusOK, toListingResults(results)[0])
}

// handleCreateJob publishes a listing for the authenticated employer.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireRole(w, r, types.RoleEmployer, "post jobs")
	if !ok {
		return
	}

	var in types.JobListingInput
	if err := s.decode(w, r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	listing, err := s.store.CreateJobListing(r.Context(), user.ID, &in)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	s.cache.Invalidate(r.Context())
	s.jsonResponse(w, http.StatusCreated, listing)
}

// handleUpdateJob replaces an owned listing's fields.
func (s *Server) handleUpdateJob(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireRole(w, r, types.RoleEmployer, "edit jobs")
	if !ok {
		return
	}
	listing, ok := s.ownedListing(w, r, user)
	if !ok {
		return
	}

	var in types.JobListingInput
	if err := s.decode(w, r, &in); err != nil {
		s.writeError(w, err)
		return
	}

	updated, err := s.store.UpdateJobListing(r.Context(), listing.ID, &in)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if updated == nil {
		s.writeError(w, &ErrNotFound{Resource: "Job listing"})
		return
	}
	s.cache.Invalidate(r.Context())
	s.jsonResponse(w, http.StatusOK, updated)
}

// handleDeleteJob removes an owned listing with its applications and bookmarks.
func (s *Server) handleDeleteJob(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireRole(w, r, types.RoleEmployer, "delete jobs")
	if !ok {
		return
	}
	listing, ok := s.ownedListing(w, r, user)
	if !ok {
		return
	}

	if err := s.store.DeleteJobListing(r.Context(), listing.ID); err != nil {
		s.writeError(w, err)
		return
	}
	s.cache.Invalidate(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

// handleListEmployerJobs filters the employer's own listings, drafts included, in memory.
func (s *Server) handleListEmployerJobs(w http.ResponseWriter, r *http.Request) {
	user, ok := s.requireRole(w, r, types.RoleEmployer, "list their jobs")
	if !ok {
		return
	}

	base, err := s.store.ListEmployerJobListings(r.Context(), user.ID)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	params := search.ParamsFromValues(r.URL.Query())
	results, err := s.engine.Apply(r.Context(), base, params, &user.ID, s.now())
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	page := parseQueryInt(r, "page", 1, 0)
	limit := parseQueryInt(r, "limit", defaultPageSize, maxPageSize)
	start, end := db.Page{Number: page, Size: limit}.Window(len(results))
	window := results[start:end]

	s.jsonResponse(w, http.StatusOK, jobsPage{
		Count:   len(results),
		Page:    page,
		Limit:   limit,
		Results: toListingResults(window),
	})
}
