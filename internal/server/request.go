package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/server/middleware"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/types"
)

const maxBodyBytes = 1 << 20

// parseQueryInt parses an integer query parameter with default and max values
func parseQueryInt(r *http.Request, key string, defaultValue, maxValue int) int {
	valStr := r.URL.Query().Get(key)
	if valStr == "" {
		return defaultValue
	}
	val, err := strconv.Atoi(valStr)
	if err != nil || val < 1 {
		return defaultValue
	}
	if maxValue > 0 && val > maxValue {
		return maxValue
	}
	return val
}

// pathUUID parses a UUID path value, writing a 400 when it is malformed.
func (s *Server) pathUUID(w http.ResponseWriter, r *http.Request, name, what string) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue(name))
	if err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid "+what+" ID")
		return uuid.Nil, false
	}
	return id, true
}

// decode reads a JSON body into dst and validates it.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, dst any) error {
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(dst); err != nil {
		return &ErrValidation{Message: "invalid request body"}
	}
	if err := s.validate.Struct(dst); err != nil {
		return validationError(err)
	}
	return nil
}

// currentUser loads the authenticated user, writing 401 when the token's user is gone.
func (s *Server) currentUser(w http.ResponseWriter, r *http.Request) (*types.User, bool) {
	id, err := middleware.GetUserID(r)
	if err != nil {
		s.errorResponse(w, http.StatusUnauthorized, "Unauthorized")
		return nil, false
	}
	user, err := s.store.GetUser(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return nil, false
	}
	if user == nil {
		s.errorResponse(w, http.StatusUnauthorized, "User no longer exists")
		return nil, false
	}
	return user, true
}

// requireRole loads the authenticated user and writes 403 unless they have role.
func (s *Server) requireRole(w http.ResponseWriter, r *http.Request, role, action string) (*types.User, bool) {
	user, ok := s.currentUser(w, r)
	if !ok {
		return nil, false
	}
	if user.Role != role {
		s.writeError(w, &ErrForbidden{Message: "Only " + role + "s can " + action})
		return nil, false
	}
	return user, true
}

// ownedListing loads the listing named by the {id} path value and checks that user owns it.
func (s *Server) ownedListing(w http.ResponseWriter, r *http.Request, user *types.User) (*types.JobListing, bool) {
	id, ok := s.pathUUID(w, r, "id", "job")
	if !ok {
		return nil, false
	}
	return s.ownedListingByID(w, r, user, id)
}

func (s *Server) ownedListingByID(w http.ResponseWriter, r *http.Request, user *types.User, id uuid.UUID) (*types.JobListing, bool) {
	listing, err := s.store.GetJobListing(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return nil, false
	}
	if listing == nil {
		s.writeError(w, &ErrNotFound{Resource: "Job listing"})
		return nil, false
	}
	if listing.EmployerID != user.ID {
		s.writeError(w, &ErrForbidden{Message: "You do not own this job listing"})
		return nil, false
	}
	return listing, true
}
