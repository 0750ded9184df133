package types

import (
	"time"

	"github.com/google/uuid"
)

// ApplicationStatus constants
const (
	ApplicationPending     = "pending"
	ApplicationReviewing   = "reviewing"
	ApplicationShortlisted = "shortlisted"
	ApplicationInterviewed = "interviewed"
	ApplicationHired       = "hired"
	ApplicationRejected    = "rejected"
)

// Application links a candidate to a job listing.
type Application struct {
	ID                uuid.UUID `json:"id"`
	JobID             uuid.UUID `json:"job"`
	JobTitle          string    `json:"job_title,omitempty"`
	CandidateID       uuid.UUID `json:"candidate"`
	CandidateName     string    `json:"candidate_name,omitempty"`
	CandidateUsername string    `json:"candidate_username,omitempty"`
	CandidateEmail    string    `json:"candidate_email,omitempty"`
	Status            string    `json:"application_status"`
	Resume            string    `json:"resume"`
	ExtractedResume   string    `json:"extracted_resume"`
	Contract          string    `json:"contract"`
	CreatedAt         time.Time `json:"created_at"`
}

// ApplyRequest is the body of a candidate's application.
type ApplyRequest struct {
	Resume          string `json:"resume" validate:"required,max=100"`
	ExtractedResume string `json:"extracted_resume"`
}

// UpdateApplicationStatusRequest changes an application's status.
type UpdateApplicationStatusRequest struct {
	Status string `json:"application_status" validate:"required,oneof=pending reviewing shortlisted interviewed hired rejected"`
}

// SavedJob is a candidate's bookmark on a listing.
type SavedJob struct {
	UserID  uuid.UUID `json:"user"`
	JobID   uuid.UUID `json:"job"`
	SavedAt time.Time `json:"saved_at"`
}
