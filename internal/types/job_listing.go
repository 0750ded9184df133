// Package types provides type definitions for structured data used throughout the job board.
package types

import (
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
)

// JobLocationType constants
const (
	LocationOnsite = "onsite"
	LocationRemote = "remote"
)

// JobType constants
const (
	JobTypeInternship = "internship"
	JobTypeFullTime   = "full_time"
	JobTypePartTime   = "part_time"
)

// JobStatus constants
const (
	JobStatusOpen   = "open"
	JobStatusClosed = "closed"
	JobStatusDraft  = "draft"
)

// ExperienceLevel constants
const (
	ExperienceEntry     = "entry"
	ExperienceMid       = "mid"
	ExperienceSenior    = "senior"
	ExperienceExecutive = "executive"
)

// EmployerSummary is the employer block embedded in listing responses.
type EmployerSummary struct {
	ID          uuid.UUID `json:"id"`
	Name        string    `json:"name"`
	Username    string    `json:"username"`
	Photo       *string   `json:"photo"`
	CompanyName *string   `json:"company_name"`
}

// JobListing is a job posted by an employer.
type JobListing struct {
	ID                      uuid.UUID        `json:"id"`
	EmployerID              uuid.UUID        `json:"-"`
	Employer                *EmployerSummary `json:"employer,omitempty"`
	Title                   string           `json:"title"`
	Location                string           `json:"location"`
	Company                 string           `json:"company"`
	Description             string           `json:"description"`
	Responsibilities        []string         `json:"responsibilities"`
	RequiredQualifications  []string         `json:"required_qualifications"`
	PreferredQualifications []string         `json:"preferred_qualifications"`
	Benefits                []string         `json:"benefits"`
	ExperienceRequired      string           `json:"experience_required"`
	ExperienceLevel         string           `json:"experience_level"`
	Salary                  *string          `json:"salary"`
	JobType                 string           `json:"job_type"`
	JobLocationType         string           `json:"job_location_type"`
	JobStatus               string           `json:"job_status"`
	Applicants              int              `json:"applicants"`
	CreatedAt               time.Time        `json:"created_at"`
}

// IsDraft reports whether the listing is hidden from public search.
func (l *JobListing) IsDraft() bool {
	return l.JobStatus == JobStatusDraft
}

// SalaryValue returns the numeric salary used for ordering.
// Salaries are stored as free text ("85000", "$85,000", "85k - 100k"); the first number found
// is used. ok is false when the salary is missing or has no parseable number.
func (l *JobListing) SalaryValue() (value float64, ok bool) {
	if l.Salary == nil {
		return 0, false
	}
	return ParseSalary(*l.Salary)
}

// ParseSalary extracts the leading numeric amount from a salary string.
// A trailing "k" multiplies by one thousand.
func ParseSalary(s string) (float64, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	start := strings.IndexAny(s, "0123456789")
	if start < 0 {
		return 0, false
	}

	var digits strings.Builder
	seenDot := false
	end := start
scan:
	for end < len(s) {
		c := s[end]
		switch {
		case c >= '0' && c <= '9':
			digits.WriteByte(c)
		case c == '.' && !seenDot:
			seenDot = true
			digits.WriteByte(c)
		case c == ',':
		default:
			break scan
		}
		end++
	}

	value, err := strconv.ParseFloat(strings.TrimSuffix(digits.String(), "."), 64)
	if err != nil {
		return 0, false
	}
	if end < len(s) && s[end] == 'k' {
		value *= 1000
	}
	return value, true
}

// JobListingInput is the request body for publishing or updating a listing.
type JobListingInput struct {
	Title                   string   `json:"title" validate:"required,max=255"`
	Company                 string   `json:"company" validate:"required,max=255"`
	Location                string   `json:"location" validate:"required,max=255"`
	Description             string   `json:"description" validate:"required"`
	Responsibilities        []string `json:"responsibilities"`
	RequiredQualifications  []string `json:"required_qualifications"`
	PreferredQualifications []string `json:"preferred_qualifications"`
	Benefits                []string `json:"benefits"`
	ExperienceRequired      string   `json:"experience_required" validate:"max=100"`
	ExperienceLevel         string   `json:"experience_level" validate:"omitempty,oneof=entry mid senior executive"`
	Salary                  *string  `json:"salary" validate:"omitempty,max=100"`
	JobType                 string   `json:"job_type" validate:"omitempty,oneof=internship full_time part_time"`
	JobLocationType         string   `json:"job_location_type" validate:"omitempty,oneof=onsite remote"`
	JobStatus               string   `json:"job_status" validate:"omitempty,oneof=open closed draft"`
}

// ApplyDefaults fills the enum fields the way the listing table defaults them.
func (in *JobListingInput) ApplyDefaults() {
	if in.ExperienceLevel == "" {
		in.ExperienceLevel = ExperienceEntry
	}
	if in.JobType == "" {
		in.JobType = JobTypeFullTime
	}
	if in.JobLocationType == "" {
		in.JobLocationType = LocationOnsite
	}
	if in.JobStatus == "" {
		in.JobStatus = JobStatusOpen
	}
}
