// Package schemas holds the JSON Schemas for structured model output and listing
// payloads, embedded for use by internal/schemas.
package schemas

import "embed"

// Schema file names
const (
	PolicyReview     = "policy_review.schema.json"
	CandidateRanking = "candidate_ranking.schema.json"
	JobListing       = "job_listing.schema.json"
)

// FS contains every *.schema.json file in this directory.
//
//go:embed *.schema.json
var FS embed.FS
