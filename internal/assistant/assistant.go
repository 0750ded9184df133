// Package assistant drafts and reviews recruitment content with a generative model:
// job posts, blog posts, posting-policy reviews, applicant rankings and contracts.
package assistant

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/llm"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/prompts"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/rendering"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/schemas"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/types"
	files "github.com/KashafDawood/AI-Recruitment-Backend/schemas"
)

// ErrUnavailable is returned when no model is configured.
var ErrUnavailable = errors.New("assistant is not configured")

// Assistant runs the content tasks. The zero value is unusable; use New.
type Assistant struct {
	client    llm.Client
	renderer  rendering.PDFRenderer
	contracts ContractStore
}

// New creates an Assistant. client may be nil, in which case every task returns
// ErrUnavailable. renderer and contracts are only needed by DraftContract.
func New(client llm.Client, renderer rendering.PDFRenderer, contracts ContractStore) *Assistant {
	return &Assistant{client: client, renderer: renderer, contracts: contracts}
}

// Enabled reports whether a model is configured.
func (a *Assistant) Enabled() bool {
	return a != nil && a.client != nil
}

// JobPostInput describes the role to write a job post for.
type JobPostInput struct {
	Title           string `json:"title" validate:"required,max=255"`
	Company         string `json:"company" validate:"required,max=255"`
	Location        string `json:"location" validate:"required,max=255"`
	LocationType    string `json:"job_location_type" validate:"omitempty,oneof=onsite remote"`
	JobType         string `json:"job_type" validate:"omitempty,oneof=internship full_time part_time"`
	ExperienceLevel string `json:"experience_level" validate:"omitempty,oneof=entry mid senior executive"`
	Notes           string `json:"notes"`
}

// GenerateJobPost drafts a job post and returns it as sanitized HTML.
func (a *Assistant) GenerateJobPost(ctx context.Context, in JobPostInput) (string, error) {
	prompt, err := prompts.Render(prompts.Assistant, "job-post", map[string]string{
		"Title":           in.Title,
		"Company":         in.Company,
		"Location":        in.Location,
		"LocationType":    orDefault(in.LocationType, types.LocationOnsite),
		"JobType":         orDefault(in.JobType, types.JobTypeFullTime),
		"ExperienceLevel": orDefault(in.ExperienceLevel, types.ExperienceEntry),
		"Notes":           orDefault(in.Notes, "none"),
	})
	if err != nil {
		return "", err
	}
	return a.generateHTML(ctx, "job post", prompt, llm.TierStandard)
}

// BlogPostInput describes a blog post to write.
type BlogPostInput struct {
	Title    string   `json:"title" validate:"required,max=255"`
	Keywords []string `json:"keywords" validate:"required,min=1,dive,required"`
	Audience string   `json:"audience"`
	Tone     string   `json:"tone"`
}

// GenerateBlogPost drafts a blog post and returns it as sanitized HTML.
func (a *Assistant) GenerateBlogPost(ctx context.Context, in BlogPostInput) (string, error) {
	prompt, err := prompts.Render(prompts.Assistant, "blog-post", map[string]string{
		"Title":    in.Title,
		"Keywords": bulletList(in.Keywords),
		"Audience": orDefault(in.Audience, "job seekers and employers"),
		"Tone":     orDefault(in.Tone, "friendly and professional"),
	})
	if err != nil {
		return "", err
	}
	return a.generateHTML(ctx, "blog post", prompt, llm.TierLite)
}

func (a *Assistant) generateHTML(ctx context.Context, what, prompt string, tier llm.ModelTier) (string, error) {
	if !a.Enabled() {
		return "", ErrUnavailable
	}

	log.Printf("[assistant] drafting %s with %s", what, a.client.GetModel(tier))
	markdown, err := a.client.GenerateContent(ctx, prompt, tier)
	if err != nil {
		return "", fmt.Errorf("failed to generate %s: %w", what, err)
	}
	return rendering.MarkdownToHTML(markdown)
}

// ModifiedJob is a compliant rewrite proposed by a policy review.
type ModifiedJob struct {
	Title       string `json:"title,omitempty"`
	Description string `json:"description,omitempty"`
}

// PolicyReview is the outcome of checking a listing against posting policy.
type PolicyReview struct {
	Approved         bool         `json:"approved"`
	PolicyViolations []string     `json:"policy_violations"`
	ModifiedJob      *ModifiedJob `json:"modified_job,omitempty"`
}

// ReviewJobPost checks a listing against the posting policy. A review listing any
// violation is never approved.
func (a *Assistant) ReviewJobPost(ctx context.Context, listing *types.JobListingInput) (*PolicyReview, error) {
	if !a.Enabled() {
		return nil, ErrUnavailable
	}

	task, err := prompts.Get(prompts.Assistant, "review-job-post")
	if err != nil {
		return nil, err
	}
	prompt := llm.BuildStructuredPrompt(task, llm.PolicyReviewSchema(), listingText(listing))

	var review PolicyReview
	if err := a.generateJSON(ctx, "policy review", prompt, files.PolicyReview, &review); err != nil {
		return nil, err
	}

	if review.PolicyViolations == nil {
		review.PolicyViolations = []string{}
	}
	if len(review.PolicyViolations) > 0 {
		review.Approved = false
	}
	if review.Approved {
		review.ModifiedJob = nil
	}
	return &review, nil
}

// CandidateSummary is an applicant as presented for ranking.
type CandidateSummary struct {
	ApplicationID uuid.UUID
	Name          string
	Resume        string
}

// CandidateScore is one ranked applicant.
type CandidateScore struct {
	ApplicationID string  `json:"application_id"`
	Name          string  `json:"name,omitempty"`
	Score         float64 `json:"score"`
	Reason        string  `json:"reason,omitempty"`
}

// Recommendation ranks a listing's applicants, best first.
type Recommendation struct {
	Candidates []CandidateScore `json:"candidates"`
	Summary    string           `json:"summary,omitempty"`
}

// RecommendCandidates scores applicants from 0 to 100 for a listing. Scores for unknown or
// repeated applications are dropped; ties keep the model's order.
func (a *Assistant) RecommendCandidates(ctx context.Context, listing *types.JobListing, candidates []CandidateSummary) (*Recommendation, error) {
	if !a.Enabled() {
		return nil, ErrUnavailable
	}
	if len(candidates) == 0 {
		return &Recommendation{Candidates: []CandidateScore{}}, nil
	}

	task, err := prompts.Render(prompts.Assistant, "recommend-candidates", map[string]string{
		"Title":        listing.Title,
		"Company":      listing.Company,
		"Requirements": orDefault(bulletList(listing.RequiredQualifications), listing.Description),
	})
	if err != nil {
		return nil, err
	}

	names := make(map[string]string, len(candidates))
	var input strings.Builder
	for _, c := range candidates {
		id := c.ApplicationID.String()
		names[id] = c.Name
		fmt.Fprintf(&input, "Applicant %s:\n%s\n\n", id, strings.TrimSpace(c.Resume))
	}
	prompt := llm.BuildStructuredPrompt(task, llm.CandidateRankingSchema(), input.String())

	var rec Recommendation
	if err := a.generateJSON(ctx, "candidate ranking", prompt, files.CandidateRanking, &rec); err != nil {
		return nil, err
	}

	kept := make([]CandidateScore, 0, len(rec.Candidates))
	seen := make(map[string]bool, len(rec.Candidates))
	for _, c := range rec.Candidates {
		name, known := names[c.ApplicationID]
		if !known || seen[c.ApplicationID] {
			continue
		}
		seen[c.ApplicationID] = true
		c.Name = name
		kept = append(kept, c)
	}
	sort.SliceStable(kept, func(i, j int) bool { return kept[i].Score > kept[j].Score })

	rec.Candidates = kept
	return &rec, nil
}

// generateJSON asks for a JSON document, validates it against an embedded schema and
// decodes it into dest.
func (a *Assistant) generateJSON(ctx context.Context, what, prompt, schema string, dest any) error {
	log.Printf("[assistant] requesting %s from %s", what, a.client.GetModel(llm.TierAdvanced))
	raw, err := a.client.GenerateJSON(ctx, prompt, llm.TierAdvanced)
	if err != nil {
		return fmt.Errorf("failed to generate %s: %w", what, err)
	}

	if err := schemas.Validate(schema, raw); err != nil {
		return fmt.Errorf("invalid %s from model: %w", what, err)
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return fmt.Errorf("failed to decode %s: %w", what, err)
	}
	return nil
}

// listingText renders a listing as the plain-text document given to the reviewer.
func listingText(l *types.JobListingInput) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Title: %s\nCompany: %s\nLocation: %s\n", l.Title, l.Company, l.Location)
	if l.Salary != nil && *l.Salary != "" {
		fmt.Fprintf(&sb, "Salary: %s\n", *l.Salary)
	}
	fmt.Fprintf(&sb, "\nDescription:\n%s\n", l.Description)

	sections := []struct {
		name  string
		items []string
	}{
		{"Responsibilities", l.Responsibilities},
		{"Required qualifications", l.RequiredQualifications},
		{"Preferred qualifications", l.PreferredQualifications},
		{"Benefits", l.Benefits},
	}
	for _, s := range sections {
		if len(s.items) > 0 {
			fmt.Fprintf(&sb, "\n%s:\n%s\n", s.name, bulletList(s.items))
		}
	}
	return sb.String()
}

func bulletList(items []string) string {
	var lines []string
	for _, item := range items {
		if item = strings.TrimSpace(item); item != "" {
			lines = append(lines, "- "+item)
		}
	}
	return strings.Join(lines, "\n")
}

func orDefault(s, fallback string) string {
	if strings.TrimSpace(s) == "" {
		return fallback
	}
	return s
}
