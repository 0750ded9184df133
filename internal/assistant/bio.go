package assistant

import (
	"context"
	"strings"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/llm"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/prompts"
)

// CandidateBioInput is the profile a bio is written from.
type CandidateBioInput struct {
	Skills         []string `json:"skills" validate:"required,min=1,dive,required"`
	Education      []string `json:"education"`
	Experience     []string `json:"experience"`
	Certifications []string `json:"certifications"`
	Resume         string   `json:"extracted_resume" validate:"max=20000"`

	// Filled from the authenticated candidate.
	Name string `json:"-"`
}

// GenerateCandidateBio writes a first-person profile bio and returns it as sanitized HTML.
func (a *Assistant) GenerateCandidateBio(ctx context.Context, in CandidateBioInput) (string, error) {
	prompt, err := prompts.Render(prompts.Assistant, "candidate-bio", map[string]string{
		"Name":           in.Name,
		"Skills":         bulletList(unique(in.Skills)),
		"Education":      orDefault(bulletList(in.Education), "not provided"),
		"Experience":     orDefault(bulletList(in.Experience), "not provided"),
		"Certifications": orDefault(bulletList(unique(in.Certifications)), "none"),
		"Resume":         orDefault(strings.TrimSpace(in.Resume), "not provided"),
	})
	if err != nil {
		return "", err
	}
	return a.generateHTML(ctx, "candidate bio", prompt, llm.TierLite)
}

// unique drops blank entries and case-insensitive repeats, keeping first occurrences.
func unique(items []string) []string {
	seen := make(map[string]bool, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		item = strings.TrimSpace(item)
		key := strings.ToLower(item)
		if item == "" || seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, item)
	}
	return out
}
