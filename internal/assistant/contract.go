package assistant

import (
	"context"
	"fmt"
	"log"
	"os"
	"path/filepath"

	"github.com/google/uuid"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/llm"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/prompts"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/rendering"
)

// ContractStore persists rendered contract PDFs.
type ContractStore interface {
	// Save stores a document and returns where it can be retrieved from.
	Save(ctx context.Context, name string, pdf []byte) (location string, err error)
}

// DirStore writes contracts into a local directory.
type DirStore struct {
	Dir string
}

// Save implements ContractStore.
func (s DirStore) Save(_ context.Context, name string, pdf []byte) (string, error) {
	if err := os.MkdirAll(s.Dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create contract directory: %w", err)
	}
	path := filepath.Join(s.Dir, filepath.Base(name))
	if err := os.WriteFile(path, pdf, 0o644); err != nil {
		return "", fmt.Errorf("failed to write contract: %w", err)
	}
	return path, nil
}

// ContractInput holds the terms of an employment contract.
type ContractInput struct {
	ApplicationID uuid.UUID `json:"application_id" validate:"required"`
	Salary        string    `json:"salary" validate:"required,max=100"`
	StartDate     string    `json:"start_date" validate:"required"`
	Terms         string    `json:"terms"`

	// Filled from the application and listing, not the request body.
	Company       string `json:"-"`
	CandidateName string `json:"-"`
	Title         string `json:"-"`
	JobType       string `json:"-"`
	Location      string `json:"-"`
}

// Contract is a drafted and stored employment contract.
type Contract struct {
	ApplicationID uuid.UUID `json:"application_id"`
	HTML          string    `json:"html"`
	Location      string    `json:"location"`
}

// DraftContract writes a contract with the model, prints it to PDF and stores it as
// <application id>.pdf.
func (a *Assistant) DraftContract(ctx context.Context, in ContractInput) (*Contract, error) {
	if !a.Enabled() {
		return nil, ErrUnavailable
	}
	if a.renderer == nil || a.contracts == nil {
		return nil, fmt.Errorf("contract rendering: %w", ErrUnavailable)
	}

	prompt, err := prompts.Render(prompts.Assistant, "contract", map[string]string{
		"Company":       in.Company,
		"CandidateName": in.CandidateName,
		"Title":         in.Title,
		"JobType":       in.JobType,
		"Location":      in.Location,
		"Salary":        in.Salary,
		"StartDate":     in.StartDate,
		"Terms":         orDefault(in.Terms, "none"),
	})
	if err != nil {
		return nil, err
	}

	html, err := a.generateHTML(ctx, "contract", prompt, llm.TierStandard)
	if err != nil {
		return nil, err
	}

	page, err := rendering.Document(fmt.Sprintf("Employment Contract: %s", in.CandidateName), html)
	if err != nil {
		return nil, err
	}
	pdf, err := a.renderer.RenderPDF(ctx, page)
	if err != nil {
		return nil, fmt.Errorf("failed to render contract: %w", err)
	}

	location, err := a.contracts.Save(ctx, in.ApplicationID.String()+".pdf", pdf)
	if err != nil {
		return nil, err
	}
	log.Printf("[assistant] stored contract for application %s at %s", in.ApplicationID, location)

	return &Contract{ApplicationID: in.ApplicationID, HTML: html, Location: location}, nil
}
