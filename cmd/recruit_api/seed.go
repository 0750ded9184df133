package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/db"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/schemas"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/types"
	files "github.com/KashafDawood/AI-Recruitment-Backend/schemas"
)

var seedInput string

var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load users and listings from a JSON file",
	Long: `Loads demo data. The file holds "users" and "listings"; each listing names its
employer by username and must match job_listing.schema.json. Everything is inserted in
one transaction, so a failed run leaves the database unchanged.`,
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVarP(&seedInput, "in", "i", "", "Path to seed JSON file (required)")
	if err := seedCmd.MarkFlagRequired("in"); err != nil {
		panic(fmt.Sprintf("failed to mark in flag as required: %v", err))
	}
	rootCmd.AddCommand(seedCmd)
}

type seedFile struct {
	Users    []types.User  `json:"users"`
	Listings []seedListing `json:"listings"`
}

type seedListing struct {
	Employer string `json:"employer"`
	types.JobListingInput
}

// parseSeed decodes a seed file, validating every listing against the listing schema and
// checking that it names a seeded employer.
func parseSeed(data []byte) (*seedFile, error) {
	var raw struct {
		Users    []types.User      `json:"users"`
		Listings []json.RawMessage `json:"listings"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to unmarshal seed file: %w", err)
	}

	employers := map[string]bool{}
	for i, u := range raw.Users {
		if u.Username == "" || u.Email == "" {
			return nil, fmt.Errorf("user %d: username and email are required", i)
		}
		switch u.Role {
		case types.RoleEmployer:
			employers[u.Username] = true
		case types.RoleCandidate:
		default:
			return nil, fmt.Errorf("user %s: unknown role %q", u.Username, u.Role)
		}
	}

	out := &seedFile{Users: raw.Users}
	for i, msg := range raw.Listings {
		if err := schemas.Validate(files.JobListing, string(msg)); err != nil {
			return nil, fmt.Errorf("listing %d: %w", i, err)
		}
		var l seedListing
		if err := json.Unmarshal(msg, &l); err != nil {
			return nil, fmt.Errorf("listing %d: %w", i, err)
		}
		if !employers[l.Employer] {
			return nil, fmt.Errorf("listing %d (%s): employer %q is not a seeded employer", i, l.Title, l.Employer)
		}
		out.Listings = append(out.Listings, l)
	}
	return out, nil
}

func runSeed(cmd *cobra.Command, _ []string) error {
	data, err := os.ReadFile(seedInput)
	if err != nil {
		return fmt.Errorf("failed to read seed file: %w", err)
	}
	seed, err := parseSeed(data)
	if err != nil {
		return err
	}

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	ctx := contextOrBackground(cmd)

	database, err := db.Connect(ctx, cfg.DatabaseURL)
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer database.Close()

	listings := make([]db.SeedListing, len(seed.Listings))
	for i := range seed.Listings {
		listings[i] = db.SeedListing{Employer: seed.Listings[i].Employer, Input: &seed.Listings[i].JobListingInput}
	}
	if err := database.Seed(ctx, seed.Users, listings); err != nil {
		return fmt.Errorf("seed rolled back: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d users and %d listings\n", len(seed.Users), len(seed.Listings))
	return nil
}
