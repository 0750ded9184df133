package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/db"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/search"
)

var (
	searchParams map[string]string
	searchPage   int
	searchLimit  int
	searchPlan   bool
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Run a listing search against the database",
	Long: `Runs the same search as GET /jobs and prints the page as JSON.

Example:
  recruit_api search --param title=backend --param sort_by=salary_high_to_low`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringToStringVar(&searchParams, "param", nil, "Search parameter as key=value (repeatable)")
	searchCmd.Flags().IntVar(&searchPage, "page", 1, "Page number")
	searchCmd.Flags().IntVar(&searchLimit, "limit", 10, "Page size")
	searchCmd.Flags().BoolVar(&searchPlan, "plan", false, "Print the SQL plan instead of running it")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, _ []string) error {
	if searchPage < 1 || searchLimit < 1 {
		return fmt.Errorf("--page and --limit must be positive")
	}

	plan := search.BuildPlan(search.Scope{}, search.ParseParams(searchParams), nil, time.Now())
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")

	if searchPlan {
		return enc.Encode(map[string]any{
			"where":    plan.Where,
			"order_by": plan.OrderBy,
			"score":    plan.Score,
			"args":     plan.Args(),
		})
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

	page, err := database.SearchJobListings(ctx, plan, db.Page{Number: searchPage, Size: searchLimit})
	if err != nil {
		return err
	}
	return enc.Encode(page)
}
