package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KashafDawood/AI-Recruitment-Backend/internal/config"
	"github.com/KashafDawood/AI-Recruitment-Backend/internal/server"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start an HTTP server exposing the job board endpoints.

Configuration comes from the environment (DATABASE_URL, REDIS_URL, GEMINI_API_KEY,
JWT_SECRET, ...) and optionally a JSON file given with --config.`,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default from PORT or 8000)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	srv, err := server.New(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("failed to create server: %w", err)
	}

	return srv.Start()
}

// loadConfig resolves configuration for commands that need the full server config.
func loadConfig() (config.Config, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
	}
	if servePort != 0 {
		cfg.Port = servePort
		if err := cfg.Validate(); err != nil {
			return config.Config{}, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return cfg, nil
}

// contextOrBackground returns the command's context, which is nil outside Execute.
func contextOrBackground(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
