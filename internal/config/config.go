// Package config loads service configuration from the environment and an optional JSON file.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Defaults for optional settings.
const (
	DefaultPort           = 8000
	DefaultContractDir    = "contracts"
	DefaultSearchCacheTTL = 30 * time.Second
	DefaultAllowedOrigin  = "*"
)

// Config is the service configuration. Values come from environment variables and may be
// overridden by a JSON file passed with --config.
type Config struct {
	Port           int    `json:"port,omitempty"`
	DatabaseURL    string `json:"database_url,omitempty"`    // PostgreSQL connection URL (required)
	RedisURL       string `json:"redis_url,omitempty"`       // Search cache; disabled when empty
	GeminiAPIKey   string `json:"gemini_api_key,omitempty"`  // Assistant; disabled when empty
	SearchCacheTTL string `json:"search_cache_ttl,omitempty"` // Go duration, e.g. "30s"
	ContractDir    string `json:"contract_dir,omitempty"`    // Where contract PDFs are written
	AllowedOrigin  string `json:"allowed_origin,omitempty"`  // CORS Access-Control-Allow-Origin
}

// Defaults returns the configuration used for anything left unset.
func Defaults() Config {
	return Config{
		Port:           DefaultPort,
		SearchCacheTTL: DefaultSearchCacheTTL.String(),
		ContractDir:    DefaultContractDir,
		AllowedOrigin:  DefaultAllowedOrigin,
	}
}

// FromEnv reads the configuration from environment variables.
func FromEnv() Config {
	return fromLookup(os.Getenv)
}

func fromLookup(getenv func(string) string) Config {
	cfg := Config{
		DatabaseURL:    getenv("DATABASE_URL"),
		RedisURL:       getenv("REDIS_URL"),
		GeminiAPIKey:   getenv("GEMINI_API_KEY"),
		SearchCacheTTL: getenv("SEARCH_CACHE_TTL"),
		ContractDir:    getenv("CONTRACT_DIR"),
		AllowedOrigin:  getenv("CORS_ALLOWED_ORIGIN"),
	}
	if port, err := strconv.Atoi(getenv("PORT")); err == nil {
		cfg.Port = port
	}
	return cfg
}

// LoadConfig loads configuration from a JSON file.
// Returns an error if the file cannot be read or parsed.
func LoadConfig(path string) (*Config, error) {
	if path == "" {
		return nil, fmt.Errorf("config path is empty")
	}

	if !filepath.IsAbs(path) {
		cwd, err := os.Getwd()
		if err != nil {
			return nil, fmt.Errorf("failed to get current directory: %w", err)
		}
		path = filepath.Join(cwd, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config JSON: %w", err)
	}

	return &cfg, nil
}

// Load builds the effective configuration: the file at path (if any), then the
// environment, then Defaults.
func Load(path string) (Config, error) {
	env := FromEnv()
	cfg := env
	if path != "" {
		file, err := LoadConfig(path)
		if err != nil {
			return Config{}, err
		}
		cfg = file.MergeWithDefaults(env)
	}
	cfg = cfg.MergeWithDefaults(Defaults())
	return cfg, cfg.Validate()
}

// Validate checks that required values are present and well formed.
func (c *Config) Validate() error {
	if c.DatabaseURL == "" {
		return fmt.Errorf("config error: 'database_url' (DATABASE_URL) is required")
	}
	if c.Port < 0 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 0 and 65535, got %d", c.Port)
	}
	if c.SearchCacheTTL != "" {
		ttl, err := time.ParseDuration(c.SearchCacheTTL)
		if err != nil {
			return fmt.Errorf("config error: invalid 'search_cache_ttl': %w", err)
		}
		if ttl <= 0 {
			return fmt.Errorf("config error: 'search_cache_ttl' must be positive")
		}
	}
	return nil
}

// CacheTTL returns the search cache TTL, or DefaultSearchCacheTTL when unset or invalid.
func (c *Config) CacheTTL() time.Duration {
	ttl, err := time.ParseDuration(c.SearchCacheTTL)
	if err != nil || ttl <= 0 {
		return DefaultSearchCacheTTL
	}
	return ttl
}

// MergeWithDefaults returns a new Config with empty fields filled from defaults.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.RedisURL == "" {
		result.RedisURL = defaults.RedisURL
	}
	if result.GeminiAPIKey == "" {
		result.GeminiAPIKey = defaults.GeminiAPIKey
	}
	if result.SearchCacheTTL == "" {
		result.SearchCacheTTL = defaults.SearchCacheTTL
	}
	if result.ContractDir == "" {
		result.ContractDir = defaults.ContractDir
	}
	if result.AllowedOrigin == "" {
		result.AllowedOrigin = defaults.AllowedOrigin
	}

	return result
}
