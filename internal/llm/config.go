// Package llm wraps the generative model used by the recruitment assistant.
// Callers pick a model tier per task; the tier-to-model mapping lives in Config.
package llm

import "os"

// ModelTier represents the capability level a task needs
type ModelTier string

const (
	// TierLite is for short, low-stakes text: blog outlines, titles
	TierLite ModelTier = "lite"
	// TierStandard is for drafting: job posts, contracts
	TierStandard ModelTier = "standard"
	// TierAdvanced is for judgement calls: policy review, candidate ranking
	TierAdvanced ModelTier = "advanced"
)

// Provider represents an LLM provider
type Provider string

// ProviderGemini is the Google Gemini provider
const ProviderGemini Provider = "gemini"

// DefaultTemperature is used when Config.Temperature is unset.
const DefaultTemperature float32 = 0.4

// Config holds the model configuration for the application
type Config struct {
	Provider    Provider
	Models      map[ModelTier]string
	Temperature float32
}

// DefaultConfig returns the default configuration (currently Gemini)
func DefaultConfig() *Config {
	return DefaultGeminiConfig()
}

// DefaultGeminiConfig returns the default Gemini configuration
func DefaultGeminiConfig() *Config {
	return &Config{
		Provider: ProviderGemini,
		Models: map[ModelTier]string{
			TierLite:     "gemini-2.5-flash-lite",
			TierStandard: "gemini-2.5-flash",
			TierAdvanced: "gemini-2.5-pro",
		},
		Temperature: DefaultTemperature,
	}
}

// ConfigFromEnv returns the default configuration with per-tier model overrides from
// GEMINI_MODEL_LITE, GEMINI_MODEL_STANDARD and GEMINI_MODEL_ADVANCED.
func ConfigFromEnv() *Config {
	return configFromLookup(os.Getenv)
}

func configFromLookup(getenv func(string) string) *Config {
	cfg := DefaultConfig()
	overrides := map[ModelTier]string{
		TierLite:     "GEMINI_MODEL_LITE",
		TierStandard: "GEMINI_MODEL_STANDARD",
		TierAdvanced: "GEMINI_MODEL_ADVANCED",
	}
	for tier, key := range overrides {
		if model := getenv(key); model != "" {
			cfg = cfg.WithModel(tier, model)
		}
	}
	return cfg
}

// GetModel returns the model name for a given tier
func (c *Config) GetModel(tier ModelTier) string {
	if model, ok := c.Models[tier]; ok {
		return model
	}
	// Fallback chain: try standard, then lite
	if model, ok := c.Models[TierStandard]; ok {
		return model
	}
	if model, ok := c.Models[TierLite]; ok {
		return model
	}
	return ""
}

// WithModel returns a new Config with a specific model for a tier
func (c *Config) WithModel(tier ModelTier, model string) *Config {
	newConfig := &Config{
		Provider:    c.Provider,
		Models:      make(map[ModelTier]string, len(c.Models)+1),
		Temperature: c.Temperature,
	}
	for k, v := range c.Models {
		newConfig.Models[k] = v
	}
	newConfig.Models[tier] = model
	return newConfig
}

func (c *Config) temperature() float32 {
	if c.Temperature <= 0 {
		return DefaultTemperature
	}
	return c.Temperature
}
