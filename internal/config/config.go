// Package config is the adjudication engine's layered configuration,
// adapted from internal/app/config*.go: flags > env override
// > env fill-unset > file config, in that precedence order.
package config

import (
	"errors"
	"time"
)

// Config holds runtime configuration for the engine and CLI.
type Config struct {
	// Provider API keys / endpoints.
	OpenAIAPIKey     string
	OpenAIBaseURL    string
	XAIAPIKey        string
	XAIBaseURL       string
	GeminiAPIKey     string
	GeminiBaseURL    string
	AnthropicAPIKey  string

	// Search backend.
	BraveAPIKey  string
	MCPBraveURL  string
	StaticSearchPath string // offline/dry-run file-backed provider

	// Panel defaults.
	PanelModels []string

	// Cache tuning.
	CacheCapacity int

	// Session/progress bus tuning.
	SessionQueueCapacity int

	// Behavior.
	DryRun  bool
	Verbose bool

	// Timeouts.
	PanelTimeout      time.Duration
	FetchTimeout      time.Duration
}

// DefaultPanelModels is the default panel model selection: a fixed
// four-model lineup spanning the major providers.
func DefaultPanelModels() []string {
	return []string{"gpt-4o", "grok-3", "gemini-2.0-flash-exp", "claude-sonnet-4-20250514"}
}

// Default returns a Config populated with the documented defaults.
func Default() Config {
	return Config{
		PanelModels:          DefaultPanelModels(),
		CacheCapacity:        1024,
		SessionQueueCapacity: 64,
		PanelTimeout:         180 * time.Second,
		FetchTimeout:         10 * time.Second,
	}
}

// ErrMissingModel is returned when validation finds an empty panel model list.
var ErrMissingModel = errors.New("config: at least one panel model is required")

// Validate performs minimal schema validation, mirroring the
// ValidateConfig shape.
func Validate(cfg Config) error {
	if len(cfg.PanelModels) == 0 {
		return ErrMissingModel
	}
	if cfg.CacheCapacity < 0 || cfg.SessionQueueCapacity < 0 {
		return errors.New("config: negative capacities are not allowed")
	}
	return nil
}
