package config

import (
	"os"
	"strconv"
	"strings"
)

// ApplyEnvToConfig populates unset fields of cfg from environment variables.
// Explicit cfg values take precedence over env, mirroring the
// ApplyEnvToConfig fill-unset semantics.
func ApplyEnvToConfig(cfg *Config) {
	if cfg == nil {
		return
	}
	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = os.Getenv("OPENAI_API_KEY")
	}
	if cfg.XAIAPIKey == "" {
		cfg.XAIAPIKey = os.Getenv("XAI_API_KEY")
	}
	if cfg.GeminiAPIKey == "" {
		v := os.Getenv("GEMINI_API_KEY")
		if v == "" {
			v = os.Getenv("GOOGLE_API_KEY")
		}
		cfg.GeminiAPIKey = v
	}
	if cfg.AnthropicAPIKey == "" {
		cfg.AnthropicAPIKey = os.Getenv("ANTHROPIC_API_KEY")
	}
	if cfg.BraveAPIKey == "" {
		cfg.BraveAPIKey = os.Getenv("BRAVE_SEARCH_API_KEY")
	}
	if cfg.MCPBraveURL == "" {
		cfg.MCPBraveURL = os.Getenv("MCP_BRAVE_SERVER_URL")
	}

	setBool := func(dst *bool, envKey string) {
		if *dst {
			return
		}
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			if s == "1" || s == "true" || s == "yes" || s == "on" {
				*dst = true
			}
		}
	}
	setBool(&cfg.DryRun, "DRY_RUN")
	setBool(&cfg.Verbose, "VERBOSE")

	if cfg.CacheCapacity == 0 {
		if n, err := strconv.Atoi(strings.TrimSpace(os.Getenv("CACHE_CAPACITY"))); err == nil && n > 0 {
			cfg.CacheCapacity = n
		}
	}
}

// ApplyEnvOverrides forcefully overrides cfg fields with environment
// variables when present, letting env take precedence over file config
// while flags remain the highest-precedence layer overall.
func ApplyEnvOverrides(cfg *Config) {
	if cfg == nil {
		return
	}
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		cfg.OpenAIAPIKey = v
	}
	if v := os.Getenv("XAI_API_KEY"); v != "" {
		cfg.XAIAPIKey = v
	}
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv("GOOGLE_API_KEY"); v != "" {
		cfg.GeminiAPIKey = v
	}
	if v := os.Getenv("ANTHROPIC_API_KEY"); v != "" {
		cfg.AnthropicAPIKey = v
	}
	if v := os.Getenv("BRAVE_SEARCH_API_KEY"); v != "" {
		cfg.BraveAPIKey = v
	}
	if v := os.Getenv("MCP_BRAVE_SERVER_URL"); v != "" {
		cfg.MCPBraveURL = v
	}

	setBool := func(dst *bool, envKey string) {
		if s := strings.ToLower(strings.TrimSpace(os.Getenv(envKey))); s != "" {
			switch s {
			case "1", "true", "yes", "on":
				*dst = true
			case "0", "false", "no", "off":
				*dst = false
			}
		}
	}
	setBool(&cfg.DryRun, "DRY_RUN")
	setBool(&cfg.Verbose, "VERBOSE")
}
