package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	yaml "gopkg.in/yaml.v3"
)

// FileConfig is the on-disk configuration schema, following the
// nested-section FileConfig style.
type FileConfig struct {
	OpenAI struct {
		Key     string `yaml:"key" json:"key"`
		BaseURL string `yaml:"base" json:"base"`
	} `yaml:"openai" json:"openai"`

	XAI struct {
		Key     string `yaml:"key" json:"key"`
		BaseURL string `yaml:"base" json:"base"`
	} `yaml:"xai" json:"xai"`

	Gemini struct {
		Key     string `yaml:"key" json:"key"`
		BaseURL string `yaml:"base" json:"base"`
	} `yaml:"gemini" json:"gemini"`

	Anthropic struct {
		Key string `yaml:"key" json:"key"`
	} `yaml:"anthropic" json:"anthropic"`

	Search struct {
		BraveKey string `yaml:"braveKey" json:"braveKey"`
		MCPURL   string `yaml:"mcpUrl" json:"mcpUrl"`
		File     string `yaml:"file" json:"file"`
	} `yaml:"search" json:"search"`

	Panel struct {
		Models []string `yaml:"models" json:"models"`
	} `yaml:"panel" json:"panel"`

	Cache struct {
		Capacity int `yaml:"capacity" json:"capacity"`
	} `yaml:"cache" json:"cache"`

	DryRun  bool `yaml:"dryRun" json:"dryRun"`
	Verbose bool `yaml:"verbose" json:"verbose"`
}

// LoadConfigFile reads YAML or JSON into FileConfig.
func LoadConfigFile(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	switch ext := filepath.Ext(path); ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("config: parse yaml: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(b, &fc); err != nil {
			return fc, fmt.Errorf("config: parse json: %w", err)
		}
	default:
		if err := yaml.Unmarshal(b, &fc); err != nil {
			if jerr := json.Unmarshal(b, &fc); jerr != nil {
				return fc, fmt.Errorf("config: parse config: %v (yaml) / %v (json)", err, jerr)
			}
		}
	}
	return fc, nil
}

// ApplyFileConfig overlays FileConfig values into cfg for any fields still
// at their zero value, letting flags/env keep precedence.
func ApplyFileConfig(cfg *Config, fc FileConfig) {
	if cfg == nil {
		return
	}
	if cfg.OpenAIAPIKey == "" {
		cfg.OpenAIAPIKey = fc.OpenAI.Key
	}
	if cfg.OpenAIBaseURL == "" {
		cfg.OpenAIBaseURL = fc.OpenAI.BaseURL
	}
	if cfg.XAIAPIKey == "" {
		cfg.XAIAPIKey = fc.XAI.Key
	}
	if cfg.XAIBaseURL == "" {
		cfg.XAIBaseURL = fc.XAI.BaseURL
	}
	if cfg.GeminiAPIKey == "" {
		cfg.GeminiAPIKey = fc.Gemini.Key
	}
	if cfg.GeminiBaseURL == "" {
		cfg.GeminiBaseURL = fc.Gemini.BaseURL
	}
	if cfg.AnthropicAPIKey == "" {
		cfg.AnthropicAPIKey = fc.Anthropic.Key
	}
	if cfg.BraveAPIKey == "" {
		cfg.BraveAPIKey = fc.Search.BraveKey
	}
	if cfg.MCPBraveURL == "" {
		cfg.MCPBraveURL = fc.Search.MCPURL
	}
	if cfg.StaticSearchPath == "" {
		cfg.StaticSearchPath = fc.Search.File
	}
	if len(cfg.PanelModels) == 0 && len(fc.Panel.Models) > 0 {
		cfg.PanelModels = append([]string{}, fc.Panel.Models...)
	}
	if cfg.CacheCapacity == 0 && fc.Cache.Capacity > 0 {
		cfg.CacheCapacity = fc.Cache.Capacity
	}
	if !cfg.DryRun && fc.DryRun {
		cfg.DryRun = true
	}
	if !cfg.Verbose && fc.Verbose {
		cfg.Verbose = true
	}
}
