package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigFileYAML(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	content := "openai:\n  key: yaml-key\npanel:\n  models: [\"gpt-4o\", \"grok-3\"]\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if fc.OpenAI.Key != "yaml-key" {
		t.Fatalf("OpenAI.Key = %q", fc.OpenAI.Key)
	}
	if len(fc.Panel.Models) != 2 {
		t.Fatalf("len(Panel.Models) = %d", len(fc.Panel.Models))
	}
}

func TestLoadConfigFileJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{"openai": {"key": "json-key"}, "cache": {"capacity": 500}}`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}
	fc, err := LoadConfigFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if fc.OpenAI.Key != "json-key" {
		t.Fatalf("OpenAI.Key = %q", fc.OpenAI.Key)
	}
	if fc.Cache.Capacity != 500 {
		t.Fatalf("Cache.Capacity = %d", fc.Cache.Capacity)
	}
}

func TestApplyFileConfigDoesNotOverrideExplicitValues(t *testing.T) {
	cfg := Config{OpenAIAPIKey: "explicit"}
	var fc FileConfig
	fc.OpenAI.Key = "from-file"
	fc.Panel.Models = []string{"gpt-4o"}

	ApplyFileConfig(&cfg, fc)

	if cfg.OpenAIAPIKey != "explicit" {
		t.Fatalf("OpenAIAPIKey = %q, explicit should win over file", cfg.OpenAIAPIKey)
	}
	if len(cfg.PanelModels) != 1 || cfg.PanelModels[0] != "gpt-4o" {
		t.Fatalf("PanelModels = %v, want fill from file", cfg.PanelModels)
	}
}

func TestLoadConfigFileMissingPath(t *testing.T) {
	if _, err := LoadConfigFile("/nonexistent/path/config.yaml"); err == nil {
		t.Fatal("expected an error for a missing file")
	}
}
