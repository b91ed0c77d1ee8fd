package pipeline

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigDefaults(t *testing.T) {
	t.Setenv("BLOGFLOW_OUTPUT_DIR", "")
	t.Setenv("BLOGFLOW_PROVIDER", "")
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "missing.json"))
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.Threshold != 7.0 {
		t.Fatalf("threshold=%v, want 7.0", cfg.Threshold)
	}
	if cfg.MaxRevs != 3 {
		t.Fatalf("max revisions=%d, want 3", cfg.MaxRevs)
	}
	if cfg.MaxNuggets != 7 {
		t.Fatalf("max nuggets=%d, want 7", cfg.MaxNuggets)
	}
	if cfg.OutputDir != "output" {
		t.Fatalf("output dir=%q", cfg.OutputDir)
	}
	if cfg.LLM.Provider != "openai" {
		t.Fatalf("provider=%q", cfg.LLM.Provider)
	}
}

func TestLoadConfigFileAndEnvOverlay(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	data := `{"llm":{"model":"file-model","api_key":"file-key"},"quality_threshold":8.5,"max_revisions":2}`
	if err := os.WriteFile(path, []byte(data), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}

	t.Setenv("OPENAI_API_KEY", "env-key")
	t.Setenv("BLOGFLOW_OUTPUT_DIR", "articles")

	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatalf("LoadConfig: %v", err)
	}
	if cfg.LLM.Model != "file-model" {
		t.Fatalf("model=%q, want file value kept", cfg.LLM.Model)
	}
	if cfg.LLM.APIKey != "env-key" {
		t.Fatalf("api key=%q, want env override", cfg.LLM.APIKey)
	}
	if cfg.Threshold != 8.5 || cfg.MaxRevs != 2 {
		t.Fatalf("threshold=%v maxRevs=%d", cfg.Threshold, cfg.MaxRevs)
	}
	if cfg.OutputDir != "articles" {
		t.Fatalf("output dir=%q, want env override", cfg.OutputDir)
	}
}

func TestValidateRejectsMissingKey(t *testing.T) {
	cfg := Config{LLM: &LLMConfig{}}
	cfg.applyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for missing api key")
	}
}

func TestValidateRejectsPlaceholderKey(t *testing.T) {
	cfg := Config{LLM: &LLMConfig{APIKey: "Your_API_Key_Here"}}
	cfg.applyDefaults()
	if err := cfg.Validate(); err == nil {
		t.Fatalf("expected error for placeholder api key")
	}
}

func TestValidateAcceptsRealKey(t *testing.T) {
	cfg := Config{LLM: &LLMConfig{APIKey: "sk-real"}}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
}
