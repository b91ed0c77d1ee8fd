package pipeline

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

const (
	defaultThreshold    = 7.0
	defaultMaxRevisions = 3
	defaultMaxNuggets   = 7
	defaultMaxResults   = 10
	defaultOutputDir    = "output"
	defaultModel        = "gpt-4o-mini"
)

// placeholder values shipped in .env.example must not pass validation.
var placeholderKeys = map[string]bool{
	"your_api_key_here": true,
	"changeme":          true,
}

// LLMConfig configures the generative-text provider.
type LLMConfig struct {
	Provider string `json:"provider,omitempty"`
	Model    string `json:"model,omitempty"`
	APIKey   string `json:"api_key,omitempty"`
	BaseURL  string `json:"base_url,omitempty"`
}

// SearchConfig configures the Custom Search backend for the researcher.
// Leaving it empty runs research in model-knowledge fallback mode.
type SearchConfig struct {
	APIKey     string `json:"api_key,omitempty"`
	EngineID   string `json:"engine_id,omitempty"`
	FetchPages bool   `json:"fetch_pages,omitempty"`
}

// Config holds all run parameters. JSON file values are overlaid by
// environment variables (a local .env file is honored).
type Config struct {
	LLM        *LLMConfig    `json:"llm,omitempty"`
	Search     *SearchConfig `json:"search,omitempty"`
	Threshold  float64       `json:"quality_threshold,omitempty"`
	MaxRevs    int           `json:"max_revisions,omitempty"`
	MaxNuggets int           `json:"max_nuggets,omitempty"`
	MaxResults int           `json:"max_search_results,omitempty"`
	OutputDir  string        `json:"output_dir,omitempty"`
	Author     string        `json:"author,omitempty"`
	ServerAddr string        `json:"server_addr,omitempty"`
}

// LoadConfig reads the optional JSON config, loads .env, and applies
// environment overrides and defaults. Validation is separate so serve mode
// and offline mode can relax it.
func LoadConfig(path string) (Config, error) {
	// Missing .env is fine; a present-but-broken one is not.
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case err == nil:
			if err := json.Unmarshal(data, &cfg); err != nil {
				return Config{}, fmt.Errorf("parse config %s: %w", path, err)
			}
		case os.IsNotExist(err):
			// Config file is optional; env plus defaults may be enough.
		default:
			return Config{}, err
		}
	}

	cfg.applyEnv()
	cfg.applyDefaults()
	return cfg, nil
}

func (c *Config) applyEnv() {
	if c.LLM == nil {
		c.LLM = &LLMConfig{}
	}
	if v := firstEnv("BLOGFLOW_API_KEY", "OPENAI_API_KEY"); v != "" {
		c.LLM.APIKey = v
	}
	if v := firstEnv("BLOGFLOW_MODEL", "OPENAI_MODEL"); v != "" {
		c.LLM.Model = v
	}
	if v := os.Getenv("BLOGFLOW_BASE_URL"); v != "" {
		c.LLM.BaseURL = v
	}
	if v := os.Getenv("BLOGFLOW_PROVIDER"); v != "" {
		c.LLM.Provider = v
	}

	searchKey := firstEnv("BLOGFLOW_SEARCH_API_KEY", "GOOGLE_API_KEY")
	engineID := firstEnv("BLOGFLOW_SEARCH_ENGINE_ID", "GOOGLE_CSE_ID")
	if searchKey != "" || engineID != "" {
		if c.Search == nil {
			c.Search = &SearchConfig{}
		}
		if searchKey != "" {
			c.Search.APIKey = searchKey
		}
		if engineID != "" {
			c.Search.EngineID = engineID
		}
	}

	if v := os.Getenv("BLOGFLOW_OUTPUT_DIR"); v != "" {
		c.OutputDir = v
	}
}

func (c *Config) applyDefaults() {
	if c.LLM.Provider == "" {
		c.LLM.Provider = "openai"
	}
	if c.LLM.Model == "" {
		c.LLM.Model = defaultModel
	}
	if c.Threshold <= 0 {
		c.Threshold = defaultThreshold
	}
	if c.MaxRevs <= 0 {
		c.MaxRevs = defaultMaxRevisions
	}
	if c.MaxNuggets <= 0 {
		c.MaxNuggets = defaultMaxNuggets
	}
	if c.MaxResults <= 0 {
		c.MaxResults = defaultMaxResults
	}
	if c.OutputDir == "" {
		c.OutputDir = defaultOutputDir
	}
}

// Validate checks the parts needed for a live run. Called at startup so a
// missing or placeholder API key halts before any stage executes.
func (c *Config) Validate() error {
	if c.LLM == nil || c.LLM.APIKey == "" {
		return errors.New("api key not configured: set OPENAI_API_KEY (or BLOGFLOW_API_KEY) in .env")
	}
	if placeholderKeys[strings.ToLower(strings.TrimSpace(c.LLM.APIKey))] {
		return errors.New("api key is still the placeholder value: edit your .env file")
	}
	if c.Threshold > 10 {
		return fmt.Errorf("quality_threshold %.1f out of range (0-10]", c.Threshold)
	}
	return nil
}

func firstEnv(keys ...string) string {
	for _, k := range keys {
		if v := os.Getenv(k); v != "" {
			return v
		}
	}
	return ""
}
