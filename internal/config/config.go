// Package config loads wayfarer process configuration from
// .wayfarer/config.json with environment-variable overrides.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all wayfarer configuration.
type Config struct {
	// LLM configuration for the content proposer
	LLM LLMConfig `json:"llm"`

	// External knowledge search configuration
	Search SearchConfig `json:"search"`

	// Loop ceilings and concurrency caps
	Limits LimitsConfig `json:"limits"`

	// Logging
	Logging LoggingConfig `json:"logging"`

	// DataDir is where the session database lives.
	// Defaults to .wayfarer under the workspace.
	DataDir string `json:"data_dir"`
}

// LLMConfig configures the content-proposer client.
type LLMConfig struct {
	Provider string `json:"provider"` // gemini, openai
	APIKey   string `json:"api_key"`
	Model    string `json:"model"`
	BaseURL  string `json:"base_url"`
	Timeout  string `json:"timeout"`
}

// SearchConfig configures the external knowledge search client.
type SearchConfig struct {
	APIKey  string `json:"api_key"`
	Model   string `json:"model"`
	BaseURL string `json:"base_url"`
	Timeout string `json:"timeout"`
}

// LimitsConfig bounds the planner's iterative loops.
type LimitsConfig struct {
	MaxQueryLoops       int `json:"max_query_loops"`       // query refinement iterations
	MaxFillLoops        int `json:"max_fill_loops"`        // slot-filling iterations
	MaxValidateLoops    int `json:"max_validate_loops"`    // full-schedule validation passes
	MaxScheduleItems    int `json:"max_schedule_items"`    // hard item-count ceiling
	MaxConcurrentSearch int `json:"max_concurrent_search"` // research fan-out cap
	FreeHoursPerQuery   int `json:"free_hours_per_query"`  // query budget divisor
}

// LoggingConfig configures categorized file logging.
type LoggingConfig struct {
	DebugMode  bool            `json:"debug_mode"`
	Categories map[string]bool `json:"categories"`
	Level      string          `json:"level"`
}

// DefaultConfig returns the baseline configuration.
func DefaultConfig() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "gemini",
			Model:    "",
			Timeout:  "120s",
		},
		Search: SearchConfig{
			Model:   "sonar",
			Timeout: "120s",
		},
		Limits: LimitsConfig{
			MaxQueryLoops:       3,
			MaxFillLoops:        12,
			MaxValidateLoops:    5,
			MaxScheduleItems:    60,
			MaxConcurrentSearch: 10,
			FreeHoursPerQuery:   6,
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// DefaultConfigPath returns the path to .wayfarer/config.json under workspace.
func DefaultConfigPath(workspace string) string {
	return filepath.Join(workspace, ".wayfarer", "config.json")
}

// Load reads configuration from path, fills defaults for missing fields,
// and applies environment overrides. A missing file is not an error; the
// defaults plus env vars are returned.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if !os.IsNotExist(err) {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
	} else if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
	}

	cfg.fillDefaults()
	cfg.applyEnvOverrides()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// fillDefaults restores zero-valued limits to their defaults so a sparse
// config file does not disable loop ceilings.
func (c *Config) fillDefaults() {
	def := DefaultConfig()
	if c.Limits.MaxQueryLoops <= 0 {
		c.Limits.MaxQueryLoops = def.Limits.MaxQueryLoops
	}
	if c.Limits.MaxFillLoops <= 0 {
		c.Limits.MaxFillLoops = def.Limits.MaxFillLoops
	}
	if c.Limits.MaxValidateLoops <= 0 {
		c.Limits.MaxValidateLoops = def.Limits.MaxValidateLoops
	}
	if c.Limits.MaxScheduleItems <= 0 {
		c.Limits.MaxScheduleItems = def.Limits.MaxScheduleItems
	}
	if c.Limits.MaxConcurrentSearch <= 0 {
		c.Limits.MaxConcurrentSearch = def.Limits.MaxConcurrentSearch
	}
	if c.Limits.FreeHoursPerQuery <= 0 {
		c.Limits.FreeHoursPerQuery = def.Limits.FreeHoursPerQuery
	}
	if c.LLM.Timeout == "" {
		c.LLM.Timeout = def.LLM.Timeout
	}
	if c.Search.Timeout == "" {
		c.Search.Timeout = def.Search.Timeout
	}
	if c.Search.Model == "" {
		c.Search.Model = def.Search.Model
	}
}

// applyEnvOverrides applies environment variables over file values.
// Precedence for provider selection: GEMINI > OPENAI.
func (c *Config) applyEnvOverrides() {
	if key := os.Getenv("OPENAI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "openai"
	}
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		c.LLM.APIKey = key
		c.LLM.Provider = "gemini"
	}
	if key := os.Getenv("SONAR_API_KEY"); key != "" {
		c.Search.APIKey = key
	}
	if model := os.Getenv("WAYFARER_MODEL"); model != "" {
		c.LLM.Model = model
	}
}

// Validate checks that the configuration is internally consistent.
func (c *Config) Validate() error {
	if c.Limits.MaxConcurrentSearch < 1 {
		return fmt.Errorf("max_concurrent_search must be >= 1")
	}
	if c.Limits.FreeHoursPerQuery < 1 {
		return fmt.Errorf("free_hours_per_query must be >= 1")
	}
	if _, err := time.ParseDuration(c.LLM.Timeout); err != nil {
		return fmt.Errorf("invalid llm timeout %q: %w", c.LLM.Timeout, err)
	}
	if _, err := time.ParseDuration(c.Search.Timeout); err != nil {
		return fmt.Errorf("invalid search timeout %q: %w", c.Search.Timeout, err)
	}
	return nil
}

// LLMTimeout returns the parsed proposer timeout.
func (c *Config) LLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}

// SearchTimeout returns the parsed search timeout.
func (c *Config) SearchTimeout() time.Duration {
	d, err := time.ParseDuration(c.Search.Timeout)
	if err != nil {
		return 120 * time.Second
	}
	return d
}
