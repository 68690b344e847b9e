// Package config provides configuration loading and validation for the
// resume builder.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Config represents the application configuration. It can be loaded from a
// JSON file; environment variables and CLI flags override file values.
type Config struct {
	// Server
	Port int `json:"port,omitempty"` // HTTP port

	// AI assist
	APIKey string `json:"api_key,omitempty"` // Gemini API key; empty disables AI features
	Model  string `json:"model,omitempty"`   // Gemini model name

	// Persistence
	DatabaseURL string `json:"database_url,omitempty"` // PostgreSQL URL; empty selects file storage
	DataDir     string `json:"data_dir,omitempty"`     // Directory for file snapshots
	Slot        string `json:"slot,omitempty"`         // Snapshot slot name
	DebounceMS  int    `json:"debounce_ms,omitempty"`  // Save debounce in milliseconds

	// Paywall
	ReceiptSecret string `json:"receipt_secret,omitempty"` // Unlock receipt signing secret; empty means session-scoped random

	// Behavior
	JSONLogs bool `json:"json_logs,omitempty"` // JSON log encoding
	Debug    bool `json:"debug,omitempty"`     // Debug-level logging
}

// Load reads configuration from a JSON file.
func Load(path string) (*Config, error) {
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

// FromEnv reads the environment-variable configuration surface.
func FromEnv() Config {
	cfg := Config{
		APIKey:        os.Getenv("GEMINI_API_KEY"),
		Model:         os.Getenv("GEMINI_MODEL"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		DataDir:       os.Getenv("RESUME_DATA_DIR"),
		ReceiptSecret: os.Getenv("RECEIPT_SECRET"),
	}
	if port := os.Getenv("PORT"); port != "" {
		if n, err := strconv.Atoi(port); err == nil {
			cfg.Port = n
		}
	}
	return cfg
}

// Defaults returns the built-in configuration values.
func Defaults() Config {
	return Config{
		Port:       8080,
		Model:      "gemini-2.5-flash",
		DataDir:    ".",
		Slot:       "resume-data",
		DebounceMS: 500,
	}
}

// MergeWithDefaults returns a new Config with zero-valued fields filled from
// defaults. Bool fields are not merged; flags always win for those.
func (c *Config) MergeWithDefaults(defaults Config) Config {
	result := *c

	if result.Port == 0 {
		result.Port = defaults.Port
	}
	if result.APIKey == "" {
		result.APIKey = defaults.APIKey
	}
	if result.Model == "" {
		result.Model = defaults.Model
	}
	if result.DatabaseURL == "" {
		result.DatabaseURL = defaults.DatabaseURL
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.Slot == "" {
		result.Slot = defaults.Slot
	}
	if result.DebounceMS == 0 {
		result.DebounceMS = defaults.DebounceMS
	}
	if result.ReceiptSecret == "" {
		result.ReceiptSecret = defaults.ReceiptSecret
	}

	return result
}

// Validate checks that the configuration has valid values.
func (c *Config) Validate() error {
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("config error: 'port' must be between 1 and 65535")
	}
	if c.DebounceMS < 0 {
		return fmt.Errorf("config error: 'debounce_ms' must be non-negative")
	}
	if c.Slot == "" {
		return fmt.Errorf("config error: 'slot' must not be empty")
	}
	if c.DatabaseURL == "" && c.DataDir == "" {
		return fmt.Errorf("config error: either 'database_url' or 'data_dir' is required")
	}
	return nil
}

// Debounce returns the save debounce as a duration.
func (c *Config) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}
