// Package config loads the storefront client configuration from YAML with
// environment-variable overrides. Everything has a default so the client works
// out of the box against a locally running twin.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all storefront client configuration.
type Config struct {
	// Backend service consumed by the client
	Backend BackendConfig `yaml:"backend"`

	// Card payment processor
	Processor ProcessorConfig `yaml:"processor"`

	// Local persisted state (session, cart, pending address)
	State StateConfig `yaml:"state"`

	// Search-as-you-type behavior
	Search SearchConfig `yaml:"search"`

	// Logging
	Logging LoggingConfig `yaml:"logging"`
}

// BackendConfig points the client at the e-commerce backend.
type BackendConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// ProcessorConfig points the payment client at the card processor API.
type ProcessorConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout string `yaml:"timeout"`
}

// StateConfig locates the local state directory.
type StateConfig struct {
	Dir string `yaml:"dir"`
}

// SearchConfig tunes the debounced search overlay.
type SearchConfig struct {
	DebounceMillis int `yaml:"debounce_millis"`
	MinQueryRunes  int `yaml:"min_query_runes"`
	Limit          int `yaml:"limit"`
}

// LoggingConfig configures the category file logger.
type LoggingConfig struct {
	DebugMode  bool            `yaml:"debug_mode"`
	Level      string          `yaml:"level"` // debug, info, warn, error
	Categories map[string]bool `yaml:"categories"`
}

// DefaultConfig returns the default configuration.
func DefaultConfig() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL: "http://localhost:8900",
			Timeout: "15s",
		},
		Processor: ProcessorConfig{
			BaseURL: "http://localhost:8901",
			Timeout: "30s",
		},
		State: StateConfig{
			Dir: defaultStateDir(),
		},
		Search: SearchConfig{
			DebounceMillis: 300,
			MinQueryRunes:  2,
			Limit:          6,
		},
		Logging: LoggingConfig{
			DebugMode: false,
			Level:     "info",
		},
	}
}

func defaultStateDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".storefront"
	}
	return filepath.Join(home, ".storefront")
}

// Load loads configuration from a YAML file, falling back to defaults when the
// file is absent. Environment overrides are applied last.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			cfg.applyEnvOverrides()
			return cfg, nil
		}
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.applyEnvOverrides()
	return cfg, nil
}

// LoadDefault loads the config from its standard location in the state dir.
func LoadDefault() (*Config, error) {
	dir := os.Getenv("STOREFRONT_STATE_DIR")
	if dir == "" {
		dir = defaultStateDir()
	}
	return Load(filepath.Join(dir, "config.yaml"))
}

// Save writes the configuration to a YAML file.
func (c *Config) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}
	return nil
}

// applyEnvOverrides lets environment variables win over file values.
func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("STOREFRONT_BACKEND_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("STOREFRONT_PROCESSOR_URL"); v != "" {
		c.Processor.BaseURL = v
	}
	if v := os.Getenv("STOREFRONT_STATE_DIR"); v != "" {
		c.State.Dir = v
	}
	if v := os.Getenv("STOREFRONT_DEBUG"); v == "1" || v == "true" {
		c.Logging.DebugMode = true
		c.Logging.Level = "debug"
	}
}

// BackendTimeout parses the backend timeout, defaulting to 15s on bad input.
func (c *Config) BackendTimeout() time.Duration {
	return parseTimeout(c.Backend.Timeout, 15*time.Second)
}

// ProcessorTimeout parses the processor timeout, defaulting to 30s.
func (c *Config) ProcessorTimeout() time.Duration {
	return parseTimeout(c.Processor.Timeout, 30*time.Second)
}

// SearchDebounce returns the debounce interval for search-as-you-type.
func (c *Config) SearchDebounce() time.Duration {
	if c.Search.DebounceMillis <= 0 {
		return 300 * time.Millisecond
	}
	return time.Duration(c.Search.DebounceMillis) * time.Millisecond
}

func parseTimeout(s string, fallback time.Duration) time.Duration {
	if s == "" {
		return fallback
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return fallback
	}
	return d
}
