// ABOUTME: Configuration loading and parsing for pinsync
// ABOUTME: Supports YAML files with environment variable expansion and sensible defaults

package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"

	"gopkg.in/yaml.v3"
)

// Config represents the complete pinsync configuration
type Config struct {
	Timeline TimelineConfig `yaml:"timeline"`
	Store    StoreConfig    `yaml:"store"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// TimelineConfig holds remote timeline API configuration
type TimelineConfig struct {
	// APIURL is the timeline service base URL; empty selects the public endpoint
	APIURL string `yaml:"api_url"`
	// Token is the default access token used when an operation supplies none
	Token string `yaml:"token"`
}

// StoreConfig holds local pin-mirror configuration
type StoreConfig struct {
	// Dir is the installation's data directory; empty selects the per-user default
	Dir string `yaml:"dir"`
	// RetentionMonths is how many calendar months pins survive locally (default 1)
	RetentionMonths int `yaml:"retention_months"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
}

// Load reads a configuration file from the given path and returns a parsed
// Config. Environment variables in the format ${VAR_NAME} are expanded. A
// missing file is not an error: every setting has a usable default.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := &Config{}
			cfg.applyDefaults()
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	// Expand environment variables in the raw YAML content
	expandedData := expandEnvVars(string(data))

	var cfg Config
	if err := yaml.Unmarshal([]byte(expandedData), &cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	cfg.applyDefaults()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating config: %w", err)
	}

	return &cfg, nil
}

// DefaultDataDir returns the per-user directory holding the backing file,
// <user config dir>/pebble-timeline.
func DefaultDataDir() string {
	base, err := os.UserConfigDir()
	if err != nil {
		base = "."
	}
	return filepath.Join(base, "pebble-timeline")
}

// applyDefaults fills unset fields with their defaults.
func (c *Config) applyDefaults() {
	if c.Store.Dir == "" {
		c.Store.Dir = DefaultDataDir()
	}
	if c.Store.RetentionMonths == 0 {
		c.Store.RetentionMonths = 1
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
}

// expandEnvVars replaces ${VAR_NAME} patterns with the corresponding environment variable values.
// If the environment variable is not set, it is replaced with an empty string.
func expandEnvVars(s string) string {
	// Match ${VAR_NAME} pattern
	re := regexp.MustCompile(`\$\{([^}]+)\}`)

	return re.ReplaceAllStringFunc(s, func(match string) string {
		// Extract variable name from ${VAR_NAME}
		varName := re.FindStringSubmatch(match)[1]
		return os.Getenv(varName)
	})
}

// Validate checks that all configuration fields are usable.
// Returns an error describing the first validation failure encountered.
func (c *Config) Validate() error {
	if c.Store.RetentionMonths < 0 {
		return fmt.Errorf("store.retention_months must not be negative")
	}
	return nil
}
