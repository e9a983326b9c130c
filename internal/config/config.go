package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"histongram/pkg/tokenize"

	"gopkg.in/yaml.v3"
)

// Config represents the histongram CLI configuration
type Config struct {
	Tokenizer   string    `yaml:"tokenizer"`
	HTML        bool      `yaml:"html,omitempty"`
	Lengths     []int     `yaml:"lengths"`
	Top         int       `yaml:"top"`
	Workers     int       `yaml:"workers,omitempty"` // 0 means GOMAXPROCS
	Database    string    `yaml:"database"`
	MetricsFile string    `yaml:"metrics_file,omitempty"`
	Log         LogConfig `yaml:"log"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // debug, info, warn, error
	Format string `yaml:"format"` // console, json
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Tokenizer: "words",
		Lengths:   []int{1},
		Top:       100,
		Database:  "histongram.db",
		Log: LogConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load loads configuration from a YAML file. A missing file yields the
// defaults; fields absent from the file keep their default values.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Expand environment variables
	cfg.expandEnvVars()
	cfg.expandTilde()

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return cfg, nil
}

// Save writes configuration to a YAML file
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// Validate checks the configuration for values the CLI cannot run with.
func (c *Config) Validate() error {
	name, _, _ := strings.Cut(c.Tokenizer, ":")
	if !slices.Contains(tokenize.Names(), name) {
		return fmt.Errorf("unknown tokenizer '%s'", c.Tokenizer)
	}

	if len(c.Lengths) == 0 {
		return fmt.Errorf("lengths must not be empty")
	}
	for _, n := range c.Lengths {
		if n < 1 {
			return fmt.Errorf("n-gram length must be at least 1, got %d", n)
		}
	}

	if c.Top < 0 {
		return fmt.Errorf("top must not be negative")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}

	switch c.Log.Level {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level '%s'", c.Log.Level)
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		return fmt.Errorf("invalid log format '%s'", c.Log.Format)
	}

	return nil
}

// expandEnvVars expands environment variables in path fields
func (c *Config) expandEnvVars() {
	c.Database = os.ExpandEnv(c.Database)
	c.MetricsFile = os.ExpandEnv(c.MetricsFile)
}

// expandTilde replaces a leading "~/" with the user's home directory in
// path fields.
func (c *Config) expandTilde() {
	home, err := os.UserHomeDir()
	if err != nil {
		return // can't expand, leave as-is
	}
	expand := func(p string) string {
		if p == "~" {
			return home
		}
		if strings.HasPrefix(p, "~/") {
			return filepath.Join(home, p[2:])
		}
		return p
	}

	c.Database = expand(c.Database)
	c.MetricsFile = expand(c.MetricsFile)
}
