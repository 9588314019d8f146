// Package config loads the btprofilectl YAML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"

	"github.com/edumarques81/btprofilectl/internal/btaddr"
)

// DefaultCommandTimeout bounds external tool invocations when the config
// does not say otherwise.
const DefaultCommandTimeout = 10 * time.Second

// Config holds all application configuration.
type Config struct {
	// DefaultDevice is used when no device argument is given: a Bluetooth
	// address or a BlueZ alias.
	DefaultDevice string `yaml:"default_device"`
	// CommandTimeout is a duration string bounding each external tool
	// invocation. "0" disables the limit.
	CommandTimeout string `yaml:"command_timeout"`
	LogLevel       string `yaml:"log_level"`
}

// DefaultConfigDir returns the config directory, honoring XDG_CONFIG_HOME.
func DefaultConfigDir() string {
	if dir := os.Getenv("XDG_CONFIG_HOME"); dir != "" {
		return filepath.Join(dir, "btprofilectl")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "btprofilectl")
}

// DefaultConfigPath returns the default config file path.
func DefaultConfigPath() string {
	return filepath.Join(DefaultConfigDir(), "config.yaml")
}

// Default returns a Config with sensible default values.
func Default() *Config {
	return &Config{
		CommandTimeout: "10s",
		LogLevel:       "info",
	}
}

// Load reads and parses a YAML config file. Missing fields are filled with
// defaults. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return cfg, nil
}

// Validate checks the config for invalid values.
func (c *Config) Validate() error {
	if c.CommandTimeout != "" {
		d, err := time.ParseDuration(c.CommandTimeout)
		if err != nil {
			return fmt.Errorf("command_timeout must be a duration like \"10s\", got %q", c.CommandTimeout)
		}
		if d < 0 {
			return fmt.Errorf("command_timeout must not be negative, got %q", c.CommandTimeout)
		}
	}

	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("log_level must be debug, info, warn, or error, got %q", c.LogLevel)
	}

	// Colons mean the value is meant as an address, not an alias.
	if strings.Contains(c.DefaultDevice, ":") {
		if _, err := btaddr.Parse(c.DefaultDevice); err != nil {
			return fmt.Errorf("default_device is not a valid bluetooth address: %q", c.DefaultDevice)
		}
	}

	return nil
}

// Timeout returns the parsed command timeout. Unset or unparseable values
// fall back to the default; Validate reports the latter to the user first.
func (c *Config) Timeout() time.Duration {
	if c.CommandTimeout == "" {
		return DefaultCommandTimeout
	}
	d, err := time.ParseDuration(c.CommandTimeout)
	if err != nil {
		return DefaultCommandTimeout
	}
	return d
}

// ParseLogLevel maps a config log level to a zerolog level, defaulting to
// info for unknown values.
func ParseLogLevel(level string) zerolog.Level {
	switch level {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
