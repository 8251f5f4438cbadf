package config

import (
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/safaedu/schoolsync/internal/source"
	"github.com/safaedu/schoolsync/internal/syncer"
	"github.com/safaedu/schoolsync/internal/transport"
)

// Config represents the application configuration
type Config struct {
	Database source.Config `toml:"database"`
	API      APIConfig     `toml:"api"`
	Sync     syncer.Config `toml:"sync"`
	Retry    RetryConfig   `toml:"retry"`
	Logging  LoggingConfig `toml:"logging"`
}

// APIConfig holds ingestion service settings
type APIConfig struct {
	BaseURL                string        `toml:"base_url"`
	BulkTimeoutFloor       time.Duration `toml:"bulk_timeout_floor"`
	BulkTimeoutPerThousand time.Duration `toml:"bulk_timeout_per_thousand"`
	BatchTimeout           time.Duration `toml:"batch_timeout"`
	ResetTimeout           time.Duration `toml:"reset_timeout"`
}

// RetryConfig holds the legacy-path retry settings
type RetryConfig struct {
	MaxAttempts int           `toml:"max_attempts"`
	Pause       time.Duration `toml:"pause"`
}

// LoggingConfig holds logging settings
type LoggingConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"`
}

// DefaultConfig returns a Config with sensible defaults
func DefaultConfig() *Config {
	timeouts := transport.DefaultTimeouts()
	retry := transport.DefaultRetryPolicy()
	return &Config{
		Database: source.Config{
			Driver:          "sqlite3",
			DSN:             "school.db",
			MaxOpenConns:    5,
			MaxIdleConns:    2,
			ConnMaxLifetime: 5 * time.Minute,
			ConnMaxIdleTime: 5 * time.Minute,
		},
		API: APIConfig{
			BulkTimeoutFloor:       timeouts.BulkFloor,
			BulkTimeoutPerThousand: timeouts.BulkPerThousand,
			BatchTimeout:           timeouts.Batch,
			ResetTimeout:           timeouts.Reset,
		},
		Sync: syncer.DefaultConfig(),
		Retry: RetryConfig{
			MaxAttempts: retry.MaxAttempts,
			Pause:       retry.Pause,
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
		},
	}
}

// LoadFromFile loads configuration from a TOML file
func LoadFromFile(path string) (*Config, error) {
	config := DefaultConfig()

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("config file does not exist: %s", path)
	}

	if _, err := toml.DecodeFile(path, config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	return config, nil
}

// LoadConfig loads configuration with the following precedence:
// 1. Default values
// 2. Config file (if specified)
func LoadConfig(configPath string) (*Config, error) {
	if configPath == "" {
		return DefaultConfig(), nil
	}
	return LoadFromFile(configPath)
}

// Timeouts assembles the transport timeout policy from the config.
func (c *Config) Timeouts() transport.Timeouts {
	return transport.Timeouts{
		BulkFloor:       c.API.BulkTimeoutFloor,
		BulkPerThousand: c.API.BulkTimeoutPerThousand,
		Batch:           c.API.BatchTimeout,
		Reset:           c.API.ResetTimeout,
	}
}

// RetryPolicy assembles the legacy-path retry policy from the config.
func (c *Config) RetryPolicy() transport.RetryPolicy {
	return transport.RetryPolicy{
		MaxAttempts: c.Retry.MaxAttempts,
		Pause:       c.Retry.Pause,
	}
}

// Validate checks if the configuration is valid. Violations are fatal
// and must surface before any database or network activity.
func (c *Config) Validate() error {
	// Database validation
	if c.Database.Driver == "" {
		return fmt.Errorf("database driver must be specified")
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN must be specified")
	}

	// API validation
	if c.API.BaseURL == "" {
		return fmt.Errorf("api base_url must be specified")
	}
	if c.API.BulkTimeoutFloor <= 0 {
		return fmt.Errorf("api bulk_timeout_floor must be positive")
	}
	if c.API.BulkTimeoutPerThousand <= 0 {
		return fmt.Errorf("api bulk_timeout_per_thousand must be positive")
	}
	if c.API.BatchTimeout <= 0 {
		return fmt.Errorf("api batch_timeout must be positive")
	}
	if c.API.ResetTimeout <= 0 {
		return fmt.Errorf("api reset_timeout must be positive")
	}

	// Sync validation
	if c.Sync.Database == "" {
		return fmt.Errorf("sync database must be specified")
	}
	if c.Sync.BatchSize <= 0 {
		return fmt.Errorf("sync batch_size must be positive")
	}

	// Retry validation
	if c.Retry.MaxAttempts <= 0 {
		return fmt.Errorf("retry max_attempts must be positive")
	}
	if c.Retry.Pause < 0 {
		return fmt.Errorf("retry pause must not be negative")
	}

	// Logging validation
	validLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.Logging.Level)
	}
	if c.Logging.Format != "text" && c.Logging.Format != "json" {
		return fmt.Errorf("invalid log format: %s (must be text or json)", c.Logging.Format)
	}

	return nil
}
