package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Config holds all application configuration.
type Config struct {
	// API configuration
	API APIConfig `json:"api" mapstructure:"api"`

	// Authentication configuration
	Auth AuthConfig `json:"auth" mapstructure:"auth"`

	// Storage paths
	Storage StorageConfig `json:"storage" mapstructure:"storage"`

	// Sync behavior
	Sync SyncConfig `json:"sync" mapstructure:"sync"`

	// Logging
	Log LogConfig `json:"log" mapstructure:"log"`
}

// APIConfig for server communication.
type APIConfig struct {
	BaseURL    string        `json:"base_url" mapstructure:"base_url"`
	Timeout    time.Duration `json:"timeout" mapstructure:"timeout"`
	MaxRetries int           `json:"max_retries" mapstructure:"max_retries"`
	UserAgent  string        `json:"user_agent" mapstructure:"user_agent"`
}

// AuthConfig for the interactive sign-in flow.
type AuthConfig struct {
	GoogleClientID string `json:"google_client_id" mapstructure:"google_client_id"`
	RedirectURI    string `json:"redirect_uri" mapstructure:"redirect_uri"`
	Scopes         string `json:"scopes" mapstructure:"scopes"`
}

// StorageConfig for local data paths.
type StorageConfig struct {
	DataDir      string `json:"data_dir" mapstructure:"data_dir"`
	DatabaseFile string `json:"database_file" mapstructure:"database_file"`
	CredsFile    string `json:"creds_file" mapstructure:"creds_file"`
}

// SyncConfig for background synchronization behavior.
type SyncConfig struct {
	InitialDelay time.Duration `json:"initial_delay" mapstructure:"initial_delay"`
	Interval     time.Duration `json:"interval" mapstructure:"interval"`
}

// LogConfig for logging behavior.
type LogConfig struct {
	Level      string `json:"level" mapstructure:"level"`             // debug, info, warn, error
	Format     string `json:"format" mapstructure:"format"`           // text, json
	File       string `json:"file" mapstructure:"file"`               // empty = stderr
	MaxSize    int    `json:"max_size" mapstructure:"max_size"`       // MB
	MaxBackups int    `json:"max_backups" mapstructure:"max_backups"` // rotated files kept
	MaxAge     int    `json:"max_age" mapstructure:"max_age"`         // days
}

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() *Config {
	dataDir := ".ppclog"
	if home, err := os.UserHomeDir(); err == nil {
		dataDir = filepath.Join(home, ".ppclog")
	}

	return &Config{
		API: APIConfig{
			BaseURL:    "https://www.ppcpilot.org/api/v1/",
			Timeout:    30 * time.Second,
			MaxRetries: 3,
			UserAgent:  "ppclog/1.0",
		},
		Auth: AuthConfig{
			GoogleClientID: "341895943811-4agpkvfpq3ib8uvirejulntpmvpq68lm.apps.googleusercontent.com",
			RedirectURI:    "com.joelwehr.ppcpilot:/oauth2redirect",
			Scopes:         "openid profile email",
		},
		Storage: StorageConfig{
			DataDir:      dataDir,
			DatabaseFile: filepath.Join(dataDir, "flightlog.db3"),
			CredsFile:    filepath.Join(dataDir, "credentials.json"),
		},
		Sync: SyncConfig{
			InitialDelay: 10 * time.Second,
			Interval:     5 * time.Minute,
		},
		Log: LogConfig{
			Level:      "info",
			Format:     "text",
			File:       "",
			MaxSize:    10,
			MaxBackups: 3,
			MaxAge:     7,
		},
	}
}

// Validate checks configuration validity.
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return errors.New("api.base_url is required")
	}

	if c.API.Timeout <= 0 {
		return errors.New("api.timeout must be positive")
	}

	if c.Storage.DatabaseFile == "" {
		return errors.New("storage.database_file is required")
	}

	if c.Sync.Interval <= 0 {
		return errors.New("sync.interval must be positive")
	}

	if c.Sync.InitialDelay < 0 {
		return errors.New("sync.initial_delay cannot be negative")
	}

	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true,
	}
	if !validLevels[c.Log.Level] {
		return fmt.Errorf("invalid log level: %s", c.Log.Level)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[c.Log.Format] {
		return fmt.Errorf("invalid log format: %s", c.Log.Format)
	}

	return nil
}

// EnsureDirectories creates required directories.
func (c *Config) EnsureDirectories() error {
	dirs := []string{
		c.Storage.DataDir,
		filepath.Dir(c.Storage.DatabaseFile),
		filepath.Dir(c.Storage.CredsFile),
	}

	if c.Log.File != "" {
		dirs = append(dirs, filepath.Dir(c.Log.File))
	}

	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0700); err != nil {
			return fmt.Errorf("create directory %s: %w", dir, err)
		}
	}

	return nil
}
