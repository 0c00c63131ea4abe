package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/viper"
)

// Loader handles configuration loading from file and environment.
// Precedence: explicit file > discovered file > PPCLOG_* environment
// variables > defaults.
type Loader struct {
	configPath string
}

// NewLoader creates a config loader. An empty path enables discovery
// of the default config file locations.
func NewLoader(configPath string) *Loader {
	return &Loader{configPath: configPath}
}

// Load reads configuration and validates it.
func (l *Loader) Load() (*Config, error) {
	v := viper.New()
	v.SetConfigType("json")

	l.setDefaults(v)

	if l.configPath != "" {
		v.SetConfigFile(l.configPath)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("load config file %s: %w", l.configPath, err)
		}
	} else {
		v.SetConfigName("config")
		for _, dir := range defaultConfigDirs() {
			v.AddConfigPath(dir)
		}
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("load config file: %w", err)
			}
		}
	}

	v.SetEnvPrefix("PPCLOG")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// setDefaults registers every default so environment overrides work
// even without a config file.
func (l *Loader) setDefaults(v *viper.Viper) {
	def := DefaultConfig()

	v.SetDefault("api.base_url", def.API.BaseURL)
	v.SetDefault("api.timeout", def.API.Timeout)
	v.SetDefault("api.max_retries", def.API.MaxRetries)
	v.SetDefault("api.user_agent", def.API.UserAgent)

	v.SetDefault("auth.google_client_id", def.Auth.GoogleClientID)
	v.SetDefault("auth.redirect_uri", def.Auth.RedirectURI)
	v.SetDefault("auth.scopes", def.Auth.Scopes)

	v.SetDefault("storage.data_dir", def.Storage.DataDir)
	v.SetDefault("storage.database_file", def.Storage.DatabaseFile)
	v.SetDefault("storage.creds_file", def.Storage.CredsFile)

	v.SetDefault("sync.initial_delay", def.Sync.InitialDelay)
	v.SetDefault("sync.interval", def.Sync.Interval)

	v.SetDefault("log.level", def.Log.Level)
	v.SetDefault("log.format", def.Log.Format)
	v.SetDefault("log.file", def.Log.File)
	v.SetDefault("log.max_size", def.Log.MaxSize)
	v.SetDefault("log.max_backups", def.Log.MaxBackups)
	v.SetDefault("log.max_age", def.Log.MaxAge)
}

func defaultConfigDirs() []string {
	dirs := []string{"."}
	if home, err := os.UserHomeDir(); err == nil {
		dirs = append(dirs,
			filepath.Join(home, ".config", "ppclog"),
			filepath.Join(home, ".ppclog"),
		)
	}
	return dirs
}
