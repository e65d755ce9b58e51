// Package config loads the service configuration from a YAML file with
// environment-variable overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// DefaultConfigPath is used when no path is supplied.
const DefaultConfigPath = "config.yaml"

// Config is the full service configuration.
type Config struct {
	Listen   string         `yaml:"listen"`   // HTTP listen address, e.g. ":8080".
	Database DatabaseConfig `yaml:"database"` // Persistence settings.
	Redis    RedisConfig    `yaml:"redis"`    // Optional directory cache.
	JWT      JWTConfig      `yaml:"jwt"`      // Staff token settings.
	Storage  StorageConfig  `yaml:"storage"`  // Profile picture object store.
	Log      LogConfig      `yaml:"log"`      // Logging settings.
}

// DatabaseConfig holds persistence settings.
type DatabaseConfig struct {
	DSN string `yaml:"dsn"` // PostgreSQL or SQLite DSN.
}

// RedisConfig holds the optional cache settings. An empty address disables
// the cache entirely.
type RedisConfig struct {
	Addr       string `yaml:"addr"`
	Password   string `yaml:"password"`
	DB         int    `yaml:"db"`
	TTLSeconds int    `yaml:"ttl_seconds"` // Directory listing cache TTL.
}

// TTL returns the configured cache TTL with a default of five minutes.
func (r RedisConfig) TTL() time.Duration {
	if r.TTLSeconds <= 0 {
		return 5 * time.Minute
	}
	return time.Duration(r.TTLSeconds) * time.Second
}

// JWTConfig holds staff token settings.
type JWTConfig struct {
	Secret      string `yaml:"secret"`
	ExpiryHours int    `yaml:"expiry_hours"`
}

// Expiry returns the configured token lifetime with a default of 24 hours.
func (j JWTConfig) Expiry() time.Duration {
	if j.ExpiryHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(j.ExpiryHours) * time.Hour
}

// StorageConfig holds the profile picture store settings.
type StorageConfig struct {
	Dir           string `yaml:"dir"`             // Backing directory for objects.
	PublicBaseURL string `yaml:"public_base_url"` // Base URL the objects are served at.
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level      string `yaml:"level"`       // logrus level name; empty means info.
	File       string `yaml:"file"`        // Rotated log file; empty logs to stderr only.
	MaxSizeMB  int    `yaml:"max_size_mb"` // Rotation threshold per file.
	MaxBackups int    `yaml:"max_backups"` // Rotated files kept.
	MaxAgeDays int    `yaml:"max_age_days"`
}

// ResolveConfigPath returns the effective config path: the explicit argument,
// then the CARDLY_CONFIG environment variable, then the default.
func ResolveConfigPath(path string) string {
	if trimmed := strings.TrimSpace(path); trimmed != "" {
		return filepath.Clean(trimmed)
	}
	if env := strings.TrimSpace(os.Getenv("CARDLY_CONFIG")); env != "" {
		return filepath.Clean(env)
	}
	return DefaultConfigPath
}

// Load reads and validates the configuration at path. A missing file is not
// an error; defaults and environment overrides still apply.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	raw, errRead := os.ReadFile(path)
	switch {
	case errRead == nil:
		if errDecode := yaml.Unmarshal(raw, cfg); errDecode != nil {
			return nil, fmt.Errorf("config: parse %s: %w", path, errDecode)
		}
	case os.IsNotExist(errRead):
		// fall through to env and defaults
	default:
		return nil, fmt.Errorf("config: read %s: %w", path, errRead)
	}

	applyEnvOverrides(cfg)
	applyDefaults(cfg)

	if strings.TrimSpace(cfg.Database.DSN) == "" {
		return nil, fmt.Errorf("config: database.dsn is required")
	}
	if strings.TrimSpace(cfg.JWT.Secret) == "" {
		return nil, fmt.Errorf("config: jwt.secret is required")
	}
	return cfg, nil
}

// applyEnvOverrides layers environment variables over file values.
func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv("CARDLY_LISTEN")); v != "" {
		cfg.Listen = v
	}
	if v := strings.TrimSpace(os.Getenv("CARDLY_DATABASE_DSN")); v != "" {
		cfg.Database.DSN = v
	}
	if v := strings.TrimSpace(os.Getenv("CARDLY_REDIS_ADDR")); v != "" {
		cfg.Redis.Addr = v
	}
	if v := strings.TrimSpace(os.Getenv("CARDLY_REDIS_PASSWORD")); v != "" {
		cfg.Redis.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("CARDLY_REDIS_DB")); v != "" {
		if n, errAtoi := strconv.Atoi(v); errAtoi == nil {
			cfg.Redis.DB = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("CARDLY_JWT_SECRET")); v != "" {
		cfg.JWT.Secret = v
	}
	if v := strings.TrimSpace(os.Getenv("CARDLY_STORAGE_DIR")); v != "" {
		cfg.Storage.Dir = v
	}
	if v := strings.TrimSpace(os.Getenv("CARDLY_STORAGE_BASE_URL")); v != "" {
		cfg.Storage.PublicBaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("CARDLY_LOG_LEVEL")); v != "" {
		cfg.Log.Level = v
	}
}

// applyDefaults fills unset values.
func applyDefaults(cfg *Config) {
	if strings.TrimSpace(cfg.Listen) == "" {
		cfg.Listen = ":8080"
	}
	if strings.TrimSpace(cfg.Storage.Dir) == "" {
		cfg.Storage.Dir = filepath.Join("data", "media")
	}
	if strings.TrimSpace(cfg.Storage.PublicBaseURL) == "" {
		cfg.Storage.PublicBaseURL = "/media"
	}
}
