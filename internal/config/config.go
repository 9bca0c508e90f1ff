// Package config handles application configuration loading from environment
// variables. It provides a centralized Config struct used across the application.
package config

import (
	"fmt"
	"os"
	"strconv"
)

// Storage backend names accepted in STORAGE_DRIVER.
const (
	DriverFile     = "file"
	DriverValkey   = "valkey"
	DriverPostgres = "postgres"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// Calendar
	Title string // display name in the header and the ICS feed

	// Storage backend selection
	StorageDriver string // "file", "valkey", "postgres"
	DataDir       string // file backend root

	// PostgreSQL connection (postgres backend)
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (valkey backend and, when auth is on, sessions)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string

	// Auth: when enabled the calendar sits behind the owner login and
	// sessions are stored in Valkey.
	AuthEnabled bool

	// Backups
	BackupSchedule string // cron expression; empty disables backups
	BackupDir      string
	BackupKeep     int    // snapshots retained per prune
	RestoreFrom    string // snapshot path to restore at startup; empty skips
}

// Load reads configuration from environment variables, applying defaults
// for development where appropriate. Returns an error if critical values
// are missing or inconsistent.
func Load() (*Config, error) {
	cfg := &Config{
		Host:  envOrDefault("APP_HOST", "0.0.0.0"),
		Port:  envOrDefault("APP_PORT", "8080"),
		Env:   envOrDefault("APP_ENV", "development"),
		Title: envOrDefault("CALENDAR_TITLE", "Event Calendar"),

		StorageDriver: envOrDefault("STORAGE_DRIVER", DriverFile),
		DataDir:       envOrDefault("DATA_DIR", "./data"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "eventcal"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", "changeme"),
		DBName:     envOrDefault("POSTGRES_DB", "eventcal"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),

		AuthEnabled: os.Getenv("AUTH_ENABLED") == "true",

		BackupSchedule: os.Getenv("BACKUP_SCHEDULE"),
		BackupDir:      envOrDefault("BACKUP_DIR", "./backups"),
		BackupKeep:     envIntOrDefault("BACKUP_KEEP", 14),
		RestoreFrom:    os.Getenv("RESTORE_FROM"),
	}

	switch cfg.StorageDriver {
	case DriverFile, DriverValkey, DriverPostgres:
	default:
		return nil, fmt.Errorf("unknown STORAGE_DRIVER %q", cfg.StorageDriver)
	}

	if cfg.Env == "production" && cfg.StorageDriver == DriverPostgres {
		if cfg.DBPassword == "changeme" {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// NeedsValkey returns true if any configured feature requires a Valkey
// connection: the valkey storage backend, or sessions for the owner login.
func (c *Config) NeedsValkey() bool {
	return c.StorageDriver == DriverValkey || c.AuthEnabled
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// envIntOrDefault reads an integer environment variable, returning a
// fallback if unset, empty, or not a number.
func envIntOrDefault(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fallback
	}
	return n
}
