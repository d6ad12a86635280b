// Package config loads service configuration from the environment and
// command-line flags. Flags override environment variables, which override
// built-in defaults.
package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/pflag"
)

// Config holds all runtime settings.
type Config struct {
	HTTPAddr            string
	DBPath              string
	SnapshotBackend     string
	SnapshotDBPath      string
	SnapshotPrefix      string
	SnapshotTTL         time.Duration
	RedisAddr           string
	CatalogCacheEnabled bool
	CatalogCacheTTL     time.Duration
	SeedDemoData        bool
	ShutdownTimeout     time.Duration
	LogLevel            string
	MaxSessions         int
}

var snapshotBackends = map[string]bool{"memory": true, "sqlite": true, "redis": true}

// Load parses args (without the program name) on top of the environment.
func Load(args []string) (*Config, error) {
	cfg := &Config{}

	fs := pflag.NewFlagSet("storefront", pflag.ContinueOnError)
	fs.StringVar(&cfg.HTTPAddr, "http-addr", getEnv("HTTP_ADDR", ":3000"), "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db-path", getEnv("DB_PATH", "catalog.db"), "catalog SQLite database path")
	fs.StringVar(&cfg.SnapshotBackend, "snapshot-backend", getEnv("SNAPSHOT_BACKEND", "sqlite"), "snapshot backend: memory, sqlite or redis")
	fs.StringVar(&cfg.SnapshotDBPath, "snapshot-db-path", getEnv("SNAPSHOT_DB_PATH", "snapshots.db"), "snapshot SQLite database path")
	fs.StringVar(&cfg.SnapshotPrefix, "snapshot-prefix", getEnv("SNAPSHOT_PREFIX", "storefront:"), "key prefix for the redis snapshot backend")
	fs.DurationVar(&cfg.SnapshotTTL, "snapshot-ttl", getEnvDuration("SNAPSHOT_TTL", 0), "snapshot expiry for the redis backend, 0 keeps forever")
	fs.StringVar(&cfg.RedisAddr, "redis-addr", getEnv("REDIS_ADDR", "localhost:6379"), "Redis address")
	fs.BoolVar(&cfg.CatalogCacheEnabled, "catalog-cache", getEnvBool("CATALOG_CACHE_ENABLED", false), "cache products in Redis")
	fs.DurationVar(&cfg.CatalogCacheTTL, "catalog-cache-ttl", getEnvDuration("CATALOG_CACHE_TTL", 5*time.Minute), "product cache TTL")
	fs.BoolVar(&cfg.SeedDemoData, "seed", getEnvBool("SEED_DEMO_DATA", true), "seed demo products into an empty catalog")
	fs.DurationVar(&cfg.ShutdownTimeout, "shutdown-timeout", getEnvDuration("SHUTDOWN_TIMEOUT", 30*time.Second), "graceful shutdown timeout")
	fs.IntVar(&cfg.MaxSessions, "max-sessions", getEnvInt("MAX_SESSIONS", 10000), "carts and wishlists kept in memory per module")
	fs.StringVar(&cfg.LogLevel, "log-level", getEnv("LOG_LEVEL", "info"), "log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks cross-field constraints.
func (c *Config) Validate() error {
	c.SnapshotBackend = strings.ToLower(c.SnapshotBackend)
	if !snapshotBackends[c.SnapshotBackend] {
		return fmt.Errorf("invalid snapshot backend %q", c.SnapshotBackend)
	}
	if c.SnapshotTTL < 0 || c.CatalogCacheTTL < 0 {
		return fmt.Errorf("ttl values must not be negative")
	}
	if c.MaxSessions < 1 {
		return fmt.Errorf("max sessions must be positive")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown timeout must be positive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("invalid log level %q", c.LogLevel)
	}
	return nil
}

// getEnv returns environment variable or default value.
func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// getEnvBool returns environment variable as bool or default.
func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
		log.Printf("Warning: invalid bool value for %s: %s, using default: %t", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvInt returns environment variable as int or default.
func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
		log.Printf("Warning: invalid int value for %s: %s, using default: %d", key, value, defaultValue)
	}
	return defaultValue
}

// getEnvDuration returns environment variable as duration or default.
func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		log.Printf("Warning: invalid duration value for %s: %s, using default: %s", key, value, defaultValue)
	}
	return defaultValue
}
