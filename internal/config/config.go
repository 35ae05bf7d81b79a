package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/vytor/flashdeck/internal/logger"
)

type Config struct {
	Addr                string
	DBPath              string
	LogLevel            string
	WorkerCount         int
	QueueSize           int
	DefaultSessionLimit int
	DefaultTimeZone     string
	ShutdownTimeout     time.Duration
}

// Load reads configuration from a .env file (if present) and environment variables,
// applying sensible defaults when values are missing or invalid.
func Load() Config {
	// Ignore error so the app still starts when .env is absent in production.
	_ = godotenv.Load()

	return Config{
		Addr:                envOr("ADDR", ":8080"),
		DBPath:              envOr("DB_PATH", "file:flashdeck.db"),
		LogLevel:            strings.ToUpper(envOr("LOG_LEVEL", "INFO")),
		WorkerCount:         envIntOr("WORKER_COUNT", 2),
		QueueSize:           envIntOr("QUEUE_SIZE", 32),
		DefaultSessionLimit: envIntOr("DEFAULT_SESSION_LIMIT", 20),
		DefaultTimeZone:     envOr("DEFAULT_TIMEZONE", "UTC"),
		ShutdownTimeout:     time.Duration(envIntOr("SHUTDOWN_TIMEOUT_SECONDS", 10)) * time.Second,
	}
}

// Validate reports every invalid setting at once.
func (c Config) Validate() error {
	var errs []error
	if c.Addr == "" {
		errs = append(errs, errors.New("ADDR cannot be empty"))
	}
	if c.DBPath == "" {
		errs = append(errs, errors.New("DB_PATH cannot be empty"))
	}
	if _, ok := logger.LookupLevel(c.LogLevel); !ok {
		errs = append(errs, fmt.Errorf("LOG_LEVEL %q must be one of DEBUG, INFO, WARN, ERROR", c.LogLevel))
	}
	if c.WorkerCount < 1 {
		errs = append(errs, fmt.Errorf("WORKER_COUNT must be at least 1, got %d", c.WorkerCount))
	}
	if c.QueueSize < 1 {
		errs = append(errs, fmt.Errorf("QUEUE_SIZE must be at least 1, got %d", c.QueueSize))
	}
	if c.DefaultSessionLimit < 1 {
		errs = append(errs, fmt.Errorf("DEFAULT_SESSION_LIMIT must be at least 1, got %d", c.DefaultSessionLimit))
	}
	if _, err := time.LoadLocation(c.DefaultTimeZone); err != nil || c.DefaultTimeZone == "" {
		errs = append(errs, fmt.Errorf("DEFAULT_TIMEZONE %q is not a valid IANA time zone", c.DefaultTimeZone))
	}
	if c.ShutdownTimeout < 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT_SECONDS cannot be negative"))
	}
	return errors.Join(errs...)
}

// Location returns the default time zone, falling back to UTC.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DefaultTimeZone)
	if err != nil || c.DefaultTimeZone == "" {
		return time.UTC
	}
	return loc
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func envIntOr(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
		logger.Warn("invalid value for %s=%q, using default %d", key, v, def)
	}
	return def
}
