// Package config loads application settings from the environment.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Config holds every runtime setting of the application.
type Config struct {
	// Storage
	DataFile  string `validate:"required"`
	BackupDir string `validate:"required"`

	// Logging
	LogLevel string `validate:"required,oneof=debug info warn error"`

	// Shell
	DefaultTopN int `validate:"min=1"`
}

// Load reads the configuration from the environment, falling back to
// defaults for unset keys.
func Load() *Config {
	return &Config{
		DataFile:    getEnv("DATA_FILE", "data/expenses.csv"),
		BackupDir:   getEnv("BACKUP_DIR", "backups"),
		LogLevel:    strings.ToLower(getEnv("LOG_LEVEL", "info")),
		DefaultTopN: getEnvInt("DEFAULT_TOP_N", 5),
	}
}

var validate = validator.New()

// Validate checks the configuration and reports every violation in a
// single error.
func (c *Config) Validate() error {
	err := validate.Struct(c)
	if err == nil {
		return nil
	}

	verrs, ok := err.(validator.ValidationErrors)
	if !ok {
		return fmt.Errorf("validate config: %w", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, e := range verrs {
		msgs = append(msgs, fieldErrorToString(e))
	}
	return fmt.Errorf("configuration validation failed:\n- %s", strings.Join(msgs, "\n- "))
}

func fieldErrorToString(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return fmt.Sprintf("%s is required", e.Field())
	case "oneof":
		return fmt.Sprintf("%s must be one of: %s", e.Field(), e.Param())
	case "min":
		return fmt.Sprintf("%s must be at least %s", e.Field(), e.Param())
	default:
		return fmt.Sprintf("%s is invalid", e.Field())
	}
}

// SlogLevel maps the configured log level onto slog's scale.
func (c *Config) SlogLevel() slog.Level {
	switch c.LogLevel {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return defaultValue
}
