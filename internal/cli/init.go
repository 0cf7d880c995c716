// Package cli provides the interactive menu shell and the common
// bootstrap helpers used by the cmd entrypoint.
package cli

import (
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"github.com/jnx001/finance-manager/internal/config"
	"github.com/jnx001/finance-manager/internal/log"
	"github.com/jnx001/finance-manager/internal/storage"
)

// SetupLogger initializes structured logging at the given level and
// installs it as the process default.
func SetupLogger(level slog.Level) *log.Logger {
	logger := log.New(log.Config{Level: level})
	log.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig() *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		slog.Error("Configuration validation failed", log.FieldError, err)
		os.Exit(1)
	}
	return cfg
}

// InitStore opens the CSV store on the configured paths.
// Returns the store or exits the process on failure.
func InitStore(logger *log.Logger, dataFile, backupDir string) *storage.CSVStore {
	store, err := storage.New(dataFile, backupDir)
	if err != nil {
		logger.Error("Failed to initialize expense store",
			log.FieldError, err,
			log.FieldFile, dataFile)
		os.Exit(1)
	}
	return store
}
