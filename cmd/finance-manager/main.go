package main

import (
	"os"

	"github.com/jnx001/finance-manager/internal/cli"
	"github.com/jnx001/finance-manager/internal/log"
	"github.com/jnx001/finance-manager/internal/services"
)

func main() {
	// Load .env file for local development (ignore errors in production)
	cli.LoadEnvFile()

	// Load configuration first so LOG_LEVEL can shape the logger
	cfg := cli.LoadAndValidateConfig()

	// Setup structured logging
	logger := cli.SetupLogger(cfg.SlogLevel())

	logger.Info("Starting finance manager",
		log.FieldFile, cfg.DataFile,
		"backup_dir", cfg.BackupDir)

	// Initialize CSV store and expense service
	store := cli.InitStore(logger, cfg.DataFile, cfg.BackupDir)
	service := services.NewExpenseService(store, logger)
	if err := service.Load(); err != nil {
		logger.Error("Failed to load expenses",
			log.FieldError, err,
			log.FieldFile, cfg.DataFile)
		os.Exit(1)
	}

	// Run the interactive menu on stdin/stdout
	shell := cli.NewShell(service, cfg, os.Stdin, os.Stdout, logger)
	if err := shell.Run(); err != nil {
		logger.Error("Shell terminated with error", log.FieldError, err)
		os.Exit(1)
	}
}
