// Package cli provides common initialization for cmd/agenda: logging,
// .env loading, configuration, and backend assembly.
package cli

import (
	"context"
	"log/slog"
	"os"

	"github.com/joho/godotenv"

	"agenda/internal/backend"
	"agenda/internal/config"
	applog "agenda/internal/log"
)

// SetupLogger initializes structured logging with the given level and
// sets it as the default logger.
func SetupLogger(level slog.Level) *applog.Logger {
	logger := applog.New(applog.Config{Level: level, Component: applog.ComponentApp})
	applog.SetDefault(logger)
	return logger
}

// LoadEnvFile loads the .env file for local development.
// Errors are ignored silently as the file is optional.
func LoadEnvFile() {
	_ = godotenv.Load()
}

// MustLogLevel resolves the configured log level, falling back to info
// when the value is unknown. Config validation reports the bad value
// later, once a logger exists.
func MustLogLevel() slog.Level {
	level, err := config.Load().SlogLevel()
	if err != nil {
		return slog.LevelInfo
	}
	return level
}

// LoadAndValidateConfig loads configuration and validates it.
// Returns the config or exits the process on validation failure.
func LoadAndValidateConfig(logger *applog.Logger) *config.Config {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		logger.Error("Configuration validation failed", "error", err)
		os.Exit(1)
	}
	return cfg
}

// InitBackend assembles the app for the configured backend.
// Exits the process on failure.
func InitBackend(ctx context.Context, logger *applog.Logger, cfg *config.Config) *backend.Result {
	bcfg, err := backend.FromAppConfig(cfg.DataBackend, cfg.SQLiteDBPath)
	if err != nil {
		logger.Error("Invalid backend configuration", "error", err)
		os.Exit(1)
	}

	result, err := backend.NewFactory(logger.WithComponent(applog.ComponentBackend).Logger).Create(ctx, bcfg)
	if err != nil {
		logger.Error("Failed to initialize backend", "error", err, "backend", cfg.DataBackend)
		os.Exit(1)
	}
	return result
}
