package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"fjacquet/txcat/internal/logging"

	"github.com/joho/godotenv"
)

// LoadEnv loads environment variables from a .env file in the working
// directory or its parent, if one exists. Variables already set in the
// environment are not overridden.
func LoadEnv(logger logging.Logger) error {
	envFile := ".env"
	if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
		envFile = filepath.Join("..", ".env")
		if _, err := os.Stat(envFile); errors.Is(err, os.ErrNotExist) {
			logger.Debug("No .env file found, using environment variables")
			return nil
		}
	}

	if err := godotenv.Load(envFile); err != nil {
		return fmt.Errorf("error loading %s: %w", envFile, err)
	}

	logger.Debug("Loaded environment variables", logging.Field{Key: logging.FieldFile, Value: envFile})
	return nil
}

// NewLogger builds the application logger from the log section of config.
func NewLogger(config *Config) logging.Logger {
	return logging.NewLogrusAdapter(config.Log.Level, config.Log.Format)
}
