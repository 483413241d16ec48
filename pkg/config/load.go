package config

import (
	"log/slog"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Load reads configuration from the environment, optionally seeding it from
// the given .env files first. Missing files are not an error; the system
// environment always wins.
func Load(envFiles ...string) (*App, error) {
	logger := slog.Default()
	if len(envFiles) == 0 {
		if err := godotenv.Load(); err != nil {
			logger.Warn("no .env file found, using system environment variables")
		}
	} else {
		for _, path := range envFiles {
			if err := godotenv.Load(path); err != nil {
				logger.Warn("environment file not loaded", "path", path, "error", err)
			}
		}
	}

	var cfg App
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
