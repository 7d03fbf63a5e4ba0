// Package config loads application configuration from the environment,
// optionally seeded from a .env file.
package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
)

// Config holds all startup configuration.
type Config struct {
	// DBPath is the SQLite database path. Required.
	DBPath string
	// Addr is the listen address.
	Addr string
	// SessionSecret signs session tokens. Auto-generated when empty
	// (sessions are then invalidated on restart).
	SessionSecret string
	// UploadsDir is the stored-file directory, served under /uploads/.
	UploadsDir string
	// LogFile duplicates logs to a file when non-empty.
	LogFile string
}

// Load reads configuration from .env (if present) and the environment.
// It fails when DB_PATH is not set.
func Load() (*Config, error) {
	if err := godotenv.Load(".env"); err != nil {
		slog.Info("no .env file, using environment variables only")
	}

	cfg := &Config{
		DBPath:        os.Getenv("DB_PATH"),
		Addr:          envDefault("ADDR", ":4000"),
		SessionSecret: os.Getenv("SESSION_SECRET"),
		UploadsDir:    envDefault("UPLOADS_DIR", "uploads"),
		LogFile:       os.Getenv("LOG_FILE"),
	}

	if cfg.DBPath == "" {
		return nil, fmt.Errorf("DB_PATH is not set")
	}

	return cfg, nil
}

func envDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
