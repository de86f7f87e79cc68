// Package config resolves runtime settings from flags with environment
// variable fallbacks.
package config

import (
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
)

const envPrefix = "TASKTRACKER_"

// Config holds the settings for the tasktracker binary.
type Config struct {
	Addr      string
	DBPath    string
	StaticDir string
	JWTSecret string
	JWTIssuer string
	LogLevel  slog.Level
}

// Load parses args (without the program name) on top of environment defaults.
func Load(args []string) (Config, error) {
	fs := flag.NewFlagSet("tasktracker", flag.ContinueOnError)

	var cfg Config
	var level string
	fs.StringVar(&cfg.Addr, "addr", EnvOrDefault("ADDR", ":8080"), "HTTP listen address")
	fs.StringVar(&cfg.DBPath, "db", EnvOrDefault("DB_PATH", "data/tasks.db"), "Path to sqlite database file")
	fs.StringVar(&cfg.StaticDir, "static", EnvOrDefault("STATIC_DIR", "web/dist"), "Directory with built frontend")
	fs.StringVar(&cfg.JWTSecret, "jwt-secret", EnvOrDefault("JWT_SECRET", ""), "Shared secret used to verify bearer tokens")
	fs.StringVar(&cfg.JWTIssuer, "jwt-issuer", EnvOrDefault("JWT_ISSUER", ""), "Expected token issuer (optional)")
	fs.StringVar(&level, "log-level", EnvOrDefault("LOG_LEVEL", "info"), "Log level: debug, info, warn, error")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	if err := cfg.LogLevel.UnmarshalText([]byte(level)); err != nil {
		return Config{}, fmt.Errorf("log level: %w", err)
	}
	if cfg.JWTSecret == "" {
		return Config{}, errors.New("jwt secret is required (-jwt-secret or " + envPrefix + "JWT_SECRET)")
	}
	return cfg, nil
}

// EnvOrDefault returns the prefixed environment variable value or fallback
// when it is empty.
func EnvOrDefault(key, fallback string) string {
	if value := os.Getenv(envPrefix + key); value != "" {
		return value
	}
	return fallback
}
