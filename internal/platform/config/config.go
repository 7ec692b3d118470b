// Package config reads runtime settings from the environment, optionally
// seeded from a .env file in the working directory.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const (
	defaultPort            = "8080"
	defaultFrontendDir     = "frontend"
	defaultLogLevel        = "info"
	defaultShutdownTimeout = 10 * time.Second
)

// Config holds the settings shared by both entry points.
type Config struct {
	// Port is the TCP port to listen on (PORT).
	Port string
	// FrontendDir is the static directory mounted at / by the frontend server (FRONTEND_DIR).
	FrontendDir string
	// AllowedOrigins lists CORS origins (CORS_ALLOWED_ORIGINS, comma separated).
	AllowedOrigins []string
	// LogLevel is the minimum zap level (LOG_LEVEL).
	LogLevel string
	// ShutdownTimeout bounds graceful shutdown (SHUTDOWN_TIMEOUT, Go duration).
	ShutdownTimeout time.Duration
}

// Addr returns the listen address for Port.
func (c Config) Addr() string {
	return ":" + c.Port
}

// Load reads .env from the working directory when present, then builds a
// Config from the environment. Variables already set in the environment take
// precedence over .env entries.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}
	return FromEnv()
}

// FromEnv builds a Config from environment variables, applying defaults.
func FromEnv() (Config, error) {
	cfg := Config{
		Port:            getenv("PORT", defaultPort),
		FrontendDir:     getenv("FRONTEND_DIR", defaultFrontendDir),
		AllowedOrigins:  splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		LogLevel:        strings.ToLower(getenv("LOG_LEVEL", defaultLogLevel)),
		ShutdownTimeout: defaultShutdownTimeout,
	}

	if n, err := strconv.Atoi(cfg.Port); err != nil || n < 0 || n > 65535 {
		return Config{}, fmt.Errorf("invalid PORT %q", cfg.Port)
	}
	if raw := os.Getenv("SHUTDOWN_TIMEOUT"); raw != "" {
		d, err := time.ParseDuration(raw)
		if err != nil {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: %w", raw, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("invalid SHUTDOWN_TIMEOUT %q: must be positive", raw)
		}
		cfg.ShutdownTimeout = d
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func splitList(raw string) []string {
	var out []string
	for part := range strings.SplitSeq(raw, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
