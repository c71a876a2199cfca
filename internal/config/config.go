// Package config loads application settings from the environment.
//
// A .env file in the working directory is loaded first (godotenv), then real
// environment variables take precedence. Missing optional values fall back to
// development defaults; the only hard requirement is JWT_SECRET.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config is the full application configuration.
type Config struct {
	Port   int
	DBPath string

	JWTSecret string
	TokenTTL  time.Duration

	// GeminiAPIKey enables the AI endpoints. Empty means the AI service
	// responds 500 with a not-configured message.
	GeminiAPIKey string

	// ExecBackend selects the execution sandbox: "docker" (local) or
	// "piston" (remote API).
	ExecBackend string
	PistonURL   string

	GitHubClientID     string
	GitHubClientSecret string
	GitHubCallbackURL  string
}

// Load reads the configuration. The .env file is optional; a missing file is
// not an error.
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:        8080,
		DBPath:      "data/editor.db",
		TokenTTL:    24 * time.Hour,
		ExecBackend: "docker",
	}

	if v := os.Getenv("PORT"); v != "" {
		port, err := strconv.Atoi(v)
		if err != nil {
			return nil, fmt.Errorf("config: invalid PORT %q: %w", v, err)
		}
		cfg.Port = port
	}
	if v := os.Getenv("DB_PATH"); v != "" {
		cfg.DBPath = v
	}

	cfg.JWTSecret = os.Getenv("JWT_SECRET")
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("config: JWT_SECRET is required (generate one with: openssl rand -hex 32)")
	}
	if v := os.Getenv("TOKEN_TTL_HOURS"); v != "" {
		hours, err := strconv.Atoi(v)
		if err != nil || hours <= 0 {
			return nil, fmt.Errorf("config: invalid TOKEN_TTL_HOURS %q", v)
		}
		cfg.TokenTTL = time.Duration(hours) * time.Hour
	}

	cfg.GeminiAPIKey = os.Getenv("GEMINI_API_KEY")

	if v := os.Getenv("EXEC_BACKEND"); v != "" {
		if v != "docker" && v != "piston" {
			return nil, fmt.Errorf("config: EXEC_BACKEND must be docker or piston, got %q", v)
		}
		cfg.ExecBackend = v
	}
	cfg.PistonURL = os.Getenv("PISTON_URL")

	cfg.GitHubClientID = os.Getenv("GITHUB_CLIENT_ID")
	cfg.GitHubClientSecret = os.Getenv("GITHUB_CLIENT_SECRET")
	cfg.GitHubCallbackURL = os.Getenv("GITHUB_CALLBACK_URL")
	if cfg.GitHubCallbackURL == "" {
		cfg.GitHubCallbackURL = fmt.Sprintf("http://localhost:%d/auth/github/callback", cfg.Port)
	}

	return cfg, nil
}
