// Package config provides configuration management for ModForge.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all configuration for the ModForge server and CLI.
type Config struct {
	// ServerAddr is the address the HTTP server listens on (e.g., ":8787").
	ServerAddr string

	// DataDir is the directory for persistent data (SQLite DB, session file).
	DataDir string

	// StoreBackend selects the bundle store: "memory" or "sqlite".
	StoreBackend string

	// DatabasePath is the full path to the SQLite database file.
	DatabasePath string

	// StoreMaxEntries bounds the in-memory store. 0 uses the default.
	StoreMaxEntries int

	// StoreTTL is how long an unused bundle stays in the in-memory store.
	// 0 disables expiry.
	StoreTTL time.Duration

	// Model gateway settings. Generation falls back to templates when the
	// gateway is not configured.
	LLMBaseURL string
	LLMToken   string
	LLMModel   string
	LLMRoute   string
	LLMTimeout time.Duration

	// GitHubToken enables the publish endpoint.
	GitHubToken string

	// ServerURL is the base URL the CLI talks to.
	ServerURL string
}

// Load creates a Config from the config file and environment variables.
// Values are resolved in order: environment variable > config file > default.
func Load() (*Config, error) {
	// Load config file (~/.modforge/config.env) into the environment.
	// godotenv.Load never overwrites vars already set, so env always wins.
	_ = godotenv.Load(filepath.Join(defaultDataDir(), "config.env"))

	dataDir := envOr("MODFORGE_DATA_DIR", defaultDataDir())
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return nil, fmt.Errorf("creating data directory: %w", err)
	}

	cfg := &Config{
		ServerAddr:      envOr("MODFORGE_ADDR", ":8787"),
		DataDir:         dataDir,
		StoreBackend:    envOr("MODFORGE_STORE", "memory"),
		DatabasePath:    filepath.Join(dataDir, "modforge.db"),
		StoreMaxEntries: envOrInt("MODFORGE_STORE_MAX", 0),
		StoreTTL:        envOrDuration("MODFORGE_STORE_TTL", 0),
		LLMBaseURL:      os.Getenv("MODFORGE_LLM_BASE_URL"),
		LLMToken:        os.Getenv("MODFORGE_LLM_TOKEN"),
		LLMModel:        envOr("MODFORGE_LLM_MODEL", "codestral-latest"),
		LLMRoute:        envOr("MODFORGE_LLM_ROUTE", "/v1/chat/completions"),
		LLMTimeout:      envOrDuration("MODFORGE_LLM_TIMEOUT", 60*time.Second),
		GitHubToken:     os.Getenv("GITHUB_TOKEN"),
		ServerURL:       envOr("MODFORGE_SERVER_URL", "http://localhost:8787"),
	}

	if cfg.StoreBackend != "memory" && cfg.StoreBackend != "sqlite" {
		return nil, fmt.Errorf("MODFORGE_STORE must be %q or %q, got %q", "memory", "sqlite", cfg.StoreBackend)
	}

	return cfg, nil
}

// SessionPath is where the CLI persists its version timeline.
func (c *Config) SessionPath() string {
	return filepath.Join(c.DataDir, "session.json")
}

// PublishEnabled reports whether the GitHub export path is configured.
func (c *Config) PublishEnabled() bool {
	return c.GitHubToken != ""
}

func envOrDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envOrInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".modforge"
	}
	return filepath.Join(home, ".modforge")
}
