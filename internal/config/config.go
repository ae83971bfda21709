package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all runtime settings for the client. Values come from the
// environment (CLAWCHAT_* variables), optionally seeded from a .env file.
type Config struct {
	// BaseURL is the gateway API root, e.g. http://localhost:8001/api.
	BaseURL string

	// SessionToken is the value of the gateway session cookie.
	SessionToken string

	// RequestTimeout bounds every gateway call so a hanging request
	// cannot leave the UI stuck in a sending state.
	RequestTimeout time.Duration

	// RecorderCommand overrides the audio capture command. Empty means
	// auto-detect (sox/rec/arecord).
	RecorderCommand string

	// ArchivePath is the DuckDB file for the local transcript archive.
	ArchivePath string

	// LogFile receives structured logs; stdout belongs to the TUI.
	LogFile string

	Debug bool
}

// DefaultConfig returns the built-in defaults with env vars applied on top.
func DefaultConfig() *Config {
	// Missing .env is fine, env vars still apply.
	_ = godotenv.Load()

	home, _ := os.UserHomeDir()
	stateDir := filepath.Join(home, ".clawchat")

	cfg := &Config{
		BaseURL:        "http://localhost:8001/api",
		RequestTimeout: 60 * time.Second,
		ArchivePath:    filepath.Join(stateDir, "archive.duckdb"),
		LogFile:        filepath.Join(stateDir, "clawchat.log"),
	}

	if v := os.Getenv("CLAWCHAT_BASE_URL"); v != "" {
		cfg.BaseURL = strings.TrimRight(v, "/")
	}
	if v := os.Getenv("CLAWCHAT_SESSION_TOKEN"); v != "" {
		cfg.SessionToken = v
	}
	if v := os.Getenv("CLAWCHAT_TIMEOUT_SECONDS"); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			cfg.RequestTimeout = time.Duration(secs) * time.Second
		}
	}
	if v := os.Getenv("CLAWCHAT_RECORDER"); v != "" {
		cfg.RecorderCommand = v
	}
	if v := os.Getenv("CLAWCHAT_ARCHIVE"); v != "" {
		cfg.ArchivePath = v
	}
	if v := os.Getenv("CLAWCHAT_LOG_FILE"); v != "" {
		cfg.LogFile = v
	}
	if v := os.Getenv("CLAWCHAT_DEBUG"); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			cfg.Debug = b
		}
	}

	return cfg
}

// Validate checks the config for values the client cannot run without.
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("gateway base URL is empty")
	}
	if !strings.HasPrefix(c.BaseURL, "http://") && !strings.HasPrefix(c.BaseURL, "https://") {
		return fmt.Errorf("gateway base URL %q must be http or https", c.BaseURL)
	}
	if c.RequestTimeout <= 0 {
		return fmt.Errorf("request timeout must be positive, got %s", c.RequestTimeout)
	}
	return nil
}

// EnsureStateDir creates the directory holding the archive and log file.
func (c *Config) EnsureStateDir() error {
	for _, p := range []string{c.ArchivePath, c.LogFile} {
		if p == "" {
			continue
		}
		if err := os.MkdirAll(filepath.Dir(p), 0o755); err != nil {
			return fmt.Errorf("failed to create state directory: %w", err)
		}
	}
	return nil
}
