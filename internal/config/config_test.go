package config

import (
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("CLAWCHAT_BASE_URL", "")
	t.Setenv("CLAWCHAT_SESSION_TOKEN", "")
	t.Setenv("CLAWCHAT_TIMEOUT_SECONDS", "")

	cfg := DefaultConfig()

	if cfg.BaseURL != "http://localhost:8001/api" {
		t.Errorf("unexpected default base URL: %s", cfg.BaseURL)
	}
	if cfg.RequestTimeout != 60*time.Second {
		t.Errorf("unexpected default timeout: %s", cfg.RequestTimeout)
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("default config should validate: %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("CLAWCHAT_BASE_URL", "http://gateway.local:9000/api/")
	t.Setenv("CLAWCHAT_SESSION_TOKEN", "tok-123")
	t.Setenv("CLAWCHAT_TIMEOUT_SECONDS", "5")
	t.Setenv("CLAWCHAT_DEBUG", "true")

	cfg := DefaultConfig()

	if cfg.BaseURL != "http://gateway.local:9000/api" {
		t.Errorf("base URL not normalized: %s", cfg.BaseURL)
	}
	if cfg.SessionToken != "tok-123" {
		t.Errorf("session token not applied: %s", cfg.SessionToken)
	}
	if cfg.RequestTimeout != 5*time.Second {
		t.Errorf("timeout not applied: %s", cfg.RequestTimeout)
	}
	if !cfg.Debug {
		t.Error("debug flag not applied")
	}
}

func TestValidateRejectsBadValues(t *testing.T) {
	cases := []struct {
		name string
		mut  func(*Config)
	}{
		{"empty base URL", func(c *Config) { c.BaseURL = "" }},
		{"non-http scheme", func(c *Config) { c.BaseURL = "ftp://x" }},
		{"zero timeout", func(c *Config) { c.RequestTimeout = 0 }},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			cfg := &Config{
				BaseURL:        "http://localhost:8001/api",
				RequestTimeout: time.Second,
			}
			tc.mut(cfg)
			if err := cfg.Validate(); err == nil {
				t.Error("expected validation error")
			}
		})
	}
}
