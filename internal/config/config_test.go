package config

import (
	"strings"
	"testing"
	"time"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != ":8080" {
		t.Fatalf("expected default addr :8080, got %q", cfg.Addr)
	}
	if cfg.ReplayDelay != 500*time.Millisecond {
		t.Fatalf("expected 500ms replay delay, got %v", cfg.ReplayDelay)
	}
	if cfg.Heartbeat != 15*time.Second {
		t.Fatalf("expected 15s heartbeat, got %v", cfg.Heartbeat)
	}
	if cfg.DefaultLocale != "en" || cfg.LogLevel != "info" {
		t.Fatalf("unexpected defaults %+v", cfg)
	}
	if cfg.ScriptPath != "" || len(cfg.AllowedOrigins) != 0 {
		t.Fatalf("expected empty script path and origins, got %+v", cfg)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PEGJUMP_ADDR", "127.0.0.1:9000")
	t.Setenv("PEGJUMP_REPLAY_DELAY", "0s")
	t.Setenv("PEGJUMP_ALLOWED_ORIGINS", "http://a.example, http://b.example")
	t.Setenv("PEGJUMP_DEFAULT_LOCALE", "pt-BR")
	cfg, err := Load()
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if cfg.Addr != "127.0.0.1:9000" || cfg.ReplayDelay != 0 || cfg.DefaultLocale != "pt-BR" {
		t.Fatalf("overrides not applied: %+v", cfg)
	}
	if len(cfg.AllowedOrigins) != 2 || cfg.AllowedOrigins[1] != "http://b.example" {
		t.Fatalf("unexpected origins %q", cfg.AllowedOrigins)
	}
}

func TestLoadErrors(t *testing.T) {
	t.Setenv("PEGJUMP_REPLAY_DELAY", "soon")
	_, err := Load()
	if err == nil || !strings.Contains(err.Error(), "parse env:") {
		t.Fatalf("expected parse env error, got %v", err)
	}

	t.Setenv("PEGJUMP_REPLAY_DELAY", "-1s")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for negative delay")
	}

	t.Setenv("PEGJUMP_REPLAY_DELAY", "1s")
	t.Setenv("PEGJUMP_HEARTBEAT", "0s")
	if _, err := Load(); err == nil {
		t.Fatalf("expected error for zero heartbeat")
	}
}
