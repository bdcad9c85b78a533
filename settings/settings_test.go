package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func writeFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "lifegame.toml")
	if err := os.WriteFile(path, []byte(contents), 0644); err != nil {
		t.Fatalf("write settings file: %v", err)
	}
	return path
}

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("default settings invalid: %v", err)
	}
	if cfg.Addr() != "localhost:8080" {
		t.Fatalf("unexpected addr: %q", cfg.Addr())
	}
	if len(cfg.CORSOrigins) != 1 || cfg.CORSOrigins[0] != "*" {
		t.Fatalf("unexpected cors origins: %+v", cfg.CORSOrigins)
	}
}

func TestLoadFileOverridesOnlyDefinedKeys(t *testing.T) {
	path := writeFile(t, `
port = 9090
log_level = "debug"
cors_origins = ["http://a.example", " ", "http://b.example"]
write_timeout = "45s"

[ngrok]
enabled = true
domain = "life.ngrok.app"
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("load settings: %v", err)
	}

	if cfg.Port != 9090 {
		t.Fatalf("unexpected port: %d", cfg.Port)
	}
	if cfg.Host != "localhost" {
		t.Fatalf("expected default host, got %q", cfg.Host)
	}
	if cfg.PatternsDir != "patterns" {
		t.Fatalf("expected default patterns dir, got %q", cfg.PatternsDir)
	}
	if cfg.LogLevel != "debug" {
		t.Fatalf("unexpected log level: %q", cfg.LogLevel)
	}
	if len(cfg.CORSOrigins) != 2 || cfg.CORSOrigins[1] != "http://b.example" {
		t.Fatalf("unexpected cors origins: %+v", cfg.CORSOrigins)
	}
	if cfg.WriteTimeout != 45*time.Second {
		t.Fatalf("unexpected write timeout: %v", cfg.WriteTimeout)
	}
	if cfg.ReadTimeout != 15*time.Second {
		t.Fatalf("expected default read timeout, got %v", cfg.ReadTimeout)
	}
	if !cfg.Ngrok.Enabled || cfg.Ngrok.Domain != "life.ngrok.app" {
		t.Fatalf("unexpected ngrok settings: %+v", cfg.Ngrok)
	}
	if cfg.Ngrok.AuthToken != "" {
		t.Fatalf("expected empty auth token, got %q", cfg.Ngrok.AuthToken)
	}
}

func TestOverlayKeepsBase(t *testing.T) {
	base := Default()
	base.Host = "0.0.0.0"
	path := writeFile(t, `patterns_dir = "/srv/patterns"`)

	cfg, err := Overlay(base, path)
	if err != nil {
		t.Fatalf("overlay settings: %v", err)
	}
	if cfg.Host != "0.0.0.0" {
		t.Fatalf("expected base host, got %q", cfg.Host)
	}
	if cfg.PatternsDir != "/srv/patterns" {
		t.Fatalf("unexpected patterns dir: %q", cfg.PatternsDir)
	}
}

func TestLoadFileErrors(t *testing.T) {
	tests := []struct {
		name     string
		contents string
		contains string
	}{
		{"bad duration", `read_timeout = "soon"`, "parse read_timeout"},
		{"unknown key", `colour = "blue"`, "unknown keys colour"},
		{"bad toml", `port = `, "load settings"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeFile(t, tt.contents))
			if err == nil {
				t.Fatalf("expected error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Fatalf("expected error containing %q, got %v", tt.contains, err)
			}
		})
	}

	if _, err := LoadFile(filepath.Join(t.TempDir(), "missing.toml")); err == nil {
		t.Fatalf("expected error for missing file")
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*Settings)
		contains string
	}{
		{"empty host", func(s *Settings) { s.Host = " " }, "host is required"},
		{"port zero", func(s *Settings) { s.Port = 0 }, "port must be between"},
		{"port too large", func(s *Settings) { s.Port = 70000 }, "port must be between"},
		{"log level", func(s *Settings) { s.LogLevel = "loud" }, "unknown log level"},
		{"read timeout", func(s *Settings) { s.ReadTimeout = 0 }, "read_timeout must be positive"},
		{"shutdown timeout", func(s *Settings) { s.ShutdownTimeout = -time.Second }, "shutdown_timeout must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatalf("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.contains) {
				t.Fatalf("expected error containing %q, got %v", tt.contains, err)
			}
		})
	}
}
