// Package settings holds the server settings and loads them from an
// optional TOML file layered over built-in defaults.
package settings

import (
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/wricardo/mcp-training/lifegame/observability"
)

// Settings configures the server process.
type Settings struct {
	Host            string
	Port            int
	PatternsDir     string
	LogLevel        string
	Debug           bool
	CORSOrigins     []string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	IdleTimeout     time.Duration
	ShutdownTimeout time.Duration
	Ngrok           NgrokSettings
}

// NgrokSettings configures the optional public tunnel.
type NgrokSettings struct {
	Enabled   bool
	AuthToken string
	Domain    string
}

// Default returns the built-in settings.
func Default() Settings {
	return Settings{
		Host:            "localhost",
		Port:            8080,
		PatternsDir:     "patterns",
		LogLevel:        "info",
		CORSOrigins:     []string{"*"},
		ReadTimeout:     15 * time.Second,
		WriteTimeout:    30 * time.Second,
		IdleTimeout:     60 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
}

// Addr returns host:port.
func (s Settings) Addr() string {
	return net.JoinHostPort(s.Host, strconv.Itoa(s.Port))
}

type fileConfig struct {
	Host            string   `toml:"host"`
	Port            int      `toml:"port"`
	PatternsDir     string   `toml:"patterns_dir"`
	LogLevel        string   `toml:"log_level"`
	Debug           bool     `toml:"debug"`
	CORSOrigins     []string `toml:"cors_origins"`
	ReadTimeout     string   `toml:"read_timeout"`
	WriteTimeout    string   `toml:"write_timeout"`
	IdleTimeout     string   `toml:"idle_timeout"`
	ShutdownTimeout string   `toml:"shutdown_timeout"`
	Ngrok           struct {
		Enabled   bool   `toml:"enabled"`
		AuthToken string `toml:"auth_token"`
		Domain    string `toml:"domain"`
	} `toml:"ngrok"`
}

// LoadFile overlays the keys present in a TOML file onto Default().
func LoadFile(path string) (Settings, error) {
	return Overlay(Default(), path)
}

// Overlay applies the keys present in a TOML file onto base. Keys missing
// from the file keep their base value.
func Overlay(base Settings, path string) (Settings, error) {
	cfg := base

	var raw fileConfig
	meta, err := toml.DecodeFile(path, &raw)
	if err != nil {
		return Settings{}, fmt.Errorf("load settings: %w", err)
	}

	if meta.IsDefined("host") {
		cfg.Host = strings.TrimSpace(raw.Host)
	}
	if meta.IsDefined("port") {
		cfg.Port = raw.Port
	}
	if meta.IsDefined("patterns_dir") {
		cfg.PatternsDir = strings.TrimSpace(raw.PatternsDir)
	}
	if meta.IsDefined("log_level") {
		cfg.LogLevel = strings.TrimSpace(raw.LogLevel)
	}
	if meta.IsDefined("debug") {
		cfg.Debug = raw.Debug
	}
	if meta.IsDefined("cors_origins") {
		cfg.CORSOrigins = normalizeOrigins(raw.CORSOrigins)
	}

	durations := []struct {
		key    string
		raw    string
		target *time.Duration
	}{
		{"read_timeout", raw.ReadTimeout, &cfg.ReadTimeout},
		{"write_timeout", raw.WriteTimeout, &cfg.WriteTimeout},
		{"idle_timeout", raw.IdleTimeout, &cfg.IdleTimeout},
		{"shutdown_timeout", raw.ShutdownTimeout, &cfg.ShutdownTimeout},
	}
	for _, d := range durations {
		if !meta.IsDefined(d.key) {
			continue
		}
		parsed, err := time.ParseDuration(strings.TrimSpace(d.raw))
		if err != nil {
			return Settings{}, fmt.Errorf("parse %s: %w", d.key, err)
		}
		*d.target = parsed
	}

	if meta.IsDefined("ngrok", "enabled") {
		cfg.Ngrok.Enabled = raw.Ngrok.Enabled
	}
	if meta.IsDefined("ngrok", "auth_token") {
		cfg.Ngrok.AuthToken = strings.TrimSpace(raw.Ngrok.AuthToken)
	}
	if meta.IsDefined("ngrok", "domain") {
		cfg.Ngrok.Domain = strings.TrimSpace(raw.Ngrok.Domain)
	}

	if undecoded := meta.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, 0, len(undecoded))
		for _, k := range undecoded {
			keys = append(keys, k.String())
		}
		return Settings{}, fmt.Errorf("load settings: unknown keys %s", strings.Join(keys, ", "))
	}

	return cfg, nil
}

// Validate checks the settings for values the server cannot start with.
func (s Settings) Validate() error {
	var errs []error

	if strings.TrimSpace(s.Host) == "" {
		errs = append(errs, errors.New("host is required"))
	}
	if s.Port < 1 || s.Port > 65535 {
		errs = append(errs, fmt.Errorf("port must be between 1 and 65535, got %d", s.Port))
	}
	if _, err := observability.ParseLevel(s.LogLevel); err != nil {
		errs = append(errs, err)
	}

	timeouts := map[string]time.Duration{
		"read_timeout":     s.ReadTimeout,
		"write_timeout":    s.WriteTimeout,
		"idle_timeout":     s.IdleTimeout,
		"shutdown_timeout": s.ShutdownTimeout,
	}
	for _, name := range []string{"read_timeout", "write_timeout", "idle_timeout", "shutdown_timeout"} {
		if timeouts[name] <= 0 {
			errs = append(errs, fmt.Errorf("%s must be positive, got %s", name, timeouts[name]))
		}
	}

	return errors.Join(errs...)
}

func normalizeOrigins(in []string) []string {
	out := make([]string, 0, len(in))
	for _, origin := range in {
		v := strings.TrimSpace(origin)
		if v == "" {
			continue
		}
		out = append(out, v)
	}
	return out
}
