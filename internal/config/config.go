package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
)

// Config holds the server settings read from the environment.
type Config struct {
	Addr            string        `env:"PEGJUMP_ADDR" envDefault:":8080"`
	LogLevel        string        `env:"PEGJUMP_LOG_LEVEL" envDefault:"info"`
	LogDev          bool          `env:"PEGJUMP_LOG_DEV" envDefault:"false"`
	ReplayDelay     time.Duration `env:"PEGJUMP_REPLAY_DELAY" envDefault:"500ms"`
	ScriptPath      string        `env:"PEGJUMP_SCRIPT_PATH"`
	DefaultLocale   string        `env:"PEGJUMP_DEFAULT_LOCALE" envDefault:"en"`
	Heartbeat       time.Duration `env:"PEGJUMP_HEARTBEAT" envDefault:"15s"`
	AllowedOrigins  []string      `env:"PEGJUMP_ALLOWED_ORIGINS" envSeparator:","`
	ShutdownTimeout time.Duration `env:"PEGJUMP_SHUTDOWN_TIMEOUT" envDefault:"5s"`
}

// Load reads Config from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := ParseEnv(&cfg); err != nil {
		return Config{}, err
	}
	if cfg.ReplayDelay < 0 {
		return Config{}, fmt.Errorf("PEGJUMP_REPLAY_DELAY must not be negative, got %s", cfg.ReplayDelay)
	}
	if cfg.Heartbeat <= 0 {
		return Config{}, fmt.Errorf("PEGJUMP_HEARTBEAT must be positive, got %s", cfg.Heartbeat)
	}
	for i, o := range cfg.AllowedOrigins {
		cfg.AllowedOrigins[i] = strings.TrimSpace(o)
	}
	return cfg, nil
}

// ParseEnv loads configuration from environment variables.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// Exitf writes a formatted error message to stderr and exits with code 1.
func Exitf(format string, args ...any) {
	fmt.Fprintf(os.Stderr, format+"\n", args...)
	os.Exit(1)
}
