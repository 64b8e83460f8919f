// Package config loads the emitd configuration file.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
	"github.com/rs/zerolog"
)

// Config is the emitd configuration file schema.
type Config struct {
	Listen   string  `toml:"listen"`
	Data     string  `toml:"data"`      // JSON document served at /data.
	LogLevel string  `toml:"log_level"` // zerolog level name.
	Console  bool    `toml:"console"`   // human readable logs instead of JSON.
	Reload   bool    `toml:"reload"`    // reload pages when the server restarts.
	Metrics  Metrics `toml:"metrics"`
	Source   string  `toml:"-"`
}

// Metrics configures the prometheus endpoint.
type Metrics struct {
	Enabled   bool   `toml:"enabled"`
	Path      string `toml:"path"`
	Namespace string `toml:"namespace"`
}

func Default() Config {
	return Config{
		Listen:   `127.0.0.1:8080`,
		LogLevel: `info`,
		Console:  true,
		Reload:   true,
		Metrics:  Metrics{Enabled: true, Path: `/metrics`, Namespace: `emit`},
	}
}

// Load reads the configuration at path over the defaults.  An empty path or a missing file leaves the defaults in
// place.  EMIT_LISTEN and EMIT_LOG_LEVEL override the file either way.
func Load(path string) (Config, error) {
	cfg := Default()
	cfg.Source = path
	if path != `` {
		content, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := toml.Unmarshal(content, &cfg); err != nil {
				return cfg, fmt.Errorf(`%v: %w`, path, err)
			}
		}
	}
	if env := strings.TrimSpace(os.Getenv(`EMIT_LISTEN`)); env != `` {
		cfg.Listen = env
	}
	if env := strings.TrimSpace(os.Getenv(`EMIT_LOG_LEVEL`)); env != `` {
		cfg.LogLevel = env
	}
	return cfg, cfg.Validate()
}

// Validate checks the fields that are not free-form.
func (cfg Config) Validate() error {
	if _, err := zerolog.ParseLevel(cfg.LogLevel); err != nil {
		return fmt.Errorf(`log_level: %w`, err)
	}
	if cfg.Metrics.Enabled && !strings.HasPrefix(cfg.Metrics.Path, `/`) {
		return fmt.Errorf(`metrics.path %q must start with /`, cfg.Metrics.Path)
	}
	return nil
}

// Level returns the configured log level, which Validate has already checked.
func (cfg Config) Level() zerolog.Level {
	level, _ := zerolog.ParseLevel(cfg.LogLevel)
	return level
}
