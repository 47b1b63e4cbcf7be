// Package config loads the YAML settings file for the vart command.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// DefaultFile is looked up in the user's home directory when no path is
// given.
const DefaultFile = ".vart.yaml"

// Config holds the CLI settings.
type Config struct {
	// AllocLimit caps live engine bytes; 0 means unlimited.
	AllocLimit int64  `yaml:"alloc_limit"`
	History    string `yaml:"history"`
	Prompt     string `yaml:"prompt"`
	LogLevel   string `yaml:"log_level"`
}

// Default returns the settings used when no file is present.
func Default() Config {
	history := ".vart_history"
	if home, err := os.UserHomeDir(); err == nil {
		history = filepath.Join(home, history)
	}
	return Config{
		History:  history,
		Prompt:   "vart> ",
		LogLevel: "info",
	}
}

// Load reads path over the defaults. An empty path falls back to
// DefaultFile in the home directory, and a missing default file is not an
// error. An explicit path must exist.
func Load(path string) (Config, error) {
	cfg := Default()
	explicit := path != ""
	if !explicit {
		home, err := os.UserHomeDir()
		if err != nil {
			return cfg, nil
		}
		path = filepath.Join(home, DefaultFile)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if !explicit && errors.Is(err, fs.ErrNotExist) {
			return cfg, nil
		}
		return cfg, fmt.Errorf("reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks field ranges.
func (c Config) Validate() error {
	if c.AllocLimit < 0 {
		return fmt.Errorf("alloc_limit must not be negative, got %d", c.AllocLimit)
	}
	if _, err := c.Level(); err != nil {
		return err
	}
	return nil
}

// Level maps LogLevel to a slog level.
func (c Config) Level() (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log_level %q", c.LogLevel)
}
