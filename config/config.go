// Package config loads the host configuration file.
package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// ErrInvalid is returned when a loaded file holds unusable values.
var ErrInvalid = errors.New("config: invalid")

// Config is the host configuration. Zero fields in a file keep their defaults.
type Config struct {
	// Listen is the address of the remote pointer server. Empty disables it.
	Listen   string       `yaml:"listen"`
	Seed     uint64       `yaml:"seed"`
	TPS      int          `yaml:"tps"`
	LogLevel string       `yaml:"log_level"`
	LogJSON  bool         `yaml:"log_json"`
	Window   WindowConfig `yaml:"window"`
	Debug    DebugConfig  `yaml:"debug"`
}

type WindowConfig struct {
	Width  int    `yaml:"width"`
	Height int    `yaml:"height"`
	Title  string `yaml:"title"`
}

// DebugConfig is reloaded while the game runs.
type DebugConfig struct {
	Physics bool `yaml:"physics"`
	HUD     bool `yaml:"hud"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Listen:   ":8080",
		Seed:     19,
		TPS:      60,
		LogLevel: "info",
		Window: WindowConfig{
			Width:  1280,
			Height: 720,
			Title:  "grabbox",
		},
	}
}

// Load reads path over the defaults. An empty path returns the defaults.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("config: load %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("config: unmarshal %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the values a host cannot run without.
func (c Config) Validate() error {
	if c.TPS <= 0 {
		return fmt.Errorf("%w: tps must be positive, got %d", ErrInvalid, c.TPS)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("%w: window size %dx%d", ErrInvalid, c.Window.Width, c.Window.Height)
	}
	return nil
}
