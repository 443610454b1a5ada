// Package config holds the YAML configuration for the glimpse CLI.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultFPS    = 10.0
	DefaultPoints = 4
	DefaultWidth  = 640
	DefaultHeight = 480
)

type Config struct {
	FPS    float64      `yaml:"fps"`
	Loop   bool         `yaml:"loop"`
	Points int          `yaml:"points"`
	Output string       `yaml:"output"`
	Window WindowConfig `yaml:"window"`
}

type WindowConfig struct {
	Title   string `yaml:"title"`
	Width   int    `yaml:"width"`
	Height  int    `yaml:"height"`
	ShowFPS bool   `yaml:"show_fps"`
}

func DefaultConfig() *Config {
	return &Config{
		FPS:    DefaultFPS,
		Loop:   true,
		Points: DefaultPoints,
		Window: WindowConfig{
			Title:  "glimpse",
			Width:  DefaultWidth,
			Height: DefaultHeight,
		},
	}
}

// Load reads a YAML config file over the defaults, so missing keys keep
// their default values.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Validate reports the first nonsensical setting, if any.
func (c *Config) Validate() error {
	if c.FPS <= 0 {
		return fmt.Errorf("fps must be positive, got %v", c.FPS)
	}
	if c.Points <= 0 {
		return fmt.Errorf("points must be positive, got %d", c.Points)
	}
	if c.Window.Width <= 0 || c.Window.Height <= 0 {
		return fmt.Errorf("window size must be positive, got %dx%d", c.Window.Width, c.Window.Height)
	}
	return nil
}
