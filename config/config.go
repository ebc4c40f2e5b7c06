// Package config holds the lens runtime configuration. Values are loaded
// from a JSON file and may be overridden by command-line flags.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/phanxgames/lens"
)

// Source kinds.
const (
	SourcePattern = "pattern"
	SourceImages  = "images"
)

// Config holds runtime configuration for the render loop and its
// collaborators.
type Config struct {
	Debug bool `json:"debug"`

	// Filter is the key or display name of the initially active filter.
	Filter string `json:"filter"`

	// Frame source.
	Source string   `json:"source"`
	Inputs []string `json:"inputs,omitempty"`
	Width  int      `json:"width"`
	Height int      `json:"height"`
	Hold   int      `json:"hold"`

	// Presentation.
	FPS     int     `json:"fps"`
	Scale   float64 `json:"scale"`
	ShowFPS bool    `json:"show_fps"`

	// Logging.
	LogLevel  string `json:"log_level"`
	LogFormat string `json:"log_format"`
}

// DefaultConfig returns a Config populated with standard defaults.
func DefaultConfig() *Config {
	return &Config{
		Filter:    "identity",
		Source:    SourcePattern,
		Width:     640,
		Height:    480,
		Hold:      30,
		FPS:       60,
		Scale:     1,
		ShowFPS:   true,
		LogLevel:  "info",
		LogFormat: "text",
	}
}

// Validate clamps numeric values to safe ranges and reports settings that
// cannot be repaired: an unknown filter or source, or an image source with
// no inputs.
func (c *Config) Validate() error {
	if c.Width <= 0 {
		c.Width = 640
	}
	if c.Height <= 0 {
		c.Height = 480
	}
	if c.Hold <= 0 {
		c.Hold = 30
	}
	if c.FPS <= 0 || c.FPS > 240 {
		c.FPS = 60
	}
	if c.Scale <= 0 || c.Scale > 8 {
		c.Scale = 1
	}
	c.LogFormat = strings.ToLower(strings.TrimSpace(c.LogFormat))
	if c.LogFormat != "json" {
		c.LogFormat = "text"
	}

	var errs []error
	if _, err := lens.ParseFilterID(c.Filter); err != nil {
		errs = append(errs, err)
	}
	switch c.Source {
	case SourcePattern:
	case SourceImages:
		if len(c.Inputs) == 0 {
			errs = append(errs, fmt.Errorf("config: source %q needs at least one input", c.Source))
		}
	default:
		errs = append(errs, fmt.Errorf("config: unknown source %q", c.Source))
	}
	if _, err := c.Level(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

// FilterID returns the configured initial filter.
func (c *Config) FilterID() (lens.FilterID, error) {
	return lens.ParseFilterID(c.Filter)
}

// Level parses LogLevel.
func (c *Config) Level() (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(c.LogLevel)); err != nil {
		return slog.LevelInfo, fmt.Errorf("config: log level %q: %w", c.LogLevel, err)
	}
	return l, nil
}

// NewLogger returns a structured logger writing to w at the configured level
// and format.
func (c *Config) NewLogger(w io.Writer) *slog.Logger {
	level, _ := c.Level()
	opts := &slog.HandlerOptions{Level: level}
	if c.LogFormat == "json" {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// Load reads configuration from the given JSON file path. If the file does
// not exist it returns DefaultConfig(). On a decode error it returns defaults
// with the error.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return cfg, err
	}
	defer f.Close()
	dec := json.NewDecoder(f)
	if err := dec.Decode(cfg); err != nil {
		return DefaultConfig(), fmt.Errorf("config: decode %s: %w", path, err)
	}
	return cfg, nil
}

// Save writes the configuration to the given path in JSON format.
func (c *Config) Save(path string) error {
	_ = c.Validate()
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(c)
}
