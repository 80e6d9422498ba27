// Package config - Configuration for orientation evaluation runs.
package config

import (
	"encoding/json"
	"os"

	"github.com/nvr-ai/go-orientation/orientation"
	"github.com/pkg/errors"
)

// Config is the configuration of an evaluation run. It is loaded from JSON
// and then overridden by command line flags.
type Config struct {
	orientation.Config

	// BatchPath is the JSON batch file to evaluate.
	BatchPath string `json:"batch_path"`
	// ImagesDir holds the frame-N images matching the batch, for debug
	// panels. Empty disables image panels.
	ImagesDir string `json:"images_dir"`
	// OutputDir is where plots are written.
	OutputDir string `json:"output_dir"`
	// Prefix names the plot files of this run.
	Prefix string `json:"prefix"`
	// Histogram enables the theta error histogram.
	Histogram bool `json:"histogram"`
	// MaxCols and MaxRows bound the debug panel grid.
	MaxCols int `json:"max_cols"`
	MaxRows int `json:"max_rows"`
	// LogLevel is one of debug, info, warn, error.
	LogLevel string `json:"log_level"`
}

// DefaultConfig returns the default evaluation configuration.
func DefaultConfig() *Config {
	return &Config{
		Config:    orientation.DefaultConfig(),
		OutputDir: "./orientation_results",
		Prefix:    "eval",
		MaxCols:   4,
		MaxRows:   4,
		LogLevel:  "info",
	}
}

// Validate checks the configuration before a run.
func (c *Config) Validate() error {
	if err := c.Config.Validate(); err != nil {
		return err
	}
	if c.BatchPath == "" {
		return errors.New("batch path is required")
	}
	if c.MaxCols <= 0 || c.MaxRows <= 0 {
		return errors.Errorf("panel grid must be positive, got %dx%d", c.MaxCols, c.MaxRows)
	}
	if (c.Histogram || c.ImagesDir != "") && c.OutputDir == "" {
		return errors.New("output dir is required when plotting")
	}
	return nil
}

// LoadConfig reads a configuration from a JSON file. Fields missing from
// the file keep their default values.
func LoadConfig(filename string) (*Config, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read config file")
	}

	cfg := DefaultConfig()
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, errors.Wrap(err, "failed to unmarshal config")
	}
	return cfg, nil
}

// SaveConfig writes the configuration to a JSON file.
func (c *Config) SaveConfig(filename string) error {
	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to marshal config")
	}

	if err := os.WriteFile(filename, data, 0o644); err != nil {
		return errors.Wrap(err, "failed to write config file")
	}
	return nil
}
