// Package config loads optional batch configuration from a JSON file.
// Fields are pointers so a partial file only overrides what it names;
// everything else keeps its flag default.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
)

// BatchConfig mirrors the cmd/pathbench flag set. All fields are
// optional; nil means "not specified".
type BatchConfig struct {
	Points   *int      `json:"points,omitempty"`
	Paths    *int      `json:"paths,omitempty"`
	Levels   []float64 `json:"levels,omitempty"`
	GPKGPath *string   `json:"gpkg,omitempty"`
	Report   *string   `json:"report,omitempty"`
	CSVDir   *string   `json:"csv_dir,omitempty"`
	Noise    *string   `json:"noise,omitempty"`
	Seed     *uint64   `json:"seed,omitempty"`
	Workers  *int      `json:"workers,omitempty"`
	Replace  *bool     `json:"replace,omitempty"`
}

const maxFileSize = 1 << 20

// Load reads a BatchConfig from a JSON file. The path must carry a
// .json extension and the file must be under 1MB. Omitted fields stay
// nil, so partial configs are safe.
func Load(path string) (*BatchConfig, error) {
	cleanPath := filepath.Clean(path)
	if ext := filepath.Ext(cleanPath); ext != ".json" {
		return nil, fmt.Errorf("config file must have .json extension, got %q", ext)
	}

	fi, err := os.Stat(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("stat config file: %w", err)
	}
	if fi.Size() > maxFileSize {
		return nil, fmt.Errorf("config file too large: %d bytes (max %d)", fi.Size(), maxFileSize)
	}

	data, err := os.ReadFile(cleanPath)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}

	cfg := &BatchConfig{}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parse config JSON: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

// Validate rejects values no batch run could use.
func (c *BatchConfig) Validate() error {
	if c.Points != nil && *c.Points <= 0 {
		return fmt.Errorf("points must be > 0, got %d", *c.Points)
	}
	if c.Paths != nil && *c.Paths <= 0 {
		return fmt.Errorf("paths must be > 0, got %d", *c.Paths)
	}
	for _, level := range c.Levels {
		if level <= 0 {
			return fmt.Errorf("levels must be > 0, got %v", level)
		}
	}
	if c.Workers != nil && *c.Workers < 1 {
		return fmt.Errorf("workers must be >= 1, got %d", *c.Workers)
	}
	return nil
}
