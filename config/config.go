// Package config provides YAML configuration for turbulence-distance
// analysis runs. The library packages themselves take explicit parameters;
// this package exists for the command-line pipeline and other batch
// callers.
package config

import (
	"fmt"
	"os"
	"runtime"

	"gopkg.in/yaml.v3"
)

// Analysis holds the parameters of one distance-analysis run.
type Analysis struct {
	// Radial controls the 2-D to 1-D reduction shared by all statistics.
	Radial struct {
		LogSpacing   bool `yaml:"logSpacing"`
		ReturnStddev bool `yaml:"returnStddev"`
	} `yaml:"radial"`

	MVC struct {
		LowCut     float64 `yaml:"lowCut"`
		HighCut    float64 `yaml:"highCut"`
		PixelScale float64 `yaml:"pixelScale"`
	} `yaml:"mvc"`

	SCF struct {
		Size     int  `yaml:"size"`
		Weighted bool `yaml:"weighted"`
		Workers  int  `yaml:"workers"`
	} `yaml:"scf"`

	VCA struct {
		SliceThickness float64 `yaml:"sliceThickness"`
		Break          float64 `yaml:"break"`
	} `yaml:"vca"`
}

// Default returns an analysis configuration with the conventional
// defaults from the literature.
func Default() *Analysis {
	cfg := &Analysis{}
	cfg.Radial.LogSpacing = true
	cfg.MVC.LowCut = 2.0
	cfg.MVC.HighCut = 64.0
	cfg.MVC.PixelScale = 1.0
	cfg.SCF.Size = 11
	cfg.SCF.Weighted = true
	cfg.SCF.Workers = runtime.NumCPU()
	cfg.VCA.SliceThickness = 1.0
	return cfg
}

// Load reads an analysis configuration from a YAML file. Fields absent
// from the file keep their defaults; a missing or unreadable file is an
// error.
func Load(path string) (*Analysis, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: reading %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("config: parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %s: %w", path, err)
	}
	return cfg, nil
}

// Validate rejects parameter combinations the statistics would reject
// later, so a batch run fails before any computation starts.
func (c *Analysis) Validate() error {
	if c.MVC.LowCut >= c.MVC.HighCut {
		return fmt.Errorf("mvc clip window (%g, %g) is empty", c.MVC.LowCut, c.MVC.HighCut)
	}
	if c.MVC.PixelScale <= 0 {
		return fmt.Errorf("mvc pixel scale must be positive: %g", c.MVC.PixelScale)
	}
	if c.SCF.Size < 3 {
		return fmt.Errorf("scf size must be at least 3: %d", c.SCF.Size)
	}
	if c.VCA.SliceThickness < 1 {
		return fmt.Errorf("vca slice thickness must be at least 1: %g", c.VCA.SliceThickness)
	}
	return nil
}

// Save writes the configuration to a YAML file.
func (c *Analysis) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("config: marshaling: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("config: writing %s: %w", path, err)
	}
	return nil
}
