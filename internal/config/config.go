// Package config loads the processing and reporting settings for
// positive-area from YAML, falling back to built-in defaults.
package config

import (
	"fmt"
	"math"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	SmoothingNative = "native"
	SmoothingOpenCV = "opencv"

	ReaderImage  = "image"
	ReaderOpenCV = "opencv"
)

// Config represents the application configuration loaded from YAML
type Config struct {
	Processing struct {
		// PyramidLevel is the resolution level all channels are analysed at
		PyramidLevel int `yaml:"pyramidLevel"`

		// BasePixelSize is the edge length of a level-0 pixel in µm
		BasePixelSize float64 `yaml:"basePixelSize"`

		// GaussianSigma is the smoothing radius in working-level pixels
		GaussianSigma float64 `yaml:"gaussianSigma"`

		// GaussianTruncate cuts the kernel off at this many sigmas
		GaussianTruncate float64 `yaml:"gaussianTruncate"`

		// Smoothing selects the blur backend: native or opencv
		Smoothing string `yaml:"smoothing"`

		// Reader selects the image pyramid backend: image or opencv
		Reader string `yaml:"reader"`
	} `yaml:"processing"`

	Output struct {
		// Suffix is appended to the input stem to name processed workbooks
		Suffix string `yaml:"suffix"`

		// Directory is the default output directory
		Directory string `yaml:"directory"`
	} `yaml:"output"`

	Report struct {
		// Prefix names the summary workbook: <prefix>-<timestamp>.xlsx
		Prefix string `yaml:"prefix"`

		SummaryMaxWidth float64 `yaml:"summaryMaxWidth"`
		SheetMaxWidth   float64 `yaml:"sheetMaxWidth"`
	} `yaml:"report"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	cfg := &Config{}

	cfg.Processing.PyramidLevel = 2
	cfg.Processing.BasePixelSize = 0.325
	cfg.Processing.GaussianSigma = 1.0
	cfg.Processing.GaussianTruncate = 4.0
	cfg.Processing.Smoothing = SmoothingNative
	cfg.Processing.Reader = ReaderImage

	cfg.Output.Suffix = "_processed"
	cfg.Output.Directory = "results"

	cfg.Report.Prefix = "Summary"
	cfg.Report.SummaryMaxWidth = 50
	cfg.Report.SheetMaxWidth = 30

	return cfg
}

// PixelSize is the physical edge length of one pixel at the working level.
func (c *Config) PixelSize() float64 {
	return c.Processing.BasePixelSize * math.Pow(2, float64(c.Processing.PyramidLevel))
}

// Validate reports the first setting that cannot be used.
func (c *Config) Validate() error {
	p := c.Processing
	if p.PyramidLevel < 0 {
		return fmt.Errorf("pyramidLevel must be >= 0, got %d", p.PyramidLevel)
	}
	if !(p.BasePixelSize > 0) {
		return fmt.Errorf("basePixelSize must be positive, got %v", p.BasePixelSize)
	}
	if p.GaussianSigma < 0 {
		return fmt.Errorf("gaussianSigma must be >= 0, got %v", p.GaussianSigma)
	}
	if !(p.GaussianTruncate > 0) {
		return fmt.Errorf("gaussianTruncate must be positive, got %v", p.GaussianTruncate)
	}
	switch p.Smoothing {
	case SmoothingNative, SmoothingOpenCV:
	default:
		return fmt.Errorf("unknown smoothing backend %q", p.Smoothing)
	}
	if p.Reader == "" {
		return fmt.Errorf("reader must be set")
	}
	if c.Output.Suffix == "" {
		return fmt.Errorf("output suffix must not be empty")
	}
	if c.Report.SummaryMaxWidth <= 0 || c.Report.SheetMaxWidth <= 0 {
		return fmt.Errorf("report column widths must be positive")
	}
	return nil
}

// LoadConfig loads configuration from a YAML file
// If the file doesn't exist, it returns the default configuration
func LoadConfig(configPath string) (*Config, error) {
	cfg := DefaultConfig()
	if configPath == "" {
		return cfg, nil
	}

	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("error reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("error parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", configPath, err)
	}

	return cfg, nil
}

// SaveConfig saves the configuration to a YAML file
func SaveConfig(cfg *Config, configPath string) error {
	dir := filepath.Dir(configPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("error creating config directory: %w", err)
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("error marshaling config: %w", err)
	}

	if err := os.WriteFile(configPath, data, 0644); err != nil {
		return fmt.Errorf("error writing config file: %w", err)
	}

	return nil
}
