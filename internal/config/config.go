// Package config loads pyaint's TOML configuration.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/cyberofficial/pyaint/internal/colour"
	"github.com/cyberofficial/pyaint/internal/palette"
)

type PaletteConfig struct {
	Size     int    `toml:"size"`
	Strategy string `toml:"strategy"`
	Oversize string `toml:"oversize"`
}

type KMeansConfig struct {
	Seed          int64   `toml:"seed"`
	MaxIterations int     `toml:"max_iterations"`
	SampleCap     int     `toml:"sample_cap"`
	Convergence   float64 `toml:"convergence"`
	MaxWorkers    int     `toml:"max_workers"`
}

type Config struct {
	IgnoreWhite bool          `toml:"ignore_white"`
	Palette     PaletteConfig `toml:"palette"`
	KMeans      KMeansConfig  `toml:"kmeans"`

	configPath string
}

func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "pyaint")
}

func DefaultConfig() *Config {
	return &Config{
		IgnoreWhite: true,
		Palette: PaletteConfig{
			Size:     palette.DefaultSize,
			Strategy: string(palette.StrategyFrequency),
			Oversize: string(palette.OversizeClamp),
		},
		KMeans: KMeansConfig{
			MaxIterations: colour.DefaultMaxIterations,
			SampleCap:     colour.DefaultSampleCap,
			Convergence:   colour.DefaultConvergence,
			MaxWorkers:    colour.DefaultMaxWorkers,
		},
	}
}

// Load reads the config at path, or the default location when path is
// empty. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	if path == "" {
		path = filepath.Join(DefaultConfigDir(), "config.toml")
	}

	path = expandPath(path)

	cfg := DefaultConfig()
	cfg.configPath = path

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.postProcess()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) postProcess() {
	c.Palette.Strategy = string(palette.NormalizeStrategy(c.Palette.Strategy))
	c.Palette.Oversize = strings.ToLower(strings.TrimSpace(c.Palette.Oversize))
	if c.Palette.Oversize == "" {
		c.Palette.Oversize = string(palette.OversizeClamp)
	}
}

func (c *Config) Validate() error {
	if c.Palette.Size < 1 || c.Palette.Size > palette.MaxSize {
		return fmt.Errorf("invalid palette size: %d (must be 1-%d)", c.Palette.Size, palette.MaxSize)
	}

	// Unknown strategies are not rejected here: selection falls back to
	// frequency and logs a warning.

	switch palette.OversizePolicy(c.Palette.Oversize) {
	case palette.OversizeClamp, palette.OversizeReject:
	default:
		return fmt.Errorf("invalid oversize policy: %s (must be clamp or reject)", c.Palette.Oversize)
	}

	if c.KMeans.MaxIterations < 0 {
		return fmt.Errorf("invalid kmeans max_iterations: %d", c.KMeans.MaxIterations)
	}
	if c.KMeans.SampleCap < 0 {
		return fmt.Errorf("invalid kmeans sample_cap: %d", c.KMeans.SampleCap)
	}
	if c.KMeans.Convergence < 0 {
		return fmt.Errorf("invalid kmeans convergence: %g", c.KMeans.Convergence)
	}
	if c.KMeans.MaxWorkers < 0 {
		return fmt.Errorf("invalid kmeans max_workers: %d", c.KMeans.MaxWorkers)
	}

	return nil
}

// Options converts the palette settings into selection options. An unknown
// strategy name is passed through; the generator falls back to frequency.
func (c *Config) Options() palette.Options {
	return palette.Options{
		Strategy: palette.Strategy(c.Palette.Strategy),
		Size:     c.Palette.Size,
		Oversize: palette.OversizePolicy(c.Palette.Oversize),
		KMeans: colour.KMeansConfig{
			MaxIterations: c.KMeans.MaxIterations,
			SampleCap:     c.KMeans.SampleCap,
			Convergence:   c.KMeans.Convergence,
			MaxWorkers:    c.KMeans.MaxWorkers,
			Seed:          c.KMeans.Seed,
		},
	}
}

func (c *Config) ConfigPath() string {
	return c.configPath
}

func expandPath(path string) string {
	if path == "" {
		return ""
	}
	if strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return path
		}
		return filepath.Join(home, path[2:])
	}
	return path
}
