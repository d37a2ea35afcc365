package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberofficial/pyaint/internal/colour"
	"github.com/cyberofficial/pyaint/internal/palette"
)

func TestDefaultConfigDir(t *testing.T) {
	dir := DefaultConfigDir()

	assert.NotEmpty(t, dir)
	assert.Contains(t, dir, ".config/pyaint")
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NotNil(t, cfg)
	assert.True(t, cfg.IgnoreWhite)
	assert.Equal(t, palette.DefaultSize, cfg.Palette.Size)
	assert.Equal(t, "frequency", cfg.Palette.Strategy)
	assert.Equal(t, "clamp", cfg.Palette.Oversize)
	assert.Equal(t, colour.DefaultSampleCap, cfg.KMeans.SampleCap)
	assert.Equal(t, colour.DefaultMaxIterations, cfg.KMeans.MaxIterations)
	assert.NoError(t, cfg.Validate())
}

func TestLoad(t *testing.T) {
	tests := []struct {
		name        string
		file        string
		wantErr     bool
		errContains string
		validate    func(t *testing.T, cfg *Config)
	}{
		{
			name: "valid config",
			file: "testdata/valid.toml",
			validate: func(t *testing.T, cfg *Config) {
				assert.False(t, cfg.IgnoreWhite)
				assert.Equal(t, 32, cfg.Palette.Size)
				assert.Equal(t, "dominant_shades", cfg.Palette.Strategy)
				assert.Equal(t, "reject", cfg.Palette.Oversize)
				assert.Equal(t, int64(99), cfg.KMeans.Seed)
				assert.Equal(t, 10, cfg.KMeans.MaxIterations)
				assert.Equal(t, 50, cfg.KMeans.SampleCap)
				assert.Equal(t, 0.5, cfg.KMeans.Convergence)
				assert.Equal(t, 2, cfg.KMeans.MaxWorkers)
				assert.Equal(t, "testdata/valid.toml", cfg.ConfigPath())
			},
		},
		{
			name: "missing file uses defaults",
			file: "testdata/does-not-exist.toml",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, DefaultConfig().Palette, cfg.Palette)
				assert.True(t, cfg.IgnoreWhite)
			},
		},
		{
			name: "unknown strategy is kept for fallback",
			file: "testdata/unknown_strategy.toml",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "median_cut", cfg.Palette.Strategy)
			},
		},
		{
			name: "strategy is normalised",
			file: "testdata/mixed_case_strategy.toml",
			validate: func(t *testing.T, cfg *Config) {
				assert.Equal(t, "rare_shades", cfg.Palette.Strategy)
				assert.Equal(t, palette.StrategyRareShades, cfg.Options().Strategy)
			},
		},
		{
			name:        "size out of range",
			file:        "testdata/bad_size.toml",
			wantErr:     true,
			errContains: "invalid palette size",
		},
		{
			name:        "bad oversize policy",
			file:        "testdata/bad_oversize.toml",
			wantErr:     true,
			errContains: "invalid oversize policy",
		},
		{
			name:        "malformed toml",
			file:        "testdata/invalid.toml",
			wantErr:     true,
			errContains: "failed to parse config file",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := Load(tt.file)
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errContains)
				return
			}
			require.NoError(t, err)
			tt.validate(t, cfg)
		})
	}
}

func TestOptions(t *testing.T) {
	cfg, err := Load("testdata/valid.toml")
	require.NoError(t, err)

	opts := cfg.Options()
	assert.Equal(t, palette.StrategyDominantShades, opts.Strategy)
	assert.Equal(t, 32, opts.Size)
	assert.Equal(t, palette.OversizeReject, opts.Oversize)
	assert.Equal(t, 10, opts.KMeans.MaxIterations)
	assert.Equal(t, 50, opts.KMeans.SampleCap)
	assert.Equal(t, 2, opts.KMeans.MaxWorkers)
	assert.Equal(t, int64(99), opts.KMeans.Seed)
}

func TestValidateKMeans(t *testing.T) {
	cfg := DefaultConfig()
	cfg.KMeans.MaxWorkers = -1
	assert.Error(t, cfg.Validate())

	cfg = DefaultConfig()
	cfg.KMeans.Convergence = -0.1
	assert.Error(t, cfg.Validate())
}
