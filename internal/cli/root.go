// Package cli provides the command-line interface for pyaint.
package cli

import (
	"fmt"
	"io"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/cyberofficial/pyaint/internal/config"
	"github.com/cyberofficial/pyaint/internal/version"
)

// globalOptions holds the persistent flags shared by every command.
type globalOptions struct {
	verbose    bool
	quiet      bool
	configPath string
}

// NewRootCmd builds the pyaint command tree.
func NewRootCmd() *cobra.Command {
	opts := &globalOptions{}

	rootCmd := &cobra.Command{
		Use:   "pyaint",
		Short: "Extract colour palettes from images",
		Long: `pyaint analyses an image and reduces it to a small palette of colours.

Palettes are chosen by pixel frequency, by the most or least common shade of
each hue, or by K-Means++ clustering, and can be exported as a CSS stylesheet
for painting tools.`,
		Version:      version.Short(),
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "enable verbose output")
	rootCmd.PersistentFlags().BoolVarP(&opts.quiet, "quiet", "q", false, "suppress non-error output")
	rootCmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default: ~/.config/pyaint/config.toml)")

	rootCmd.SetVersionTemplate(version.String() + "\n")

	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newPaletteCmd(opts))
	rootCmd.AddCommand(newStatsCmd(opts))

	return rootCmd
}

// logger returns a logger writing to w at the level selected by --verbose
// and --quiet.
func (o *globalOptions) logger(w io.Writer) hclog.Logger {
	level := hclog.Warn
	switch {
	case o.quiet:
		level = hclog.Off
	case o.verbose:
		level = hclog.Debug
	}

	return hclog.New(&hclog.LoggerOptions{
		Name:   "pyaint",
		Output: w,
		Level:  level,
	})
}

func (o *globalOptions) loadConfig(logger hclog.Logger) (*config.Config, error) {
	cfg, err := config.Load(o.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	logger.Debug("configuration loaded", "path", cfg.ConfigPath())
	return cfg, nil
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Long:  `Print detailed version information including build date, commit hash, and Go version.`,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintln(cmd.OutOrStdout(), version.String())
		},
	}
}
