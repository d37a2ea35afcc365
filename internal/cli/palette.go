package cli

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/term"

	"github.com/cyberofficial/pyaint/internal/colour"
	"github.com/cyberofficial/pyaint/internal/config"
	"github.com/cyberofficial/pyaint/internal/image"
	"github.com/cyberofficial/pyaint/internal/palette"
	"github.com/cyberofficial/pyaint/internal/util/imagecache"
)

type paletteFlags struct {
	size        int
	strategy    string
	format      string
	output      string
	preview     bool
	ties        bool
	seed        int64
	ignoreWhite bool
	progress    bool
	cache       bool
}

func newPaletteCmd(global *globalOptions) *cobra.Command {
	flags := &paletteFlags{}

	cmd := &cobra.Command{
		Use:   "palette <image>",
		Short: "Extract a colour palette from an image",
		Long: `Extract a palette of up to 256 colours from an image file or HTTP(S) URL.

Strategies:
  frequency        the most common colours
  dominant_shades  the most common shade of each hue, round robin
  rare_shades      the least common shade of each hue, round robin
  kmeans           K-Means++ cluster centres weighted by pixel count

Supported image formats: JPEG, PNG, GIF, WebP, BMP, TIFF, optionally
compressed with xz, gzip or bzip2.

Examples:
  # 16 most frequent colours
  pyaint palette wallpaper.png

  # 8 clustered colours with terminal swatches
  pyaint palette -s kmeans -n 8 --preview wallpaper.jpg

  # Export the dominant shade of each hue as CSS
  pyaint palette -s dominant_shades -o palette.css wallpaper.png

  # Report colours tied at the palette boundary
  pyaint palette --ties -n 12 wallpaper.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPalette(cmd, global, flags, args[0])
		},
	}

	cmd.Flags().IntVarP(&flags.size, "size", "n", palette.DefaultSize, fmt.Sprintf("number of colours to select (1-%d)", palette.MaxSize))
	cmd.Flags().StringVarP(&flags.strategy, "strategy", "s", string(palette.StrategyFrequency), "selection strategy (frequency, dominant_shades, rare_shades, kmeans)")
	cmd.Flags().StringVarP(&flags.format, "format", "f", "hex", "output format (hex, rgb, json, css)")
	cmd.Flags().StringVarP(&flags.output, "output", "o", "", "export the palette as CSS to this file")
	cmd.Flags().BoolVar(&flags.preview, "preview", false, "show colour swatches in the terminal")
	cmd.Flags().BoolVar(&flags.ties, "ties", false, "report colours tied at the palette boundary")
	cmd.Flags().Int64Var(&flags.seed, "seed", 0, "random seed for kmeans (0: time based)")
	cmd.Flags().BoolVar(&flags.ignoreWhite, "ignore-white", true, "skip pure white pixels")
	cmd.Flags().BoolVar(&flags.progress, "progress", false, "show kmeans progress on stderr")
	cmd.Flags().BoolVar(&flags.cache, "cache", false, "keep downloaded images in the user cache directory")

	return cmd
}

func runPalette(cmd *cobra.Command, global *globalOptions, flags *paletteFlags, imagePath string) error {
	stderr := cmd.ErrOrStderr()
	logger := global.logger(stderr)

	cfg, err := global.loadConfig(logger)
	if err != nil {
		return err
	}

	if err := image.ValidateImagePath(imagePath); err != nil {
		return fmt.Errorf("invalid image path: %w", err)
	}

	opts, ignoreWhite := paletteOptions(cmd.Flags(), cfg, flags)
	if flags.progress && opts.Strategy == palette.StrategyKMeans && !global.quiet {
		opts.KMeans.Progress = newProgressPrinter(stderr)
	}

	gen := palette.New(imagePath,
		palette.WithIgnoreWhite(ignoreWhite),
		palette.WithLoader(newLoader(cmd, flags.cache)),
		palette.WithLogger(logger.Named("palette")),
	)

	res, err := gen.Palette(opts)
	if err != nil {
		return err
	}

	logSummary(logger, res)

	if flags.ties {
		ties, err := gen.FindTies(opts)
		if err != nil {
			return err
		}
		writeTies(stderr, ties)
	}

	out := cmd.OutOrStdout()
	if err := writePalette(out, res, flags.format, flags.preview && colourEnabled(out)); err != nil {
		return err
	}

	if flags.output != "" {
		if err := palette.ExportCSS(flags.output, res.Colours); err != nil {
			return err
		}
		if !global.quiet {
			fmt.Fprintf(stderr, "Exported %d colours to %s\n", res.Len(), flags.output)
		}
	}

	return nil
}

// paletteOptions starts from the config file and applies the flags set on
// the command line.
func paletteOptions(fs *pflag.FlagSet, cfg *config.Config, flags *paletteFlags) (palette.Options, bool) {
	opts := cfg.Options()
	ignoreWhite := cfg.IgnoreWhite

	fs.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "size":
			opts.Size = flags.size
		case "strategy":
			opts.Strategy = palette.NormalizeStrategy(flags.strategy)
		case "seed":
			opts.KMeans.Seed = flags.seed
		case "ignore-white":
			ignoreWhite = flags.ignoreWhite
		}
	})

	return opts, ignoreWhite
}

func logSummary(logger hclog.Logger, res *palette.Result) {
	s := palette.Summarise(res)
	logger.Info("palette selected",
		"strategy", res.Strategy,
		"colours", s.Selected,
		"pixels", s.TotalPixels,
		"average", fmt.Sprintf("%.1f", s.Average))
	if s.Selected > 0 {
		logger.Debug("palette extremes",
			"most_frequent", s.MostFrequent.Colour.Hex(), "most_count", s.MostFrequent.Count,
			"least_frequent", s.LeastFrequent.Colour.Hex(), "least_count", s.LeastFrequent.Count)
	}
}

func writePalette(w io.Writer, res *palette.Result, format string, preview bool) error {
	switch format {
	case "hex":
		for i, c := range res.Colours {
			if preview {
				fmt.Fprintf(w, "%s  %d\n", colour.FormatColourWithPreview(c, 8), res.Counts[i])
			} else {
				fmt.Fprintln(w, c.Hex())
			}
		}
	case "rgb":
		for i, c := range res.Colours {
			if preview {
				fmt.Fprintf(w, "%s  %s  %d\n", colour.ColourPreview(c, 8), c, res.Counts[i])
			} else {
				fmt.Fprintln(w, c)
			}
		}
	case "json":
		data, err := res.ToJSON()
		if err != nil {
			return fmt.Errorf("failed to convert to JSON: %w", err)
		}
		fmt.Fprintln(w, string(data))
	case "css":
		return palette.WriteCSS(w, res.Colours)
	default:
		return fmt.Errorf("unsupported format: %s (supported: hex, rgb, json, css)", format)
	}
	return nil
}

func writeTies(w io.Writer, ties []palette.TieGroup) {
	for _, t := range ties {
		hexes := make([]string, len(t.Colours))
		for i, c := range t.Colours {
			hexes[i] = c.Hex()
		}
		fmt.Fprintf(w, "Tie from position %d: %d colours with %d pixels each: %s\n",
			t.Index, len(t.Colours), t.Count, strings.Join(hexes, ", "))
	}
}

func newLoader(cmd *cobra.Command, cache bool) image.Loader {
	loader := image.NewSmartLoader(cmd.Context())
	if cache {
		loader.WithCache(imagecache.Options{})
	}
	return loader
}

// colourEnabled reports whether w is a terminal that renders ANSI colour.
func colourEnabled(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && colour.SupportsANSIColours(f)
}

// newProgressPrinter redraws a single status line on terminals and prints
// one line per update elsewhere.
func newProgressPrinter(w io.Writer) colour.ProgressReporter {
	f, ok := w.(*os.File)
	interactive := ok && term.IsTerminal(int(f.Fd()))

	return colour.ProgressFunc(func(percent int) {
		if !interactive {
			fmt.Fprintf(w, "clustering: %d%%\n", percent)
			return
		}
		fmt.Fprintf(w, "\rclustering: %3d%%", percent)
		if percent >= 100 {
			fmt.Fprintln(w)
		}
	})
}
