package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/cyberofficial/pyaint/internal/image"
	"github.com/cyberofficial/pyaint/internal/palette"
)

func newStatsCmd(global *globalOptions) *cobra.Command {
	var (
		limit       int
		ignoreWhite bool
		cache       bool
	)

	cmd := &cobra.Command{
		Use:   "stats <image>",
		Short: "Show how often each colour occurs in an image",
		Long: `List the colours of an image from most to least frequent with their pixel
counts and share of the image.

Examples:
  # Top 20 colours
  pyaint stats wallpaper.png

  # Every colour, counting white pixels too
  pyaint stats --limit 0 --ignore-white=false wallpaper.png`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := global.logger(cmd.ErrOrStderr())

			cfg, err := global.loadConfig(logger)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("ignore-white") {
				ignoreWhite = cfg.IgnoreWhite
			}

			if err := image.ValidateImagePath(args[0]); err != nil {
				return fmt.Errorf("invalid image path: %w", err)
			}

			gen := palette.New(args[0],
				palette.WithIgnoreWhite(ignoreWhite),
				palette.WithLoader(newLoader(cmd, cache)),
				palette.WithLogger(logger.Named("palette")),
			)

			stats, err := gen.Stats()
			if err != nil {
				return err
			}
			total, err := gen.Total()
			if err != nil {
				return err
			}

			shown := stats
			if limit > 0 && limit < len(stats) {
				shown = stats[:limit]
			}

			table := NewTable("#", "HEX", "RGB", "PIXELS", "SHARE")
			table.AlignRight(0)
			table.AlignRight(3)
			table.AlignRight(4)
			for i, s := range shown {
				table.AddRow(
					strconv.Itoa(i+1),
					s.Colour.Hex(),
					s.Colour.String(),
					strconv.Itoa(s.Count),
					fmt.Sprintf("%.2f%%", s.Percentage),
				)
			}

			out := cmd.OutOrStdout()
			fmt.Fprint(out, table.Render())
			if !global.quiet {
				fmt.Fprintf(out, "\n%d distinct colours, %d pixels considered\n", len(stats), total)
			}
			return nil
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of colours to list (0: all)")
	cmd.Flags().BoolVar(&ignoreWhite, "ignore-white", true, "skip pure white pixels")
	cmd.Flags().BoolVar(&cache, "cache", false, "keep downloaded images in the user cache directory")

	return cmd
}
