// pyaint extracts colour palettes from images.
//
// Palettes are selected by frequency, per-hue shade ranking or K-Means++
// clustering and can be exported as CSS for painting tools.
package main

import (
	"os"

	"github.com/cyberofficial/pyaint/internal/cli"
)

func main() {
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
