package colour

import (
	"math"

	colorful "github.com/lucasb-eyer/go-colorful"
)

// DefaultHueBins is the minimum number of hue buckets used for grouping.
const DefaultHueBins = 16

// RGBToHSV converts an 8-bit RGB colour to HSV.
// Returns hue in [0, 360), saturation and value in [0, 1].
// Greys (max == min) get hue 0, black gets saturation 0.
func RGBToHSV(c RGB) (h, s, v float64) {
	col := colorful.Color{
		R: float64(c.R) / 255.0,
		G: float64(c.G) / 255.0,
		B: float64(c.B) / 255.0,
	}
	h, s, v = col.Hsv()
	if h >= 360 {
		h -= 360
	}
	return h, s, v
}

// HueBucket returns the index of the angular hue slice c falls into when the
// hue circle is split into numBins equal slices.
// numBins below 1 falls back to DefaultHueBins.
func HueBucket(c RGB, numBins int) int {
	if numBins < 1 {
		numBins = DefaultHueBins
	}
	h, _, _ := RGBToHSV(c)
	width := 360.0 / float64(numBins)
	return int(math.Floor(h/width)) % numBins
}

// HueBins returns the bucket count for a palette of size n: at least
// DefaultHueBins, and at least one bucket per requested colour.
func HueBins(n int) int {
	return max(DefaultHueBins, n)
}
