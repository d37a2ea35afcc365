// Package colour provides colour types, histogram building, hue bucketing and
// k-means clustering used by the palette engine.
package colour

import (
	"fmt"
	"image/color"
)

// RGB represents a colour in 8-bit RGB format.
// It is a comparable value type and can be used as a map key.
type RGB struct {
	R uint8 `json:"r"`
	G uint8 `json:"g"`
	B uint8 `json:"b"`
}

// White is pure white, the colour skipped by the ignore-white policy.
var White = RGB{R: 255, G: 255, B: 255}

// String returns the RGB colour as a string in the format "rgb(r, g, b)".
func (rgb RGB) String() string {
	return fmt.Sprintf("rgb(%d, %d, %d)", rgb.R, rgb.G, rgb.B)
}

// Hex returns the RGB colour as a hex string (e.g., "#1a2b3c").
func (rgb RGB) Hex() string {
	return fmt.Sprintf("#%02x%02x%02x", rgb.R, rgb.G, rgb.B)
}

// RGBA implements color.Color so an RGB can be handed to image APIs.
func (rgb RGB) RGBA() (r, g, b, a uint32) {
	return color.RGBA{R: rgb.R, G: rgb.G, B: rgb.B, A: 255}.RGBA()
}

// ToRGB converts a color.Color to RGB.
// Alpha is dropped without compositing, the colour channels are taken
// non-premultiplied.
func ToRGB(c color.Color) RGB {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	return RGB{R: n.R, G: n.G, B: n.B}
}

// ColourCount pairs a colour with its pixel count.
type ColourCount struct {
	Colour RGB `json:"colour"`
	Count  int `json:"count"`
}
