package colour

import (
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stripedImage returns an NRGBA image with one row per entry in rows.
func stripedImage(width int, rows []color.Color) *image.NRGBA {
	img := image.NewNRGBA(image.Rect(0, 0, width, len(rows)))
	for y, c := range rows {
		for x := 0; x < width; x++ {
			img.Set(x, y, c)
		}
	}
	return img
}

func TestBuildHistogram(t *testing.T) {
	red := color.NRGBA{R: 255, A: 255}
	blue := color.NRGBA{B: 255, A: 255}
	white := color.NRGBA{R: 255, G: 255, B: 255, A: 255}
	img := stripedImage(10, []color.Color{red, white, blue, red, white})

	tests := []struct {
		name        string
		ignoreWhite bool
		wantTotal   int
		wantWhite   int
		wantDistinct int
	}{
		{name: "keep white", ignoreWhite: false, wantTotal: 50, wantWhite: 20, wantDistinct: 3},
		{name: "ignore white", ignoreWhite: true, wantTotal: 30, wantWhite: 0, wantDistinct: 2},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := BuildHistogram(img, tt.ignoreWhite)

			assert.Equal(t, tt.wantTotal, h.Total())
			assert.Equal(t, tt.wantDistinct, h.Distinct())
			assert.Equal(t, tt.wantWhite, h.Count(White))
			assert.Equal(t, 20, h.Count(RGB{R: 255}))
			assert.Equal(t, 10, h.Count(RGB{B: 255}))

			sum := 0
			for _, e := range h.Ranked() {
				sum += e.Count
			}
			assert.Equal(t, h.Total(), sum)
		})
	}
}

func TestBuildHistogramGenericImage(t *testing.T) {
	img := image.NewRGBA(image.Rect(2, 3, 6, 5))
	for y := 3; y < 5; y++ {
		for x := 2; x < 6; x++ {
			img.Set(x, y, color.RGBA{R: 10, G: 20, B: 30, A: 255})
		}
	}

	h := BuildHistogram(img, true)
	assert.Equal(t, 8, h.Total())
	assert.Equal(t, 8, h.Count(RGB{R: 10, G: 20, B: 30}))
}

func TestBuildHistogramNil(t *testing.T) {
	h := BuildHistogram(nil, false)
	assert.Equal(t, 0, h.Total())
	assert.Empty(t, h.Ranked())
}

func TestRankedKeepsFirstSeenOrderForEqualCounts(t *testing.T) {
	a := RGB{R: 1}
	b := RGB{G: 2}
	c := RGB{B: 3}
	d := RGB{R: 4, G: 4}

	h := NewHistogram([]ColourCount{
		{Colour: a, Count: 5},
		{Colour: b, Count: 9},
		{Colour: c, Count: 5},
		{Colour: d, Count: 5},
	})

	ranked := h.Ranked()
	require.Len(t, ranked, 4)
	assert.Equal(t, []ColourCount{
		{Colour: b, Count: 9},
		{Colour: a, Count: 5},
		{Colour: c, Count: 5},
		{Colour: d, Count: 5},
	}, ranked)
}

func TestNewHistogramMergesAndSkips(t *testing.T) {
	a := RGB{R: 1}
	h := NewHistogram([]ColourCount{
		{Colour: a, Count: 2},
		{Colour: RGB{G: 1}, Count: 0},
		{Colour: a, Count: 3},
	})

	assert.Equal(t, 1, h.Distinct())
	assert.Equal(t, 5, h.Count(a))
	assert.Equal(t, 5, h.Total())
}
