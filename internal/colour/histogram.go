package colour

import (
	"image"
	"sort"
)

// Histogram holds exact per-colour pixel counts for one image.
// It is built once and never modified afterwards.
type Histogram struct {
	counts map[RGB]int
	order  []RGB // first-seen scan order
	total  int
}

// BuildHistogram scans every pixel of img exactly once, row by row.
// When ignoreWhite is set, pure white pixels are left out of both the
// counts and the total.
func BuildHistogram(img image.Image, ignoreWhite bool) *Histogram {
	h := &Histogram{counts: make(map[RGB]int)}
	if img == nil {
		return h
	}

	bounds := img.Bounds()

	// Fast path for the common decoded formats.
	if nrgba, ok := img.(*image.NRGBA); ok {
		for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
			off := nrgba.PixOffset(bounds.Min.X, y)
			for x := bounds.Min.X; x < bounds.Max.X; x++ {
				p := nrgba.Pix[off : off+4 : off+4]
				h.add(RGB{R: p[0], G: p[1], B: p[2]}, ignoreWhite)
				off += 4
			}
		}
		return h
	}

	for y := bounds.Min.Y; y < bounds.Max.Y; y++ {
		for x := bounds.Min.X; x < bounds.Max.X; x++ {
			h.add(ToRGB(img.At(x, y)), ignoreWhite)
		}
	}
	return h
}

// NewHistogram builds a histogram from explicit entries, in the given
// order. Entries with a non-positive count are ignored and repeated colours
// are merged.
func NewHistogram(entries []ColourCount) *Histogram {
	h := &Histogram{counts: make(map[RGB]int, len(entries))}
	for _, e := range entries {
		if e.Count <= 0 {
			continue
		}
		if _, seen := h.counts[e.Colour]; !seen {
			h.order = append(h.order, e.Colour)
		}
		h.counts[e.Colour] += e.Count
		h.total += e.Count
	}
	return h
}

func (h *Histogram) add(c RGB, ignoreWhite bool) {
	if ignoreWhite && c == White {
		return
	}
	if _, seen := h.counts[c]; !seen {
		h.order = append(h.order, c)
	}
	h.counts[c]++
	h.total++
}

// Total returns the number of pixels considered.
func (h *Histogram) Total() int {
	return h.total
}

// Distinct returns the number of distinct colours.
func (h *Histogram) Distinct() int {
	return len(h.order)
}

// Count returns the pixel count for c.
func (h *Histogram) Count(c RGB) int {
	return h.counts[c]
}

// Ranked returns every colour ordered by count, highest first.
// Colours with equal counts keep the order in which they were first seen.
func (h *Histogram) Ranked() []ColourCount {
	ranked := make([]ColourCount, len(h.order))
	for i, c := range h.order {
		ranked[i] = ColourCount{Colour: c, Count: h.counts[c]}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Count > ranked[j].Count
	})
	return ranked
}
