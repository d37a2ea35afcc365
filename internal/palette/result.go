package palette

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cyberofficial/pyaint/internal/colour"
)

// Result is a selected palette: colours in output order, their pixel counts
// and an index to count map.
type Result struct {
	Strategy     Strategy
	Colours      []colour.RGB
	Counts       []int
	CountByIndex map[int]int
}

func newResult(strategy Strategy, entries []colour.ColourCount) *Result {
	res := &Result{
		Strategy:     strategy,
		Colours:      make([]colour.RGB, len(entries)),
		Counts:       make([]int, len(entries)),
		CountByIndex: make(map[int]int, len(entries)),
	}
	for i, e := range entries {
		res.Colours[i] = e.Colour
		res.Counts[i] = e.Count
		res.CountByIndex[i] = e.Count
	}
	return res
}

// Len returns the number of colours in the palette.
func (r *Result) Len() int {
	return len(r.Colours)
}

// ToHex converts the palette colours to hex strings.
func (r *Result) ToHex() []string {
	hexColours := make([]string, len(r.Colours))
	for i, c := range r.Colours {
		hexColours[i] = c.Hex()
	}
	return hexColours
}

// colourJSON represents a colour in JSON output.
type colourJSON struct {
	Index int        `json:"index"`
	Hex   string     `json:"hex"`
	RGB   colour.RGB `json:"rgb"`
	Count int        `json:"count"`
}

// resultJSON represents the palette in JSON output.
type resultJSON struct {
	Strategy Strategy     `json:"strategy"`
	Count    int          `json:"count"`
	Colours  []colourJSON `json:"colours"`
}

// ToJSON converts the palette to indented JSON.
func (r *Result) ToJSON() ([]byte, error) {
	colours := make([]colourJSON, len(r.Colours))
	for i, c := range r.Colours {
		colours[i] = colourJSON{Index: i, Hex: c.Hex(), RGB: c, Count: r.Counts[i]}
	}

	return json.MarshalIndent(resultJSON{
		Strategy: r.Strategy,
		Count:    len(r.Colours),
		Colours:  colours,
	}, "", "  ")
}

// String returns a human-readable representation of the palette.
func (r *Result) String() string {
	if len(r.Colours) == 0 {
		return "Empty palette"
	}

	var sb strings.Builder
	fmt.Fprintf(&sb, "Palette with %d colours (%s):\n", len(r.Colours), r.Strategy)
	for i, c := range r.Colours {
		fmt.Fprintf(&sb, "  %3d: %s %-20s %d px\n", i, c.Hex(), c.String(), r.Counts[i])
	}
	return sb.String()
}

// Get returns the colour at index.
func (r *Result) Get(index int) (colour.RGB, error) {
	if index < 0 || index >= len(r.Colours) {
		return colour.RGB{}, fmt.Errorf("index out of bounds: %d (palette has %d colours)", index, len(r.Colours))
	}
	return r.Colours[index], nil
}
