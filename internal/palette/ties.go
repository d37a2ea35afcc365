package palette

import (
	"fmt"
	"slices"

	"github.com/cyberofficial/pyaint/internal/colour"
)

// TieGroup is a set of colours sharing the pixel count at the cut-off of a
// frequency palette. Index is the ranked position where that count starts.
type TieGroup struct {
	Index   int
	Count   int
	Colours []colour.RGB
}

// FindTies reports colours tied at the selection boundary of a frequency
// palette of opts.Size colours. It returns nothing for other strategies.
func (g *Generator) FindTies(opts Options) ([]TieGroup, error) {
	_, ranked, err := g.analysed()
	if err != nil {
		return nil, err
	}

	if g.resolveStrategy(opts.Strategy) != StrategyFrequency {
		return nil, nil
	}

	n, err := opts.requestedSize()
	if err != nil {
		return nil, err
	}

	group, ok := findTie(ranked, n)
	if !ok {
		return nil, nil
	}

	g.logger.Debug("tie at selection boundary", "index", group.Index, "colours", len(group.Colours), "count", group.Count)
	return []TieGroup{group}, nil
}

// findTie looks for entries sharing ranked[n-1]'s count on both sides of the
// boundary.
func findTie(ranked []colour.ColourCount, n int) (TieGroup, bool) {
	n = min(n, len(ranked))
	if n == 0 || n >= len(ranked) {
		return TieGroup{}, false
	}

	boundary := ranked[n-1].Count
	first, last := -1, -1
	var tied []colour.RGB
	for i, e := range ranked {
		if e.Count != boundary {
			continue
		}
		if first < 0 {
			first = i
		}
		last = i
		tied = append(tied, e.Colour)
	}

	if len(tied) < 2 || first >= n || n > last {
		return TieGroup{}, false
	}
	return TieGroup{Index: first, Count: boundary, Colours: tied}, true
}

// Apply replaces the tied slots of res, from Index to the end of the
// palette, with chosen. chosen must hold exactly that many distinct members
// of the group. res is left untouched on error.
func (t TieGroup) Apply(res *Result, chosen []colour.RGB) error {
	if res.Strategy != StrategyFrequency {
		return fmt.Errorf("ties only apply to %s palettes, got %s", StrategyFrequency, res.Strategy)
	}
	if t.Index >= res.Len() {
		return fmt.Errorf("tie index %d outside palette of %d colours", t.Index, res.Len())
	}

	slots := res.Len() - t.Index
	if len(chosen) != slots {
		return fmt.Errorf("expected %d colours to fill the tie at index %d, got %d", slots, t.Index, len(chosen))
	}

	for i, c := range chosen {
		if !slices.Contains(t.Colours, c) {
			return fmt.Errorf("colour %s is not part of the tie", c)
		}
		if slices.Contains(chosen[:i], c) {
			return fmt.Errorf("colour %s chosen more than once", c)
		}
	}
	for i := t.Index; i < res.Len(); i++ {
		if res.Counts[i] != t.Count {
			return fmt.Errorf("palette slot %d has count %d, tie count is %d", i, res.Counts[i], t.Count)
		}
	}

	copy(res.Colours[t.Index:], chosen)
	return nil
}
