package palette

import (
	"github.com/cyberofficial/pyaint/internal/colour"
)

// ColourStat describes one colour of the analysed image.
type ColourStat struct {
	Colour     colour.RGB `json:"colour"`
	Count      int        `json:"count"`
	Percentage float64    `json:"percentage"`
}

// percentage returns count as a share of total, 0 when total is 0.
func percentage(count, total int) float64 {
	if total == 0 {
		return 0
	}
	return float64(count) / float64(total) * 100.0
}

// Percentage returns the share of considered pixels that count represents,
// from 0 to 100.
func (g *Generator) Percentage(count int) (float64, error) {
	h, _, err := g.analysed()
	if err != nil {
		return 0, err
	}
	return percentage(count, h.Total()), nil
}

// Stats returns every colour in ranked order with its count and percentage.
func (g *Generator) Stats() ([]ColourStat, error) {
	h, ranked, err := g.analysed()
	if err != nil {
		return nil, err
	}

	stats := make([]ColourStat, len(ranked))
	for i, e := range ranked {
		stats[i] = ColourStat{
			Colour:     e.Colour,
			Count:      e.Count,
			Percentage: percentage(e.Count, h.Total()),
		}
	}
	return stats, nil
}

// Summary condenses a palette for display.
type Summary struct {
	Selected      int
	TotalPixels   int
	Average       float64
	MostFrequent  colour.ColourCount
	LeastFrequent colour.ColourCount
}

// Summarise computes a Summary of res. On equal counts the earliest colour
// is reported. An empty palette yields a zero Summary.
func Summarise(res *Result) Summary {
	if res == nil || res.Len() == 0 {
		return Summary{}
	}

	s := Summary{
		Selected:      res.Len(),
		MostFrequent:  colour.ColourCount{Colour: res.Colours[0], Count: res.Counts[0]},
		LeastFrequent: colour.ColourCount{Colour: res.Colours[0], Count: res.Counts[0]},
	}
	for i, c := range res.Colours {
		count := res.Counts[i]
		s.TotalPixels += count
		if count > s.MostFrequent.Count {
			s.MostFrequent = colour.ColourCount{Colour: c, Count: count}
		}
		if count < s.LeastFrequent.Count {
			s.LeastFrequent = colour.ColourCount{Colour: c, Count: count}
		}
	}
	s.Average = float64(s.TotalPixels) / float64(s.Selected)
	return s
}
