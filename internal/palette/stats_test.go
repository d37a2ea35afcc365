package palette

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cyberofficial/pyaint/internal/colour"
)

func TestPercentage(t *testing.T) {
	g := generatorFor(cc(1, 0, 0, 30), cc(2, 0, 0, 10))

	tests := []struct {
		count int
		want  float64
	}{
		{count: 0, want: 0},
		{count: 10, want: 25},
		{count: 30, want: 75},
		{count: 40, want: 100},
	}

	for _, tt := range tests {
		got, err := g.Percentage(tt.count)
		require.NoError(t, err)
		assert.InDelta(t, tt.want, got, 1e-9, "count %d", tt.count)
	}

	empty := generatorFor()
	got, err := empty.Percentage(5)
	require.NoError(t, err)
	assert.Zero(t, got)
}

func TestStats(t *testing.T) {
	g := generatorFor(cc(1, 0, 0, 1), cc(2, 0, 0, 3))

	stats, err := g.Stats()
	require.NoError(t, err)
	require.Len(t, stats, 2)

	assert.Equal(t, colour.RGB{R: 2}, stats[0].Colour)
	assert.Equal(t, 3, stats[0].Count)
	assert.InDelta(t, 75.0, stats[0].Percentage, 1e-9)
	assert.Equal(t, colour.RGB{R: 1}, stats[1].Colour)
	assert.InDelta(t, 25.0, stats[1].Percentage, 1e-9)
}

func TestSummarise(t *testing.T) {
	t.Run("palette", func(t *testing.T) {
		res := newResult(StrategyDominantShades, []colour.ColourCount{
			cc(1, 0, 0, 10),
			cc(2, 0, 0, 40),
			cc(3, 0, 0, 4),
			cc(4, 0, 0, 40),
			cc(5, 0, 0, 4),
		})

		s := Summarise(res)
		assert.Equal(t, 5, s.Selected)
		assert.Equal(t, 98, s.TotalPixels)
		assert.InDelta(t, 19.6, s.Average, 1e-9)
		assert.Equal(t, cc(2, 0, 0, 40), s.MostFrequent)
		assert.Equal(t, cc(3, 0, 0, 4), s.LeastFrequent)
	})

	t.Run("empty", func(t *testing.T) {
		assert.Equal(t, Summary{}, Summarise(newResult(StrategyFrequency, nil)))
		assert.Equal(t, Summary{}, Summarise(nil))
	})
}
