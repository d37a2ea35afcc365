package palette

import (
	"slices"
	"sort"

	"github.com/cyberofficial/pyaint/internal/colour"
)

// selectFrequency returns the first n ranked entries.
func selectFrequency(ranked []colour.ColourCount, n int) []colour.ColourCount {
	n = min(n, len(ranked))
	if n <= 0 {
		return []colour.ColourCount{}
	}
	return slices.Clone(ranked[:n])
}

// groupByHue partitions ranked entries into numBins hue buckets. Entries
// keep their ranked order inside a bucket.
func groupByHue(ranked []colour.ColourCount, numBins int) map[int][]colour.ColourCount {
	buckets := make(map[int][]colour.ColourCount)
	for _, e := range ranked {
		b := colour.HueBucket(e.Colour, numBins)
		buckets[b] = append(buckets[b], e)
	}
	return buckets
}

// selectShades picks one colour per hue bucket: the most frequent when
// dominant is set, the least frequent otherwise. Candidates are ordered by
// count (descending for dominant, ascending for rare) and truncated to n.
//
// When there are fewer non-empty buckets than n, further rounds take the
// next colour of every bucket until n colours are chosen, so the result
// always holds min(n, len(ranked)) colours.
func selectShades(ranked []colour.ColourCount, n int, dominant bool) []colour.ColourCount {
	n = min(n, len(ranked))
	if n <= 0 {
		return []colour.ColourCount{}
	}

	buckets := groupByHue(ranked, colour.HueBins(n))
	keys := make([]int, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Ints(keys)

	if !dominant {
		for _, k := range keys {
			sortByCount(buckets[k], false)
		}
	}

	selected := make([]colour.ColourCount, 0, n)
	for round := 0; len(selected) < n; round++ {
		var candidates []colour.ColourCount
		for _, k := range keys {
			if round < len(buckets[k]) {
				candidates = append(candidates, buckets[k][round])
			}
		}
		if len(candidates) == 0 {
			break
		}
		sortByCount(candidates, dominant)
		take := min(len(candidates), n-len(selected))
		selected = append(selected, candidates[:take]...)
	}

	sortByCount(selected, dominant)
	return selected
}

// sortByCount stable-sorts entries by count, descending or ascending.
func sortByCount(entries []colour.ColourCount, descending bool) {
	sort.SliceStable(entries, func(i, j int) bool {
		if descending {
			return entries[i].Count > entries[j].Count
		}
		return entries[i].Count < entries[j].Count
	})
}
