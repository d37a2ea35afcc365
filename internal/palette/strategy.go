package palette

import (
	"fmt"
	"strings"

	"github.com/cyberofficial/pyaint/internal/colour"
)

// Strategy names a palette selection method.
type Strategy string

const (
	// StrategyFrequency takes the most frequent colours.
	StrategyFrequency Strategy = "frequency"

	// StrategyDominantShades takes the most frequent colour of each hue family.
	StrategyDominantShades Strategy = "dominant_shades"

	// StrategyRareShades takes the least frequent colour of each hue family.
	StrategyRareShades Strategy = "rare_shades"

	// StrategyKMeans clusters the colours with k-means++.
	StrategyKMeans Strategy = "kmeans"
)

// MaxSize is the largest palette that can be requested.
const MaxSize = 256

// DefaultSize is the palette size used when none is configured.
const DefaultSize = 16

// ValidStrategies returns every known strategy.
func ValidStrategies() []Strategy {
	return []Strategy{
		StrategyFrequency,
		StrategyDominantShades,
		StrategyRareShades,
		StrategyKMeans,
	}
}

// IsValid reports whether s is a known strategy.
func (s Strategy) IsValid() bool {
	for _, valid := range ValidStrategies() {
		if s == valid {
			return true
		}
	}
	return false
}

// NormalizeStrategy trims and lower-cases name without validating it, so an
// unknown name survives for the generator's fallback warning.
func NormalizeStrategy(name string) Strategy {
	return Strategy(strings.ToLower(strings.TrimSpace(name)))
}

// ParseStrategy maps a name to a Strategy. Unknown names fall back to
// StrategyFrequency with ok set to false.
func ParseStrategy(name string) (s Strategy, ok bool) {
	s = NormalizeStrategy(name)
	if !s.IsValid() {
		return StrategyFrequency, false
	}
	return s, true
}

// OversizePolicy decides what happens to sizes above MaxSize.
type OversizePolicy string

const (
	// OversizeClamp silently reduces the size to MaxSize.
	OversizeClamp OversizePolicy = "clamp"

	// OversizeReject fails the request with ErrSizeTooLarge.
	OversizeReject OversizePolicy = "reject"
)

// Options configures a single palette request.
type Options struct {
	Strategy Strategy
	Size     int
	Oversize OversizePolicy

	// KMeans tunes StrategyKMeans and is ignored by the other strategies.
	KMeans colour.KMeansConfig
}

// DefaultOptions returns frequency selection of DefaultSize colours.
func DefaultOptions() Options {
	return Options{
		Strategy: StrategyFrequency,
		Size:     DefaultSize,
		Oversize: OversizeClamp,
		KMeans:   colour.DefaultKMeansConfig(),
	}
}

// requestedSize applies the oversize policy and the [0, MaxSize] bounds.
// It does not clamp to the number of distinct colours.
func (o Options) requestedSize() (int, error) {
	n := o.Size
	if n < 1 {
		return 0, nil
	}
	if n > MaxSize {
		if o.Oversize == OversizeReject {
			return 0, fmt.Errorf("%w: %d (maximum: %d)", ErrSizeTooLarge, n, MaxSize)
		}
		n = MaxSize
	}
	return n, nil
}
