// Package palette selects bounded colour palettes from an analysed image:
// frequency ranking, hue-bucketed dominant and rare shades, k-means
// clustering, tie detection, statistics and CSS export.
package palette

import (
	"fmt"
	"sync"

	"github.com/hashicorp/go-hclog"

	"github.com/cyberofficial/pyaint/internal/colour"
	"github.com/cyberofficial/pyaint/internal/image"
)

// Generator analyses one image and serves palettes from its histogram.
// The histogram is built lazily on first use and is never rebuilt.
// A Generator is safe for concurrent use.
type Generator struct {
	path        string
	ignoreWhite bool
	loader      image.Loader
	logger      hclog.Logger

	mu     sync.Mutex
	hist   *colour.Histogram
	ranked []colour.ColourCount
}

// Option configures a Generator.
type Option func(*Generator)

// WithIgnoreWhite sets whether pure white pixels are left out of the analysis.
func WithIgnoreWhite(ignore bool) Option {
	return func(g *Generator) {
		g.ignoreWhite = ignore
	}
}

// WithLoader sets the image loader. The default is image.NewFileLoader().
func WithLoader(l image.Loader) Option {
	return func(g *Generator) {
		g.loader = l
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l hclog.Logger) Option {
	return func(g *Generator) {
		g.logger = l
	}
}

// New creates a Generator for the image at path. White is ignored unless
// WithIgnoreWhite(false) is given.
func New(path string, opts ...Option) *Generator {
	g := &Generator{
		path:        path,
		ignoreWhite: true,
		loader:      image.NewFileLoader(),
		logger:      hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// NewFromHistogram creates an already analysed Generator around h.
func NewFromHistogram(h *colour.Histogram, opts ...Option) *Generator {
	g := New("", opts...)
	g.hist = h
	g.ranked = h.Ranked()
	return g
}

// Path returns the analysed image path.
func (g *Generator) Path() string {
	return g.path
}

// Analyze loads the image and builds its histogram. It runs at most once
// successfully; later calls return immediately. A failed analysis is not
// remembered, so the next call tries again.
func (g *Generator) Analyze() error {
	_, _, err := g.analysed()
	return err
}

// analysed returns the histogram and ranked list, building them if needed.
func (g *Generator) analysed() (*colour.Histogram, []colour.ColourCount, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.hist != nil {
		return g.hist, g.ranked, nil
	}

	g.logger.Info("analyzing image", "path", g.path, "ignore_white", g.ignoreWhite)

	img, err := g.loader.Load(g.path)
	if err != nil {
		return nil, nil, &AnalysisError{Path: g.path, Err: err}
	}

	bounds := img.Bounds()
	g.logger.Debug("image loaded", "width", bounds.Dx(), "height", bounds.Dy(), "pixels", bounds.Dx()*bounds.Dy())

	h := colour.BuildHistogram(img, g.ignoreWhite)
	g.hist = h
	g.ranked = h.Ranked()

	g.logger.Info("analysis complete", "distinct", h.Distinct(), "total", h.Total())
	return g.hist, g.ranked, nil
}

// Total returns the number of pixels considered.
func (g *Generator) Total() (int, error) {
	h, _, err := g.analysed()
	if err != nil {
		return 0, err
	}
	return h.Total(), nil
}

// Distinct returns the number of distinct colours considered.
func (g *Generator) Distinct() (int, error) {
	h, _, err := g.analysed()
	if err != nil {
		return 0, err
	}
	return h.Distinct(), nil
}

// Ranked returns a copy of every colour ordered by count, highest first.
func (g *Generator) Ranked() ([]colour.ColourCount, error) {
	_, ranked, err := g.analysed()
	if err != nil {
		return nil, err
	}
	return append([]colour.ColourCount(nil), ranked...), nil
}

// GroupByHue partitions every colour into numBins hue buckets, at least
// colour.DefaultHueBins.
func (g *Generator) GroupByHue(numBins int) (map[int][]colour.ColourCount, error) {
	_, ranked, err := g.analysed()
	if err != nil {
		return nil, err
	}
	return groupByHue(ranked, max(numBins, colour.DefaultHueBins)), nil
}

// Palette selects up to opts.Size colours with opts.Strategy.
// An unknown strategy is logged and replaced with StrategyFrequency.
func (g *Generator) Palette(opts Options) (*Result, error) {
	_, ranked, err := g.analysed()
	if err != nil {
		return nil, err
	}

	strategy := g.resolveStrategy(opts.Strategy)

	n, err := opts.requestedSize()
	if err != nil {
		return nil, err
	}
	n = min(n, len(ranked))

	var selected []colour.ColourCount
	switch strategy {
	case StrategyDominantShades:
		selected = selectShades(ranked, n, true)
	case StrategyRareShades:
		selected = selectShades(ranked, n, false)
	case StrategyKMeans:
		selected, err = colour.KMeans(ranked, n, opts.KMeans)
		if err != nil {
			return nil, fmt.Errorf("failed to cluster colours: %w", err)
		}
		g.logger.Debug("clustering complete", "k", n, "clusters", len(selected))
	default:
		selected = selectFrequency(ranked, n)
	}

	return newResult(strategy, selected), nil
}

// resolveStrategy returns s, or StrategyFrequency with a warning when s is
// not a known strategy.
func (g *Generator) resolveStrategy(s Strategy) Strategy {
	if s == "" {
		return StrategyFrequency
	}
	if !s.IsValid() {
		g.logger.Warn("unknown palette strategy, using frequency", "strategy", string(s), "valid", ValidStrategies())
		return StrategyFrequency
	}
	return s
}
