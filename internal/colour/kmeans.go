package colour

import (
	"fmt"
	"math"
	"math/rand/v2"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

const (
	// DefaultMaxIterations bounds the number of assign/update rounds.
	DefaultMaxIterations = 20

	// DefaultSampleCap is the most times a single colour is repeated in the
	// weighted sample set. It keeps one dominant colour from swamping the
	// centroid means on skewed images, at the cost of under-weighting it.
	DefaultSampleCap = 100

	// DefaultConvergence is the largest rounded-centroid movement (Euclidean,
	// in RGB units) still considered converged.
	DefaultConvergence = 1.0

	// DefaultMaxWorkers is the size cap of the per-iteration worker pool.
	DefaultMaxWorkers = 4
)

// Progress milestones reported during a clustering run.
const (
	progressSampled    = 5
	progressFirstSeed  = 10
	progressSeeded     = 15
	progressIterations = 90
	progressCounted    = 92
	progressSorted     = 95
	progressConverted  = 98
	progressDone       = 100
)

// KMeansConfig holds tuning for a clustering run.
// Zero values are replaced with the package defaults.
type KMeansConfig struct {
	MaxIterations int
	SampleCap     int
	Convergence   float64
	MaxWorkers    int

	// Seed makes seeding deterministic. Every run starts a fresh generator
	// from it, so a config can be reused and shared between goroutines.
	// Zero seeds from the clock.
	Seed int64

	// Progress is optional.
	Progress ProgressReporter
}

// DefaultKMeansConfig returns the default clustering configuration.
func DefaultKMeansConfig() KMeansConfig {
	return KMeansConfig{
		MaxIterations: DefaultMaxIterations,
		SampleCap:     DefaultSampleCap,
		Convergence:   DefaultConvergence,
		MaxWorkers:    DefaultMaxWorkers,
	}
}

// NewSeededRand returns a deterministic generator for seed.
// A zero seed is replaced with the current time.
func NewSeededRand(seed int64) *rand.Rand {
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return rand.New(rand.NewPCG(uint64(seed), uint64(seed)>>1|1))
}

// KMeansClusterer groups the colours of a histogram into k clusters using
// weighted sampling, k-means++ seeding and a bounded worker pool.
type KMeansClusterer struct {
	cfg KMeansConfig
}

// NewKMeansClusterer creates a clusterer, filling unset fields of cfg with
// the defaults.
func NewKMeansClusterer(cfg KMeansConfig) *KMeansClusterer {
	def := DefaultKMeansConfig()
	if cfg.MaxIterations <= 0 {
		cfg.MaxIterations = def.MaxIterations
	}
	if cfg.SampleCap <= 0 {
		cfg.SampleCap = def.SampleCap
	}
	if cfg.Convergence <= 0 {
		cfg.Convergence = def.Convergence
	}
	if cfg.MaxWorkers <= 0 {
		cfg.MaxWorkers = def.MaxWorkers
	}
	return &KMeansClusterer{cfg: cfg}
}

// KMeans is shorthand for NewKMeansClusterer(cfg).Cluster(entries, k).
func KMeans(entries []ColourCount, k int, cfg KMeansConfig) ([]ColourCount, error) {
	return NewKMeansClusterer(cfg).Cluster(entries, k)
}

// Cluster returns up to k centroid colours with their estimated pixel
// counts, most prominent first. k is clamped to the number of entries and
// k <= 0 yields an empty result. Entries are distinct colours with their
// unweighted counts.
//
// A failure inside any parallel task aborts the whole run; no partial
// palette is returned.
func (c *KMeansClusterer) Cluster(entries []ColourCount, k int) ([]ColourCount, error) {
	k = min(k, len(entries))
	if k <= 0 {
		return []ColourCount{}, nil
	}

	progress := newProgressTracker(c.cfg.Progress)
	progress.report(0)

	points := c.weightedSamples(entries)
	progress.report(progressSampled)

	rng := NewSeededRand(c.cfg.Seed)
	centroids := c.initializeCentroidsKMeansPlusPlus(points, k, rng, progress)
	progress.report(progressSeeded)

	workers := min(c.cfg.MaxWorkers, max(1, k))

	for iter := 0; iter < c.cfg.MaxIterations; iter++ {
		assignments, err := assignPoints(points, centroids, workers)
		if err != nil {
			return nil, err
		}

		newCentroids, err := recalculateCentroids(points, assignments, centroids, workers)
		if err != nil {
			return nil, err
		}

		converged := hasConverged(centroids, newCentroids, c.cfg.Convergence)
		centroids = newCentroids

		span := progressIterations - progressSeeded
		progress.report(progressSeeded + span*(iter+1)/c.cfg.MaxIterations)

		if converged {
			break
		}
	}

	counts, err := estimateCounts(entries, centroids, workers)
	if err != nil {
		return nil, err
	}
	progress.report(progressCounted)

	order := make([]int, k)
	for i := range order {
		order[i] = i
	}
	sort.SliceStable(order, func(a, b int) bool {
		return counts[order[a]] > counts[order[b]]
	})
	progress.report(progressSorted)

	result := make([]ColourCount, k)
	for i, idx := range order {
		result[i] = ColourCount{Colour: centroids[idx].toRGB(), Count: counts[idx]}
	}
	progress.report(progressConverted)

	progress.report(progressDone)
	return result, nil
}

// point3D represents a point in 3D RGB colour space.
type point3D struct {
	R, G, B float64
}

func pointFromRGB(c RGB) point3D {
	return point3D{R: float64(c.R), G: float64(c.G), B: float64(c.B)}
}

// distanceSq returns the squared Euclidean distance to other.
func (p point3D) distanceSq(other point3D) float64 {
	dr := p.R - other.R
	dg := p.G - other.G
	db := p.B - other.B
	return dr*dr + dg*dg + db*db
}

func (p point3D) rounded() point3D {
	return point3D{R: math.Round(p.R), G: math.Round(p.G), B: math.Round(p.B)}
}

func (p point3D) toRGB() RGB {
	r := p.rounded()
	return RGB{R: clampChannel(r.R), G: clampChannel(r.G), B: clampChannel(r.B)}
}

func clampChannel(v float64) uint8 {
	return uint8(min(max(v, 0), 255))
}

// weightedSamples repeats every colour min(count, SampleCap) times.
func (c *KMeansClusterer) weightedSamples(entries []ColourCount) []point3D {
	total := 0
	for _, e := range entries {
		total += min(e.Count, c.cfg.SampleCap)
	}

	points := make([]point3D, 0, total)
	for _, e := range entries {
		p := pointFromRGB(e.Colour)
		for range min(e.Count, c.cfg.SampleCap) {
			points = append(points, p)
		}
	}
	return points
}

// initializeCentroidsKMeansPlusPlus picks the first centroid uniformly, then
// each further one with probability proportional to its squared distance
// from the nearest centroid chosen so far.
func (c *KMeansClusterer) initializeCentroidsKMeansPlusPlus(points []point3D, k int, rng *rand.Rand, progress *progressTracker) []point3D {
	centroids := make([]point3D, 0, k)
	if len(points) == 0 {
		// Only reachable when every entry had a non-positive count.
		for range k {
			centroids = append(centroids, point3D{})
		}
		return centroids
	}

	centroids = append(centroids, points[rng.IntN(len(points))])
	progress.report(progressFirstSeed)

	distances := make([]float64, len(points))
	for len(centroids) < k {
		totalDistance := 0.0
		for i, point := range points {
			minDist := math.MaxFloat64
			for _, centroid := range centroids {
				minDist = min(minDist, point.distanceSq(centroid))
			}
			distances[i] = minDist
			totalDistance += minDist
		}

		if totalDistance == 0 {
			centroids = append(centroids, points[rng.IntN(len(points))])
			continue
		}

		target := rng.Float64() * totalDistance
		cumulative := 0.0
		chosen := -1
		for i, dist := range distances {
			if dist == 0 {
				continue
			}
			chosen = i
			cumulative += dist
			if cumulative >= target {
				break
			}
		}
		centroids = append(centroids, points[chosen])
	}

	return centroids
}

// findNearestCentroid returns the index of the centroid closest to point.
// On equal distance the lowest index wins.
func findNearestCentroid(point point3D, centroids []point3D) int {
	minDist := math.MaxFloat64
	nearest := 0

	for i, centroid := range centroids {
		dist := point.distanceSq(centroid)
		if dist < minDist {
			minDist = dist
			nearest = i
		}
	}

	return nearest
}

// assignPoints maps every point to its nearest centroid. Points are split
// into contiguous chunks, one task per chunk, each writing only its own
// slice of the result.
func assignPoints(points []point3D, centroids []point3D, workers int) ([]int, error) {
	assignments := make([]int, len(points))
	chunks := splitRange(len(points), workers)

	err := forkJoin(len(chunks), workers, func(task int) error {
		lo, hi := chunks[task][0], chunks[task][1]
		for i := lo; i < hi; i++ {
			assignments[i] = findNearestCentroid(points[i], centroids)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to assign samples: %w", err)
	}
	return assignments, nil
}

// recalculateCentroids computes the mean of each cluster's members, one task
// per cluster. A cluster without members keeps its previous centroid.
func recalculateCentroids(points []point3D, assignments []int, previous []point3D, workers int) ([]point3D, error) {
	members := make([][]int, len(previous))
	for i, cluster := range assignments {
		members[cluster] = append(members[cluster], i)
	}

	centroids := make([]point3D, len(previous))
	err := forkJoin(len(previous), workers, func(cluster int) error {
		idx := members[cluster]
		if len(idx) == 0 {
			centroids[cluster] = previous[cluster]
			return nil
		}
		var sum point3D
		for _, i := range idx {
			sum.R += points[i].R
			sum.G += points[i].G
			sum.B += points[i].B
		}
		n := float64(len(idx))
		centroids[cluster] = point3D{R: sum.R / n, G: sum.G / n, B: sum.B / n}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to recalculate centroids: %w", err)
	}
	return centroids, nil
}

// hasConverged reports whether no rounded centroid moved further than
// threshold.
func hasConverged(old, updated []point3D, threshold float64) bool {
	for i := range old {
		d := math.Sqrt(old[i].rounded().distanceSq(updated[i].rounded()))
		if d > threshold {
			return false
		}
	}
	return true
}

// estimateCounts sums the unweighted count of every entry into its nearest
// final centroid.
func estimateCounts(entries []ColourCount, centroids []point3D, workers int) ([]int, error) {
	nearest := make([]int, len(entries))
	chunks := splitRange(len(entries), workers)

	err := forkJoin(len(chunks), workers, func(task int) error {
		lo, hi := chunks[task][0], chunks[task][1]
		for i := lo; i < hi; i++ {
			nearest[i] = findNearestCentroid(pointFromRGB(entries[i].Colour), centroids)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to estimate cluster counts: %w", err)
	}

	counts := make([]int, len(centroids))
	for i, e := range entries {
		counts[nearest[i]] += e.Count
	}
	return counts, nil
}

// splitRange divides [0, n) into at most parts contiguous half-open ranges.
func splitRange(n, parts int) [][2]int {
	if n == 0 {
		return nil
	}
	parts = min(max(parts, 1), n)
	size := (n + parts - 1) / parts

	ranges := make([][2]int, 0, parts)
	for lo := 0; lo < n; lo += size {
		ranges = append(ranges, [2]int{lo, min(lo+size, n)})
	}
	return ranges
}

// forkJoin runs fn for every task index in [0, n) on at most workers
// goroutines and waits for all of them. The first error, or a recovered
// panic, is returned.
func forkJoin(n, workers int, fn func(task int) error) error {
	var g errgroup.Group
	g.SetLimit(max(workers, 1))

	for task := range n {
		g.Go(func() (err error) {
			defer func() {
				if r := recover(); r != nil {
					err = fmt.Errorf("task %d panicked: %v", task, r)
				}
			}()
			return fn(task)
		})
	}

	return g.Wait()
}
