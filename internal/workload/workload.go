// Package workload generates benchmark inputs for the sorting strategies.
package workload

import (
	"errors"
	"fmt"
	"hash/fnv"
	"math"
	"math/rand"
	"strings"
)

// Distribution describes the shape of a generated input.
type Distribution string

const (
	// DistributionRandom draws uniform values in [0, maxValue).
	DistributionRandom Distribution = "random"
	// DistributionBest is ascending 0..n-1, the best case for comparison sorts.
	DistributionBest Distribution = "best"
	// DistributionWorst is descending n-1..0, the worst case for comparison sorts.
	DistributionWorst Distribution = "worst"
)

// ErrUnknownDistribution is returned for unrecognised distribution names.
var ErrUnknownDistribution = errors.New("unknown distribution")

// Distributions returns every distribution in report order.
func Distributions() []Distribution {
	return []Distribution{DistributionRandom, DistributionBest, DistributionWorst}
}

// ParseDistribution resolves a distribution name or one of its aliases.
func ParseDistribution(name string) (Distribution, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "random":
		return DistributionRandom, nil
	case "best", "ascending", "sorted":
		return DistributionBest, nil
	case "worst", "descending", "reversed":
		return DistributionWorst, nil
	default:
		return "", fmt.Errorf("%w: %q (supported: random, best, worst)", ErrUnknownDistribution, name)
	}
}

// Workload is a generated input plus the exclusive bound on its values.
type Workload struct {
	Distribution Distribution
	Values       []uint64
	Bound        int
}

// Generator produces deterministic workloads for a seed.
type Generator struct {
	seed     int64
	maxValue uint64
}

// NewGenerator creates a Generator. maxValue bounds random values and must be > 0.
func NewGenerator(seed int64, maxValue uint64) (*Generator, error) {
	if maxValue == 0 {
		return nil, fmt.Errorf("max value must be > 0")
	}
	return &Generator{seed: seed, maxValue: maxValue}, nil
}

// MaxValue returns the exclusive bound for random values.
func (g *Generator) MaxValue() uint64 { return g.maxValue }

// Generate builds the input for one trial. The repetition index selects an
// independent random stream so results do not depend on execution order.
func (g *Generator) Generate(dist Distribution, size, repetition int) (Workload, error) {
	if size < 0 {
		return Workload{}, fmt.Errorf("size must be >= 0, got %d", size)
	}
	switch dist {
	case DistributionRandom:
		rnd := rand.New(rand.NewSource(g.subSeed(dist, size, repetition)))
		return Workload{Distribution: dist, Values: Random(rnd, size, g.maxValue), Bound: boundFor(g.maxValue)}, nil
	case DistributionBest:
		return Workload{Distribution: dist, Values: Ascending(size), Bound: size}, nil
	case DistributionWorst:
		return Workload{Distribution: dist, Values: Descending(size), Bound: size}, nil
	default:
		return Workload{}, fmt.Errorf("%w: %q", ErrUnknownDistribution, string(dist))
	}
}

func (g *Generator) subSeed(dist Distribution, size, repetition int) int64 {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%s|%d|%d", g.seed, dist, size, repetition)
	return int64(h.Sum64())
}

// Random returns size values uniform in [0, maxValue).
func Random(rnd *rand.Rand, size int, maxValue uint64) []uint64 {
	values := make([]uint64, size)
	for i := range values {
		values[i] = uniform(rnd, maxValue)
	}
	return values
}

// Ascending returns 0..size-1.
func Ascending(size int) []uint64 {
	values := make([]uint64, size)
	for i := range values {
		values[i] = uint64(i)
	}
	return values
}

// Descending returns size-1..0.
func Descending(size int) []uint64 {
	values := make([]uint64, size)
	for i := range values {
		values[i] = uint64(size - 1 - i)
	}
	return values
}

func uniform(rnd *rand.Rand, maxValue uint64) uint64 {
	if maxValue <= math.MaxInt64 {
		return uint64(rnd.Int63n(int64(maxValue)))
	}
	return rnd.Uint64() % maxValue
}

func boundFor(maxValue uint64) int {
	if maxValue > math.MaxInt {
		return math.MaxInt
	}
	return int(maxValue)
}
