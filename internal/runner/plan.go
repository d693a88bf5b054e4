package runner

import (
	"fmt"

	"github.com/torosent/sortbench/internal/metrics"
	"github.com/torosent/sortbench/internal/sorting"
	"github.com/torosent/sortbench/internal/workload"
)

// Trial is a single timed sort.
type Trial struct {
	Index        int
	Strategy     sorting.Strategy
	Distribution workload.Distribution
	Size         int
	// Repetition numbers recorded trials from 0; warm-ups count down from -1
	// so they never share an input stream with a recorded trial.
	Repetition int
	Warmup     bool
}

// Key returns the metrics series the trial belongs to.
func (t Trial) Key() metrics.SeriesKey {
	return metrics.SeriesKey{
		Strategy:     string(t.Strategy),
		Distribution: string(t.Distribution),
		Size:         t.Size,
	}
}

func (t Trial) String() string {
	kind := "trial"
	if t.Warmup {
		kind = "warmup"
	}
	return fmt.Sprintf("%s %d (%s, %s, n=%d, rep=%d)", kind, t.Index, t.Strategy, t.Distribution, t.Size, t.Repetition)
}

// PlanSpec describes the cross product a benchmark covers.
type PlanSpec struct {
	Strategies    []sorting.Strategy
	Distributions []workload.Distribution
	Sizes         []int
	Repetitions   int
	Warmup        int
}

// BuildPlan expands spec into trials ordered by size, then distribution, then
// strategy. Warm-ups for a cell run immediately before its recorded trials.
func BuildPlan(spec PlanSpec) []Trial {
	reps := spec.Repetitions
	if reps < 1 {
		reps = 1
	}
	warmup := spec.Warmup
	if warmup < 0 {
		warmup = 0
	}

	trials := make([]Trial, 0, len(spec.Sizes)*len(spec.Distributions)*len(spec.Strategies)*(reps+warmup))
	for _, size := range spec.Sizes {
		for _, dist := range spec.Distributions {
			for _, strategy := range spec.Strategies {
				base := Trial{Strategy: strategy, Distribution: dist, Size: size}
				for w := 0; w < warmup; w++ {
					t := base
					t.Index = len(trials)
					t.Repetition = -1 - w
					t.Warmup = true
					trials = append(trials, t)
				}
				for r := 0; r < reps; r++ {
					t := base
					t.Index = len(trials)
					t.Repetition = r
					trials = append(trials, t)
				}
			}
		}
	}
	return trials
}

// RecordedCount returns how many trials in the plan are recorded.
func RecordedCount(trials []Trial) int {
	n := 0
	for _, t := range trials {
		if !t.Warmup {
			n++
		}
	}
	return n
}
