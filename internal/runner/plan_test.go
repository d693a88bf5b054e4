package runner_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torosent/sortbench/internal/metrics"
	"github.com/torosent/sortbench/internal/runner"
	"github.com/torosent/sortbench/internal/sorting"
	"github.com/torosent/sortbench/internal/workload"
)

func TestBuildPlanCrossProduct(t *testing.T) {
	trials := runner.BuildPlan(runner.PlanSpec{
		Strategies:    sorting.Strategies(),
		Distributions: workload.Distributions(),
		Sizes:         []int{0, 10},
		Repetitions:   2,
	})
	require.Len(t, trials, 3*3*2*2)
	assert.Equal(t, len(trials), runner.RecordedCount(trials))

	for i, tr := range trials {
		assert.Equal(t, i, tr.Index)
	}
	// Sizes vary slowest.
	assert.Equal(t, 0, trials[0].Size)
	assert.Equal(t, 10, trials[len(trials)-1].Size)
}

func TestBuildPlanWarmupPrecedesRecorded(t *testing.T) {
	trials := runner.BuildPlan(runner.PlanSpec{
		Strategies:    []sorting.Strategy{sorting.StrategyCounting},
		Distributions: []workload.Distribution{workload.DistributionWorst},
		Sizes:         []int{100},
		Repetitions:   3,
		Warmup:        2,
	})
	require.Len(t, trials, 5)
	assert.Equal(t, 3, runner.RecordedCount(trials))

	assert.True(t, trials[0].Warmup)
	assert.Equal(t, -1, trials[0].Repetition)
	assert.True(t, trials[1].Warmup)
	assert.Equal(t, -2, trials[1].Repetition)
	for i, tr := range trials[2:] {
		assert.False(t, tr.Warmup)
		assert.Equal(t, i, tr.Repetition)
	}
}

func TestBuildPlanClampsRepetitions(t *testing.T) {
	trials := runner.BuildPlan(runner.PlanSpec{
		Strategies:    []sorting.Strategy{sorting.StrategyInsertion},
		Distributions: []workload.Distribution{workload.DistributionBest},
		Sizes:         []int{5},
		Repetitions:   0,
		Warmup:        -3,
	})
	require.Len(t, trials, 1)
	assert.False(t, trials[0].Warmup)
}

func TestTrialKey(t *testing.T) {
	tr := runner.Trial{Strategy: sorting.StrategyRadix, Distribution: workload.DistributionRandom, Size: 42}
	assert.Equal(t, metrics.SeriesKey{Strategy: "radix", Distribution: "random", Size: 42}, tr.Key())
	assert.Contains(t, tr.String(), "radix")
	assert.Contains(t, tr.String(), "n=42")
}
