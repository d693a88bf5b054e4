// Package runner executes sortbench benchmark plans.
//
// A plan is the cross product of strategies, input distributions, sizes and
// repetitions, expanded into individual [Trial] values by [BuildPlan]. The
// [Runner] hands trials to a fixed number of workers through a single
// scheduler goroutine, which also applies optional pacing and stops early
// when the context is cancelled or the duration cap expires.
//
// # Basic Usage
//
//	trials := runner.BuildPlan(runner.PlanSpec{
//		Strategies:    sorting.Strategies(),
//		Distributions: workload.Distributions(),
//		Sizes:         []int{10, 100, 1000},
//		Repetitions:   5,
//	})
//	r := runner.New(runner.Options{
//		Trials:   trials,
//		Executor: &runner.SortExecutor{Generator: gen, Collector: collector, Verify: true},
//	})
//	result := r.Run(ctx)
//
// # Executor Interface
//
// The [Executor] interface defines what a runner executes per trial:
//
//	type Executor interface {
//		Execute(ctx context.Context, trial Trial) error
//	}
//
// [SortExecutor] generates the trial's input, times the selected strategy,
// optionally verifies the output and records the duration.
//
// # Middleware
//
//   - [WithLogging]: Log trial failures
//
// # Error Handling
//
// [VerificationError] describes an output that is not an ordered permutation
// of its input. Errors returned by the sorting primitives are passed through
// wrapped with the trial that produced them, so errors.Is matches
// sorting.ErrKeyOutOfRange and friends.
package runner
