package runner_test

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
	"golang.org/x/time/rate"

	"github.com/torosent/sortbench/internal/runner"
	"github.com/torosent/sortbench/internal/sorting"
	"github.com/torosent/sortbench/internal/workload"
)

// fakeExecutor simulates a trial with fixed latency.
type fakeExecutor struct {
	latency time.Duration
	calls   *int64
	fail    func(runner.Trial) bool
}

func (f *fakeExecutor) Execute(ctx context.Context, trial runner.Trial) error {
	if f.calls != nil {
		atomic.AddInt64(f.calls, 1)
	}
	if f.latency > 0 {
		select {
		case <-time.After(f.latency):
		case <-ctx.Done():
			return ctx.Err()
		}
	}
	if f.fail != nil && f.fail(trial) {
		return errors.New("boom")
	}
	return nil
}

func plan(n int) []runner.Trial {
	return runner.BuildPlan(runner.PlanSpec{
		Strategies:    []sorting.Strategy{sorting.StrategyRadix},
		Distributions: []workload.Distribution{workload.DistributionRandom},
		Sizes:         []int{10},
		Repetitions:   n,
	})
}

func TestRunnerExecutesEveryTrial(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls int64
	r := runner.New(runner.Options{
		Concurrency: 4,
		Trials:      plan(25),
		Executor:    &fakeExecutor{latency: time.Millisecond, calls: &calls},
	})
	res := r.Run(context.Background())
	if res.Total != 25 {
		t.Fatalf("expected total 25, got %d", res.Total)
	}
	if calls != 25 {
		t.Fatalf("expected executor called 25 times, got %d", calls)
	}
	if res.Skipped != 0 {
		t.Fatalf("expected no skipped trials, got %d", res.Skipped)
	}
}

func TestRunnerCountsErrors(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := runner.New(runner.Options{
		Trials: plan(10),
		Executor: &fakeExecutor{fail: func(tr runner.Trial) bool {
			return tr.Repetition%2 == 0
		}},
	})
	res := r.Run(context.Background())
	if res.Total != 10 {
		t.Fatalf("expected total 10, got %d", res.Total)
	}
	if res.Errors != 5 {
		t.Fatalf("expected 5 errors, got %d", res.Errors)
	}
}

func TestRunnerHonorsDuration(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls int64
	r := runner.New(runner.Options{
		Concurrency: 2,
		Duration:    50 * time.Millisecond,
		Trials:      plan(10000),
		Executor:    &fakeExecutor{latency: 5 * time.Millisecond, calls: &calls},
	})
	start := time.Now()
	res := r.Run(context.Background())
	elapsed := time.Since(start)
	if elapsed > 500*time.Millisecond {
		t.Fatalf("runner exceeded duration cap: %v", elapsed)
	}
	if res.Total == 10000 {
		t.Fatal("expected the duration cap to stop the plan early")
	}
	if res.Total+res.Skipped != 10000 {
		t.Fatalf("total %d + skipped %d should cover the plan", res.Total, res.Skipped)
	}
}

func TestRunnerStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	var once sync.Once
	r := runner.New(runner.Options{
		Trials: plan(1000),
		Executor: runner.ExecutorFunc(func(ctx context.Context, tr runner.Trial) error {
			if tr.Index == 5 {
				once.Do(cancel)
			}
			return nil
		}),
	})
	res := r.Run(ctx)
	if res.Total >= 1000 {
		t.Fatalf("expected cancellation to stop the plan, total %d", res.Total)
	}
	if res.Skipped == 0 {
		t.Fatal("expected skipped trials after cancellation")
	}
}

func TestRunnerRateLimiting(t *testing.T) {
	defer goleak.VerifyNone(t)

	var calls int64
	r := runner.New(runner.Options{
		Concurrency:   4,
		RatePerSecond: 100,
		Trials:        plan(10),
		Executor:      &fakeExecutor{calls: &calls},
		LimiterFactory: func(rps int) *rate.Limiter {
			return rate.NewLimiter(rate.Limit(rps), 1)
		},
	})
	start := time.Now()
	res := r.Run(context.Background())
	elapsed := time.Since(start)
	if res.Total != 10 {
		t.Fatalf("expected 10 trials, got %d", res.Total)
	}
	// Ten trials at 100/s with a burst of one need at least ~90ms.
	if elapsed < 80*time.Millisecond {
		t.Fatalf("expected pacing to slow the run, took %v", elapsed)
	}
}

func TestRunnerEmptyPlan(t *testing.T) {
	defer goleak.VerifyNone(t)

	r := runner.New(runner.Options{Executor: &fakeExecutor{}})
	res := r.Run(context.Background())
	if res.Total != 0 || res.Errors != 0 || res.Skipped != 0 {
		t.Fatalf("expected zero result, got %+v", res)
	}
}
