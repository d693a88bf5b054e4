package runner

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// Executor abstracts executing a single trial.
// Implementations should return an error for failed trials.
type Executor interface {
	Execute(ctx context.Context, trial Trial) error
}

// ExecutorFunc adapts a function to the Executor interface.
type ExecutorFunc func(ctx context.Context, trial Trial) error

func (f ExecutorFunc) Execute(ctx context.Context, trial Trial) error { return f(ctx, trial) }

// Options configure the Runner.
type Options struct {
	Concurrency    int                         // number of worker goroutines
	Trials         []Trial                     // plan to execute in order
	Duration       time.Duration               // overall time limit (0 means no duration cap)
	RatePerSecond  int                         // trials per second pacing (0 means unlimited)
	Executor       Executor                    // trial executor (required)
	LimiterFactory func(rps int) *rate.Limiter // optional injection for tests
}

func (o *Options) normalize() {
	if o.Concurrency <= 0 {
		o.Concurrency = 1
	}
	if o.RatePerSecond < 0 {
		o.RatePerSecond = 0
	}
	if o.LimiterFactory == nil {
		o.LimiterFactory = func(rps int) *rate.Limiter {
			if rps <= 0 {
				return rate.NewLimiter(rate.Inf, 0)
			}
			// A burst of one keeps trials evenly spaced.
			return rate.NewLimiter(rate.Limit(rps), 1)
		}
	}
}
