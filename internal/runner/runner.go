package runner

import (
	"context"
	"sync"
	"sync/atomic"
	"time"
)

// Result captures execution summary.
type Result struct {
	Total    int64 // trials executed, warm-ups included
	Errors   int64
	Skipped  int64 // trials never dispatched because the run stopped early
	Duration time.Duration
}

// Runner coordinates concurrent trial execution with pacing.
type Runner struct {
	opt   Options
	pacer *pacer
}

func New(opt Options) *Runner {
	opt.normalize()
	return &Runner{opt: opt, pacer: newPacer(opt)}
}

func (r *Runner) Run(ctx context.Context) Result {
	start := time.Now()
	var total int64
	var errs int64

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if r.opt.Duration > 0 {
		deadlineCtx, deadlineCancel := context.WithTimeout(ctx, r.opt.Duration)
		ctx = deadlineCtx
		defer deadlineCancel()
	}

	trials := make(chan Trial, r.opt.Concurrency)

	// Scheduler: serializes pacing so workers never overshoot the rate.
	go func() {
		defer close(trials)
		for _, trial := range r.opt.Trials {
			if ctx.Err() != nil {
				return
			}
			if err := r.pacer.Wait(ctx); err != nil {
				return
			}
			select {
			case trials <- trial:
				atomic.AddInt64(&total, 1)
			case <-ctx.Done():
				return
			}
		}
	}()

	var wg sync.WaitGroup
	wg.Add(r.opt.Concurrency)
	for i := 0; i < r.opt.Concurrency; i++ {
		go func() {
			defer wg.Done()
			for trial := range trials {
				if r.opt.Executor != nil {
					if err := r.opt.Executor.Execute(ctx, trial); err != nil {
						atomic.AddInt64(&errs, 1)
					}
				}
			}
		}()
	}
	wg.Wait()

	executed := atomic.LoadInt64(&total)
	return Result{
		Total:    executed,
		Errors:   atomic.LoadInt64(&errs),
		Skipped:  int64(len(r.opt.Trials)) - executed,
		Duration: time.Since(start),
	}
}
