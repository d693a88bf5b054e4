package runner

import (
	"context"

	"golang.org/x/time/rate"
)

// pacer delegates trial spacing to a rate.Limiter.
type pacer struct {
	limiter *rate.Limiter
}

func newPacer(opt Options) *pacer {
	return &pacer{limiter: opt.LimiterFactory(opt.RatePerSecond)}
}

func (p *pacer) Wait(ctx context.Context) error {
	if p == nil || p.limiter == nil {
		return nil
	}
	return p.limiter.Wait(ctx)
}
