package runner

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"

	"github.com/torosent/sortbench/internal/metrics"
	"github.com/torosent/sortbench/internal/tracing"
	"github.com/torosent/sortbench/internal/workload"
)

// ErrNoGenerator is returned by a SortExecutor constructed without a generator.
var ErrNoGenerator = errors.New("runner: sort executor has no workload generator")

// SortExecutor generates a trial's input, times the selected strategy and
// records the result. Warm-up trials are executed but never recorded.
type SortExecutor struct {
	Generator *workload.Generator
	Collector *metrics.Collector // optional
	Tracer    trace.Tracer       // optional
	Verify    bool

	// now is swapped by tests; nil means time.Now.
	now func() time.Time
}

func (e *SortExecutor) Execute(ctx context.Context, trial Trial) error {
	if e.Generator == nil {
		return ErrNoGenerator
	}
	w, err := e.Generator.Generate(trial.Distribution, trial.Size, trial.Repetition)
	if err != nil {
		return fmt.Errorf("%s: %w", trial, err)
	}

	tracer := e.Tracer
	if tracer == nil {
		tracer = noop.NewTracerProvider().Tracer("sortbench")
	}
	_, span := tracing.StartTrialSpan(ctx, tracer, tracing.TrialAttributes{
		Strategy:     string(trial.Strategy),
		Distribution: string(trial.Distribution),
		Size:         trial.Size,
		Repetition:   trial.Repetition,
		Warmup:       trial.Warmup,
	})

	now := e.now
	if now == nil {
		now = time.Now
	}
	start := now()
	out, err := trial.Strategy.Sort(w.Values, w.Bound)
	elapsed := now().Sub(start)

	if err == nil && e.Verify {
		err = Verify(w.Values, out)
	}
	if !trial.Warmup && e.Collector != nil {
		e.Collector.RecordTrial(trial.Key(), elapsed, err)
	}
	tracing.EndSpan(span, err, attribute.Int64("sortbench.duration_ns", elapsed.Nanoseconds()))

	if err != nil {
		return fmt.Errorf("%s: %w", trial, err)
	}
	return nil
}
