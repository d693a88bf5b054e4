package tracing

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TrialAttributes describes the trial a span covers.
type TrialAttributes struct {
	Strategy     string
	Distribution string
	Size         int
	Repetition   int
	Warmup       bool
}

// StartTrialSpan starts a span named "sort <strategy>" for a single trial.
func StartTrialSpan(ctx context.Context, tracer trace.Tracer, t TrialAttributes) (context.Context, trace.Span) {
	ctx, span := tracer.Start(ctx, SpanName(t.Strategy),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
	span.SetAttributes(
		attribute.String("sortbench.strategy", t.Strategy),
		attribute.String("sortbench.distribution", t.Distribution),
		attribute.Int("sortbench.size", t.Size),
		attribute.Int("sortbench.repetition", t.Repetition),
	)
	if t.Warmup {
		span.SetAttributes(attribute.Bool("sortbench.warmup", true))
	}
	return ctx, span
}

// EndSpan finishes a span, recording error status if applicable.
func EndSpan(span trace.Span, err error, attrs ...attribute.KeyValue) {
	if len(attrs) > 0 {
		span.SetAttributes(attrs...)
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	} else {
		span.SetStatus(codes.Ok, "")
	}
	span.End()
}

// SpanName returns the span name used for strategy, matching StartTrialSpan.
func SpanName(strategy string) string {
	return "sort " + strategy
}
