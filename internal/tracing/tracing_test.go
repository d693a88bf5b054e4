package tracing_test

import (
	"context"
	"errors"
	"testing"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"

	"github.com/torosent/sortbench/internal/config"
	"github.com/torosent/sortbench/internal/tracing"
)

func setupTestTracer(t *testing.T) (*tracetest.InMemoryExporter, trace.Tracer) {
	t.Helper()
	exporter := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exporter))
	t.Cleanup(func() {
		_ = tp.Shutdown(context.Background())
	})
	return exporter, tp.Tracer("test")
}

func TestInitDisabledByDefault(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	p, err := tracing.Init(context.Background(), config.TracingConfig{}, "")
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	if p.Enabled() {
		t.Error("Enabled() = true, want false when no endpoint is configured")
	}

	_, span := p.Tracer().Start(context.Background(), "test")
	span.End()
	if span.SpanContext().IsValid() {
		t.Error("no-op tracer produced a valid span context")
	}
}

func TestInitWithEndpointEnablesTracing(t *testing.T) {
	// The exporter connects lazily, so no collector is needed here.
	p, err := tracing.Init(context.Background(), config.TracingConfig{
		Endpoint:    "localhost:4317",
		Protocol:    "grpc",
		ServiceName: "test-service",
		SampleRate:  1.0,
		Insecure:    true,
	}, "01J9Z3T6Q8W5M2K4H7N1R0B3CD")
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	if !p.Enabled() {
		t.Error("Enabled() = false, want true when endpoint configured")
	}
}

func TestInitHTTPProtocol(t *testing.T) {
	p, err := tracing.Init(context.Background(), config.TracingConfig{
		Endpoint: "localhost:4318",
		Protocol: "http",
		Insecure: true,
	}, "01J9Z3T6Q8W5M2K4H7N1R0B3CD")
	if err != nil {
		t.Fatalf("Init() with http protocol error = %v", err)
	}
	t.Cleanup(func() { _ = p.Shutdown(context.Background()) })

	if !p.Enabled() {
		t.Error("Enabled() = false, want true")
	}
}

func TestInitUnsupportedProtocol(t *testing.T) {
	_, err := tracing.Init(context.Background(), config.TracingConfig{
		Endpoint: "localhost:4317",
		Protocol: "thrift",
		Insecure: true,
	}, "01J9Z3T6Q8W5M2K4H7N1R0B3CD")
	if err == nil {
		t.Fatal("Init() with unsupported protocol should return error")
	}
}

func TestInitInvalidSampleRate(t *testing.T) {
	tests := []struct {
		name string
		rate float64
	}{
		{"negative", -0.5},
		{"above one", 1.5},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := tracing.Init(context.Background(), config.TracingConfig{
				Endpoint:   "localhost:4317",
				Protocol:   "grpc",
				Insecure:   true,
				SampleRate: tt.rate,
			}, "01J9Z3T6Q8W5M2K4H7N1R0B3CD")
			if err == nil {
				t.Fatalf("Init() with sample_rate=%g should return error", tt.rate)
			}
		})
	}
}

func TestInitKeepsRunID(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	const runID = "01J9Z3T6Q8W5M2K4H7N1R0B3CD"

	disabled, err := tracing.Init(context.Background(), config.TracingConfig{}, runID)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	if got := disabled.RunID(); got != runID {
		t.Errorf("disabled RunID() = %q, want %q", got, runID)
	}

	enabled, err := tracing.Init(context.Background(), config.TracingConfig{
		Endpoint:   "localhost:4317",
		Insecure:   true,
		SampleRate: 0.5,
	}, runID)
	if err != nil {
		t.Fatalf("Init() error = %v", err)
	}
	t.Cleanup(func() { _ = enabled.Shutdown(context.Background()) })
	if got := enabled.RunID(); got != runID {
		t.Errorf("enabled RunID() = %q, want %q", got, runID)
	}
}

func TestNilProviderSafety(t *testing.T) {
	var p *tracing.Provider
	if p.RunID() != "" {
		t.Error("nil provider RunID() should be empty")
	}
	if p.Enabled() {
		t.Error("nil provider Enabled() = true, want false")
	}
	if err := p.Shutdown(context.Background()); err != nil {
		t.Errorf("nil provider Shutdown() error = %v", err)
	}
	_, span := p.Tracer().Start(context.Background(), "test")
	span.End()
}

func TestStartTrialSpan(t *testing.T) {
	exporter, tracer := setupTestTracer(t)

	tests := []struct {
		name     string
		attrs    tracing.TrialAttributes
		wantName string
		wantWarm bool
	}{
		{"radix", tracing.TrialAttributes{Strategy: "radix", Distribution: "random", Size: 100}, "sort radix", false},
		{"insertion warmup", tracing.TrialAttributes{Strategy: "insertion", Distribution: "worst", Size: 10, Repetition: -1, Warmup: true}, "sort insertion", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			exporter.Reset()

			_, span := tracing.StartTrialSpan(context.Background(), tracer, tt.attrs)
			span.End()

			spans := exporter.GetSpans()
			if len(spans) != 1 {
				t.Fatalf("got %d spans, want 1", len(spans))
			}
			if spans[0].Name != tt.wantName {
				t.Errorf("span name = %q, want %q", spans[0].Name, tt.wantName)
			}

			got := map[attribute.Key]attribute.Value{}
			for _, attr := range spans[0].Attributes {
				got[attr.Key] = attr.Value
			}
			if v := got["sortbench.strategy"]; v.AsString() != tt.attrs.Strategy {
				t.Errorf("strategy attribute = %q, want %q", v.AsString(), tt.attrs.Strategy)
			}
			if v := got["sortbench.size"]; v.AsInt64() != int64(tt.attrs.Size) {
				t.Errorf("size attribute = %d, want %d", v.AsInt64(), tt.attrs.Size)
			}
			if _, ok := got["sortbench.warmup"]; ok != tt.wantWarm {
				t.Errorf("warmup attribute present = %v, want %v", ok, tt.wantWarm)
			}
		})
	}
}

func TestEndSpanRecordsError(t *testing.T) {
	exporter, tracer := setupTestTracer(t)

	_, span := tracer.Start(context.Background(), "test-error")
	tracing.EndSpan(span, errors.New("key out of range"))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Status.Code != codes.Error {
		t.Errorf("span status code = %d, want %d (Error)", spans[0].Status.Code, codes.Error)
	}
	if len(spans[0].Events) == 0 {
		t.Error("expected an exception event on the span")
	}
}

func TestEndSpanOk(t *testing.T) {
	exporter, tracer := setupTestTracer(t)

	_, span := tracer.Start(context.Background(), "test-ok")
	tracing.EndSpan(span, nil, attribute.Int64("sortbench.duration_ns", 42))

	spans := exporter.GetSpans()
	if len(spans) != 1 {
		t.Fatalf("got %d spans, want 1", len(spans))
	}
	if spans[0].Status.Code != codes.Ok {
		t.Errorf("span status code = %d, want %d (Ok)", spans[0].Status.Code, codes.Ok)
	}
	found := false
	for _, attr := range spans[0].Attributes {
		if attr.Key == "sortbench.duration_ns" && attr.Value.AsInt64() == 42 {
			found = true
		}
	}
	if !found {
		t.Error("duration attribute not recorded")
	}
}
