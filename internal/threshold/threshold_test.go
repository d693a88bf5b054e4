package threshold

import (
	"strings"
	"testing"
	"time"

	"github.com/torosent/sortbench/internal/metrics"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name      string
		input     string
		want      Threshold
		wantError bool
	}{
		{
			name:  "valid p95 duration threshold",
			input: "sort_duration:p95 < 5",
			want: Threshold{
				Metric:    "sort_duration",
				Aggregate: "p95",
				Operator:  "<",
				Value:     5,
				Raw:       "sort_duration:p95 < 5",
			},
		},
		{
			name:  "strategy filter",
			input: "sort_duration{radix}:p99 <= 10",
			want: Threshold{
				Metric:    "sort_duration",
				Strategy:  "radix",
				Aggregate: "p99",
				Operator:  "<=",
				Value:     10,
				Raw:       "sort_duration{radix}:p99 <= 10",
			},
		},
		{
			name:  "valid failure rate threshold",
			input: "sort_failed:rate < 0.01",
			want: Threshold{
				Metric:    "sort_failed",
				Aggregate: "rate",
				Operator:  "<",
				Value:     0.01,
				Raw:       "sort_failed:rate < 0.01",
			},
		},
		{
			name:  "valid sorts rate threshold with >",
			input: "sorts:rate > 100",
			want: Threshold{
				Metric:    "sorts",
				Aggregate: "rate",
				Operator:  ">",
				Value:     100,
				Raw:       "sorts:rate > 100",
			},
		},
		{
			name:  "whitespace trimmed and case folded",
			input: "  SORT_FAILED:count == 0  ",
			want: Threshold{
				Metric:    "sort_failed",
				Aggregate: "count",
				Operator:  "==",
				Value:     0,
				Raw:       "SORT_FAILED:count == 0",
			},
		},
		{name: "empty string", input: "", wantError: true},
		{name: "missing operator", input: "sort_duration:p95 5", wantError: true},
		{name: "unknown metric", input: "http_req_duration:p95 < 5", wantError: true},
		{name: "unknown aggregate", input: "sort_duration:p42 < 5", wantError: true},
		{name: "invalid operator", input: "sort_duration:p95 != 5", wantError: true},
		{name: "malformed filter", input: "sort_duration{radix:p95 < 5", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(tt.input)
			if tt.wantError {
				if err == nil {
					t.Fatalf("Parse(%q) expected error, got %+v", tt.input, got)
				}
				return
			}
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %+v, want %+v", tt.input, got, tt.want)
			}
		})
	}
}

func TestParseMultiple(t *testing.T) {
	got, err := ParseMultiple([]string{"sort_duration:p95 < 5", "sorts:count >= 10"})
	if err != nil {
		t.Fatalf("ParseMultiple() error = %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("ParseMultiple() returned %d thresholds, want 2", len(got))
	}

	if got, err := ParseMultiple(nil); err != nil || got != nil {
		t.Fatalf("ParseMultiple(nil) = %v, %v; want nil, nil", got, err)
	}

	_, err = ParseMultiple([]string{"sort_duration:p95 < 5", "bogus", "sorts:max > 1"})
	if err == nil {
		t.Fatal("ParseMultiple() expected error for invalid entries")
	}
	if !strings.Contains(err.Error(), "threshold[1]") {
		t.Errorf("error should name the failing index, got %v", err)
	}
}

func sampleStats() metrics.Stats {
	return metrics.Stats{
		Total:     100,
		Successes: 98,
		Failures:  2,
		Duration:  10 * time.Second,
		Latency: metrics.LatencyStats{
			Count: 100, MinMs: 0.5, MaxMs: 40, MeanMs: 4,
			P50Ms: 3, P90Ms: 8, P95Ms: 12, P99Ms: 30,
		},
		Strategies: []metrics.StrategyStats{
			{Strategy: "insertion", LatencyStats: metrics.LatencyStats{Count: 50, Failures: 2, MeanMs: 7, P99Ms: 30}},
			{Strategy: "radix", LatencyStats: metrics.LatencyStats{Count: 50, MeanMs: 1, P99Ms: 2}},
		},
	}
}

func TestEvaluator(t *testing.T) {
	stats := sampleStats()

	tests := []struct {
		name      string
		threshold string
		wantPass  bool
		wantValue float64
	}{
		{"p95 passes", "sort_duration:p95 < 20", true, 12},
		{"p99 fails", "sort_duration:p99 < 20", false, 30},
		{"avg", "sort_duration:avg <= 4", true, 4},
		{"min", "sort_duration:min > 0.1", true, 0.5},
		{"max", "sort_duration:max < 50", true, 40},
		{"radix p99", "sort_duration{radix}:p99 < 5", true, 2},
		{"insertion p99", "sort_duration{insertion}:p99 < 5", false, 30},
		{"failure rate", "sort_failed:rate < 0.05", true, 0.02},
		{"failure count", "sort_failed:count == 0", false, 2},
		{"radix failures", "sort_failed{radix}:count == 0", true, 0},
		{"sorts count", "sorts:count >= 100", true, 100},
		{"sorts rate", "sorts:rate >= 10", true, 10},
		{"strategy sorts rate", "sorts{radix}:rate == 5", true, 5},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			th, err := Parse(tt.threshold)
			if err != nil {
				t.Fatalf("Parse() error = %v", err)
			}
			results := NewEvaluator([]Threshold{th}).Evaluate(stats)
			if len(results) != 1 {
				t.Fatalf("Evaluate() returned %d results, want 1", len(results))
			}
			r := results[0]
			if r.Pass != tt.wantPass {
				t.Errorf("Pass = %v, want %v (%s)", r.Pass, tt.wantPass, r.Message)
			}
			if !compareValues(r.Actual, "==", tt.wantValue) {
				t.Errorf("Actual = %v, want %v", r.Actual, tt.wantValue)
			}
		})
	}
}

func TestEvaluatorUnknownStrategy(t *testing.T) {
	th, err := Parse("sort_duration{counting}:p99 < 5")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	results := NewEvaluator([]Threshold{th}).Evaluate(sampleStats())
	if results[0].Pass {
		t.Fatal("threshold on a strategy with no trials should fail")
	}
	if !strings.Contains(results[0].Message, "counting") {
		t.Errorf("message should name the strategy, got %q", results[0].Message)
	}
}

func TestEvaluatorNoThresholds(t *testing.T) {
	if got := NewEvaluator(nil).Evaluate(sampleStats()); got != nil {
		t.Fatalf("Evaluate() with no thresholds = %v, want nil", got)
	}
}

func TestCompareValues(t *testing.T) {
	tests := []struct {
		actual   float64
		operator string
		expected float64
		want     bool
	}{
		{1, "<", 2, true},
		{2, "<", 2, false},
		{2, "<=", 2, true},
		{3, ">", 2, true},
		{2, ">=", 2, true},
		{0.1 + 0.2, "==", 0.3, true},
		{1, "!=", 2, false},
	}
	for _, tt := range tests {
		if got := compareValues(tt.actual, tt.operator, tt.expected); got != tt.want {
			t.Errorf("compareValues(%v, %q, %v) = %v, want %v", tt.actual, tt.operator, tt.expected, got, tt.want)
		}
	}
}
