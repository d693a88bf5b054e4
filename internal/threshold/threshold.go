package threshold

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/torosent/sortbench/internal/metrics"
)

// Threshold represents a performance assertion that can pass or fail.
type Threshold struct {
	Metric    string  // e.g., "sort_duration", "sort_failed"
	Strategy  string  // optional strategy filter, empty for every strategy
	Aggregate string  // e.g., "p95", "p99", "avg", "max", "rate"
	Operator  string  // e.g., "<", "<=", ">", ">=", "=="
	Value     float64 // The threshold value to compare against
	Raw       string  // Original threshold string for display
}

// Result represents the outcome of evaluating a threshold.
type Result struct {
	Threshold Threshold
	Actual    float64
	Pass      bool
	Message   string
}

// Evaluator evaluates thresholds against collected metrics.
type Evaluator struct {
	thresholds []Threshold
}

// NewEvaluator creates a new threshold evaluator.
func NewEvaluator(thresholds []Threshold) *Evaluator {
	return &Evaluator{
		thresholds: thresholds,
	}
}

// Evaluate checks all thresholds against the provided stats.
func (e *Evaluator) Evaluate(stats metrics.Stats) []Result {
	if len(e.thresholds) == 0 {
		return nil
	}

	results := make([]Result, 0, len(e.thresholds))
	for _, t := range e.thresholds {
		result := e.evaluateOne(t, stats)
		results = append(results, result)
	}
	return results
}

func (e *Evaluator) evaluateOne(t Threshold, stats metrics.Stats) Result {
	actual, err := extractMetricValue(t, stats)
	if err != nil {
		return Result{
			Threshold: t,
			Actual:    0,
			Pass:      false,
			Message:   fmt.Sprintf("error: %v", err),
		}
	}

	pass := compareValues(actual, t.Operator, t.Value)
	status := "✓"
	if !pass {
		status = "✗"
	}

	message := fmt.Sprintf("%s %s: %.2f %s %.2f", status, t.Raw, actual, t.Operator, t.Value)
	return Result{
		Threshold: t,
		Actual:    actual,
		Pass:      pass,
		Message:   message,
	}
}

// Pattern: metric{strategy}:aggregate operator value, strategy optional.
var thresholdPattern = regexp.MustCompile(`^([a-z_]+)(?:\{([a-z]+)\})?:([a-z0-9]+)\s*([<>=!]+)\s*([0-9.]+)$`)

// Parse parses a threshold string into a Threshold struct.
// Supported formats:
// - "sort_duration:p95 < 5"           (duration percentile in ms)
// - "sort_duration{radix}:avg < 2"    (mean duration of one strategy in ms)
// - "sort_duration:max < 1000"        (max duration in ms)
// - "sort_failed:rate < 0.01"         (failure rate as decimal)
// - "sort_failed:count == 0"          (failure count)
// - "sorts:rate > 100"                (sorts per second)
func Parse(s string) (Threshold, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Threshold{}, fmt.Errorf("empty threshold string")
	}

	matches := thresholdPattern.FindStringSubmatch(strings.ToLower(s))
	if matches == nil {
		return Threshold{}, fmt.Errorf("invalid threshold format: %q (expected format: metric:aggregate operator value, e.g., 'sort_duration:p95 < 5')", s)
	}

	metric := matches[1]
	strategy := matches[2]
	aggregate := matches[3]
	operator := matches[4]
	valueStr := matches[5]

	value, err := strconv.ParseFloat(valueStr, 64)
	if err != nil {
		return Threshold{}, fmt.Errorf("invalid threshold value %q: %v", valueStr, err)
	}

	// Validate metric
	if !isValidMetric(metric) {
		return Threshold{}, fmt.Errorf("unsupported metric: %q (supported: sort_duration, sort_failed, sorts)", metric)
	}

	// Validate aggregate
	if !isValidAggregate(aggregate) {
		return Threshold{}, fmt.Errorf("unsupported aggregate: %q (supported: p50, p90, p95, p99, avg, min, max, rate, count)", aggregate)
	}

	// Validate operator
	if !isValidOperator(operator) {
		return Threshold{}, fmt.Errorf("unsupported operator: %q (supported: <, <=, >, >=, ==)", operator)
	}

	return Threshold{
		Metric:    metric,
		Strategy:  strategy,
		Aggregate: aggregate,
		Operator:  operator,
		Value:     value,
		Raw:       s,
	}, nil
}

// ParseMultiple parses multiple threshold strings.
func ParseMultiple(thresholds []string) ([]Threshold, error) {
	if len(thresholds) == 0 {
		return nil, nil
	}

	result := make([]Threshold, 0, len(thresholds))
	var errors []string

	for i, s := range thresholds {
		t, err := Parse(s)
		if err != nil {
			errors = append(errors, fmt.Sprintf("threshold[%d]: %v", i, err))
			continue
		}
		result = append(result, t)
	}

	if len(errors) > 0 {
		return nil, fmt.Errorf("threshold parsing errors: %s", strings.Join(errors, "; "))
	}

	return result, nil
}

func isValidMetric(metric string) bool {
	valid := []string{"sort_duration", "sort_failed", "sorts"}
	for _, v := range valid {
		if metric == v {
			return true
		}
	}
	return false
}

func isValidAggregate(aggregate string) bool {
	valid := []string{"p50", "p90", "p95", "p99", "avg", "min", "max", "rate", "count"}
	for _, v := range valid {
		if aggregate == v {
			return true
		}
	}
	return false
}

func isValidOperator(operator string) bool {
	valid := []string{"<", "<=", ">", ">=", "=="}
	for _, v := range valid {
		if operator == v {
			return true
		}
	}
	return false
}

// scope is the slice of stats a threshold is evaluated against.
type scope struct {
	latency metrics.LatencyStats
	total   int64
	failed  int64
	seconds float64
}

func scopeFor(t Threshold, stats metrics.Stats) (scope, error) {
	sc := scope{seconds: stats.Duration.Seconds()}
	if t.Strategy == "" {
		sc.latency = stats.Latency
		sc.total = stats.Total
		sc.failed = stats.Failures
		return sc, nil
	}
	for _, st := range stats.Strategies {
		if st.Strategy == t.Strategy {
			sc.latency = st.LatencyStats
			sc.total = st.Count
			sc.failed = st.Failures
			return sc, nil
		}
	}
	return scope{}, fmt.Errorf("no trials recorded for strategy %q", t.Strategy)
}

func extractMetricValue(t Threshold, stats metrics.Stats) (float64, error) {
	sc, err := scopeFor(t, stats)
	if err != nil {
		return 0, err
	}
	switch t.Metric {
	case "sort_duration":
		return extractDurationMetric(t.Aggregate, sc)
	case "sort_failed":
		return extractFailureMetric(t.Aggregate, sc)
	case "sorts":
		return extractSortMetric(t.Aggregate, sc)
	default:
		return 0, fmt.Errorf("unknown metric: %s", t.Metric)
	}
}

func extractDurationMetric(aggregate string, sc scope) (float64, error) {
	switch aggregate {
	case "p50":
		return sc.latency.P50Ms, nil
	case "p90":
		return sc.latency.P90Ms, nil
	case "p95":
		return sc.latency.P95Ms, nil
	case "p99":
		return sc.latency.P99Ms, nil
	case "avg", "mean":
		return sc.latency.MeanMs, nil
	case "min":
		return sc.latency.MinMs, nil
	case "max":
		return sc.latency.MaxMs, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for sort_duration", aggregate)
	}
}

func extractFailureMetric(aggregate string, sc scope) (float64, error) {
	switch aggregate {
	case "count":
		return float64(sc.failed), nil
	case "rate":
		if sc.total == 0 {
			return 0, nil
		}
		return float64(sc.failed) / float64(sc.total), nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for sort_failed (use 'count' or 'rate')", aggregate)
	}
}

func extractSortMetric(aggregate string, sc scope) (float64, error) {
	switch aggregate {
	case "count":
		return float64(sc.total), nil
	case "rate":
		if sc.seconds <= 0 {
			return 0, nil
		}
		return float64(sc.total) / sc.seconds, nil
	default:
		return 0, fmt.Errorf("unsupported aggregate %q for sorts (use 'count' or 'rate')", aggregate)
	}
}

func compareValues(actual float64, operator string, expected float64) bool {
	// Handle floating point comparison with small epsilon
	epsilon := 1e-9

	switch operator {
	case "<":
		return actual < expected
	case "<=":
		return actual <= expected || math.Abs(actual-expected) < epsilon
	case ">":
		return actual > expected
	case ">=":
		return actual >= expected || math.Abs(actual-expected) < epsilon
	case "==":
		return math.Abs(actual-expected) < epsilon
	default:
		return false
	}
}
