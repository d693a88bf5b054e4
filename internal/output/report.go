package output

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/torosent/sortbench/internal/baseline"
	"github.com/torosent/sortbench/internal/metrics"
	"github.com/torosent/sortbench/internal/threshold"
)

// ReportMetadata describes the configuration a run used.
type ReportMetadata struct {
	Strategies    []string `json:"strategies" yaml:"strategies"`
	Distributions []string `json:"distributions" yaml:"distributions"`
	Sizes         []int    `json:"sizes" yaml:"sizes,flow"`
	Repetitions   int      `json:"repetitions" yaml:"repetitions"`
	Warmup        int      `json:"warmup" yaml:"warmup"`
	Seed          int64    `json:"seed" yaml:"seed"`
	MaxValue      uint64   `json:"max_value" yaml:"max_value"`
	Concurrency   int      `json:"concurrency" yaml:"concurrency"`
	Verify        bool     `json:"verify" yaml:"verify"`
}

// ThresholdSummary aggregates threshold outcomes for reports.
type ThresholdSummary struct {
	Total   int                   `json:"total" yaml:"total"`
	Passed  int                   `json:"passed" yaml:"passed"`
	Failed  int                   `json:"failed" yaml:"failed"`
	Results []ThresholdResultJSON `json:"results" yaml:"results"`
}

// ThresholdResultJSON is the serialisable form of a threshold.Result.
type ThresholdResultJSON struct {
	Threshold string  `json:"threshold" yaml:"threshold"`
	Metric    string  `json:"metric" yaml:"metric"`
	Strategy  string  `json:"strategy,omitempty" yaml:"strategy,omitempty"`
	Aggregate string  `json:"aggregate" yaml:"aggregate"`
	Operator  string  `json:"operator" yaml:"operator"`
	Expected  float64 `json:"expected" yaml:"expected"`
	Actual    float64 `json:"actual" yaml:"actual"`
	Pass      bool    `json:"pass" yaml:"pass"`
}

// SummarizeThresholds converts results into a ThresholdSummary, or nil when
// there are none.
func SummarizeThresholds(results []threshold.Result) *ThresholdSummary {
	if len(results) == 0 {
		return nil
	}
	summary := &ThresholdSummary{
		Total:   len(results),
		Results: make([]ThresholdResultJSON, len(results)),
	}
	for i, tr := range results {
		summary.Results[i] = ThresholdResultJSON{
			Threshold: tr.Threshold.Raw,
			Metric:    tr.Threshold.Metric,
			Strategy:  tr.Threshold.Strategy,
			Aggregate: tr.Threshold.Aggregate,
			Operator:  tr.Threshold.Operator,
			Expected:  tr.Threshold.Value,
			Actual:    tr.Actual,
			Pass:      tr.Pass,
		}
		if tr.Pass {
			summary.Passed++
		} else {
			summary.Failed++
		}
	}
	return summary
}

// Report is everything a run emits.
type Report struct {
	RunID       string               `json:"run_id" yaml:"run_id"`
	GeneratedAt time.Time            `json:"generated_at" yaml:"generated_at"`
	Metadata    ReportMetadata       `json:"config" yaml:"config"`
	Stats       metrics.Stats        `json:"stats" yaml:"stats"`
	Thresholds  *ThresholdSummary    `json:"thresholds,omitempty" yaml:"thresholds,omitempty"`
	Baseline    *baseline.Comparison `json:"baseline,omitempty" yaml:"baseline,omitempty"`
	History     []metrics.DataPoint  `json:"-" yaml:"-"`
}

// PrintReport outputs a human-readable summary report.
func PrintReport(w io.Writer, r Report) {
	stats := r.Stats
	fmt.Fprintln(w, "\n--- Sort Benchmark Results ---")
	if r.RunID != "" {
		fmt.Fprintf(w, "Run ID:            %s\n", r.RunID)
	}
	if stats.Planned > 0 {
		fmt.Fprintf(w, "Trials:            %d of %d\n", stats.Total, stats.Planned)
	} else {
		fmt.Fprintf(w, "Trials:            %d\n", stats.Total)
	}
	fmt.Fprintf(w, "Successful:        %d\n", stats.Successes)
	fmt.Fprintf(w, "Failed:            %d\n", stats.Failures)
	fmt.Fprintf(w, "Duration:          %s\n", stats.Duration)
	fmt.Fprintf(w, "Trials/sec:        %.2f\n", stats.TrialsPerSec)

	if len(stats.Series) > 0 {
		fmt.Fprintln(w, "\nSeries:")
		fmt.Fprintf(w, "  %-10s %-13s %8s %5s %12s %12s %12s %12s %12s %12s %10s\n",
			"STRATEGY", "DISTRIBUTION", "SIZE", "RUNS", "MIN", "MEAN", "P50", "P90", "P99", "MAX", "NS/ELEM")
		for _, s := range stats.Series {
			fmt.Fprintf(w, "  %-10s %-13s %8d %5d %12s %12s %12s %12s %12s %12s %10.2f\n",
				s.Strategy, s.Distribution, s.Size, s.Count,
				s.Min, s.Mean, s.P50, s.P90, s.P99, s.Max, s.NsPerElement)
		}
	}

	if len(stats.Strategies) > 0 {
		fmt.Fprintln(w, "\nStrategies:")
		for _, st := range stats.Strategies {
			fmt.Fprintf(w, "  - %s: trials=%d, failures=%d, mean=%s, p99=%s, ns/elem=%.2f\n",
				st.Strategy, st.Count, st.Failures, st.Mean, st.P99, st.NsPerElement)
		}
	}

	if len(stats.Errors) > 0 {
		fmt.Fprintln(w, "\nErrors:")
		for _, name := range sortedKeys(stats.Errors) {
			fmt.Fprintf(w, "  %s: %d\n", name, stats.Errors[name])
		}
	}

	if r.Thresholds != nil {
		fmt.Fprintf(w, "\nThresholds (%d/%d passed):\n", r.Thresholds.Passed, r.Thresholds.Total)
		for _, tr := range r.Thresholds.Results {
			status := "✓"
			if !tr.Pass {
				status = "✗"
			}
			fmt.Fprintf(w, "  %s %s: %.3f %s %.3f\n", status, tr.Threshold, tr.Actual, tr.Operator, tr.Expected)
		}
	}

	if r.Baseline != nil {
		printComparison(w, *r.Baseline)
	}
}

func printComparison(w io.Writer, cmp baseline.Comparison) {
	header := "\nBaseline"
	if cmp.BaselineRunID != "" {
		header += " " + cmp.BaselineRunID
	}
	fmt.Fprintf(w, "%s (tolerance %.1f%%, %d regressions, %d series not in baseline):\n",
		header, cmp.TolerancePct, cmp.Regressions, cmp.Missing)
	for _, row := range cmp.Rows {
		marker := " "
		if row.Regression {
			marker = "!"
		}
		fmt.Fprintf(w, "  %s %-28s %10.4fms -> %10.4fms  %+7.1f%%\n",
			marker, row.SeriesKey.String(), row.BaselineMs, row.CurrentMs, row.DeltaPct)
	}
}

// PrintJSONReport outputs a JSON-formatted report.
func PrintJSONReport(w io.Writer, r Report) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(r)
}

// PrintYAMLReport outputs a YAML-formatted report.
func PrintYAMLReport(w io.Writer, r Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return err
	}
	return enc.Close()
}

// sortedKeys orders error names by count, highest first, then by name.
func sortedKeys(m map[string]int) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if m[keys[i]] != m[keys[j]] {
			return m[keys[i]] > m[keys[j]]
		}
		return keys[i] < keys[j]
	})
	return keys
}
