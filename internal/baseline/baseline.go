// Package baseline compares a run against a previously saved JSON report.
package baseline

import (
	"errors"
	"fmt"
	"math"
	"os"
	"sort"

	"github.com/tidwall/gjson"

	"github.com/torosent/sortbench/internal/metrics"
)

// ErrInvalidBaseline is returned when a baseline file is not a sortbench JSON report.
var ErrInvalidBaseline = errors.New("invalid baseline report")

// Point is the recorded cost of one series in the baseline.
type Point struct {
	P50Ms  float64
	MeanMs float64
}

// Baseline holds per-series medians from an earlier run.
type Baseline struct {
	RunID  string
	Series map[metrics.SeriesKey]Point
}

// Load reads a JSON report written with --json-output.
func Load(path string) (Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Baseline{}, fmt.Errorf("read baseline: %w", err)
	}
	return Parse(data)
}

// Parse extracts series medians from a JSON report. Reports that carry the
// series at the top level are accepted as well as the nested "stats" form.
func Parse(data []byte) (Baseline, error) {
	if !gjson.ValidBytes(data) {
		return Baseline{}, fmt.Errorf("%w: not valid JSON", ErrInvalidBaseline)
	}

	series := gjson.GetBytes(data, "stats.series")
	if !series.Exists() {
		series = gjson.GetBytes(data, "series")
	}
	if !series.IsArray() {
		return Baseline{}, fmt.Errorf("%w: no series array", ErrInvalidBaseline)
	}

	b := Baseline{
		RunID:  gjson.GetBytes(data, "run_id").String(),
		Series: make(map[metrics.SeriesKey]Point),
	}
	var parseErr error
	series.ForEach(func(_, row gjson.Result) bool {
		strategy := row.Get("strategy")
		dist := row.Get("distribution")
		size := row.Get("size")
		if !strategy.Exists() || !dist.Exists() || !size.Exists() {
			parseErr = fmt.Errorf("%w: series entry missing strategy, distribution or size", ErrInvalidBaseline)
			return false
		}
		key := metrics.SeriesKey{
			Strategy:     strategy.String(),
			Distribution: dist.String(),
			Size:         int(size.Int()),
		}
		b.Series[key] = Point{
			P50Ms:  row.Get("p50_ms").Float(),
			MeanMs: row.Get("mean_ms").Float(),
		}
		return true
	})
	if parseErr != nil {
		return Baseline{}, parseErr
	}
	return b, nil
}

// Row compares one series against the baseline.
type Row struct {
	metrics.SeriesKey `yaml:",inline"`
	BaselineMs        float64 `json:"baseline_p50_ms" yaml:"baseline_p50_ms"`
	CurrentMs         float64 `json:"current_p50_ms" yaml:"current_p50_ms"`
	DeltaPct          float64 `json:"delta_pct" yaml:"delta_pct"`
	Regression        bool    `json:"regression" yaml:"regression"`
}

// Comparison is the outcome of Compare.
type Comparison struct {
	BaselineRunID string  `json:"baseline_run_id,omitempty" yaml:"baseline_run_id,omitempty"`
	TolerancePct  float64 `json:"tolerance_pct" yaml:"tolerance_pct"`
	Rows          []Row   `json:"rows" yaml:"rows"`
	Regressions   int     `json:"regressions" yaml:"regressions"`
	// Missing counts current series absent from the baseline.
	Missing int `json:"missing" yaml:"missing"`
}

// HasRegressions reports whether any series got slower than the tolerance allows.
func (c Comparison) HasRegressions() bool { return c.Regressions > 0 }

// Compare matches current series against base by key. A series regresses
// when its median exceeds the baseline median by more than tolerancePct.
func Compare(current metrics.Stats, base Baseline, tolerancePct float64) Comparison {
	if tolerancePct < 0 {
		tolerancePct = 0
	}
	cmp := Comparison{BaselineRunID: base.RunID, TolerancePct: tolerancePct}

	for _, s := range current.Series {
		p, ok := base.Series[s.SeriesKey]
		if !ok {
			cmp.Missing++
			continue
		}
		row := Row{SeriesKey: s.SeriesKey, BaselineMs: p.P50Ms, CurrentMs: s.P50Ms}
		if p.P50Ms > 0 {
			row.DeltaPct = (s.P50Ms - p.P50Ms) / p.P50Ms * 100
			row.Regression = row.DeltaPct > tolerancePct && !nearlyEqual(row.DeltaPct, tolerancePct)
		}
		if row.Regression {
			cmp.Regressions++
		}
		cmp.Rows = append(cmp.Rows, row)
	}

	sort.SliceStable(cmp.Rows, func(i, j int) bool {
		return cmp.Rows[i].DeltaPct > cmp.Rows[j].DeltaPct
	})
	return cmp
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}
