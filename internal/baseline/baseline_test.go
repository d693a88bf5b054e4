package baseline

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/torosent/sortbench/internal/metrics"
)

const sampleReport = `{
  "run_id": "01J9ZX0000000000000000TEST",
  "stats": {
    "total": 3,
    "series": [
      {"strategy": "radix", "distribution": "random", "size": 100, "p50_ms": 0.010, "mean_ms": 0.012},
      {"strategy": "insertion", "distribution": "worst", "size": 100, "p50_ms": 0.200, "mean_ms": 0.210},
      {"strategy": "counting", "distribution": "best", "size": 100, "p50_ms": 0, "mean_ms": 0}
    ]
  }
}`

func TestParse(t *testing.T) {
	b, err := Parse([]byte(sampleReport))
	require.NoError(t, err)

	assert.Equal(t, "01J9ZX0000000000000000TEST", b.RunID)
	require.Len(t, b.Series, 3)
	p := b.Series[metrics.SeriesKey{Strategy: "insertion", Distribution: "worst", Size: 100}]
	assert.InDelta(t, 0.2, p.P50Ms, 1e-12)
	assert.InDelta(t, 0.21, p.MeanMs, 1e-12)
}

func TestParseTopLevelSeries(t *testing.T) {
	b, err := Parse([]byte(`{"series":[{"strategy":"radix","distribution":"random","size":10,"p50_ms":1}]}`))
	require.NoError(t, err)
	assert.Len(t, b.Series, 1)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"not json", `{"stats":`},
		{"no series", `{"stats":{"total":1}}`},
		{"series not array", `{"series":{"strategy":"radix"}}`},
		{"missing key field", `{"series":[{"strategy":"radix","size":10}]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.input))
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidBaseline), "got %v", err)
		})
	}
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "baseline.json")
	require.NoError(t, os.WriteFile(path, []byte(sampleReport), 0o644))

	b, err := Load(path)
	require.NoError(t, err)
	assert.Len(t, b.Series, 3)

	_, err = Load(filepath.Join(t.TempDir(), "missing.json"))
	require.Error(t, err)
}

func TestCompare(t *testing.T) {
	b, err := Parse([]byte(sampleReport))
	require.NoError(t, err)

	current := metrics.Stats{Series: []metrics.SeriesStats{
		{SeriesKey: metrics.SeriesKey{Strategy: "radix", Distribution: "random", Size: 100}, LatencyStats: metrics.LatencyStats{P50Ms: 0.015}},
		{SeriesKey: metrics.SeriesKey{Strategy: "insertion", Distribution: "worst", Size: 100}, LatencyStats: metrics.LatencyStats{P50Ms: 0.210}},
		{SeriesKey: metrics.SeriesKey{Strategy: "counting", Distribution: "best", Size: 100}, LatencyStats: metrics.LatencyStats{P50Ms: 0.001}},
		{SeriesKey: metrics.SeriesKey{Strategy: "radix", Distribution: "random", Size: 200}, LatencyStats: metrics.LatencyStats{P50Ms: 0.02}},
	}}

	cmp := Compare(current, b, 10)
	require.Len(t, cmp.Rows, 3)
	assert.Equal(t, 1, cmp.Missing)
	assert.Equal(t, 1, cmp.Regressions)
	assert.True(t, cmp.HasRegressions())

	// Worst delta sorts first.
	assert.Equal(t, "radix", cmp.Rows[0].Strategy)
	assert.InDelta(t, 50, cmp.Rows[0].DeltaPct, 1e-6)
	assert.True(t, cmp.Rows[0].Regression)

	assert.InDelta(t, 5, cmp.Rows[1].DeltaPct, 1e-6)
	assert.False(t, cmp.Rows[1].Regression)

	// A zero baseline median cannot regress.
	assert.Equal(t, "counting", cmp.Rows[2].Strategy)
	assert.False(t, cmp.Rows[2].Regression)
}

func TestCompareToleranceBoundary(t *testing.T) {
	key := metrics.SeriesKey{Strategy: "radix", Distribution: "random", Size: 10}
	b := Baseline{Series: map[metrics.SeriesKey]Point{key: {P50Ms: 1}}}
	current := metrics.Stats{Series: []metrics.SeriesStats{{SeriesKey: key, LatencyStats: metrics.LatencyStats{P50Ms: 1.1}}}}

	assert.False(t, Compare(current, b, 10).HasRegressions(), "exactly at tolerance is not a regression")
	assert.True(t, Compare(current, b, 5).HasRegressions())
	assert.True(t, Compare(current, b, -1).HasRegressions(), "negative tolerance is clamped to zero")
}
