package metrics

import (
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/HdrHistogram/hdrhistogram-go"
)

const (
	lowestTrackable  = 1                       // 1ns
	highestTrackable = int64(60 * time.Second) // durations are recorded in ns
	// Series histograms are numerous; two significant figures keep each one
	// around 30KB while the overall histogram keeps three.
	seriesSigFigs  = 2
	overallSigFigs = 3
	maxHistory     = 3600
)

// SeriesKey identifies one benchmark series.
type SeriesKey struct {
	Strategy     string `json:"strategy" yaml:"strategy"`
	Distribution string `json:"distribution" yaml:"distribution"`
	Size         int    `json:"size" yaml:"size"`
}

func (k SeriesKey) String() string {
	return fmt.Sprintf("%s/%s/%d", k.Strategy, k.Distribution, k.Size)
}

// LatencyStats summarises a set of trial durations.
type LatencyStats struct {
	Count     int64         `json:"count" yaml:"count"`
	Successes int64         `json:"successes" yaml:"successes"`
	Failures  int64         `json:"failures" yaml:"failures"`
	Min       time.Duration `json:"-" yaml:"-"`
	Max       time.Duration `json:"-" yaml:"-"`
	Mean      time.Duration `json:"-" yaml:"-"`
	P50       time.Duration `json:"-" yaml:"-"`
	P90       time.Duration `json:"-" yaml:"-"`
	P95       time.Duration `json:"-" yaml:"-"`
	P99       time.Duration `json:"-" yaml:"-"`

	// JSON-friendly millisecond fields.
	MinMs  float64 `json:"min_ms" yaml:"min_ms"`
	MaxMs  float64 `json:"max_ms" yaml:"max_ms"`
	MeanMs float64 `json:"mean_ms" yaml:"mean_ms"`
	P50Ms  float64 `json:"p50_ms" yaml:"p50_ms"`
	P90Ms  float64 `json:"p90_ms" yaml:"p90_ms"`
	P95Ms  float64 `json:"p95_ms" yaml:"p95_ms"`
	P99Ms  float64 `json:"p99_ms" yaml:"p99_ms"`
}

// SeriesStats is the summary for a single strategy/distribution/size.
type SeriesStats struct {
	SeriesKey    `yaml:",inline"`
	LatencyStats `yaml:",inline"`
	NsPerElement float64 `json:"ns_per_element" yaml:"ns_per_element"`
}

// StrategyStats rolls up every series of one strategy.
type StrategyStats struct {
	Strategy     string `json:"strategy" yaml:"strategy"`
	LatencyStats `yaml:",inline"`
	// NsPerElement averages the per-series cost over non-empty inputs.
	NsPerElement float64 `json:"ns_per_element" yaml:"ns_per_element"`
}

// Stats represents aggregated metrics.
type Stats struct {
	Total        int64           `json:"total" yaml:"total"`
	Successes    int64           `json:"successes" yaml:"successes"`
	Failures     int64           `json:"failures" yaml:"failures"`
	Planned      int64           `json:"planned" yaml:"planned"`
	Duration     time.Duration   `json:"-" yaml:"-"`
	DurationMs   float64         `json:"duration_ms" yaml:"duration_ms"`
	TrialsPerSec float64         `json:"trials_per_sec" yaml:"trials_per_sec"`
	Latency      LatencyStats    `json:"latency" yaml:"latency"`
	Series       []SeriesStats   `json:"series" yaml:"series"`
	Strategies   []StrategyStats `json:"strategies" yaml:"strategies"`
	Errors       map[string]int  `json:"errors,omitempty" yaml:"errors,omitempty"`
}

// DataPoint is one Snapshot of collector progress.
type DataPoint struct {
	Timestamp    time.Time `json:"timestamp"`
	Completed    int64     `json:"completed"`
	Failures     int64     `json:"failures"`
	MeanMs       float64   `json:"mean_ms"`
	P99Ms        float64   `json:"p99_ms"`
	TrialsPerSec float64   `json:"trials_per_sec"`
}

type series struct {
	hist      *hdrhistogram.Histogram
	successes int64
	failures  int64
	min       time.Duration
	max       time.Duration
	sum       time.Duration
}

func newSeries(sigFigs int) *series {
	return &series{hist: hdrhistogram.New(lowestTrackable, highestTrackable, sigFigs)}
}

func (s *series) record(d time.Duration, err error) {
	v := int64(d)
	if v < lowestTrackable {
		v = lowestTrackable
	}
	if v > highestTrackable {
		v = highestTrackable
	}
	_ = s.hist.RecordValue(v)
	s.sum += d
	if s.successes+s.failures == 0 || d < s.min {
		s.min = d
	}
	if d > s.max {
		s.max = d
	}
	if err == nil {
		s.successes++
	} else {
		s.failures++
	}
}

func (s *series) stats() LatencyStats {
	return latencyStats(s.hist, s.successes, s.failures, s.min, s.max, s.sum)
}

// Collector records per-trial metrics in a thread-safe manner.
type Collector struct {
	mu           sync.Mutex
	overall      *series
	series       map[SeriesKey]*series
	errorsByType map[string]int64
	planned      int64
	start        time.Time
	history      []DataPoint
}

func NewCollector() *Collector {
	return &Collector{
		overall:      newSeries(overallSigFigs),
		series:       make(map[SeriesKey]*series),
		errorsByType: make(map[string]int64),
		start:        time.Now(),
	}
}

// Start resets the clock used for throughput in snapshots.
func (c *Collector) Start() {
	c.mu.Lock()
	c.start = time.Now()
	c.mu.Unlock()
}

// SetPlanned records how many trials the run intends to record.
func (c *Collector) SetPlanned(n int) {
	c.mu.Lock()
	c.planned = int64(n)
	c.mu.Unlock()
}

// RecordTrial records one trial's duration and error state.
func (c *Collector) RecordTrial(key SeriesKey, d time.Duration, err error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	s, ok := c.series[key]
	if !ok {
		s = newSeries(seriesSigFigs)
		c.series[key] = s
	}
	s.record(d, err)
	c.overall.record(d, err)

	if err != nil {
		c.errorsByType[FriendlyErrorName(errorTypeName(err))]++
	}
}

// Stats computes and returns current aggregated statistics.
func (c *Collector) Stats(elapsed time.Duration) Stats {
	c.mu.Lock()
	defer c.mu.Unlock()

	stats := Stats{
		Total:     c.overall.successes + c.overall.failures,
		Successes: c.overall.successes,
		Failures:  c.overall.failures,
		Planned:   c.planned,
		Latency:   c.overall.stats(),
	}
	stats.Duration = elapsed
	stats.DurationMs = durationMs(elapsed)
	if elapsed > 0 && stats.Total > 0 {
		stats.TrialsPerSec = float64(stats.Total) / elapsed.Seconds()
	}

	keys := make([]SeriesKey, 0, len(c.series))
	for k := range c.series {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return lessKey(keys[i], keys[j]) })

	type rollup struct {
		s        *series
		nsSum    float64
		nsCount  int
		position int
	}
	rollups := map[string]*rollup{}
	var order []string

	stats.Series = make([]SeriesStats, 0, len(keys))
	for _, k := range keys {
		s := c.series[k]
		ss := SeriesStats{SeriesKey: k, LatencyStats: s.stats()}
		if k.Size > 0 {
			ss.NsPerElement = float64(ss.Mean) / float64(k.Size)
		}
		stats.Series = append(stats.Series, ss)

		r, ok := rollups[k.Strategy]
		if !ok {
			r = &rollup{s: newSeries(seriesSigFigs), position: len(order)}
			rollups[k.Strategy] = r
			order = append(order, k.Strategy)
		}
		r.s.hist.Merge(s.hist)
		if r.s.successes+r.s.failures == 0 || s.min < r.s.min {
			r.s.min = s.min
		}
		if s.max > r.s.max {
			r.s.max = s.max
		}
		r.s.sum += s.sum
		r.s.successes += s.successes
		r.s.failures += s.failures
		if k.Size > 0 {
			r.nsSum += ss.NsPerElement
			r.nsCount++
		}
	}

	stats.Strategies = make([]StrategyStats, 0, len(order))
	for _, name := range order {
		r := rollups[name]
		st := StrategyStats{Strategy: name, LatencyStats: r.s.stats()}
		if r.nsCount > 0 {
			st.NsPerElement = r.nsSum / float64(r.nsCount)
		}
		stats.Strategies = append(stats.Strategies, st)
	}

	if len(c.errorsByType) > 0 {
		stats.Errors = make(map[string]int, len(c.errorsByType))
		for k, v := range c.errorsByType {
			stats.Errors[k] = int(v)
		}
	}

	return stats
}

// Snapshot appends the current totals to the history.
func (c *Collector) Snapshot() {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := time.Now()
	completed := c.overall.successes + c.overall.failures
	point := DataPoint{
		Timestamp: now,
		Completed: completed,
		Failures:  c.overall.failures,
	}
	if completed > 0 {
		point.MeanMs = durationMs(c.overall.sum / time.Duration(completed))
		point.P99Ms = durationMs(time.Duration(c.overall.hist.ValueAtQuantile(99)))
	}
	if elapsed := now.Sub(c.start); elapsed > 0 {
		point.TrialsPerSec = float64(completed) / elapsed.Seconds()
	}
	c.history = append(c.history, point)
	if len(c.history) > maxHistory {
		c.history = c.history[len(c.history)-maxHistory:]
	}
}

// History returns a copy of the recorded snapshots.
func (c *Collector) History() []DataPoint {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]DataPoint(nil), c.history...)
}

// GetErrorBreakdown returns a map of error types to their counts.
func (c *Collector) GetErrorBreakdown() map[string]int {
	c.mu.Lock()
	defer c.mu.Unlock()

	result := make(map[string]int)
	for k, v := range c.errorsByType {
		result[k] = int(v)
	}
	return result
}

func latencyStats(h *hdrhistogram.Histogram, successes, failures int64, min, max, sum time.Duration) LatencyStats {
	ls := LatencyStats{
		Count:     successes + failures,
		Successes: successes,
		Failures:  failures,
		Min:       min,
		Max:       max,
	}
	if ls.Count > 0 {
		ls.Mean = sum / time.Duration(ls.Count)
	}
	if h.TotalCount() > 0 {
		ls.P50 = time.Duration(h.ValueAtQuantile(50))
		ls.P90 = time.Duration(h.ValueAtQuantile(90))
		ls.P95 = time.Duration(h.ValueAtQuantile(95))
		ls.P99 = time.Duration(h.ValueAtQuantile(99))
	}
	ls.MinMs = durationMs(ls.Min)
	ls.MaxMs = durationMs(ls.Max)
	ls.MeanMs = durationMs(ls.Mean)
	ls.P50Ms = durationMs(ls.P50)
	ls.P90Ms = durationMs(ls.P90)
	ls.P95Ms = durationMs(ls.P95)
	ls.P99Ms = durationMs(ls.P99)
	return ls
}

func lessKey(a, b SeriesKey) bool {
	if a.Strategy != b.Strategy {
		return a.Strategy < b.Strategy
	}
	if a.Distribution != b.Distribution {
		return a.Distribution < b.Distribution
	}
	return a.Size < b.Size
}

func durationMs(d time.Duration) float64 {
	return float64(d) / float64(time.Millisecond)
}
