// Package metrics collects and aggregates sort timings for sortbench.
//
// Each recorded trial belongs to a series identified by [SeriesKey]: the
// strategy, input distribution and input size. A series keeps an
// HdrHistogram of durations plus min/max/sum and success/failure counts.
//
//	collector := metrics.NewCollector()
//	collector.SetPlanned(300)
//	collector.Start()
//
//	collector.RecordTrial(metrics.SeriesKey{
//		Strategy:     "radix",
//		Distribution: "random",
//		Size:         1000,
//	}, elapsed, err)
//
//	stats := collector.Stats(time.Since(start))
//
// # Statistics
//
// [Stats] exposes overall totals, one [SeriesStats] per series (sorted by
// strategy, distribution, size) and one [StrategyStats] rollup per strategy,
// built by merging that strategy's histograms. Durations are also exported as
// floating point milliseconds for JSON and YAML reports.
//
// # Time-Series Data
//
// [Collector.Snapshot] appends a [DataPoint] to the history that the
// dashboard and HTML report chart.
//
// The Collector is safe for concurrent use.
package metrics
