package output

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/torosent/sortbench/internal/metrics"
)

// NewRegistry builds a private registry holding the run's results as gauges.
func NewRegistry(r Report) *prometheus.Registry {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	duration := factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sortbench",
		Name:      "sort_duration_seconds",
		Help:      "Sort duration per series at the given quantile.",
	}, []string{"strategy", "distribution", "size", "quantile"})

	perElement := factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sortbench",
		Name:      "ns_per_element",
		Help:      "Mean sort duration divided by input size, in nanoseconds.",
	}, []string{"strategy", "distribution", "size"})

	sorts := factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sortbench",
		Name:      "sorts_total",
		Help:      "Recorded sorts per strategy by result.",
	}, []string{"strategy", "result"})

	info := factory.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "sortbench",
		Name:      "run_info",
		Help:      "Constant 1, labelled with the run identifier.",
	}, []string{"run_id"})

	for _, s := range r.Stats.Series {
		size := strconv.Itoa(s.Size)
		for _, q := range quantiles(s.LatencyStats) {
			duration.WithLabelValues(s.Strategy, s.Distribution, size, q.label).Set(q.value.Seconds())
		}
		if s.Size > 0 {
			perElement.WithLabelValues(s.Strategy, s.Distribution, size).Set(s.NsPerElement)
		}
	}
	for _, st := range r.Stats.Strategies {
		sorts.WithLabelValues(st.Strategy, "success").Set(float64(st.Successes))
		sorts.WithLabelValues(st.Strategy, "failure").Set(float64(st.Failures))
	}
	if r.RunID != "" {
		info.WithLabelValues(r.RunID).Set(1)
	}
	return reg
}

// WriteTextfile writes the run's gauges in the text exposition format for
// the node_exporter textfile collector.
func WriteTextfile(path string, r Report) error {
	reg := NewRegistry(r)
	return withLock(path, func() error {
		return prometheus.WriteToTextfile(path, reg)
	})
}

type quantile struct {
	label string
	value time.Duration
}

func quantiles(l metrics.LatencyStats) []quantile {
	return []quantile{
		{"0.5", l.P50},
		{"0.9", l.P90},
		{"0.95", l.P95},
		{"0.99", l.P99},
	}
}
