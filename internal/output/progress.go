package output

import (
	"fmt"
	"io"
	"sort"
	"sync/atomic"
	"time"

	"github.com/torosent/sortbench/internal/metrics"
)

// ProgressReporter displays real-time progress updates.
type ProgressReporter struct {
	collector *metrics.Collector
	ticker    *time.Ticker
	done      chan struct{}
	finished  chan struct{}
	writer    io.Writer
	active    int32
	start     time.Time
}

// NewProgressReporter creates a progress reporter that updates at the given interval.
func NewProgressReporter(collector *metrics.Collector, interval time.Duration, writer io.Writer) *ProgressReporter {
	if writer == nil {
		writer = io.Discard
	}
	return &ProgressReporter{
		collector: collector,
		ticker:    time.NewTicker(interval),
		done:      make(chan struct{}),
		finished:  make(chan struct{}),
		writer:    writer,
		start:     time.Now(),
	}
}

// Start begins displaying progress updates in a background goroutine.
func (p *ProgressReporter) Start() {
	if !atomic.CompareAndSwapInt32(&p.active, 0, 1) {
		return // already running
	}
	go p.run()
}

// Stop halts progress updates.
func (p *ProgressReporter) Stop() {
	if atomic.CompareAndSwapInt32(&p.active, 1, 0) {
		close(p.done)
		p.ticker.Stop()
		<-p.finished
	}
}

func (p *ProgressReporter) run() {
	defer close(p.finished)
	for {
		select {
		case <-p.ticker.C:
			fmt.Fprint(p.writer, progressLine(p.collector.Stats(time.Since(p.start))))
		case <-p.done:
			return
		}
	}
}

func progressLine(stats metrics.Stats) string {
	line := fmt.Sprintf("\rTrials: %d", stats.Total)
	if stats.Planned > 0 {
		pct := float64(stats.Total) / float64(stats.Planned) * 100
		line += fmt.Sprintf("/%d (%.0f%%)", stats.Planned, pct)
	}
	line += fmt.Sprintf(" | Failures: %d | Trials/s: %.1f", stats.Failures, stats.TrialsPerSec)
	if st, ok := slowestStrategy(stats); ok {
		line += fmt.Sprintf(" | Slowest: %s (mean %.3fms)", st.Strategy, st.MeanMs)
	}
	return line
}

func slowestStrategy(stats metrics.Stats) (metrics.StrategyStats, bool) {
	if len(stats.Strategies) == 0 {
		return metrics.StrategyStats{}, false
	}
	strategies := append([]metrics.StrategyStats(nil), stats.Strategies...)
	sort.Slice(strategies, func(i, j int) bool {
		return strategies[i].Mean > strategies[j].Mean
	})
	return strategies[0], true
}
