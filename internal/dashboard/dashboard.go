package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	ui "github.com/gizak/termui/v3"
	"github.com/gizak/termui/v3/widgets"

	"github.com/torosent/sortbench/internal/metrics"
)

// RunConfig holds benchmark parameters for display.
type RunConfig struct {
	Strategies    []string
	Distributions []string
	Sizes         int           // number of distinct sizes
	Repetitions   int           // recorded trials per series
	Warmup        int           // unrecorded trials per series
	Concurrency   int           // number of concurrent workers
	Rate          int           // trials per second (0 = unlimited)
	Duration      time.Duration // run duration cap (0 = unlimited)
	Seed          int64
	ConfigFile    string // path to config file if used
}

const maxSparkPoints = 100

// Dashboard renders a live terminal UI for benchmark progress.
type Dashboard struct {
	collector    *metrics.Collector
	ctx          context.Context
	cancel       context.CancelFunc
	shutdownFunc func()
	wg           sync.WaitGroup
	mu           sync.Mutex

	// Widgets
	grid          *ui.Grid
	durationSpark *widgets.SparklineGroup
	strategyBars  *widgets.BarChart
	progressGauge *widgets.Gauge
	summaryPara   *widgets.Paragraph
	failureList   *widgets.List

	meanHistory  []float64
	startTime    time.Time
	testDuration time.Duration
	runConfig    RunConfig
}

// New creates a new Dashboard and takes over the terminal.
func New(collector *metrics.Collector, cfg RunConfig, shutdownFunc func()) (*Dashboard, error) {
	if err := ui.Init(); err != nil {
		return nil, fmt.Errorf("failed to initialize termui: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())

	d := &Dashboard{
		collector:    collector,
		ctx:          ctx,
		cancel:       cancel,
		shutdownFunc: shutdownFunc,
		meanHistory:  make([]float64, 0, maxSparkPoints),
		startTime:    time.Now(),
		runConfig:    cfg,
	}

	d.initWidgets()
	d.setupGrid()

	return d, nil
}

func (d *Dashboard) initWidgets() {
	sparkline := widgets.NewSparkline()
	sparkline.Title = "Mean sort duration (ms)"
	sparkline.LineColor = ui.ColorGreen
	sparkline.Data = []float64{0}

	d.durationSpark = widgets.NewSparklineGroup(sparkline)
	d.durationSpark.Title = "Sort Duration"
	d.durationSpark.BorderStyle.Fg = ui.ColorCyan

	d.strategyBars = widgets.NewBarChart()
	d.strategyBars.Title = "Mean ns/element"
	d.strategyBars.BarWidth = 12
	d.strategyBars.BarColors = []ui.Color{ui.ColorBlue, ui.ColorMagenta, ui.ColorYellow}
	d.strategyBars.LabelStyles = []ui.Style{ui.NewStyle(ui.ColorWhite)}
	d.strategyBars.NumStyles = []ui.Style{ui.NewStyle(ui.ColorBlack)}
	d.strategyBars.BorderStyle.Fg = ui.ColorCyan

	d.progressGauge = widgets.NewGauge()
	d.progressGauge.Title = "Progress"
	d.progressGauge.BarColor = ui.ColorBlue
	d.progressGauge.BorderStyle.Fg = ui.ColorCyan
	d.progressGauge.LabelStyle = ui.NewStyle(ui.ColorWhite)

	d.summaryPara = widgets.NewParagraph()
	d.summaryPara.Title = "Run Summary"
	d.summaryPara.Text = "Initializing..."
	d.summaryPara.BorderStyle.Fg = ui.ColorCyan

	d.failureList = widgets.NewList()
	d.failureList.Title = "Failures"
	d.failureList.Rows = []string{"No failures"}
	d.failureList.TextStyle = ui.NewStyle(ui.ColorYellow)
	d.failureList.BorderStyle.Fg = ui.ColorCyan
}

func (d *Dashboard) setupGrid() {
	termWidth, termHeight := ui.TerminalDimensions()

	d.grid = ui.NewGrid()
	d.grid.SetRect(0, 0, termWidth, termHeight)

	d.grid.Set(
		ui.NewRow(0.2,
			ui.NewCol(1.0, d.summaryPara),
		),
		ui.NewRow(0.12,
			ui.NewCol(1.0, d.progressGauge),
		),
		ui.NewRow(0.36,
			ui.NewCol(0.6, d.durationSpark),
			ui.NewCol(0.4, d.strategyBars),
		),
		ui.NewRow(0.32,
			ui.NewCol(1.0, d.failureList),
		),
	)
}

// Start begins the dashboard update loop.
func (d *Dashboard) Start() {
	d.wg.Add(1)
	go d.run()
}

// Stop stops the dashboard and restores the terminal.
func (d *Dashboard) Stop() {
	d.cancel()
	d.wg.Wait()
	d.testDuration = time.Since(d.startTime)
	ui.Close()
	// Give terminal time to restore
	time.Sleep(100 * time.Millisecond)
}

// GetFinalStats returns the final statistics after the dashboard has stopped.
func (d *Dashboard) GetFinalStats() metrics.Stats {
	return d.collector.Stats(d.testDuration)
}

func (d *Dashboard) run() {
	defer d.wg.Done()

	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	uiEvents := ui.PollEvents()

	d.render()

	for {
		select {
		case <-d.ctx.Done():
			for len(uiEvents) > 0 {
				<-uiEvents
			}
			return
		case e := <-uiEvents:
			select {
			case <-d.ctx.Done():
				return
			default:
			}

			switch e.ID {
			case "q", "<C-c>":
				if d.shutdownFunc != nil {
					d.shutdownFunc()
				}
				// Stop() cancels the context once the run unwinds.
			case "<Resize>":
				payload := e.Payload.(ui.Resize)
				d.grid.SetRect(0, 0, payload.Width, payload.Height)
				ui.Clear()
				d.render()
			}
		case <-ticker.C:
			d.update()
			d.render()
		}
	}
}

func (d *Dashboard) update() {
	d.mu.Lock()
	defer d.mu.Unlock()

	elapsed := time.Since(d.startTime)
	stats := d.collector.Stats(elapsed)

	if stats.Total > 0 {
		d.meanHistory = appendBounded(d.meanHistory, stats.Latency.MeanMs, maxSparkPoints)
		d.durationSpark.Sparklines[0].Data = d.meanHistory
		d.durationSpark.Title = fmt.Sprintf(
			"Sort Duration | Mean: %.3fms | P99: %.3fms | Max: %.3fms",
			stats.Latency.MeanMs,
			stats.Latency.P99Ms,
			stats.Latency.MaxMs,
		)
	}

	d.progressGauge.Percent = progressPercent(stats.Total, stats.Planned)
	d.progressGauge.Label = progressLabel(stats.Total, stats.Planned)

	d.strategyBars.Labels, d.strategyBars.Data = strategyBars(stats.Strategies)

	d.summaryPara.Text = fmt.Sprintf(
		"%s\nElapsed: %s | Trials: %d | Failures: %d | Trials/s: %.1f",
		formatRunConfig(d.runConfig),
		elapsed.Round(time.Second),
		stats.Total,
		stats.Failures,
		stats.TrialsPerSec,
	)

	d.failureList.Rows = formatFailureRows(stats.Errors, 10)
}

func (d *Dashboard) render() {
	d.mu.Lock()
	defer d.mu.Unlock()

	ui.Render(d.grid)
}

func appendBounded(history []float64, v float64, limit int) []float64 {
	history = append(history, v)
	if len(history) > limit {
		history = history[len(history)-limit:]
	}
	return history
}

func progressPercent(done, planned int64) int {
	if planned <= 0 {
		return 0
	}
	pct := int(done * 100 / planned)
	if pct > 100 {
		pct = 100
	}
	return pct
}

func progressLabel(done, planned int64) string {
	if planned <= 0 {
		return fmt.Sprintf("%d trials", done)
	}
	return fmt.Sprintf("%d / %d trials", done, planned)
}

func strategyBars(strategies []metrics.StrategyStats) ([]string, []float64) {
	labels := make([]string, 0, len(strategies))
	data := make([]float64, 0, len(strategies))
	for _, st := range strategies {
		labels = append(labels, st.Strategy)
		data = append(data, st.NsPerElement)
	}
	return labels, data
}

func formatFailureRows(errs map[string]int, limit int) []string {
	if len(errs) == 0 {
		return []string{"[No failures](fg:green)"}
	}
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Slice(names, func(i, j int) bool {
		if errs[names[i]] == errs[names[j]] {
			return names[i] < names[j]
		}
		return errs[names[i]] > errs[names[j]]
	})
	if limit > 0 && len(names) > limit {
		names = names[:limit]
	}
	rows := make([]string, 0, len(names))
	for _, name := range names {
		rows = append(rows, fmt.Sprintf("[%s](fg:red) %d", name, errs[name]))
	}
	return rows
}

func formatRunConfig(cfg RunConfig) string {
	var parts []string

	if len(cfg.Strategies) > 0 {
		parts = append(parts, "Strategies: "+strings.Join(cfg.Strategies, ","))
	}
	if len(cfg.Distributions) > 0 {
		parts = append(parts, "Inputs: "+strings.Join(cfg.Distributions, ","))
	}
	if cfg.Sizes > 0 {
		parts = append(parts, fmt.Sprintf("Sizes: %d", cfg.Sizes))
	}
	if cfg.Repetitions > 0 {
		reps := fmt.Sprintf("Reps: %d", cfg.Repetitions)
		if cfg.Warmup > 0 {
			reps += fmt.Sprintf(" (+%d warm-up)", cfg.Warmup)
		}
		parts = append(parts, reps)
	}
	if cfg.Concurrency > 0 {
		parts = append(parts, fmt.Sprintf("Workers: %d", cfg.Concurrency))
	}
	if cfg.Rate > 0 {
		parts = append(parts, fmt.Sprintf("Rate: %d/s", cfg.Rate))
	} else {
		parts = append(parts, "Rate: unlimited")
	}
	if cfg.Duration > 0 {
		parts = append(parts, fmt.Sprintf("Duration: %s", cfg.Duration))
	}
	parts = append(parts, fmt.Sprintf("Seed: %d", cfg.Seed))
	if cfg.ConfigFile != "" {
		parts = append(parts, fmt.Sprintf("Config: %s", cfg.ConfigFile))
	}

	return strings.Join(parts, " | ")
}
