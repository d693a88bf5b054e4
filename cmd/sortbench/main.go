package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/torosent/sortbench/internal/baseline"
	"github.com/torosent/sortbench/internal/config"
	"github.com/torosent/sortbench/internal/dashboard"
	"github.com/torosent/sortbench/internal/metrics"
	"github.com/torosent/sortbench/internal/output"
	"github.com/torosent/sortbench/internal/runner"
	"github.com/torosent/sortbench/internal/sorting"
	"github.com/torosent/sortbench/internal/threshold"
	"github.com/torosent/sortbench/internal/tracing"
	"github.com/torosent/sortbench/internal/workload"
)

const (
	progressInterval = time.Second
	snapshotInterval = time.Second
	shutdownTimeout  = 5 * time.Second
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	return execute(ctx, args, os.Stdout, os.Stderr)
}

// execute runs a benchmark end to end, writing reports to stdout and logs to stderr.
func execute(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	loader := config.NewLoader()
	cfg, err := loader.Load(args)
	if err != nil {
		if errors.Is(err, config.ErrHelpRequested) {
			return nil
		}
		return err
	}
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := newLogger(cfg.LogLevel, stderr)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	strategies, err := cfg.ResolvedStrategies()
	if err != nil {
		return err
	}
	distributions, err := cfg.ResolvedDistributions()
	if err != nil {
		return err
	}
	sizes := cfg.ResolvedSizes()

	seed := cfg.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	gen, err := workload.NewGenerator(seed, cfg.MaxValue)
	if err != nil {
		return err
	}

	thresholds, err := threshold.ParseMultiple(cfg.Thresholds)
	if err != nil {
		return err
	}

	var base *baseline.Baseline
	if cfg.Baseline != "" {
		b, err := baseline.Load(cfg.Baseline)
		if err != nil {
			return err
		}
		base = &b
	}

	if base != nil && !output.ValidRunID(base.RunID) {
		logger.Warn("baseline report has no valid run id", zap.String("path", cfg.Baseline))
	}

	runID := output.NewRunID()
	provider, err := tracing.Init(ctx, cfg.Tracing, runID)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := provider.Shutdown(shutdownCtx); err != nil {
			logger.Warn("tracing shutdown failed", zap.Error(err))
		}
	}()

	trials := runner.BuildPlan(runner.PlanSpec{
		Strategies:    strategies,
		Distributions: distributions,
		Sizes:         sizes,
		Repetitions:   cfg.Repetitions,
		Warmup:        cfg.Warmup,
	})

	collector := metrics.NewCollector()
	collector.SetPlanned(runner.RecordedCount(trials))

	var exec runner.Executor = &runner.SortExecutor{
		Generator: gen,
		Collector: collector,
		Tracer:    provider.Tracer(),
		Verify:    cfg.Verify,
	}
	if cfg.LogErrors {
		exec = runner.WithLogging(exec, &zapFailureLogger{logger: logger})
	}

	r := runner.New(runner.Options{
		Concurrency:   cfg.Concurrency,
		Trials:        trials,
		Duration:      cfg.Duration,
		RatePerSecond: cfg.Rate,
		Executor:      exec,
	})

	meta := reportMetadata(cfg, strategies, distributions, sizes, seed)
	logger.Info("benchmark starting",
		zap.String("run_id", runID),
		zap.Int("trials", len(trials)),
		zap.Strings("strategies", meta.Strategies),
		zap.Strings("distributions", meta.Distributions),
		zap.Int("sizes", len(sizes)),
		zap.Int64("seed", seed),
		zap.Bool("tracing", provider.Enabled()),
	)

	runCtx, stopRun := context.WithCancel(ctx)
	defer stopRun()

	var dash *dashboard.Dashboard
	if cfg.Dashboard {
		dash, err = dashboard.New(collector, dashboard.RunConfig{
			Strategies:    meta.Strategies,
			Distributions: meta.Distributions,
			Sizes:         len(sizes),
			Repetitions:   cfg.Repetitions,
			Warmup:        cfg.Warmup,
			Concurrency:   cfg.Concurrency,
			Rate:          cfg.Rate,
			Duration:      cfg.Duration,
			Seed:          seed,
			ConfigFile:    cfg.ConfigFile,
		}, stopRun)
		if err != nil {
			return err
		}
		dash.Start()
	}

	var progress *output.ProgressReporter
	if !cfg.JSONOutput && !cfg.YAMLOutput && !cfg.Dashboard {
		progress = output.NewProgressReporter(collector, progressInterval, stdout)
		progress.Start()
	}

	stopSnapshots := startSnapshots(collector, snapshotInterval)

	collector.Start()
	result := r.Run(runCtx)

	stopSnapshots()
	var stats metrics.Stats
	if dash != nil {
		dash.Stop()
		// The dashboard's clock covers the whole time the run was on screen.
		stats = dash.GetFinalStats()
	} else {
		stats = collector.Stats(result.Duration)
	}
	if progress != nil {
		progress.Stop()
		fmt.Fprintln(stdout)
	}

	if result.Skipped > 0 {
		logger.Warn("benchmark stopped early",
			zap.Int64("executed", result.Total),
			zap.Int64("skipped", result.Skipped),
			zap.NamedError("cause", context.Cause(runCtx)),
		)
	}

	report := output.Report{
		RunID:       runID,
		GeneratedAt: time.Now().UTC(),
		Metadata:    meta,
		Stats:       stats,
		History:     collector.History(),
	}

	var thresholdResults []threshold.Result
	if len(thresholds) > 0 {
		thresholdResults = threshold.NewEvaluator(thresholds).Evaluate(stats)
		report.Thresholds = output.SummarizeThresholds(thresholdResults)
	}
	if base != nil {
		cmp := baseline.Compare(stats, *base, cfg.RegressionTolerance)
		report.Baseline = &cmp
	}

	switch {
	case cfg.JSONOutput:
		if err := output.PrintJSONReport(stdout, report); err != nil {
			return err
		}
	case cfg.YAMLOutput:
		if err := output.PrintYAMLReport(stdout, report); err != nil {
			return err
		}
	default:
		output.PrintReport(stdout, report)
	}

	if cfg.HTMLOutput != "" {
		err := output.WriteFile(cfg.HTMLOutput, func(w io.Writer) error {
			return output.GenerateHTMLReport(w, report)
		})
		if err != nil {
			return fmt.Errorf("html report: %w", err)
		}
		logger.Info("html report written", zap.String("path", cfg.HTMLOutput))
	}
	if cfg.PromTextfile != "" {
		if err := output.WriteTextfile(cfg.PromTextfile, report); err != nil {
			return fmt.Errorf("prometheus textfile: %w", err)
		}
		logger.Info("prometheus textfile written", zap.String("path", cfg.PromTextfile))
	}

	logger.Info("benchmark finished",
		zap.String("run_id", runID),
		zap.Int64("recorded", stats.Total),
		zap.Int64("failures", stats.Failures),
		zap.Duration("elapsed", result.Duration),
	)

	return outcome(result, report, cfg.FailOnRegression)
}

// outcome turns failed trials, failed thresholds and regressions into an error.
func outcome(result runner.Result, report output.Report, failOnRegression bool) error {
	var errs []error
	if result.Errors > 0 {
		errs = append(errs, fmt.Errorf("%d trials failed", result.Errors))
	}
	if t := report.Thresholds; t != nil && t.Failed > 0 {
		errs = append(errs, fmt.Errorf("%d of %d thresholds failed", t.Failed, t.Total))
	}
	if b := report.Baseline; failOnRegression && b != nil && b.HasRegressions() {
		errs = append(errs, fmt.Errorf("%d series regressed beyond %.1f%%", b.Regressions, b.TolerancePct))
	}
	return errors.Join(errs...)
}

func reportMetadata(cfg *config.Config, strategies []sorting.Strategy, distributions []workload.Distribution, sizes []int, seed int64) output.ReportMetadata {
	meta := output.ReportMetadata{
		Sizes:       sizes,
		Repetitions: cfg.Repetitions,
		Warmup:      cfg.Warmup,
		Seed:        seed,
		MaxValue:    cfg.MaxValue,
		Concurrency: cfg.Concurrency,
		Verify:      cfg.Verify,
	}
	for _, s := range strategies {
		meta.Strategies = append(meta.Strategies, s.String())
	}
	for _, d := range distributions {
		meta.Distributions = append(meta.Distributions, string(d))
	}
	return meta
}

// startSnapshots records collector history until the returned func is called.
func startSnapshots(collector *metrics.Collector, interval time.Duration) func() {
	done := make(chan struct{})
	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				collector.Snapshot()
			case <-done:
				collector.Snapshot()
				return
			}
		}
	}()
	var once sync.Once
	return func() {
		once.Do(func() {
			close(done)
			wg.Wait()
		})
	}
}
