package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/torosent/sortbench/internal/sorting"
	"github.com/torosent/sortbench/internal/workload"
)

const (
	// Insertion sort is quadratic; sizes above this take minutes per trial.
	insertionSizeWarning = 200_000
)

type Config struct {
	Strategies          []string      `mapstructure:"strategies"`
	Distributions       []string      `mapstructure:"distributions"`
	Sizes               []int         `mapstructure:"sizes"`
	SizeRange           SizeRange     `mapstructure:"size_range"`
	Repetitions         int           `mapstructure:"repetitions"`
	Warmup              int           `mapstructure:"warmup"`
	MaxValue            uint64        `mapstructure:"max_value"`
	Seed                int64         `mapstructure:"seed"`
	Concurrency         int           `mapstructure:"concurrency"`
	Rate                int           `mapstructure:"rate"`
	Duration            time.Duration `mapstructure:"duration"`
	Verify              bool          `mapstructure:"verify"`
	JSONOutput          bool          `mapstructure:"json_output"`
	YAMLOutput          bool          `mapstructure:"yaml_output"`
	Dashboard           bool          `mapstructure:"dashboard"`
	LogErrors           bool          `mapstructure:"log_errors"`
	LogLevel            string        `mapstructure:"log_level"`
	HTMLOutput          string        `mapstructure:"html_output"`
	PromTextfile        string        `mapstructure:"prom_textfile"`
	Baseline            string        `mapstructure:"baseline"`
	RegressionTolerance float64       `mapstructure:"regression_tolerance"`
	FailOnRegression    bool          `mapstructure:"fail_on_regression"`
	Thresholds          []string      `mapstructure:"thresholds"`
	Tracing             TracingConfig `mapstructure:"tracing"`
	ConfigFile          string        `mapstructure:"-"`
}

// SizeRange expands to From, From+Step, ... up to and including To.
type SizeRange struct {
	From int `mapstructure:"from"`
	To   int `mapstructure:"to"`
	Step int `mapstructure:"step"`
}

type TracingConfig struct {
	Endpoint    string  `mapstructure:"endpoint"`
	Protocol    string  `mapstructure:"protocol"` // "grpc" or "http"
	ServiceName string  `mapstructure:"service_name"`
	SampleRate  float64 `mapstructure:"sample_rate"`
	Insecure    bool    `mapstructure:"insecure"`
}

// Enabled reports whether spans should be exported.
func (t TracingConfig) Enabled() bool {
	return strings.TrimSpace(t.Endpoint) != "" || os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT") != ""
}

// Default returns the configuration used when nothing is overridden: every
// strategy and distribution over sizes 0..990 in steps of 10.
func Default() *Config {
	return &Config{
		SizeRange:           SizeRange{From: 0, To: 990, Step: 10},
		Repetitions:         1,
		MaxValue:            1 << 16,
		Concurrency:         1,
		Verify:              true,
		LogLevel:            "info",
		RegressionTolerance: 10,
		Tracing:             TracingConfig{Protocol: "grpc", SampleRate: 1.0},
	}
}

// ResolvedSizes returns the explicit size list, or the expanded range.
func (c Config) ResolvedSizes() []int {
	if len(c.Sizes) > 0 {
		return append([]int(nil), c.Sizes...)
	}
	r := c.SizeRange
	if r.Step <= 0 || r.To < r.From {
		return nil
	}
	sizes := make([]int, 0, (r.To-r.From)/r.Step+1)
	for n := r.From; n <= r.To; n += r.Step {
		sizes = append(sizes, n)
	}
	return sizes
}

// ResolvedStrategies parses Strategies, defaulting to all of them.
func (c Config) ResolvedStrategies() ([]sorting.Strategy, error) {
	if len(c.Strategies) == 0 {
		return sorting.Strategies(), nil
	}
	out := make([]sorting.Strategy, 0, len(c.Strategies))
	seen := map[sorting.Strategy]bool{}
	for _, name := range c.Strategies {
		s, err := sorting.ParseStrategy(name)
		if err != nil {
			return nil, err
		}
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out, nil
}

// ResolvedDistributions parses Distributions, defaulting to all of them.
func (c Config) ResolvedDistributions() ([]workload.Distribution, error) {
	if len(c.Distributions) == 0 {
		return workload.Distributions(), nil
	}
	out := make([]workload.Distribution, 0, len(c.Distributions))
	seen := map[workload.Distribution]bool{}
	for _, name := range c.Distributions {
		d, err := workload.ParseDistribution(name)
		if err != nil {
			return nil, err
		}
		if !seen[d] {
			seen[d] = true
			out = append(out, d)
		}
	}
	return out, nil
}

type ValidationError struct {
	issues []string
}

func (e ValidationError) Error() string {
	if len(e.issues) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed: %s", strings.Join(e.issues, "; "))
}

func (e ValidationError) Issues() []string {
	return append([]string(nil), e.issues...)
}

func (c Config) Validate() error {
	var issues []string
	var warnings []string

	strategies, err := c.ResolvedStrategies()
	if err != nil {
		issues = append(issues, fmt.Sprintf("strategies: %v", err))
	}
	if _, err := c.ResolvedDistributions(); err != nil {
		issues = append(issues, fmt.Sprintf("distributions: %v", err))
	}

	issues = append(issues, validateSizes(c.Sizes, c.SizeRange)...)

	if c.Repetitions < 1 {
		issues = append(issues, "repetitions must be >= 1")
	}
	if c.Warmup < 0 {
		issues = append(issues, "warmup must be >= 0")
	}
	if c.MaxValue == 0 {
		issues = append(issues, "max_value must be >= 1")
	}
	if c.Concurrency < 1 {
		issues = append(issues, "concurrency must be >= 1")
	}
	if c.Rate < 0 {
		issues = append(issues, "rate must be >= 0")
	}
	if c.Duration < 0 {
		issues = append(issues, "duration must be >= 0")
	}
	if c.RegressionTolerance < 0 {
		issues = append(issues, "regression_tolerance must be >= 0")
	}
	if c.FailOnRegression && strings.TrimSpace(c.Baseline) == "" {
		issues = append(issues, "fail_on_regression requires a baseline report")
	}
	if c.JSONOutput && c.YAMLOutput {
		issues = append(issues, "json-output and yaml-output are mutually exclusive")
	}
	if c.Dashboard && (c.JSONOutput || c.YAMLOutput) {
		issues = append(issues, "dashboard and json-output/yaml-output are mutually exclusive")
	}
	switch strings.ToLower(c.LogLevel) {
	case "", "debug", "info", "warn", "error":
	default:
		issues = append(issues, fmt.Sprintf("log_level %q is not supported (debug, info, warn, error)", c.LogLevel))
	}

	issues = append(issues, validateTracingConfig(c.Tracing)...)

	for _, s := range strategies {
		switch s {
		case sorting.StrategyCounting:
			if c.MaxValue > sorting.MaxBound {
				issues = append(issues, fmt.Sprintf("max_value %d exceeds the counting sort bucket limit %d", c.MaxValue, sorting.MaxBound))
			}
		case sorting.StrategyInsertion:
			for _, n := range c.ResolvedSizes() {
				if n > insertionSizeWarning {
					warnings = append(warnings, fmt.Sprintf("WARNING: insertion sort is quadratic; size %d may take a very long time.", n))
					break
				}
			}
		}
	}
	if c.Concurrency > 1 {
		warnings = append(warnings, "WARNING: concurrency > 1 runs trials in parallel; timings will include scheduler contention.")
	}

	for _, w := range warnings {
		fmt.Fprintln(os.Stderr, w)
	}

	if len(issues) > 0 {
		return ValidationError{issues: issues}
	}
	return nil
}

func validateSizes(sizes []int, r SizeRange) []string {
	var issues []string
	if len(sizes) > 0 {
		for idx, n := range sizes {
			if n < 0 {
				issues = append(issues, fmt.Sprintf("sizes[%d]: must be >= 0", idx))
			}
		}
		return issues
	}
	if r.From < 0 {
		issues = append(issues, "size_range: from must be >= 0")
	}
	if r.Step <= 0 {
		issues = append(issues, "size_range: step must be > 0")
	}
	if r.To < r.From {
		issues = append(issues, "size_range: to must be >= from")
	}
	return issues
}

func validateTracingConfig(t TracingConfig) []string {
	var issues []string
	switch strings.ToLower(t.Protocol) {
	case "", "grpc", "http":
	default:
		issues = append(issues, fmt.Sprintf("tracing: protocol must be 'grpc' or 'http', got %q", t.Protocol))
	}
	if t.SampleRate < 0 || t.SampleRate > 1 {
		issues = append(issues, fmt.Sprintf("tracing: sample_rate must be between 0.0 and 1.0, got %g", t.SampleRate))
	}
	return issues
}
