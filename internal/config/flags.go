package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

// RegisterFlags registers all CLI flags to a cobra command.
func RegisterFlags(cmd *cobra.Command) {
	configureFlags(cmd.Flags())
}

// newFlagCommand creates a cobra command with all flags configured.
func newFlagCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "sortbench",
		Short:         "Benchmark insertion, counting and radix sort across input sizes and distributions",
		SilenceErrors: true,
		SilenceUsage:  true,
	}
	cmd.SetOut(os.Stdout)
	configureFlags(cmd.Flags())
	return cmd
}

// configureFlags sets up all CLI flags on the provided flag set.
func configureFlags(flags *pflag.FlagSet) {
	// Workload flags
	flags.StringSliceP("strategy", "s", nil, "Sorting strategy to benchmark (repeatable: insertion, counting, radix; default all)")
	flags.StringSlice("distribution", nil, "Input distribution (repeatable: random, best, worst; default all)")
	flags.IntSlice("size", nil, "Explicit input size (repeatable; overrides the size range)")
	flags.Int("size-from", 0, "First input size of the size range")
	flags.Int("size-to", 990, "Last input size of the size range (inclusive)")
	flags.Int("size-step", 10, "Step between sizes of the size range")
	flags.IntP("repetitions", "n", 1, "Recorded trials per strategy, distribution and size")
	flags.Int("warmup", 0, "Unrecorded warm-up trials per strategy, distribution and size")
	flags.Uint64("max-value", 1<<16, "Exclusive upper bound for random values")
	flags.Int64("seed", 0, "Seed for random inputs (0 picks a time-based seed)")
	flags.Bool("verify", true, "Check every sorted output is an ordered permutation of its input")

	// Execution flags
	flags.IntP("concurrency", "c", 1, "Number of trials executed in parallel")
	flags.IntP("rate", "r", 0, "Trials per second limit (0 means unlimited)")
	flags.DurationP("duration", "d", 0, "Stop scheduling trials after this long (e.g. 30s, 1m)")

	// Output flags
	flags.Bool("json-output", false, "Emit JSON formatted output")
	flags.Bool("yaml-output", false, "Emit YAML formatted output")
	flags.Bool("dashboard", false, "Show live terminal dashboard")
	flags.Bool("log-errors", false, "Log each failed trial")
	flags.String("log-level", "info", "Log level: debug, info, warn or error")
	flags.String("html-output", "", "Generate HTML report to the specified file path")
	flags.String("prom-textfile", "", "Write Prometheus metrics in textfile-collector format to this path")
	flags.String("config", "", "Path to configuration file (JSON or YAML)")

	// Comparison flags
	flags.String("baseline", "", "Path to a previous JSON report to compare against")
	flags.Float64("regression-tolerance", 10, "Allowed P50 slowdown versus the baseline, in percent")
	flags.Bool("fail-on-regression", false, "Exit non-zero when any series regresses past the tolerance")

	// Threshold flags
	flags.StringSlice("threshold", nil, "Performance thresholds (repeatable, e.g., 'sort_duration{radix}:p99 < 5')")

	// Tracing flags
	flags.String("tracing-endpoint", "", "OTLP collector endpoint (enables tracing)")
	flags.String("tracing-protocol", "grpc", "OTLP protocol: 'grpc' or 'http'")
	flags.String("tracing-service-name", "", "Service name reported with spans")
	flags.Float64("tracing-sample-rate", 1.0, "Fraction of trials traced (0.0-1.0)")
	flags.Bool("tracing-insecure", false, "Disable TLS for the OTLP exporter")
}

// displayHelp prints the help message for a command.
func displayHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s\n\nUsage: %s\n\nFlags:\n", cmd.Short, cmd.UseLine())
	fs := cmd.Flags()
	fs.SetOutput(out)
	fs.PrintDefaults()
}

// applyFlagOverrides applies command-line flag values to the config, overriding
// values from the config file.
func applyFlagOverrides(cfg *Config, fs *pflag.FlagSet) error {
	if fs.Changed("strategy") {
		val, err := fs.GetStringSlice("strategy")
		if err != nil {
			return err
		}
		cfg.Strategies = val
	}
	if fs.Changed("distribution") {
		val, err := fs.GetStringSlice("distribution")
		if err != nil {
			return err
		}
		cfg.Distributions = val
	}
	if fs.Changed("size-from") {
		val, err := fs.GetInt("size-from")
		if err != nil {
			return err
		}
		cfg.SizeRange.From = val
		cfg.Sizes = nil
	}
	if fs.Changed("size-to") {
		val, err := fs.GetInt("size-to")
		if err != nil {
			return err
		}
		cfg.SizeRange.To = val
		cfg.Sizes = nil
	}
	if fs.Changed("size-step") {
		val, err := fs.GetInt("size-step")
		if err != nil {
			return err
		}
		cfg.SizeRange.Step = val
		cfg.Sizes = nil
	}
	if fs.Changed("size") {
		val, err := fs.GetIntSlice("size")
		if err != nil {
			return err
		}
		cfg.Sizes = val
	}
	if fs.Changed("repetitions") {
		val, err := fs.GetInt("repetitions")
		if err != nil {
			return err
		}
		cfg.Repetitions = val
	}
	if fs.Changed("warmup") {
		val, err := fs.GetInt("warmup")
		if err != nil {
			return err
		}
		cfg.Warmup = val
	}
	if fs.Changed("max-value") {
		val, err := fs.GetUint64("max-value")
		if err != nil {
			return err
		}
		cfg.MaxValue = val
	}
	if fs.Changed("seed") {
		val, err := fs.GetInt64("seed")
		if err != nil {
			return err
		}
		cfg.Seed = val
	}
	if fs.Changed("verify") {
		val, err := fs.GetBool("verify")
		if err != nil {
			return err
		}
		cfg.Verify = val
	}
	if fs.Changed("concurrency") {
		val, err := fs.GetInt("concurrency")
		if err != nil {
			return err
		}
		cfg.Concurrency = val
	}
	if fs.Changed("rate") {
		val, err := fs.GetInt("rate")
		if err != nil {
			return err
		}
		cfg.Rate = val
	}
	if fs.Changed("duration") {
		val, err := fs.GetDuration("duration")
		if err != nil {
			return err
		}
		cfg.Duration = val
	}
	if fs.Changed("json-output") {
		val, err := fs.GetBool("json-output")
		if err != nil {
			return err
		}
		cfg.JSONOutput = val
	}
	if fs.Changed("yaml-output") {
		val, err := fs.GetBool("yaml-output")
		if err != nil {
			return err
		}
		cfg.YAMLOutput = val
	}
	if fs.Changed("dashboard") {
		val, err := fs.GetBool("dashboard")
		if err != nil {
			return err
		}
		cfg.Dashboard = val
	}
	if fs.Changed("log-errors") {
		val, err := fs.GetBool("log-errors")
		if err != nil {
			return err
		}
		cfg.LogErrors = val
	}
	if fs.Changed("log-level") {
		val, err := fs.GetString("log-level")
		if err != nil {
			return err
		}
		cfg.LogLevel = val
	}
	if fs.Changed("html-output") {
		val, err := fs.GetString("html-output")
		if err != nil {
			return err
		}
		cfg.HTMLOutput = val
	}
	if fs.Changed("prom-textfile") {
		val, err := fs.GetString("prom-textfile")
		if err != nil {
			return err
		}
		cfg.PromTextfile = val
	}
	if fs.Changed("baseline") {
		val, err := fs.GetString("baseline")
		if err != nil {
			return err
		}
		cfg.Baseline = val
	}
	if fs.Changed("regression-tolerance") {
		val, err := fs.GetFloat64("regression-tolerance")
		if err != nil {
			return err
		}
		cfg.RegressionTolerance = val
	}
	if fs.Changed("fail-on-regression") {
		val, err := fs.GetBool("fail-on-regression")
		if err != nil {
			return err
		}
		cfg.FailOnRegression = val
	}
	if fs.Changed("threshold") {
		val, err := fs.GetStringSlice("threshold")
		if err != nil {
			return err
		}
		cfg.Thresholds = val
	}

	if fs.Changed("tracing-endpoint") {
		val, err := fs.GetString("tracing-endpoint")
		if err != nil {
			return err
		}
		cfg.Tracing.Endpoint = strings.TrimSpace(val)
	}
	if fs.Changed("tracing-protocol") {
		val, err := fs.GetString("tracing-protocol")
		if err != nil {
			return err
		}
		cfg.Tracing.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if fs.Changed("tracing-service-name") {
		val, err := fs.GetString("tracing-service-name")
		if err != nil {
			return err
		}
		cfg.Tracing.ServiceName = strings.TrimSpace(val)
	}
	if fs.Changed("tracing-sample-rate") {
		val, err := fs.GetFloat64("tracing-sample-rate")
		if err != nil {
			return err
		}
		cfg.Tracing.SampleRate = val
	}
	if fs.Changed("tracing-insecure") {
		val, err := fs.GetBool("tracing-insecure")
		if err != nil {
			return err
		}
		cfg.Tracing.Insecure = val
	}

	return nil
}
