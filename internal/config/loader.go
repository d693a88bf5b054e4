package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Loader handles loading configuration from files and command-line arguments.
type Loader struct{}

// ErrHelpRequested is returned when the user requests help via --help flag.
var ErrHelpRequested = errors.New("help requested")

// NewLoader creates a new configuration Loader.
func NewLoader() *Loader {
	return &Loader{}
}

// Load parses command-line arguments and an optional configuration file,
// layering defaults, then file settings, then explicitly set flags.
func (Loader) Load(args []string) (*Config, error) {
	cmd := newFlagCommand()
	if err := cmd.Flags().Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
		return nil, err
	}

	flagSet := cmd.Flags()
	if helpFlag := flagSet.Lookup("help"); helpFlag != nil {
		if wantsHelp, err := strconv.ParseBool(helpFlag.Value.String()); err == nil && wantsHelp {
			displayHelp(cmd)
			return nil, ErrHelpRequested
		}
	}

	configPath := flagSet.Lookup("config").Value.String()
	cfgViper := viper.New()
	if configPath != "" {
		cfgViper.SetConfigFile(configPath)
		if err := cfgViper.ReadInConfig(); err != nil {
			return nil, err
		}
	}

	cfg := Default()
	cfg.ConfigFile = configPath

	if err := applyConfigSettings(cfg, cfgViper.AllSettings()); err != nil {
		return nil, err
	}

	if err := applyFlagOverrides(cfg, flagSet); err != nil {
		return nil, err
	}

	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	cfg.HTMLOutput = strings.TrimSpace(cfg.HTMLOutput)
	cfg.PromTextfile = strings.TrimSpace(cfg.PromTextfile)
	cfg.Baseline = strings.TrimSpace(cfg.Baseline)

	return cfg, nil
}

// applyConfigSettings applies settings from a config file to the Config struct.
func applyConfigSettings(cfg *Config, settings map[string]interface{}) error {
	if len(settings) == 0 {
		return nil
	}

	if raw, ok := lookupSetting(settings, "strategies", "strategy"); ok {
		val, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("strategies: %w", err)
		}
		cfg.Strategies = val
	}

	if raw, ok := lookupSetting(settings, "distributions", "distribution"); ok {
		val, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("distributions: %w", err)
		}
		cfg.Distributions = val
	}

	if raw, ok := lookupSetting(settings, "sizes"); ok {
		val, err := asIntSlice(raw)
		if err != nil {
			return fmt.Errorf("sizes: %w", err)
		}
		cfg.Sizes = val
	}

	if raw, ok := lookupSetting(settings, "sizerange", "size_range", "size-range"); ok {
		r, err := parseSizeRange(raw, cfg.SizeRange)
		if err != nil {
			return fmt.Errorf("size_range: %w", err)
		}
		cfg.SizeRange = r
	}

	if raw, ok := lookupSetting(settings, "repetitions"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("repetitions: %w", err)
		}
		cfg.Repetitions = val
	}

	if raw, ok := lookupSetting(settings, "warmup"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("warmup: %w", err)
		}
		cfg.Warmup = val
	}

	if raw, ok := lookupSetting(settings, "maxvalue", "max_value", "max-value"); ok {
		val, err := asUint64(raw)
		if err != nil {
			return fmt.Errorf("max_value: %w", err)
		}
		cfg.MaxValue = val
	}

	if raw, ok := lookupSetting(settings, "seed"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("seed: %w", err)
		}
		cfg.Seed = int64(val)
	}

	if raw, ok := lookupSetting(settings, "concurrency"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("concurrency: %w", err)
		}
		cfg.Concurrency = val
	}

	if raw, ok := lookupSetting(settings, "rate"); ok {
		val, err := asInt(raw)
		if err != nil {
			return fmt.Errorf("rate: %w", err)
		}
		cfg.Rate = val
	}

	if raw, ok := lookupSetting(settings, "duration"); ok {
		dur, err := asDuration(raw)
		if err != nil {
			return fmt.Errorf("duration: %w", err)
		}
		cfg.Duration = dur
	}

	if raw, ok := lookupSetting(settings, "verify"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("verify: %w", err)
		}
		cfg.Verify = val
	}

	if raw, ok := lookupSetting(settings, "jsonoutput", "json_output", "json-output"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("jsonOutput: %w", err)
		}
		cfg.JSONOutput = val
	}

	if raw, ok := lookupSetting(settings, "yamloutput", "yaml_output", "yaml-output"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("yamlOutput: %w", err)
		}
		cfg.YAMLOutput = val
	}

	if raw, ok := lookupSetting(settings, "dashboard"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("dashboard: %w", err)
		}
		cfg.Dashboard = val
	}

	if raw, ok := lookupSetting(settings, "logerrors", "log_errors", "log-errors"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("logErrors: %w", err)
		}
		cfg.LogErrors = val
	}

	if raw, ok := lookupSetting(settings, "loglevel", "log_level", "log-level"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("logLevel: %w", err)
		}
		if strings.TrimSpace(val) != "" {
			cfg.LogLevel = val
		}
	}

	if raw, ok := lookupSetting(settings, "htmloutput", "html_output", "html-output"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("htmlOutput: %w", err)
		}
		cfg.HTMLOutput = val
	}

	if raw, ok := lookupSetting(settings, "promtextfile", "prom_textfile", "prom-textfile"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("promTextfile: %w", err)
		}
		cfg.PromTextfile = val
	}

	if raw, ok := lookupSetting(settings, "baseline"); ok {
		val, err := asString(raw)
		if err != nil {
			return fmt.Errorf("baseline: %w", err)
		}
		cfg.Baseline = val
	}

	if raw, ok := lookupSetting(settings, "regressiontolerance", "regression_tolerance", "regression-tolerance"); ok {
		val, err := asFloat64(raw)
		if err != nil {
			return fmt.Errorf("regression_tolerance: %w", err)
		}
		cfg.RegressionTolerance = val
	}

	if raw, ok := lookupSetting(settings, "failonregression", "fail_on_regression", "fail-on-regression"); ok {
		val, err := asBool(raw)
		if err != nil {
			return fmt.Errorf("fail_on_regression: %w", err)
		}
		cfg.FailOnRegression = val
	}

	if raw, ok := lookupSetting(settings, "thresholds"); ok {
		thresholds, err := asStringSlice(raw)
		if err != nil {
			return fmt.Errorf("thresholds: %w", err)
		}
		cfg.Thresholds = thresholds
	}

	if raw, ok := lookupSetting(settings, "tracing"); ok {
		tracing, err := parseTracingConfig(raw, cfg.Tracing)
		if err != nil {
			return fmt.Errorf("tracing: %w", err)
		}
		cfg.Tracing = tracing
	}

	return nil
}

func parseSizeRange(value interface{}, base SizeRange) (SizeRange, error) {
	if value == nil {
		return base, nil
	}
	entry, err := toStringKeyMap(value)
	if err != nil {
		return SizeRange{}, err
	}
	r := base
	if raw, ok := lookupSetting(entry, "from"); ok {
		val, err := asInt(raw)
		if err != nil {
			return SizeRange{}, fmt.Errorf("from: %w", err)
		}
		r.From = val
	}
	if raw, ok := lookupSetting(entry, "to"); ok {
		val, err := asInt(raw)
		if err != nil {
			return SizeRange{}, fmt.Errorf("to: %w", err)
		}
		r.To = val
	}
	if raw, ok := lookupSetting(entry, "step"); ok {
		val, err := asInt(raw)
		if err != nil {
			return SizeRange{}, fmt.Errorf("step: %w", err)
		}
		r.Step = val
	}
	return r, nil
}

func parseTracingConfig(value interface{}, base TracingConfig) (TracingConfig, error) {
	if value == nil {
		return base, nil
	}
	entry, err := toStringKeyMap(value)
	if err != nil {
		return TracingConfig{}, err
	}
	tc := base
	if raw, ok := lookupSetting(entry, "endpoint"); ok {
		val, err := asString(raw)
		if err != nil {
			return TracingConfig{}, fmt.Errorf("endpoint: %w", err)
		}
		tc.Endpoint = strings.TrimSpace(val)
	}
	if raw, ok := lookupSetting(entry, "protocol"); ok {
		val, err := asString(raw)
		if err != nil {
			return TracingConfig{}, fmt.Errorf("protocol: %w", err)
		}
		tc.Protocol = strings.ToLower(strings.TrimSpace(val))
	}
	if raw, ok := lookupSetting(entry, "servicename", "service_name", "service-name"); ok {
		val, err := asString(raw)
		if err != nil {
			return TracingConfig{}, fmt.Errorf("service_name: %w", err)
		}
		tc.ServiceName = strings.TrimSpace(val)
	}
	if raw, ok := lookupSetting(entry, "samplerate", "sample_rate", "sample-rate"); ok {
		val, err := asFloat64(raw)
		if err != nil {
			return TracingConfig{}, fmt.Errorf("sample_rate: %w", err)
		}
		tc.SampleRate = val
	}
	if raw, ok := lookupSetting(entry, "insecure"); ok {
		val, err := asBool(raw)
		if err != nil {
			return TracingConfig{}, fmt.Errorf("insecure: %w", err)
		}
		tc.Insecure = val
	}
	return tc, nil
}
