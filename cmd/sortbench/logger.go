package main

import (
	"fmt"
	"io"
	"strings"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/torosent/sortbench/internal/runner"
)

// newLogger builds a production-style JSON logger writing to w.
func newLogger(level string, w io.Writer) (*zap.Logger, error) {
	lvl := zapcore.InfoLevel
	if strings.TrimSpace(level) != "" {
		if err := lvl.UnmarshalText([]byte(strings.ToLower(level))); err != nil {
			return nil, fmt.Errorf("log level %q: %w", level, err)
		}
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		lvl,
	)
	return zap.New(core).Named("sortbench"), nil
}

type zapFailureLogger struct {
	logger *zap.Logger
}

func (l *zapFailureLogger) LogFailure(trial runner.Trial, err error) {
	if err == nil {
		return
	}
	l.logger.Error("trial failed",
		zap.Int("index", trial.Index),
		zap.String("strategy", string(trial.Strategy)),
		zap.String("distribution", string(trial.Distribution)),
		zap.Int("size", trial.Size),
		zap.Int("repetition", trial.Repetition),
		zap.Bool("warmup", trial.Warmup),
		zap.Error(err),
	)
}
