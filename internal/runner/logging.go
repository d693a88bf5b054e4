package runner

import "context"

// FailureLogger receives failed trials.
type FailureLogger interface {
	LogFailure(trial Trial, err error)
}

// FailureLoggerFunc adapts a function to the FailureLogger interface.
type FailureLoggerFunc func(trial Trial, err error)

func (f FailureLoggerFunc) LogFailure(trial Trial, err error) { f(trial, err) }

// WithLogging wraps an executor so failures are reported to logger.
func WithLogging(exec Executor, logger FailureLogger) Executor {
	if exec == nil || logger == nil {
		return exec
	}
	return &loggingExecutor{next: exec, logger: logger}
}

type loggingExecutor struct {
	next   Executor
	logger FailureLogger
}

func (l *loggingExecutor) Execute(ctx context.Context, trial Trial) error {
	err := l.next.Execute(ctx, trial)
	if err != nil {
		l.logger.LogFailure(trial, err)
	}
	return err
}
