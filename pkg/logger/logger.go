package logger

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const (
	// LoggerCtxKey is a unique identifier for the context key.
	LoggerCtxKey = "Logger"
)

var (
	// Log holds an instance of the sugared logger
	Log     *zap.SugaredLogger
	logonce sync.Once
)

// NewLogger sets up an instance of the sugared zap logging driver.
// hookCore, when not nil, receives a copy of every entry (e.g. the sentry core).
func NewLogger(env string, serviceKV map[string]interface{}, hookCore zapcore.Core) (*zap.SugaredLogger, error) {
	var err error
	logonce.Do(func() {
		var slogger *zap.Logger
		switch env {
		case "stage", "prod", "perf":
			// JSON to standard error, InfoLevel and above, no sampling so that
			// benchmark runs keep every delivery failure.
			config := zap.NewProductionConfig()
			config.Sampling = nil
			slogger, err = config.Build()
		default:
			// Human-friendly console output, DebugLevel and above.
			slogger, err = zap.NewDevelopment()
		}
		if err != nil {
			fmt.Printf("Error initializing sugared zap logger: %s", err)
			slogger = zap.NewNop()
		}

		if hookCore != nil {
			slogger = slogger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
				return zapcore.NewTee(core, hookCore)
			}))
		}
		Log = slogger.Sugar()

		AppendServiceKV(serviceKV)
	})

	return Log, err
}

// AppendServiceKV attaches service's core information which should exist in each log.
func AppendServiceKV(serviceKV map[string]interface{}) {
	if serviceKV != nil {
		args := MapToSliceOfKV(serviceKV)
		Log = Log.With(args...)
	}
}

// WithContext returns an instance of the logger with the supplied context populated
func WithContext(ctx context.Context, ctxFields []string) *zap.SugaredLogger {
	if Log == nil {
		NewLogger("", nil, nil)
	}

	if ctx != nil && len(ctxFields) > 0 {
		var args []interface{}
		for _, field := range ctxFields {
			val := ctx.Value(field)
			args = append(args, field, val)
		}
		return Log.With(args...)
	}

	return Log
}

// Ctx gets logger instance from context if available else returns default.
func Ctx(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(LoggerCtxKey).(*zap.SugaredLogger); ok {
			return l
		}
	}
	return WithContext(ctx, nil)
}

// MapToSliceOfKV flattens a map into alternating keys and values
func MapToSliceOfKV(m map[string]interface{}) []interface{} {
	s := make([]interface{}, 0, 2*len(m))
	for k, v := range m {
		s = append(s, k, v)
	}
	return s
}
