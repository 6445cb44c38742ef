// Package logging wraps zap behind a small key-value API. The Context
// variants stamp the active trace and span ids onto each entry so log
// lines correlate with spans.
package logging

import (
	"context"
	"os"
	"sync/atomic"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type Level = zapcore.Level

const (
	LevelDebug = zapcore.DebugLevel
	LevelInfo  = zapcore.InfoLevel
	LevelWarn  = zapcore.WarnLevel
	LevelError = zapcore.ErrorLevel
)

type Logger struct {
	base   *zap.Logger
	sugar  *zap.SugaredLogger
	closed atomic.Bool
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	defaultLogger.Store(NewNop())
}

// NewJSON builds a production JSON logger writing to stdout at the
// given level, with caller annotation and stacktraces on errors.
func NewJSON(level Level) *Logger {
	encoderCfg := zapcore.EncoderConfig{
		TimeKey:        "time",
		LevelKey:       "level",
		NameKey:        "logger",
		CallerKey:      "caller",
		FunctionKey:    zapcore.OmitKey,
		MessageKey:     "msg",
		StacktraceKey:  "stacktrace",
		LineEnding:     zapcore.DefaultLineEnding,
		EncodeLevel:    zapcore.CapitalLevelEncoder,
		EncodeTime:     zapcore.RFC3339NanoTimeEncoder,
		EncodeDuration: zapcore.StringDurationEncoder,
		EncodeCaller:   zapcore.ShortCallerEncoder,
	}

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encoderCfg),
		zapcore.Lock(os.Stdout),
		level,
	)

	return FromZap(zap.New(core, zap.AddCaller(), zap.AddStacktrace(zapcore.ErrorLevel)))
}

func NewNop() *Logger {
	return FromZap(zap.NewNop())
}

func FromZap(z *zap.Logger) *Logger {
	if z == nil {
		z = zap.NewNop()
	}
	// AddCallerSkip compensates for the wrapper frame so caller
	// annotations point at the call site, not this package.
	skipped := z.WithOptions(zap.AddCallerSkip(1))
	return &Logger{base: z, sugar: skipped.Sugar()}
}

func Default() *Logger {
	if logger := defaultLogger.Load(); logger != nil {
		return logger
	}
	return NewNop()
}

func SetDefault(logger *Logger) {
	if logger == nil {
		logger = NewNop()
	}
	defaultLogger.Store(logger)
}

// Zap exposes the underlying logger for libraries that want one.
func (l *Logger) Zap() *zap.Logger {
	if l == nil || l.base == nil {
		return zap.NewNop()
	}
	return l.base
}

// Sync flushes buffered entries. Safe to call more than once; only the
// first call reaches the underlying logger.
func (l *Logger) Sync() error {
	if l == nil || l.base == nil {
		return nil
	}
	if l.closed.CompareAndSwap(false, true) {
		return l.base.Sync()
	}
	return nil
}

// With returns a child logger carrying the given key-value pairs.
func (l *Logger) With(args ...any) *Logger {
	if l == nil || l.sugar == nil {
		return NewNop()
	}
	child := l.sugar.With(args...)
	return &Logger{base: l.base, sugar: child}
}

func (l *Logger) Debug(msg string, args ...any) { l.sugared().Debugw(msg, args...) }
func (l *Logger) Info(msg string, args ...any)  { l.sugared().Infow(msg, args...) }
func (l *Logger) Warn(msg string, args ...any)  { l.sugared().Warnw(msg, args...) }
func (l *Logger) Error(msg string, args ...any) { l.sugared().Errorw(msg, args...) }

func (l *Logger) DebugContext(ctx context.Context, msg string, args ...any) {
	l.sugared().Debugw(msg, withTrace(ctx, args)...)
}

func (l *Logger) InfoContext(ctx context.Context, msg string, args ...any) {
	l.sugared().Infow(msg, withTrace(ctx, args)...)
}

func (l *Logger) WarnContext(ctx context.Context, msg string, args ...any) {
	l.sugared().Warnw(msg, withTrace(ctx, args)...)
}

func (l *Logger) ErrorContext(ctx context.Context, msg string, args ...any) {
	l.sugared().Errorw(msg, withTrace(ctx, args)...)
}

func (l *Logger) sugared() *zap.SugaredLogger {
	if l == nil || l.sugar == nil {
		return Default().sugar
	}
	return l.sugar
}

func withTrace(ctx context.Context, args []any) []any {
	if ctx == nil {
		return args
	}
	spanCtx := trace.SpanContextFromContext(ctx)
	if !spanCtx.IsValid() {
		return args
	}
	out := make([]any, 0, len(args)+4)
	out = append(out, args...)
	out = append(out,
		"trace_id", spanCtx.TraceID().String(),
		"span_id", spanCtx.SpanID().String(),
	)
	return out
}
