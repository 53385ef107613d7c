package log

import (
	"context"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/toogle/docker-tags/pkg/types"
)

// zapLogger is a struct that implements the Logger interface.
type zapLogger struct {
	logger *zap.Logger
}

// contextKey is the key used to store the logger in the context.
type contextKey string

// loggerKey is the key used to store the logger in the context.
const loggerKey contextKey = "logger"

// NewLogger returns a new logger instance writing to stderr, so that stdout
// stays reserved for tag output. When debug is true the logger emits
// debug-level records in the development format.
// This func will panic if the context is nil or if it cannot create a new logger.
func NewLogger(ctx context.Context, debug bool) types.Logger {
	if ctx == nil {
		panic("ctx cannot be nil")
	}
	if logger, ok := ctx.Value(loggerKey).(types.Logger); ok {
		return logger
	}
	cfg := zap.NewProductionConfig()
	if debug {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	if !debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	}
	zapLoggerInstance, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return &zapLogger{logger: zapLoggerInstance}
}

// WithLogger returns a new context with the logger set.
// This func will panic if the context is nil.
func WithLogger(ctx context.Context, logger types.Logger) context.Context {
	if ctx == nil {
		panic("ctx cannot be nil")
	}
	return context.WithValue(ctx, loggerKey, logger)
}

// zapFields filters the variadic fields down to zap.Field values.
func zapFields(fields []interface{}) []zap.Field {
	var zfs []zap.Field
	for _, field := range fields {
		if zf, ok := field.(zap.Field); ok {
			zfs = append(zfs, zf)
		}
	}
	return zfs
}

// Debug logs a debug message with the given fields.
func (l *zapLogger) Debug(msg string, fields ...interface{}) {
	l.logger.Debug(msg, zapFields(fields)...)
}

// Info logs an info message with the given fields.
func (l *zapLogger) Info(msg string, fields ...interface{}) {
	l.logger.Info(msg, zapFields(fields)...)
}

// Warn logs a warn message with the given fields.
func (l *zapLogger) Warn(msg string, fields ...interface{}) {
	l.logger.Warn(msg, zapFields(fields)...)
}

// Error logs an error message with the given fields.
func (l *zapLogger) Error(msg string, fields ...interface{}) {
	l.logger.Error(msg, zapFields(fields)...)
}
