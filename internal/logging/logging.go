// Package logging wraps a process-wide zap logger.
// Until Initialize is called every helper logs to a no-op logger, so packages
// can log unconditionally and tests stay quiet.
package logging

import (
	"context"

	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var log = zap.NewNop()

// Config holds logger configuration
type Config struct {
	Debug bool
}

// Initialize builds the global logger. Debug switches to the development
// encoder and lowers the level to debug.
func Initialize(cfg Config) error {
	var zapConfig zap.Config
	if cfg.Debug {
		zapConfig = zap.NewDevelopmentConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		zapConfig = zap.NewProductionConfig()
		zapConfig.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}

	logger, err := zapConfig.Build()
	if err != nil {
		return err
	}
	log = logger
	return nil
}

// Replace swaps the global logger and returns a function restoring the previous one.
// Tests use it with zaptest/observer to assert on emitted entries.
func Replace(logger *zap.Logger) func() {
	prev := log
	log = logger
	return func() { log = prev }
}

// Sync flushes buffered log entries.
func Sync() {
	_ = log.Sync()
}

// Default returns the global logger (without context fields)
func Default() *zap.Logger {
	return log
}

// FromContext returns the global logger annotated with the chi request id, if any.
func FromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return log
	}
	if reqID := middleware.GetReqID(ctx); reqID != "" {
		return log.With(zap.String("request_id", reqID))
	}
	return log
}

// Info logs an info message
func Info(msg string, fields ...zap.Field) {
	log.Info(msg, fields...)
}

// InfoCtx logs an info message with context
func InfoCtx(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Info(msg, fields...)
}

// WarnCtx logs a warning with context
func WarnCtx(ctx context.Context, msg string, fields ...zap.Field) {
	FromContext(ctx).Warn(msg, fields...)
}

// ErrorCtx logs an error with context
func ErrorCtx(ctx context.Context, err error, fields ...zap.Field) {
	if err != nil {
		FromContext(ctx).Error(err.Error(), fields...)
	} else {
		FromContext(ctx).Error("error occurred", fields...)
	}
}

// Fatal logs a fatal message and exits
func Fatal(msg string, fields ...zap.Field) {
	log.Fatal(msg, fields...)
}
