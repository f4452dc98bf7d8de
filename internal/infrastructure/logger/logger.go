package logger

import (
	"fmt"

	"github.com/taskmaster/todo/internal/infrastructure/config"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Logger wraps zap.SugaredLogger to provide application-specific logging
type Logger struct {
	*zap.SugaredLogger
}

// New creates a new logger instance
func New(cfg config.LoggerConfig) (*Logger, error) {
	var zapConfig zap.Config

	if cfg.Format == "json" {
		zapConfig = zap.NewProductionConfig()
	} else {
		zapConfig = zap.NewDevelopmentConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}
	zapConfig.Level = zap.NewAtomicLevelAt(level)

	// CLI output goes to stdout, so file or stderr keeps the two apart
	switch {
	case cfg.Output == "file" && cfg.Filename != "":
		zapConfig.OutputPaths = []string{cfg.Filename}
		zapConfig.ErrorOutputPaths = []string{cfg.Filename}
	case cfg.Output == "stdout":
		zapConfig.OutputPaths = []string{"stdout"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	default:
		zapConfig.OutputPaths = []string{"stderr"}
		zapConfig.ErrorOutputPaths = []string{"stderr"}
	}

	if cfg.Format != "json" {
		zapConfig.Development = true
		zapConfig.DisableStacktrace = true
	}

	zapLogger, err := zapConfig.Build(
		zap.AddCallerSkip(1),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	return &Logger{
		SugaredLogger: zapLogger.Sugar(),
	}, nil
}

// NewNop returns a logger that discards everything
func NewNop() *Logger {
	return &Logger{SugaredLogger: zap.NewNop().Sugar()}
}

// FromZap wraps an existing zap logger, e.g. an observer core in tests
func FromZap(l *zap.Logger) *Logger {
	return &Logger{SugaredLogger: l.Sugar()}
}

// WithFields adds structured fields to the logger
func (l *Logger) WithFields(fields ...interface{}) *Logger {
	return &Logger{
		SugaredLogger: l.SugaredLogger.With(fields...),
	}
}

// WithError adds an error field to the logger
func (l *Logger) WithError(err error) *Logger {
	return l.WithFields("error", err.Error())
}

// WithComponent adds a component field to the logger
func (l *Logger) WithComponent(component string) *Logger {
	return l.WithFields("component", component)
}

// LogHTTPRequest logs a served request, at error level for 5xx and warn for 4xx
func (l *Logger) LogHTTPRequest(method, path, userAgent, ip string, statusCode int, duration float64) {
	fields := []interface{}{
		"method", method,
		"path", path,
		"status_code", statusCode,
		"duration_ms", duration,
		"user_agent", userAgent,
		"ip", ip,
	}

	switch {
	case statusCode >= 500:
		l.Errorw("HTTP request failed", fields...)
	case statusCode >= 400:
		l.Warnw("HTTP request rejected", fields...)
	default:
		l.Infow("HTTP request", fields...)
	}
}

// LogTaskAction records a store mutation at debug level
func (l *Logger) LogTaskAction(action, taskID string, metadata map[string]interface{}) {
	fields := []interface{}{
		"action", action,
		"task_id", taskID,
	}

	for k, v := range metadata {
		fields = append(fields, k, v)
	}

	l.Debugw("Task action", fields...)
}

// LogStorageFailure records a recovered durable-slot failure
func (l *Logger) LogStorageFailure(op, key string, err error) {
	l.Errorw("Durable slot operation failed",
		"operation", op,
		"slot_key", key,
		"error", err.Error(),
	)
}

// Close flushes any buffered log entries
func (l *Logger) Close() error {
	return l.SugaredLogger.Sync()
}
