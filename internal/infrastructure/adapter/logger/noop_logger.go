package logger

import (
	"github.com/moneytrail/ledger/internal/domain/port/core"
)

// NoopLogger implements the Logger interface but doesn't do anything.
// Used in tests where log output is noise.
type NoopLogger struct {
	level core.LogLevel
}

// NewNoopLogger creates a new no-op logger
func NewNoopLogger() core.Logger {
	return &NoopLogger{
		level: core.LogLevelInfo,
	}
}

// SetLevel sets the minimum severity that gets emitted
func (l *NoopLogger) SetLevel(level core.LogLevel) {
	l.level = level
}

// GetLevel reports the current minimum severity
func (l *NoopLogger) GetLevel() core.LogLevel {
	return l.level
}

// Debug discards the entry
func (l *NoopLogger) Debug(message string, fields map[string]any) {}

// Info discards the entry
func (l *NoopLogger) Info(message string, fields map[string]any) {}

// Warn discards the entry
func (l *NoopLogger) Warn(message string, fields map[string]any) {}

// Error discards the entry
func (l *NoopLogger) Error(message string, fields map[string]any) {}

// Flush is a no-op
func (l *NoopLogger) Flush() error {
	return nil
}
