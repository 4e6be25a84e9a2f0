package core

// LogLevel orders logging severities from most to least verbose
type LogLevel int

const (
	// LogLevelDebug traces internals useful while developing
	LogLevelDebug LogLevel = iota
	// LogLevelInfo marks normal operation
	LogLevelInfo
	// LogLevelWarn marks conditions worth attention that need no action
	LogLevelWarn
	// LogLevelError marks failures
	LogLevelError
)

// Logger is the structured logging port the domain depends on. Every entry
// takes a message plus key-value fields; entries below the configured level
// are dropped.
type Logger interface {
	// SetLevel sets the minimum severity that gets emitted
	SetLevel(level LogLevel)
	// GetLevel reports the current minimum severity
	GetLevel() LogLevel
	// Debug emits a debug entry
	Debug(message string, fields map[string]any)
	// Info emits an informational entry
	Info(message string, fields map[string]any)
	// Warn emits a warning entry
	Warn(message string, fields map[string]any)
	// Error emits an error entry
	Error(message string, fields map[string]any)
	// Flush writes out any buffered entries
	Flush() error
}
