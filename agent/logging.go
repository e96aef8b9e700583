package agent

import (
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"
	"sync"
	"time"
)

// LogLevel represents different logging levels.
type LogLevel int

const (
	// LogLevelDebug represents debug level logging
	LogLevelDebug LogLevel = iota

	// LogLevelInfo represents info level logging
	LogLevelInfo

	// LogLevelWarn represents warn level logging
	LogLevelWarn

	// LogLevelError represents error level logging
	LogLevelError
)

// String returns a string representation of the log level.
func (l LogLevel) String() string {
	switch l {
	case LogLevelDebug:
		return "DEBUG"
	case LogLevelInfo:
		return "INFO"
	case LogLevelWarn:
		return "WARN"
	case LogLevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// DefaultLogger provides a simple line-oriented implementation of the Logger
// interface.
type DefaultLogger struct {
	level  LogLevel
	logger *log.Logger
	mu     sync.Mutex
	fields []Field
}

// NewDefaultLogger creates a new default logger at info level writing to
// standard output.
func NewDefaultLogger() Logger {
	return NewDefaultLoggerWithLevel(LogLevelInfo)
}

// NewDefaultLoggerWithLevel creates a new default logger with a specific level.
func NewDefaultLoggerWithLevel(level LogLevel) Logger {
	return &DefaultLogger{
		level:  level,
		logger: log.New(os.Stdout, "", log.LstdFlags|log.Lmicroseconds),
	}
}

// NewFileLogger creates a default logger writing to the given writer,
// typically a per-world log file.
func NewFileLogger(w io.Writer, level LogLevel) Logger {
	return &DefaultLogger{
		level:  level,
		logger: log.New(w, "", log.LstdFlags|log.Lmicroseconds),
	}
}

// Debug logs a debug message.
func (l *DefaultLogger) Debug(msg string, fields ...Field) {
	if l.level <= LogLevelDebug {
		l.log(LogLevelDebug, msg, fields...)
	}
}

// Info logs an info message.
func (l *DefaultLogger) Info(msg string, fields ...Field) {
	if l.level <= LogLevelInfo {
		l.log(LogLevelInfo, msg, fields...)
	}
}

// Warn logs a warning message.
func (l *DefaultLogger) Warn(msg string, fields ...Field) {
	if l.level <= LogLevelWarn {
		l.log(LogLevelWarn, msg, fields...)
	}
}

// Error logs an error message.
func (l *DefaultLogger) Error(msg string, fields ...Field) {
	if l.level <= LogLevelError {
		l.log(LogLevelError, msg, fields...)
	}
}

// With returns a new logger with additional fields.
func (l *DefaultLogger) With(fields ...Field) Logger {
	newFields := make([]Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &DefaultLogger{
		level:  l.level,
		logger: l.logger,
		fields: newFields,
	}
}

func (l *DefaultLogger) log(level LogLevel, msg string, fields ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	result := fmt.Sprintf("[%s] %s", level.String(), msg)
	all := append(append([]Field{}, l.fields...), fields...)
	if len(all) > 0 {
		result += " |"
		for _, field := range all {
			result += fmt.Sprintf(" %s=%v", field.Key, field.Value)
		}
	}
	l.logger.Print(result)
}

// StructuredLogger provides structured logging with JSON output, one entry
// per line.
type StructuredLogger struct {
	level  LogLevel
	out    io.Writer
	mu     sync.Mutex
	fields []Field
}

// LogEntry represents a single structured log entry.
type LogEntry struct {
	Timestamp time.Time              `json:"timestamp"`
	Level     string                 `json:"level"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// NewStructuredLogger creates a new structured logger writing JSON entries
// to out.
func NewStructuredLogger(level LogLevel, out io.Writer) Logger {
	return &StructuredLogger{level: level, out: out}
}

// Debug logs a debug message.
func (l *StructuredLogger) Debug(msg string, fields ...Field) {
	if l.level <= LogLevelDebug {
		l.log(LogLevelDebug, msg, fields...)
	}
}

// Info logs an info message.
func (l *StructuredLogger) Info(msg string, fields ...Field) {
	if l.level <= LogLevelInfo {
		l.log(LogLevelInfo, msg, fields...)
	}
}

// Warn logs a warning message.
func (l *StructuredLogger) Warn(msg string, fields ...Field) {
	if l.level <= LogLevelWarn {
		l.log(LogLevelWarn, msg, fields...)
	}
}

// Error logs an error message.
func (l *StructuredLogger) Error(msg string, fields ...Field) {
	if l.level <= LogLevelError {
		l.log(LogLevelError, msg, fields...)
	}
}

// With returns a new logger with additional fields.
func (l *StructuredLogger) With(fields ...Field) Logger {
	newFields := make([]Field, len(l.fields)+len(fields))
	copy(newFields, l.fields)
	copy(newFields[len(l.fields):], fields)

	return &StructuredLogger{
		level:  l.level,
		out:    l.out,
		fields: newFields,
	}
}

func (l *StructuredLogger) log(level LogLevel, msg string, fields ...Field) {
	l.mu.Lock()
	defer l.mu.Unlock()

	entry := LogEntry{
		Timestamp: time.Now(),
		Level:     level.String(),
		Message:   msg,
	}
	all := append(append([]Field{}, l.fields...), fields...)
	if len(all) > 0 {
		entry.Fields = make(map[string]interface{}, len(all))
		for _, field := range all {
			entry.Fields[field.Key] = field.Value
		}
	}
	if data, err := json.Marshal(entry); err == nil {
		l.out.Write(append(data, '\n'))
	}
}

// MultiLogger allows logging to multiple loggers simultaneously.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger creates a new multi-logger.
func NewMultiLogger(loggers ...Logger) Logger {
	return &MultiLogger{loggers: loggers}
}

// Debug logs a debug message to all loggers.
func (m *MultiLogger) Debug(msg string, fields ...Field) {
	for _, logger := range m.loggers {
		logger.Debug(msg, fields...)
	}
}

// Info logs an info message to all loggers.
func (m *MultiLogger) Info(msg string, fields ...Field) {
	for _, logger := range m.loggers {
		logger.Info(msg, fields...)
	}
}

// Warn logs a warning message to all loggers.
func (m *MultiLogger) Warn(msg string, fields ...Field) {
	for _, logger := range m.loggers {
		logger.Warn(msg, fields...)
	}
}

// Error logs an error message to all loggers.
func (m *MultiLogger) Error(msg string, fields ...Field) {
	for _, logger := range m.loggers {
		logger.Error(msg, fields...)
	}
}

// With returns a new multi-logger with additional fields.
func (m *MultiLogger) With(fields ...Field) Logger {
	newLoggers := make([]Logger, len(m.loggers))
	for i, logger := range m.loggers {
		newLoggers[i] = logger.With(fields...)
	}
	return &MultiLogger{loggers: newLoggers}
}

// NoOpLogger provides a logger that does nothing. Compact tournament runs use
// it to suppress per-world logs.
type NoOpLogger struct{}

// NewNoOpLogger creates a new no-op logger.
func NewNoOpLogger() Logger {
	return &NoOpLogger{}
}

// Debug does nothing.
func (l *NoOpLogger) Debug(msg string, fields ...Field) {}

// Info does nothing.
func (l *NoOpLogger) Info(msg string, fields ...Field) {}

// Warn does nothing.
func (l *NoOpLogger) Warn(msg string, fields ...Field) {}

// Error does nothing.
func (l *NoOpLogger) Error(msg string, fields ...Field) {}

// With returns the same no-op logger.
func (l *NoOpLogger) With(fields ...Field) Logger {
	return l
}
