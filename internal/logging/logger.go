package logging

import (
	"fmt"
	"io"
	"os"
	"time"
)

// Level represents log levels
type Level int

const (
	LevelDebug Level = iota
	LevelInfo
	LevelWarn
	LevelError
)

// String returns the string representation of the log level
func (l Level) String() string {
	switch l {
	case LevelDebug:
		return "DEBUG"
	case LevelInfo:
		return "INFO"
	case LevelWarn:
		return "WARN"
	case LevelError:
		return "ERROR"
	default:
		return "UNKNOWN"
	}
}

// Logger provides leveled, prefix-scoped logging
type Logger struct {
	level  Level
	output io.Writer
	prefix string
}

// NewLogger creates a new logger instance
func NewLogger(level Level, output io.Writer, prefix string) *Logger {
	return &Logger{
		level:  level,
		output: output,
		prefix: prefix,
	}
}

// NewDefaultLogger creates a logger with default settings
func NewDefaultLogger(prefix string) *Logger {
	return NewLogger(LevelInfo, os.Stderr, prefix)
}

func (l *Logger) log(level Level, format string, args ...any) {
	if level < l.level {
		return
	}

	timestamp := time.Now().Format("2006-01-02 15:04:05")
	message := fmt.Sprintf(format, args...)

	prefix := l.prefix
	if prefix != "" {
		prefix += ": "
	}

	logLine := fmt.Sprintf("[%s] %s %s%s\n",
		timestamp,
		level.String(),
		prefix,
		message)

	_, _ = l.output.Write([]byte(logLine))
}

// Debug logs a debug message
func (l *Logger) Debug(format string, args ...any) {
	l.log(LevelDebug, format, args...)
}

// Info logs an info message
func (l *Logger) Info(format string, args ...any) {
	l.log(LevelInfo, format, args...)
}

// Warn logs a warning message
func (l *Logger) Warn(format string, args ...any) {
	l.log(LevelWarn, format, args...)
}

// Error logs an error message
func (l *Logger) Error(format string, args ...any) {
	l.log(LevelError, format, args...)
}

// SetLevel changes the minimum level emitted by this logger
func (l *Logger) SetLevel(level Level) {
	l.level = level
}

// WithPrefix creates a new logger scoped to a sub-component
func (l *Logger) WithPrefix(prefix string) *Logger {
	newPrefix := l.prefix
	if newPrefix != "" {
		newPrefix += " "
	}
	newPrefix += prefix

	return &Logger{
		level:  l.level,
		output: l.output,
		prefix: newPrefix,
	}
}
