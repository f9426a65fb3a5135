package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
)

// Logger wraps the process-wide structured logger.
type Logger struct {
	slog    *slog.Logger
	closer  io.Closer
	enabled bool
}

var globalLogger *Logger

// Init initializes the logger. Output goes to logFile and/or stdout as text
// lines, or JSON objects when jsonFormat is set.
func Init(enabled bool, levelStr, logFile string, console, jsonFormat bool) error {
	Close()
	if !enabled {
		globalLogger = &Logger{enabled: false}
		return nil
	}

	var writers []io.Writer
	var closer io.Closer

	if logFile != "" {
		dir := filepath.Dir(logFile)
		if dir != "." && dir != "" {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("failed to create log directory: %w", err)
			}
		}
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
		if err != nil {
			return fmt.Errorf("failed to open log file: %w", err)
		}
		writers = append(writers, f)
		closer = f
	}

	if console || len(writers) == 0 {
		writers = append(writers, os.Stdout)
	}

	globalLogger = &Logger{
		slog:    New(io.MultiWriter(writers...), levelStr, jsonFormat),
		closer:  closer,
		enabled: true,
	}
	return nil
}

// New builds a slog logger writing to w.
func New(w io.Writer, levelStr string, jsonFormat bool) *slog.Logger {
	opts := &slog.HandlerOptions{Level: ParseLevel(levelStr)}
	if jsonFormat {
		return slog.New(slog.NewJSONHandler(w, opts))
	}
	return slog.New(slog.NewTextHandler(w, opts))
}

// SetOutput replaces the global logger with one writing to w.
func SetOutput(w io.Writer, levelStr string, jsonFormat bool) {
	Close()
	globalLogger = &Logger{slog: New(w, levelStr, jsonFormat), enabled: true}
}

// Close releases the log file, if any.
func Close() {
	if globalLogger != nil && globalLogger.closer != nil {
		_ = globalLogger.closer.Close()
		globalLogger.closer = nil
	}
}

// Slog returns the global structured logger, or a discarding one.
func Slog() *slog.Logger {
	if globalLogger == nil || !globalLogger.enabled {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return globalLogger.slog
}

// ParseLevel maps a config level name to a slog level. Unknown names are info.
func ParseLevel(levelStr string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(levelStr)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func logf(level slog.Level, format string, args ...interface{}) {
	if globalLogger == nil || !globalLogger.enabled {
		return
	}
	ctx := context.Background()
	if !globalLogger.slog.Enabled(ctx, level) {
		return
	}
	globalLogger.slog.Log(ctx, level, fmt.Sprintf(format, args...))
}

// Debugf logs a debug message.
func Debugf(format string, args ...interface{}) {
	logf(slog.LevelDebug, format, args...)
}

// Infof logs an info message.
func Infof(format string, args ...interface{}) {
	logf(slog.LevelInfo, format, args...)
}

// Warnf logs a warning.
func Warnf(format string, args ...interface{}) {
	logf(slog.LevelWarn, format, args...)
}

// Errorf logs an error message.
func Errorf(format string, args ...interface{}) {
	logf(slog.LevelError, format, args...)
}
