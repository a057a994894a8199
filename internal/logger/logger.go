// internal/logger/logger.go
package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"
	"sync"
	"time"

	"gopkg.in/natefinch/lumberjack.v2"
)

var (
	mu        sync.RWMutex
	logCloser io.Closer
)

// defaultLogger discards everything until Init is called.
var defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

var logLevel = new(slog.LevelVar)

// Init configures the package logger. An empty LogFilePath or "-" writes to
// stderr; anything else goes to a size-rotated file. Calling Init again
// replaces the previous configuration.
func Init(cfg Config) error {
	cfg.process()

	var output io.Writer
	var closer io.Closer
	switch cfg.LogFilePath {
	case "", "-":
		output = os.Stderr
	default:
		if err := os.MkdirAll(filepath.Dir(cfg.LogFilePath), 0o755); err != nil {
			return fmt.Errorf("create log directory: %w", err)
		}
		rotating := &lumberjack.Logger{
			Filename:   cfg.LogFilePath,
			MaxSize:    cfg.MaxSizeMB,
			MaxBackups: cfg.MaxBackups,
		}
		output, closer = rotating, rotating
	}

	initWithWriter(cfg, output, closer)
	Debugf("Logger initialized level=%s file=%q", cfg.level, cfg.LogFilePath)
	return nil
}

// InitWriter configures the logger to write to w; used by tests and tools.
func InitWriter(cfg Config, w io.Writer) {
	cfg.process()
	initWithWriter(cfg, w, nil)
}

func initWithWriter(cfg Config, output io.Writer, closer io.Closer) {
	if output == nil {
		output = io.Discard
	}
	logLevel.Set(cfg.level)

	opts := slog.HandlerOptions{
		Level:     logLevel,
		AddSource: true,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			if a.Key == slog.SourceKey {
				if source, ok := a.Value.Any().(*slog.Source); ok && source != nil {
					source.File = filepath.Base(source.File)
				}
			}
			if a.Key == slog.TimeKey {
				a.Value = slog.StringValue(a.Value.Time().Format(time.TimeOnly))
			}
			return a
		},
	}
	processed := cfg
	handler := newFilteringHandler(slog.NewTextHandler(output, &opts), &processed)

	mu.Lock()
	previous := logCloser
	defaultLogger = slog.New(handler)
	logCloser = closer
	mu.Unlock()

	if previous != nil {
		_ = previous.Close()
	}
}

// Close releases the log file, if any.
func Close() error {
	mu.Lock()
	closer := logCloser
	logCloser = nil
	defaultLogger = slog.New(slog.NewTextHandler(io.Discard, nil))
	mu.Unlock()
	if closer != nil {
		return closer.Close()
	}
	return nil
}

// SetLevel changes the minimum level at runtime.
func SetLevel(level slog.Level) {
	logLevel.Set(level)
}

// logAtLevel creates and logs a record at the specified level, capturing the correct caller source.
func logAtLevel(level slog.Level, tag string, format string, args ...interface{}) {
	l := Get()
	if !l.Enabled(context.Background(), level) {
		return
	}

	var pcs [1]uintptr
	// Skip runtime.Callers, logAtLevel and the exported wrapper.
	runtime.Callers(3, pcs[:])

	r := slog.NewRecord(time.Now(), level, fmt.Sprintf(format, args...), pcs[0])
	if tag != "" {
		r.AddAttrs(slog.String(tagKey, tag))
	}
	_ = l.Handler().Handle(context.Background(), r)
}

// Debugf logs a debug message using Printf-style formatting.
func Debugf(format string, args ...interface{}) {
	logAtLevel(slog.LevelDebug, "", format, args...)
}

// Infof logs an info message using Printf-style formatting.
func Infof(format string, args ...interface{}) {
	logAtLevel(slog.LevelInfo, "", format, args...)
}

// Warnf logs a warning message using Printf-style formatting.
func Warnf(format string, args ...interface{}) {
	logAtLevel(slog.LevelWarn, "", format, args...)
}

// Errorf logs an error message using Printf-style formatting.
func Errorf(format string, args ...interface{}) {
	logAtLevel(slog.LevelError, "", format, args...)
}

// DebugTagf logs a debug message carrying a filter tag.
func DebugTagf(tag, format string, args ...interface{}) {
	logAtLevel(slog.LevelDebug, tag, format, args...)
}

// InfoTagf logs an info message carrying a filter tag.
func InfoTagf(tag, format string, args ...interface{}) {
	logAtLevel(slog.LevelInfo, tag, format, args...)
}

// WarnTagf logs a warning carrying a filter tag.
func WarnTagf(tag, format string, args ...interface{}) {
	logAtLevel(slog.LevelWarn, tag, format, args...)
}

// Get retrieves the configured logger instance.
func Get() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}
