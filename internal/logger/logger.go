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
)

var (
	mu            sync.RWMutex
	defaultLogger *slog.Logger
	logLevel      = new(slog.LevelVar)
	logOutput     io.Closer
)

// debugFilter prints the filtering decisions of the handler to stderr.
// Toggled by the -debug-log flag.
var debugFilter bool

// SetFilterDebug enables or disables filter diagnostics.
func SetFilterDebug(enabled bool) {
	debugFilter = enabled
}

func handlerOptions() *slog.HandlerOptions {
	return &slog.HandlerOptions{
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
}

// Init installs a text logger writing to output at the given level.
// It can be called more than once; the last call wins.
func Init(level slog.Level, output io.Writer) {
	if output == nil {
		output = io.Discard
	}
	logLevel.Set(level)
	install(slog.NewTextHandler(output, handlerOptions()))
}

// Setup opens the destination named by cfg.LogFilePath ("" or "-" means
// stderr) and installs a filtering handler built from cfg.
func Setup(cfg Config) error {
	cfg.process()

	var out io.Writer = os.Stderr
	var closer io.Closer
	if cfg.LogFilePath != "" && cfg.LogFilePath != "-" {
		f, err := os.OpenFile(cfg.LogFilePath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return fmt.Errorf("failed to open log file '%s': %w", cfg.LogFilePath, err)
		}
		out = f
		closer = f
	}

	logLevel.Set(cfg.level.Level())
	base := slog.NewTextHandler(out, handlerOptions())
	install(newFilteringHandler(base, &cfg))

	mu.Lock()
	prev := logOutput
	logOutput = closer
	mu.Unlock()
	if prev != nil {
		_ = prev.Close()
	}

	Infof("Logger initialized (level=%s)", cfg.level.Level())
	return nil
}

// Close releases the log file opened by Setup, if any.
func Close() error {
	mu.Lock()
	c := logOutput
	logOutput = nil
	mu.Unlock()
	if c == nil {
		return nil
	}
	return c.Close()
}

func install(h slog.Handler) {
	mu.Lock()
	defaultLogger = slog.New(h)
	mu.Unlock()
}

// current returns the installed logger, falling back to a discarding one
// so packages can log before main has configured anything.
func current() *slog.Logger {
	mu.RLock()
	l := defaultLogger
	mu.RUnlock()
	if l != nil {
		return l
	}
	mu.Lock()
	defer mu.Unlock()
	if defaultLogger == nil {
		defaultLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: logLevel}))
	}
	return defaultLogger
}

// logAtLevel creates and logs a record at the specified level, capturing the correct caller source.
func logAtLevel(level slog.Level, tag string, format string, args ...interface{}) {
	l := current()
	if !l.Enabled(context.Background(), level) {
		return
	}

	// Skip runtime.Callers, logAtLevel and the exported wrapper.
	var pcs [1]uintptr
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

// DebugTagf logs a debug message carrying a tag the filter can match.
func DebugTagf(tag, format string, args ...interface{}) {
	logAtLevel(slog.LevelDebug, tag, format, args...)
}

// InfoTagf logs an info message carrying a tag.
func InfoTagf(tag, format string, args ...interface{}) {
	logAtLevel(slog.LevelInfo, tag, format, args...)
}

// WarnTagf logs a warning carrying a tag.
func WarnTagf(tag, format string, args ...interface{}) {
	logAtLevel(slog.LevelWarn, tag, format, args...)
}

// Fatalf logs an error message then exits.
func Fatalf(format string, args ...interface{}) {
	logAtLevel(slog.LevelError, "", format, args...)
	_ = Close()
	os.Exit(1)
}
