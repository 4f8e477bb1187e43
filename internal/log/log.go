package log

import (
	"context"
	"io"
	"log/slog"
	"os"
	"sync/atomic"
)

var (
	logger atomic.Pointer[slog.Logger]
	level  = new(slog.LevelVar)
)

func init() {
	// Warnings only until Init is called.
	level.Set(VerbosityToLevel(VerbosityWarn))
	logger.Store(slog.New(NewHandler(HandlerOptions{
		Level:  level,
		Format: FormatText,
		Output: os.Stderr,
	})))
}

// Options configures the global logger.
type Options struct {
	Verbosity int
	Format    Format
	Output    io.Writer // nil means stderr
}

// Init installs the global logger (call once at startup).
func Init(opts Options) {
	SetVerbosity(opts.Verbosity)

	newLogger := slog.New(NewHandler(HandlerOptions{
		Level:  level,
		Format: opts.Format,
		Output: opts.Output,
	}))
	logger.Store(newLogger)
	slog.SetDefault(newLogger)
}

// SetVerbosity changes verbosity at runtime.
func SetVerbosity(v int) {
	level.Set(VerbosityToLevel(v))
}

// Verbosity returns the current verbosity level, clamped to 0..4.
func Verbosity() int {
	return LevelToVerbosity(level.Level())
}

// Error logs at error level (v=0).
func Error(msg string, args ...any) {
	logger.Load().Error(msg, args...)
}

// Warn logs at warn level (v=1).
func Warn(msg string, args ...any) {
	logger.Load().Warn(msg, args...)
}

// Info logs at info level (v=2).
func Info(msg string, args ...any) {
	logger.Load().Info(msg, args...)
}

// Debug logs at debug level (v=3).
func Debug(msg string, args ...any) {
	logger.Load().Debug(msg, args...)
}

// Trace logs at trace level (v=4).
func Trace(msg string, args ...any) {
	logger.Load().Log(context.Background(), LevelTrace, msg, args...)
}

// Component returns a logger tagged with a component name.
func Component(name string) *slog.Logger {
	return logger.Load().With("component", name)
}
