// Package log wraps log/slog with the -v/-vv/-vvv verbosity model used by
// the ghlens commands.
package log

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

// Verbosity levels
const (
	LevelQuiet = iota // warnings and errors only
	LevelInfo         // -v: lookups, strategy selection, note writes
	LevelDebug        // -vv: HTTP requests, retries, rate limit headers
	LevelTrace        // -vvv: prompts and raw payload sizes
)

const slogLevelTrace = slog.Level(-8)

var (
	mu         sync.Mutex
	verbosity  int
	logger     *slog.Logger
	output     io.Writer
	inProgress bool
)

// Initialize sets up the package logger for the given verbosity.
func Initialize(level int, w io.Writer) {
	mu.Lock()
	defer mu.Unlock()

	verbosity = level
	output = w
	logger = slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{
		Level: slogLevel(level),
	}))
}

func slogLevel(level int) slog.Level {
	switch {
	case level >= LevelTrace:
		return slogLevelTrace
	case level >= LevelDebug:
		return slog.LevelDebug
	case level >= LevelInfo:
		return slog.LevelInfo
	default:
		return slog.LevelWarn
	}
}

func emit(level slog.Level, msg string, args ...any) {
	mu.Lock()
	defer mu.Unlock()

	if inProgress {
		_, _ = fmt.Fprintln(output)
		inProgress = false
	}
	logger.Log(context.Background(), level, msg, args...)
}

// Info logs at info level (-v)
func Info(msg string, args ...any) {
	if IsInfo() {
		emit(slog.LevelInfo, msg, args...)
	}
}

// Debug logs at debug level (-vv)
func Debug(msg string, args ...any) {
	if IsDebug() {
		emit(slog.LevelDebug, msg, args...)
	}
}

// Trace logs at trace level (-vvv)
func Trace(msg string, args ...any) {
	if IsTrace() {
		emit(slogLevelTrace, msg, args...)
	}
}

// Warn is always visible.
func Warn(msg string, args ...any) {
	emit(slog.LevelWarn, msg, args...)
}

// Error is always visible.
func Error(msg string, args ...any) {
	emit(slog.LevelError, msg, args...)
}

// Progress prints a status line without a trailing newline. Shown at -v and above.
func Progress(format string, args ...any) {
	if !IsInfo() {
		return
	}
	mu.Lock()
	defer mu.Unlock()
	inProgress = true
	_, _ = fmt.Fprintf(output, "\r"+format, args...)
}

// ProgressDone terminates the current progress line with "done".
func ProgressDone() {
	endProgress("done")
}

// ProgressFail terminates the current progress line with "failed".
func ProgressFail() {
	endProgress("failed")
}

func endProgress(status string) {
	mu.Lock()
	defer mu.Unlock()
	if inProgress {
		_, _ = fmt.Fprintln(output, " "+status)
		inProgress = false
	}
}

// IsInfo reports whether -v output is enabled.
func IsInfo() bool {
	return Verbosity() >= LevelInfo
}

// IsDebug reports whether -vv output is enabled.
func IsDebug() bool {
	return Verbosity() >= LevelDebug
}

// IsTrace reports whether -vvv output is enabled.
func IsTrace() bool {
	return Verbosity() >= LevelTrace
}

// Verbosity returns the configured verbosity level.
func Verbosity() int {
	mu.Lock()
	defer mu.Unlock()
	return verbosity
}

func init() {
	output = os.Stderr
	verbosity = LevelQuiet
	logger = slog.New(slog.NewTextHandler(output, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
}
