// Package logger provides leveled logging for the idea bot.
//
// Info, Warn and Error are always written. Debug and Section are only
// written in verbose mode (the --verbose flag). Lines have the form
//
//	2024-01-02T15:04:05Z - ideabot - INFO - message
//
// and go to stderr unless redirected with SetOutput.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"
)

var (
	mu      sync.RWMutex
	verbose bool
	output  io.Writer = os.Stderr
	name              = "ideabot"
	now               = time.Now

	// writeMu serialises writes so concurrent loggers do not interleave lines.
	writeMu sync.Mutex
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose returns true if verbose mode is enabled.
func IsVerbose() bool {
	mu.RLock()
	defer mu.RUnlock()
	return verbose
}

// SetOutput sets the output writer for logs.
// Defaults to os.Stderr. Useful for testing.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetName sets the logger name printed on every line.
func SetName(n string) {
	mu.Lock()
	defer mu.Unlock()
	name = n
}

// SetClock replaces the time source. Pass nil to restore time.Now.
func SetClock(fn func() time.Time) {
	mu.Lock()
	defer mu.Unlock()
	if fn == nil {
		fn = time.Now
	}
	now = fn
}

// write formats one line (caller must hold the read lock).
func write(level, format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	writeMu.Lock()
	defer writeMu.Unlock()
	fmt.Fprintf(output, "%s - %s - %s - %s\n", now().UTC().Format(time.RFC3339), name, level, msg)
}

// Debug prints a message if verbose mode is enabled.
func Debug(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		write("DEBUG", format, args...)
	}
}

// Section prints a section header if verbose mode is enabled.
func Section(title string) {
	mu.RLock()
	defer mu.RUnlock()
	if verbose {
		writeMu.Lock()
		defer writeMu.Unlock()
		fmt.Fprintf(output, "\n=== %s ===\n", title)
	}
}

// Info prints an informational message.
func Info(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	write("INFO", format, args...)
}

// Warn prints a warning message.
func Warn(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	write("WARNING", format, args...)
}

// Error prints an error message.
func Error(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	write("ERROR", format, args...)
}

// Critical prints a message for failures that stop the bot.
func Critical(format string, args ...any) {
	mu.RLock()
	defer mu.RUnlock()
	write("CRITICAL", format, args...)
}
