// Package logger is famlink's process-wide stderr logger.
//
// Debug, Info, Warn and Section print only in verbose mode (--verbose);
// Error and LineSink always print. Nothing is ever written to stdout,
// which in a worker carries the protocol stream.
package logger

import (
	"fmt"
	"io"
	"os"
	"sync"
)

// Level tags a log line.
type Level string

// Log levels.
const (
	LevelDebug Level = "DEBUG"
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

var (
	mu      sync.Mutex
	verbose bool
	prefix  string
	output  io.Writer = os.Stderr
)

// SetVerbose enables or disables verbose logging.
func SetVerbose(v bool) {
	mu.Lock()
	defer mu.Unlock()
	verbose = v
}

// IsVerbose reports whether verbose logging is enabled.
func IsVerbose() bool {
	mu.Lock()
	defer mu.Unlock()
	return verbose
}

// SetOutput redirects log output. Defaults to os.Stderr.
func SetOutput(w io.Writer) {
	mu.Lock()
	defer mu.Unlock()
	output = w
}

// SetPrefix puts p in front of every leveled line. Workers use their mode
// and pid, e.g. "ipc 4242", so relayed stderr names its process.
func SetPrefix(p string) {
	mu.Lock()
	defer mu.Unlock()
	prefix = p
}

// Debug logs protocol and lifecycle detail.
func Debug(format string, args ...any) {
	logf(LevelDebug, format, args...)
}

// Info logs progress such as imported seed counts.
func Info(format string, args ...any) {
	logf(LevelInfo, format, args...)
}

// Warn logs recoverable problems such as a rejected seed family.
func Warn(format string, args ...any) {
	logf(LevelWarn, format, args...)
}

// Error logs unconditionally.
func Error(format string, args ...any) {
	logf(LevelError, format, args...)
}

// Section prints a header separating phases of a verbose run.
func Section(name string) {
	mu.Lock()
	defer mu.Unlock()
	if verbose {
		fmt.Fprintf(output, "\n=== %s ===\n", name)
	}
}

// LineSink returns a function printing each line behind p, regardless of
// verbose mode. It relays the stderr of a child process.
func LineSink(p string) func(line string) {
	return func(line string) {
		mu.Lock()
		defer mu.Unlock()
		fmt.Fprintf(output, "%s %s\n", p, line)
	}
}

func logf(level Level, format string, args ...any) {
	mu.Lock()
	defer mu.Unlock()
	if level != LevelError && !verbose {
		return
	}
	if prefix != "" {
		fmt.Fprintf(output, "[%s] %s: %s\n", level, prefix, fmt.Sprintf(format, args...))
		return
	}
	fmt.Fprintf(output, "[%s] %s\n", level, fmt.Sprintf(format, args...))
}
