// Package colors provides color output utilities.
package colors

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"sync/atomic"
)

// Color constants
const (
	Red    = "\033[0;31m"
	Green  = "\033[0;32m"
	Yellow = "\033[1;33m"
	Blue   = "\033[0;34m"
	Cyan   = "\033[0;36m"
	Reset  = "\033[0m"
)

const checkmark = "✓"

// Logger defines the interface for structured logging.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

var (
	debugEnabled atomic.Bool
	quietEnabled atomic.Bool
	logger       Logger
	loggerMu     sync.RWMutex

	outMu  sync.Mutex
	stdout io.Writer = os.Stdout
	stderr io.Writer = os.Stderr
)

func init() {
	if val := os.Getenv("ZENDESK_INTRAY_DEBUG"); val == "true" || val == "1" {
		debugEnabled.Store(true)
	}
}

// SetDebug enables or disables debug output.
func SetDebug(enabled bool) {
	debugEnabled.Store(enabled)
}

// SetQuiet suppresses informational console output. Errors and warnings are still printed.
func SetQuiet(enabled bool) {
	quietEnabled.Store(enabled)
}

// SetLogger sets the structured logger to mirror console output.
func SetLogger(l Logger) {
	loggerMu.Lock()
	defer loggerMu.Unlock()
	logger = l
}

// SetOutput redirects console output. Nil writers restore the process defaults.
func SetOutput(out, errOut io.Writer) {
	outMu.Lock()
	defer outMu.Unlock()
	if out == nil {
		out = os.Stdout
	}
	if errOut == nil {
		errOut = os.Stderr
	}
	stdout = out
	stderr = errOut
}

func currentLogger() Logger {
	loggerMu.RLock()
	defer loggerMu.RUnlock()
	return logger
}

// emit writes one formatted line. Write failures fall back to a plain line on os.Stderr.
func emit(toStderr bool, format, msg string) {
	outMu.Lock()
	w := stdout
	if toStderr {
		w = stderr
	}
	_, err := fmt.Fprintf(w, format, msg)
	outMu.Unlock()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to print message: %v: %s\n", err, msg)
	}
}

// Error outputs an error message to stderr.
func Error(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Error(msg)
	}
	emit(true, Red+"Error:"+Reset+" %s"+Reset+"\n", msg)
}

// Warning outputs a warning message to stderr.
func Warning(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Warn(msg)
	}
	emit(true, Yellow+"Warning:"+Reset+" %s"+Reset+"\n", msg)
}

// Success outputs a success message to stdout.
func Success(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Info(msg, "type", "success")
	}
	if quietEnabled.Load() {
		return
	}
	emit(false, Green+checkmark+Reset+" %s"+Reset+"\n", msg)
}

// Info outputs an informational message to stdout.
func Info(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Info(msg)
	}
	if quietEnabled.Load() {
		return
	}
	emit(false, Blue+"%s"+Reset+"\n", msg)
}

// LogInfo outputs an informational message to stderr, keeping stdout clean for data.
func LogInfo(msgs ...string) {
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Info(msg)
	}
	if quietEnabled.Load() {
		return
	}
	emit(true, Blue+"%s"+Reset+"\n", msg)
}

// Debug outputs a debug message to stderr if debug is enabled.
func Debug(msgs ...string) {
	if !debugEnabled.Load() {
		return
	}
	msg := strings.Join(msgs, " ")
	if l := currentLogger(); l != nil {
		l.Debug(msg)
	}
	emit(true, Cyan+"Debug:"+Reset+" %s"+Reset+"\n", msg)
}
