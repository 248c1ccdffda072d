package colors

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"sync/atomic"
	"time"
)

var (
	structuredMu             sync.Mutex
	structuredLoggingEnabled atomic.Bool
)

func init() {
	structuredLoggingEnabled.Store(true)
}

// StructuredLogLevel represents log level for structured logs.
type StructuredLogLevel string

const (
	LevelDebug StructuredLogLevel = "debug"
	LevelInfo  StructuredLogLevel = "info"
	LevelWarn  StructuredLogLevel = "warn"
	LevelError StructuredLogLevel = "error"
)

// StructuredLogEntry represents a structured log entry.
type StructuredLogEntry struct {
	Timestamp string                 `json:"timestamp"`
	Level     StructuredLogLevel     `json:"level"`
	Component string                 `json:"component"`
	Action    string                 `json:"action"`
	Status    string                 `json:"status"`
	Error     string                 `json:"error,omitempty"`
	ID        string                 `json:"id,omitempty"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
}

// DisableStructuredLogging disables structured logging output.
func DisableStructuredLogging() {
	structuredLoggingEnabled.Store(false)
}

// EnableStructuredLogging enables structured logging output.
func EnableStructuredLogging() {
	structuredLoggingEnabled.Store(true)
}

// StructuredLog writes a structured log entry to stderr when debug mode is on.
// The entry is always mirrored into the structured logger if one is set.
// Redaction of sensitive fields should be applied before calling this function.
func StructuredLog(level StructuredLogLevel, component, action, status string, err error, id string, fields map[string]interface{}) {
	if l := currentLogger(); l != nil {
		args := []any{"component", component, "action", action, "status", status}
		if id != "" {
			args = append(args, "id", id)
		}
		if err != nil {
			args = append(args, "error", err.Error())
		}
		for k, v := range fields {
			args = append(args, k, v)
		}
		msg := component + " " + action
		switch level {
		case LevelDebug:
			l.Debug(msg, args...)
		case LevelWarn:
			l.Warn(msg, args...)
		case LevelError:
			l.Error(msg, args...)
		default:
			l.Info(msg, args...)
		}
	}

	if !debugEnabled.Load() || !structuredLoggingEnabled.Load() {
		return
	}

	entry := StructuredLogEntry{
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Level:     level,
		Component: component,
		Action:    action,
		Status:    status,
		ID:        id,
		Fields:    fields,
	}
	if err != nil {
		entry.Error = err.Error()
	}

	data, marshalErr := json.Marshal(entry)
	if marshalErr != nil {
		fmt.Fprintf(os.Stderr, "failed to marshal structured log: %v\n", marshalErr)
		return
	}

	structuredMu.Lock()
	defer structuredMu.Unlock()
	outMu.Lock()
	w := stderr
	outMu.Unlock()
	if _, writeErr := fmt.Fprintf(w, "%s\n", data); writeErr != nil {
		fmt.Fprintf(os.Stderr, "failed to write structured log: %v\n", writeErr)
	}
}

// StructuredDebug logs a structured debug entry.
func StructuredDebug(component, action, status string, err error, id string, fields map[string]interface{}) {
	StructuredLog(LevelDebug, component, action, status, err, id, fields)
}

// StructuredInfo logs a structured info entry.
func StructuredInfo(component, action, status string, err error, id string, fields map[string]interface{}) {
	StructuredLog(LevelInfo, component, action, status, err, id, fields)
}

// StructuredWarn logs a structured warning entry.
func StructuredWarn(component, action, status string, err error, id string, fields map[string]interface{}) {
	StructuredLog(LevelWarn, component, action, status, err, id, fields)
}

// StructuredError logs a structured error entry.
func StructuredError(component, action, status string, err error, id string, fields map[string]interface{}) {
	StructuredLog(LevelError, component, action, status, err, id, fields)
}
