// Package logging writes the poller's structured JSON log: one file per process,
// secrets masked, old files pruned.
package logging

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	clog "github.com/charmbracelet/log"
	"github.com/cristianoliveira/zendesk-intray/internal/colors"
)

const (
	filePrefix = "zendesk-intray_"
	fileSuffix = ".log"
	// fileStamp sorts lexically in time order, which pruning relies on.
	fileStamp = "20060102T150405"
)

// Logger is the structured logging interface.
type Logger interface {
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	// With returns a child logger that adds args to every entry.
	With(args ...any) Logger
	// Shutdown closes the log file. Children share it, so one call closes them all.
	Shutdown() error
}

// sink is the open file shared by a logger and its children.
type sink struct {
	mu   sync.Mutex
	out  *clog.Logger
	file *os.File
	path string
}

type fileLogger struct {
	sink   *sink
	fields []any
}

// Init opens a new log file under cfg.Dir (LogDir when empty) and prunes older files
// down to cfg.Keep. A disabled cfg yields a logger that discards everything.
func Init(cfg Config) (Logger, error) {
	if !cfg.Enabled {
		return Nop(), nil
	}
	dir := cfg.Dir
	if dir == "" {
		var err error
		if dir, err = LogDir(); err != nil {
			return nil, fmt.Errorf("log directory: %w", err)
		}
	}
	// leave room for the file about to be created
	if err := prune(dir, cfg.Keep-1); err != nil {
		fmt.Fprintf(os.Stderr, "pruning old logs failed: %v\n", err)
	}

	name := fmt.Sprintf("%s%s_PID%d_%s%s", filePrefix, time.Now().Format(fileStamp),
		cfg.PID, strings.ReplaceAll(cfg.Command, " ", "-"), fileSuffix)
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
	if err != nil {
		return nil, fmt.Errorf("open log file: %w", err)
	}

	out := clog.NewWithOptions(f, clog.Options{
		ReportTimestamp: true,
		TimeFormat:      time.RFC3339Nano,
		Level:           cfg.level(),
		Formatter:       clog.JSONFormatter,
	}).With("pid", cfg.PID, "command", cfg.Command)

	return &fileLogger{sink: &sink{out: out, file: f, path: path}}, nil
}

func (l *fileLogger) Debug(msg string, args ...any) { l.write(clog.DebugLevel, msg, args) }
func (l *fileLogger) Info(msg string, args ...any)  { l.write(clog.InfoLevel, msg, args) }
func (l *fileLogger) Warn(msg string, args ...any)  { l.write(clog.WarnLevel, msg, args) }
func (l *fileLogger) Error(msg string, args ...any) { l.write(clog.ErrorLevel, msg, args) }

func (l *fileLogger) write(level clog.Level, msg string, args []any) {
	pairs := make([]any, 0, len(l.fields)+len(args))
	pairs = append(pairs, l.fields...)
	pairs = append(pairs, args...)
	pairs = redactPairs(pairs)

	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.file == nil {
		return
	}
	l.sink.out.Log(level, msg, pairs...)
}

func (l *fileLogger) With(args ...any) Logger {
	fields := append(append([]any{}, l.fields...), args...)
	if len(fields)%2 != 0 {
		fields = fields[:len(fields)-1]
	}
	return &fileLogger{sink: l.sink, fields: fields}
}

func (l *fileLogger) Shutdown() error {
	l.sink.mu.Lock()
	defer l.sink.mu.Unlock()
	if l.sink.file == nil {
		return nil
	}
	err := l.sink.file.Close()
	l.sink.file = nil
	return err
}

// prune deletes all but the keep newest log files in dir. Other files are left alone.
func prune(dir string, keep int) error {
	if keep < 0 {
		return nil
	}
	entries, err := os.ReadDir(dir)
	if err != nil {
		return err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasPrefix(e.Name(), filePrefix) && strings.HasSuffix(e.Name(), fileSuffix) {
			names = append(names, e.Name())
		}
	}
	if len(names) <= keep {
		return nil
	}
	sort.Strings(names)
	var firstErr error
	for _, name := range names[:len(names)-keep] {
		if err := os.Remove(filepath.Join(dir, name)); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	return firstErr
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...any)  {}
func (nopLogger) Info(string, ...any)   {}
func (nopLogger) Warn(string, ...any)   {}
func (nopLogger) Error(string, ...any)  {}
func (n nopLogger) With(...any) Logger  { return n }
func (nopLogger) Shutdown() error       { return nil }

// Nop returns a logger that discards everything.
func Nop() Logger { return nopLogger{} }

var (
	global   Logger
	globalMu sync.RWMutex
)

// InitGlobal builds the process logger from configuration and mirrors console output
// into it. A previous global logger is shut down.
func InitGlobal() error {
	logger, err := Init(FromGlobalConfig())
	if err != nil {
		return err
	}
	globalMu.Lock()
	previous := global
	global = logger
	globalMu.Unlock()
	if previous != nil {
		_ = previous.Shutdown()
	}
	colors.SetLogger(logger)
	if path := CurrentLogFile(); path != "" {
		colors.Debug("Logging to file:", path)
	}
	return nil
}

// GetGlobal returns the process logger, or a no-op logger before InitGlobal.
func GetGlobal() Logger {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if global == nil {
		return Nop()
	}
	return global
}

func Debug(msg string, args ...any) { GetGlobal().Debug(msg, args...) }
func Info(msg string, args ...any)  { GetGlobal().Info(msg, args...) }
func Warn(msg string, args ...any)  { GetGlobal().Warn(msg, args...) }
func Error(msg string, args ...any) { GetGlobal().Error(msg, args...) }

// With returns a child of the process logger.
func With(args ...any) Logger { return GetGlobal().With(args...) }

// ShutdownGlobal closes the process logger and stops mirroring console output.
func ShutdownGlobal() error {
	globalMu.Lock()
	defer globalMu.Unlock()
	if global == nil {
		return nil
	}
	colors.SetLogger(nil)
	err := global.Shutdown()
	global = nil
	return err
}

// CurrentLogFile returns the process log file path, or "" when file logging is off.
func CurrentLogFile() string {
	globalMu.RLock()
	defer globalMu.RUnlock()
	if fl, ok := global.(*fileLogger); ok {
		return fl.sink.path
	}
	return ""
}
