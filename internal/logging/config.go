package logging

import (
	"os"
	"path/filepath"
	"strings"

	clog "github.com/charmbracelet/log"
	"github.com/cristianoliveira/zendesk-intray/internal/config"
)

// Config describes one process log file.
type Config struct {
	Enabled bool
	// Level is debug, info, warn or error; anything else means info.
	Level string
	// Dir holds the log files; LogDir() when empty.
	Dir string
	// Keep is how many files survive pruning, the new one included. Zero or less keeps all.
	Keep    int
	Command string
	PID     int
}

// FromGlobalConfig reads logging_enabled, logging_level and logging_max_files.
// debug raises the level to debug and wins over quiet, which lowers it to error.
func FromGlobalConfig() Config {
	cfg := Config{
		Enabled: config.GetBool("logging_enabled", false),
		Level:   config.Get("logging_level", "info"),
		Keep:    config.GetInt("logging_max_files", 10),
		Command: commandName(),
		PID:     os.Getpid(),
	}
	if config.GetBool("debug", false) {
		cfg.Level = "debug"
	} else if config.GetBool("quiet", false) {
		cfg.Level = "error"
	}
	return cfg
}

func (c Config) level() clog.Level {
	switch strings.ToLower(c.Level) {
	case "debug":
		return clog.DebugLevel
	case "warn", "warning":
		return clog.WarnLevel
	case "error":
		return clog.ErrorLevel
	}
	return clog.InfoLevel
}

// commandName is the subcommand being run, e.g. "run" for "zendesk-intray run".
func commandName() string {
	for _, arg := range os.Args[1:] {
		if !strings.HasPrefix(arg, "-") {
			return arg
		}
	}
	return filepath.Base(os.Args[0])
}

// LogDir returns {state_dir}/logs, falling back to a directory under os.TempDir()
// when the state directory cannot be written.
func LogDir() (string, error) {
	if stateDir := config.Get("state_dir", ""); stateDir != "" {
		dir := filepath.Join(stateDir, "logs")
		if writable(dir) {
			return dir, nil
		}
	}
	dir := filepath.Join(os.TempDir(), "zendesk-intray", "logs")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return "", err
	}
	return dir, nil
}

func writable(dir string) bool {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return false
	}
	f, err := os.CreateTemp(dir, ".writable-*")
	if err != nil {
		return false
	}
	name := f.Name()
	_ = f.Close()
	_ = os.Remove(name)
	return true
}
