// Package hooks runs user scripts when the poller raises, acknowledges or fails.
package hooks

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"sort"
	"time"

	"github.com/cristianoliveira/zendesk-intray/internal/colors"
	"github.com/cristianoliveira/zendesk-intray/internal/config"
)

// Hook points.
const (
	EventAlert       = "alert"
	EventAcknowledge = "acknowledge"
	EventFailure     = "failure"
)

// Failure modes.
const (
	FailureIgnore = "ignore"
	FailureWarn   = "warn"
	FailureAbort  = "abort"
)

// DefaultTimeout bounds a single hook script so a stuck script cannot stall polling.
const DefaultTimeout = 30 * time.Second

// Runner executes the executable files in {Dir}/{event}/ in name order.
type Runner struct {
	Dir         string
	Enabled     bool
	FailureMode string
	Timeout     time.Duration
}

// NewFromConfig builds a Runner from hooks_dir, hooks_enabled and hooks_failure_mode.
func NewFromConfig() *Runner {
	return &Runner{
		Dir:         config.Get("hooks_dir", ""),
		Enabled:     config.GetBool("hooks_enabled", true),
		FailureMode: config.Get("hooks_failure_mode", FailureWarn),
		Timeout:     DefaultTimeout,
	}
}

// Run executes every hook registered for event with env added to the process environment.
// Only FailureAbort returns an error, and it stops the remaining scripts for this event.
func (r *Runner) Run(ctx context.Context, event string, env map[string]string) error {
	if r == nil || !r.Enabled || r.Dir == "" {
		return nil
	}
	scripts, err := r.scripts(event)
	if err != nil || len(scripts) == 0 {
		return nil
	}

	environ := os.Environ()
	environ = append(environ,
		"HOOK_POINT="+event,
		"HOOK_TIMESTAMP="+time.Now().Format(time.RFC3339),
		config.EnvPrefix+"EVENT="+event,
	)
	if exe, err := os.Executable(); err == nil {
		environ = append(environ, config.EnvPrefix+"BINARY="+exe)
	}
	keys := make([]string, 0, len(env))
	for k := range env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		environ = append(environ, k+"="+env[k])
	}

	colors.Debug(fmt.Sprintf("Running %s hooks (%d script(s))", event, len(scripts)))
	for _, script := range scripts {
		if err := r.runScript(ctx, script, environ); err != nil {
			switch r.FailureMode {
			case FailureAbort:
				return err
			case FailureIgnore:
			default:
				colors.Warning(err.Error())
			}
		}
	}
	return nil
}

func (r *Runner) scripts(event string) ([]string, error) {
	dir := filepath.Join(r.Dir, event)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var scripts []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		path := filepath.Join(dir, e.Name())
		info, err := os.Stat(path)
		if err != nil || info.Mode()&0111 == 0 {
			continue
		}
		scripts = append(scripts, path)
	}
	sort.Strings(scripts)
	return scripts, nil
}

func (r *Runner) runScript(ctx context.Context, path string, environ []string) error {
	timeout := r.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	cmd := exec.CommandContext(ctx, path)
	cmd.Env = environ
	output, err := cmd.CombinedOutput()
	fields := map[string]interface{}{"duration_seconds": time.Since(start).Seconds()}
	if err != nil {
		colors.StructuredWarn("hooks", "run", "failed", err, filepath.Base(path), fields)
		return fmt.Errorf("hook %s failed: %v, output: %s", filepath.Base(path), err, output)
	}
	colors.StructuredDebug("hooks", "run", "completed", nil, filepath.Base(path), fields)
	return nil
}
