package notify

import (
	"bytes"
	"context"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"github.com/cristianoliveira/zendesk-intray/internal/colors"
)

// Runner executes an external program and returns its standard output.
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (string, error)
}

// ExecRunner runs programs with os/exec.
type ExecRunner struct{}

func (ExecRunner) Run(ctx context.Context, name string, args ...string) (string, error) {
	start := time.Now()
	colors.StructuredDebug("notify", "run", "started", nil, name, map[string]interface{}{"args_count": len(args)})

	cmd := exec.CommandContext(ctx, name, args...)
	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	err := cmd.Run()
	fields := map[string]interface{}{"args_count": len(args), "duration_seconds": time.Since(start).Seconds()}
	if err != nil {
		colors.StructuredError("notify", "run", "failed", err, name, fields)
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return stdout.String(), fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return stdout.String(), fmt.Errorf("%s: %w", name, err)
	}
	colors.StructuredDebug("notify", "run", "completed", nil, name, fields)
	return stdout.String(), nil
}
