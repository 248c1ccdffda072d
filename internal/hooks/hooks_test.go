package hooks

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeHook(t *testing.T, dir, event, name, body string) {
	t.Helper()
	eventDir := filepath.Join(dir, event)
	require.NoError(t, os.MkdirAll(eventDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(eventDir, name), []byte("#!/bin/sh\n"+body+"\n"), 0o755))
}

func TestRunPassesEnvironmentInOrder(t *testing.T) {
	dir := t.TempDir()
	out := filepath.Join(dir, "out.txt")
	writeHook(t, dir, EventAlert, "20-second", `echo "second $ZENDESK_INTRAY_PENDING_COUNT" >> `+out)
	writeHook(t, dir, EventAlert, "10-first", `echo "first $ZENDESK_INTRAY_EVENT $HOOK_POINT" >> `+out)
	// not executable: skipped
	require.NoError(t, os.WriteFile(filepath.Join(dir, EventAlert, "30-disabled"), []byte("#!/bin/sh\nexit 1\n"), 0o644))

	r := &Runner{Dir: dir, Enabled: true, FailureMode: FailureAbort}
	err := r.Run(context.Background(), EventAlert, map[string]string{"ZENDESK_INTRAY_PENDING_COUNT": "3"})
	require.NoError(t, err)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, []string{"first alert alert", "second 3"}, strings.Split(strings.TrimSpace(string(data)), "\n"))
}

func TestRunFailureModes(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, EventFailure, "fail", "exit 3")

	r := &Runner{Dir: dir, Enabled: true, FailureMode: FailureAbort}
	err := r.Run(context.Background(), EventFailure, nil)
	require.Error(t, err)
	require.Contains(t, err.Error(), "hook fail failed")

	r.FailureMode = FailureWarn
	require.NoError(t, r.Run(context.Background(), EventFailure, nil))

	r.FailureMode = FailureIgnore
	require.NoError(t, r.Run(context.Background(), EventFailure, nil))
}

func TestRunDisabledOrMissingDir(t *testing.T) {
	dir := t.TempDir()
	writeHook(t, dir, EventAcknowledge, "fail", "exit 1")

	r := &Runner{Dir: dir, Enabled: false, FailureMode: FailureAbort}
	require.NoError(t, r.Run(context.Background(), EventAcknowledge, nil))

	r = &Runner{Dir: filepath.Join(dir, "missing"), Enabled: true, FailureMode: FailureAbort}
	require.NoError(t, r.Run(context.Background(), EventAcknowledge, nil))

	var nilRunner *Runner
	require.NoError(t, nilRunner.Run(context.Background(), EventAcknowledge, nil))
}
