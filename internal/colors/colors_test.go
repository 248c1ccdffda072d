package colors

import (
	"bytes"
	"strings"
	"testing"
)

type recordingLogger struct {
	lines []string
}

func (r *recordingLogger) Debug(msg string, args ...any) { r.lines = append(r.lines, "debug:"+msg) }
func (r *recordingLogger) Info(msg string, args ...any)  { r.lines = append(r.lines, "info:"+msg) }
func (r *recordingLogger) Warn(msg string, args ...any)  { r.lines = append(r.lines, "warn:"+msg) }
func (r *recordingLogger) Error(msg string, args ...any) { r.lines = append(r.lines, "error:"+msg) }

func captureOutput(t *testing.T) (*bytes.Buffer, *bytes.Buffer) {
	t.Helper()
	var out, errOut bytes.Buffer
	SetOutput(&out, &errOut)
	t.Cleanup(func() { SetOutput(nil, nil) })
	return &out, &errOut
}

func TestError(t *testing.T) {
	_, errOut := captureOutput(t)

	Error("something went wrong")

	output := errOut.String()
	if !strings.Contains(output, "Error:") {
		t.Errorf("Error output missing 'Error:' prefix: %q", output)
	}
	if !strings.Contains(output, "something went wrong") {
		t.Errorf("Error output missing message: %q", output)
	}
	if !strings.Contains(output, Red) {
		t.Errorf("Error output missing red color code: %q", output)
	}
}

func TestSuccess(t *testing.T) {
	out, _ := captureOutput(t)

	Success("operation completed")

	output := out.String()
	if !strings.Contains(output, "✓") {
		t.Errorf("Success output missing checkmark: %q", output)
	}
	if !strings.Contains(output, Green) {
		t.Errorf("Success output missing green color code: %q", output)
	}
}

func TestWarningGoesToStderr(t *testing.T) {
	out, errOut := captureOutput(t)

	Warning("careful")

	if out.Len() != 0 {
		t.Errorf("expected nothing on stdout, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "Warning:") {
		t.Errorf("Warning output missing prefix: %q", errOut.String())
	}
}

func TestQuietSuppressesInfoButNotWarnings(t *testing.T) {
	out, errOut := captureOutput(t)
	SetQuiet(true)
	defer SetQuiet(false)

	Info("hello")
	Warning("still shown")

	if out.Len() != 0 {
		t.Errorf("expected quiet info, got %q", out.String())
	}
	if !strings.Contains(errOut.String(), "still shown") {
		t.Errorf("expected warning in quiet mode, got %q", errOut.String())
	}
}

func TestDebugIsGated(t *testing.T) {
	_, errOut := captureOutput(t)
	SetDebug(false)
	defer SetDebug(false)

	Debug("hidden")
	if errOut.Len() != 0 {
		t.Fatalf("expected no debug output, got %q", errOut.String())
	}

	SetDebug(true)
	Debug("visible")
	if !strings.Contains(errOut.String(), "visible") {
		t.Fatalf("expected debug output, got %q", errOut.String())
	}
}

func TestConsoleOutputIsMirroredToLogger(t *testing.T) {
	captureOutput(t)
	rec := &recordingLogger{}
	SetLogger(rec)
	defer SetLogger(nil)

	Info("a")
	Warning("b")
	Error("c")

	want := []string{"info:a", "warn:b", "error:c"}
	if strings.Join(rec.lines, ",") != strings.Join(want, ",") {
		t.Fatalf("mirrored lines = %v, want %v", rec.lines, want)
	}
}
