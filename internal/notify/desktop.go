package notify

import (
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/cristianoliveira/zendesk-intray/internal/colors"
)

const (
	appName    = "zendesk-intray"
	showAction = "show"
)

// ErrNotifierUnavailable indicates the desktop notification program is not installed.
var ErrNotifierUnavailable = errors.New("desktop notifications unavailable")

// Desktop shows freedesktop notifications through notify-send and opens links with xdg-open.
type Desktop struct {
	runner  Runner
	send    string
	open    string
	timeout time.Duration
}

// DesktopOption configures a Desktop notifier.
type DesktopOption func(*Desktop)

// WithRunner replaces the program runner.
func WithRunner(r Runner) DesktopOption {
	return func(d *Desktop) { d.runner = r }
}

// WithTimeout makes alerts expire after d. Zero keeps them until closed.
// notify-send reports an expired alert like a dismissed one, so expiry acknowledges it.
func WithTimeout(d time.Duration) DesktopOption {
	return func(n *Desktop) { n.timeout = d }
}

// NewDesktop returns a desktop notifier.
func NewDesktop(opts ...DesktopOption) *Desktop {
	d := &Desktop{
		runner: ExecRunner{},
		send:   "notify-send",
		open:   "xdg-open",
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Available reports whether notify-send can be found on PATH.
func (d *Desktop) Available() error {
	if _, err := exec.LookPath(d.send); err != nil {
		return fmt.Errorf("%w: %s not found", ErrNotifierUnavailable, d.send)
	}
	return nil
}

// Alert shows a and waits for it in the background. notify-send prints the name of the
// invoked action before exiting, which is how the "Show" click is told apart from a dismiss.
func (d *Desktop) Alert(ctx context.Context, a Alert) error {
	args := []string{
		"--app-name=" + appName,
		"--icon=dialog-information",
		"--expire-time=" + strconv.FormatInt(d.timeout.Milliseconds(), 10),
		"--action=" + showAction + "=Show",
		"--wait",
		a.Title,
		a.Body,
	}
	go func() {
		out, err := d.runner.Run(ctx, d.send, args...)
		if ctx.Err() != nil {
			// shutting down: the alert was killed, not closed by the user
			return
		}
		if err != nil {
			a.closed(fmt.Errorf("show alert: %w", err))
			return
		}
		if strings.TrimSpace(out) == showAction && a.Link != "" {
			if _, err := d.runner.Run(ctx, d.open, a.Link); err != nil {
				colors.Warning(fmt.Sprintf("unable to open %s: %v", a.Link, err))
			}
		}
		a.closed(nil)
	}()
	return nil
}

// Warn shows a warning notification and returns once it is on screen.
func (d *Desktop) Warn(ctx context.Context, title, message string) error {
	_, err := d.runner.Run(ctx, d.send,
		"--app-name="+appName,
		"--icon=dialog-warning",
		title,
		message,
	)
	if err != nil {
		return fmt.Errorf("show warning: %w", err)
	}
	return nil
}
