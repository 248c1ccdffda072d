// Package notify renders alerts and warnings for the poller.
package notify

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/cristianoliveira/zendesk-intray/internal/colors"
)

// Alert is an actionable notification with a single "Show" action.
type Alert struct {
	Title string
	Body  string
	// Link is opened in the browser by the "Show" action.
	Link string
	// OnClose is called exactly once: with nil when the user dismissed or acted on
	// the alert, or with the error that kept it from being displayed.
	OnClose func(err error)
}

func (a Alert) closed(err error) {
	if a.OnClose != nil {
		a.OnClose(err)
	}
}

// Notifier surfaces alerts and non-actionable warnings to the operator.
type Notifier interface {
	// Alert shows a. It returns once the alert is on screen; closing happens later through a.OnClose.
	Alert(ctx context.Context, a Alert) error
	// Warn shows a non-actionable warning.
	Warn(ctx context.Context, title, message string) error
}

// Console prints alerts and warnings to the terminal. Printing an alert counts as
// the user having seen it, so OnClose fires immediately unless HoldAlerts is set.
type Console struct {
	Out io.Writer
	// HoldAlerts leaves alerts unacknowledged (used by one-shot checks).
	HoldAlerts bool
}

// NewConsole returns a console notifier writing to stdout.
func NewConsole() *Console {
	return &Console{Out: os.Stdout}
}

func (c *Console) Alert(_ context.Context, a Alert) error {
	colors.Info(a.Title)
	if a.Link != "" {
		fmt.Fprintf(c.out(), "  %s\n", a.Link)
	}
	if !c.HoldAlerts {
		a.closed(nil)
	}
	return nil
}

func (c *Console) Warn(_ context.Context, title, message string) error {
	colors.Warning(title + ": " + message)
	return nil
}

func (c *Console) out() io.Writer {
	if c.Out == nil {
		return os.Stdout
	}
	return c.Out
}
