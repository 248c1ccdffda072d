// Package poller turns ticketing API responses into desktop alerts: it diffs recent
// tickets against the seen store, gates alerts on acknowledgment, and commits
// acknowledged tickets to the store.
package poller

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cristianoliveira/zendesk-intray/internal/formatter"
	"github.com/cristianoliveira/zendesk-intray/internal/hooks"
	"github.com/cristianoliveira/zendesk-intray/internal/logging"
	"github.com/cristianoliveira/zendesk-intray/internal/notify"
	"github.com/cristianoliveira/zendesk-intray/internal/zendesk"
	"github.com/google/uuid"
)

const (
	// FailureTitle is the title of the warning shown when a tick fails.
	FailureTitle = "Request failed"
	// AlertFailedTitle is the title of the warning shown when an alert cannot be raised.
	AlertFailedTitle = "Alert failed"
	// DefaultAlertTitle is used when Options.AlertTitle is empty.
	DefaultAlertTitle = "Your group got {{count}} new tickets"

	maxBodyIDs = 5
)

// API is the subset of the ticketing client a tick needs.
type API interface {
	ResolveUser(ctx context.Context) (zendesk.User, error)
	GroupMemberships(ctx context.Context, userID string) ([]zendesk.GroupMembership, error)
	RecentTickets(ctx context.Context) ([]zendesk.Ticket, error)
	QueueURL() (string, error)
}

// SeenSet is the subset of the seen store a tick and an acknowledgment need.
type SeenSet interface {
	Contains(ctx context.Context, id string) (bool, error)
	MarkSeen(ctx context.Context, ids ...string) error
}

// HookRunner runs user hooks for an event.
type HookRunner interface {
	Run(ctx context.Context, event string, env map[string]string) error
}

// Options holds the collaborators of an Engine.
type Options struct {
	API      API
	Seen     SeenSet
	Notifier notify.Notifier
	// Hooks is optional.
	Hooks HookRunner
	// Logger is optional; the default discards everything.
	Logger logging.Logger
	// AlertTitle is a template; {{count}} is the number of pending tickets.
	AlertTitle string
}

type closeEvent struct {
	alertID string
	err     error
}

// Engine owns the poller State. Tick and Acknowledge must be called from one goroutine;
// Run provides that goroutine.
type Engine struct {
	api        API
	seen       SeenSet
	notifier   notify.Notifier
	hooks      HookRunner
	logger     logging.Logger
	titles     formatter.TemplateEngine
	alertTitle string

	state  State
	closed chan closeEvent
}

// New validates opts and returns an Engine with an empty pending set and no outstanding alert.
func New(opts Options) (*Engine, error) {
	switch {
	case opts.API == nil:
		return nil, errors.New("poller: API cannot be nil")
	case opts.Seen == nil:
		return nil, errors.New("poller: seen store cannot be nil")
	case opts.Notifier == nil:
		return nil, errors.New("poller: notifier cannot be nil")
	}
	e := &Engine{
		api:        opts.API,
		seen:       opts.Seen,
		notifier:   opts.Notifier,
		hooks:      opts.Hooks,
		logger:     opts.Logger,
		titles:     formatter.NewTemplateEngine(),
		alertTitle: opts.AlertTitle,
		state:      newState(),
		closed:     make(chan closeEvent, 4),
	}
	if e.logger == nil {
		e.logger = logging.Nop()
	}
	if e.alertTitle == "" {
		e.alertTitle = DefaultAlertTitle
	}
	names, err := e.titles.Parse(e.alertTitle)
	if err != nil {
		return nil, fmt.Errorf("poller: alert title: %w", err)
	}
	for _, name := range names {
		if name != "count" {
			return nil, fmt.Errorf("poller: alert title: unknown variable %q (available: count)", name)
		}
	}
	return e, nil
}

// State returns a copy of the current state.
func (e *Engine) State() State {
	return e.state.clone()
}

// Tick runs one poll: resolve the user, list their group memberships, fetch recent
// tickets once per membership and merge the unseen ones into the pending set, then
// evaluate the alert gate. A failure is reported as a warning and returned; the
// pending set only grows when every request of the tick succeeded.
func (e *Engine) Tick(ctx context.Context) error {
	log := e.logger.With("tick_id", newTickID())
	log.Debug("tick started", "pending", len(e.state.Pending), "acknowledged", e.state.Acknowledged)

	found, err := e.poll(ctx)
	if err != nil {
		if ctx.Err() != nil {
			// shutting down: the request was cancelled, not failed
			log.Debug("tick cancelled", "error", err)
			return err
		}
		e.reportFailure(ctx, log, err)
		return err
	}

	for id := range found {
		e.state.Pending[id] = struct{}{}
	}
	log.Info("tick completed", "new", len(found), "pending", len(e.state.Pending))

	e.evaluateGate(ctx, log)
	return nil
}

// poll collects ticket ids that are neither pending nor seen. It never mutates state.
func (e *Engine) poll(ctx context.Context) (map[string]struct{}, error) {
	user, err := e.api.ResolveUser(ctx)
	if err != nil {
		return nil, err
	}
	groups, err := e.api.GroupMemberships(ctx, user.ID.String())
	if err != nil {
		return nil, err
	}

	found := make(map[string]struct{})
	for range groups {
		tickets, err := e.api.RecentTickets(ctx)
		if err != nil {
			return nil, err
		}
		for _, t := range tickets {
			id := t.Key()
			if id == "" {
				continue
			}
			if _, ok := e.state.Pending[id]; ok {
				continue
			}
			if _, ok := found[id]; ok {
				continue
			}
			seen, err := e.seen.Contains(ctx, id)
			if err != nil {
				return nil, fmt.Errorf("check ticket %s: %w", id, err)
			}
			if !seen {
				found[id] = struct{}{}
			}
		}
	}
	return found, nil
}

// evaluateGate raises an alert when tickets are pending and the previous alert was acknowledged.
func (e *Engine) evaluateGate(ctx context.Context, log logging.Logger) {
	if len(e.state.Pending) == 0 || !e.state.Acknowledged {
		return
	}

	count := strconv.Itoa(len(e.state.Pending))
	title, err := e.titles.Substitute(e.alertTitle, formatter.Variables{"count": count})
	if err != nil {
		e.alertFailed(ctx, log, fmt.Errorf("alert title: %w", err))
		return
	}
	link, err := e.api.QueueURL()
	if err != nil {
		e.alertFailed(ctx, log, fmt.Errorf("queue link: %w", err))
		return
	}

	ids := e.state.PendingIDs()
	alertID := uuid.NewString()
	e.state.Acknowledged = false
	e.state.AlertID = alertID

	err = e.notifier.Alert(ctx, notify.Alert{
		Title:   title,
		Body:    alertBody(ids),
		Link:    link,
		OnClose: func(err error) { e.post(ctx, closeEvent{alertID: alertID, err: err}) },
	})
	if err != nil {
		// nothing is on screen, so the next tick may try again
		e.state.Acknowledged = true
		e.state.AlertID = ""
		e.alertFailed(ctx, log, err)
		return
	}
	log.Info("alert raised", "alert_id", alertID, "count", len(ids))
	e.runHook(ctx, log, hooks.EventAlert, map[string]string{
		"ZENDESK_INTRAY_PENDING_COUNT": count,
		"ZENDESK_INTRAY_TICKET_IDS":    strings.Join(ids, ","),
		"ZENDESK_INTRAY_LINK":          link,
	})
}

// Acknowledge commits every pending id to the seen store, clears the pending set and
// allows the next alert. With nothing pending it only re-opens the gate.
// If the store write fails the pending set is kept and the gate re-opens, so the
// next tick alerts about the same tickets again.
func (e *Engine) Acknowledge(ctx context.Context) error {
	ids := e.state.PendingIDs()
	e.state.Acknowledged = true
	e.state.AlertID = ""
	if len(ids) == 0 {
		return nil
	}

	if err := e.seen.MarkSeen(ctx, ids...); err != nil {
		e.logger.Error("acknowledge failed", "error", err, "pending", len(ids))
		return fmt.Errorf("acknowledge: %w", err)
	}
	e.state.Pending = make(map[string]struct{})
	e.logger.Info("acknowledged", "count", len(ids))
	e.runHook(ctx, e.logger, hooks.EventAcknowledge, map[string]string{
		"ZENDESK_INTRAY_PENDING_COUNT": strconv.Itoa(len(ids)),
		"ZENDESK_INTRAY_TICKET_IDS":    strings.Join(ids, ","),
	})
	return nil
}

// handleClose applies the close of an alert. Closes of alerts that are no longer
// current are ignored.
func (e *Engine) handleClose(ctx context.Context, ev closeEvent) error {
	if e.state.Acknowledged || ev.alertID != e.state.AlertID {
		e.logger.Debug("stale alert close ignored", "alert_id", ev.alertID)
		return nil
	}
	if ev.err != nil {
		// the alert never reached the user: re-open the gate without committing
		e.state.Acknowledged = true
		e.state.AlertID = ""
		e.alertFailed(ctx, e.logger.With("alert_id", ev.alertID), ev.err)
		return nil
	}
	return e.Acknowledge(ctx)
}

// post hands an alert close to the event loop. It may be called from any goroutine.
func (e *Engine) post(ctx context.Context, ev closeEvent) {
	select {
	case e.closed <- ev:
	case <-ctx.Done():
	}
}

func (e *Engine) reportFailure(ctx context.Context, log logging.Logger, err error) {
	log.Error("tick failed", "error", err)
	e.warn(ctx, log, FailureTitle, err.Error())
	e.runHook(ctx, log, hooks.EventFailure, map[string]string{"ZENDESK_INTRAY_ERROR": err.Error()})
}

// alertFailed reports an alert that never reached the user. No request failed, so the
// failure hook does not run.
func (e *Engine) alertFailed(ctx context.Context, log logging.Logger, err error) {
	log.Error("alert failed", "error", err)
	e.warn(ctx, log, AlertFailedTitle, err.Error())
}

func (e *Engine) warn(ctx context.Context, log logging.Logger, title, message string) {
	if err := e.notifier.Warn(ctx, title, message); err != nil {
		log.Error("warning not displayed", "error", err)
	}
}

func (e *Engine) runHook(ctx context.Context, log logging.Logger, event string, env map[string]string) {
	if e.hooks == nil {
		return
	}
	if err := e.hooks.Run(ctx, event, env); err != nil {
		log.Warn("hook failed", "event", event, "error", err)
	}
}

func alertBody(ids []string) string {
	if len(ids) == 0 {
		return ""
	}
	shown := ids
	if len(shown) > maxBodyIDs {
		shown = shown[:maxBodyIDs]
	}
	body := "#" + strings.Join(shown, ", #")
	if extra := len(ids) - len(shown); extra > 0 {
		body += fmt.Sprintf(" and %d more", extra)
	}
	return body
}

func newTickID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
