package poller

import (
	"context"
	"encoding/json"
	"path/filepath"
	"sync"
	"testing"

	"github.com/cristianoliveira/zendesk-intray/internal/notify"
	"github.com/cristianoliveira/zendesk-intray/internal/storage/sqlite"
	"github.com/cristianoliveira/zendesk-intray/internal/zendesk"
	"github.com/stretchr/testify/require"
)

const queueLink = "https://example.zendesk.com/agent/filters/1"

type fakeAPI struct {
	mu sync.Mutex

	userErr     error
	groups      int
	groupsErr   error
	tickets     []string
	ticketsErr  error
	failTicketN int // 1-based RecentTickets call that fails within a tick
	linkErr     error

	userCalls, groupCalls, ticketCalls int
	tickTicketCalls                    int
}

func newFakeAPI(groups int, tickets ...string) *fakeAPI {
	return &fakeAPI{groups: groups, tickets: tickets}
}

func (f *fakeAPI) setTickets(ids ...string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tickets = ids
}

func (f *fakeAPI) setGroupsErr(err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groupsErr = err
}

func (f *fakeAPI) ResolveUser(ctx context.Context) (zendesk.User, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.userCalls++
	f.tickTicketCalls = 0
	if err := ctx.Err(); err != nil {
		return zendesk.User{}, err
	}
	if f.userErr != nil {
		return zendesk.User{}, f.userErr
	}
	return zendesk.User{ID: json.Number("42"), Email: "agent@example.com"}, nil
}

func (f *fakeAPI) GroupMemberships(_ context.Context, userID string) ([]zendesk.GroupMembership, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.groupCalls++
	if f.groupsErr != nil {
		return nil, f.groupsErr
	}
	groups := make([]zendesk.GroupMembership, f.groups)
	for i := range groups {
		groups[i] = zendesk.GroupMembership{UserID: json.Number(userID), GroupID: json.Number("7")}
	}
	return groups, nil
}

func (f *fakeAPI) RecentTickets(_ context.Context) ([]zendesk.Ticket, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.ticketCalls++
	f.tickTicketCalls++
	if f.ticketsErr != nil && (f.failTicketN == 0 || f.failTicketN == f.tickTicketCalls) {
		return nil, f.ticketsErr
	}
	tickets := make([]zendesk.Ticket, 0, len(f.tickets))
	for _, id := range f.tickets {
		tickets = append(tickets, zendesk.Ticket{ID: json.Number(id)})
	}
	return tickets, nil
}

func (f *fakeAPI) QueueURL() (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.linkErr != nil {
		return "", f.linkErr
	}
	return queueLink, nil
}

type fakeNotifier struct {
	mu       sync.Mutex
	alerts   []notify.Alert
	warnings []string
	alertErr error
}

func (n *fakeNotifier) Alert(_ context.Context, a notify.Alert) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	if n.alertErr != nil {
		return n.alertErr
	}
	n.alerts = append(n.alerts, a)
	return nil
}

func (n *fakeNotifier) Warn(_ context.Context, title, message string) error {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.warnings = append(n.warnings, title+": "+message)
	return nil
}

func (n *fakeNotifier) alertCount() int {
	n.mu.Lock()
	defer n.mu.Unlock()
	return len(n.alerts)
}

func (n *fakeNotifier) lastAlert(t *testing.T) notify.Alert {
	t.Helper()
	n.mu.Lock()
	defer n.mu.Unlock()
	require.NotEmpty(t, n.alerts, "expected an alert")
	return n.alerts[len(n.alerts)-1]
}

type recordedHook struct {
	event string
	env   map[string]string
}

type fakeHooks struct {
	mu    sync.Mutex
	calls []recordedHook
}

func (h *fakeHooks) Run(_ context.Context, event string, env map[string]string) error {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.calls = append(h.calls, recordedHook{event: event, env: env})
	return nil
}

func newTestStore(t *testing.T, seen ...string) *sqlite.SeenStore {
	t.Helper()
	store, err := sqlite.NewSeenStore(filepath.Join(t.TempDir(), "seen.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	if len(seen) > 0 {
		require.NoError(t, store.MarkSeen(context.Background(), seen...))
	}
	return store
}

func newTestEngine(t *testing.T, api API, seen SeenSet, n notify.Notifier, h HookRunner) *Engine {
	t.Helper()
	e, err := New(Options{API: api, Seen: seen, Notifier: n, Hooks: h})
	require.NoError(t, err)
	return e
}

type safeBuffer struct {
	mu  sync.Mutex
	buf []byte
}

func (b *safeBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf = append(b.buf, p...)
	return len(p), nil
}
