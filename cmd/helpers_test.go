package cmd

import (
	"bytes"
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/cristianoliveira/zendesk-intray/internal/colors"
	"github.com/cristianoliveira/zendesk-intray/internal/config"
	"github.com/cristianoliveira/zendesk-intray/internal/logging"
	"github.com/cristianoliveira/zendesk-intray/internal/poller"
	"github.com/cristianoliveira/zendesk-intray/internal/zendesk"
)

type syncBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *syncBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *syncBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func (b *syncBuffer) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.buf.Reset()
}

// setupCommandTest isolates configuration and state under a temp dir and captures
// console output. It returns the output buffer and the state directory.
func setupCommandTest(t *testing.T) (*syncBuffer, string) {
	t.Helper()
	tmp := t.TempDir()
	t.Setenv("HOME", tmp)
	t.Setenv("XDG_CONFIG_HOME", filepath.Join(tmp, "config"))
	t.Setenv("XDG_STATE_HOME", filepath.Join(tmp, "state"))
	for _, key := range []string{"HOST", "USER", "API_KEY", "CONFIG_PATH", "DB_PATH", "DEBUG", "QUIET", "POLL_INTERVAL"} {
		t.Setenv(config.EnvPrefix+key, "")
		os.Unsetenv(config.EnvPrefix + key)
	}
	t.Setenv(config.EnvPrefix+"NOTIFIER", "none")
	t.Setenv(config.EnvPrefix+"HOOKS_ENABLED", "false")
	t.Setenv(config.EnvPrefix+"LOGGING_ENABLED", "false")

	buf := &syncBuffer{}
	colors.SetOutput(buf, buf)
	globals = globalFlags{}

	origClient := newAPIClient
	t.Cleanup(func() {
		newAPIClient = origClient
		runTickChan = nil
		globals = globalFlags{}
		colors.SetOutput(nil, nil)
		colors.SetDebug(false)
		colors.SetQuiet(false)
		_ = logging.ShutdownGlobal()
	})
	return buf, filepath.Join(tmp, "state", "zendesk-intray")
}

func executeCommand(ctx context.Context, out *syncBuffer, args ...string) error {
	rootCmd.SetOut(out)
	rootCmd.SetErr(out)
	rootCmd.SetArgs(args)
	return rootCmd.ExecuteContext(ctx)
}

// fakeAPI serves a user search with one user in `groups` groups and the given recent tickets.
type fakeAPI struct {
	groups     int
	tickets    []string
	failStatus int
}

func (f fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	switch r.URL.Path {
	case "/api/v2/users/search.json":
		fmt.Fprint(w, `{"count": 1, "users": [{"id": 42, "name": "Agent"}]}`)
	case "/api/v2/users/42/group_memberships.json":
		memberships := make([]string, f.groups)
		for i := range memberships {
			memberships[i] = fmt.Sprintf(`{"id": %d, "user_id": 42, "group_id": %d}`, i+1, i+100)
		}
		fmt.Fprintf(w, `{"group_memberships": [%s]}`, strings.Join(memberships, ","))
	case "/api/v2/tickets/recent.json":
		if f.failStatus != 0 {
			http.Error(w, "unavailable", f.failStatus)
			return
		}
		tickets := make([]string, len(f.tickets))
		for i, id := range f.tickets {
			tickets[i] = fmt.Sprintf(`{"id": %s, "subject": "ticket %s"}`, id, id)
		}
		fmt.Fprintf(w, `{"tickets": [%s]}`, strings.Join(tickets, ","))
	default:
		http.NotFound(w, r)
	}
}

// useFakeAPI points configuration and the API client factory at a TLS test server.
func useFakeAPI(t *testing.T, api fakeAPI) {
	t.Helper()
	srv := httptest.NewTLSServer(api)
	t.Cleanup(srv.Close)

	t.Setenv(config.EnvPrefix+"HOST", strings.TrimPrefix(srv.URL, "https://"))
	t.Setenv(config.EnvPrefix+"USER", "agent@acme.com")
	t.Setenv(config.EnvPrefix+"API_KEY", "agent@acme.com/token:secret")

	newAPIClient = func() (poller.API, error) {
		client, err := zendesk.NewClient(config.All(), zendesk.WithHTTPClient(srv.Client()))
		if err != nil {
			return nil, err
		}
		return client, nil
	}
}
