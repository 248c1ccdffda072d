package cmd

import (
	"io"
	"net/http"
	"time"

	"github.com/cristianoliveira/zendesk-intray/internal/colors"
	"github.com/cristianoliveira/zendesk-intray/internal/config"
	"github.com/cristianoliveira/zendesk-intray/internal/hooks"
	"github.com/cristianoliveira/zendesk-intray/internal/notify"
	"github.com/cristianoliveira/zendesk-intray/internal/poller"
	"github.com/cristianoliveira/zendesk-intray/internal/storage"
	"github.com/cristianoliveira/zendesk-intray/internal/zendesk"
)

// apiHTTPClient leaves call timeouts to the transport defaults; a hung request only
// delays the next tick.
func apiHTTPClient() *http.Client {
	return &http.Client{Transport: http.DefaultTransport}
}

// newAPIClient builds the ticketing client from configuration. Can be changed for testing.
var newAPIClient = func() (poller.API, error) {
	client, err := zendesk.NewClient(config.All(), zendesk.WithHTTPClient(apiHTTPClient()))
	if err != nil {
		return nil, err
	}
	return client, nil
}

// openSeenStore opens the configured seen store. Can be changed for testing.
var openSeenStore = storage.NewFromConfig

// newNotifier picks the notifier named by the notifier key. Can be changed for testing.
var newNotifier = func(out io.Writer) notify.Notifier {
	if config.Get("notifier", "desktop") == "none" {
		return &notify.Console{Out: out}
	}
	timeout := time.Duration(config.GetInt("alert_timeout", 0)) * time.Second
	desktop := notify.NewDesktop(notify.WithTimeout(timeout))
	if err := desktop.Available(); err != nil {
		colors.Warning(err.Error() + ", printing alerts to the console")
		return &notify.Console{Out: out}
	}
	return desktop
}

// newHookRunner builds the hook runner from configuration. Can be changed for testing.
var newHookRunner = func() poller.HookRunner {
	return hooks.NewFromConfig()
}
