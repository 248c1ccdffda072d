/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cristianoliveira/zendesk-intray/internal/colors"
	"github.com/cristianoliveira/zendesk-intray/internal/config"
	"github.com/cristianoliveira/zendesk-intray/internal/logging"
	"github.com/cristianoliveira/zendesk-intray/internal/poller"
	"github.com/spf13/cobra"
)

const runCommandLong = `Poll for new tickets in your groups and raise a desktop alert.

USAGE:
    zendesk-intray run [OPTIONS]

Every poll searches the configured user, lists their group memberships and fetches
recent tickets once per membership. Tickets that were never acknowledged raise one
alert linking to the queue of open tickets in your groups. Closing the alert
acknowledges every ticket it covers. No new alert is raised while one is open.

OPTIONS:
    --interval <secs>   Seconds between polls (default: poll_interval, 60)
    -h, --help          Show this help

Stop with Ctrl+C.`

// runTickChan replaces the interval timer when set. Can be changed for testing.
var runTickChan <-chan time.Time

// NewRunCmd creates the run command.
func NewRunCmd() *cobra.Command {
	var interval int

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Poll for new tickets and raise desktop alerts",
		Long:  runCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("interval") {
				interval = config.GetInt("poll_interval", 60)
			}
			if interval <= 0 {
				return fmt.Errorf("interval must be a positive number of seconds, got %d", interval)
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runPoller(ctx, cmd, time.Duration(interval)*time.Second)
		},
	}

	runCmd.Flags().IntVar(&interval, "interval", 60, "Seconds between polls")
	return runCmd
}

func runPoller(ctx context.Context, cmd *cobra.Command, interval time.Duration) error {
	if err := config.Require(config.RequiredKeys...); err != nil {
		return err
	}
	api, err := newAPIClient()
	if err != nil {
		return err
	}
	store, err := openSeenStore(true)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			colors.Warning("closing seen store:", err.Error())
		}
	}()

	engine, err := poller.New(poller.Options{
		API:        api,
		Seen:       store,
		Notifier:   newNotifier(cmd.OutOrStdout()),
		Hooks:      newHookRunner(),
		Logger:     logging.With("component", "poller"),
		AlertTitle: config.Get("alert_title", poller.DefaultAlertTitle),
	})
	if err != nil {
		return err
	}

	colors.Info(fmt.Sprintf("Watching %s for new tickets every %s (Ctrl+C to stop)...", config.Get("host", ""), interval))
	logging.Info("poller started", "host", config.Get("host", ""), "interval", interval.String())
	err = engine.Run(ctx, poller.RunOptions{Interval: interval, TickChan: runTickChan})
	logging.Info("poller stopped")
	return err
}

func init() {
	rootCmd.AddCommand(NewRunCmd())
}
