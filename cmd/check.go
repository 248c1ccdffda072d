/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"fmt"

	"github.com/cristianoliveira/zendesk-intray/internal/colors"
	"github.com/cristianoliveira/zendesk-intray/internal/config"
	"github.com/cristianoliveira/zendesk-intray/internal/logging"
	"github.com/cristianoliveira/zendesk-intray/internal/notify"
	"github.com/cristianoliveira/zendesk-intray/internal/poller"
	"github.com/spf13/cobra"
)

const checkCommandLong = `Poll once and print the tickets that would raise an alert.

USAGE:
    zendesk-intray check

Runs a single poll against the configured account and lists the unseen tickets.
Nothing is acknowledged: the seen tickets are left untouched and no hooks run.
Exits with status 1 when a request fails.`

// NewCheckCmd creates the check command.
func NewCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Poll once and list unseen tickets",
		Long:  checkCommandLong,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.Require(config.RequiredKeys...); err != nil {
				return err
			}
			api, err := newAPIClient()
			if err != nil {
				return err
			}
			store, err := openSeenStore(false)
			if err != nil {
				return err
			}
			defer store.Close()

			out := cmd.OutOrStdout()
			engine, err := poller.New(poller.Options{
				API:        api,
				Seen:       store,
				Notifier:   &notify.Console{Out: out, HoldAlerts: true},
				Logger:     logging.With("component", "check"),
				AlertTitle: config.Get("alert_title", poller.DefaultAlertTitle),
			})
			if err != nil {
				return err
			}
			if err := engine.Tick(cmd.Context()); err != nil {
				return fmt.Errorf("check failed: %w", err)
			}

			ids := engine.State().PendingIDs()
			if len(ids) == 0 {
				colors.Success("No unseen tickets")
				return nil
			}
			rows := make([][]string, 0, len(ids))
			for _, id := range ids {
				rows = append(rows, []string{id})
			}
			printTable(out, []string{"TICKET"}, rows)
			printFooter(out, fmt.Sprintf("%d unseen (not acknowledged)", len(ids)))
			return nil
		},
	}
}

func init() {
	rootCmd.AddCommand(NewCheckCmd())
}
