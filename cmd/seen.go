/*
Copyright © 2026 Cristian Oliveira <license@cristianoliveira.dev>
*/
package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/cristianoliveira/zendesk-intray/internal/colors"
	"github.com/cristianoliveira/zendesk-intray/internal/storage"
	"github.com/spf13/cobra"
)

const seenTimeLayout = "2006-01-02 15:04:05"

var errInvalidTicketID = errors.New("ticket id must be a positive integer")

// NewSeenCmd creates the seen command and its list, count and mark subcommands.
func NewSeenCmd() *cobra.Command {
	seenCmd := &cobra.Command{
		Use:   "seen",
		Short: "Inspect and update acknowledged tickets",
		Long: `Inspect and update acknowledged tickets.

USAGE:
    zendesk-intray seen list [--limit N]
    zendesk-intray seen count
    zendesk-intray seen mark <ticket-id>...`,
	}
	seenCmd.AddCommand(newSeenListCmd(), newSeenCountCmd(), newSeenMarkCmd())
	return seenCmd
}

func newSeenListCmd() *cobra.Command {
	var limit int

	listCmd := &cobra.Command{
		Use:   "list",
		Short: "List acknowledged tickets, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeenStore(func(store storage.SeenStore) error {
				tickets, err := store.List(cmd.Context())
				if err != nil {
					return err
				}
				out := cmd.OutOrStdout()
				if len(tickets) == 0 {
					_, _ = fmt.Fprintln(out, "No acknowledged tickets")
					return nil
				}
				total := len(tickets)
				if limit > 0 && limit < total {
					tickets = tickets[:limit]
				}
				rows := make([][]string, 0, len(tickets))
				for _, t := range tickets {
					rows = append(rows, []string{t.ID, t.SeenAt.Local().Format(seenTimeLayout)})
				}
				printTable(out, []string{"TICKET", "SEEN AT"}, rows)
				printFooter(out, fmt.Sprintf("%d of %d acknowledged tickets", len(tickets), total))
				return nil
			})
		},
	}
	listCmd.Flags().IntVar(&limit, "limit", 0, "Show at most N tickets (0 shows all)")
	return listCmd
}

func newSeenCountCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "count",
		Short: "Print the number of acknowledged tickets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSeenStore(func(store storage.SeenStore) error {
				n, err := store.Count(cmd.Context())
				if err != nil {
					return err
				}
				_, _ = fmt.Fprintln(cmd.OutOrStdout(), n)
				return nil
			})
		},
	}
}

func newSeenMarkCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "mark <ticket-id>...",
		Short: "Acknowledge tickets so they never raise an alert",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseTicketIDs(args)
			if err != nil {
				return err
			}
			return withSeenStore(func(store storage.SeenStore) error {
				if err := store.MarkSeen(cmd.Context(), ids...); err != nil {
					return err
				}
				colors.Success(fmt.Sprintf("Marked %d ticket(s) as seen", len(ids)))
				return nil
			})
		},
	}
}

// parseTicketIDs normalises ids to the decimal text the poller stores ("#123" and "0123" become "123").
func parseTicketIDs(args []string) ([]string, error) {
	ids := make([]string, 0, len(args))
	for _, arg := range args {
		n, err := strconv.ParseUint(strings.TrimPrefix(strings.TrimSpace(arg), "#"), 10, 64)
		if err != nil || n == 0 {
			return nil, fmt.Errorf("%w: %q", errInvalidTicketID, arg)
		}
		ids = append(ids, strconv.FormatUint(n, 10))
	}
	return ids, nil
}

func withSeenStore(fn func(storage.SeenStore) error) error {
	store, err := openSeenStore(false)
	if err != nil {
		return err
	}
	defer store.Close()
	return fn(store)
}

func init() {
	rootCmd.AddCommand(NewSeenCmd())
}
