// Package storage defines the persistent set of acknowledged ticket ids.
package storage

import (
	"context"

	"github.com/cristianoliveira/zendesk-intray/internal/storage/sqlite"
)

// SeenTicket is one acknowledged ticket id and when it was acknowledged.
type SeenTicket = sqlite.SeenTicket

// SeenStore is a durable set of ticket ids. Ids are only ever added.
type SeenStore interface {
	// Contains reports whether id was marked seen.
	Contains(ctx context.Context, id string) (bool, error)
	// MarkSeen adds ids to the set. Already present ids are left untouched.
	// Either every id is stored or none is.
	MarkSeen(ctx context.Context, ids ...string) error
	// List returns every seen ticket, most recently acknowledged first.
	List(ctx context.Context) ([]SeenTicket, error)
	// Count returns the number of seen tickets.
	Count(ctx context.Context) (int, error)
	// Close flushes and releases the store.
	Close() error
}
