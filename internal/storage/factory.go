package storage

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/cristianoliveira/zendesk-intray/internal/config"
	"github.com/cristianoliveira/zendesk-intray/internal/storage/sqlite"
)

const seenDBFileName = "seen.db"

var _ SeenStore = (*sqlite.SeenStore)(nil)

// DBPath returns the configured seen-store path, defaulting to {state_dir}/seen.db.
func DBPath() string {
	if p := strings.TrimSpace(config.Get("db_path", "")); p != "" {
		return p
	}
	return filepath.Join(config.Get("state_dir", "."), seenDBFileName)
}

// NewFromConfig opens the seen store named by configuration. exclusive takes the
// single-owner lock a long-running poller needs; short-lived commands skip it.
func NewFromConfig(exclusive bool) (SeenStore, error) {
	var opts []sqlite.Option
	if exclusive {
		opts = append(opts, sqlite.WithExclusiveLock())
	}
	store, err := sqlite.NewSeenStore(DBPath(), opts...)
	if err != nil {
		return nil, fmt.Errorf("open seen store: %w", err)
	}
	return store, nil
}
