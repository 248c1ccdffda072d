// Package sqlite provides a SQLite-backed seen-ticket store.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cristianoliveira/zendesk-intray/internal/colors"
	_ "modernc.org/sqlite"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS seen_tickets (
	id      TEXT PRIMARY KEY,
	seen_at TEXT NOT NULL
);`

// timeLayout has a fixed width so seen_at sorts chronologically as text.
const timeLayout = "2006-01-02T15:04:05.000000Z"

// SeenTicket is one acknowledged ticket id and when it was acknowledged.
type SeenTicket struct {
	ID     string
	SeenAt time.Time
}

// SeenStore implements storage.SeenStore using SQLite.
type SeenStore struct {
	db   *sql.DB
	lock *fileLock
}

// Option configures NewSeenStore.
type Option func(*options)

type options struct {
	exclusive bool
}

// WithExclusiveLock makes NewSeenStore fail with ErrStoreLocked while another
// process holds the same store open with this option.
func WithExclusiveLock() Option {
	return func(o *options) { o.exclusive = true }
}

// NewSeenStore opens (creating if absent) the seen store at dbPath.
func NewSeenStore(dbPath string, opts ...Option) (*SeenStore, error) {
	if strings.TrimSpace(dbPath) == "" {
		return nil, fmt.Errorf("sqlite storage: db path cannot be empty")
	}
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("sqlite storage: create db directory: %w", err)
	}

	s := &SeenStore{}
	if o.exclusive {
		lock, err := acquireLock(dbPath)
		if err != nil {
			return nil, err
		}
		s.lock = lock
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		_ = s.lock.release()
		return nil, fmt.Errorf("sqlite storage: open db: %w", err)
	}
	s.db = db
	if err := s.init(); err != nil {
		_ = s.Close()
		return nil, err
	}
	return s, nil
}

func (s *SeenStore) init() error {
	if _, err := s.db.Exec("PRAGMA busy_timeout = 5000"); err != nil {
		return fmt.Errorf("sqlite storage: set busy timeout: %w", err)
	}
	if _, err := s.db.Exec(schemaSQL); err != nil {
		return fmt.Errorf("sqlite storage: create schema: %w", err)
	}
	return nil
}

// Close closes the underlying SQLite connection and releases the lock.
func (s *SeenStore) Close() error {
	if s == nil {
		return nil
	}
	var dbErr error
	if s.db != nil {
		dbErr = s.db.Close()
		s.db = nil
	}
	lockErr := s.lock.release()
	s.lock = nil
	if dbErr != nil {
		return fmt.Errorf("sqlite storage: close db: %w", dbErr)
	}
	return lockErr
}

// Contains reports whether id is in the seen set.
func (s *SeenStore) Contains(ctx context.Context, id string) (bool, error) {
	if strings.TrimSpace(id) == "" {
		return false, ErrInvalidTicketID
	}
	var one int
	err := s.db.QueryRowContext(ctx, "SELECT 1 FROM seen_tickets WHERE id = ?", id).Scan(&one)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	case err != nil:
		return false, fmt.Errorf("sqlite storage: contains %s: %w", id, err)
	}
	return true, nil
}

// MarkSeen inserts ids in a single transaction. Existing ids keep their original seen_at.
func (s *SeenStore) MarkSeen(ctx context.Context, ids ...string) error {
	if len(ids) == 0 {
		return nil
	}
	for _, id := range ids {
		if strings.TrimSpace(id) == "" {
			return ErrInvalidTicketID
		}
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("sqlite storage: begin mark seen: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx, "INSERT OR IGNORE INTO seen_tickets (id, seen_at) VALUES (?, ?)")
	if err != nil {
		return fmt.Errorf("sqlite storage: prepare mark seen: %w", err)
	}
	defer stmt.Close()

	now := utcNow()
	for _, id := range ids {
		if _, err := stmt.ExecContext(ctx, id, now); err != nil {
			return fmt.Errorf("sqlite storage: mark seen %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("sqlite storage: commit mark seen: %w", err)
	}
	colors.StructuredDebug("sqlite", "mark_seen", "completed", nil, "", map[string]interface{}{"count": len(ids)})
	return nil
}

// List returns every seen ticket, most recently acknowledged first.
func (s *SeenStore) List(ctx context.Context) ([]SeenTicket, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, seen_at FROM seen_tickets ORDER BY seen_at DESC, id DESC")
	if err != nil {
		return nil, fmt.Errorf("sqlite storage: list seen: %w", err)
	}
	defer rows.Close()

	var out []SeenTicket
	for rows.Next() {
		var id, seenAt string
		if err := rows.Scan(&id, &seenAt); err != nil {
			return nil, fmt.Errorf("sqlite storage: scan seen: %w", err)
		}
		ts, err := time.Parse(timeLayout, seenAt)
		if err != nil {
			colors.Debug(fmt.Sprintf("sqlite storage: bad seen_at %q for %s: %v", seenAt, id, err))
		}
		out = append(out, SeenTicket{ID: id, SeenAt: ts})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("sqlite storage: list seen: %w", err)
	}
	return out, nil
}

// Count returns the number of seen tickets.
func (s *SeenStore) Count(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM seen_tickets").Scan(&n); err != nil {
		return 0, fmt.Errorf("sqlite storage: count seen: %w", err)
	}
	return n, nil
}

func utcNow() string {
	return time.Now().UTC().Format(timeLayout)
}
