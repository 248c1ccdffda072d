package sqlite

import "errors"

var (
	// ErrInvalidTicketID indicates an empty ticket id.
	ErrInvalidTicketID = errors.New("invalid ticket ID")
	// ErrStoreLocked indicates another process already owns the seen store.
	ErrStoreLocked = errors.New("seen store is locked by another process")
)
