package store

import (
	"context"
	"time"
)

// KV is the narrow persistence surface the announcement engine depends
// on: durable string keys and values, with "absent" distinguished from
// "empty". Implementations must survive process restarts.
type KV interface {
	// Get returns the value for key and whether the key exists.
	Get(ctx context.Context, key string) (string, bool, error)

	// Set durably writes value under key, overwriting any prior value.
	Set(ctx context.Context, key, value string) error
}

// ShownRecord is one row of the shown-message history. The history is
// diagnostic only; dedup decisions never consult it.
type ShownRecord struct {
	MessageID int       `db:"message_id"`
	Title     string    `db:"title"`
	ShownAt   time.Time `db:"shown_at"`
}

// Store is the full persistence interface: the KV surface used by the
// ledger plus the shown-message history log.
type Store interface {
	KV

	// AppendShown records that a message was presented.
	AppendShown(ctx context.Context, rec ShownRecord) error

	// ShownHistory returns up to limit records, newest first.
	ShownHistory(ctx context.Context, limit int) ([]ShownRecord, error)

	// Close releases the underlying storage.
	Close() error
}
