package ledger

import (
	"context"
	"fmt"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/smeier/announce/internal/model"
	"github.com/smeier/announce/internal/store"
)

// Storage keys. These must stay stable forever: existing installations
// rely on them to keep their dedup and first-launch state across upgrades.
const (
	keyLastShownID = "last_shown_message_id"
	keyHasLaunched = "has_launched_before"
	keyInstallID   = "install_id"
	launchedMarker = "true"
)

// Ledger tracks which announcement was last shown and whether this is
// the first-ever run of this installation. It is backed by an injected
// durable store; no global state is consulted.
type Ledger struct {
	store store.Store

	mu        sync.Mutex
	loaded    bool
	lastID    int
	hasLastID bool
}

// New creates a Ledger over the given store.
func New(s store.Store) *Ledger {
	return &Ledger{store: s}
}

// IsFirstLaunch reports whether this installation has never run before.
// It becomes false as soon as MarkLaunched persists, regardless of
// whether a message was ever shown.
func (l *Ledger) IsFirstLaunch(ctx context.Context) (bool, error) {
	_, exists, err := l.store.Get(ctx, keyHasLaunched)
	if err != nil {
		return false, fmt.Errorf("reading launch state: %w", err)
	}
	return !exists, nil
}

// MarkLaunched durably records that this installation has run at least
// once. Idempotent.
func (l *Ledger) MarkLaunched(ctx context.Context) error {
	if err := l.store.Set(ctx, keyHasLaunched, launchedMarker); err != nil {
		return fmt.Errorf("persisting launch state: %w", err)
	}
	return nil
}

// LastShownID returns the id of the last message presented to the user.
// The second return is false when no message has ever been shown. The
// value is loaded from storage on first access within this Ledger
// instance and cached afterward.
func (l *Ledger) LastShownID(ctx context.Context) (int, bool, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.loaded {
		return l.lastID, l.hasLastID, nil
	}

	raw, exists, err := l.store.Get(ctx, keyLastShownID)
	if err != nil {
		return 0, false, fmt.Errorf("reading last shown id: %w", err)
	}

	l.loaded = true
	if !exists {
		return 0, false, nil
	}

	id, err := strconv.Atoi(raw)
	if err != nil {
		// A corrupt value means the record is unusable; treat it as
		// "nothing shown" so the next message still gets through.
		return 0, false, nil
	}

	l.lastID = id
	l.hasLastID = true
	return id, true, nil
}

// RecordShown persists msg's id as the last shown message and appends
// the presentation to the diagnostic history. Called only after a
// message has actually been presented.
func (l *Ledger) RecordShown(ctx context.Context, msg model.Message) error {
	if err := l.store.Set(ctx, keyLastShownID, strconv.Itoa(msg.ID)); err != nil {
		return fmt.Errorf("persisting last shown id: %w", err)
	}

	l.mu.Lock()
	l.loaded = true
	l.lastID = msg.ID
	l.hasLastID = true
	l.mu.Unlock()

	err := l.store.AppendShown(ctx, store.ShownRecord{
		MessageID: msg.ID,
		Title:     msg.Title,
		ShownAt:   time.Now().UTC(),
	})
	if err != nil {
		return fmt.Errorf("appending shown history: %w", err)
	}
	return nil
}

// InstallID returns this installation's stable random identifier,
// generating and persisting one on first call. The id never leaves the
// machine; it exists to correlate local diagnostics.
func (l *Ledger) InstallID(ctx context.Context) (string, error) {
	id, exists, err := l.store.Get(ctx, keyInstallID)
	if err != nil {
		return "", fmt.Errorf("reading install id: %w", err)
	}
	if exists {
		return id, nil
	}

	id = uuid.NewString()
	if err := l.store.Set(ctx, keyInstallID, id); err != nil {
		return "", fmt.Errorf("persisting install id: %w", err)
	}
	return id, nil
}
