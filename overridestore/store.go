// Package overridestore persists the user override cache between runs.
//
// Two backends share the Store interface: SQLite for a single desktop user
// and Redis for hosts that keep per-user state on a shared server. Both store
// the line encoding of override.EncodeEntry in LRU order (least recent
// first), so Load followed by override.Model.Restore reproduces eviction
// order exactly.
package overridestore

import (
	"context"
	"errors"
	"fmt"

	"github.com/katalvlaran/gramwalk/override"
)

// ErrClosed indicates use of a store after Close.
var ErrClosed = errors.New("overridestore: store is closed")

// Store saves and loads override entries.
type Store interface {
	// Save replaces the persisted entries with entries, atomically.
	Save(ctx context.Context, entries []override.Entry) error

	// Load returns the persisted entries, least recent first.
	Load(ctx context.Context) ([]override.Entry, error)

	// Close releases the backend.
	Close() error
}

// Sync loads the persisted entries into model.
func Sync(ctx context.Context, store Store, model *override.Model) error {
	entries, err := store.Load(ctx)
	if err != nil {
		return fmt.Errorf("overridestore: load: %w", err)
	}
	model.Restore(entries)

	return nil
}

// Flush saves a snapshot of model.
func Flush(ctx context.Context, store Store, model *override.Model) error {
	if err := store.Save(ctx, model.Snapshot()); err != nil {
		return fmt.Errorf("overridestore: save: %w", err)
	}

	return nil
}
