package storage

import (
	"context"

	"outlay/internal/core"
)

// Store is the persistence port for the expense collection. Implementations
// preserve insertion order: new records append, replacements keep their
// original position. Corruption of the persisted data itself is recovered as
// an empty collection; only infrastructure failures surface as errors.
type Store interface {
	// List returns the full collection in insertion order.
	List(ctx context.Context) ([]core.Expense, error)

	// Get returns the record with the given id, or core.ErrNotFound.
	Get(ctx context.Context, id string) (core.Expense, error)

	// Insert appends a validated record and persists.
	Insert(ctx context.Context, e core.Expense) error

	// Replace swaps all fields of the record carrying e.ID, keeping its
	// position. Returns core.ErrNotFound when no such record exists.
	Replace(ctx context.Context, e core.Expense) error

	// Delete removes at most one record; an absent id is a no-op.
	Delete(ctx context.Context, id string) error

	// DeleteMonth removes every record whose month key matches, returning
	// how many were removed.
	DeleteMonth(ctx context.Context, monthKey string) (int, error)

	Close() error
}
