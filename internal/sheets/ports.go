package sheets

import (
	"context"

	"outlay/internal/core"
)

// Ports for the spreadsheet mirror of the expense collection. The mirror
// holds one row per record, keyed by the record id in the first column, and
// is strictly best-effort: mirror failures never fail a user mutation.
type (
	Mirror interface {
		// Upsert writes the row carrying e.ID, replacing it in place when it
		// already exists, and returns a row reference.
		Upsert(ctx context.Context, e core.Expense) (rowRef string, err error)

		// Delete removes the row carrying id; an absent id is a no-op.
		Delete(ctx context.Context, id string) error
	}

	// Reconciler is implemented by mirrors that can report their contents so
	// the worker can diff them against the store.
	Reconciler interface {
		// ListIDs returns the record ids currently mirrored, in row order.
		ListIDs(ctx context.Context) ([]string, error)
	}
)
