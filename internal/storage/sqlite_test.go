package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"outlay/internal/core"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	store, err := NewSQLiteStore(filepath.Join(t.TempDir(), "outlay.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error: %v", err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStore_ContractMatchesJSONStore(t *testing.T) {
	store := newTestSQLiteStore(t)
	ctx := context.Background()

	records := []core.Expense{
		{ID: "a", Amount: 10, Category: "Food", Date: "2024-01-05", Description: "lunch"},
		{ID: "b", Amount: 20, Category: "Bills", Date: "2024-02-06"},
		{ID: "c", Amount: 30, Category: "Food", Date: "2024-01-20"},
	}
	for _, e := range records {
		if err := store.Insert(ctx, e); err != nil {
			t.Fatalf("Insert(%s) error: %v", e.ID, err)
		}
	}

	t.Run("list in insertion order", func(t *testing.T) {
		got, err := store.List(ctx)
		if err != nil {
			t.Fatalf("List() error: %v", err)
		}
		if len(got) != 3 {
			t.Fatalf("List() returned %d records, want 3", len(got))
		}
		for i, e := range records {
			if got[i] != e {
				t.Errorf("List()[%d] = %+v, want %+v", i, got[i], e)
			}
		}
	})

	t.Run("get", func(t *testing.T) {
		got, err := store.Get(ctx, "b")
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if got != records[1] {
			t.Errorf("Get() = %+v, want %+v", got, records[1])
		}
		if _, err := store.Get(ctx, "ghost"); !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("replace keeps position", func(t *testing.T) {
		updated := core.Expense{ID: "b", Amount: 99, Category: "Shopping", Date: "2024-02-07", Description: "edited"}
		if err := store.Replace(ctx, updated); err != nil {
			t.Fatalf("Replace() error: %v", err)
		}
		got, _ := store.List(ctx)
		if got[1] != updated {
			t.Errorf("List()[1] = %+v, want replaced record in place", got[1])
		}
	})

	t.Run("replace missing", func(t *testing.T) {
		err := store.Replace(ctx, core.Expense{ID: "ghost", Amount: 1, Date: "2024-01-01"})
		if !errors.Is(err, core.ErrNotFound) {
			t.Errorf("Replace(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("delete month", func(t *testing.T) {
		removed, err := store.DeleteMonth(ctx, "2024-01")
		if err != nil {
			t.Fatalf("DeleteMonth() error: %v", err)
		}
		if removed != 2 {
			t.Errorf("DeleteMonth() removed = %d, want 2", removed)
		}
		got, _ := store.List(ctx)
		if len(got) != 1 || got[0].ID != "b" {
			t.Errorf("List() after DeleteMonth = %+v, want only b", got)
		}
	})

	t.Run("delete absent id is a no-op", func(t *testing.T) {
		if err := store.Delete(ctx, "ghost"); err != nil {
			t.Errorf("Delete(missing) error = %v, want nil", err)
		}
	})
}
