package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"

	"outlay/internal/core"
)

// JSONStore persists the collection as a single JSON array in one file, the
// default slot layout. Every mutation rewrites the whole array; the write
// goes through a temp file and rename so readers never observe a partial
// slot. A missing, corrupt, or non-array slot loads as an empty collection:
// losing the ability to serve is worse than losing unreadable data.
type JSONStore struct {
	mu   sync.Mutex
	path string
}

func NewJSONStore(path string) (*JSONStore, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create store directory: %w", err)
	}
	return &JSONStore{path: path}, nil
}

func (s *JSONStore) Close() error { return nil }

func (s *JSONStore) List(ctx context.Context) ([]core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load(ctx), nil
}

func (s *JSONStore) Get(ctx context.Context, id string) (core.Expense, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range s.load(ctx) {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, core.ErrNotFound
}

func (s *JSONStore) Insert(ctx context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	expenses := append(s.load(ctx), e)
	if err := s.save(expenses); err != nil {
		return err
	}
	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"category", e.Category,
		"date", e.Date,
		"amount", e.Amount)
	return nil
}

func (s *JSONStore) Replace(ctx context.Context, e core.Expense) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	expenses := s.load(ctx)
	for i := range expenses {
		if expenses[i].ID == e.ID {
			expenses[i] = e
			return s.save(expenses)
		}
	}
	return core.ErrNotFound
}

func (s *JSONStore) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	expenses := s.load(ctx)
	kept := expenses[:0]
	for _, e := range expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	if len(kept) == len(expenses) {
		return nil // absent id, nothing to persist
	}
	return s.save(kept)
}

func (s *JSONStore) DeleteMonth(ctx context.Context, monthKey string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	expenses := s.load(ctx)
	kept := make([]core.Expense, 0, len(expenses))
	for _, e := range expenses {
		if core.MonthKey(e.Date) != monthKey {
			kept = append(kept, e)
		}
	}
	removed := len(expenses) - len(kept)
	if removed == 0 {
		return 0, nil
	}
	if err := s.save(kept); err != nil {
		return 0, err
	}
	slog.InfoContext(ctx, "Month deleted", "month_key", monthKey, "removed", removed)
	return removed, nil
}

// load reads the slot, failing soft on anything unreadable.
func (s *JSONStore) load(ctx context.Context) []core.Expense {
	raw, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			slog.WarnContext(ctx, "Unreadable expense slot, treating as empty",
				"path", s.path, "error", err)
		}
		return nil
	}
	var expenses []core.Expense
	if err := json.Unmarshal(raw, &expenses); err != nil {
		slog.WarnContext(ctx, "Corrupt expense slot, treating as empty",
			"path", s.path, "error", err)
		return nil
	}
	return expenses
}

func (s *JSONStore) save(expenses []core.Expense) error {
	if expenses == nil {
		expenses = []core.Expense{}
	}
	raw, err := json.Marshal(expenses)
	if err != nil {
		return fmt.Errorf("marshal expenses: %w", err)
	}
	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, raw, 0644); err != nil {
		return fmt.Errorf("write expense slot: %w", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return fmt.Errorf("replace expense slot: %w", err)
	}
	return nil
}
