package memory

import (
	"context"
	"fmt"
	"sync"

	"outlay/internal/core"
)

// Store is an in-memory mirror used in tests and local development.
type Store struct {
	mu    sync.Mutex
	items []core.Expense
}

func New() *Store {
	return &Store{}
}

// Upsert replaces the row with a matching id in place, or appends.
func (s *Store) Upsert(_ context.Context, e core.Expense) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == e.ID {
			s.items[i] = e
			return fmt.Sprintf("mem:%d", i+1), nil
		}
	}
	s.items = append(s.items, e)
	return fmt.Sprintf("mem:%d", len(s.items)), nil
}

// Delete removes the row with a matching id, if any.
func (s *Store) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, e := range s.items {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	s.items = kept
	return nil
}

// ListIDs returns mirrored record ids in row order.
func (s *Store) ListIDs(_ context.Context) ([]string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	ids := make([]string, len(s.items))
	for i, e := range s.items {
		ids[i] = e.ID
	}
	return ids, nil
}

// Items returns a copy of the mirrored rows.
func (s *Store) Items() []core.Expense {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]core.Expense(nil), s.items...)
}
