package services

import (
	"context"
	"errors"
	"testing"

	"outlay/internal/core"
)

// fakeStore is an in-memory Store for service tests.
type fakeStore struct {
	expenses  []core.Expense
	insertErr error
}

func (f *fakeStore) List(context.Context) ([]core.Expense, error) {
	return append([]core.Expense(nil), f.expenses...), nil
}

func (f *fakeStore) Get(_ context.Context, id string) (core.Expense, error) {
	for _, e := range f.expenses {
		if e.ID == id {
			return e, nil
		}
	}
	return core.Expense{}, core.ErrNotFound
}

func (f *fakeStore) Insert(_ context.Context, e core.Expense) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.expenses = append(f.expenses, e)
	return nil
}

func (f *fakeStore) Replace(_ context.Context, e core.Expense) error {
	for i := range f.expenses {
		if f.expenses[i].ID == e.ID {
			f.expenses[i] = e
			return nil
		}
	}
	return core.ErrNotFound
}

func (f *fakeStore) Delete(_ context.Context, id string) error {
	kept := f.expenses[:0]
	for _, e := range f.expenses {
		if e.ID != id {
			kept = append(kept, e)
		}
	}
	f.expenses = kept
	return nil
}

func (f *fakeStore) DeleteMonth(_ context.Context, monthKey string) (int, error) {
	kept := f.expenses[:0]
	removed := 0
	for _, e := range f.expenses {
		if core.MonthKey(e.Date) == monthKey {
			removed++
			continue
		}
		kept = append(kept, e)
	}
	f.expenses = kept
	return removed, nil
}

func (f *fakeStore) Close() error { return nil }

// fakePublisher records mirror events.
type fakePublisher struct {
	upserts []core.Expense
	deletes []string
	err     error
}

func (f *fakePublisher) PublishUpsert(_ context.Context, e core.Expense) error {
	if f.err != nil {
		return f.err
	}
	f.upserts = append(f.upserts, e)
	return nil
}

func (f *fakePublisher) PublishDelete(_ context.Context, id string) error {
	if f.err != nil {
		return f.err
	}
	f.deletes = append(f.deletes, id)
	return nil
}

func TestExpenseService_Add(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	svc := NewExpenseService(store, pub)

	got, err := svc.Add(context.Background(), core.Draft{
		Amount:   "20",
		Category: "food",
		Date:     "2024-01-05",
	})
	if err != nil {
		t.Fatalf("Add() error: %v", err)
	}

	if got.ID == "" {
		t.Error("Add() assigned no id")
	}
	if got.Amount != 20 || got.Category != "Food" || got.Date != "2024-01-05" {
		t.Errorf("Add() = %+v, want normalized record", got)
	}
	if len(store.expenses) != 1 || store.expenses[0] != got {
		t.Errorf("store contents = %+v, want the added record", store.expenses)
	}
	if len(pub.upserts) != 1 || pub.upserts[0] != got {
		t.Errorf("published upserts = %+v, want the added record", pub.upserts)
	}
}

func TestExpenseService_AddInvalidDraft(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{}
	svc := NewExpenseService(store, pub)

	_, err := svc.Add(context.Background(), core.Draft{Amount: "-3", Date: "2024-01-05"})
	if !errors.Is(err, core.ErrInvalidAmount) {
		t.Fatalf("Add() error = %v, want ErrInvalidAmount", err)
	}
	if len(store.expenses) != 0 {
		t.Error("invalid draft must not be persisted")
	}
	if len(pub.upserts) != 0 {
		t.Error("invalid draft must not be published")
	}
}

func TestExpenseService_AddIDsAreUnique(t *testing.T) {
	svc := NewExpenseService(&fakeStore{}, nil)

	seen := make(map[string]bool)
	for i := 0; i < 50; i++ {
		e, err := svc.Add(context.Background(), core.Draft{Amount: "1", Date: "2024-01-01"})
		if err != nil {
			t.Fatalf("Add() error: %v", err)
		}
		if seen[e.ID] {
			t.Fatalf("duplicate id %q", e.ID)
		}
		seen[e.ID] = true
	}
}

func TestExpenseService_Update(t *testing.T) {
	store := &fakeStore{expenses: []core.Expense{
		{ID: "a", Amount: 1, Category: "Food", Date: "2024-01-01"},
		{ID: "b", Amount: 2, Category: "Bills", Date: "2024-01-02"},
	}}
	pub := &fakePublisher{}
	svc := NewExpenseService(store, pub)

	got, err := svc.Update(context.Background(), "b", core.Draft{
		Amount:   "9.5",
		Category: "shopping",
		Date:     "2024-01-03",
	})
	if err != nil {
		t.Fatalf("Update() error: %v", err)
	}
	if got.ID != "b" {
		t.Errorf("Update() id = %q, want b (id never changes)", got.ID)
	}
	if store.expenses[1] != got {
		t.Errorf("store position 1 = %+v, want updated record in place", store.expenses[1])
	}
	if len(pub.upserts) != 1 || pub.upserts[0].ID != "b" {
		t.Errorf("published upserts = %+v, want update for b", pub.upserts)
	}
}

func TestExpenseService_UpdateMissing(t *testing.T) {
	svc := NewExpenseService(&fakeStore{}, &fakePublisher{})

	_, err := svc.Update(context.Background(), "ghost", core.Draft{Amount: "1", Date: "2024-01-01"})
	if !errors.Is(err, core.ErrNotFound) {
		t.Fatalf("Update(missing) error = %v, want ErrNotFound", err)
	}
}

func TestExpenseService_Remove(t *testing.T) {
	store := &fakeStore{expenses: []core.Expense{{ID: "a", Amount: 1, Date: "2024-01-01"}}}
	pub := &fakePublisher{}
	svc := NewExpenseService(store, pub)

	if err := svc.Remove(context.Background(), "a"); err != nil {
		t.Fatalf("Remove() error: %v", err)
	}
	if len(store.expenses) != 0 {
		t.Errorf("store contents = %+v, want empty", store.expenses)
	}
	if len(pub.deletes) != 1 || pub.deletes[0] != "a" {
		t.Errorf("published deletes = %v, want [a]", pub.deletes)
	}
}

func TestExpenseService_RemoveByMonth(t *testing.T) {
	store := &fakeStore{expenses: []core.Expense{
		{ID: "a", Amount: 1, Date: "2024-01-05"},
		{ID: "b", Amount: 2, Date: "2024-02-10"},
		{ID: "c", Amount: 3, Date: "2024-01-20"},
	}}
	pub := &fakePublisher{}
	svc := NewExpenseService(store, pub)

	removed, err := svc.RemoveByMonth(context.Background(), "2024-01")
	if err != nil {
		t.Fatalf("RemoveByMonth() error: %v", err)
	}
	if removed != 2 {
		t.Errorf("RemoveByMonth() removed = %d, want 2", removed)
	}
	if len(store.expenses) != 1 || store.expenses[0].ID != "b" {
		t.Errorf("store contents = %+v, want only b", store.expenses)
	}
	if len(pub.deletes) != 2 || pub.deletes[0] != "a" || pub.deletes[1] != "c" {
		t.Errorf("published deletes = %v, want [a c]", pub.deletes)
	}
}

func TestExpenseService_PublishFailureDoesNotFailMutation(t *testing.T) {
	store := &fakeStore{}
	pub := &fakePublisher{err: errors.New("broker down")}
	svc := NewExpenseService(store, pub)

	got, err := svc.Add(context.Background(), core.Draft{Amount: "5", Date: "2024-01-01"})
	if err != nil {
		t.Fatalf("Add() error = %v, want nil despite publish failure", err)
	}
	if len(store.expenses) != 1 || store.expenses[0] != got {
		t.Errorf("store contents = %+v, want the added record", store.expenses)
	}
}

func TestExpenseService_NilPublisher(t *testing.T) {
	svc := NewExpenseService(&fakeStore{}, nil)

	if _, err := svc.Add(context.Background(), core.Draft{Amount: "5", Date: "2024-01-01"}); err != nil {
		t.Fatalf("Add() with nil publisher error: %v", err)
	}
	if err := svc.Remove(context.Background(), "whatever"); err != nil {
		t.Fatalf("Remove() with nil publisher error: %v", err)
	}
}
