package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"math/rand"
	"strconv"
	"time"

	"github.com/google/uuid"

	"outlay/internal/core"
	"outlay/internal/storage"
)

// MirrorPublisher publishes store mutations for the mirror worker.
type MirrorPublisher interface {
	PublishUpsert(ctx context.Context, e core.Expense) error
	PublishDelete(ctx context.Context, id string) error
}

// ExpenseService orchestrates validation, identity and persistence for the
// expense collection. Mirror events are best-effort: a publish failure is
// logged and never fails the user's mutation, which is already durable.
type ExpenseService struct {
	store     storage.Store
	publisher MirrorPublisher
}

func NewExpenseService(store storage.Store, publisher MirrorPublisher) *ExpenseService {
	return &ExpenseService{
		store:     store,
		publisher: publisher,
	}
}

// List returns the full collection in insertion order.
func (s *ExpenseService) List(ctx context.Context) ([]core.Expense, error) {
	return s.store.List(ctx)
}

// Add validates the draft, assigns a fresh id, appends and persists.
func (s *ExpenseService) Add(ctx context.Context, d core.Draft) (core.Expense, error) {
	e, err := core.ValidateDraft(d, core.Today())
	if err != nil {
		return core.Expense{}, err
	}
	e.ID = newID()

	if err := s.store.Insert(ctx, e); err != nil {
		return core.Expense{}, fmt.Errorf("save expense: %w", err)
	}

	s.publishUpsert(ctx, e)
	return e, nil
}

// Update validates the draft and replaces every field of the record except
// its id, preserving its position. Returns core.ErrNotFound when the target
// has vanished (the caller holds stale state).
func (s *ExpenseService) Update(ctx context.Context, id string, d core.Draft) (core.Expense, error) {
	e, err := core.ValidateDraft(d, core.Today())
	if err != nil {
		return core.Expense{}, err
	}
	e.ID = id

	if err := s.store.Replace(ctx, e); err != nil {
		return core.Expense{}, err
	}

	s.publishUpsert(ctx, e)
	return e, nil
}

// Remove deletes at most one record; an absent id is a no-op.
func (s *ExpenseService) Remove(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	s.publishDelete(ctx, id)
	return nil
}

// RemoveByMonth deletes every record whose date falls in the given calendar
// month key, returning how many were removed.
func (s *ExpenseService) RemoveByMonth(ctx context.Context, monthKey string) (int, error) {
	// Snapshot the doomed ids first so the mirror hears about each one.
	expenses, err := s.store.List(ctx)
	if err != nil {
		return 0, fmt.Errorf("load expenses: %w", err)
	}
	var doomed []string
	for _, e := range expenses {
		if core.MonthKey(e.Date) == monthKey {
			doomed = append(doomed, e.ID)
		}
	}

	removed, err := s.store.DeleteMonth(ctx, monthKey)
	if err != nil {
		return 0, fmt.Errorf("delete month: %w", err)
	}
	for _, id := range doomed {
		s.publishDelete(ctx, id)
	}
	return removed, nil
}

func (s *ExpenseService) publishUpsert(ctx context.Context, e core.Expense) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishUpsert(ctx, e); err != nil {
		slog.ErrorContext(ctx, "Failed to publish mirror upsert",
			"id", e.ID, "error", err)
	}
}

func (s *ExpenseService) publishDelete(ctx context.Context, id string) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.PublishDelete(ctx, id); err != nil {
		slog.ErrorContext(ctx, "Failed to publish mirror delete",
			"id", id, "error", err)
	}
}

// Close closes the store and, when the publisher owns a connection, the
// publisher too.
func (s *ExpenseService) Close() error {
	var errs []error

	if s.store != nil {
		if err := s.store.Close(); err != nil {
			errs = append(errs, fmt.Errorf("storage: %w", err))
		}
	}

	if closer, ok := s.publisher.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			errs = append(errs, fmt.Errorf("publisher: %w", err))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("close expense service: %v", errs)
	}

	return nil
}

// newID prefers a crypto-random UUID and falls back to a timestamp+random
// composite when no secure random source is available. Uniqueness is
// probabilistic; ids are never checked against the existing collection.
func newID() string {
	if u, err := uuid.NewRandom(); err == nil {
		return u.String()
	}
	return "id_" + strconv.FormatInt(time.Now().UnixMilli(), 36) +
		strconv.FormatInt(rand.Int63n(1<<30), 36)
}
