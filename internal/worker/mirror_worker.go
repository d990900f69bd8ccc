package worker

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"outlay/internal/amqp"
	"outlay/internal/core"
	"outlay/internal/sheets"
	"outlay/internal/storage"
)

// MirrorWorker keeps the spreadsheet mirror in step with the store. It
// applies queued mirror messages as they arrive and periodically reconciles
// the two sides, since the mirror is best-effort and can drift.
type MirrorWorker struct {
	store     storage.Store
	mirror    sheets.Mirror
	exportDir string
}

func NewMirrorWorker(store storage.Store, mirror sheets.Mirror, exportDir string) *MirrorWorker {
	return &MirrorWorker{
		store:     store,
		mirror:    mirror,
		exportDir: exportDir,
	}
}

// HandleMessage applies a single queued mirror message.
func (w *MirrorWorker) HandleMessage(ctx context.Context, msg *amqp.MirrorMessage) error {
	switch msg.Kind {
	case amqp.KindUpsert:
		if msg.Expense == nil {
			return fmt.Errorf("upsert message %s carries no record", msg.ID)
		}
		rowRef, err := w.mirror.Upsert(ctx, *msg.Expense)
		if err != nil {
			return fmt.Errorf("mirror upsert %s: %w", msg.ID, err)
		}
		slog.InfoContext(ctx, "Applied mirror upsert",
			"id", msg.ID,
			"row_ref", rowRef)
		return nil

	case amqp.KindDelete:
		if err := w.mirror.Delete(ctx, msg.ID); err != nil {
			return fmt.Errorf("mirror delete %s: %w", msg.ID, err)
		}
		slog.InfoContext(ctx, "Applied mirror delete", "id", msg.ID)
		return nil

	default:
		return fmt.Errorf("unknown mirror message kind %q", msg.Kind)
	}
}

// ReconcileStats reports what a reconciliation pass changed.
type ReconcileStats struct {
	Upserted int
	Deleted  int
}

// Reconcile diffs the store against the mirror, writing records the mirror
// is missing and deleting rows whose record is gone. Requires a mirror that
// can report its contents; others are left to the message stream alone.
func (w *MirrorWorker) Reconcile(ctx context.Context) (ReconcileStats, error) {
	var stats ReconcileStats

	reconciler, ok := w.mirror.(sheets.Reconciler)
	if !ok {
		slog.DebugContext(ctx, "Mirror cannot list its rows, skipping reconcile")
		return stats, nil
	}

	expenses, err := w.store.List(ctx)
	if err != nil {
		return stats, fmt.Errorf("list expenses: %w", err)
	}

	mirrorIDs, err := reconciler.ListIDs(ctx)
	if err != nil {
		return stats, fmt.Errorf("list mirrored ids: %w", err)
	}

	mirrored := make(map[string]bool, len(mirrorIDs))
	for _, id := range mirrorIDs {
		mirrored[id] = true
	}

	stored := make(map[string]bool, len(expenses))
	for _, e := range expenses {
		stored[e.ID] = true
		if mirrored[e.ID] {
			continue
		}
		if _, err := w.mirror.Upsert(ctx, e); err != nil {
			return stats, fmt.Errorf("reconcile upsert %s: %w", e.ID, err)
		}
		stats.Upserted++
	}

	for _, id := range mirrorIDs {
		if stored[id] {
			continue
		}
		if err := w.mirror.Delete(ctx, id); err != nil {
			return stats, fmt.Errorf("reconcile delete %s: %w", id, err)
		}
		stats.Deleted++
	}

	if stats.Upserted > 0 || stats.Deleted > 0 {
		slog.InfoContext(ctx, "Reconciled mirror",
			"upserted", stats.Upserted,
			"deleted", stats.Deleted)
	}

	return stats, nil
}

// WriteSnapshot exports the full collection as a dated CSV file and returns
// its path. Snapshots with the same date overwrite each other, keeping one
// file per day.
func (w *MirrorWorker) WriteSnapshot(ctx context.Context) (string, error) {
	if w.exportDir == "" {
		return "", nil
	}

	expenses, err := w.store.List(ctx)
	if err != nil {
		return "", fmt.Errorf("list expenses: %w", err)
	}

	if err := os.MkdirAll(w.exportDir, 0o755); err != nil {
		return "", fmt.Errorf("create export directory: %w", err)
	}

	path := filepath.Join(w.exportDir, core.ExportFilename(time.Now()))
	if err := os.WriteFile(path, []byte(core.ToCSV(expenses)), 0o644); err != nil {
		return "", fmt.Errorf("write snapshot: %w", err)
	}

	slog.InfoContext(ctx, "Wrote CSV snapshot",
		"path", path,
		"count", len(expenses))

	return path, nil
}
