package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"outlay/internal/core"

	_ "modernc.org/sqlite"
)

// SQLiteStore is the alternative Store backend. Insertion order rides on
// rowid: inserts get fresh rowids, updates keep theirs, so List in rowid
// order matches the JSON slot's append-and-replace-in-place semantics.
type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) List(ctx context.Context) ([]core.Expense, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, amount, category, date, description FROM expenses ORDER BY rowid`)
	if err != nil {
		return nil, fmt.Errorf("list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []core.Expense
	for rows.Next() {
		var e core.Expense
		if err := rows.Scan(&e.ID, &e.Amount, &e.Category, &e.Date, &e.Description); err != nil {
			return nil, fmt.Errorf("scan expense: %w", err)
		}
		expenses = append(expenses, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate expenses: %w", err)
	}
	return expenses, nil
}

func (s *SQLiteStore) Get(ctx context.Context, id string) (core.Expense, error) {
	var e core.Expense
	err := s.db.QueryRowContext(ctx,
		`SELECT id, amount, category, date, description FROM expenses WHERE id = ?`, id).
		Scan(&e.ID, &e.Amount, &e.Category, &e.Date, &e.Description)
	if err == sql.ErrNoRows {
		return core.Expense{}, core.ErrNotFound
	}
	if err != nil {
		return core.Expense{}, fmt.Errorf("get expense: %w", err)
	}
	return e, nil
}

func (s *SQLiteStore) Insert(ctx context.Context, e core.Expense) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO expenses (id, amount, category, date, description) VALUES (?, ?, ?, ?, ?)`,
		e.ID, e.Amount, e.Category, e.Date, e.Description)
	if err != nil {
		return fmt.Errorf("insert expense: %w", err)
	}
	slog.InfoContext(ctx, "Expense saved",
		"id", e.ID,
		"category", e.Category,
		"date", e.Date,
		"amount", e.Amount)
	return nil
}

func (s *SQLiteStore) Replace(ctx context.Context, e core.Expense) error {
	res, err := s.db.ExecContext(ctx,
		`UPDATE expenses SET amount = ?, category = ?, date = ?, description = ? WHERE id = ?`,
		e.Amount, e.Category, e.Date, e.Description, e.ID)
	if err != nil {
		return fmt.Errorf("update expense: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update expense rows affected: %w", err)
	}
	if n == 0 {
		return core.ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) Delete(ctx context.Context, id string) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
		return fmt.Errorf("delete expense: %w", err)
	}
	return nil
}

// DeleteMonth computes month keys in Go rather than in SQL so that the
// "Unknown" bucket for unparseable dates matches the JSON store exactly.
func (s *SQLiteStore) DeleteMonth(ctx context.Context, monthKey string) (int, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT id, date FROM expenses`)
	if err != nil {
		return 0, fmt.Errorf("select expense dates: %w", err)
	}
	var doomed []string
	for rows.Next() {
		var id, date string
		if err := rows.Scan(&id, &date); err != nil {
			rows.Close()
			return 0, fmt.Errorf("scan expense date: %w", err)
		}
		if core.MonthKey(date) == monthKey {
			doomed = append(doomed, id)
		}
	}
	if err := rows.Close(); err != nil {
		return 0, fmt.Errorf("close expense dates: %w", err)
	}
	if err := rows.Err(); err != nil {
		return 0, fmt.Errorf("iterate expense dates: %w", err)
	}
	if len(doomed) == 0 {
		return 0, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin delete month: %w", err)
	}
	for _, id := range doomed {
		if _, err := tx.ExecContext(ctx, `DELETE FROM expenses WHERE id = ?`, id); err != nil {
			tx.Rollback()
			return 0, fmt.Errorf("delete expense %s: %w", id, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit delete month: %w", err)
	}
	slog.InfoContext(ctx, "Month deleted", "month_key", monthKey, "removed", len(doomed))
	return len(doomed), nil
}
