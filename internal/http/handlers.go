package http

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"outlay/internal/core"
)

// expensePayload is the request body for create and update. Amount travels as
// a raw token so clients can send either a JSON number or the text of an
// input field; validation happens downstream either way.
type expensePayload struct {
	Amount      json.RawMessage `json:"amount"`
	Category    string          `json:"category"`
	Date        string          `json:"date"`
	Description string          `json:"description"`
}

func (p expensePayload) draft() core.Draft {
	amount := strings.TrimSpace(string(p.Amount))
	amount = strings.Trim(amount, `"`)
	if amount == "null" {
		amount = ""
	}
	return core.Draft{
		Amount:      amount,
		Category:    p.Category,
		Date:        p.Date,
		Description: p.Description,
	}
}

func (s *Server) handleListExpenses(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.visibleExpenses(r, parseFilter(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "List expenses error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}
	if expenses == nil {
		expenses = []core.Expense{}
	}
	writeJSON(w, http.StatusOK, expenses)
}

func (s *Server) handleCreateExpense(w http.ResponseWriter, r *http.Request) {
	var payload expensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	created, err := s.service.Add(r.Context(), payload.draft())
	if err != nil {
		s.writeServiceError(w, r, err, "create")
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateExpense(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")

	var payload expensePayload
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	updated, err := s.service.Update(r.Context(), id, payload.draft())
	if err != nil {
		s.writeServiceError(w, r, err, "update")
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteExpense(w http.ResponseWriter, r *http.Request) {
	if err := s.service.Remove(r.Context(), r.PathValue("id")); err != nil {
		s.writeServiceError(w, r, err, "delete")
		return
	}

	s.invalidateCaches()
	w.WriteHeader(http.StatusNoContent)
}

func (s *Server) handleDeleteMonth(w http.ResponseWriter, r *http.Request) {
	monthKey := r.PathValue("key")

	removed, err := s.service.RemoveByMonth(r.Context(), monthKey)
	if err != nil {
		s.writeServiceError(w, r, err, "delete_month")
		return
	}

	s.invalidateCaches()
	writeJSON(w, http.StatusOK, map[string]int{"removed": removed})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	f := parseFilter(r)
	key := filterKey(f)

	if summary, found := s.summaryCache.Get(key); found {
		slog.DebugContext(r.Context(), "Summary cache hit", "key", key)
		writeJSON(w, http.StatusOK, summary)
		return
	}

	all, err := s.service.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Summary load error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}

	summary := core.Summarize(f.Apply(all), all)
	s.summaryCache.Set(key, summary)
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	all, err := s.service.List(r.Context())
	if err != nil {
		slog.ErrorContext(r.Context(), "Categories load error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}

	writeJSON(w, http.StatusOK, map[string][]string{
		"categories": core.CategoryOptions(all, core.BaseCategories),
	})
}

func (s *Server) handleExportCSV(w http.ResponseWriter, r *http.Request) {
	expenses, err := s.visibleExpenses(r, parseFilter(r))
	if err != nil {
		slog.ErrorContext(r.Context(), "Export load error", "error", err)
		writeError(w, http.StatusInternalServerError, "failed to load expenses")
		return
	}

	filename := core.ExportFilename(time.Now())
	w.Header().Set("Content-Type", core.ExportMIME)
	w.Header().Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(core.ToCSV(expenses)))
}

// visibleExpenses returns the filtered collection, serving repeat reads of
// the same filter from cache.
func (s *Server) visibleExpenses(r *http.Request, f core.Filter) ([]core.Expense, error) {
	key := filterKey(f)

	if items, found := s.listCache.Get(key); found {
		slog.DebugContext(r.Context(), "Expenses cache hit", "key", key, "count", len(items))
		// Return a copy to prevent external mutation
		result := make([]core.Expense, len(items))
		copy(result, items)
		return result, nil
	}

	all, err := s.service.List(r.Context())
	if err != nil {
		return nil, err
	}

	visible := f.Apply(all)
	s.listCache.Set(key, visible)
	return visible, nil
}

func parseFilter(r *http.Request) core.Filter {
	q := r.URL.Query()
	return core.Filter{
		Category: strings.TrimSpace(q.Get("category")),
		From:     strings.TrimSpace(q.Get("from")),
		To:       strings.TrimSpace(q.Get("to")),
	}
}

func filterKey(f core.Filter) string {
	return core.NormalizeFilterCategory(f.Category) + "|" + f.From + "|" + f.To
}

// writeServiceError maps service failures onto HTTP statuses: invalid drafts
// are 422, vanished records 404, everything else 500.
func (s *Server) writeServiceError(w http.ResponseWriter, r *http.Request, err error, op string) {
	switch {
	case errors.Is(err, core.ErrInvalidAmount),
		errors.Is(err, core.ErrMissingDate),
		errors.Is(err, core.ErrFutureDate):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, core.ErrNotFound):
		writeError(w, http.StatusNotFound, "expense not found")
	default:
		slog.ErrorContext(r.Context(), "Expense operation failed", "operation", op, "error", err)
		writeError(w, http.StatusInternalServerError, "operation failed")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("Failed to encode response", "error", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
