package core

import (
	"errors"
	"math"
	"strconv"
	"strings"
	"time"
)

type (
	// Expense is one persisted transaction entry. The JSON tags fix the
	// persisted slot layout; Date always carries the ISO YYYY-MM-DD form.
	Expense struct {
		ID          string  `json:"id"`
		Amount      float64 `json:"amount"`
		Category    string  `json:"category"`
		Date        string  `json:"date"`
		Description string  `json:"description"`
	}

	// Draft carries unvalidated user input for an add or an edit.
	Draft struct {
		Amount      string
		Category    string
		Date        string
		Description string
	}
)

var (
	ErrInvalidAmount = errors.New("amount must be a positive number")
	ErrMissingDate   = errors.New("please select a date")
	ErrFutureDate    = errors.New("date cannot be in the future")
	ErrNotFound      = errors.New("expense not found")
)

// Today returns the current calendar date as YYYY-MM-DD.
func Today() string {
	return time.Now().Format("2006-01-02")
}

// ValidateDraft checks d against today's date (YYYY-MM-DD) and returns the
// normalized expense fields, without an ID. Rules run in a fixed order and the
// first violation wins. The future-date check is plain string comparison on
// the ISO form; parsing to a zoned time here would reintroduce timezone skew
// around midnight.
func ValidateDraft(d Draft, today string) (Expense, error) {
	amount, err := strconv.ParseFloat(strings.TrimSpace(d.Amount), 64)
	if err != nil || math.IsInf(amount, 0) || math.IsNaN(amount) || amount <= 0 {
		return Expense{}, ErrInvalidAmount
	}
	if d.Date == "" {
		return Expense{}, ErrMissingDate
	}
	if d.Date > today {
		return Expense{}, ErrFutureDate
	}
	return Expense{
		Amount:      amount,
		Category:    NormalizeCategory(d.Category),
		Date:        d.Date,
		Description: strings.TrimSpace(d.Description),
	}, nil
}
