package core

import "time"

// UnknownMonth is the grouping key for records with no usable date.
const UnknownMonth = "Unknown"

// Filter selects the visible subset of expenses. Zero-valued fields
// deactivate their predicate; active predicates are ANDed.
type Filter struct {
	Category string
	From     string // inclusive YYYY-MM-DD lower bound
	To       string // inclusive YYYY-MM-DD upper bound
}

// IsZero reports whether no predicate is active.
func (f Filter) IsZero() bool {
	return f.Category == "" && f.From == "" && f.To == ""
}

// Apply returns the expenses matching the filter, preserving input order.
// Date bounds compare lexicographically against the stored YYYY-MM-DD string,
// which is equivalent to chronological order for that form.
func (f Filter) Apply(expenses []Expense) []Expense {
	if f.IsZero() {
		return expenses
	}
	want := NormalizeFilterCategory(f.Category)
	out := make([]Expense, 0, len(expenses))
	for _, e := range expenses {
		if want != "" && NormalizeCategory(e.Category) != want {
			continue
		}
		if f.From != "" && e.Date < f.From {
			continue
		}
		if f.To != "" && e.Date > f.To {
			continue
		}
		out = append(out, e)
	}
	return out
}

// MonthKey returns the YYYY-MM grouping key for a record date, or
// UnknownMonth when the date is missing or unparseable.
func MonthKey(date string) string {
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return UnknownMonth
	}
	return date[:7]
}

// MonthLabel renders a month key as its long human-readable form, e.g.
// "March 2024". UnknownMonth renders as itself.
func MonthLabel(key string) string {
	t, err := time.Parse("2006-01", key)
	if err != nil {
		return key
	}
	return t.Format("January 2006")
}
