package core

import (
	"reflect"
	"testing"
)

func sampleExpenses() []Expense {
	return []Expense{
		{ID: "1", Amount: 10, Category: "Food", Date: "2024-01-05"},
		{ID: "2", Amount: 20, Category: "Transport", Date: "2024-01-20"},
		{ID: "3", Amount: 30, Category: "Food", Date: "2024-02-10"},
		{ID: "4", Amount: 40, Category: "Bills", Date: "2024-03-01"},
	}
}

func TestFilter_Apply(t *testing.T) {
	expenses := sampleExpenses()

	tests := []struct {
		name    string
		filter  Filter
		wantIDs []string
	}{
		{"zero filter returns everything", Filter{}, []string{"1", "2", "3", "4"}},
		{"category match", Filter{Category: "Food"}, []string{"1", "3"}},
		{"category match is normalized", Filter{Category: "  food "}, []string{"1", "3"}},
		{"from bound inclusive", Filter{From: "2024-01-20"}, []string{"2", "3", "4"}},
		{"to bound inclusive", Filter{To: "2024-01-20"}, []string{"1", "2"}},
		{"range", Filter{From: "2024-01-10", To: "2024-02-28"}, []string{"2", "3"}},
		{"all predicates", Filter{Category: "food", From: "2024-02-01", To: "2024-02-28"}, []string{"3"}},
		{"no match", Filter{Category: "Shopping"}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := tt.filter.Apply(expenses)
			ids := make([]string, 0, len(got))
			for _, e := range got {
				ids = append(ids, e.ID)
			}
			if !reflect.DeepEqual(ids, tt.wantIDs) {
				t.Errorf("Apply() ids = %v, want %v", ids, tt.wantIDs)
			}
		})
	}
}

func TestFilter_ApplyMatchesNormalizedRecordCategory(t *testing.T) {
	expenses := []Expense{
		{ID: "1", Category: "eating out", Date: "2024-01-01"},
		{ID: "2", Category: "Eating Out", Date: "2024-01-02"},
		{ID: "3", Category: "", Date: "2024-01-03"},
	}

	got := Filter{Category: "EATING OUT"}.Apply(expenses)
	if len(got) != 2 {
		t.Fatalf("Apply() matched %d records, want 2", len(got))
	}

	// Records with empty category normalize to Other and match that filter.
	got = Filter{Category: "other"}.Apply(expenses)
	if len(got) != 1 || got[0].ID != "3" {
		t.Fatalf("Apply() = %v, want only record 3", got)
	}
}

func TestFilter_IsZero(t *testing.T) {
	if !(Filter{}).IsZero() {
		t.Error("empty filter should be zero")
	}
	if (Filter{Category: "Food"}).IsZero() {
		t.Error("filter with category should not be zero")
	}
	if (Filter{From: "2024-01-01"}).IsZero() {
		t.Error("filter with from bound should not be zero")
	}
}

func TestMonthKey(t *testing.T) {
	tests := []struct {
		date string
		want string
	}{
		{"2024-03-15", "2024-03"},
		{"1999-12-31", "1999-12"},
		{"", "Unknown"},
		{"not-a-date", "Unknown"},
		{"2024-3-15", "Unknown"},
		{"2024-13-01", "Unknown"},
	}

	for _, tt := range tests {
		if got := MonthKey(tt.date); got != tt.want {
			t.Errorf("MonthKey(%q) = %q, want %q", tt.date, got, tt.want)
		}
	}
}

func TestMonthLabel(t *testing.T) {
	tests := []struct {
		key  string
		want string
	}{
		{"2024-03", "March 2024"},
		{"1999-12", "December 1999"},
		{"Unknown", "Unknown"},
		{"garbage", "garbage"},
	}

	for _, tt := range tests {
		if got := MonthLabel(tt.key); got != tt.want {
			t.Errorf("MonthLabel(%q) = %q, want %q", tt.key, got, tt.want)
		}
	}
}
