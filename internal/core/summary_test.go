package core

import (
	"testing"
)

func TestSummarize_Empty(t *testing.T) {
	s := Summarize(nil, nil)
	if s.Total != 0 || s.Count != 0 || s.OverallTotal != 0 {
		t.Errorf("Summarize(nil, nil) totals = %+v, want zeroes", s)
	}
	if len(s.ByCategory) != 0 || len(s.ByMonth) != 0 {
		t.Errorf("Summarize(nil, nil) groups = %+v, want empty", s)
	}
}

func TestSummarize_VisibleVersusAll(t *testing.T) {
	all := []Expense{
		{ID: "1", Amount: 10, Category: "Food", Date: "2024-01-05"},
		{ID: "2", Amount: 20, Category: "Transport", Date: "2024-01-20"},
		{ID: "3", Amount: 30, Category: "Food", Date: "2024-02-10"},
	}
	visible := all[:2]

	s := Summarize(visible, all)

	if s.Total != 30 {
		t.Errorf("Total = %v, want 30 (visible only)", s.Total)
	}
	if s.Count != 2 {
		t.Errorf("Count = %v, want 2 (visible only)", s.Count)
	}
	if s.OverallTotal != 60 {
		t.Errorf("OverallTotal = %v, want 60 (full collection)", s.OverallTotal)
	}

	// ByMonth covers the full collection even though record 3 is filtered out.
	if len(s.ByMonth) != 2 {
		t.Fatalf("ByMonth has %d groups, want 2", len(s.ByMonth))
	}
	if s.ByMonth[0].Key != "2024-02" || s.ByMonth[1].Key != "2024-01" {
		t.Errorf("ByMonth keys = [%s %s], want newest first", s.ByMonth[0].Key, s.ByMonth[1].Key)
	}
}

func TestSummarize_ByCategoryOrdering(t *testing.T) {
	visible := []Expense{
		{Amount: 5, Category: "Bills", Date: "2024-01-01"},
		{Amount: 25, Category: "food", Date: "2024-01-02"},
		{Amount: 5, Category: "Shopping", Date: "2024-01-03"},
		{Amount: 10, Category: "Food", Date: "2024-01-04"},
	}

	s := Summarize(visible, visible)

	want := []CategoryAmount{
		{Category: "Food", Amount: 35},
		{Category: "Bills", Amount: 5},
		{Category: "Shopping", Amount: 5},
	}
	if len(s.ByCategory) != len(want) {
		t.Fatalf("ByCategory = %+v, want %+v", s.ByCategory, want)
	}
	for i := range want {
		if s.ByCategory[i] != want[i] {
			t.Errorf("ByCategory[%d] = %+v, want %+v", i, s.ByCategory[i], want[i])
		}
	}
}

func TestSummarize_ByMonthOrderAndLabels(t *testing.T) {
	all := []Expense{
		{ID: "a", Amount: 1, Date: "2023-11-02"},
		{ID: "b", Amount: 2, Date: ""},
		{ID: "c", Amount: 3, Date: "2024-02-10"},
		{ID: "d", Amount: 4, Date: "2023-11-20"},
		{ID: "e", Amount: 5, Date: "bogus"},
	}

	s := Summarize(all, all)

	// Unknown sorts ahead of every numeric key in the descending lexicographic
	// order, then months newest first.
	wantKeys := []string{"Unknown", "2024-02", "2023-11"}
	if len(s.ByMonth) != len(wantKeys) {
		t.Fatalf("ByMonth has %d groups, want %d", len(s.ByMonth), len(wantKeys))
	}
	for i, key := range wantKeys {
		if s.ByMonth[i].Key != key {
			t.Errorf("ByMonth[%d].Key = %q, want %q", i, s.ByMonth[i].Key, key)
		}
	}

	if s.ByMonth[0].Label != "Unknown" {
		t.Errorf("Unknown label = %q, want Unknown", s.ByMonth[0].Label)
	}
	if s.ByMonth[1].Label != "February 2024" {
		t.Errorf("label = %q, want February 2024", s.ByMonth[1].Label)
	}

	if s.ByMonth[0].Total != 7 {
		t.Errorf("Unknown group total = %v, want 7", s.ByMonth[0].Total)
	}

	// Insertion order survives inside a group.
	nov := s.ByMonth[2]
	if len(nov.Expenses) != 2 || nov.Expenses[0].ID != "a" || nov.Expenses[1].ID != "d" {
		t.Errorf("2023-11 group = %+v, want records a then d", nov.Expenses)
	}
}
