package core

import (
	"strings"
	"testing"
	"time"
)

func TestToCSV_Empty(t *testing.T) {
	got := ToCSV(nil)
	if got != "id,date,category,description,amount" {
		t.Errorf("ToCSV(nil) = %q, want header only", got)
	}
}

func TestToCSV(t *testing.T) {
	expenses := []Expense{
		{ID: "1", Amount: 12.5, Category: "Food, Drink", Date: "2024-03-10", Description: "lunch\nout"},
		{ID: "2", Amount: 20, Category: "Transport", Date: "2024-03-11", Description: "bus"},
	}

	got := ToCSV(expenses)
	want := "id,date,category,description,amount\r\n" +
		`1,2024-03-10,"Food, Drink",lunch out,12.5` + "\r\n" +
		"2,2024-03-11,Transport,bus,20"

	if got != want {
		t.Errorf("ToCSV() =\n%q\nwant\n%q", got, want)
	}
	if strings.HasSuffix(got, "\r\n") {
		t.Error("ToCSV() must not emit a trailing line terminator")
	}
}

func TestToCSV_Escaping(t *testing.T) {
	tests := []struct {
		name string
		exp  Expense
		want string
	}{
		{
			name: "quotes are doubled and field wrapped",
			exp:  Expense{ID: "1", Date: "2024-01-01", Category: "Food", Description: `say "hi"`, Amount: 1},
			want: `1,2024-01-01,Food,"say ""hi""",1`,
		},
		{
			name: "crlf collapses to one space",
			exp:  Expense{ID: "2", Date: "2024-01-01", Category: "Food", Description: "a\r\nb", Amount: 1},
			want: "2,2024-01-01,Food,a b,1",
		},
		{
			name: "zero amount serializes empty",
			exp:  Expense{ID: "3", Date: "2024-01-01", Category: "Food", Description: "legacy"},
			want: "3,2024-01-01,Food,legacy,",
		},
		{
			name: "whole amounts have no decimals",
			exp:  Expense{ID: "4", Date: "2024-01-01", Category: "Food", Description: "x", Amount: 20},
			want: "4,2024-01-01,Food,x,20",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ToCSV([]Expense{tt.exp})
			lines := strings.Split(got, "\r\n")
			if len(lines) != 2 {
				t.Fatalf("ToCSV() produced %d lines, want 2", len(lines))
			}
			if lines[1] != tt.want {
				t.Errorf("row = %q, want %q", lines[1], tt.want)
			}
		})
	}
}

func TestExportFilename(t *testing.T) {
	ts := time.Date(2024, 3, 15, 22, 4, 5, 0, time.UTC)
	if got := ExportFilename(ts); got != "expenses_2024-03-15.csv" {
		t.Errorf("ExportFilename() = %q, want expenses_2024-03-15.csv", got)
	}
}

func TestExportMIME(t *testing.T) {
	if ExportMIME != "text/csv;charset=utf-8;" {
		t.Errorf("ExportMIME = %q", ExportMIME)
	}
}
