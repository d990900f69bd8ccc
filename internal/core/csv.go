// Package core provides the expense data model and derived-view computation.
//
// This file implements the CSV export wire format. The format is fixed:
// header id,date,category,description,amount, rows joined with CRLF and no
// trailing terminator. Embedded newlines collapse to single spaces before the
// quoting decision; fields containing a comma or double quote are wrapped in
// double quotes with inner quotes doubled.
//
// Examples:
//
//	category "Food, Drink"  -> "Food, Drink" (quoted, comma preserved)
//	description "lunch\nout" -> lunch out
//	amount 12.5             -> 12.5
package core

import (
	"strconv"
	"strings"
	"time"
)

const csvHeader = "id,date,category,description,amount"

// ExportMIME is the content type of a CSV export.
const ExportMIME = "text/csv;charset=utf-8;"

// ToCSV serializes expenses in the export wire format. A zero amount
// serializes as the empty string, never "0": valid records always carry a
// positive amount, so zero only appears on tolerated legacy rows.
func ToCSV(expenses []Expense) string {
	lines := make([]string, 0, len(expenses)+1)
	lines = append(lines, csvHeader)
	for _, e := range expenses {
		amount := ""
		if e.Amount != 0 {
			amount = strconv.FormatFloat(e.Amount, 'f', -1, 64)
		}
		fields := []string{e.ID, e.Date, e.Category, e.Description, amount}
		for i, f := range fields {
			fields[i] = csvEscape(f)
		}
		lines = append(lines, strings.Join(fields, ","))
	}
	return strings.Join(lines, "\r\n")
}

func csvEscape(field string) string {
	field = strings.ReplaceAll(field, "\r\n", " ")
	field = strings.ReplaceAll(field, "\n", " ")
	if strings.ContainsAny(field, `",`) {
		return `"` + strings.ReplaceAll(field, `"`, `""`) + `"`
	}
	return field
}

// ExportFilename names a CSV export produced at time t.
func ExportFilename(t time.Time) string {
	return "expenses_" + t.Format("2006-01-02") + ".csv"
}
