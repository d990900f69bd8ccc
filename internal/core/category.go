package core

import (
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"
)

// BaseCategories is the fixed selectable category set. Stored records may
// carry categories beyond this list; CategoryOptions merges them in.
var BaseCategories = []string{"Food", "Transport", "Entertainment", "Bills", "Shopping", "Other"}

// DefaultCategory is what an empty category normalizes to on persistence.
const DefaultCategory = "Other"

// NormalizeCategory canonicalizes a free-text category: trimmed, each word
// capitalized, single spaces between words. Empty input normalizes to
// DefaultCategory. Idempotent.
func NormalizeCategory(s string) string {
	n := NormalizeFilterCategory(s)
	if n == "" {
		return DefaultCategory
	}
	return n
}

// NormalizeFilterCategory is NormalizeCategory for the filter-selection
// context, where an empty value means "no filter" and must stay empty.
func NormalizeFilterCategory(s string) string {
	words := strings.Fields(strings.ToLower(s))
	for i, w := range words {
		r, size := utf8.DecodeRuneInString(w)
		words[i] = string(unicode.ToUpper(r)) + w[size:]
	}
	return strings.Join(words, " ")
}

// CategoryOptions returns the selectable category list: base first, then any
// extra normalized categories found in expenses, deduplicated and sorted.
func CategoryOptions(expenses []Expense, base []string) []string {
	seen := make(map[string]struct{}, len(base))
	for _, c := range base {
		seen[c] = struct{}{}
	}
	var extras []string
	for _, e := range expenses {
		c := NormalizeCategory(e.Category)
		if _, ok := seen[c]; ok {
			continue
		}
		seen[c] = struct{}{}
		extras = append(extras, c)
	}
	sort.Strings(extras)
	out := make([]string, 0, len(base)+len(extras))
	out = append(out, base...)
	return append(out, extras...)
}
