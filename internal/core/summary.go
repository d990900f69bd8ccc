package core

import "sort"

type (
	// CategoryAmount is a category's summed amount within the visible set.
	CategoryAmount struct {
		Category string  `json:"category"`
		Amount   float64 `json:"amount"`
	}

	// MonthGroup is the set of expenses sharing a month key, with its total.
	MonthGroup struct {
		Key      string    `json:"key"`
		Label    string    `json:"label"`
		Total    float64   `json:"total"`
		Expenses []Expense `json:"expenses"`
	}

	// Summary is the aggregate view the rendering layer consumes.
	Summary struct {
		Total        float64          `json:"total"`
		Count        int              `json:"count"`
		OverallTotal float64          `json:"overallTotal"`
		ByCategory   []CategoryAmount `json:"byCategory"`
		ByMonth      []MonthGroup     `json:"byMonth"`
	}
)

// Summarize computes the aggregate view over the visible subset and the full
// collection. Total, Count and ByCategory cover visible only; OverallTotal
// and ByMonth always reflect the full collection regardless of the active
// filter. Empty input yields zeroed, empty results.
func Summarize(visible, all []Expense) Summary {
	s := Summary{Count: len(visible)}

	byCat := map[string]float64{}
	var catOrder []string
	for _, e := range visible {
		s.Total += e.Amount
		key := NormalizeCategory(e.Category)
		if _, ok := byCat[key]; !ok {
			catOrder = append(catOrder, key)
		}
		byCat[key] += e.Amount
	}
	for _, c := range catOrder {
		s.ByCategory = append(s.ByCategory, CategoryAmount{Category: c, Amount: byCat[c]})
	}
	// Stable sort keeps first-encountered categories ahead on equal amounts.
	sort.SliceStable(s.ByCategory, func(i, j int) bool {
		return s.ByCategory[i].Amount > s.ByCategory[j].Amount
	})

	groups := map[string][]Expense{}
	var keys []string
	for _, e := range all {
		s.OverallTotal += e.Amount
		key := MonthKey(e.Date)
		if _, ok := groups[key]; !ok {
			keys = append(keys, key)
		}
		groups[key] = append(groups[key], e)
	}
	// Plain lexicographic descending sort on the key strings, not a semantic
	// date sort; UnknownMonth lands ahead of every YYYY-MM key.
	sort.Sort(sort.Reverse(sort.StringSlice(keys)))
	for _, key := range keys {
		g := MonthGroup{Key: key, Label: MonthLabel(key), Expenses: groups[key]}
		for _, e := range g.Expenses {
			g.Total += e.Amount
		}
		s.ByMonth = append(s.ByMonth, g)
	}
	return s
}
