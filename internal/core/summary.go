package core

import "sort"

// CategoryAmount represents an amount aggregated by category name.
type CategoryAmount struct {
	Name   string
	Amount Money
}

// RangeSummary is a compact summary over an inclusive date range.
type RangeSummary struct {
	Start    Date
	End      Date
	Income   Money
	Expenses Money // negative or zero
	Net      Money
	Count    int
}

// BudgetUsage is the state of one budget within the period window containing a day.
type BudgetUsage struct {
	Budget      Budget
	WindowStart Date
	WindowEnd   Date
	Spent       Money // positive amount spent in the window
	Remaining   Money // negative when over the limit
	OverLimit   bool
}

// SortedAmounts turns a category map into a slice ordered by name.
func SortedAmounts(m map[string]Money) []CategoryAmount {
	out := make([]CategoryAmount, 0, len(m))
	for name, amt := range m {
		out = append(out, CategoryAmount{Name: name, Amount: amt})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}
