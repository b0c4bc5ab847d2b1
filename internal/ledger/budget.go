package ledger

import (
	"cmp"
	"slices"

	"ledger/internal/core"
)

// BudgetStatus reports, for every budget, how much was spent in its category
// during the period window that contains asOf. Only expenses count towards
// spend; income in the same category does not offset it.
func (s *Store) BudgetStatus(asOf core.Date) ([]core.BudgetUsage, error) {
	s.mu.RLock()
	budgets := slices.Clone(s.budgets)
	txs := slices.Clone(s.transactions)
	s.mu.RUnlock()

	out := make([]core.BudgetUsage, 0, len(budgets))
	for _, b := range budgets {
		start, end, err := b.Window(asOf)
		if err != nil {
			return nil, err
		}
		var spent core.Money
		for _, tx := range txs {
			if tx.Category == b.Category && tx.IsExpense() && tx.Date.Between(start, end) {
				spent = spent.Sub(tx.Amount)
			}
		}
		remaining := b.Limit.Sub(spent)
		out = append(out, core.BudgetUsage{
			Budget:      b,
			WindowStart: start,
			WindowEnd:   end,
			Spent:       spent,
			Remaining:   remaining,
			OverLimit:   remaining.Cents < 0,
		})
	}
	slices.SortStableFunc(out, func(a, b core.BudgetUsage) int {
		return cmp.Compare(a.Budget.Category, b.Budget.Category)
	})
	return out, nil
}
