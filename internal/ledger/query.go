package ledger

import (
	"cmp"
	"maps"
	"slices"

	"ledger/internal/core"
)

const totalsKey = "all"

// TransactionsInRange returns the transactions whose date lies in
// [start, end], both ends included, ordered by date. Ties are broken by
// creation time and then id so the order is stable across calls.
// A start after end yields an empty result.
func (s *Store) TransactionsInRange(start, end core.Date) []core.Transaction {
	if start.After(end) {
		return []core.Transaction{}
	}
	key := start.String() + ".." + end.String()

	s.mu.RLock()
	defer s.mu.RUnlock()

	if cached, ok := s.rangeCache.Get(key); ok {
		return slices.Clone(cached)
	}

	out := make([]core.Transaction, 0)
	for _, tx := range s.transactions {
		if tx.Date.Between(start, end) {
			out = append(out, tx)
		}
	}
	slices.SortFunc(out, compareTransactions)

	s.rangeCache.Set(key, out)
	return slices.Clone(out)
}

// TotalsByCategory sums signed amounts per category over all transactions.
// Categories without transactions are absent; an empty ledger yields an
// empty, non-nil map.
func (s *Store) TotalsByCategory() map[string]core.Money {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if cached, ok := s.totalsCache.Get(totalsKey); ok {
		return maps.Clone(cached)
	}

	totals := sumByCategory(s.transactions)
	s.totalsCache.Set(totalsKey, totals)
	return maps.Clone(totals)
}

// Summary aggregates income and expenses over [start, end].
func (s *Store) Summary(start, end core.Date) core.RangeSummary {
	sum := core.RangeSummary{Start: start, End: end}
	for _, tx := range s.TransactionsInRange(start, end) {
		switch {
		case tx.IsIncome():
			sum.Income = sum.Income.Add(tx.Amount)
		case tx.IsExpense():
			sum.Expenses = sum.Expenses.Add(tx.Amount)
		}
		sum.Count++
	}
	sum.Net = sum.Income.Add(sum.Expenses)
	return sum
}

// CategoryTotalsInRange is TotalsByCategory restricted to [start, end].
func (s *Store) CategoryTotalsInRange(start, end core.Date) map[string]core.Money {
	return sumByCategory(s.TransactionsInRange(start, end))
}

func sumByCategory(txs []core.Transaction) map[string]core.Money {
	totals := make(map[string]core.Money)
	for _, tx := range txs {
		totals[tx.Category] = totals[tx.Category].Add(tx.Amount)
	}
	return totals
}

func compareTransactions(a, b core.Transaction) int {
	if c := a.Date.Compare(b.Date.Time); c != 0 {
		return c
	}
	if c := a.CreatedAt.Compare(b.CreatedAt); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}
