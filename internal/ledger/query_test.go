package ledger

import (
	"context"
	"testing"

	"ledger/internal/core"
)

func TestTotalsByCategory(t *testing.T) {
	s := newTestStore(nil)
	ctx := context.Background()

	if got := s.TotalsByCategory(); got == nil || len(got) != 0 {
		t.Fatalf("empty ledger totals = %#v, want empty map", got)
	}

	for _, f := range []core.TransactionFields{
		txFields("-10", "Food", "2024-03-01"),
		txFields("-15", "Food", "2024-03-02"),
		txFields("2000", "Salary", "2024-03-03"),
	} {
		if _, err := s.AddTransaction(ctx, f); err != nil {
			t.Fatal(err)
		}
	}

	got := s.TotalsByCategory()
	want := map[string]core.Money{"Food": core.Cents(-2500), "Salary": core.Cents(200000)}
	if len(got) != len(want) {
		t.Fatalf("totals = %v, want %v", got, want)
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("totals[%q] = %v, want %v", k, got[k], v)
		}
	}

	// Mutating the returned map must not leak into the cache.
	got["Food"] = core.Cents(1)
	if again := s.TotalsByCategory(); again["Food"] != core.Cents(-2500) {
		t.Errorf("cached totals were mutated: %v", again)
	}
}

func TestTotalsRefreshAfterMutation(t *testing.T) {
	s := newTestStore(nil)
	ctx := context.Background()

	tx, err := s.AddTransaction(ctx, txFields("-10", "Food", "2024-03-01"))
	if err != nil {
		t.Fatal(err)
	}
	_ = s.TotalsByCategory()

	if _, err := s.UpdateTransaction(ctx, tx.ID, core.TransactionFields{Category: core.Ptr("Dining")}); err != nil {
		t.Fatal(err)
	}
	got := s.TotalsByCategory()
	if _, ok := got["Food"]; ok {
		t.Errorf("stale category in totals: %v", got)
	}
	if got["Dining"] != core.Cents(-1000) {
		t.Errorf("totals = %v", got)
	}
}

func TestTransactionsInRange(t *testing.T) {
	s := newTestStore(nil)
	ctx := context.Background()

	add := func(amount, date string) core.Transaction {
		t.Helper()
		tx, err := s.AddTransaction(ctx, txFields(amount, "Food", date))
		if err != nil {
			t.Fatal(err)
		}
		return tx
	}
	late := add("-3", "2024-03-10")
	early := add("-1", "2024-03-01")
	sameDay := add("-2", "2024-03-10")
	add("-4", "2024-02-29")
	add("-5", "2024-03-11")

	d1 := core.MustParseDate("2024-03-01")
	d2 := core.MustParseDate("2024-03-10")

	got := s.TransactionsInRange(d1, d2)
	wantIDs := []string{early.ID, late.ID, sameDay.ID}
	if len(got) != len(wantIDs) {
		t.Fatalf("got %d transactions, want %d: %+v", len(got), len(wantIDs), got)
	}
	for i, id := range wantIDs {
		if got[i].ID != id {
			t.Errorf("got[%d] = %s (%s), want %s", i, got[i].ID, got[i].Date, id)
		}
	}

	tests := []struct {
		name       string
		start, end core.Date
		want       int
	}{
		{"day before start excluded", d1.AddDays(-1), d1.AddDays(-1), 1},
		{"start included", d1, d1, 1},
		{"end included", d2, d2, 2},
		{"start after end", d2, d1, 0},
		{"nothing in range", core.MustParseDate("2025-01-01"), core.MustParseDate("2025-12-31"), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := s.TransactionsInRange(tt.start, tt.end)
			if got == nil {
				t.Fatal("result should be non-nil")
			}
			if len(got) != tt.want {
				t.Errorf("len = %d, want %d", len(got), tt.want)
			}
		})
	}
}

func TestSummary(t *testing.T) {
	s := newTestStore(nil)
	ctx := context.Background()

	for _, f := range []core.TransactionFields{
		txFields("-42.50", "Transportation", "2024-03-05"),
		txFields("-7.50", "Food", "2024-03-06"),
		txFields("1500", "Salary", "2024-03-07"),
		txFields("-100", "Rent", "2024-04-01"),
	} {
		if _, err := s.AddTransaction(ctx, f); err != nil {
			t.Fatal(err)
		}
	}

	sum := s.Summary(core.MustParseDate("2024-03-01"), core.MustParseDate("2024-03-31"))
	if sum.Count != 3 {
		t.Errorf("Count = %d, want 3", sum.Count)
	}
	if sum.Income != core.Cents(150000) || sum.Expenses != core.Cents(-5000) || sum.Net != core.Cents(145000) {
		t.Errorf("summary = %+v", sum)
	}

	byCat := s.CategoryTotalsInRange(core.MustParseDate("2024-03-01"), core.MustParseDate("2024-03-31"))
	if byCat["Transportation"] != core.Cents(-4250) {
		t.Errorf("Transportation = %v, want -42.50", byCat["Transportation"])
	}
	if _, ok := byCat["Rent"]; ok {
		t.Error("Rent is outside the range")
	}
}

func TestBudgetStatus(t *testing.T) {
	s := newTestStore(nil)
	ctx := context.Background()

	if _, err := s.AddBudget(ctx, core.BudgetFields{
		Category:  core.Ptr("Food"),
		Period:    core.Ptr("monthly"),
		Limit:     core.Ptr("100"),
		StartDate: core.Ptr("2024-01-15"),
	}); err != nil {
		t.Fatal(err)
	}
	if _, err := s.AddBudget(ctx, core.BudgetFields{
		Category:  core.Ptr("Entertainment"),
		Period:    core.Ptr("weekly"),
		Limit:     core.Ptr("20"),
		StartDate: core.Ptr("2024-03-04"),
	}); err != nil {
		t.Fatal(err)
	}
	for _, f := range []core.TransactionFields{
		txFields("-60", "Food", "2024-03-14"),     // previous window
		txFields("-80", "Food", "2024-03-15"),     // window start
		txFields("-30", "Food", "2024-04-14"),     // window end
		txFields("50", "Food", "2024-03-20"),      // refunds do not offset spend
		txFields("-5", "Entertainment", "2024-03-11"),
	} {
		if _, err := s.AddTransaction(ctx, f); err != nil {
			t.Fatal(err)
		}
	}

	usage, err := s.BudgetStatus(core.MustParseDate("2024-03-20"))
	if err != nil {
		t.Fatalf("BudgetStatus() error = %v", err)
	}
	if len(usage) != 2 {
		t.Fatalf("got %d usages, want 2", len(usage))
	}

	ent, food := usage[0], usage[1]
	if ent.Budget.Category != "Entertainment" || food.Budget.Category != "Food" {
		t.Fatalf("unexpected order: %s, %s", ent.Budget.Category, food.Budget.Category)
	}

	if food.WindowStart.String() != "2024-03-15" || food.WindowEnd.String() != "2024-04-14" {
		t.Errorf("food window = %s..%s", food.WindowStart, food.WindowEnd)
	}
	if food.Spent != core.Cents(11000) || food.Remaining != core.Cents(-1000) || !food.OverLimit {
		t.Errorf("food usage = %+v", food)
	}

	if ent.WindowStart.String() != "2024-03-18" || ent.WindowEnd.String() != "2024-03-24" {
		t.Errorf("entertainment window = %s..%s", ent.WindowStart, ent.WindowEnd)
	}
	if !ent.Spent.IsZero() || ent.OverLimit {
		t.Errorf("entertainment usage = %+v", ent)
	}
}
