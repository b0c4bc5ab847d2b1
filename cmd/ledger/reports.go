package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"

	"ledger/internal/core"
)

// --- Totals Command ---

type totalsCmd struct {
	app  *app
	from string
	to   string
}

func (*totalsCmd) Name() string     { return "totals" }
func (*totalsCmd) Synopsis() string { return "net amount per category" }
func (*totalsCmd) Usage() string {
	return `totals [-from <date>] [-to <date>]

  Prints the signed sum per category. With a range, also prints income,
  expenses and net for that range.
`
}

func (c *totalsCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day (YYYY-MM-DD)")
	f.StringVar(&c.to, "to", "", "Last day (YYYY-MM-DD)")
}

func (c *totalsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	start, end, bounded, err := dateRange(c.from, c.to)
	if err != nil {
		return c.app.fail("parsing range", err)
	}
	rt, err := c.app.runtime(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}

	var totals map[string]core.Money
	if bounded {
		totals = rt.Ledger.CategoryTotalsInRange(start, end)
	} else {
		totals = rt.Ledger.TotalsByCategory()
	}

	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(w, "CATEGORY\tTOTAL\t")
	for _, ca := range core.SortedAmounts(totals) {
		fmt.Fprintf(w, "%s\t%s\t\n", ca.Name, ca.Amount)
	}
	w.Flush()

	if bounded {
		s := rt.Ledger.Summary(start, end)
		fmt.Fprintf(c.app.out, "\nIncome %s  Expenses %s  Net %s  (%d transactions)\n",
			s.Income, s.Expenses, s.Net, s.Count)
	}
	return subcommands.ExitSuccess
}

// --- Status Command ---

type statusCmd struct {
	app  *app
	date string
}

func (*statusCmd) Name() string     { return "status" }
func (*statusCmd) Synopsis() string { return "spending against each budget" }
func (*statusCmd) Usage() string {
	return `status [-d <date>]

  For every budget, shows the period containing the date, what was spent
  in it and what remains.
`
}

func (c *statusCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.date, "d", core.Today().String(), "Reference date (YYYY-MM-DD)")
}

func (c *statusCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	asOf, err := core.ParseDate(c.date)
	if err != nil {
		return c.app.fail("parsing date", err)
	}
	rt, err := c.app.runtime(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}
	usage, err := rt.Ledger.BudgetStatus(asOf)
	if err != nil {
		return c.app.fail("computing budget status", err)
	}

	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "CATEGORY\tPERIOD\tWINDOW\tLIMIT\tSPENT\tREMAINING\t")
	for _, u := range usage {
		mark := ""
		if u.OverLimit {
			mark = "over"
		}
		fmt.Fprintf(w, "%s\t%s\t%s..%s\t%s\t%s\t%s\t%s\n",
			u.Budget.Category, u.Budget.Period, u.WindowStart, u.WindowEnd,
			u.Budget.Limit, u.Spent, u.Remaining, mark)
	}
	w.Flush()
	return subcommands.ExitSuccess
}

// --- Categories Command ---

type categoriesCmd struct {
	app    *app
	prefix string
}

func (*categoriesCmd) Name() string     { return "categories" }
func (*categoriesCmd) Synopsis() string { return "list known categories" }
func (*categoriesCmd) Usage() string    { return "categories [-p <prefix>]\n" }

func (c *categoriesCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.prefix, "p", "", "Only categories starting with this prefix")
}

func (c *categoriesCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rt, err := c.app.runtime(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}
	names := rt.Ledger.Categories().Names()
	if c.prefix != "" {
		names = rt.Ledger.Categories().Suggest(c.prefix)
	}
	for _, n := range names {
		fmt.Fprintln(c.app.out, n)
	}
	return subcommands.ExitSuccess
}
