package main

import (
	"context"
	"flag"
	"fmt"
	"strings"
	"text/tabwriter"

	"github.com/google/subcommands"

	"ledger/internal/core"
)

// --- Add Command ---

type addCmd struct {
	app         *app
	amount      string
	category    string
	date        string
	description string
	notes       string
}

func (*addCmd) Name() string     { return "add" }
func (*addCmd) Synopsis() string { return "record an income or an expense" }
func (*addCmd) Usage() string {
	return `add -a <amount> -c <category> [-d <date>] [-m <description>] [-n <notes>]

  Records a transaction. Positive amounts are income, negative amounts are expenses.
`
}

func (c *addCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.amount, "a", "", "Signed amount, e.g. -42.50 for an expense")
	f.StringVar(&c.category, "c", "", "Category")
	f.StringVar(&c.date, "d", core.Today().String(), "Transaction date (YYYY-MM-DD)")
	f.StringVar(&c.description, "m", "", "Optional description")
	f.StringVar(&c.notes, "n", "", "Optional notes")
}

func (c *addCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.amount == "" || c.category == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	rt, err := c.app.runtime(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}

	fields := core.TransactionFields{
		Amount:   &c.amount,
		Category: &c.category,
		Date:     &c.date,
	}
	if c.description != "" {
		fields.Description = &c.description
	}
	if c.notes != "" {
		fields.Notes = &c.notes
	}

	tx, err := rt.Ledger.AddTransaction(ctx, fields)
	if err != nil && tx.ID == "" {
		return c.app.fail("adding transaction", err)
	}
	fmt.Fprintf(c.app.out, "Added %s %s %s %s\n", tx.ID, tx.Date, tx.Amount, tx.Category)
	if err != nil {
		return c.app.fail("saving transaction", err)
	}
	return subcommands.ExitSuccess
}

// --- Update Command ---

type updateCmd struct {
	app         *app
	amount      optString
	category    optString
	date        optString
	description optString
	notes       optString
}

func (*updateCmd) Name() string     { return "update" }
func (*updateCmd) Synopsis() string { return "change fields of a transaction" }
func (*updateCmd) Usage() string {
	return `update [-a <amount>] [-c <category>] [-d <date>] [-m <description>] [-n <notes>] <id>

  Replaces only the fields given on the command line.
`
}

func (c *updateCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.amount, "a", "Signed amount")
	f.Var(&c.category, "c", "Category")
	f.Var(&c.date, "d", "Transaction date (YYYY-MM-DD)")
	f.Var(&c.description, "m", "Description, empty to clear")
	f.Var(&c.notes, "n", "Notes, empty to clear")
}

func (c *updateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	fields := core.TransactionFields{
		Amount:      c.amount.v,
		Category:    c.category.v,
		Date:        c.date.v,
		Description: c.description.v,
		Notes:       c.notes.v,
	}
	if fields.IsEmpty() {
		fmt.Fprintln(c.app.errOut, "Nothing to update")
		return subcommands.ExitUsageError
	}
	rt, err := c.app.runtime(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}

	tx, err := rt.Ledger.UpdateTransaction(ctx, f.Arg(0), fields)
	if err != nil && tx.ID == "" {
		return c.app.fail("updating transaction", err)
	}
	fmt.Fprintf(c.app.out, "Updated %s %s %s %s\n", tx.ID, tx.Date, tx.Amount, tx.Category)
	if err != nil {
		return c.app.fail("saving transaction", err)
	}
	return subcommands.ExitSuccess
}

// --- Delete Command ---

type deleteCmd struct {
	app *app
}

func (*deleteCmd) Name() string             { return "delete" }
func (*deleteCmd) Synopsis() string         { return "remove a transaction" }
func (*deleteCmd) Usage() string            { return "delete <id>\n" }
func (*deleteCmd) SetFlags(_ *flag.FlagSet) {}

func (c *deleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	rt, err := c.app.runtime(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}
	if err := rt.Ledger.DeleteTransaction(ctx, f.Arg(0)); err != nil {
		return c.app.fail("deleting transaction", err)
	}
	fmt.Fprintf(c.app.out, "Deleted %s\n", f.Arg(0))
	return subcommands.ExitSuccess
}

// --- List Command ---

type listCmd struct {
	app      *app
	from     string
	to       string
	category string
}

func (*listCmd) Name() string     { return "list" }
func (*listCmd) Synopsis() string { return "list transactions" }
func (*listCmd) Usage() string {
	return `list [-from <date>] [-to <date>] [-c <category>]

  Lists transactions ordered by date. Bounds are inclusive.
`
}

func (c *listCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.from, "from", "", "First day (YYYY-MM-DD)")
	f.StringVar(&c.to, "to", "", "Last day (YYYY-MM-DD)")
	f.StringVar(&c.category, "c", "", "Only this category")
}

func (c *listCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	txs, status := c.app.transactions(ctx, c.from, c.to)
	if status != subcommands.ExitSuccess {
		return status
	}

	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tDATE\tAMOUNT\tCATEGORY\tDESCRIPTION")
	for _, tx := range txs {
		if c.category != "" && !strings.EqualFold(tx.Category, c.category) {
			continue
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", tx.ID, tx.Date, tx.Amount, tx.Category, tx.Description)
	}
	w.Flush()
	return subcommands.ExitSuccess
}

// transactions returns the transactions within the optional bounds in
// display order.
func (a *app) transactions(ctx context.Context, from, to string) ([]core.Transaction, subcommands.ExitStatus) {
	start, end, bounded, err := dateRange(from, to)
	if err != nil {
		return nil, a.fail("parsing range", err)
	}
	rt, err := a.runtime(ctx)
	if err != nil {
		return nil, a.fail("opening ledger", err)
	}
	if !bounded {
		start, end = core.NewDate(1, 1, 1), core.NewDate(9999, 12, 31)
	}
	return rt.Ledger.TransactionsInRange(start, end), subcommands.ExitSuccess
}
