package main

import (
	"context"
	"flag"
	"fmt"
	"text/tabwriter"

	"github.com/google/subcommands"

	"ledger/internal/core"
)

// --- Budget Add Command ---

type budgetAddCmd struct {
	app         *app
	category    string
	period      string
	limit       string
	start       string
	description string
}

func (*budgetAddCmd) Name() string     { return "budget-add" }
func (*budgetAddCmd) Synopsis() string { return "set a spending limit for a category" }
func (*budgetAddCmd) Usage() string {
	return `budget-add -c <category> -l <limit> [-p daily|weekly|monthly|yearly] [-s <start date>] [-m <description>]

  Creates a budget. Periods are anchored on the start date.
`
}

func (c *budgetAddCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.category, "c", "", "Category the limit applies to")
	f.StringVar(&c.period, "p", string(core.Monthly), "Period: daily, weekly, monthly or yearly")
	f.StringVar(&c.limit, "l", "", "Positive limit per period")
	f.StringVar(&c.start, "s", core.Today().String(), "Start date (YYYY-MM-DD)")
	f.StringVar(&c.description, "m", "", "Optional description")
}

func (c *budgetAddCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.category == "" || c.limit == "" {
		f.Usage()
		return subcommands.ExitUsageError
	}
	rt, err := c.app.runtime(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}

	fields := core.BudgetFields{
		Category:  &c.category,
		Period:    &c.period,
		Limit:     &c.limit,
		StartDate: &c.start,
	}
	if c.description != "" {
		fields.Description = &c.description
	}
	b, err := rt.Ledger.AddBudget(ctx, fields)
	if err != nil && b.ID == "" {
		return c.app.fail("adding budget", err)
	}
	fmt.Fprintf(c.app.out, "Added budget %s %s %s %s\n", b.ID, b.Category, b.Period, b.Limit)
	if err != nil {
		return c.app.fail("saving budget", err)
	}
	return subcommands.ExitSuccess
}

// --- Budget Update Command ---

type budgetUpdateCmd struct {
	app         *app
	category    optString
	period      optString
	limit       optString
	start       optString
	description optString
}

func (*budgetUpdateCmd) Name() string     { return "budget-update" }
func (*budgetUpdateCmd) Synopsis() string { return "change fields of a budget" }
func (*budgetUpdateCmd) Usage() string {
	return `budget-update [-c <category>] [-p <period>] [-l <limit>] [-s <start date>] [-m <description>] <id>
`
}

func (c *budgetUpdateCmd) SetFlags(f *flag.FlagSet) {
	f.Var(&c.category, "c", "Category")
	f.Var(&c.period, "p", "Period")
	f.Var(&c.limit, "l", "Limit")
	f.Var(&c.start, "s", "Start date")
	f.Var(&c.description, "m", "Description, empty to clear")
}

func (c *budgetUpdateCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	fields := core.BudgetFields{
		Category:    c.category.v,
		Period:      c.period.v,
		Limit:       c.limit.v,
		StartDate:   c.start.v,
		Description: c.description.v,
	}
	if fields.IsEmpty() {
		fmt.Fprintln(c.app.errOut, "Nothing to update")
		return subcommands.ExitUsageError
	}
	rt, err := c.app.runtime(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}

	b, err := rt.Ledger.UpdateBudget(ctx, f.Arg(0), fields)
	if err != nil && b.ID == "" {
		return c.app.fail("updating budget", err)
	}
	fmt.Fprintf(c.app.out, "Updated budget %s %s %s %s\n", b.ID, b.Category, b.Period, b.Limit)
	if err != nil {
		return c.app.fail("saving budget", err)
	}
	return subcommands.ExitSuccess
}

// --- Budget Delete Command ---

type budgetDeleteCmd struct {
	app *app
}

func (*budgetDeleteCmd) Name() string             { return "budget-delete" }
func (*budgetDeleteCmd) Synopsis() string         { return "remove a budget" }
func (*budgetDeleteCmd) Usage() string            { return "budget-delete <id>\n" }
func (*budgetDeleteCmd) SetFlags(_ *flag.FlagSet) {}

func (c *budgetDeleteCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	rt, err := c.app.runtime(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}
	if err := rt.Ledger.DeleteBudget(ctx, f.Arg(0)); err != nil {
		return c.app.fail("deleting budget", err)
	}
	fmt.Fprintf(c.app.out, "Deleted budget %s\n", f.Arg(0))
	return subcommands.ExitSuccess
}

// --- Budgets Command ---

type budgetsCmd struct {
	app *app
}

func (*budgetsCmd) Name() string             { return "budgets" }
func (*budgetsCmd) Synopsis() string         { return "list budgets" }
func (*budgetsCmd) Usage() string            { return "budgets\n" }
func (*budgetsCmd) SetFlags(_ *flag.FlagSet) {}

func (c *budgetsCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rt, err := c.app.runtime(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}
	w := tabwriter.NewWriter(c.app.out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tCATEGORY\tPERIOD\tLIMIT\tSTART")
	for _, b := range rt.Ledger.Budgets() {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", b.ID, b.Category, b.Period, b.Limit, b.StartDate)
	}
	w.Flush()
	return subcommands.ExitSuccess
}
