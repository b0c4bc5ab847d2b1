package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/google/subcommands"

	"ledger/internal/export"
)

// --- Export Command ---

type exportCmd struct {
	app    *app
	format string
	from   string
	to     string
	output string
}

func (*exportCmd) Name() string     { return "export" }
func (*exportCmd) Synopsis() string { return "write transactions as CSV, YAML or JSON" }
func (*exportCmd) Usage() string {
	return `export [-f csv|yaml|json] [-from <date>] [-to <date>] [-o <file>]
`
}

func (c *exportCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "f", string(export.FormatCSV), "Output format: csv, yaml or json")
	f.StringVar(&c.from, "from", "", "First day (YYYY-MM-DD)")
	f.StringVar(&c.to, "to", "", "Last day (YYYY-MM-DD)")
	f.StringVar(&c.output, "o", "", "Output file, stdout when empty")
}

func (c *exportCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	format, err := export.ParseFormat(c.format)
	if err != nil {
		fmt.Fprintln(c.app.errOut, err)
		return subcommands.ExitUsageError
	}
	txs, status := c.app.transactions(ctx, c.from, c.to)
	if status != subcommands.ExitSuccess {
		return status
	}

	var w io.Writer = c.app.out
	if c.output != "" {
		f, err := os.Create(c.output)
		if err != nil {
			return c.app.fail("creating output file", err)
		}
		defer f.Close()
		w = f
	}
	if err := export.Transactions(w, format, txs); err != nil {
		return c.app.fail("exporting", err)
	}
	return subcommands.ExitSuccess
}

// --- Import Command ---

type importCmd struct {
	app    *app
	format string
}

func (*importCmd) Name() string     { return "import" }
func (*importCmd) Synopsis() string { return "load a JSON snapshot or append CSV transactions" }
func (*importCmd) Usage() string {
	return `import [-f json|csv] <file>

  json replaces the whole ledger with a backup or snapshot file.
  csv appends the rows as new transactions.
`
}

func (c *importCmd) SetFlags(f *flag.FlagSet) {
	f.StringVar(&c.format, "f", string(export.FormatJSON), "Input format: json or csv")
}

func (c *importCmd) Execute(ctx context.Context, f *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if f.NArg() != 1 {
		f.Usage()
		return subcommands.ExitUsageError
	}
	format, err := export.ParseFormat(c.format)
	if err != nil || format == export.FormatYAML {
		fmt.Fprintf(c.app.errOut, "Unsupported import format %q\n", c.format)
		return subcommands.ExitUsageError
	}

	in, err := os.Open(f.Arg(0))
	if err != nil {
		return c.app.fail("opening input", err)
	}
	defer in.Close()

	rt, err := c.app.runtime(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}

	if format == export.FormatJSON {
		snap, err := export.ImportSnapshot(ctx, in, rt.Ledger)
		if err != nil {
			return c.app.fail("importing snapshot", err)
		}
		fmt.Fprintf(c.app.out, "Imported %d transactions and %d budgets\n", len(snap.Transactions), len(snap.Budgets))
		return subcommands.ExitSuccess
	}

	rows, err := export.ReadCSV(in)
	if err != nil {
		return c.app.fail("reading CSV", err)
	}
	// Rows are validated up front so a bad line adds nothing.
	for i, row := range rows {
		if _, err := row.Build("check", time.Now()); err != nil {
			return c.app.fail(fmt.Sprintf("validating row %d", i+2), err)
		}
	}
	var errs []error
	for _, row := range rows {
		if _, err := rt.Ledger.AddTransaction(ctx, row); err != nil {
			errs = append(errs, err)
		}
	}
	if err := errors.Join(errs...); err != nil {
		return c.app.fail("saving imported transactions", err)
	}
	fmt.Fprintf(c.app.out, "Imported %d transactions\n", len(rows))
	return subcommands.ExitSuccess
}
