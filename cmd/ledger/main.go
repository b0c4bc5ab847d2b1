// Command ledger records income, expenses and budgets and syncs them to a
// remote backup.
package main

import (
	"context"
	"flag"
	"os"

	"github.com/google/subcommands"

	"ledger/internal/cli"
)

func main() {
	cli.LoadEnvFile()
	bootstrap := cli.SetupLogger(nil)
	cfg := cli.LoadAndValidateConfig(bootstrap.Logger)
	logger := cli.SetupLogger(cfg)

	a := newApp(cfg, logger)
	register(subcommands.DefaultCommander, a)

	flag.Parse()
	ctx := context.Background()
	status := subcommands.Execute(ctx)
	if err := a.close(); err != nil {
		logger.Error("Failed to close ledger", "error", err)
	}
	os.Exit(int(status))
}

// register adds every ledger subcommand to c.
func register(c *subcommands.Commander, a *app) {
	c.Register(c.HelpCommand(), "")
	c.Register(c.FlagsCommand(), "")
	c.Register(c.CommandsCommand(), "")

	c.Register(&addCmd{app: a}, "transactions")
	c.Register(&updateCmd{app: a}, "transactions")
	c.Register(&deleteCmd{app: a}, "transactions")
	c.Register(&listCmd{app: a}, "transactions")

	c.Register(&budgetAddCmd{app: a}, "budgets")
	c.Register(&budgetUpdateCmd{app: a}, "budgets")
	c.Register(&budgetDeleteCmd{app: a}, "budgets")
	c.Register(&budgetsCmd{app: a}, "budgets")

	c.Register(&totalsCmd{app: a}, "reports")
	c.Register(&statusCmd{app: a}, "reports")
	c.Register(&categoriesCmd{app: a}, "reports")

	c.Register(&backupCmd{app: a}, "sync")
	c.Register(&restoreCmd{app: a}, "sync")

	c.Register(&exportCmd{app: a}, "files")
	c.Register(&importCmd{app: a}, "files")
}
