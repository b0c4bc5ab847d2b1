package main

import (
	"context"
	"flag"
	"fmt"

	"github.com/google/subcommands"

	"ledger/internal/amqp"
)

// --- Backup Command ---

type backupCmd struct {
	app   *app
	queue bool
}

func (*backupCmd) Name() string     { return "backup" }
func (*backupCmd) Synopsis() string { return "upload the ledger to the remote backup" }
func (*backupCmd) Usage() string {
	return `backup [-queue]

  Replaces the remote backup with the current ledger. With -queue the
  request is published for ledger-worker instead.
`
}

func (c *backupCmd) SetFlags(f *flag.FlagSet) {
	f.BoolVar(&c.queue, "queue", false, "Publish a backup request to AMQP instead of uploading")
}

func (c *backupCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	if c.queue {
		req := amqp.NewBackupRequest("cli")
		if err := c.app.publish(ctx, req); err != nil {
			return c.app.fail("publishing backup request", err)
		}
		fmt.Fprintf(c.app.out, "Queued backup request %s\n", req.ID)
		return subcommands.ExitSuccess
	}

	rt, err := c.app.runtime(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}
	s, err := rt.RequireSyncer()
	if err != nil {
		return c.app.fail("uploading", err)
	}
	if err := s.Upload(ctx); err != nil {
		return c.app.fail("uploading", err)
	}
	fmt.Fprintf(c.app.out, "Uploaded %s\n", s.ObjectName())
	return subcommands.ExitSuccess
}

// --- Restore Command ---

type restoreCmd struct {
	app *app
}

func (*restoreCmd) Name() string     { return "restore" }
func (*restoreCmd) Synopsis() string { return "replace the ledger with the remote backup" }
func (*restoreCmd) Usage() string {
	return `restore

  Downloads the remote backup and replaces every local transaction and
  budget with it. The local ledger is unchanged if anything fails.
`
}
func (*restoreCmd) SetFlags(_ *flag.FlagSet) {}

func (c *restoreCmd) Execute(ctx context.Context, _ *flag.FlagSet, _ ...interface{}) subcommands.ExitStatus {
	rt, err := c.app.runtime(ctx)
	if err != nil {
		return c.app.fail("opening ledger", err)
	}
	s, err := rt.RequireSyncer()
	if err != nil {
		return c.app.fail("downloading", err)
	}
	if err := s.Download(ctx); err != nil {
		return c.app.fail("downloading", err)
	}
	fmt.Fprintf(c.app.out, "Restored %d transactions and %d budgets from %s\n",
		len(rt.Ledger.Transactions()), len(rt.Ledger.Budgets()), s.ObjectName())
	return subcommands.ExitSuccess
}
