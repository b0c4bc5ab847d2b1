package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/google/subcommands"

	"ledger/internal/amqp"
	"ledger/internal/cli"
	"ledger/internal/config"
	"ledger/internal/core"
	applog "ledger/internal/log"
)

// app carries what every subcommand shares. As a short lived CLI it opens
// the ledger once, on first use.
type app struct {
	cfg    *config.Config
	logger *applog.Logger
	out    io.Writer
	errOut io.Writer

	rt *cli.Runtime

	// publish sends a backup request to the queue. Replaced in tests.
	publish func(ctx context.Context, req *amqp.BackupRequest) error
}

func newApp(cfg *config.Config, logger *applog.Logger) *app {
	a := &app{cfg: cfg, logger: logger, out: os.Stdout, errOut: os.Stderr}
	a.publish = a.publishAMQP
	return a
}

func (a *app) runtime(ctx context.Context) (*cli.Runtime, error) {
	if a.rt != nil {
		return a.rt, nil
	}
	rt, err := cli.Open(ctx, a.cfg, a.logger)
	if err != nil {
		return nil, err
	}
	a.rt = rt
	return rt, nil
}

func (a *app) close() error {
	if a.rt == nil {
		return nil
	}
	return a.rt.Close()
}

func (a *app) publishAMQP(ctx context.Context, req *amqp.BackupRequest) error {
	if a.cfg.AMQPURL == "" {
		return fmt.Errorf("AMQP_URL is not set")
	}
	client, err := amqp.NewClient(a.cfg.AMQPURL, a.cfg.AMQPExchange, a.cfg.AMQPQueue, a.logger.Logger)
	if err != nil {
		return err
	}
	defer client.Close()
	return client.PublishBackupRequest(ctx, req)
}

// fail reports err and maps it to an exit status. Validation problems are
// usage errors.
func (a *app) fail(what string, err error) subcommands.ExitStatus {
	fmt.Fprintf(a.errOut, "Error %s: %v\n", what, err)
	if applog.ErrorType(err) == applog.ErrorTypeValidation {
		return subcommands.ExitUsageError
	}
	return subcommands.ExitFailure
}

// optString is a flag that remembers whether it was given, so that update
// commands only touch the fields the user named.
type optString struct{ v *string }

func (o *optString) String() string {
	if o == nil || o.v == nil {
		return ""
	}
	return *o.v
}

func (o *optString) Set(s string) error {
	o.v = &s
	return nil
}

// dateRange parses optional -from and -to flags. A missing bound is open.
func dateRange(from, to string) (start, end core.Date, bounded bool, err error) {
	if from == "" && to == "" {
		return core.Date{}, core.Date{}, false, nil
	}
	start = core.NewDate(1, 1, 1)
	end = core.NewDate(9999, 12, 31)
	if from != "" {
		if start, err = core.ParseDate(from); err != nil {
			return
		}
	}
	if to != "" {
		if end, err = core.ParseDate(to); err != nil {
			return
		}
	}
	return start, end, true, nil
}
