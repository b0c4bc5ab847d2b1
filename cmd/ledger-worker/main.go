// Command ledger-worker uploads the ledger to the remote backup when asked
// to over AMQP and, optionally, on a fixed interval.
package main

import (
	"context"
	"errors"
	"os"
	"time"

	"golang.org/x/sync/errgroup"

	"ledger/internal/amqp"
	"ledger/internal/cli"
	applog "ledger/internal/log"
	"ledger/internal/worker"
)

func main() {
	cli.LoadEnvFile()
	bootstrap := cli.SetupLogger(nil)
	cfg := cli.LoadAndValidateConfig(bootstrap.Logger)
	logger := cli.SetupLogger(cfg)

	logger.Info("Starting ledger-worker",
		applog.FieldBackend, cfg.LedgerBackend,
		"remote", cfg.RemoteBackend)

	if cfg.AMQPURL == "" && cfg.AutoBackupInterval == 0 {
		logger.Error("Nothing to do: set AMQP_URL or AUTO_BACKUP_INTERVAL")
		os.Exit(1)
	}

	rt, err := cli.Open(context.Background(), cfg, logger)
	if err != nil {
		logger.Error("Failed to open ledger", applog.FieldError, err)
		os.Exit(1)
	}
	defer rt.Close()

	syncer, err := rt.RequireSyncer()
	if err != nil {
		logger.Error("Backups need a remote", applog.FieldError, err)
		os.Exit(1)
	}

	var amqpClient *amqp.Client
	if cfg.AMQPURL != "" {
		amqpClient, err = amqp.NewClient(cfg.AMQPURL, cfg.AMQPExchange, cfg.AMQPQueue, logger.Logger)
		if err != nil {
			logger.Error("Failed to initialize AMQP client", applog.FieldError, err)
			os.Exit(1)
		}
		defer amqpClient.Close()
	} else {
		logger.Info("AMQP disabled - no AMQP_URL provided")
	}

	ctx, done := cli.GracefulShutdown(logger.Logger, 30*time.Second, nil)

	backups := worker.NewBackupWorker(rt.Ledger, syncer, logger)

	// Catch up on changes made while the worker was down.
	if _, err := backups.Backup(ctx, false); err != nil {
		logger.Error("Startup backup failed", applog.FieldError, err, applog.FieldErrorType, applog.ErrorType(err))
	}

	g, gctx := errgroup.WithContext(ctx)
	if amqpClient != nil {
		g.Go(func() error {
			err := amqpClient.ConsumeBackupRequests(gctx, backups.HandleBackupRequest)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		})
	}
	if cfg.AutoBackupInterval > 0 {
		g.Go(func() error {
			return backups.RunPeriodic(gctx, cfg.AutoBackupInterval)
		})
	}

	if err := g.Wait(); err != nil {
		logger.Error("Worker stopped", applog.FieldError, err)
		rt.Close()
		os.Exit(1)
	}
	<-done
	logger.Info("Worker shutdown complete")
}
