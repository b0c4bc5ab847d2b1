// Package worker runs ledger backups in the background, on request and on a schedule.
package worker

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"ledger/internal/amqp"
	"ledger/internal/core"
	applog "ledger/internal/log"
)

// Ledger is the store the worker backs up. Load re-reads the persisted
// state, which other processes may have changed since the last backup.
type Ledger interface {
	Load(ctx context.Context) error
	Snapshot() core.Snapshot
}

// Uploader pushes the current ledger to the remote store.
type Uploader interface {
	Upload(ctx context.Context) error
}

// BackupWorker serialises backups so that queued requests and scheduled runs
// never upload concurrently.
type BackupWorker struct {
	ledger   Ledger
	uploader Uploader
	logger   *applog.Logger

	mu       sync.Mutex
	lastSent []byte
	lastAt   time.Time
}

func NewBackupWorker(l Ledger, u Uploader, logger *applog.Logger) *BackupWorker {
	if logger == nil {
		logger = applog.New(applog.DefaultConfig())
	}
	return &BackupWorker{
		ledger:   l,
		uploader: u,
		logger:   logger.WithComponent(applog.ComponentWorker),
	}
}

// HandleBackupRequest processes a single backup request from AMQP. Every
// record logged while serving it carries the request id.
func (w *BackupWorker) HandleBackupRequest(ctx context.Context, msg *amqp.BackupRequest) error {
	logger := w.logger.With("request_id", msg.ID)
	ctx = applog.WithContext(ctx, logger)
	logger.InfoContext(ctx, "Processing backup request",
		"source", msg.Source,
		"requested_at", msg.Timestamp)
	_, err := w.Backup(ctx, true)
	return err
}

// Backup reloads the ledger and uploads it. Unless force is set, the upload
// is skipped when nothing changed since the last successful backup.
func (w *BackupWorker) Backup(ctx context.Context, force bool) (bool, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	logger := applog.FromContext(ctx, w.logger)

	if err := w.ledger.Load(ctx); err != nil {
		return false, fmt.Errorf("reload ledger: %w", err)
	}
	current, err := json.Marshal(w.ledger.Snapshot())
	if err != nil {
		return false, fmt.Errorf("encode snapshot: %w", err)
	}
	if !force && w.lastSent != nil && bytes.Equal(current, w.lastSent) {
		logger.DebugContext(ctx, "Ledger unchanged, skipping backup",
			"last_backup", w.lastAt)
		return false, nil
	}

	start := time.Now()
	if err := w.uploader.Upload(ctx); err != nil {
		return false, fmt.Errorf("upload ledger: %w", err)
	}
	w.lastSent = current
	w.lastAt = time.Now()
	logger.InfoContext(ctx, "Backup completed",
		applog.FieldDuration, time.Since(start).Milliseconds(),
		applog.FieldBytes, len(current))
	return true, nil
}

// RunPeriodic backs up every interval until ctx is done. Failures are logged
// and retried on the next tick.
func (w *BackupWorker) RunPeriodic(ctx context.Context, interval time.Duration) error {
	if interval <= 0 {
		return nil
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	w.logger.InfoContext(ctx, "Periodic backup enabled", "interval", interval)
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := w.Backup(ctx, false); err != nil {
				w.logger.ErrorContext(ctx, "Periodic backup failed",
					applog.FieldError, err,
					applog.FieldErrorType, applog.ErrorType(err))
			}
		}
	}
}
