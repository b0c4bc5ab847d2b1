package storage

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"sync"
	"time"

	"ledger/internal/core"
	applog "ledger/internal/log"
)

// FileStore keeps each document as <name>.json inside a data directory.
type FileStore struct {
	mu     sync.Mutex
	dir    string
	logger *slog.Logger

	now    func() time.Time
	rename func(oldpath, newpath string) error
}

// NewFileStore creates dir if needed.
func NewFileStore(dir string, logger *slog.Logger) (*FileStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &FileStore{
		dir:    dir,
		logger: logger.With(applog.FieldComponent, applog.ComponentStorage, applog.FieldBackend, "file"),
		now:    time.Now,
		rename: os.Rename,
	}, nil
}

// Dir returns the data directory.
func (s *FileStore) Dir() string { return s.dir }

func (s *FileStore) path(name string) string {
	return filepath.Join(s.dir, name+".json")
}

func (s *FileStore) SaveTransactions(ctx context.Context, doc core.TransactionsDocument) error {
	return s.save(ctx, TransactionsDocument, doc)
}

func (s *FileStore) SaveBudgets(ctx context.Context, doc core.BudgetsDocument) error {
	return s.save(ctx, BudgetsDocument, doc)
}

func (s *FileStore) save(ctx context.Context, name string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.writeFile(name, data)
}

// Replace writes both documents. If the second write fails the first one is
// rolled back to its previous content.
func (s *FileStore) Replace(ctx context.Context, snap core.Snapshot) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	txData, err := encodeDocument(snap.TransactionsDocument())
	if err != nil {
		return err
	}
	budgetData, err := encodeDocument(snap.BudgetsDocument())
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	prev, err := os.ReadFile(s.path(TransactionsDocument))
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("read %s: %w", TransactionsDocument, err)
	}
	hadPrev := err == nil

	if err := s.writeFile(TransactionsDocument, txData); err != nil {
		return err
	}
	if err := s.writeFile(BudgetsDocument, budgetData); err != nil {
		var rbErr error
		if hadPrev {
			rbErr = s.writeFile(TransactionsDocument, prev)
		} else {
			rbErr = os.Remove(s.path(TransactionsDocument))
		}
		if rbErr != nil {
			s.logger.Error("Failed to roll back transactions document", applog.FieldError, rbErr)
		}
		return err
	}
	return nil
}

// Load reads both documents. A document that cannot be decoded or fails
// validation is moved aside to <name>.json.corrupt-<unix>; the collections
// that loaded are returned together with the error.
func (s *FileStore) Load(ctx context.Context) (core.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return core.Snapshot{}, false, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()

	txData, err := s.readFile(TransactionsDocument)
	if err != nil {
		return core.Snapshot{}, false, err
	}
	budgetData, err := s.readFile(BudgetsDocument)
	if err != nil {
		return core.Snapshot{}, false, err
	}

	snap, found, err := loadDocuments(txData, budgetData, s.moveAside)
	if found {
		s.logger.Debug("Documents loaded",
			applog.FieldPath, s.dir,
			"transactions", len(snap.Transactions),
			"budgets", len(snap.Budgets))
	}
	return snap, found, err
}

// readFile returns nil, nil when the document does not exist.
func (s *FileStore) readFile(name string) ([]byte, error) {
	data, err := os.ReadFile(s.path(name))
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", name, err)
	}
	return data, nil
}

func (s *FileStore) moveAside(name string) error {
	src := s.path(name)
	dst := src + ".corrupt-" + strconv.FormatInt(s.now().Unix(), 10)
	if err := s.rename(src, dst); err != nil {
		s.logger.Error("Failed to move corrupt document aside",
			applog.FieldPath, src,
			applog.FieldError, err)
		return err
	}
	s.logger.Warn("Corrupt document moved aside", applog.FieldPath, dst)
	return nil
}

// writeFile replaces a document atomically: write a temp file in the same
// directory, fsync it, then rename it over the target.
func (s *FileStore) writeFile(name string, data []byte) (err error) {
	tmp, err := os.CreateTemp(s.dir, name+".*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", name, err)
	}
	defer func() {
		if err != nil {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err = tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", name, err)
	}
	if err = tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", name, err)
	}
	if err = tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", name, err)
	}
	if err = s.rename(tmp.Name(), s.path(name)); err != nil {
		return fmt.Errorf("replace %s: %w", name, err)
	}
	return nil
}
