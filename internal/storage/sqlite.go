package storage

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"ledger/internal/core"
	applog "ledger/internal/log"

	_ "modernc.org/sqlite"
)

const upsertDocument = `INSERT INTO documents (name, body, updated_at) VALUES (?, ?, ?)
ON CONFLICT(name) DO UPDATE SET body = excluded.body, updated_at = excluded.updated_at`

// SQLiteStore keeps one row per document in a SQLite database.
type SQLiteStore struct {
	db     *sql.DB
	logger *slog.Logger
	now    func() time.Time
}

func NewSQLiteStore(dbPath string, logger *slog.Logger) (*SQLiteStore, error) {
	if err := os.MkdirAll(filepath.Dir(dbPath), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}
	// SQLite allows a single writer.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(dbPath); err != nil {
		db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	if logger == nil {
		logger = slog.Default()
	}
	return &SQLiteStore{
		db:     db,
		logger: logger.With(applog.FieldComponent, applog.ComponentStorage, applog.FieldBackend, "sqlite"),
		now:    time.Now,
	}, nil
}

func (s *SQLiteStore) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *SQLiteStore) SaveTransactions(ctx context.Context, doc core.TransactionsDocument) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	return s.put(ctx, s.db, TransactionsDocument, data)
}

func (s *SQLiteStore) SaveBudgets(ctx context.Context, doc core.BudgetsDocument) error {
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	return s.put(ctx, s.db, BudgetsDocument, data)
}

// Replace writes both documents in one SQL transaction.
func (s *SQLiteStore) Replace(ctx context.Context, snap core.Snapshot) error {
	txData, err := encodeDocument(snap.TransactionsDocument())
	if err != nil {
		return err
	}
	budgetData, err := encodeDocument(snap.BudgetsDocument())
	if err != nil {
		return err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := s.put(ctx, tx, TransactionsDocument, txData); err != nil {
		return err
	}
	if err := s.put(ctx, tx, BudgetsDocument, budgetData); err != nil {
		return err
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace: %w", err)
	}
	s.logger.DebugContext(ctx, "Documents replaced",
		"transactions", len(snap.Transactions),
		"budgets", len(snap.Budgets))
	return nil
}

// Load reads both documents. A document that cannot be decoded or fails
// validation is renamed to <name>.corrupt-<unix> in the documents table; the
// collections that loaded are returned together with the error.
func (s *SQLiteStore) Load(ctx context.Context) (core.Snapshot, bool, error) {
	docs, err := s.readDocuments(ctx)
	if err != nil {
		return core.Snapshot{}, false, err
	}
	return loadDocuments(docs[TransactionsDocument], docs[BudgetsDocument], func(name string) error {
		return s.moveAside(ctx, name)
	})
}

// readDocuments returns every stored document by name. The rows are closed
// before it returns, which frees the single connection for later writes.
func (s *SQLiteStore) readDocuments(ctx context.Context) (map[string][]byte, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT name, body FROM documents`)
	if err != nil {
		return nil, fmt.Errorf("query documents: %w", err)
	}
	defer rows.Close()

	docs := make(map[string][]byte, 2)
	for rows.Next() {
		var name, body string
		if err := rows.Scan(&name, &body); err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs[name] = []byte(body)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate documents: %w", err)
	}
	return docs, nil
}

func (s *SQLiteStore) moveAside(ctx context.Context, name string) error {
	dst := name + ".corrupt-" + strconv.FormatInt(s.now().Unix(), 10)
	if _, err := s.db.ExecContext(ctx, `UPDATE documents SET name = ? WHERE name = ?`, dst, name); err != nil {
		s.logger.ErrorContext(ctx, "Failed to move corrupt document aside",
			applog.FieldDocument, name,
			applog.FieldError, err)
		return err
	}
	s.logger.WarnContext(ctx, "Corrupt document moved aside", applog.FieldDocument, dst)
	return nil
}

type execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

func (s *SQLiteStore) put(ctx context.Context, db execer, name string, data []byte) error {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	if _, err := db.ExecContext(ctx, upsertDocument, name, string(data), now); err != nil {
		return fmt.Errorf("save %s: %w", name, err)
	}
	return nil
}
