// Package storage provides the durable backends of the ledger. Each backend
// keeps two JSON documents, one per collection, so that a mutation only
// rewrites the collection it touched.
package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"ledger/internal/core"
	"ledger/internal/ledger"
)

// Document names, shared by every backend.
const (
	TransactionsDocument = "transactions"
	BudgetsDocument      = "budgets"
)

var (
	_ ledger.Persister = (*FileStore)(nil)
	_ ledger.Persister = (*SQLiteStore)(nil)
	_ ledger.Persister = (*MemoryStore)(nil)
)

func encodeDocument(v any) ([]byte, error) {
	b, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	return append(b, '\n'), nil
}

func decodeDocument(name string, data []byte, v any) error {
	if len(bytes.TrimSpace(data)) == 0 {
		return fmt.Errorf("document %s is empty", name)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("decode document %s: %w", name, err)
	}
	return nil
}

// loadDocuments decodes and validates each raw document on its own. A nil
// document is an empty collection. A document that fails is handed to
// setAside and reported as a *core.CorruptDocumentError, while the returned
// snapshot keeps every collection that loaded. When setAside itself fails
// the corrupt document is still in place, so a plain error is returned
// instead.
func loadDocuments(txData, budgetData []byte, setAside func(name string) error) (core.Snapshot, bool, error) {
	if txData == nil && budgetData == nil {
		return core.Snapshot{}, false, nil
	}

	snap := core.EmptySnapshot()
	var errs []error
	reject := func(name string, err error) error {
		if aerr := setAside(name); aerr != nil {
			return fmt.Errorf("set aside corrupt document %s: %w", name, aerr)
		}
		errs = append(errs, &core.CorruptDocumentError{Document: name, Err: err})
		return nil
	}

	if txData != nil {
		var doc core.TransactionsDocument
		err := decodeDocument(TransactionsDocument, txData, &doc)
		if err == nil {
			err = core.Snapshot{Transactions: doc.Transactions}.Validate()
		}
		if err == nil {
			snap.Transactions = doc.Transactions
		} else if rerr := reject(TransactionsDocument, err); rerr != nil {
			return core.Snapshot{}, false, rerr
		}
	}
	if budgetData != nil {
		var doc core.BudgetsDocument
		err := decodeDocument(BudgetsDocument, budgetData, &doc)
		if err == nil {
			err = core.Snapshot{Budgets: doc.Budgets}.Validate()
		}
		if err == nil {
			snap.Budgets = doc.Budgets
		} else if rerr := reject(BudgetsDocument, err); rerr != nil {
			return core.Snapshot{}, false, rerr
		}
	}
	return snap.Normalize(), true, errors.Join(errs...)
}
