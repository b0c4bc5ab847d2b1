package storage

import (
	"context"
	"sync"

	"ledger/internal/core"
)

// MemoryStore keeps encoded documents in process memory. Documents go
// through the same JSON encoding as the durable backends, so callers never
// share slices with it.
type MemoryStore struct {
	mu   sync.Mutex
	docs map[string][]byte

	// FailWith, when set, makes every save return it.
	FailWith error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{docs: make(map[string][]byte)}
}

func (m *MemoryStore) SaveTransactions(ctx context.Context, doc core.TransactionsDocument) error {
	return m.put(ctx, TransactionsDocument, doc)
}

func (m *MemoryStore) SaveBudgets(ctx context.Context, doc core.BudgetsDocument) error {
	return m.put(ctx, BudgetsDocument, doc)
}

func (m *MemoryStore) Replace(ctx context.Context, snap core.Snapshot) error {
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

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.docs[TransactionsDocument] = txData
	m.docs[BudgetsDocument] = budgetData
	return nil
}

func (m *MemoryStore) Load(ctx context.Context) (core.Snapshot, bool, error) {
	if err := ctx.Err(); err != nil {
		return core.Snapshot{}, false, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	return loadDocuments(m.docs[TransactionsDocument], m.docs[BudgetsDocument], func(name string) error {
		m.docs[name+".corrupt"] = m.docs[name]
		delete(m.docs, name)
		return nil
	})
}

func (m *MemoryStore) put(ctx context.Context, name string, doc any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := encodeDocument(doc)
	if err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.FailWith != nil {
		return m.FailWith
	}
	m.docs[name] = data
	return nil
}
