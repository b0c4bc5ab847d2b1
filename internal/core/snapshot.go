package core

import "fmt"

// TransactionsDocument is the durable form of the transaction collection.
type TransactionsDocument struct {
	Transactions []Transaction `json:"transactions"`
}

// BudgetsDocument is the durable form of the budget collection.
type BudgetsDocument struct {
	Budgets []Budget `json:"budgets"`
}

// Snapshot is a complete copy of the ledger at a point in time.
type Snapshot struct {
	Transactions []Transaction `json:"transactions"`
	Budgets      []Budget      `json:"budgets"`
}

// EmptySnapshot has non-nil collections so that it serialises as [] rather than null.
func EmptySnapshot() Snapshot {
	return Snapshot{Transactions: []Transaction{}, Budgets: []Budget{}}
}

func (s Snapshot) TransactionsDocument() TransactionsDocument {
	return TransactionsDocument{Transactions: nonNil(s.Transactions)}
}

func (s Snapshot) BudgetsDocument() BudgetsDocument {
	return BudgetsDocument{Budgets: nonNil(s.Budgets)}
}

// Normalize replaces nil collections with empty ones.
func (s Snapshot) Normalize() Snapshot {
	return Snapshot{Transactions: nonNil(s.Transactions), Budgets: nonNil(s.Budgets)}
}

// Validate checks every record and id uniqueness within each collection.
func (s Snapshot) Validate() error {
	seen := make(map[string]struct{}, len(s.Transactions))
	for i, tx := range s.Transactions {
		if err := tx.Validate(); err != nil {
			return fmt.Errorf("transaction %d: %w", i, err)
		}
		if _, dup := seen[tx.ID]; dup {
			return fmt.Errorf("transaction %d: %w", i, invalid("id", tx.ID, ErrDuplicateID))
		}
		seen[tx.ID] = struct{}{}
	}
	seen = make(map[string]struct{}, len(s.Budgets))
	for i, b := range s.Budgets {
		if err := b.Validate(); err != nil {
			return fmt.Errorf("budget %d: %w", i, err)
		}
		if _, dup := seen[b.ID]; dup {
			return fmt.Errorf("budget %d: %w", i, invalid("id", b.ID, ErrDuplicateID))
		}
		seen[b.ID] = struct{}{}
	}
	return nil
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
