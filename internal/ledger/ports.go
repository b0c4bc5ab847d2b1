package ledger

import (
	"context"

	"ledger/internal/core"
)

// Persister is the durable side of the store. Implementations must make each
// call all-or-nothing: a failed save leaves the previously saved document in
// place.
type Persister interface {
	// SaveTransactions replaces the persisted transactions document.
	SaveTransactions(ctx context.Context, doc core.TransactionsDocument) error
	// SaveBudgets replaces the persisted budgets document.
	SaveBudgets(ctx context.Context, doc core.BudgetsDocument) error
	// Replace writes both documents.
	Replace(ctx context.Context, snap core.Snapshot) error
	// Load returns the last saved state. found is false when nothing was
	// ever saved. A document that is unreadable as a collection is set
	// aside and reported as *core.CorruptDocumentError next to the
	// collections that did load.
	Load(ctx context.Context) (snap core.Snapshot, found bool, err error)
}
