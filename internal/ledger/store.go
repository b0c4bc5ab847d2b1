// Package ledger holds the authoritative in-memory ledger and its derived views.
package ledger

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"ledger/internal/cache"
	"ledger/internal/core"
	applog "ledger/internal/log"
)

// ErrNotLoaded is returned by mutations after Load failed to read the
// persisted ledger.
var ErrNotLoaded = errors.New("ledger not loaded, restore it before making changes")

const (
	kindTransaction = "transaction"
	kindBudget      = "budget"

	queryCacheSize = 64
)

// Options tune a Store. Zero values select the defaults.
type Options struct {
	Clock      func() time.Time
	NewID      func() string
	Categories *core.CategoryRegistry
	Logger     *slog.Logger
}

// Store owns the transactions and budgets of one ledger. Every mutation runs
// under a single store-wide lock: validate, mutate, then flush the changed
// collection to the Persister before the lock is released.
type Store struct {
	mu        sync.RWMutex
	persister Persister
	clock     func() time.Time
	newID     func() string
	cats      *core.CategoryRegistry
	log       *slog.Logger

	transactions []core.Transaction
	budgets      []core.Budget
	issued       map[string]struct{}
	// loadErr is set when the persisted state could not be read.
	loadErr error

	rangeCache  *cache.LRUCache[[]core.Transaction]
	totalsCache *cache.LRUCache[map[string]core.Money]
}

// New creates an empty store backed by p. A nil Persister keeps the ledger
// in memory only.
func New(p Persister, opts Options) *Store {
	s := &Store{
		persister:   p,
		clock:       opts.Clock,
		newID:       opts.NewID,
		cats:        opts.Categories,
		log:         opts.Logger,
		issued:      make(map[string]struct{}),
		rangeCache:  cache.NewLRUCache[[]core.Transaction](queryCacheSize),
		totalsCache: cache.NewLRUCache[map[string]core.Money](1),
	}
	if s.clock == nil {
		s.clock = time.Now
	}
	if s.newID == nil {
		s.newID = uuid.NewString
	}
	if s.cats == nil {
		s.cats = core.NewCategoryRegistry()
	}
	if s.log == nil {
		s.log = slog.Default()
	}
	s.log = s.log.With(applog.FieldComponent, applog.ComponentStore)
	if p == nil {
		s.log.Debug("No persister configured, ledger is memory only")
	}
	return s
}

// Categories returns the category suggestion registry.
func (s *Store) Categories() *core.CategoryRegistry { return s.cats }

// Load replaces the in-memory state with the persisted one.
//
// When the persister set corrupt documents aside, the collections that did
// load are kept and a *core.PersistenceError wrapping the
// *core.CorruptDocumentError is returned. Any other failure leaves the store
// empty and refuses mutations with ErrNotLoaded until Load or Restore
// succeeds, so nothing overwrites state that could not be read.
func (s *Store) Load(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.reset(core.EmptySnapshot())
	s.loadErr = nil
	if s.persister == nil {
		return nil
	}

	snap, found, err := s.persister.Load(ctx)
	var corrupt *core.CorruptDocumentError
	if err != nil && !errors.As(err, &corrupt) {
		s.loadErr = err
		s.log.ErrorContext(ctx, "Failed to load ledger, changes are blocked until restore", applog.FieldError, err)
		return &core.PersistenceError{Op: applog.OpLoad, Err: err}
	}
	if !found {
		s.log.InfoContext(ctx, "No saved ledger found, starting empty")
		return nil
	}
	if verr := snap.Validate(); verr != nil {
		s.loadErr = verr
		s.log.ErrorContext(ctx, "Saved ledger is invalid, changes are blocked until restore", applog.FieldError, verr)
		return &core.PersistenceError{Op: applog.OpLoad, Err: verr}
	}

	s.reset(snap.Normalize())
	if err != nil {
		s.log.WarnContext(ctx, "Ledger loaded without its corrupt documents",
			"transactions", len(s.transactions),
			"budgets", len(s.budgets),
			applog.FieldError, err)
		return &core.PersistenceError{Op: applog.OpLoad, Err: err}
	}
	s.log.InfoContext(ctx, "Ledger loaded",
		"transactions", len(s.transactions),
		"budgets", len(s.budgets))
	return nil
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() core.Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return core.Snapshot{
		Transactions: slices.Clone(s.transactions),
		Budgets:      slices.Clone(s.budgets),
	}.Normalize()
}

// Restore replaces the whole ledger with snap. The snapshot is validated and
// persisted first; the in-memory state only changes once that succeeded.
func (s *Store) Restore(ctx context.Context, snap core.Snapshot) error {
	if err := snap.Validate(); err != nil {
		return err
	}
	snap = core.Snapshot{
		Transactions: slices.Clone(snap.Transactions),
		Budgets:      slices.Clone(snap.Budgets),
	}.Normalize()

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return err
	}
	if s.persister != nil {
		if err := s.persister.Replace(ctx, snap); err != nil {
			s.log.ErrorContext(ctx, "Failed to persist restored ledger", applog.FieldError, err)
			return &core.PersistenceError{Op: applog.OpRestore, Err: err}
		}
	}
	s.reset(snap)
	s.loadErr = nil
	s.log.InfoContext(ctx, "Ledger restored",
		"transactions", len(snap.Transactions),
		"budgets", len(snap.Budgets))
	return nil
}

// AddTransaction validates f, stores a new transaction and flushes.
// When only the flush fails the stored record is returned together with a
// *core.PersistenceError.
func (s *Store) AddTransaction(ctx context.Context, f core.TransactionFields) (core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(applog.OpAdd, kindTransaction); err != nil {
		return core.Transaction{}, err
	}

	tx, err := f.Build(s.nextID(), s.now())
	if err != nil {
		return core.Transaction{}, err
	}
	s.transactions = append(s.transactions, tx)
	s.invalidate()
	s.log.DebugContext(ctx, "Transaction added", applog.NewFields().WithTransaction(tx).ToSlice()...)

	return tx, s.flushTransactions(ctx, applog.OpAdd)
}

// UpdateTransaction merges f onto the transaction with the given id.
// ID and CreatedAt never change.
func (s *Store) UpdateTransaction(ctx context.Context, id string, f core.TransactionFields) (core.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return core.Transaction{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(applog.OpUpdate, kindTransaction); err != nil {
		return core.Transaction{}, err
	}

	i := s.transactionIndex(id)
	if i < 0 {
		return core.Transaction{}, &core.NotFoundError{Kind: kindTransaction, ID: id}
	}
	if f.IsEmpty() {
		return s.transactions[i], nil
	}
	tx, err := f.Apply(s.transactions[i])
	if err != nil {
		return core.Transaction{}, err
	}
	s.transactions[i] = tx
	s.invalidate()
	s.log.DebugContext(ctx, "Transaction updated", applog.NewFields().WithTransaction(tx).ToSlice()...)

	return tx, s.flushTransactions(ctx, applog.OpUpdate)
}

// DeleteTransaction permanently removes the transaction with the given id.
func (s *Store) DeleteTransaction(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(applog.OpDelete, kindTransaction); err != nil {
		return err
	}

	i := s.transactionIndex(id)
	if i < 0 {
		return &core.NotFoundError{Kind: kindTransaction, ID: id}
	}
	s.transactions = slices.Delete(s.transactions, i, i+1)
	s.invalidate()
	s.log.DebugContext(ctx, "Transaction deleted", applog.FieldTransactionID, id)

	return s.flushTransactions(ctx, applog.OpDelete)
}

// Transaction returns the transaction with the given id.
func (s *Store) Transaction(id string) (core.Transaction, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.transactionIndex(id); i >= 0 {
		return s.transactions[i], true
	}
	return core.Transaction{}, false
}

// Transactions returns all transactions in insertion order.
func (s *Store) Transactions() []core.Transaction {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.transactions)
}

// AddBudget validates f, stores a new budget and flushes.
func (s *Store) AddBudget(ctx context.Context, f core.BudgetFields) (core.Budget, error) {
	if err := ctx.Err(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(applog.OpAdd, kindBudget); err != nil {
		return core.Budget{}, err
	}

	b, err := f.Build(s.nextID(), s.now())
	if err != nil {
		return core.Budget{}, err
	}
	s.budgets = append(s.budgets, b)
	s.log.DebugContext(ctx, "Budget added", applog.NewFields().WithBudget(b).ToSlice()...)

	return b, s.flushBudgets(ctx, applog.OpAdd)
}

// UpdateBudget merges f onto the budget with the given id.
func (s *Store) UpdateBudget(ctx context.Context, id string, f core.BudgetFields) (core.Budget, error) {
	if err := ctx.Err(); err != nil {
		return core.Budget{}, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(applog.OpUpdate, kindBudget); err != nil {
		return core.Budget{}, err
	}

	i := s.budgetIndex(id)
	if i < 0 {
		return core.Budget{}, &core.NotFoundError{Kind: kindBudget, ID: id}
	}
	if f.IsEmpty() {
		return s.budgets[i], nil
	}
	b, err := f.Apply(s.budgets[i])
	if err != nil {
		return core.Budget{}, err
	}
	s.budgets[i] = b
	s.log.DebugContext(ctx, "Budget updated", applog.NewFields().WithBudget(b).ToSlice()...)

	return b, s.flushBudgets(ctx, applog.OpUpdate)
}

// DeleteBudget permanently removes the budget with the given id.
func (s *Store) DeleteBudget(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.writable(applog.OpDelete, kindBudget); err != nil {
		return err
	}

	i := s.budgetIndex(id)
	if i < 0 {
		return &core.NotFoundError{Kind: kindBudget, ID: id}
	}
	s.budgets = slices.Delete(s.budgets, i, i+1)
	s.log.DebugContext(ctx, "Budget deleted", applog.FieldBudgetID, id)

	return s.flushBudgets(ctx, applog.OpDelete)
}

// Budget returns the budget with the given id.
func (s *Store) Budget(id string) (core.Budget, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.budgetIndex(id); i >= 0 {
		return s.budgets[i], true
	}
	return core.Budget{}, false
}

// Budgets returns all budgets in insertion order.
func (s *Store) Budgets() []core.Budget {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.budgets)
}

func (s *Store) flushTransactions(ctx context.Context, op string) error {
	if s.persister == nil {
		return nil
	}
	doc := core.Snapshot{Transactions: slices.Clone(s.transactions)}.TransactionsDocument()
	if err := s.persister.SaveTransactions(ctx, doc); err != nil {
		s.log.WarnContext(ctx, "Transaction change not durable",
			applog.NewFields().WithOperation(op).WithError(err).ToSlice()...)
		return &core.PersistenceError{Op: op + " " + kindTransaction, Err: err}
	}
	return nil
}

func (s *Store) flushBudgets(ctx context.Context, op string) error {
	if s.persister == nil {
		return nil
	}
	doc := core.Snapshot{Budgets: slices.Clone(s.budgets)}.BudgetsDocument()
	if err := s.persister.SaveBudgets(ctx, doc); err != nil {
		s.log.WarnContext(ctx, "Budget change not durable",
			applog.NewFields().WithOperation(op).WithError(err).ToSlice()...)
		return &core.PersistenceError{Op: op + " " + kindBudget, Err: err}
	}
	return nil
}

// writable must be called with mu held. After a failed Load the durable
// state is unknown, so mutations are refused until Load or Restore succeeds.
func (s *Store) writable(op, kind string) error {
	if s.loadErr == nil {
		return nil
	}
	return &core.PersistenceError{Op: op + " " + kind, Err: fmt.Errorf("%w: %w", ErrNotLoaded, s.loadErr)}
}

// reset must be called with mu held.
func (s *Store) reset(snap core.Snapshot) {
	s.transactions = snap.Transactions
	s.budgets = snap.Budgets
	for _, tx := range s.transactions {
		s.issued[tx.ID] = struct{}{}
	}
	for _, b := range s.budgets {
		s.issued[b.ID] = struct{}{}
	}
	s.invalidate()
}

// nextID draws ids until one was never handed out by this store.
func (s *Store) nextID() string {
	for {
		id := s.newID()
		if _, taken := s.issued[id]; taken || id == "" {
			continue
		}
		s.issued[id] = struct{}{}
		return id
	}
}

// now strips the monotonic clock so records compare equal after a JSON round trip.
func (s *Store) now() time.Time { return s.clock().UTC().Round(0) }

func (s *Store) invalidate() {
	s.rangeCache.Purge()
	s.totalsCache.Purge()
}

func (s *Store) transactionIndex(id string) int {
	return slices.IndexFunc(s.transactions, func(tx core.Transaction) bool { return tx.ID == id })
}

func (s *Store) budgetIndex(id string) int {
	return slices.IndexFunc(s.budgets, func(b core.Budget) bool { return b.ID == id })
}
