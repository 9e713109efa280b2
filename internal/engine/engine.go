// Package engine implements the account ledger: the sole owner of accounts and their transaction
// histories. Every mutation goes through LedgerEngine, which enforces the balance and lifecycle
// invariants and performs no I/O of its own. Durability is delegated to an optional Journal that
// is consulted before a mutation is applied.
package engine

import (
	"context"
	"fmt"
	"iter"
	"log/slog"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/domain/ledger"
)

// Journal durably records a ledger event. It is called while the affected account is locked and
// before the change becomes visible; an error aborts the mutation without changing state.
type Journal interface {
	Record(ctx context.Context, event *ledger.Event) error
}

// Option configures a LedgerEngine
type Option func(*LedgerEngine)

// WithJournal installs a write-ahead journal
func WithJournal(j Journal) Option {
	return func(e *LedgerEngine) { e.journal = j }
}

// WithClock replaces the time source used for transaction timestamps
func WithClock(now func() time.Time) Option {
	return func(e *LedgerEngine) { e.now = now }
}

// WithLogger sets the engine logger
func WithLogger(logger *slog.Logger) Option {
	return func(e *LedgerEngine) { e.logger = logger }
}

// WithDefaultAccountType sets the type used when Create is called without one
func WithDefaultAccountType(t account.Type) Option {
	return func(e *LedgerEngine) { e.defaultType = t }
}

// CreateOption configures a single Create call
type CreateOption func(*createParams)

type createParams struct {
	accountType account.Type
}

// WithAccountType opens the account as the given type
func WithAccountType(t account.Type) CreateOption {
	return func(p *createParams) { p.accountType = t }
}

// record is one account with its append-only history. mu is held for the whole of every
// mutation, journal call included.
type record struct {
	mu      sync.Mutex
	acct    account.Account
	history []ledger.Transaction
}

// LedgerEngine owns the ledger
type LedgerEngine struct {
	mu       sync.RWMutex // guards accounts, order and lastID
	accounts map[account.AccountID]*record
	order    []account.AccountID
	lastID   account.AccountID

	createMu sync.Mutex // serializes Create so creation order equals id order

	clockMu  sync.Mutex
	lastTick time.Time

	journal     Journal
	now         func() time.Time
	logger      *slog.Logger
	defaultType account.Type
}

// New creates an empty ledger
func New(opts ...Option) *LedgerEngine {
	e := &LedgerEngine{
		accounts:    make(map[account.AccountID]*record),
		now:         time.Now,
		logger:      slog.Default(),
		defaultType: account.TypeSavings,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Create opens a new ACTIVE account with a zero balance and returns its id.
// Returns account.ErrInvalidInput for an empty owner name.
func (e *LedgerEngine) Create(ctx context.Context, ownerName string, opts ...CreateOption) (account.AccountID, error) {
	params := createParams{accountType: e.defaultType}
	for _, opt := range opts {
		opt(&params)
	}

	e.createMu.Lock()
	defer e.createMu.Unlock()

	e.mu.RLock()
	id := e.lastID + 1
	e.mu.RUnlock()

	now := e.tick()
	acc, err := account.NewAccount(id, ownerName, params.accountType, now)
	if err != nil {
		return 0, err
	}

	event := e.newEvent(ctx, ledger.EventAccountOpened, acc, nil)
	event.OwnerName = acc.OwnerName
	event.AccountType = acc.Type
	if err := e.record(ctx, event); err != nil {
		// The id is burned so it can never be handed out twice.
		e.mu.Lock()
		e.lastID = id
		e.mu.Unlock()
		return 0, err
	}

	e.mu.Lock()
	e.lastID = id
	e.accounts[id] = &record{acct: *acc}
	e.order = append(e.order, id)
	e.mu.Unlock()

	e.logger.Debug("Account created", "account_id", id.String(), "owner", acc.OwnerName, "type", string(acc.Type))
	return id, nil
}

// Deposit credits the account and returns the new balance
func (e *LedgerEngine) Deposit(ctx context.Context, id account.AccountID, amount int64) (int64, error) {
	return e.apply(ctx, id, ledger.KindDeposit, amount)
}

// Withdraw debits the account and returns the new balance.
// Returns account.ErrInsufficientFunds when amount exceeds the balance.
func (e *LedgerEngine) Withdraw(ctx context.Context, id account.AccountID, amount int64) (int64, error) {
	return e.apply(ctx, id, ledger.KindWithdrawal, amount)
}

func (e *LedgerEngine) apply(ctx context.Context, id account.AccountID, kind ledger.Kind, amount int64) (int64, error) {
	rec, err := e.lookup(id)
	if err != nil {
		return 0, err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	next := rec.acct
	now := e.tick()
	eventType := ledger.EventDeposited
	if kind == ledger.KindWithdrawal {
		eventType = ledger.EventWithdrawn
		err = next.Withdraw(amount, now)
	} else {
		err = next.Deposit(amount, now)
	}
	if err != nil {
		e.logger.Debug("Transaction rejected", "account_id", id.String(), "kind", string(kind), "amount", amount, "reason", err)
		return 0, err
	}

	txn := ledger.Transaction{
		ID:               uuid.New(),
		AccountID:        id,
		Sequence:         int64(len(rec.history)) + 1,
		Kind:             kind,
		Amount:           amount,
		ResultingBalance: next.Balance,
		Timestamp:        now,
	}
	if err := e.record(ctx, e.newEvent(ctx, eventType, &next, &txn)); err != nil {
		return 0, err
	}

	rec.acct = next
	rec.history = append(rec.history, txn)

	e.logger.Debug("Transaction applied", "account_id", id.String(), "kind", string(kind), "amount", amount, "balance", next.Balance)
	return next.Balance, nil
}

// Close marks the account CLOSED. History stays queryable. Closing a closed account is a no-op.
func (e *LedgerEngine) Close(ctx context.Context, id account.AccountID) error {
	rec, err := e.lookup(id)
	if err != nil {
		return err
	}

	rec.mu.Lock()
	defer rec.mu.Unlock()

	next := rec.acct
	if !next.Close(e.tick()) {
		return nil
	}
	if err := e.record(ctx, e.newEvent(ctx, ledger.EventAccountClosed, &next, nil)); err != nil {
		return err
	}
	rec.acct = next

	e.logger.Debug("Account closed", "account_id", id.String(), "balance", next.Balance)
	return nil
}

// GetBalance returns the current balance in minor units
func (e *LedgerEngine) GetBalance(id account.AccountID) (int64, error) {
	rec, err := e.lookup(id)
	if err != nil {
		return 0, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.acct.Balance, nil
}

// GetAccount returns a copy of the account details
func (e *LedgerEngine) GetAccount(id account.AccountID) (account.Account, error) {
	rec, err := e.lookup(id)
	if err != nil {
		return account.Account{}, err
	}
	rec.mu.Lock()
	defer rec.mu.Unlock()
	return rec.acct, nil
}

// GetHistory returns the account's transactions in insertion order. The sequence is lazy and
// may be ranged over any number of times; it covers the transactions that existed when
// GetHistory was called.
func (e *LedgerEngine) GetHistory(id account.AccountID) (iter.Seq[ledger.Transaction], error) {
	rec, err := e.lookup(id)
	if err != nil {
		return nil, err
	}

	rec.mu.Lock()
	n := len(rec.history)
	// history is append-only: indexes below n never change, even if the backing array grows.
	view := rec.history[:n:n]
	rec.mu.Unlock()

	return func(yield func(ledger.Transaction) bool) {
		for _, txn := range view {
			if !yield(txn) {
				return
			}
		}
	}, nil
}

// ListAccounts returns every known id, closed ones included, in creation order
func (e *LedgerEngine) ListAccounts() []account.AccountID {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return slices.Clone(e.order)
}

func (e *LedgerEngine) lookup(id account.AccountID) (*record, error) {
	e.mu.RLock()
	rec, ok := e.accounts[id]
	e.mu.RUnlock()
	if !ok {
		return nil, account.ErrAccountNotFound{AccountID: id}
	}
	return rec, nil
}

// tick returns the current time, never earlier than a previously returned one
func (e *LedgerEngine) tick() time.Time {
	e.clockMu.Lock()
	defer e.clockMu.Unlock()
	now := e.now()
	if now.Before(e.lastTick) {
		now = e.lastTick
	}
	e.lastTick = now
	return now
}

func (e *LedgerEngine) newEvent(ctx context.Context, t ledger.EventType, acc *account.Account, txn *ledger.Transaction) *ledger.Event {
	return &ledger.Event{
		ID:            uuid.New(),
		Type:          t,
		AccountID:     acc.ID,
		Transaction:   txn,
		Balance:       acc.Balance,
		Version:       acc.Version,
		CorrelationID: ledger.CorrelationIDFromContext(ctx),
		OccurredAt:    acc.UpdatedAt,
	}
}

func (e *LedgerEngine) record(ctx context.Context, event *ledger.Event) error {
	if e.journal == nil {
		return nil
	}
	if err := e.journal.Record(ctx, event); err != nil {
		e.logger.Warn("Journal rejected ledger event, mutation discarded",
			"event_id", event.ID.String(),
			"type", string(event.Type),
			"account_id", event.AccountID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to journal %s for account %s: %w", event.Type, event.AccountID, err)
	}
	return nil
}
