package engine

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/domain/ledger"
)

// ErrInvalidSnapshot is returned by Restore when the snapshot violates a ledger invariant
var ErrInvalidSnapshot = errors.New("invalid ledger snapshot")

// AccountSnapshot is one account together with its complete history
type AccountSnapshot struct {
	Account      account.Account      `json:"account"`
	Transactions []ledger.Transaction `json:"transactions"`
}

// Snapshot is a point-in-time copy of the whole ledger. Accounts are in creation order.
type Snapshot struct {
	Accounts []AccountSnapshot `json:"accounts"`
	LastID   account.AccountID `json:"last_id"`
}

// Snapshot copies the ledger state. Each account is copied under its own lock, so the result is
// consistent per account.
func (e *LedgerEngine) Snapshot() Snapshot {
	e.mu.RLock()
	order := append([]account.AccountID(nil), e.order...)
	records := make([]*record, len(order))
	for i, id := range order {
		records[i] = e.accounts[id]
	}
	lastID := e.lastID
	e.mu.RUnlock()

	snap := Snapshot{Accounts: make([]AccountSnapshot, 0, len(records)), LastID: lastID}
	for _, rec := range records {
		rec.mu.Lock()
		snap.Accounts = append(snap.Accounts, AccountSnapshot{
			Account:      rec.acct,
			Transactions: append([]ledger.Transaction(nil), rec.history...),
		})
		rec.mu.Unlock()
	}
	return snap
}

// Restore replaces the ledger state with snap after replaying every history against the
// balance invariants. Nothing is journaled. On error the ledger is left untouched.
func (e *LedgerEngine) Restore(snap Snapshot) error {
	accounts := make(map[account.AccountID]*record, len(snap.Accounts))
	order := make([]account.AccountID, 0, len(snap.Accounts))
	lastID := snap.LastID
	latest := e.lastTickValue()

	for _, as := range snap.Accounts {
		acc := as.Account
		if err := validateAccount(acc, as.Transactions); err != nil {
			return err
		}
		if _, dup := accounts[acc.ID]; dup {
			return fmt.Errorf("%w: duplicate account %s", ErrInvalidSnapshot, acc.ID)
		}
		if acc.ID > lastID {
			lastID = acc.ID
		}
		if acc.UpdatedAt.After(latest) {
			latest = acc.UpdatedAt
		}
		for _, txn := range as.Transactions {
			if txn.Timestamp.After(latest) {
				latest = txn.Timestamp
			}
		}

		accounts[acc.ID] = &record{
			acct:    acc,
			history: append([]ledger.Transaction(nil), as.Transactions...),
		}
		order = append(order, acc.ID)
	}

	e.createMu.Lock()
	defer e.createMu.Unlock()

	e.mu.Lock()
	e.accounts = accounts
	e.order = order
	e.lastID = lastID
	e.mu.Unlock()

	e.clockMu.Lock()
	e.lastTick = latest
	e.clockMu.Unlock()

	e.logger.Info("Ledger restored", "accounts", len(order), "last_id", lastID.String())
	return nil
}

func (e *LedgerEngine) lastTickValue() time.Time {
	e.clockMu.Lock()
	defer e.clockMu.Unlock()
	return e.lastTick
}

func validateAccount(acc account.Account, history []ledger.Transaction) error {
	if acc.ID <= 0 {
		return fmt.Errorf("%w: account id %d is not positive", ErrInvalidSnapshot, acc.ID)
	}
	if acc.OwnerName == "" {
		return fmt.Errorf("%w: account %s has no owner", ErrInvalidSnapshot, acc.ID)
	}
	if acc.Status != account.StatusActive && acc.Status != account.StatusClosed {
		return fmt.Errorf("%w: account %s has unknown status %q", ErrInvalidSnapshot, acc.ID, acc.Status)
	}

	var balance int64
	for i, txn := range history {
		if txn.AccountID != acc.ID {
			return fmt.Errorf("%w: account %s holds transaction of account %s", ErrInvalidSnapshot, acc.ID, txn.AccountID)
		}
		if txn.Sequence != int64(i)+1 {
			return fmt.Errorf("%w: account %s transaction %d out of sequence", ErrInvalidSnapshot, acc.ID, txn.Sequence)
		}
		if txn.Amount <= 0 {
			return fmt.Errorf("%w: account %s transaction %d has non-positive amount", ErrInvalidSnapshot, acc.ID, txn.Sequence)
		}
		if txn.Kind != ledger.KindDeposit && txn.Kind != ledger.KindWithdrawal {
			return fmt.Errorf("%w: account %s transaction %d has unknown kind %q", ErrInvalidSnapshot, acc.ID, txn.Sequence, txn.Kind)
		}
		if txn.Kind == ledger.KindDeposit && txn.Amount > math.MaxInt64-balance {
			return fmt.Errorf("%w: account %s balance overflows at transaction %d", ErrInvalidSnapshot, acc.ID, txn.Sequence)
		}
		balance += txn.Signed()
		if balance < 0 {
			return fmt.Errorf("%w: account %s balance goes negative at transaction %d", ErrInvalidSnapshot, acc.ID, txn.Sequence)
		}
		if txn.ResultingBalance != balance {
			return fmt.Errorf("%w: account %s transaction %d records balance %d, replay gives %d",
				ErrInvalidSnapshot, acc.ID, txn.Sequence, txn.ResultingBalance, balance)
		}
	}
	if balance != acc.Balance {
		return fmt.Errorf("%w: account %s balance %d does not match history total %d", ErrInvalidSnapshot, acc.ID, acc.Balance, balance)
	}
	return nil
}
