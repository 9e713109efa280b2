package postgres

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/domain/ledger"
	"github.com/simple-banking-ledger/internal/domain/outbox"
	"github.com/simple-banking-ledger/internal/engine"
	"github.com/simple-banking-ledger/internal/platform/persistence"
)

// ErrMalformedEvent is returned when an event lacks the data its type requires
var ErrMalformedEvent = errors.New("malformed ledger event")

// JournalRepository is the engine's write-ahead journal. Each event is written together with its
// outbox row in one transaction, and the stored state can be loaded back as an engine snapshot.
type JournalRepository struct {
	tx           persistence.TxRunner
	accounts     *AccountRepository
	transactions *TransactionRepository
	outbox       outbox.Repository
	logger       *slog.Logger
}

var _ engine.Journal = (*JournalRepository)(nil)

// NewJournalRepository wires the journal on db
func NewJournalRepository(logger *slog.Logger, db *persistence.PostgresDB) *JournalRepository {
	return &JournalRepository{
		tx:           db,
		accounts:     NewAccountRepository(logger, db),
		transactions: NewTransactionRepository(logger, db),
		outbox:       NewOutboxRepository(logger, db),
		logger:       logger.With("component", "journal"),
	}
}

// Record persists event. Nothing is written unless every statement succeeds.
func (r *JournalRepository) Record(ctx context.Context, event *ledger.Event) error {
	message, err := outbox.NewMessage(event)
	if err != nil {
		return fmt.Errorf("failed to build outbox message for event %s: %w", event.ID, err)
	}

	err = r.tx.ExecuteTx(ctx, func(tx pgx.Tx) error {
		if err := r.apply(ctx, tx, event); err != nil {
			return err
		}
		return r.outbox.WithTx(tx).Create(ctx, message)
	})
	if err != nil {
		return err
	}

	r.logger.Debug("Ledger event journaled",
		"event_id", event.ID.String(),
		"type", string(event.Type),
		"account_id", event.AccountID.String(),
		"correlation_id", event.CorrelationID,
	)
	return nil
}

func (r *JournalRepository) apply(ctx context.Context, tx pgx.Tx, event *ledger.Event) error {
	accounts := r.accounts.WithTx(tx)

	switch event.Type {
	case ledger.EventAccountOpened:
		return accounts.Create(ctx, &account.Account{
			ID:        event.AccountID,
			OwnerName: event.OwnerName,
			Type:      event.AccountType,
			Balance:   event.Balance,
			Status:    account.StatusActive,
			Version:   event.Version,
			CreatedAt: event.OccurredAt,
			UpdatedAt: event.OccurredAt,
		})

	case ledger.EventDeposited, ledger.EventWithdrawn:
		if event.Transaction == nil {
			return fmt.Errorf("%w: %s event %s has no transaction", ErrMalformedEvent, event.Type, event.ID)
		}
		if err := accounts.UpdateBalance(ctx, event.AccountID, event.Balance, event.Version, event.OccurredAt); err != nil {
			return err
		}
		return r.transactions.WithTx(tx).Create(ctx, event.Transaction)

	case ledger.EventAccountClosed:
		return accounts.MarkClosed(ctx, event.AccountID, event.Version, event.OccurredAt)

	default:
		return fmt.Errorf("%w: unknown type %q", ErrMalformedEvent, event.Type)
	}
}

// LoadSnapshot reads the journaled ledger back for engine.Restore
func (r *JournalRepository) LoadSnapshot(ctx context.Context) (engine.Snapshot, error) {
	accounts, err := r.accounts.List(ctx)
	if err != nil {
		return engine.Snapshot{}, err
	}
	history, err := r.transactions.ListAll(ctx)
	if err != nil {
		return engine.Snapshot{}, err
	}

	snap := engine.Snapshot{Accounts: make([]engine.AccountSnapshot, 0, len(accounts))}
	for _, acc := range accounts {
		snap.Accounts = append(snap.Accounts, engine.AccountSnapshot{
			Account:      acc,
			Transactions: history[acc.ID],
		})
		if acc.ID > snap.LastID {
			snap.LastID = acc.ID
		}
	}

	r.logger.Info("Journal loaded", "accounts", len(accounts), "last_id", snap.LastID.String())
	return snap, nil
}
