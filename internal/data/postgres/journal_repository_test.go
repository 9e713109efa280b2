package postgres

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/pashagolub/pgxmock/v3"
	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/domain/ledger"
	"github.com/simple-banking-ledger/internal/engine"
	"github.com/simple-banking-ledger/internal/platform/persistence"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJournal(t *testing.T) (*JournalRepository, pgxmock.PgxPoolIface) {
	t.Helper()
	mock, err := pgxmock.NewPool()
	require.NoError(t, err)
	t.Cleanup(mock.Close)

	logger := newTestLogger()
	return &JournalRepository{
		tx:           persistence.NewTxRunner(mock),
		accounts:     &AccountRepository{querier: mock, logger: logger},
		transactions: &TransactionRepository{querier: mock, logger: logger},
		outbox:       &OutboxRepository{querier: mock, logger: logger, now: time.Now},
		logger:       logger,
	}, mock
}

func TestJournalRepository_Record(t *testing.T) {
	ctx := context.Background()
	now := time.Now()

	t.Run("account opened", func(t *testing.T) {
		journal, mock := newTestJournal(t)
		event := &ledger.Event{
			ID:          uuid.New(),
			Type:        ledger.EventAccountOpened,
			AccountID:   1,
			OwnerName:   "Alice",
			AccountType: account.TypeSavings,
			Version:     1,
			OccurredAt:  now,
		}

		mock.ExpectBegin()
		mock.ExpectExec("INSERT INTO accounts").
			WithArgs(event.AccountID, "Alice", account.TypeSavings, int64(0), account.StatusActive, 1, now, now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectQuery("INSERT INTO ledger_outbox").
			WithArgs(event.ID, event.AccountID, pgxmock.AnyArg(), pgxmock.AnyArg(), 0, now).
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(1)))
		mock.ExpectCommit()

		require.NoError(t, journal.Record(ctx, event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("deposit writes balance transaction and outbox row", func(t *testing.T) {
		journal, mock := newTestJournal(t)
		txn := &ledger.Transaction{
			ID:               uuid.New(),
			AccountID:        1,
			Sequence:         1,
			Kind:             ledger.KindDeposit,
			Amount:           10000,
			ResultingBalance: 10000,
			Timestamp:        now,
		}
		event := &ledger.Event{
			ID:          uuid.New(),
			Type:        ledger.EventDeposited,
			AccountID:   1,
			Transaction: txn,
			Balance:     10000,
			Version:     2,
			OccurredAt:  now,
		}

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE accounts").
			WithArgs(int64(10000), 2, now, event.AccountID, 1).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectExec("INSERT INTO transactions").
			WithArgs(txn.ID, txn.AccountID, int64(1), ledger.KindDeposit, int64(10000), int64(10000), now).
			WillReturnResult(pgxmock.NewResult("INSERT", 1))
		mock.ExpectQuery("INSERT INTO ledger_outbox").
			WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(2)))
		mock.ExpectCommit()

		require.NoError(t, journal.Record(ctx, event))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("version conflict rolls back", func(t *testing.T) {
		journal, mock := newTestJournal(t)
		event := &ledger.Event{
			ID:        uuid.New(),
			Type:      ledger.EventWithdrawn,
			AccountID: 1,
			Transaction: &ledger.Transaction{
				ID: uuid.New(), AccountID: 1, Sequence: 2, Kind: ledger.KindWithdrawal,
				Amount: 3000, ResultingBalance: 7000, Timestamp: now,
			},
			Balance:    7000,
			Version:    3,
			OccurredAt: now,
		}

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE accounts").
			WithArgs(int64(7000), 3, now, event.AccountID, 2).
			WillReturnResult(pgxmock.NewResult("UPDATE", 0))
		mock.ExpectRollback()

		err := journal.Record(ctx, event)
		assert.ErrorIs(t, err, account.ErrConcurrentModification{AccountID: 1})
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("outbox failure rolls back", func(t *testing.T) {
		journal, mock := newTestJournal(t)
		event := &ledger.Event{
			ID:         uuid.New(),
			Type:       ledger.EventAccountClosed,
			AccountID:  6,
			Version:    4,
			OccurredAt: now,
		}
		dbErr := errors.New("disk full")

		mock.ExpectBegin()
		mock.ExpectExec("UPDATE accounts\\s+SET status = 'CLOSED'").
			WithArgs(4, now, event.AccountID, 3).
			WillReturnResult(pgxmock.NewResult("UPDATE", 1))
		mock.ExpectQuery("INSERT INTO ledger_outbox").WillReturnError(dbErr)
		mock.ExpectRollback()

		err := journal.Record(ctx, event)
		assert.ErrorIs(t, err, dbErr)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("transaction event without transaction", func(t *testing.T) {
		journal, mock := newTestJournal(t)
		event := &ledger.Event{ID: uuid.New(), Type: ledger.EventDeposited, AccountID: 1, OccurredAt: now}

		mock.ExpectBegin()
		mock.ExpectRollback()

		assert.ErrorIs(t, journal.Record(ctx, event), ErrMalformedEvent)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestJournalRepository_LoadSnapshot(t *testing.T) {
	ctx := context.Background()
	now := time.Now()
	journal, mock := newTestJournal(t)

	mock.ExpectQuery("SELECT (.+) FROM accounts").
		WillReturnRows(pgxmock.NewRows(accountColumns).
			AddRow(account.AccountID(1), "Alice", account.TypeSavings, int64(7000), account.StatusActive, 3, now, now, nil).
			AddRow(account.AccountID(3), "Bob", account.TypeChecking, int64(0), account.StatusClosed, 2, now, now, &now))
	mock.ExpectQuery("SELECT (.+) FROM transactions").
		WillReturnRows(pgxmock.NewRows([]string{"id", "account_id", "sequence", "kind", "amount", "resulting_balance", "created_at"}).
			AddRow(uuid.New(), account.AccountID(1), int64(1), ledger.KindDeposit, int64(10000), int64(10000), now).
			AddRow(uuid.New(), account.AccountID(1), int64(2), ledger.KindWithdrawal, int64(3000), int64(7000), now))

	snap, err := journal.LoadSnapshot(ctx)
	require.NoError(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())

	require.Len(t, snap.Accounts, 2)
	assert.Equal(t, account.AccountID(3), snap.LastID)
	assert.Len(t, snap.Accounts[0].Transactions, 2)
	assert.Empty(t, snap.Accounts[1].Transactions)

	// The loaded journal must satisfy the engine's invariants.
	e := engine.New(engine.WithLogger(newTestLogger()))
	require.NoError(t, e.Restore(snap))
	balance, err := e.GetBalance(1)
	require.NoError(t, err)
	assert.Equal(t, int64(7000), balance)
}

func TestJournalRepository_LoadSnapshotError(t *testing.T) {
	journal, mock := newTestJournal(t)
	dbErr := errors.New("relation does not exist")
	mock.ExpectQuery("SELECT (.+) FROM accounts").WillReturnError(dbErr)

	_, err := journal.LoadSnapshot(context.Background())
	assert.ErrorIs(t, err, dbErr)
}
