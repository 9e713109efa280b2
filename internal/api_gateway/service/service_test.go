package service

import (
	"context"
	"io"
	"log/slog"
	"math"
	"slices"
	"testing"

	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/domain/ledger"
	"github.com/simple-banking-ledger/internal/engine"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestLedger() *engine.LedgerEngine {
	return engine.New(engine.WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
}

func TestAccountServiceImpl_CreateAccount(t *testing.T) {
	ctx := context.Background()

	t.Run("Success", func(t *testing.T) {
		service := NewAccountService(newTestLedger())

		acc, err := service.CreateAccount(ctx, "Alice", "", 0)
		require.NoError(t, err)
		assert.Equal(t, account.AccountID(1), acc.ID)
		assert.Equal(t, "Alice", acc.OwnerName)
		assert.Equal(t, account.TypeSavings, acc.Type)
		assert.Equal(t, account.StatusActive, acc.Status)
		assert.Zero(t, acc.Balance)
	})

	t.Run("ExplicitType", func(t *testing.T) {
		service := NewAccountService(newTestLedger())

		acc, err := service.CreateAccount(ctx, "Bob", "checking", 0)
		require.NoError(t, err)
		assert.Equal(t, account.TypeChecking, acc.Type)
	})

	t.Run("InvalidType", func(t *testing.T) {
		service := NewAccountService(newTestLedger())

		acc, err := service.CreateAccount(ctx, "Bob", "BROKERAGE", 0)
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, ErrInvalidAccountType)
	})

	t.Run("InitialDeposit", func(t *testing.T) {
		ledgerEngine := newTestLedger()
		service := NewAccountService(ledgerEngine)

		acc, err := service.CreateAccount(ctx, "Carol", "", 2550)
		require.NoError(t, err)
		assert.Equal(t, int64(2550), acc.Balance)

		history, err := ledgerEngine.GetHistory(acc.ID)
		require.NoError(t, err)
		txns := slices.Collect(history)
		require.Len(t, txns, 1)
		assert.Equal(t, ledger.KindDeposit, txns[0].Kind)
		assert.Equal(t, int64(2550), txns[0].ResultingBalance)
	})

	t.Run("NegativeInitialDeposit", func(t *testing.T) {
		ledgerEngine := newTestLedger()
		service := NewAccountService(ledgerEngine)

		acc, err := service.CreateAccount(ctx, "Carol", "", -1)
		assert.Nil(t, acc)
		assert.ErrorIs(t, err, account.ErrInvalidAmount)
		assert.Empty(t, ledgerEngine.ListAccounts(), "nothing is created")
	})

	t.Run("EmptyOwner", func(t *testing.T) {
		service := NewAccountService(newTestLedger())

		_, err := service.CreateAccount(ctx, "   ", "", 0)
		assert.ErrorIs(t, err, account.ErrInvalidInput)
	})
}

func TestAccountServiceImpl_Queries(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger()
	service := NewAccountService(ledger)

	alice, err := service.CreateAccount(ctx, "Alice", "", 0)
	require.NoError(t, err)
	bob, err := service.CreateAccount(ctx, "Bob", "", 0)
	require.NoError(t, err)
	_, err = ledger.Deposit(ctx, alice.ID, 500)
	require.NoError(t, err)
	require.NoError(t, service.CloseAccount(ctx, bob.ID))

	balance, err := service.GetBalance(ctx, alice.ID)
	require.NoError(t, err)
	assert.Equal(t, int64(500), balance)

	accounts, err := service.ListAccounts(ctx)
	require.NoError(t, err)
	require.Len(t, accounts, 2)
	assert.Equal(t, alice.ID, accounts[0].ID)
	assert.Equal(t, account.StatusClosed, accounts[1].Status)

	_, err = service.GetAccountByID(ctx, 42)
	assert.ErrorIs(t, err, account.ErrAccountNotFound{AccountID: 42})

	assert.NoError(t, service.CloseAccount(ctx, bob.ID), "closing twice is a no-op")
}

func TestTransactionServiceImpl_DepositWithdraw(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger()
	service := NewTransactionService(ledger)
	id, err := ledger.Create(ctx, "Alice")
	require.NoError(t, err)

	balance, err := service.Deposit(ctx, id, 10000)
	require.NoError(t, err)
	assert.Equal(t, int64(10000), balance)

	balance, err = service.Withdraw(ctx, id, 3000)
	require.NoError(t, err)
	assert.Equal(t, int64(7000), balance)

	_, err = service.Withdraw(ctx, id, 8000)
	assert.ErrorIs(t, err, account.ErrInsufficientFunds)
}

func TestTransactionServiceImpl_GetTransactionsByAccountID(t *testing.T) {
	ctx := context.Background()
	ledger := newTestLedger()
	service := NewTransactionService(ledger)
	id, err := ledger.Create(ctx, "Alice")
	require.NoError(t, err)
	for i := 1; i <= 5; i++ {
		_, err := ledger.Deposit(ctx, id, int64(i*100))
		require.NoError(t, err)
	}

	tests := []struct {
		name      string
		page      int
		perPage   int
		sequences []int64
	}{
		{"first page", 1, 2, []int64{1, 2}},
		{"middle page", 2, 2, []int64{3, 4}},
		{"partial last page", 3, 2, []int64{5}},
		{"past the end", 4, 2, nil},
		{"everything", 1, 10, []int64{1, 2, 3, 4, 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, total, err := service.GetTransactionsByAccountID(ctx, id, tt.page, tt.perPage)
			require.NoError(t, err)
			assert.Equal(t, int64(5), total)

			var sequences []int64
			for _, txn := range items {
				sequences = append(sequences, txn.Sequence)
			}
			assert.Equal(t, tt.sequences, sequences)
		})
	}

	t.Run("huge page number does not wrap to the first page", func(t *testing.T) {
		items, total, err := service.GetTransactionsByAccountID(ctx, id, math.MaxInt, 100)
		require.NoError(t, err)
		assert.Equal(t, int64(5), total)
		assert.Empty(t, items)
	})

	t.Run("unknown account", func(t *testing.T) {
		_, _, err := service.GetTransactionsByAccountID(ctx, 99, 1, 10)
		assert.ErrorIs(t, err, account.ErrAccountNotFound{})
	})
}
