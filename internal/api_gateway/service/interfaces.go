package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/domain/ledger"
)

// AccountService defines the interface for account operations
type AccountService interface {
	// CreateAccount opens an ACTIVE account. An empty accountType selects the ledger default.
	// A positive initialDeposit is booked as the account's first deposit; a negative one is
	// rejected with ErrInvalidAmount before anything is created.
	CreateAccount(ctx context.Context, ownerName, accountType string, initialDeposit int64) (*account.Account, error)

	// GetAccountByID returns ErrAccountNotFound if the account doesn't exist
	GetAccountByID(ctx context.Context, id account.AccountID) (*account.Account, error)

	// ListAccounts returns every account, closed ones included, in creation order
	ListAccounts(ctx context.Context) ([]*account.Account, error)

	GetBalance(ctx context.Context, id account.AccountID) (int64, error)

	// CloseAccount is idempotent for accounts that are already closed
	CloseAccount(ctx context.Context, id account.AccountID) error
}

// TransactionService defines the interface for balance changing operations
type TransactionService interface {
	// Deposit and Withdraw return the balance after the transaction
	Deposit(ctx context.Context, id account.AccountID, amount int64) (int64, error)
	Withdraw(ctx context.Context, id account.AccountID, amount int64) (int64, error)

	// GetTransactionsByAccountID returns one page of the account history in insertion order,
	// plus the total number of transactions
	GetTransactionsByAccountID(ctx context.Context, id account.AccountID, page, perPage int) ([]ledger.Transaction, int64, error)
}

// HistoryService reads the event history projected from the ledger event stream
type HistoryService interface {
	// GetEvent returns ledger.ErrEventNotFound when the event was never projected
	GetEvent(ctx context.Context, eventID uuid.UUID) (*ledger.Event, error)

	// GetEventsByAccountID returns one page of an account's events oldest first, plus the total.
	// Accounts the projection has not seen yield an empty page.
	GetEventsByAccountID(ctx context.Context, id account.AccountID, page, perPage int) ([]*ledger.Event, int64, error)
}
