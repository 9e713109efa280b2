package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/engine"
)

// ErrInvalidAccountType is returned for account types other than SAVINGS and CHECKING
var ErrInvalidAccountType = errors.New("account type must be SAVINGS or CHECKING")

// AccountServiceImpl implements the AccountService interface on the ledger engine
type AccountServiceImpl struct {
	ledger *engine.LedgerEngine
}

// NewAccountService creates a new account service
func NewAccountService(ledger *engine.LedgerEngine) AccountService {
	return &AccountServiceImpl{ledger: ledger}
}

// CreateAccount opens an account, books the initial deposit if any, and returns its details
func (s *AccountServiceImpl) CreateAccount(ctx context.Context, ownerName, accountType string, initialDeposit int64) (*account.Account, error) {
	if initialDeposit < 0 {
		return nil, account.ErrInvalidAmount
	}

	var opts []engine.CreateOption
	if accountType != "" {
		t, err := account.ParseType(accountType, "")
		if err != nil {
			return nil, ErrInvalidAccountType
		}
		opts = append(opts, engine.WithAccountType(t))
	}

	id, err := s.ledger.Create(ctx, ownerName, opts...)
	if err != nil {
		return nil, err
	}
	if initialDeposit > 0 {
		if _, err := s.ledger.Deposit(ctx, id, initialDeposit); err != nil {
			return nil, fmt.Errorf("account %s opened but initial deposit failed: %w", id, err)
		}
	}
	return s.GetAccountByID(ctx, id)
}

// GetAccountByID retrieves an account by its ID, returns ErrAccountNotFound if not found
func (s *AccountServiceImpl) GetAccountByID(_ context.Context, id account.AccountID) (*account.Account, error) {
	acc, err := s.ledger.GetAccount(id)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}

// ListAccounts returns the details of every account in creation order
func (s *AccountServiceImpl) ListAccounts(_ context.Context) ([]*account.Account, error) {
	ids := s.ledger.ListAccounts()
	accounts := make([]*account.Account, 0, len(ids))
	for _, id := range ids {
		acc, err := s.ledger.GetAccount(id)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, &acc)
	}
	return accounts, nil
}

func (s *AccountServiceImpl) GetBalance(_ context.Context, id account.AccountID) (int64, error) {
	return s.ledger.GetBalance(id)
}

func (s *AccountServiceImpl) CloseAccount(ctx context.Context, id account.AccountID) error {
	return s.ledger.Close(ctx, id)
}
