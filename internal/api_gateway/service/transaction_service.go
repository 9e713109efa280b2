package service

import (
	"context"

	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/domain/ledger"
	"github.com/simple-banking-ledger/internal/engine"
)

// TransactionServiceImpl implements the TransactionService interface on the ledger engine
type TransactionServiceImpl struct {
	ledger *engine.LedgerEngine
}

// NewTransactionService creates a new transaction service
func NewTransactionService(ledger *engine.LedgerEngine) TransactionService {
	return &TransactionServiceImpl{ledger: ledger}
}

func (s *TransactionServiceImpl) Deposit(ctx context.Context, id account.AccountID, amount int64) (int64, error) {
	return s.ledger.Deposit(ctx, id, amount)
}

func (s *TransactionServiceImpl) Withdraw(ctx context.Context, id account.AccountID, amount int64) (int64, error) {
	return s.ledger.Withdraw(ctx, id, amount)
}

// GetTransactionsByAccountID pages over a single history view, so the page and the total
// always describe the same state even while deposits keep arriving.
func (s *TransactionServiceImpl) GetTransactionsByAccountID(_ context.Context, id account.AccountID, page, perPage int) ([]ledger.Transaction, int64, error) {
	history, err := s.ledger.GetHistory(id)
	if err != nil {
		return nil, 0, err
	}

	offset := int64(pageOffset(page, perPage))
	items := make([]ledger.Transaction, 0, max(0, min(perPage, 64)))
	var total int64
	for txn := range history {
		if total >= offset && len(items) < perPage {
			items = append(items, txn)
		}
		total++
	}
	return items, total, nil
}
