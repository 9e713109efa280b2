package handler

import (
	"time"

	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/domain/ledger"
	"github.com/simple-banking-ledger/internal/domain/money"
)

// CreateAccountRequest represents a request to open a new account.
// InitialDeposit is an optional major-unit amount booked as the first deposit.
type CreateAccountRequest struct {
	OwnerName      string `json:"owner_name" binding:"required"`
	AccountType    string `json:"account_type,omitempty"`
	InitialDeposit string `json:"initial_deposit,omitempty"`
}

// AmountRequest carries a deposit or withdrawal amount in major units, e.g. "12.34"
type AmountRequest struct {
	Amount string `json:"amount" binding:"required"`
}

// AccountResponse represents an account in API responses
type AccountResponse struct {
	ID           int64  `json:"id"`
	OwnerName    string `json:"owner_name"`
	AccountType  string `json:"account_type"`
	Balance      string `json:"balance"`
	BalanceMinor int64  `json:"balance_minor"`
	Status       string `json:"status"`
	CreatedAt    string `json:"created_at"`
	UpdatedAt    string `json:"updated_at"`
	ClosedAt     string `json:"closed_at,omitempty"`
}

// BalanceResponse is returned by the balance query and by deposits and withdrawals
type BalanceResponse struct {
	AccountID    int64  `json:"account_id"`
	Balance      string `json:"balance"`
	BalanceMinor int64  `json:"balance_minor"`
}

// TransactionResponse represents a transaction in API responses
type TransactionResponse struct {
	ID                    string `json:"id"`
	AccountID             int64  `json:"account_id"`
	Sequence              int64  `json:"sequence"`
	Kind                  string `json:"kind"`
	Amount                string `json:"amount"`
	AmountMinor           int64  `json:"amount_minor"`
	ResultingBalance      string `json:"resulting_balance"`
	ResultingBalanceMinor int64  `json:"resulting_balance_minor"`
	Timestamp             string `json:"timestamp"`
}

// PaginationParams represents pagination parameters for list endpoints.
// A zero PerPage selects the configured default.
type PaginationParams struct {
	Page    int `form:"page,default=1" binding:"min=1"`
	PerPage int `form:"per_page,default=0" binding:"min=0"`
}

// PageConfig bounds the page size of list endpoints
type PageConfig struct {
	DefaultPageSize int
	MaxPageSize     int
}

func mapAccountToResponse(acc *account.Account) AccountResponse {
	resp := AccountResponse{
		ID:           int64(acc.ID),
		OwnerName:    acc.OwnerName,
		AccountType:  string(acc.Type),
		Balance:      money.FormatMinor(acc.Balance),
		BalanceMinor: acc.Balance,
		Status:       string(acc.Status),
		CreatedAt:    acc.CreatedAt.Format(time.RFC3339Nano),
		UpdatedAt:    acc.UpdatedAt.Format(time.RFC3339Nano),
	}
	if acc.ClosedAt != nil {
		resp.ClosedAt = acc.ClosedAt.Format(time.RFC3339Nano)
	}
	return resp
}

func mapBalanceToResponse(id account.AccountID, balance int64) BalanceResponse {
	return BalanceResponse{
		AccountID:    int64(id),
		Balance:      money.FormatMinor(balance),
		BalanceMinor: balance,
	}
}

func mapTransactionToResponse(txn ledger.Transaction) TransactionResponse {
	return TransactionResponse{
		ID:                    txn.ID.String(),
		AccountID:             int64(txn.AccountID),
		Sequence:              txn.Sequence,
		Kind:                  string(txn.Kind),
		Amount:                money.FormatMinor(txn.Amount),
		AmountMinor:           txn.Amount,
		ResultingBalance:      money.FormatMinor(txn.ResultingBalance),
		ResultingBalanceMinor: txn.ResultingBalance,
		Timestamp:             txn.Timestamp.Format(time.RFC3339Nano),
	}
}

// EventResponse represents a projected ledger event in audit responses
type EventResponse struct {
	EventID       string               `json:"event_id"`
	Type          string               `json:"type"`
	AccountID     int64                `json:"account_id"`
	OwnerName     string               `json:"owner_name,omitempty"`
	AccountType   string               `json:"account_type,omitempty"`
	Transaction   *TransactionResponse `json:"transaction,omitempty"`
	Balance       string               `json:"balance"`
	BalanceMinor  int64                `json:"balance_minor"`
	Version       int                  `json:"version"`
	CorrelationID string               `json:"correlation_id,omitempty"`
	OccurredAt    string               `json:"occurred_at"`
}

func mapEventToResponse(event *ledger.Event) EventResponse {
	resp := EventResponse{
		EventID:       event.ID.String(),
		Type:          string(event.Type),
		AccountID:     int64(event.AccountID),
		OwnerName:     event.OwnerName,
		AccountType:   string(event.AccountType),
		Balance:       money.FormatMinor(event.Balance),
		BalanceMinor:  event.Balance,
		Version:       event.Version,
		CorrelationID: event.CorrelationID,
		OccurredAt:    event.OccurredAt.Format(time.RFC3339Nano),
	}
	if event.Transaction != nil {
		txn := mapTransactionToResponse(*event.Transaction)
		resp.Transaction = &txn
	}
	return resp
}
