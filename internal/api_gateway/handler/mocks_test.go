package handler

import (
	"context"
	"io"
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/simple-banking-ledger/internal/api_gateway/middleware"
	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/domain/ledger"
	"github.com/stretchr/testify/mock"
)

type MockAccountService struct {
	mock.Mock
}

func (m *MockAccountService) CreateAccount(ctx context.Context, ownerName, accountType string, initialDeposit int64) (*account.Account, error) {
	args := m.Called(ctx, ownerName, accountType, initialDeposit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) GetAccountByID(ctx context.Context, id account.AccountID) (*account.Account, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*account.Account), args.Error(1)
}

func (m *MockAccountService) ListAccounts(ctx context.Context) ([]*account.Account, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*account.Account), args.Error(1)
}

func (m *MockAccountService) GetBalance(ctx context.Context, id account.AccountID) (int64, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockAccountService) CloseAccount(ctx context.Context, id account.AccountID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

type MockTransactionService struct {
	mock.Mock
}

func (m *MockTransactionService) Deposit(ctx context.Context, id account.AccountID, amount int64) (int64, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionService) Withdraw(ctx context.Context, id account.AccountID, amount int64) (int64, error) {
	args := m.Called(ctx, id, amount)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockTransactionService) GetTransactionsByAccountID(ctx context.Context, id account.AccountID, page, perPage int) ([]ledger.Transaction, int64, error) {
	args := m.Called(ctx, id, page, perPage)
	if args.Get(0) == nil {
		return nil, args.Get(1).(int64), args.Error(2)
	}
	return args.Get(0).([]ledger.Transaction), args.Get(1).(int64), args.Error(2)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewJSONHandler(io.Discard, nil))
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.CorrelationID())
	return r
}

type MockHistoryService struct {
	mock.Mock
}

func (m *MockHistoryService) GetEvent(ctx context.Context, eventID uuid.UUID) (*ledger.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Event), args.Error(1)
}

func (m *MockHistoryService) GetEventsByAccountID(ctx context.Context, id account.AccountID, page, perPage int) ([]*ledger.Event, int64, error) {
	args := m.Called(ctx, id, page, perPage)
	if args.Get(0) == nil {
		return nil, 0, args.Error(2)
	}
	return args.Get(0).([]*ledger.Event), args.Get(1).(int64), args.Error(2)
}
