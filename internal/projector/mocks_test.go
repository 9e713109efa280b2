package projector

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/domain/ledger"
	"github.com/stretchr/testify/mock"
)

// MockHistoryRepository mocks ledger.HistoryRepository
type MockHistoryRepository struct {
	mock.Mock
}

func (m *MockHistoryRepository) Append(ctx context.Context, event *ledger.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

func (m *MockHistoryRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) (*ledger.Event, error) {
	args := m.Called(ctx, eventID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*ledger.Event), args.Error(1)
}

func (m *MockHistoryRepository) GetByAccountID(ctx context.Context, accountID account.AccountID, limit, offset int) ([]*ledger.Event, error) {
	args := m.Called(ctx, accountID, limit, offset)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*ledger.Event), args.Error(1)
}

func (m *MockHistoryRepository) CountByAccountID(ctx context.Context, accountID account.AccountID) (int64, error) {
	args := m.Called(ctx, accountID)
	return args.Get(0).(int64), args.Error(1)
}

// MockProjectionService mocks ProjectionService
type MockProjectionService struct {
	mock.Mock
}

func (m *MockProjectionService) Apply(ctx context.Context, event *ledger.Event) error {
	args := m.Called(ctx, event)
	return args.Error(0)
}

// MockDeadLetterPublisher for testing
type MockDeadLetterPublisher struct {
	mock.Mock
}

func (m *MockDeadLetterPublisher) PublishToDLQ(ctx context.Context, key string, value []byte, reason string) error {
	args := m.Called(ctx, key, value, reason)
	return args.Error(0)
}

func (m *MockDeadLetterPublisher) Close() error {
	args := m.Called()
	return args.Error(0)
}

func newTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newWithdrawalEvent() *ledger.Event {
	now := time.Now().UTC().Truncate(time.Millisecond)
	return &ledger.Event{
		ID:        uuid.New(),
		Type:      ledger.EventWithdrawn,
		AccountID: 1,
		Transaction: &ledger.Transaction{
			ID:               uuid.New(),
			AccountID:        1,
			Sequence:         2,
			Kind:             ledger.KindWithdrawal,
			Amount:           3000,
			ResultingBalance: 7000,
			Timestamp:        now,
		},
		Balance:       7000,
		Version:       3,
		CorrelationID: "corr-1",
		OccurredAt:    now,
	}
}
