package projector

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/simple-banking-ledger/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestHistoryProjectionService_Apply(t *testing.T) {
	ctx := context.Background()

	t.Run("appends event", func(t *testing.T) {
		history := new(MockHistoryRepository)
		service := NewHistoryProjectionService(history, newTestLogger())
		event := newWithdrawalEvent()

		history.On("Append", ctx, event).Return(nil).Once()

		assert.NoError(t, service.Apply(ctx, event))
		history.AssertExpectations(t)
	})

	t.Run("duplicate is acknowledged", func(t *testing.T) {
		history := new(MockHistoryRepository)
		service := NewHistoryProjectionService(history, newTestLogger())
		event := newWithdrawalEvent()

		history.On("Append", ctx, event).Return(ledger.ErrDuplicateEvent{EventID: event.ID}).Once()

		assert.NoError(t, service.Apply(ctx, event))
	})

	t.Run("store failure is returned", func(t *testing.T) {
		history := new(MockHistoryRepository)
		service := NewHistoryProjectionService(history, newTestLogger())
		event := newWithdrawalEvent()
		dbErr := errors.New("server selection timeout")

		history.On("Append", ctx, event).Return(dbErr).Once()

		err := service.Apply(ctx, event)
		assert.ErrorIs(t, err, dbErr)
		assert.NotErrorIs(t, err, ErrInvalidEvent)
	})

	invalid := []struct {
		name   string
		mutate func(e *ledger.Event)
	}{
		{"missing event id", func(e *ledger.Event) { e.ID = uuid.Nil }},
		{"missing account id", func(e *ledger.Event) { e.AccountID = 0 }},
		{"unknown type", func(e *ledger.Event) { e.Type = "TRANSFERRED" }},
		{"withdrawal without transaction", func(e *ledger.Event) { e.Transaction = nil }},
	}
	for _, tt := range invalid {
		t.Run(tt.name, func(t *testing.T) {
			history := new(MockHistoryRepository)
			service := NewHistoryProjectionService(history, newTestLogger())
			event := newWithdrawalEvent()
			tt.mutate(event)

			assert.ErrorIs(t, service.Apply(ctx, event), ErrInvalidEvent)
			history.AssertNotCalled(t, "Append", mock.Anything, mock.Anything)
		})
	}

	t.Run("nil event", func(t *testing.T) {
		service := NewHistoryProjectionService(new(MockHistoryRepository), newTestLogger())
		assert.ErrorIs(t, service.Apply(ctx, nil), ErrInvalidEvent)
	})
}
