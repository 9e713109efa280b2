package projector

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/simple-banking-ledger/internal/config"
	"github.com/simple-banking-ledger/internal/domain/ledger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestWorkerPoolProjectionService_Apply(t *testing.T) {
	tests := []struct {
		name          string
		returnErr     error
		expectedError string
	}{
		{name: "successful projection"},
		{name: "projection error", returnErr: errors.New("projection error"), expectedError: "projection error"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			base := new(MockProjectionService)
			service, err := NewWorkerPoolProjectionService(base, WorkerPoolConfig{Size: 2}, newTestLogger())
			require.NoError(t, err)
			defer service.Shutdown()

			event := newWithdrawalEvent()
			base.On("Apply", mock.Anything, mock.MatchedBy(func(e *ledger.Event) bool {
				return e.ID == event.ID
			})).Return(tt.returnErr).Once()

			err = service.Apply(context.Background(), event)
			if tt.expectedError != "" {
				assert.ErrorContains(t, err, tt.expectedError)
			} else {
				assert.NoError(t, err)
			}
			base.AssertExpectations(t)
		})
	}
}

func TestWorkerPoolProjectionService_ContextCanceled(t *testing.T) {
	base := new(MockProjectionService)
	service, err := NewWorkerPoolProjectionService(base, WorkerPoolConfig{Size: 1}, newTestLogger())
	require.NoError(t, err)
	defer service.Shutdown()

	release := make(chan struct{})
	base.On("Apply", mock.Anything, mock.Anything).Run(func(mock.Arguments) { <-release }).Return(nil).Once()

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	err = service.Apply(ctx, newWithdrawalEvent())
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	close(release)
}

func TestWorkerPoolProjectionService_Concurrency(t *testing.T) {
	base := new(MockProjectionService)
	service, err := NewWorkerPoolProjectionService(base, WorkerPoolConfig{Size: 5}, newTestLogger())
	require.NoError(t, err)
	defer service.Shutdown()

	var counter atomic.Int32
	base.On("Apply", mock.Anything, mock.Anything).Run(func(mock.Arguments) {
		time.Sleep(10 * time.Millisecond)
		counter.Add(1)
	}).Return(nil)

	numEvents := 10
	var wg sync.WaitGroup
	wg.Add(numEvents)
	for i := 0; i < numEvents; i++ {
		go func() {
			defer wg.Done()
			event := newWithdrawalEvent()
			event.ID = uuid.New()
			assert.NoError(t, service.Apply(context.Background(), event))
		}()
	}
	wg.Wait()

	assert.Equal(t, int32(numEvents), counter.Load())
	assert.Equal(t, 5, service.Capacity())
}

func TestCreateProjectionService(t *testing.T) {
	cfg := &config.Config{WorkerPool: config.WorkerPoolConfig{Size: 3}}

	service, pool := CreateProjectionService(new(MockHistoryRepository), newTestLogger(), cfg)
	require.NotNil(t, pool)
	defer pool.Shutdown()

	assert.Same(t, pool, service)
	assert.Equal(t, 3, pool.Capacity())
}
