package projector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/simple-banking-ledger/internal/domain/ledger"
)

// HistoryProjectionService appends every event to the history store exactly once
type HistoryProjectionService struct {
	history ledger.HistoryRepository
	logger  *slog.Logger
}

// NewHistoryProjectionService creates a new projection service
func NewHistoryProjectionService(history ledger.HistoryRepository, logger *slog.Logger) *HistoryProjectionService {
	return &HistoryProjectionService{history: history, logger: logger}
}

// Apply is idempotent: redelivered events are acknowledged without a second write.
func (s *HistoryProjectionService) Apply(ctx context.Context, event *ledger.Event) error {
	if err := validateEvent(event); err != nil {
		return err
	}

	logger := s.logger
	if event.CorrelationID != "" {
		logger = s.logger.With("correlation_id", event.CorrelationID)
	}

	err := s.history.Append(ctx, event)
	if errors.Is(err, ledger.ErrDuplicateEvent{}) {
		logger.Info("Event already projected, skipping",
			"event_id", event.ID.String(),
			"account_id", event.AccountID.String(),
		)
		return nil
	}
	if err != nil {
		return fmt.Errorf("failed to project event %s: %w", event.ID, err)
	}

	logger.Debug("Event projected",
		"event_id", event.ID.String(),
		"account_id", event.AccountID.String(),
		"type", string(event.Type),
		"version", event.Version,
	)
	return nil
}

func validateEvent(event *ledger.Event) error {
	if event == nil {
		return fmt.Errorf("%w: nil event", ErrInvalidEvent)
	}
	if event.ID == uuid.Nil {
		return fmt.Errorf("%w: missing event id", ErrInvalidEvent)
	}
	if event.AccountID <= 0 {
		return fmt.Errorf("%w: event %s has no account id", ErrInvalidEvent, event.ID)
	}

	switch event.Type {
	case ledger.EventAccountOpened, ledger.EventAccountClosed:
		return nil
	case ledger.EventDeposited, ledger.EventWithdrawn:
		if event.Transaction == nil {
			return fmt.Errorf("%w: %s event %s has no transaction", ErrInvalidEvent, event.Type, event.ID)
		}
		return nil
	default:
		return fmt.Errorf("%w: unknown type %q", ErrInvalidEvent, event.Type)
	}
}
