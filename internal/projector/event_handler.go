package projector

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/simple-banking-ledger/internal/domain/ledger"
	"github.com/simple-banking-ledger/internal/platform/messaging/producers"
)

// EventHandler handles ledger event messages from Kafka
type EventHandler struct {
	projection ProjectionService
	dlq        producers.DeadLetterPublisher
	logger     *slog.Logger
}

// NewEventHandler creates a new handler. dlq may be nil.
func NewEventHandler(
	logger *slog.Logger,
	projection ProjectionService,
	dlq producers.DeadLetterPublisher,
) *EventHandler {
	return &EventHandler{
		projection: projection,
		dlq:        dlq,
		logger:     logger,
	}
}

// HandleMessage decodes and projects one message. A nil return commits the offset, so
// messages that can never succeed are parked on the DLQ and acknowledged.
func (h *EventHandler) HandleMessage(ctx context.Context, key []byte, value []byte) error {
	var event ledger.Event
	if err := json.Unmarshal(value, &event); err != nil {
		h.logger.Error("Failed to unmarshal ledger event from Kafka message",
			"error", err,
			"message_key", string(key),
		)
		return h.deadLetter(ctx, key, value, fmt.Errorf("failed to unmarshal message value: %w", err))
	}

	logger := h.logger
	if event.CorrelationID != "" {
		logger = h.logger.With("correlation_id", event.CorrelationID)
	}

	if err := h.projection.Apply(ctx, &event); err != nil {
		if errors.Is(err, ErrInvalidEvent) {
			logger.Error("Rejected ledger event", "event_id", event.ID.String(), "error", err)
			return h.deadLetter(ctx, key, value, err)
		}
		logger.Error("Failed to project ledger event",
			"event_id", event.ID.String(),
			"account_id", event.AccountID.String(),
			"error", err,
		)
		return fmt.Errorf("projecting event %s failed: %w", event.ID.String(), err)
	}

	return nil
}

// deadLetter parks the message and returns nil, or returns cause when no DLQ can take it
func (h *EventHandler) deadLetter(ctx context.Context, key, value []byte, cause error) error {
	if h.dlq == nil {
		return cause
	}

	if dlqErr := h.dlq.PublishToDLQ(ctx, string(key), value, cause.Error()); dlqErr != nil {
		h.logger.Error("Failed to publish message to DLQ",
			"dlq_error", dlqErr,
			"original_error", cause,
			"message_key", string(key),
		)
		return cause
	}

	h.logger.Info("Published unprocessable message to DLQ", "message_key", string(key), "reason", cause.Error())
	return nil
}
