package ledger

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/simple-banking-ledger/internal/domain/account"
)

// EventType defines the kinds of state change the ledger emits
type EventType string

const (
	EventAccountOpened EventType = "ACCOUNT_OPENED"
	EventDeposited     EventType = "DEPOSITED"
	EventWithdrawn     EventType = "WITHDRAWN"
	EventAccountClosed EventType = "ACCOUNT_CLOSED"
)

// Event describes a single ledger mutation. It is journaled before the mutation is applied,
// relayed through the outbox and projected into the history store.
type Event struct {
	ID            uuid.UUID         `json:"event_id" bson:"event_id"`
	Type          EventType         `json:"type" bson:"type"`
	AccountID     account.AccountID `json:"account_id" bson:"account_id"`
	OwnerName     string            `json:"owner_name,omitempty" bson:"owner_name,omitempty"`
	AccountType   account.Type      `json:"account_type,omitempty" bson:"account_type,omitempty"`
	Transaction   *Transaction      `json:"transaction,omitempty" bson:"transaction,omitempty"`
	Balance       int64             `json:"balance" bson:"balance"` // Balance after the event
	Version       int               `json:"version" bson:"version"` // Account version after the event
	CorrelationID string            `json:"correlation_id,omitempty" bson:"correlation_id,omitempty"`
	OccurredAt    time.Time         `json:"occurred_at" bson:"occurred_at"`
}

// PartitionKey keeps every event of one account on the same Kafka partition
func (e *Event) PartitionKey() string {
	return e.AccountID.String()
}

type correlationKey struct{}

// WithCorrelationID returns a context carrying the request correlation id
func WithCorrelationID(ctx context.Context, correlationID string) context.Context {
	if correlationID == "" {
		return ctx
	}
	return context.WithValue(ctx, correlationKey{}, correlationID)
}

// CorrelationIDFromContext returns the correlation id stored by WithCorrelationID, if any
func CorrelationIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	id, _ := ctx.Value(correlationKey{}).(string)
	return id
}
