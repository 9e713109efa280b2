package outbox

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/domain/ledger"
)

// Status defines message publishing states
type Status string

const (
	StatusPending         Status = "PENDING"
	StatusProcessed       Status = "PROCESSED"
	StatusFailedToPublish Status = "FAILED_TO_PUBLISH"
)

// Message stores a ledger event for reliable publishing to Kafka
type Message struct {
	ID            int64             `json:"id"`
	EventID       uuid.UUID         `json:"event_id"`
	AccountID     account.AccountID `json:"account_id"`
	Payload       json.RawMessage   `json:"payload"`
	Status        Status            `json:"status"`
	Attempts      int               `json:"attempts"`
	CreatedAt     time.Time         `json:"created_at"`
	LastAttemptAt *time.Time        `json:"last_attempt_at,omitempty"`
}

func NewMessage(event *ledger.Event) (*Message, error) {
	payload, err := json.Marshal(event)
	if err != nil {
		return nil, err
	}

	return &Message{
		EventID:   event.ID,
		AccountID: event.AccountID,
		Payload:   payload,
		Status:    StatusPending,
		Attempts:  0,
		CreatedAt: event.OccurredAt,
	}, nil
}

// GetEvent extracts the ledger event from the payload
func (m *Message) GetEvent() (*ledger.Event, error) {
	var event ledger.Event
	if err := json.Unmarshal(m.Payload, &event); err != nil {
		return nil, err
	}
	return &event, nil
}
