package ledger

import (
	"context"

	"github.com/google/uuid"
	"github.com/simple-banking-ledger/internal/domain/account"
)

// HistoryRepository stores the projected event history with pagination support
type HistoryRepository interface {
	Append(ctx context.Context, event *Event) error
	GetByEventID(ctx context.Context, eventID uuid.UUID) (*Event, error)
	GetByAccountID(ctx context.Context, accountID account.AccountID, limit, offset int) ([]*Event, error)
	CountByAccountID(ctx context.Context, accountID account.AccountID) (int64, error)
}

// ErrEventNotFound indicates missing history event
type ErrEventNotFound struct {
	EventID uuid.UUID
}

func (e ErrEventNotFound) Error() string {
	return "ledger event not found: " + e.EventID.String()
}

// Is implements the errors.Is interface for ErrEventNotFound
func (e ErrEventNotFound) Is(target error) bool {
	t, ok := target.(ErrEventNotFound)
	if !ok {
		return false
	}
	// If the target EventID is empty, consider it a match for any ErrEventNotFound
	if t.EventID == uuid.Nil {
		return true
	}
	return e.EventID == t.EventID
}

// ErrDuplicateEvent indicates event uniqueness violation
type ErrDuplicateEvent struct {
	EventID uuid.UUID
}

func (e ErrDuplicateEvent) Error() string {
	return "duplicate ledger event: " + e.EventID.String()
}

// Is implements the errors.Is interface for ErrDuplicateEvent
func (e ErrDuplicateEvent) Is(target error) bool {
	t, ok := target.(ErrDuplicateEvent)
	if !ok {
		return false
	}
	if t.EventID == uuid.Nil {
		return true
	}
	return e.EventID == t.EventID
}
