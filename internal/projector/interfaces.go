// Package projector consumes relayed ledger events and maintains the history projection.
package projector

import (
	"context"
	"errors"

	"github.com/simple-banking-ledger/internal/domain/ledger"
)

// ErrInvalidEvent marks an event that can never be projected, so retrying it is pointless
var ErrInvalidEvent = errors.New("invalid ledger event")

// ProjectionService applies one ledger event to the read model
type ProjectionService interface {
	Apply(ctx context.Context, event *ledger.Event) error
}
