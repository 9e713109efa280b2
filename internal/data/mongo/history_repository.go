// Package mongo holds the read-side projection of the ledger: every journaled event, stored once
// per event id, queryable per account.
package mongo

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/domain/ledger"
)

// HistoryRepository implements ledger.HistoryRepository on a MongoDB collection
type HistoryRepository struct {
	coll   *mongo.Collection
	logger *slog.Logger
}

// NewHistoryRepository creates a repository on coll
func NewHistoryRepository(logger *slog.Logger, coll *mongo.Collection) *HistoryRepository {
	return &HistoryRepository{coll: coll, logger: logger}
}

var _ ledger.HistoryRepository = (*HistoryRepository)(nil)

// EnsureIndexes creates the unique event id index that makes Append idempotent, and the
// per-account ordering index
func (r *HistoryRepository) EnsureIndexes(ctx context.Context) error {
	_, err := r.coll.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}},
			Options: options.Index().SetUnique(true).SetName("uniq_event_id"),
		},
		{
			Keys:    bson.D{{Key: "account_id", Value: 1}, {Key: "version", Value: 1}},
			Options: options.Index().SetName("account_version"),
		},
	})
	if err != nil {
		return fmt.Errorf("failed to create history indexes: %w", err)
	}
	return nil
}

// Append stores event. A second event with the same id yields ErrDuplicateEvent.
func (r *HistoryRepository) Append(ctx context.Context, event *ledger.Event) error {
	if _, err := r.coll.InsertOne(ctx, event); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ledger.ErrDuplicateEvent{EventID: event.ID}
		}
		r.logger.Error("Failed to append history event",
			"event_id", event.ID.String(),
			"account_id", event.AccountID.String(),
			"error", err)
		return fmt.Errorf("failed to append history event: %w", err)
	}
	return nil
}

// GetByEventID returns ErrEventNotFound when the event was never projected
func (r *HistoryRepository) GetByEventID(ctx context.Context, eventID uuid.UUID) (*ledger.Event, error) {
	var event ledger.Event
	err := r.coll.FindOne(ctx, bson.M{"event_id": eventID}).Decode(&event)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ledger.ErrEventNotFound{EventID: eventID}
		}
		r.logger.Error("Failed to get history event", "event_id", eventID.String(), "error", err)
		return nil, fmt.Errorf("failed to get history event: %w", err)
	}
	return &event, nil
}

// GetByAccountID pages through an account's events oldest first
func (r *HistoryRepository) GetByAccountID(ctx context.Context, accountID account.AccountID, limit, offset int) ([]*ledger.Event, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "version", Value: 1}}).
		SetSkip(int64(offset)).
		SetLimit(int64(limit))

	cursor, err := r.coll.Find(ctx, bson.M{"account_id": accountID}, opts)
	if err != nil {
		r.logger.Error("Failed to query history", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to query history: %w", err)
	}
	defer cursor.Close(ctx)

	var events []*ledger.Event
	if err := cursor.All(ctx, &events); err != nil {
		r.logger.Error("Failed to decode history", "account_id", accountID.String(), "error", err)
		return nil, fmt.Errorf("failed to decode history: %w", err)
	}
	return events, nil
}

// CountByAccountID counts the projected events of an account
func (r *HistoryRepository) CountByAccountID(ctx context.Context, accountID account.AccountID) (int64, error) {
	count, err := r.coll.CountDocuments(ctx, bson.M{"account_id": accountID})
	if err != nil {
		r.logger.Error("Failed to count history", "account_id", accountID.String(), "error", err)
		return 0, fmt.Errorf("failed to count history: %w", err)
	}
	return count, nil
}
