package service

import (
	"context"

	"github.com/google/uuid"
	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/domain/ledger"
)

// HistoryServiceImpl implements HistoryService on the projected history store
type HistoryServiceImpl struct {
	repo ledger.HistoryRepository
}

// NewHistoryService creates a history service reading from repo
func NewHistoryService(repo ledger.HistoryRepository) HistoryService {
	return &HistoryServiceImpl{repo: repo}
}

func (s *HistoryServiceImpl) GetEvent(ctx context.Context, eventID uuid.UUID) (*ledger.Event, error) {
	return s.repo.GetByEventID(ctx, eventID)
}

// GetEventsByAccountID counts first so a page past the end skips the query
func (s *HistoryServiceImpl) GetEventsByAccountID(ctx context.Context, id account.AccountID, page, perPage int) ([]*ledger.Event, int64, error) {
	total, err := s.repo.CountByAccountID(ctx, id)
	if err != nil {
		return nil, 0, err
	}

	offset := pageOffset(page, perPage)
	if int64(offset) >= total {
		return []*ledger.Event{}, total, nil
	}

	events, err := s.repo.GetByAccountID(ctx, id, perPage, offset)
	if err != nil {
		return nil, 0, err
	}
	return events, total, nil
}
