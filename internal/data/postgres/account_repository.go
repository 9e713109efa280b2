// Package postgres persists the ledger journal: account rows, the append-only transaction log and
// the transactional outbox. Every write for one ledger event happens in a single transaction.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/platform/persistence"
)

// AccountRepository stores account state rows
type AccountRepository struct {
	querier persistence.Querier // *pgxpool.Pool or pgx.Tx
	logger  *slog.Logger
}

// NewAccountRepository creates a repository on the pool
func NewAccountRepository(logger *slog.Logger, db *persistence.PostgresDB) *AccountRepository {
	return &AccountRepository{querier: db.Pool(), logger: logger}
}

// WithTx returns a copy bound to tx
func (r *AccountRepository) WithTx(tx pgx.Tx) *AccountRepository {
	return &AccountRepository{querier: tx, logger: r.logger}
}

// Create inserts a newly opened account
func (r *AccountRepository) Create(ctx context.Context, acc *account.Account) error {
	query := `
		INSERT INTO accounts (id, owner_name, account_type, balance, status, version, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`

	_, err := r.querier.Exec(ctx, query,
		acc.ID,
		acc.OwnerName,
		acc.Type,
		acc.Balance,
		acc.Status,
		acc.Version,
		acc.CreatedAt,
		acc.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create account", "account_id", acc.ID.String(), "error", err)
		return fmt.Errorf("failed to create account: %w", err)
	}

	return nil
}

// UpdateBalance writes the balance produced by a transaction. The row must still be at
// version-1, otherwise ErrConcurrentModification is returned.
func (r *AccountRepository) UpdateBalance(ctx context.Context, id account.AccountID, balance int64, version int, updatedAt time.Time) error {
	query := `
		UPDATE accounts
		SET balance = $1, version = $2, updated_at = $3
		WHERE id = $4 AND version = $5 AND status = 'ACTIVE'
	`

	result, err := r.querier.Exec(ctx, query, balance, version, updatedAt, id, version-1)
	if err != nil {
		r.logger.Error("Failed to update account balance", "account_id", id.String(), "error", err)
		return fmt.Errorf("failed to update account balance: %w", err)
	}
	if result.RowsAffected() == 0 {
		return account.ErrConcurrentModification{AccountID: id}
	}

	return nil
}

// MarkClosed flips the account to CLOSED with the same version check as UpdateBalance
func (r *AccountRepository) MarkClosed(ctx context.Context, id account.AccountID, version int, closedAt time.Time) error {
	query := `
		UPDATE accounts
		SET status = 'CLOSED', version = $1, updated_at = $2, closed_at = $2
		WHERE id = $3 AND version = $4
	`

	result, err := r.querier.Exec(ctx, query, version, closedAt, id, version-1)
	if err != nil {
		r.logger.Error("Failed to close account", "account_id", id.String(), "error", err)
		return fmt.Errorf("failed to close account: %w", err)
	}
	if result.RowsAffected() == 0 {
		return account.ErrConcurrentModification{AccountID: id}
	}

	return nil
}

// List returns every account ordered by id, which is creation order
func (r *AccountRepository) List(ctx context.Context) ([]account.Account, error) {
	query := `
		SELECT id, owner_name, account_type, balance, status, version, created_at, updated_at, closed_at
		FROM accounts
		ORDER BY id ASC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list accounts", "error", err)
		return nil, fmt.Errorf("failed to list accounts: %w", err)
	}
	defer rows.Close()

	var accounts []account.Account
	for rows.Next() {
		acc, err := scanAccount(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan account: %w", err)
		}
		accounts = append(accounts, *acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over accounts: %w", err)
	}

	return accounts, nil
}

func scanAccount(row pgx.Row) (*account.Account, error) {
	var acc account.Account
	err := row.Scan(
		&acc.ID,
		&acc.OwnerName,
		&acc.Type,
		&acc.Balance,
		&acc.Status,
		&acc.Version,
		&acc.CreatedAt,
		&acc.UpdatedAt,
		&acc.ClosedAt,
	)
	if err != nil {
		return nil, err
	}
	return &acc, nil
}
