package postgres

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/jackc/pgx/v5"
	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/domain/ledger"
	"github.com/simple-banking-ledger/internal/platform/persistence"
)

// TransactionRepository stores the append-only transaction log
type TransactionRepository struct {
	querier persistence.Querier
	logger  *slog.Logger
}

// NewTransactionRepository creates a repository on the pool
func NewTransactionRepository(logger *slog.Logger, db *persistence.PostgresDB) *TransactionRepository {
	return &TransactionRepository{querier: db.Pool(), logger: logger}
}

// WithTx returns a copy bound to tx
func (r *TransactionRepository) WithTx(tx pgx.Tx) *TransactionRepository {
	return &TransactionRepository{querier: tx, logger: r.logger}
}

// Create appends one transaction. (account_id, sequence) is unique, so a replayed event fails.
func (r *TransactionRepository) Create(ctx context.Context, txn *ledger.Transaction) error {
	query := `
		INSERT INTO transactions (id, account_id, sequence, kind, amount, resulting_balance, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	_, err := r.querier.Exec(ctx, query,
		txn.ID,
		txn.AccountID,
		txn.Sequence,
		txn.Kind,
		txn.Amount,
		txn.ResultingBalance,
		txn.Timestamp,
	)
	if err != nil {
		r.logger.Error("Failed to create transaction",
			"transaction_id", txn.ID.String(),
			"account_id", txn.AccountID.String(),
			"error", err,
		)
		return fmt.Errorf("failed to create transaction: %w", err)
	}

	return nil
}

// ListAll returns every transaction grouped by account, each group in sequence order
func (r *TransactionRepository) ListAll(ctx context.Context) (map[account.AccountID][]ledger.Transaction, error) {
	query := `
		SELECT id, account_id, sequence, kind, amount, resulting_balance, created_at
		FROM transactions
		ORDER BY account_id ASC, sequence ASC
	`

	rows, err := r.querier.Query(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list transactions", "error", err)
		return nil, fmt.Errorf("failed to list transactions: %w", err)
	}
	defer rows.Close()

	byAccount := make(map[account.AccountID][]ledger.Transaction)
	for rows.Next() {
		var txn ledger.Transaction
		if err := rows.Scan(
			&txn.ID,
			&txn.AccountID,
			&txn.Sequence,
			&txn.Kind,
			&txn.Amount,
			&txn.ResultingBalance,
			&txn.Timestamp,
		); err != nil {
			return nil, fmt.Errorf("failed to scan transaction: %w", err)
		}
		byAccount[txn.AccountID] = append(byAccount[txn.AccountID], txn)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating over transactions: %w", err)
	}

	return byAccount, nil
}
