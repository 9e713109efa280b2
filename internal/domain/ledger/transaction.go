package ledger

import (
	"time"

	"github.com/google/uuid"
	"github.com/simple-banking-ledger/internal/domain/account"
)

// Kind defines possible transaction operations
type Kind string

const (
	KindDeposit    Kind = "DEPOSIT"
	KindWithdrawal Kind = "WITHDRAWAL"
)

// Transaction is an immutable record of one deposit or withdrawal
type Transaction struct {
	ID               uuid.UUID         `json:"id" bson:"id"`
	AccountID        account.AccountID `json:"account_id" bson:"account_id"`
	Sequence         int64             `json:"sequence" bson:"sequence"` // 1-based position in the account history
	Kind             Kind              `json:"kind" bson:"kind"`
	Amount           int64             `json:"amount" bson:"amount"`                       // Stored in cents/minor units
	ResultingBalance int64             `json:"resulting_balance" bson:"resulting_balance"` // Balance right after this transaction
	Timestamp        time.Time         `json:"timestamp" bson:"timestamp"`
}

// Signed returns the amount as it affects the balance
func (t Transaction) Signed() int64 {
	if t.Kind == KindWithdrawal {
		return -t.Amount
	}
	return t.Amount
}
