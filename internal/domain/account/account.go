package account

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// AccountID identifies an account. Ids are allocated sequentially from 1 and never reused.
type AccountID int64

func (id AccountID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// ParseID parses a decimal account id as it appears in URLs and messages
func ParseID(s string) (AccountID, error) {
	v, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil || v <= 0 {
		return 0, ErrInvalidInput
	}
	return AccountID(v), nil
}

// Status is the lifecycle state of an account
type Status string

const (
	StatusActive Status = "ACTIVE"
	StatusClosed Status = "CLOSED"
)

// Type is the product an account was opened as
type Type string

const (
	TypeSavings  Type = "SAVINGS"
	TypeChecking Type = "CHECKING"
)

// ParseType normalizes a user supplied account type. An empty value yields def.
func ParseType(s string, def Type) (Type, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "":
		return def, nil
	case string(TypeSavings):
		return TypeSavings, nil
	case string(TypeChecking):
		return TypeChecking, nil
	default:
		return "", ErrInvalidInput
	}
}

// Account represents a bank account
type Account struct {
	ID        AccountID  `json:"id"`
	OwnerName string     `json:"owner_name"`
	Type      Type       `json:"type"`
	Balance   int64      `json:"balance"` // Stored in cents/minor units
	Status    Status     `json:"status"`
	Version   int        `json:"version"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
	ClosedAt  *time.Time `json:"closed_at,omitempty"`
}

// NewAccount creates an ACTIVE account with a zero balance
func NewAccount(id AccountID, ownerName string, accountType Type, now time.Time) (*Account, error) {
	ownerName = strings.TrimSpace(ownerName)
	if ownerName == "" {
		return nil, ErrInvalidInput
	}
	if accountType == "" {
		accountType = TypeSavings
	}
	if accountType != TypeSavings && accountType != TypeChecking {
		return nil, ErrInvalidInput
	}

	return &Account{
		ID:        id,
		OwnerName: ownerName,
		Type:      accountType,
		Balance:   0,
		Status:    StatusActive,
		Version:   1,
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// IsClosed reports whether the account no longer accepts transactions
func (a *Account) IsClosed() bool {
	return a.Status == StatusClosed
}

func (a *Account) checkMovement(amount int64) error {
	if amount <= 0 {
		return ErrInvalidAmount
	}
	if a.IsClosed() {
		return ErrAccountClosed
	}
	return nil
}

// CheckDeposit validates a deposit without applying it
func (a *Account) CheckDeposit(amount int64) error {
	if err := a.checkMovement(amount); err != nil {
		return err
	}
	if amount > math.MaxInt64-a.Balance {
		return ErrBalanceOverflow
	}
	return nil
}

// CheckWithdraw validates a withdrawal without applying it
func (a *Account) CheckWithdraw(amount int64) error {
	if err := a.checkMovement(amount); err != nil {
		return err
	}
	if !a.CanWithdraw(amount) {
		return ErrInsufficientFunds
	}
	return nil
}

// Deposit adds the specified amount to the account balance
func (a *Account) Deposit(amount int64, now time.Time) error {
	if err := a.CheckDeposit(amount); err != nil {
		return err
	}

	a.Balance += amount
	a.UpdatedAt = now
	a.Version++
	return nil
}

// Withdraw subtracts the specified amount from the account balance
func (a *Account) Withdraw(amount int64, now time.Time) error {
	if err := a.CheckWithdraw(amount); err != nil {
		return err
	}

	a.Balance -= amount
	a.UpdatedAt = now
	a.Version++
	return nil
}

// Close marks the account CLOSED. Closing twice is a no-op and reports false.
func (a *Account) Close(now time.Time) bool {
	if a.IsClosed() {
		return false
	}
	a.Status = StatusClosed
	a.UpdatedAt = now
	a.ClosedAt = &now
	a.Version++
	return true
}

// CanWithdraw checks if the account has sufficient funds for a withdrawal
func (a *Account) CanWithdraw(amount int64) bool {
	return a.Balance >= amount
}
