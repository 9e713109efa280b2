package account

import (
	"errors"
	"fmt"
)

// Common errors
var (
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidAmount     = errors.New("amount must be positive")
	ErrAccountClosed     = errors.New("account is closed")
	ErrInsufficientFunds = errors.New("insufficient funds for withdrawal")

	// ErrBalanceOverflow is an ErrInvalidAmount for deposits the balance cannot hold
	ErrBalanceOverflow = fmt.Errorf("%w: deposit would overflow the balance", ErrInvalidAmount)
)

// ErrAccountNotFound indicates missing account
type ErrAccountNotFound struct {
	AccountID AccountID
}

func (e ErrAccountNotFound) Error() string {
	return "account not found: " + e.AccountID.String()
}

// Is implements the errors.Is interface for ErrAccountNotFound
func (e ErrAccountNotFound) Is(target error) bool {
	t, ok := target.(ErrAccountNotFound)
	if !ok {
		return false
	}
	// A zero target AccountID matches any ErrAccountNotFound
	if t.AccountID == 0 {
		return true
	}
	return e.AccountID == t.AccountID
}

// ErrConcurrentModification indicates an optimistic lock failure while persisting an account
type ErrConcurrentModification struct {
	AccountID AccountID
}

func (e ErrConcurrentModification) Error() string {
	return "concurrent modification detected for account: " + e.AccountID.String()
}
