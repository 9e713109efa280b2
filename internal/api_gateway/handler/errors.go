package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/simple-banking-ledger/internal/api_gateway/middleware"
	"github.com/simple-banking-ledger/internal/api_gateway/service"
	"github.com/simple-banking-ledger/internal/domain/account"
	"github.com/simple-banking-ledger/internal/domain/money"
)

// Error codes returned in the response envelope
const (
	CodeInvalidAmount     = "INVALID_AMOUNT"
	CodeAccountClosed     = "ACCOUNT_CLOSED"
	CodeInsufficientFunds = "INSUFFICIENT_FUNDS"
)

// respondLedgerError renders a ledger failure. Anything that is not a domain error is logged
// and hidden behind a generic 500.
func respondLedgerError(c *gin.Context, logger *slog.Logger, op string, err error) {
	switch {
	case errors.Is(err, account.ErrAccountNotFound{}):
		RespondNotFound(c, "Account not found")
	case errors.Is(err, account.ErrInvalidInput):
		RespondBadRequest(c, "Owner name must not be empty")
	case errors.Is(err, service.ErrInvalidAccountType):
		RespondBadRequest(c, err.Error())
	case errors.Is(err, account.ErrBalanceOverflow):
		respondInvalidAmount(c, "Amount exceeds what the account balance can hold")
	case errors.Is(err, account.ErrInvalidAmount):
		respondInvalidAmount(c, "Amount must be positive")
	case errors.Is(err, account.ErrAccountClosed):
		RespondConflict(c, CodeAccountClosed, "Account is closed")
	case errors.Is(err, account.ErrInsufficientFunds):
		RespondConflict(c, CodeInsufficientFunds, "Insufficient funds")
	default:
		logger.Error("Ledger operation failed",
			"operation", op,
			"correlation_id", middleware.GetCorrelationID(c),
			"error", err,
		)
		RespondInternalError(c)
	}
}

// parseAmount converts a request amount to minor units, answering 400 on failure
func parseAmount(c *gin.Context, raw string) (int64, bool) {
	amount, err := money.ParseMinor(raw)
	if err != nil {
		respondInvalidAmount(c, "Invalid amount: "+err.Error())
		return 0, false
	}
	return amount, true
}

func respondInvalidAmount(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, CodeInvalidAmount, message)
}

// parseAccountID reads the :id path parameter, answering 400 when it is not a positive integer
func parseAccountID(c *gin.Context, logger *slog.Logger) (account.AccountID, bool) {
	idParam := c.Param("id")
	id, err := account.ParseID(idParam)
	if err != nil {
		logger.Warn("Invalid account ID", "id", idParam)
		RespondBadRequest(c, "Invalid account ID")
		return 0, false
	}
	return id, true
}
