package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/simple-banking-ledger/internal/api_gateway/service"
	"github.com/simple-banking-ledger/internal/domain/account"
)

// TransactionHandler handles deposits, withdrawals and history queries
type TransactionHandler struct {
	transactionService service.TransactionService
	pages              PageConfig
	logger             *slog.Logger
}

// NewTransactionHandler creates a new transaction handler
func NewTransactionHandler(logger *slog.Logger, transactionService service.TransactionService, pages PageConfig) *TransactionHandler {
	return &TransactionHandler{
		transactionService: transactionService,
		pages:              pages,
		logger:             logger,
	}
}

// Deposit credits an account and returns the new balance
func (h *TransactionHandler) Deposit(c *gin.Context) {
	h.move(c, "deposit", h.transactionService.Deposit)
}

// Withdraw debits an account and returns the new balance
func (h *TransactionHandler) Withdraw(c *gin.Context) {
	h.move(c, "withdraw", h.transactionService.Withdraw)
}

type moveFunc func(ctx context.Context, id account.AccountID, amount int64) (int64, error)

func (h *TransactionHandler) move(c *gin.Context, op string, fn moveFunc) {
	id, ok := parseAccountID(c, h.logger)
	if !ok {
		return
	}

	var req AmountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	amount, ok := parseAmount(c, req.Amount)
	if !ok {
		return
	}

	balance, err := fn(c.Request.Context(), id, amount)
	if err != nil {
		respondLedgerError(c, h.logger, op, err)
		return
	}

	RespondOK(c, mapBalanceToResponse(id, balance))
}

// GetByAccountID lists an account's transactions, oldest first
func (h *TransactionHandler) GetByAccountID(c *gin.Context) {
	id, ok := parseAccountID(c, h.logger)
	if !ok {
		return
	}

	var pagination PaginationParams
	if err := c.ShouldBindQuery(&pagination); err != nil {
		RespondBadRequest(c, "Invalid pagination parameters: "+err.Error())
		return
	}
	if pagination.PerPage == 0 {
		pagination.PerPage = h.pages.DefaultPageSize
	}
	pagination.PerPage = min(pagination.PerPage, h.pages.MaxPageSize)

	txns, total, err := h.transactionService.GetTransactionsByAccountID(c.Request.Context(), id, pagination.Page, pagination.PerPage)
	if err != nil {
		respondLedgerError(c, h.logger, "list_transactions", err)
		return
	}

	response := make([]TransactionResponse, 0, len(txns))
	for _, txn := range txns {
		response = append(response, mapTransactionToResponse(txn))
	}
	RespondWithPaginatedData(c, http.StatusOK, response, pagination.Page, pagination.PerPage, int(total))
}
