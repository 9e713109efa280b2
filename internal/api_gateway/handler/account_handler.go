package handler

import (
	"log/slog"

	"github.com/gin-gonic/gin"
	"github.com/simple-banking-ledger/internal/api_gateway/service"
)

// AccountHandler handles HTTP requests for account operations
type AccountHandler struct {
	accountService service.AccountService
	logger         *slog.Logger
}

// NewAccountHandler creates a new account handler
func NewAccountHandler(logger *slog.Logger, accountService service.AccountService) *AccountHandler {
	return &AccountHandler{
		accountService: accountService,
		logger:         logger,
	}
}

// Create opens a new account
func (h *AccountHandler) Create(c *gin.Context) {
	var req CreateAccountRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("Invalid request body", "error", err)
		RespondBadRequest(c, "Invalid request body: "+err.Error())
		return
	}

	var initialDeposit int64
	if req.InitialDeposit != "" {
		var ok bool
		if initialDeposit, ok = parseAmount(c, req.InitialDeposit); !ok {
			return
		}
	}

	acc, err := h.accountService.CreateAccount(c.Request.Context(), req.OwnerName, req.AccountType, initialDeposit)
	if err != nil {
		respondLedgerError(c, h.logger, "create_account", err)
		return
	}

	RespondCreated(c, mapAccountToResponse(acc))
}

// List returns every account in creation order
func (h *AccountHandler) List(c *gin.Context) {
	accounts, err := h.accountService.ListAccounts(c.Request.Context())
	if err != nil {
		respondLedgerError(c, h.logger, "list_accounts", err)
		return
	}

	response := make([]AccountResponse, 0, len(accounts))
	for _, acc := range accounts {
		response = append(response, mapAccountToResponse(acc))
	}
	RespondOK(c, response)
}

// GetByID retrieves an account by its ID, returning 404 if not found
func (h *AccountHandler) GetByID(c *gin.Context) {
	id, ok := parseAccountID(c, h.logger)
	if !ok {
		return
	}

	acc, err := h.accountService.GetAccountByID(c.Request.Context(), id)
	if err != nil {
		respondLedgerError(c, h.logger, "get_account", err)
		return
	}

	RespondOK(c, mapAccountToResponse(acc))
}

// GetBalance returns the current balance of an account
func (h *AccountHandler) GetBalance(c *gin.Context) {
	id, ok := parseAccountID(c, h.logger)
	if !ok {
		return
	}

	balance, err := h.accountService.GetBalance(c.Request.Context(), id)
	if err != nil {
		respondLedgerError(c, h.logger, "get_balance", err)
		return
	}

	RespondOK(c, mapBalanceToResponse(id, balance))
}

// Close closes an account. Closing an already closed account also answers 204.
func (h *AccountHandler) Close(c *gin.Context) {
	id, ok := parseAccountID(c, h.logger)
	if !ok {
		return
	}

	if err := h.accountService.CloseAccount(c.Request.Context(), id); err != nil {
		respondLedgerError(c, h.logger, "close_account", err)
		return
	}

	RespondNoContent(c)
}
