package api_gateway

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/simple-banking-ledger/internal/api_gateway/handler"
	"github.com/simple-banking-ledger/internal/api_gateway/middleware"
)

// setupRouter configures API routes and middleware for the application
func setupRouter(
	logger *slog.Logger,
	r *gin.Engine,
	accountHandler *handler.AccountHandler,
	transactionHandler *handler.TransactionHandler,
) {
	setupCommon(logger, r)

	v1 := r.Group("/api/v1")
	{
		accounts := v1.Group("/accounts")
		{
			accounts.POST("", accountHandler.Create)
			accounts.GET("", accountHandler.List)
			accounts.GET("/:id", accountHandler.GetByID)
			accounts.DELETE("/:id", accountHandler.Close)
			accounts.GET("/:id/balance", accountHandler.GetBalance)

			accounts.POST("/:id/deposits", transactionHandler.Deposit)
			accounts.POST("/:id/withdrawals", transactionHandler.Withdraw)
			accounts.GET("/:id/transactions", transactionHandler.GetByAccountID)
		}
	}
}

// setupHistoryRouter configures the read-only audit routes served by the projector
func setupHistoryRouter(logger *slog.Logger, r *gin.Engine, historyHandler *handler.HistoryHandler) {
	setupCommon(logger, r)

	history := r.Group("/api/v1/history")
	{
		history.GET("/events/:event_id", historyHandler.GetEvent)
		history.GET("/accounts/:id/events", historyHandler.GetByAccountID)
	}
}

func setupCommon(logger *slog.Logger, r *gin.Engine) {
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.CorrelationID())
	r.Use(middleware.Logger(logger))

	// Health check endpoint for monitoring
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok", "timestamp": time.Now().UTC()})
	})
}
