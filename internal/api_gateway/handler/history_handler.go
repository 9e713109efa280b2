package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/simple-banking-ledger/internal/api_gateway/middleware"
	"github.com/simple-banking-ledger/internal/api_gateway/service"
	"github.com/simple-banking-ledger/internal/domain/ledger"
)

// HistoryHandler serves read-only audit queries over the projected event history
type HistoryHandler struct {
	historyService service.HistoryService
	logger         *slog.Logger
	pages          PageConfig
}

// NewHistoryHandler creates a new history handler
func NewHistoryHandler(logger *slog.Logger, historyService service.HistoryService, pages PageConfig) *HistoryHandler {
	return &HistoryHandler{
		historyService: historyService,
		logger:         logger,
		pages:          pages,
	}
}

// GetEvent returns one projected event, 404 if the projection has not seen it
func (h *HistoryHandler) GetEvent(c *gin.Context) {
	eventID, err := uuid.Parse(c.Param("event_id"))
	if err != nil {
		RespondBadRequest(c, "Invalid event ID")
		return
	}

	event, err := h.historyService.GetEvent(c.Request.Context(), eventID)
	if err != nil {
		if errors.Is(err, ledger.ErrEventNotFound{}) {
			RespondNotFound(c, "Event not found")
			return
		}
		h.logger.Error("Failed to get history event",
			"event_id", eventID.String(),
			"correlation_id", middleware.GetCorrelationID(c),
			"error", err,
		)
		RespondInternalError(c)
		return
	}

	RespondOK(c, mapEventToResponse(event))
}

// GetByAccountID pages through an account's projected events, oldest first
func (h *HistoryHandler) GetByAccountID(c *gin.Context) {
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

	events, total, err := h.historyService.GetEventsByAccountID(c.Request.Context(), id, pagination.Page, pagination.PerPage)
	if err != nil {
		h.logger.Error("Failed to list history events",
			"account_id", id.String(),
			"correlation_id", middleware.GetCorrelationID(c),
			"error", err,
		)
		RespondInternalError(c)
		return
	}

	response := make([]EventResponse, 0, len(events))
	for _, event := range events {
		response = append(response, mapEventToResponse(event))
	}
	RespondWithPaginatedData(c, http.StatusOK, response, pagination.Page, pagination.PerPage, int(total))
}
