package http

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/ltp2209/stockpos-api/internal/logging"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

type EventHandler struct {
	ledger usecase.LedgerStore
}

func NewEventHandler(ledger usecase.LedgerStore) *EventHandler {
	return &EventHandler{ledger: ledger}
}

// List returns the most recent ledger rows, newest first.
func (h *EventHandler) List(c *gin.Context) {
	limit := 0
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "bad limit"})
			return
		}
		limit = n
	}

	events, err := h.ledger.List(c.Request.Context(), limit)
	if err != nil {
		logging.From(c).Error("list events failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch events"})
		return
	}
	c.JSON(http.StatusOK, events)
}
