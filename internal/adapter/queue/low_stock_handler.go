package queue

import (
	"context"

	"github.com/ltp2209/stockpos-api/internal/logging"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

// LowStockHandler watches committed stock movements and raises a warning
// when an item's remaining quantity drops to the threshold or below.
// Decoupling the alert from the checkout path keeps PlaceOrder free of
// side concerns.
type LowStockHandler struct {
	threshold int
}

func NewLowStockHandler(threshold int) *LowStockHandler {
	return &LowStockHandler{threshold: threshold}
}

func (h *LowStockHandler) HandleMovement(ctx context.Context, msg usecase.StockMovementMsg) error {
	if msg.Delta < 0 && msg.Remaining <= h.threshold {
		logging.FromCtx(ctx).Warn("low stock",
			"item_id", msg.ItemID,
			"sku", msg.SKU,
			"remaining", msg.Remaining,
			"threshold", h.threshold,
		)
	}
	return nil
}
