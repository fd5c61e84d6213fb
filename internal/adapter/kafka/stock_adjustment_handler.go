package kafka

import (
	"context"
	"errors"

	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/logging"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

// StockAdjustmentHandler applies external stock deltas through the
// AdjustStock use case, so they take the same row lock as checkouts.
type StockAdjustmentHandler struct {
	adjust *usecase.AdjustStock
}

func NewStockAdjustmentHandler(adjust *usecase.AdjustStock) *StockAdjustmentHandler {
	return &StockAdjustmentHandler{adjust: adjust}
}

func (h *StockAdjustmentHandler) Handle(ctx context.Context, ev usecase.StockAdjustmentMsg) error {
	_, err := h.adjust.Execute(ctx, usecase.AdjustStockInput{
		ItemID: ev.ItemID,
		Delta:  ev.Delta,
		Reason: ev.Reason,
		Detail: ev.Detail,
	})
	// Bad payloads and business rejections must not wedge the partition:
	// log and mark them consumed instead of retrying forever.
	if errors.Is(err, domain.ErrInvalidRequest) ||
		errors.Is(err, domain.ErrItemNotFound) ||
		errors.Is(err, domain.ErrInsufficientStock) {
		logging.FromCtx(ctx).Warn("stock adjustment rejected",
			"item_id", ev.ItemID, "delta", ev.Delta, "err", err)
		return nil
	}
	return err
}
