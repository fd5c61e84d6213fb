package usecase

import (
	"context"
	"fmt"

	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/logging"
)

type AdjustStockInput struct {
	ItemID int64
	Delta  int
	Reason string // defaults to "adjust"
	Detail string
}

// AdjustStock applies out-of-band stock deltas (admin corrections, external
// systems) through the same row-lock discipline as order placement, so
// nothing ever writes Item.quantity without holding that item's lock.
type AdjustStock struct {
	stock StockAdjuster
	pub   MovementPublisher
	cache CatalogCache
}

func NewAdjustStock(stock StockAdjuster, pub MovementPublisher, cache CatalogCache) *AdjustStock {
	return &AdjustStock{stock: stock, pub: pub, cache: cache}
}

func (uc *AdjustStock) Execute(ctx context.Context, in AdjustStockInput) (*StockMovement, error) {
	if in.ItemID <= 0 {
		return nil, fmt.Errorf("%w: missing item id", domain.ErrInvalidRequest)
	}
	if in.Delta == 0 {
		return nil, fmt.Errorf("%w: zero delta", domain.ErrInvalidRequest)
	}
	reason := in.Reason
	if reason == "" {
		reason = domain.MovementAdjust
	}

	mv, err := uc.stock.AdjustStock(ctx, in.ItemID, in.Delta, reason, in.Detail)
	if err != nil {
		return nil, err
	}

	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			logging.FromCtx(ctx).Warn("catalog cache invalidate failed", "err", err)
		}
	}
	if uc.pub != nil {
		if err := uc.pub.PublishMovements(ctx, 0, reason, []StockMovement{*mv}); err != nil {
			logging.FromCtx(ctx).Warn("movement publish failed", "item_id", in.ItemID, "err", err)
		}
	}
	return mv, nil
}
