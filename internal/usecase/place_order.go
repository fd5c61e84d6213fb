package usecase

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/logging"
)

var ErrDuplicateRequest = errors.New("duplicate request")

type PlaceOrderInput struct {
	BuyerID        *int64 // nil for guest/system orders
	IdempotencyKey string // optional; empty disables the idempotency path
	Lines          []OrderLineInput
}

type PlaceOrderOutput struct {
	OrderID    int64
	TotalCents int64
}

// PlaceOrder converts a cart of lines into a committed sale. Validation
// happens before any transaction is opened; everything after that is one
// atomic unit inside OrderStore.
type PlaceOrder struct {
	orders OrderStore
	idem   IdempotencyStore
	pub    MovementPublisher
	cache  CatalogCache
}

func NewPlaceOrder(orders OrderStore, idem IdempotencyStore, pub MovementPublisher, cache CatalogCache) *PlaceOrder {
	return &PlaceOrder{orders: orders, idem: idem, pub: pub, cache: cache}
}

func (uc *PlaceOrder) Execute(ctx context.Context, in PlaceOrderInput) (PlaceOrderOutput, error) {
	if err := validateLines(in.Lines); err != nil {
		return PlaceOrderOutput{}, err
	}

	scope := "guest"
	if in.BuyerID != nil {
		scope = strconv.FormatInt(*in.BuyerID, 10)
	}

	if uc.idem != nil && in.IdempotencyKey != "" {
		// Fast path: this key already produced an order.
		if v, ok, _ := uc.idem.Recall(ctx, scope, in.IdempotencyKey); ok {
			if out, err := decodeIdemValue(v); err == nil {
				return out, nil
			}
		}
		ok, err := uc.idem.TryLock(ctx, scope, in.IdempotencyKey)
		if err != nil {
			return PlaceOrderOutput{}, fmt.Errorf("idempotency lock: %w", err)
		}
		if !ok {
			return PlaceOrderOutput{}, ErrDuplicateRequest
		}
	}

	placed, err := uc.orders.PlaceOrder(ctx, in.BuyerID, in.Lines)
	if err != nil {
		return PlaceOrderOutput{}, err
	}

	// Post-commit, best-effort side effects.
	if uc.cache != nil {
		if err := uc.cache.Invalidate(ctx); err != nil {
			logging.FromCtx(ctx).Warn("catalog cache invalidate failed", "err", err)
		}
	}
	if uc.pub != nil {
		if err := uc.pub.PublishMovements(ctx, placed.OrderID, domain.MovementOrder, placed.Movements); err != nil {
			logging.FromCtx(ctx).Warn("movement publish failed", "order_id", placed.OrderID, "err", err)
		}
	}
	if uc.idem != nil && in.IdempotencyKey != "" {
		_ = uc.idem.Remember(ctx, scope, in.IdempotencyKey, encodeIdemValue(placed))
	}

	return PlaceOrderOutput{OrderID: placed.OrderID, TotalCents: placed.TotalCents}, nil
}

func validateLines(lines []OrderLineInput) error {
	if len(lines) == 0 {
		return fmt.Errorf("%w: no items provided", domain.ErrInvalidRequest)
	}
	for _, ln := range lines {
		if ln.ItemID <= 0 {
			return fmt.Errorf("%w: missing item id", domain.ErrInvalidRequest)
		}
		if ln.Quantity <= 0 {
			return fmt.Errorf("%w: quantity must be positive for item %d", domain.ErrInvalidRequest, ln.ItemID)
		}
	}
	return nil
}

// The idempotency store keeps "orderID:totalCents" so replays can answer
// without touching the database.
func encodeIdemValue(p *PlacedOrder) string {
	return strconv.FormatInt(p.OrderID, 10) + ":" + strconv.FormatInt(p.TotalCents, 10)
}

func decodeIdemValue(v string) (PlaceOrderOutput, error) {
	id, total, ok := strings.Cut(v, ":")
	if !ok {
		return PlaceOrderOutput{}, fmt.Errorf("malformed idempotency value %q", v)
	}
	orderID, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return PlaceOrderOutput{}, err
	}
	totalCents, err := strconv.ParseInt(total, 10, 64)
	if err != nil {
		return PlaceOrderOutput{}, err
	}
	return PlaceOrderOutput{OrderID: orderID, TotalCents: totalCents}, nil
}
