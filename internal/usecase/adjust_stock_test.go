package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ltp2209/stockpos-api/internal/entity"
)

type fakeStockAdjuster struct {
	lastReason string
	lastDetail string
	movement   *StockMovement
	err        error
}

func (f *fakeStockAdjuster) AdjustStock(_ context.Context, itemID int64, delta int, reason, detail string) (*StockMovement, error) {
	f.lastReason, f.lastDetail = reason, detail
	if f.err != nil {
		return nil, f.err
	}
	if f.movement != nil {
		return f.movement, nil
	}
	return &StockMovement{ItemID: itemID, Delta: delta, Remaining: 10 + delta}, nil
}

func TestAdjustStock_Success(t *testing.T) {
	adj := &fakeStockAdjuster{}
	pub := &fakePublisher{}
	cache := &fakeCatalogCache{hasItems: true}
	uc := NewAdjustStock(adj, pub, cache)

	mv, err := uc.Execute(context.Background(), AdjustStockInput{ItemID: 3, Delta: -4, Detail: "damaged"})
	require.NoError(t, err)
	assert.Equal(t, int64(3), mv.ItemID)
	assert.Equal(t, -4, mv.Delta)
	assert.Equal(t, domain.MovementAdjust, adj.lastReason, "reason defaults to adjust")
	assert.Equal(t, "damaged", adj.lastDetail)
	assert.Len(t, pub.movements, 1)
	assert.Equal(t, 1, cache.invalidated)
}

func TestAdjustStock_RejectsBadInput(t *testing.T) {
	uc := NewAdjustStock(&fakeStockAdjuster{}, nil, nil)

	_, err := uc.Execute(context.Background(), AdjustStockInput{ItemID: 0, Delta: 1})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)

	_, err = uc.Execute(context.Background(), AdjustStockInput{ItemID: 1, Delta: 0})
	assert.ErrorIs(t, err, domain.ErrInvalidRequest)
}

func TestAdjustStock_PropagatesInsufficientStock(t *testing.T) {
	adj := &fakeStockAdjuster{err: &domain.InsufficientStockError{ItemID: 1, Requested: 5, Available: 2}}
	pub := &fakePublisher{}
	uc := NewAdjustStock(adj, pub, nil)

	_, err := uc.Execute(context.Background(), AdjustStockInput{ItemID: 1, Delta: -5})
	assert.ErrorIs(t, err, domain.ErrInsufficientStock)
	assert.Empty(t, pub.movements, "nothing published on failure")
}
