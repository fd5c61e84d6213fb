package kafka

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

type stubAdjuster struct {
	calls int
	err   error
}

func (s *stubAdjuster) AdjustStock(_ context.Context, itemID int64, delta int, _, _ string) (*usecase.StockMovement, error) {
	s.calls++
	if s.err != nil {
		return nil, s.err
	}
	return &usecase.StockMovement{ItemID: itemID, Delta: delta, Remaining: 1}, nil
}

func TestStockAdjustmentHandler_Applies(t *testing.T) {
	adj := &stubAdjuster{}
	h := NewStockAdjustmentHandler(usecase.NewAdjustStock(adj, nil, nil))

	err := h.Handle(context.Background(), usecase.StockAdjustmentMsg{ItemID: 4, Delta: -2, Detail: "sync"})
	require.NoError(t, err)
	assert.Equal(t, 1, adj.calls)
}

func TestStockAdjustmentHandler_SwallowsBusinessRejections(t *testing.T) {
	cases := []error{
		&domain.ItemNotFoundError{ItemID: 4},
		&domain.InsufficientStockError{ItemID: 4, Requested: 9, Available: 1},
	}
	for _, rejection := range cases {
		h := NewStockAdjustmentHandler(usecase.NewAdjustStock(&stubAdjuster{err: rejection}, nil, nil))
		err := h.Handle(context.Background(), usecase.StockAdjustmentMsg{ItemID: 4, Delta: -9})
		assert.NoError(t, err, "rejections are logged, not retried")
	}

	// invalid payloads never reach the store but are also not retried
	h := NewStockAdjustmentHandler(usecase.NewAdjustStock(&stubAdjuster{}, nil, nil))
	err := h.Handle(context.Background(), usecase.StockAdjustmentMsg{ItemID: 0, Delta: 1})
	assert.NoError(t, err)
}

func TestStockAdjustmentHandler_PropagatesInfraErrors(t *testing.T) {
	infra := errors.New("connection reset")
	h := NewStockAdjustmentHandler(usecase.NewAdjustStock(&stubAdjuster{err: infra}, nil, nil))

	err := h.Handle(context.Background(), usecase.StockAdjustmentMsg{ItemID: 4, Delta: -1})
	assert.ErrorIs(t, err, infra, "transient failures must be retried by the consumer")
}
