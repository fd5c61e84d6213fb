package queue

import (
	"context"
	"testing"

	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ltp2209/stockpos-api/internal/usecase"
)

func TestJSONFunc_DecodesMovement(t *testing.T) {
	var got usecase.StockMovementMsg
	h := JSONFunc(func(_ context.Context, msg usecase.StockMovementMsg) error {
		got = msg
		return nil
	})

	d := amqp.Delivery{Body: []byte(`{"event_id":"e1","item_id":3,"delta":-2,"remaining":4,"reason":"order"}`)}
	require.NoError(t, h.Handle(context.Background(), d))
	assert.Equal(t, int64(3), got.ItemID)
	assert.Equal(t, -2, got.Delta)
	assert.Equal(t, 4, got.Remaining)
}

func TestJSONFunc_BadPayload(t *testing.T) {
	h := JSONFunc(func(context.Context, usecase.StockMovementMsg) error {
		t.Fatal("handler must not run on a bad payload")
		return nil
	})

	err := h.Handle(context.Background(), amqp.Delivery{Body: []byte("{"), RoutingKey: "stock.movement"})
	assert.Error(t, err)
}

func TestLowStockHandler_Thresholds(t *testing.T) {
	h := NewLowStockHandler(5)

	// at or below threshold after a sale: warns, still acks
	assert.NoError(t, h.HandleMovement(context.Background(),
		usecase.StockMovementMsg{ItemID: 1, Delta: -3, Remaining: 2}))

	// restock above threshold: nothing to do
	assert.NoError(t, h.HandleMovement(context.Background(),
		usecase.StockMovementMsg{ItemID: 1, Delta: 10, Remaining: 12}))
}
