package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

type stubOrderStore struct {
	placed *usecase.PlacedOrder
	err    error
	lines  []usecase.OrderLineInput
	buyer  *int64
}

func (s *stubOrderStore) PlaceOrder(_ context.Context, buyerID *int64, lines []usecase.OrderLineInput) (*usecase.PlacedOrder, error) {
	s.buyer, s.lines = buyerID, lines
	if s.err != nil {
		return nil, s.err
	}
	return s.placed, nil
}

func (s *stubOrderStore) List(context.Context, *int64) ([]domain.Order, error) {
	return []domain.Order{{ID: 1, TotalCents: 2500}}, nil
}

func newOrderRouter(store *stubOrderStore) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewOrderHandler(usecase.NewPlaceOrder(store, nil, nil, nil), store)
	r := gin.New()
	r.POST("/orders", h.PlaceOrder)
	r.GET("/orders", h.ListOrders)
	return r
}

func TestPlaceOrderEndpoint_Created(t *testing.T) {
	store := &stubOrderStore{placed: &usecase.PlacedOrder{OrderID: 11, TotalCents: 3740}}
	r := newOrderRouter(store)

	body := `{"items":[{"itemId":1,"quantity":2},{"itemId":2,"quantity":1}]}`
	req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		OrderID    int64 `json:"orderId"`
		TotalCents int64 `json:"totalCents"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, int64(11), resp.OrderID)
	assert.Equal(t, int64(3740), resp.TotalCents)

	require.Len(t, store.lines, 2)
	assert.Equal(t, int64(1), store.lines[0].ItemID)
	assert.Equal(t, 2, store.lines[0].Quantity)
	assert.Nil(t, store.buyer, "no token means guest order")
}

func TestPlaceOrderEndpoint_BadBody(t *testing.T) {
	r := newOrderRouter(&stubOrderStore{})

	for _, body := range []string{``, `{}`, `not json`} {
		req := httptest.NewRequest(http.MethodPost, "/orders", strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, "body %q", body)
	}
}

func TestPlaceOrderEndpoint_InvalidLine(t *testing.T) {
	store := &stubOrderStore{}
	r := newOrderRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"items":[{"itemId":1,"quantity":0}]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Nil(t, store.lines, "invalid input must not reach the store")
}

func TestPlaceOrderEndpoint_InsufficientStockIs409(t *testing.T) {
	store := &stubOrderStore{err: &domain.InsufficientStockError{ItemID: 2, Requested: 5, Available: 1}}
	r := newOrderRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"items":[{"itemId":2,"quantity":5}]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock")
}

func TestPlaceOrderEndpoint_UnknownItemIs404(t *testing.T) {
	store := &stubOrderStore{err: &domain.ItemNotFoundError{ItemID: 99}}
	r := newOrderRouter(store)

	req := httptest.NewRequest(http.MethodPost, "/orders",
		strings.NewReader(`{"items":[{"itemId":99,"quantity":1}]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListOrdersEndpoint(t *testing.T) {
	r := newOrderRouter(&stubOrderStore{})

	req := httptest.NewRequest(http.MethodGet, "/orders", nil)
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var orders []domain.Order
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &orders))
	require.Len(t, orders, 1)
	assert.Equal(t, int64(2500), orders[0].TotalCents)
}
