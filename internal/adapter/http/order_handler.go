package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/ltp2209/stockpos-api/internal/adapter/http/middleware"
	"github.com/ltp2209/stockpos-api/internal/logging"
	"github.com/ltp2209/stockpos-api/internal/usecase"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var ordersPlaced = promauto.NewCounter(prometheus.CounterOpts{
	Name: "orders_placed_total",
	Help: "Total number of successfully committed orders",
})

type OrderHandler struct {
	place  *usecase.PlaceOrder
	orders usecase.OrderStore
}

func NewOrderHandler(place *usecase.PlaceOrder, orders usecase.OrderStore) *OrderHandler {
	return &OrderHandler{place: place, orders: orders}
}

type orderLineReq struct {
	ItemID   int64 `json:"itemId"`
	Quantity int   `json:"quantity"`
}

type placeOrderReq struct {
	Items []orderLineReq `json:"items" binding:"required"`
}

type placeOrderResp struct {
	OrderID    int64 `json:"orderId"`
	TotalCents int64 `json:"totalCents"`
}

// PlaceOrder converts the request into use case input; per-line validation
// lives in the use case so the typed errors drive the response.
func (h *OrderHandler) PlaceOrder(c *gin.Context) {
	var req placeOrderReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}

	lines := make([]usecase.OrderLineInput, 0, len(req.Items))
	for _, it := range req.Items {
		lines = append(lines, usecase.OrderLineInput{ItemID: it.ItemID, Quantity: it.Quantity})
	}

	var buyerID *int64
	if id := middleware.IdentityFrom(c); id != nil {
		buyerID = &id.UserID
	}

	ctx, cancel := context.WithTimeout(c.Request.Context(), 5*time.Second)
	defer cancel()

	out, err := h.place.Execute(ctx, usecase.PlaceOrderInput{
		BuyerID:        buyerID,
		IdempotencyKey: c.GetHeader("X-Idempotency-Key"), // prevents duplicated checkouts
		Lines:          lines,
	})
	if err != nil {
		status, msg := errStatus(err)
		if status >= http.StatusInternalServerError {
			logging.From(c).Error("place order failed", "err", err)
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	ordersPlaced.Inc()
	c.JSON(http.StatusCreated, placeOrderResp{OrderID: out.OrderID, TotalCents: out.TotalCents})
}

// ListOrders returns the caller's orders; admins see every order.
func (h *OrderHandler) ListOrders(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), 3*time.Second)
	defer cancel()

	var filter *int64
	if id := middleware.IdentityFrom(c); id != nil && !isAdmin(c) {
		filter = &id.UserID
	}

	orders, err := h.orders.List(ctx, filter)
	if err != nil {
		logging.From(c).Error("list orders failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch orders"})
		return
	}
	c.JSON(http.StatusOK, orders)
}
