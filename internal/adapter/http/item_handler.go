package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/logging"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

type ItemHandler struct {
	items  usecase.ItemStore
	adjust *usecase.AdjustStock
	cache  usecase.CatalogCache
}

func NewItemHandler(items usecase.ItemStore, adjust *usecase.AdjustStock, cache usecase.CatalogCache) *ItemHandler {
	return &ItemHandler{items: items, adjust: adjust, cache: cache}
}

// List serves the catalog, preferring the Redis copy when present.
func (h *ItemHandler) List(c *gin.Context) {
	ctx := c.Request.Context()

	if h.cache != nil {
		if items, ok, err := h.cache.GetItems(ctx); err == nil && ok {
			c.JSON(http.StatusOK, items)
			return
		}
	}

	items, err := h.items.List(ctx)
	if err != nil {
		logging.From(c).Error("list items failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch items"})
		return
	}

	if h.cache != nil {
		if err := h.cache.SetItems(ctx, items); err != nil {
			logging.From(c).Warn("catalog cache fill failed", "err", err)
		}
	}
	c.JSON(http.StatusOK, items)
}

func (h *ItemHandler) Get(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad item id"})
		return
	}
	it, err := h.items.GetByID(c.Request.Context(), id)
	if err != nil {
		status, msg := errStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, it)
}

type itemReq struct {
	SKU        string `json:"sku"`
	Name       string `json:"name"`
	StoreID    *int64 `json:"storeId"`
	Category   string `json:"category"`
	Quantity   int    `json:"quantity"`
	Location   string `json:"location"`
	PriceCents int64  `json:"priceCents"`
	ImageURL   string `json:"imageUrl"`
}

func (r *itemReq) validate() string {
	if strings.TrimSpace(r.Name) == "" {
		return "name is required"
	}
	if r.Quantity < 0 {
		return "quantity cannot be negative"
	}
	if r.PriceCents < 0 {
		return "price cannot be negative"
	}
	return ""
}

func (h *ItemHandler) Create(c *gin.Context) {
	var req itemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	it := &domain.Item{
		SKU:        strings.TrimSpace(req.SKU),
		Name:       strings.TrimSpace(req.Name),
		StoreID:    req.StoreID,
		Category:   req.Category,
		Quantity:   req.Quantity,
		Location:   req.Location,
		PriceCents: req.PriceCents,
		ImageURL:   req.ImageURL,
	}
	if err := h.items.Create(c.Request.Context(), it); err != nil {
		status, msg := errStatus(err)
		if status >= http.StatusInternalServerError {
			logging.From(c).Error("create item failed", "err", err)
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	h.invalidate(c)
	c.JSON(http.StatusCreated, it)
}

// Update writes the descriptive fields directly; a quantity change is routed
// through the stock adjuster so it takes the same row lock as order placement.
func (h *ItemHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad item id"})
		return
	}

	var req itemReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad_request"})
		return
	}
	if msg := req.validate(); msg != "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": msg})
		return
	}

	ctx := c.Request.Context()
	current, err := h.items.GetByID(ctx, id)
	if err != nil {
		status, msg := errStatus(err)
		c.JSON(status, gin.H{"error": msg})
		return
	}

	it := &domain.Item{
		ID:         id,
		SKU:        strings.TrimSpace(req.SKU),
		Name:       strings.TrimSpace(req.Name),
		StoreID:    req.StoreID,
		Category:   req.Category,
		Location:   req.Location,
		PriceCents: req.PriceCents,
		ImageURL:   req.ImageURL,
	}
	if err := h.items.Update(ctx, it); err != nil {
		status, msg := errStatus(err)
		if status >= http.StatusInternalServerError {
			logging.From(c).Error("update item failed", "id", id, "err", err)
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}

	if delta := req.Quantity - current.Quantity; delta != 0 {
		if _, err := h.adjust.Execute(ctx, usecase.AdjustStockInput{
			ItemID: id,
			Delta:  delta,
			Reason: domain.MovementUpdate,
			Detail: "Item updated",
		}); err != nil {
			status, msg := errStatus(err)
			if status >= http.StatusInternalServerError {
				logging.From(c).Error("quantity adjust failed", "id", id, "err", err)
			}
			c.JSON(status, gin.H{"error": msg})
			return
		}
	}

	h.invalidate(c)
	updated, err := h.items.GetByID(ctx, id)
	if err != nil {
		c.JSON(http.StatusOK, gin.H{"success": true})
		return
	}
	c.JSON(http.StatusOK, updated)
}

func (h *ItemHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad item id"})
		return
	}
	if err := h.items.Delete(c.Request.Context(), id); err != nil {
		status, msg := errStatus(err)
		if status >= http.StatusInternalServerError {
			logging.From(c).Error("delete item failed", "id", id, "err", err)
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	h.invalidate(c)
	c.JSON(http.StatusOK, gin.H{"success": true})
}

type adjustReq struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason"`
	Detail string `json:"detail"`
}

// Adjust applies an explicit stock correction to one item.
func (h *ItemHandler) Adjust(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad item id"})
		return
	}
	var req adjustReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "delta is required"})
		return
	}

	mv, err := h.adjust.Execute(c.Request.Context(), usecase.AdjustStockInput{
		ItemID: id,
		Delta:  req.Delta,
		Reason: req.Reason,
		Detail: req.Detail,
	})
	if err != nil {
		status, msg := errStatus(err)
		if status >= http.StatusInternalServerError {
			logging.From(c).Error("adjust stock failed", "id", id, "err", err)
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"itemId": mv.ItemID, "remaining": mv.Remaining})
}

func (h *ItemHandler) invalidate(c *gin.Context) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Invalidate(c.Request.Context()); err != nil {
		logging.From(c).Warn("catalog cache invalidate failed", "err", err)
	}
}

func pathID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}
