package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/logging"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

type StoreHandler struct {
	stores usecase.StoreStore
}

func NewStoreHandler(stores usecase.StoreStore) *StoreHandler {
	return &StoreHandler{stores: stores}
}

func (h *StoreHandler) List(c *gin.Context) {
	stores, err := h.stores.List(c.Request.Context())
	if err != nil {
		logging.From(c).Error("list stores failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch stores"})
		return
	}
	c.JSON(http.StatusOK, stores)
}

type storeReq struct {
	Name     string `json:"name" binding:"required"`
	Location string `json:"location"`
}

func (h *StoreHandler) Create(c *gin.Context) {
	var req storeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	s := &domain.Store{Name: strings.TrimSpace(req.Name), Location: req.Location}
	if err := h.stores.Create(c.Request.Context(), s); err != nil {
		status, msg := errStatus(err)
		if status >= http.StatusInternalServerError {
			logging.From(c).Error("create store failed", "err", err)
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusCreated, s)
}

func (h *StoreHandler) Update(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad store id"})
		return
	}
	var req storeReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "name is required"})
		return
	}

	s := &domain.Store{ID: id, Name: strings.TrimSpace(req.Name), Location: req.Location}
	if err := h.stores.Update(c.Request.Context(), s); err != nil {
		status, msg := errStatus(err)
		if status >= http.StatusInternalServerError {
			logging.From(c).Error("update store failed", "id", id, "err", err)
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}

func (h *StoreHandler) Delete(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad store id"})
		return
	}
	if err := h.stores.Delete(c.Request.Context(), id); err != nil {
		status, msg := errStatus(err)
		if status >= http.StatusInternalServerError {
			logging.From(c).Error("delete store failed", "id", id, "err", err)
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
