package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/logging"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

type UserHandler struct {
	users usecase.UserStore
}

func NewUserHandler(users usecase.UserStore) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) List(c *gin.Context) {
	users, err := h.users.List(c.Request.Context())
	if err != nil {
		logging.From(c).Error("list users failed", "err", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "could not fetch users"})
		return
	}
	c.JSON(http.StatusOK, users)
}

type updateRoleReq struct {
	Role string `json:"role" binding:"required"`
}

func (h *UserHandler) UpdateRole(c *gin.Context) {
	id, err := pathID(c)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "bad user id"})
		return
	}
	var req updateRoleReq
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role is required"})
		return
	}
	if req.Role != domain.RoleAdmin && req.Role != domain.RoleEmployee {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown role"})
		return
	}

	if err := h.users.UpdateRole(c.Request.Context(), id, req.Role); err != nil {
		status, msg := errStatus(err)
		if status >= http.StatusInternalServerError {
			logging.From(c).Error("update role failed", "id", id, "err", err)
		}
		c.JSON(status, gin.H{"error": msg})
		return
	}
	c.JSON(http.StatusOK, gin.H{"success": true})
}
