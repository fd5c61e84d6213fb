package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ltp2209/stockpos-api/internal/adapter/http/middleware"
	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/usecase"
)

// errStatus maps use case errors onto HTTP statuses. Everything unexpected
// collapses to a plain 500 so internals never leak to clients.
func errStatus(err error) (int, string) {
	switch {
	case errors.Is(err, domain.ErrInvalidRequest):
		return http.StatusBadRequest, err.Error()
	case errors.Is(err, domain.ErrItemNotFound), errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, domain.ErrInsufficientStock):
		return http.StatusConflict, err.Error()
	case errors.Is(err, usecase.ErrDuplicateRequest):
		return http.StatusConflict, "duplicate request"
	case errors.Is(err, domain.ErrEmailTaken), errors.Is(err, domain.ErrSKUTaken):
		return http.StatusConflict, err.Error()
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout, "request timed out"
	default:
		return http.StatusInternalServerError, "internal error"
	}
}

func isAdmin(c *gin.Context) bool {
	id := middleware.IdentityFrom(c)
	return id != nil && id.Role == domain.RoleAdmin
}
