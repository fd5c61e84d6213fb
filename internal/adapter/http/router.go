package http

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/ltp2209/stockpos-api/internal/adapter/http/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Handlers struct {
	Auth   *AuthHandler
	Items  *ItemHandler
	Orders *OrderHandler
	Stores *StoreHandler
	Users  *UserHandler
	Events *EventHandler
	Authz  *middleware.Authz
}

// NewRouter assembles the gin engine: public catalog and auth routes, token
// protected order and profile routes, admin-only management routes.
func NewRouter(log *slog.Logger, h Handlers) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.MetricsMiddleware())
	r.Use(middleware.Logging(log))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.POST("/auth/register", h.Auth.Register)
	r.POST("/auth/login", h.Auth.Login)

	r.GET("/items", h.Items.List)
	r.GET("/items/:id", h.Items.Get)

	// guest checkout allowed; identity attached when a token is present
	r.POST("/orders", h.Authz.Optional(), h.Orders.PlaceOrder)

	authed := r.Group("/", h.Authz.Require())
	{
		authed.GET("/me", h.Auth.Me)
		authed.PUT("/me", h.Auth.UpdateMe)
		authed.PUT("/auth/password", h.Auth.ChangePassword)

		authed.GET("/orders", h.Orders.ListOrders)

		authed.POST("/items", h.Items.Create)
		authed.PUT("/items/:id", h.Items.Update)
		authed.POST("/items/:id/adjust", h.Items.Adjust)

		authed.GET("/stores", h.Stores.List)
	}

	admin := r.Group("/", h.Authz.Require(), h.Authz.RequireAdmin())
	{
		admin.DELETE("/items/:id", h.Items.Delete)

		admin.POST("/stores", h.Stores.Create)
		admin.PUT("/stores/:id", h.Stores.Update)
		admin.DELETE("/stores/:id", h.Stores.Delete)

		admin.GET("/users", h.Users.List)
		admin.PUT("/users/:id/role", h.Users.UpdateRole)

		admin.GET("/inventory-events", h.Events.List)
	}

	return r
}
