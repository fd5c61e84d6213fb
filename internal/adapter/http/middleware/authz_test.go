package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/security"
)

func authzRouter(t *testing.T) (*gin.Engine, security.TokenConfig) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	tokens := security.TokenConfig{Secret: "s3cret", Issuer: "test", TTL: time.Hour}
	a := NewAuthz(tokens)

	r := gin.New()
	r.GET("/private", a.Require(), func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"email": IdentityFrom(c).Email})
	})
	r.GET("/admin", a.Require(), a.RequireAdmin(), func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	r.GET("/open", a.Optional(), func(c *gin.Context) {
		if id := IdentityFrom(c); id != nil {
			c.JSON(http.StatusOK, gin.H{"user": id.UserID})
			return
		}
		c.JSON(http.StatusOK, gin.H{"user": nil})
	})
	return r, tokens
}

func mint(t *testing.T, cfg security.TokenConfig, role string) string {
	t.Helper()
	raw, err := security.MintToken(cfg, &domain.User{ID: 5, Email: "e@x.y", Role: role})
	require.NoError(t, err)
	return raw
}

func get(r *gin.Engine, path, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestRequire(t *testing.T) {
	r, cfg := authzRouter(t)

	assert.Equal(t, http.StatusUnauthorized, get(r, "/private", "").Code)
	assert.Equal(t, http.StatusUnauthorized, get(r, "/private", "bogus").Code)

	w := get(r, "/private", mint(t, cfg, domain.RoleEmployee))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "e@x.y")
}

func TestRequireAdmin(t *testing.T) {
	r, cfg := authzRouter(t)

	assert.Equal(t, http.StatusForbidden, get(r, "/admin", mint(t, cfg, domain.RoleEmployee)).Code)
	assert.Equal(t, http.StatusOK, get(r, "/admin", mint(t, cfg, domain.RoleAdmin)).Code)
}

func TestOptional(t *testing.T) {
	r, cfg := authzRouter(t)

	w := get(r, "/open", "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")

	w = get(r, "/open", mint(t, cfg, domain.RoleEmployee))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "5")

	// a broken token on an optional route degrades to anonymous
	w = get(r, "/open", "garbage")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "null")
}
