package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	domain "github.com/ltp2209/stockpos-api/internal/entity"
	"github.com/ltp2209/stockpos-api/internal/security"
)

const identityKey = "identity"

type Authz struct {
	tokens security.TokenConfig
}

func NewAuthz(tokens security.TokenConfig) *Authz {
	return &Authz{tokens: tokens}
}

// Require checks the bearer token and stores the caller identity in the
// gin context for handlers.
func (a *Authz) Require() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if !strings.HasPrefix(auth, "Bearer ") {
			unauth(c, "invalid_request", "missing bearer token")
			return
		}

		raw := strings.TrimPrefix(auth, "Bearer ")
		id, err := security.ParseToken(a.tokens, raw)
		if err != nil {
			unauth(c, "invalid_token", "invalid jwt")
			return
		}

		c.Set(identityKey, id)
		c.Next()
	}
}

// Optional attaches the caller identity when a valid bearer token is sent
// but lets anonymous requests through. Used for guest checkout.
func (a *Authz) Optional() gin.HandlerFunc {
	return func(c *gin.Context) {
		auth := c.GetHeader("Authorization")
		if strings.HasPrefix(auth, "Bearer ") {
			raw := strings.TrimPrefix(auth, "Bearer ")
			if id, err := security.ParseToken(a.tokens, raw); err == nil {
				c.Set(identityKey, id)
			}
		}
		c.Next()
	}
}

// RequireAdmin gates admin-only routes; must run after Require.
func (a *Authz) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := IdentityFrom(c)
		if id == nil || id.Role != domain.RoleAdmin {
			forbidden(c, "insufficient_role", "admin role required")
			return
		}
		c.Next()
	}
}

// IdentityFrom returns the authenticated caller, or nil on public routes.
func IdentityFrom(c *gin.Context) *security.Identity {
	if v, ok := c.Get(identityKey); ok {
		if id, ok := v.(*security.Identity); ok {
			return id
		}
	}
	return nil
}

func unauth(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": code, "error_description": desc})
}

func forbidden(c *gin.Context, code, desc string) {
	c.Header("WWW-Authenticate", `Bearer error="`+code+`", error_description="`+desc+`"`)
	c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": code, "error_description": desc})
}
