package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"booking-engine/internal/domain/identity"
	"booking-engine/internal/usecase"

	"github.com/gin-gonic/gin"
)

const (
	ctxCallerKey   = "caller"
	ctxUserIDKey   = "user_id"
	ctxUserRoleKey = "user_role"
)

type IdentityMiddleware struct {
	identity usecase.IdentityProvider
}

func NewIdentityMiddleware(identity usecase.IdentityProvider) *IdentityMiddleware {
	return &IdentityMiddleware{identity: identity}
}

func (m *IdentityMiddleware) RequireIdentity() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "Access token required"},
			})
			c.Abort()
			return
		}

		caller, err := m.identity.Resolve(token)
		if err != nil {
			slog.Warn("Identity resolution failed", "error", err.Error())
			c.JSON(http.StatusUnauthorized, gin.H{
				"error": gin.H{"message": "Invalid or expired token"},
			})
			c.Abort()
			return
		}

		c.Set(ctxCallerKey, caller)
		c.Set(ctxUserIDKey, caller.ID.String())
		c.Set(ctxUserRoleKey, caller.Role.String())
		c.Next()
	}
}

// RequireAdmin must run after RequireIdentity.
func (m *IdentityMiddleware) RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		caller, ok := GetCaller(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{
				"error": gin.H{"message": "Internal server error"},
			})
			c.Abort()
			return
		}

		if !caller.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{
				"error": gin.H{"message": "Insufficient permissions"},
			})
			c.Abort()
			return
		}

		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	authHeader := c.GetHeader("Authorization")
	if authHeader != "" && strings.HasPrefix(authHeader, "Bearer ") {
		return strings.TrimSpace(authHeader[len("Bearer "):])
	}
	return ""
}

func GetCaller(c *gin.Context) (identity.Caller, bool) {
	v, exists := c.Get(ctxCallerKey)
	if !exists {
		return identity.Caller{}, false
	}

	caller, ok := v.(identity.Caller)
	return caller, ok
}
