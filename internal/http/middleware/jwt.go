package middleware

import (
	"net/http"
	"strings"

	"livestream_backend/internal/service"

	"github.com/gin-gonic/gin"
)

// JWT authenticates requests via the Authorization bearer token and
// stores the caller's id and role on the gin context. WebSocket
// subscribers may pass the token as a query parameter instead, since
// browsers cannot set headers on websocket upgrades.
func JWT() gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			token = c.Query("token")
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing token"})
			return
		}

		ident, err := service.ParseJWT(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
			return
		}

		c.Set("user_id", ident.UserID)
		c.Set("role", ident.Role)
		c.Next()
	}
}

// RequireRole aborts with 403 unless the authenticated caller has the
// given role. Must run after JWT.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString("role") != role {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "forbidden"})
			return
		}
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return parts[1]
}
