package auth

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// identityCtxKey is the Gin context key used to store the authenticated caller.
const identityCtxKey = "auth_identity"

// Middleware enforces a valid Bearer token and attaches the caller's
// identity to the request context.
func Middleware(tm *TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		token, ok := strings.CutPrefix(header, "Bearer ")
		token = strings.TrimSpace(token)
		if !ok || token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, no token"})
			return
		}

		id, err := tm.Parse(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "not authorized, token failed"})
			return
		}
		c.Set(identityCtxKey, id)
		c.Next()
	}
}

// CurrentUser returns the authenticated identity from the request context.
func CurrentUser(c *gin.Context) Identity {
	v, _ := c.Get(identityCtxKey)
	id, _ := v.(Identity)
	return id
}
