package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireAuthCookie gates catalog endpoints behind the shared-password
// cookie set by the login handler. The chat API stays open, matching the
// original routing rules.
func RequireAuthCookie(cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		val, err := c.Cookie(cookieName)
		if err != nil || val != "1" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "login required"})
			return
		}
		c.Next()
	}
}
