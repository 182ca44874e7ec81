package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const userIDKey = "user_id"

// RequireUser resolves the calling tenant's id from the X-User-ID header and
// rejects requests without one. Upstream authentication terminates at the
// gateway; this service only needs the tenant identity.
func RequireUser() gin.HandlerFunc {
	return func(c *gin.Context) {
		userID := c.GetHeader("X-User-ID")
		if userID == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing user identity"})
			return
		}

		c.Set(userIDKey, userID)
		c.Next()
	}
}

// GetUserID retrieves the tenant id set by RequireUser
func GetUserID(c *gin.Context) string {
	return c.GetString(userIDKey)
}
