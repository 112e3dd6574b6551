package middleware

import "github.com/gin-gonic/gin"

// userIDKey is where the identity middleware stores the caller's id.
const userIDKey = "authUserID"

// IdentityMiddleware lifts the authenticated user id off the request.
// Authentication itself happens upstream (API gateway); this server
// trusts the X-User-ID header it forwards. Guest requests simply carry
// no identity.
func IdentityMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		if userID := c.GetHeader("X-User-ID"); userID != "" {
			c.Set(userIDKey, userID)
		}
		c.Next()
	}
}

// UserIDFromContext returns the authenticated user id, or "" for guests.
func UserIDFromContext(c *gin.Context) string {
	return c.GetString(userIDKey)
}
