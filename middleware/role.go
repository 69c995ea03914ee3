// File: middleware/role.go
package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireBarber gates barber-only routes. Runs after SessionAuthMiddleware.
func RequireBarber() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := IdentityFrom(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		if !identity.IsBarber() {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Barber account required"})
			return
		}
		c.Next()
	}
}
