// File: middleware/auth.go
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	userRepo "barberbook/database/repository/user"
	"barberbook/models"
	"barberbook/services/session"
)

const (
	// ContextIdentity is the gin context key holding the caller's Identity.
	ContextIdentity = "identity"
	// ContextCredential is the gin context key holding the raw bearer
	// credential, needed by logout and password change.
	ContextCredential = "credential"
)

// SessionAuthMiddleware validates the bearer credential against the session
// store and loads the caller's identity into the request context. Every
// authenticated request refreshes the session's last-accessed time.
func SessionAuthMiddleware(sessions session.SessionService, users userRepo.UserRepository) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Missing or invalid Authorization header"})
			return
		}
		credential := strings.TrimPrefix(authHeader, "Bearer ")

		sess, err := sessions.Validate(c.Request.Context(), credential)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired session"})
			return
		}

		user, err := users.GetByID(c.Request.Context(), sess.UserID)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Account not found"})
			return
		}

		c.Set(ContextIdentity, models.Identity{ID: user.ID, Role: user.Role})
		c.Set(ContextCredential, credential)
		c.Next()
	}
}

// IdentityFrom pulls the authenticated caller out of the gin context.
func IdentityFrom(c *gin.Context) (models.Identity, bool) {
	val, ok := c.Get(ContextIdentity)
	if !ok {
		return models.Identity{}, false
	}
	id, ok := val.(models.Identity)
	return id, ok
}

// CredentialFrom pulls the raw bearer credential out of the gin context.
func CredentialFrom(c *gin.Context) string {
	val, ok := c.Get(ContextCredential)
	if !ok {
		return ""
	}
	cred, _ := val.(string)
	return cred
}
