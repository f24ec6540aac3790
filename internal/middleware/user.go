package middleware

import (
	"context"  // Lookup context
	"net/http" // HTTP status codes

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// UserLookup reports whether a user still exists
type UserLookup interface {
	Exists(ctx context.Context, id uint) (bool, error)
}

// ActiveUserMiddleware rejects tokens whose user has since been deleted.
// It must run after JWTAuthMiddleware.
func ActiveUserMiddleware(users UserLookup) gin.HandlerFunc {
	return func(c *gin.Context) {
		claim, ok := ClaimFrom(c) // Get claim from context
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		exists, err := users.Exists(c.Request.Context(), claim.UserID)
		if err != nil {
			logrus.WithFields(logrus.Fields{"user_id": claim.UserID, "error": err.Error()}).Error("User lookup failed")
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal error"})
			return
		}
		if !exists {
			// Same answer as a bad token
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Next()
	}
}
