package middleware

import (
	"net/http" // HTTP status codes
	"strings"  // String manipulation

	"taskagotchi/internal/domain" // AuthClaim
	"taskagotchi/internal/utils"  // Token service

	"github.com/gin-gonic/gin" // Gin web framework
)

// Context keys set by JWTAuthMiddleware
const (
	ContextUserID = "userID"
	ContextClaim  = "claim"
)

// JWTAuthMiddleware validates bearer tokens and stores the caller's claim in the context.
// Every failure is reported with the same 401 body.
func JWTAuthMiddleware(tokens *utils.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization") // Get Authorization header
		scheme, tokenStr, found := strings.Cut(authHeader, " ")
		if !found || !strings.EqualFold(scheme, "Bearer") || strings.TrimSpace(tokenStr) == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		claim, ok := tokens.Verify(strings.TrimSpace(tokenStr)) // Verify signature and expiry
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid or expired token"})
			return
		}
		c.Set(ContextUserID, claim.UserID) // Store userID in context
		c.Set(ContextClaim, claim)         // Store full claim in context
		c.Next()                           // Proceed to the next handler
	}
}

// ClaimFrom returns the claim stored by JWTAuthMiddleware
func ClaimFrom(c *gin.Context) (domain.AuthClaim, bool) {
	v, exists := c.Get(ContextClaim)
	if !exists {
		return domain.AuthClaim{}, false
	}
	claim, ok := v.(domain.AuthClaim)
	return claim, ok
}
