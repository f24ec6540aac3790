package api

import (
	"errors"   // errors.Is
	"net/http" // HTTP status codes

	"taskagotchi/internal/domain"     // Domain errors
	"taskagotchi/internal/middleware" // Context keys

	"github.com/gin-gonic/gin"   // Gin web framework
	"github.com/sirupsen/logrus" // Logging
)

// statusFor maps a service error to its HTTP status
func statusFor(err error) int {
	switch {
	case errors.Is(err, domain.ErrValidation),
		errors.Is(err, domain.ErrInsufficientFunds),
		errors.Is(err, domain.ErrInvalidAdjustment),
		errors.Is(err, domain.ErrInvalidSlot),
		errors.Is(err, domain.ErrNotOwned):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrConflict):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status for err. Unexpected errors are logged and hidden from the client.
func writeError(c *gin.Context, err error) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		fields := logrus.Fields{"path": c.Request.URL.Path, "error": err.Error()}
		if rid, ok := c.Get("requestID"); ok {
			fields["request_id"] = rid
		}
		logrus.WithFields(fields).Error("Request failed")
		c.JSON(status, gin.H{"error": "Internal error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// callerID returns the authenticated user id set by the JWT middleware
func callerID(c *gin.Context) (uint, bool) {
	v, exists := c.Get(middleware.ContextUserID)
	if !exists {
		return 0, false
	}
	id, ok := v.(uint)
	return id, ok
}

// requireCaller writes 401 and returns false when no user is authenticated
func requireCaller(c *gin.Context) (uint, bool) {
	id, ok := callerID(c)
	if !ok {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Unauthorized"})
	}
	return id, ok
}
