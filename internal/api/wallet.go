package api

import (
	"net/http" // HTTP status codes

	"taskagotchi/internal/service" // Economy engine

	"github.com/gin-gonic/gin" // Gin web framework
)

// AdjustBalanceRequest is the payload of POST /balance. Amount may be negative.
type AdjustBalanceRequest struct {
	Amount *int64 `json:"amount" binding:"required"` // Credit (positive) or debit (negative)
}

// GetBalanceHandler returns the caller's wallet balance
func GetBalanceHandler(economy *service.EconomyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireCaller(c)
		if !ok {
			return
		}
		balance, err := economy.Balance(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err) // 404 when there is no wallet
			return
		}
		c.JSON(http.StatusOK, gin.H{"balance": balance})
	}
}

// AdjustBalanceHandler credits or debits the caller's wallet
func AdjustBalanceHandler(economy *service.EconomyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireCaller(c)
		if !ok {
			return
		}
		var req AdjustBalanceRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing or invalid amount"})
			return
		}
		balance, err := economy.AdjustBalance(c.Request.Context(), userID, *req.Amount)
		if err != nil {
			writeError(c, err) // 400 when the balance would go negative
			return
		}
		c.JSON(http.StatusOK, gin.H{"balance": balance})
	}
}
