package api

import (
	"errors"   // errors.Is
	"net/http" // HTTP status codes
	"strconv"  // String conversion

	"taskagotchi/internal/domain"  // Domain errors
	"taskagotchi/internal/service" // Economy engine

	"github.com/gin-gonic/gin" // Gin web framework
)

// PurchaseRequest is the payload of POST /items
type PurchaseRequest struct {
	ItemID uint `json:"item_id" binding:"required"` // Catalog item to buy
}

// ListItemsHandler returns the catalog, with owned flags when ?owner= is given
func ListItemsHandler(economy *service.EconomyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		var owner *uint
		if raw := c.Query("owner"); raw != "" {
			v, err := strconv.ParseUint(raw, 10, 64)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid owner"})
				return
			}
			id := uint(v)
			owner = &id
		}
		items, err := economy.ListCatalog(c.Request.Context(), owner)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"items": items})
	}
}

// PurchaseHandler buys an item for the caller. Buying an owned item answers 200 and changes nothing.
func PurchaseHandler(economy *service.EconomyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireCaller(c)
		if !ok {
			return
		}
		var req PurchaseRequest // Bind JSON request to struct
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Missing item_id"})
			return
		}
		res, err := economy.Purchase(c.Request.Context(), userID, req.ItemID)
		if err != nil {
			// Missing item or wallet is a bad purchase request, not a missing route resource
			if errors.Is(err, domain.ErrNotFound) {
				c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
				return
			}
			writeError(c, err)
			return
		}
		if res.AlreadyOwned {
			c.JSON(http.StatusOK, gin.H{"message": "Item already owned", "item": res.Item, "balance": res.Balance, "already_owned": true})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"message": "Item purchased", "item": res.Item, "balance": res.Balance, "already_owned": false})
	}
}

// PurchaseHistoryHandler returns the caller's purchases, newest first
func PurchaseHistoryHandler(economy *service.EconomyService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireCaller(c)
		if !ok {
			return
		}
		page := 1      // Default page
		pageSize := 20 // Default page size
		// If page exists in query
		if p := c.Query("page"); p != "" {
			if v, err := strconv.Atoi(p); err == nil && v > 0 {
				page = v // Set page if valid
			}
		}
		// If page_size exists in query
		if ps := c.Query("page_size"); ps != "" {
			if v, err := strconv.Atoi(ps); err == nil && v > 0 && v <= 100 {
				pageSize = v // Set page size if valid
			}
		}
		txs, total, err := economy.Purchases(c.Request.Context(), userID, page, pageSize)
		if err != nil {
			writeError(c, err)
			return
		}
		// Calculate total pages
		totalPages := (int(total) + pageSize - 1) / pageSize
		c.JSON(http.StatusOK, gin.H{
			"transactions": txs,        // List of purchases
			"page":         page,       // Current page
			"page_size":    pageSize,   // Page size
			"total":        total,      // Total purchases
			"total_pages":  totalPages, // Total pages
		})
	}
}
