package api

import (
	"net/http" // HTTP status codes

	"taskagotchi/internal/domain"  // Slots
	"taskagotchi/internal/service" // Avatar manager

	"github.com/gin-gonic/gin" // Gin web framework
)

// EquipRequest is the payload of PATCH /avatar
type EquipRequest struct {
	Slot   string `json:"slot" binding:"required"`    // skin, shirt or shoes
	ItemID uint   `json:"item_id" binding:"required"` // Item to equip
}

// GetAvatarHandler returns the caller's avatar
func GetAvatarHandler(avatars *service.AvatarService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireCaller(c)
		if !ok {
			return
		}
		avatar, err := avatars.Get(c.Request.Context(), userID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"avatar": avatar})
	}
}

// EquipHandler puts an item into one of the caller's avatar slots
func EquipHandler(avatars *service.AvatarService) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := requireCaller(c)
		if !ok {
			return
		}
		var req EquipRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid request"})
			return
		}
		avatar, err := avatars.Equip(c.Request.Context(), userID, domain.Slot(req.Slot), req.ItemID)
		if err != nil {
			writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"avatar": avatar})
	}
}
