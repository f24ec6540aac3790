package domain

import "time"

// Transaction records that a user owns a catalog item. (user_id, item_id) is unique.
type Transaction struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                                      // Primary key
	UserID    uint      `gorm:"not null;uniqueIndex:idx_transaction_owner" json:"user_id"` // Buyer
	ItemID    uint      `gorm:"not null;uniqueIndex:idx_transaction_owner" json:"item_id"` // Catalog item
	CreatedAt time.Time `json:"created_at"`                                                // Purchase time

	User *User              `gorm:"constraint:OnDelete:CASCADE" json:"-"`                    // Foreign key only
	Item *CustomizationItem `gorm:"foreignKey:ItemID;constraint:OnDelete:RESTRICT" json:"-"` // Foreign key only
}
