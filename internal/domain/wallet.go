package domain

// Wallet Model
type Wallet struct {
	ID      uint  `gorm:"primaryKey" json:"id"`                                                    // Primary key
	UserID  uint  `gorm:"uniqueIndex;not null" json:"user_id"`                                     // One wallet per user
	Balance int64 `gorm:"not null;default:0;check:chk_wallet_balance,balance >= 0" json:"balance"` // Never negative
	User    *User `gorm:"constraint:OnDelete:CASCADE" json:"-"`                                    // Foreign key only
}
