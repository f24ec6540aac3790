package domain

import "fmt"

// Slot names an equipment position on the avatar.
type Slot string

const (
	SlotSkin  Slot = "skin"
	SlotShirt Slot = "shirt"
	SlotShoes Slot = "shoes"
)

// ItemType returns the item type that fits the slot.
func (s Slot) ItemType() (ItemType, bool) {
	switch s {
	case SlotSkin:
		return ItemSkin, true
	case SlotShirt:
		return ItemShirt, true
	case SlotShoes:
		return ItemShoes, true
	}
	return "", false
}

// Avatar Model
type Avatar struct {
	ID      uint   `gorm:"primaryKey" json:"id"`                                   // Primary key
	UserID  uint   `gorm:"uniqueIndex;not null" json:"user_id"`                    // One avatar per user
	Name    string `gorm:"column:avatar_name;size:80;not null" json:"avatar_name"` // Display name
	Energy  int    `gorm:"column:avatar_energy;not null;check:chk_avatar_energy,avatar_energy BETWEEN 0 AND 100" json:"avatar_energy"`
	SkinID  *uint  `json:"skin_id"`  // Equipped skin
	ShirtID *uint  `json:"shirt_id"` // Equipped shirt
	ShoesID *uint  `json:"shoes_id"` // Equipped shoes
	User    *User  `gorm:"constraint:OnDelete:CASCADE" json:"-"`
}

// Validate checks the energy range.
func (a *Avatar) Validate() error {
	if a.Energy < 0 || a.Energy > 100 {
		return fmt.Errorf("%w: energy %d out of range", ErrValidation, a.Energy)
	}
	return nil
}

// Set stores itemID in the given slot.
func (a *Avatar) Set(slot Slot, itemID uint) {
	switch slot {
	case SlotSkin:
		a.SkinID = &itemID
	case SlotShirt:
		a.ShirtID = &itemID
	case SlotShoes:
		a.ShoesID = &itemID
	}
}
