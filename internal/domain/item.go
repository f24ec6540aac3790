package domain

// ItemType is the avatar slot an item fits.
type ItemType string

const (
	ItemSkin  ItemType = "skin"
	ItemShirt ItemType = "shirt"
	ItemShoes ItemType = "shoes"
)

// Valid reports whether t is a known item type.
func (t ItemType) Valid() bool {
	return t == ItemSkin || t == ItemShirt || t == ItemShoes
}

// CustomizationItem Model (catalog entry, seeded once)
type CustomizationItem struct {
	ID       uint     `gorm:"primaryKey" json:"id"`                                                                                         // Primary key
	Type     ItemType `gorm:"column:item_type;size:16;not null;check:chk_item_type,item_type IN ('skin','shirt','shoes')" json:"item_type"` // Slot
	Name     string   `gorm:"uniqueIndex;size:120;not null" json:"name"`                                                                    // Display name
	Cost     int64    `gorm:"column:item_cost;not null;check:chk_item_cost,item_cost >= 0" json:"item_cost"`                                // Price
	ModelKey string   `gorm:"size:120;not null" json:"model_key"`                                                                           // Opaque display key
}

// TableName keeps the catalog table name stable.
func (CustomizationItem) TableName() string { return "customization_items" }
