package db

import (
	"fmt"

	"taskagotchi/internal/domain"

	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// Catalog is the reference list of purchasable items. The zero-cost entry of each
// type is what new avatars start with.
var Catalog = []domain.CustomizationItem{
	{Type: domain.ItemSkin, Name: "Classic Skin", Cost: 0, ModelKey: "skin_classic_001"},
	{Type: domain.ItemSkin, Name: "Red Skin", Cost: 50, ModelKey: "skin_red_001"},
	{Type: domain.ItemSkin, Name: "Cool Skin", Cost: 100, ModelKey: "skin_cool_001"},
	{Type: domain.ItemSkin, Name: "Galaxy Skin", Cost: 750, ModelKey: "skin_galaxy_001"},
	{Type: domain.ItemShirt, Name: "Plain Tee", Cost: 0, ModelKey: "shirt_plain_001"},
	{Type: domain.ItemShirt, Name: "Striped Shirt", Cost: 120, ModelKey: "shirt_striped_001"},
	{Type: domain.ItemShirt, Name: "Hoodie", Cost: 300, ModelKey: "shirt_hoodie_001"},
	{Type: domain.ItemShoes, Name: "Flip Flops", Cost: 0, ModelKey: "shoes_flipflop_001"},
	{Type: domain.ItemShoes, Name: "Sneakers", Cost: 150, ModelKey: "shoes_sneaker_001"},
	{Type: domain.ItemShoes, Name: "Rocket Boots", Cost: 1200, ModelKey: "shoes_rocket_001"},
}

// SeedCatalog inserts the catalog. Items that already exist (by name) are left untouched.
func SeedCatalog(db *gorm.DB) error {
	items := make([]domain.CustomizationItem, len(Catalog))
	copy(items, Catalog)
	res := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoNothing: true,
	}).Create(&items)
	if res.Error != nil {
		return fmt.Errorf("seed catalog: %w", res.Error)
	}
	logrus.WithField("inserted", res.RowsAffected).Info("Catalog seeded")
	return nil
}
