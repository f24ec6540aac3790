package service

import (
	"context"
	"errors"
	"fmt"

	"taskagotchi/internal/domain"

	"gorm.io/gorm"
)

// AvatarService holds each user's avatar and equipped items.
type AvatarService struct {
	db *gorm.DB
}

// NewAvatarService creates the avatar service.
func NewAvatarService(db *gorm.DB) *AvatarService {
	return &AvatarService{db: db}
}

// DefaultItems names the items a new avatar starts with. Nil slots stay empty.
type DefaultItems struct {
	Skin, Shirt, Shoes *uint
}

// CreateDefault creates owner's avatar with the given items equipped. It fails with
// ErrConflict when owner already has one.
func (s *AvatarService) CreateDefault(ctx context.Context, owner uint, name string, items DefaultItems) (*domain.Avatar, error) {
	var avatar *domain.Avatar
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		avatar, err = createAvatar(tx, owner, name, items)
		return err
	})
	return avatar, err
}

func createAvatar(tx *gorm.DB, owner uint, name string, items DefaultItems) (*domain.Avatar, error) {
	var count int64
	if err := tx.Model(&domain.Avatar{}).Where("user_id = ?", owner).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("%w: avatar for user %d", domain.ErrConflict, owner)
	}
	avatar := domain.Avatar{
		UserID:  owner,
		Name:    name,
		Energy:  100,
		SkinID:  items.Skin,
		ShirtID: items.Shirt,
		ShoesID: items.Shoes,
	}
	if err := avatar.Validate(); err != nil {
		return nil, err
	}
	if err := tx.Create(&avatar).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			return nil, fmt.Errorf("%w: avatar for user %d", domain.ErrConflict, owner)
		}
		return nil, err
	}
	return &avatar, nil
}

// defaultItems picks the cheapest catalog item of every type.
func defaultItems(tx *gorm.DB) (DefaultItems, error) {
	var out DefaultItems
	for _, slot := range []struct {
		typ domain.ItemType
		dst **uint
	}{
		{domain.ItemSkin, &out.Skin},
		{domain.ItemShirt, &out.Shirt},
		{domain.ItemShoes, &out.Shoes},
	} {
		var item domain.CustomizationItem
		err := tx.Where("item_type = ?", slot.typ).Order("item_cost").Order("id").First(&item).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			continue
		}
		if err != nil {
			return out, err
		}
		id := item.ID
		*slot.dst = &id
	}
	return out, nil
}

// Get returns owner's avatar.
func (s *AvatarService) Get(ctx context.Context, owner uint) (*domain.Avatar, error) {
	var avatar domain.Avatar
	if err := s.db.WithContext(ctx).Where("user_id = ?", owner).First(&avatar).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("%w: avatar for user %d", domain.ErrNotFound, owner)
		}
		return nil, err
	}
	return &avatar, nil
}

// Equip puts itemID into slot. The item's type must match the slot, and items that cost
// anything must have been purchased.
func (s *AvatarService) Equip(ctx context.Context, owner uint, slot domain.Slot, itemID uint) (*domain.Avatar, error) {
	want, ok := slot.ItemType()
	if !ok {
		return nil, fmt.Errorf("%w: unknown slot %q", domain.ErrInvalidSlot, slot)
	}
	var avatar domain.Avatar
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var item domain.CustomizationItem
		if err := tx.First(&item, itemID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: item %d", domain.ErrNotFound, itemID)
			}
			return err
		}
		if item.Type != want {
			return fmt.Errorf("%w: %s item in %s slot", domain.ErrInvalidSlot, item.Type, slot)
		}
		if item.Cost > 0 {
			var owned int64
			if err := tx.Model(&domain.Transaction{}).
				Where("user_id = ? AND item_id = ?", owner, itemID).
				Count(&owned).Error; err != nil {
				return err
			}
			if owned == 0 {
				return fmt.Errorf("%w: item %d", domain.ErrNotOwned, itemID)
			}
		}
		if err := tx.Where("user_id = ?", owner).First(&avatar).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fmt.Errorf("%w: avatar for user %d", domain.ErrNotFound, owner)
			}
			return err
		}
		avatar.Set(slot, itemID)
		return tx.Save(&avatar).Error
	})
	if err != nil {
		return nil, err
	}
	return &avatar, nil
}
