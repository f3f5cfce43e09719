// Package gorm provides GORM-based repository implementations
package gorm

import (
	"context"

	"github.com/frigozen/v1/internal/domain/inventory"
	"github.com/frigozen/v1/internal/ports/outbound"
	"gorm.io/gorm"
)

// InventoryRepository implements snapshot persistence for the food item
// collection using GORM. The whole collection is rewritten on every save;
// the item count of a household fridge makes this the simplest correct
// strategy and keeps ordering trivial.
type InventoryRepository struct {
	db *gorm.DB
}

// NewInventoryRepository creates a new inventory repository
func NewInventoryRepository(db *gorm.DB) outbound.InventoryRepository {
	return &InventoryRepository{db: db}
}

// SaveSnapshot replaces the persisted collection with the given items.
// Last write wins.
func (r *InventoryRepository) SaveSnapshot(ctx context.Context, items []*inventory.FoodItem) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("1 = 1").Delete(&FoodItemModel{}).Error; err != nil {
			return err
		}

		if len(items) == 0 {
			return nil
		}

		models := make([]*FoodItemModel, len(items))
		for i, item := range items {
			models[i] = FoodItemToModel(item, i)
		}
		return tx.Create(models).Error
	})
}

// LoadSnapshot returns the persisted collection in its saved order.
func (r *InventoryRepository) LoadSnapshot(ctx context.Context) ([]*inventory.FoodItem, error) {
	var models []*FoodItemModel
	if err := r.db.WithContext(ctx).Order("position ASC").Find(&models).Error; err != nil {
		return nil, err
	}

	items := make([]*inventory.FoodItem, len(models))
	for i, model := range models {
		items[i] = ModelToFoodItem(model)
	}
	return items, nil
}
