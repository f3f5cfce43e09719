package gorm

import (
	"github.com/frigozen/v1/internal/domain/inventory"
)

// FoodItemToModel converts a domain food item to its GORM model.
func FoodItemToModel(item *inventory.FoodItem, position int) *FoodItemModel {
	return &FoodItemModel{
		ID:              item.ID(),
		Position:        position,
		Name:            item.Name(),
		Category:        string(item.Category()),
		PurchaseDate:    item.PurchaseDate(),
		ExpiryDate:      item.ExpiryDate(),
		QuantityLabel:   item.QuantityLabel(),
		CurrentQuantity: item.CurrentQuantity(),
		Used:            item.IsUsed(),
	}
}

// ModelToFoodItem rebuilds a domain food item from its GORM model.
func ModelToFoodItem(model *FoodItemModel) *inventory.FoodItem {
	return inventory.Reconstitute(
		model.ID,
		model.Name,
		inventory.CategoryFromString(model.Category),
		model.PurchaseDate,
		model.ExpiryDate,
		model.QuantityLabel,
		model.CurrentQuantity,
		model.Used,
	)
}
