// Package gorm provides GORM model definitions for the application
package gorm

import (
	"time"

	"github.com/google/uuid"
)

// FoodItemModel represents the GORM model for one persisted food item.
// Position preserves collection order across snapshot round-trips.
type FoodItemModel struct {
	ID              uuid.UUID `gorm:"type:char(36);primaryKey"`
	Position        int       `gorm:"not null;index"`
	Name            string    `gorm:"type:varchar(255);not null"`
	Category        string    `gorm:"type:varchar(50);not null"`
	PurchaseDate    time.Time `gorm:"not null"`
	ExpiryDate      time.Time `gorm:"not null;index"`
	QuantityLabel   string    `gorm:"type:varchar(100)"`
	CurrentQuantity int       `gorm:"not null;default:1"`
	Used            bool      `gorm:"not null;default:false"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// TableName overrides the table name
func (FoodItemModel) TableName() string {
	return "food_items"
}

// PreferenceModel represents one persisted key/value preference.
type PreferenceModel struct {
	Key       string `gorm:"type:varchar(100);primaryKey"`
	Value     string `gorm:"type:text;not null"`
	UpdatedAt time.Time
}

// TableName overrides the table name
func (PreferenceModel) TableName() string {
	return "preferences"
}
