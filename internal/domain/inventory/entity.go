// Package inventory contains the core domain logic for tracking perishable
// food items. It follows Domain-Driven Design principles with rich domain models.
package inventory

import (
	"time"

	"github.com/frigozen/v1/internal/domain/shared"
	"github.com/google/uuid"
)

// FoodItem represents one purchased batch of a food product.
// A batch may stand for several countable units (currentQuantity),
// and is never deleted individually, only marked used.
type FoodItem struct {
	shared.AggregateRoot

	id           uuid.UUID
	name         string
	category     Category
	purchaseDate time.Time
	expiryDate   time.Time

	// quantityLabel is the free-text description ("500g"); immutable.
	quantityLabel string
	// currentQuantity counts remaining units and decrements toward zero.
	currentQuantity int
	used            bool
}

// NewFoodItem creates a new FoodItem with validation. A non-positive unit
// count defaults to 1, matching the receipt-parsing contract where the
// service may omit the numeric quantity.
func NewFoodItem(name string, category Category, purchaseDate, expiryDate time.Time, quantityLabel string, units int) (*FoodItem, error) {
	if name == "" {
		return nil, ErrEmptyName
	}
	if expiryDate.IsZero() {
		return nil, ErrInvalidExpiryDate
	}
	if !category.IsValid() {
		category = CategoryOther
	}
	if units <= 0 {
		units = 1
	}

	return &FoodItem{
		id:              uuid.New(),
		name:            name,
		category:        category,
		purchaseDate:    purchaseDate,
		expiryDate:      expiryDate,
		quantityLabel:   quantityLabel,
		currentQuantity: units,
	}, nil
}

// Reconstitute rebuilds a FoodItem from persisted state without validation
// or events. Used by the persistence layer only.
func Reconstitute(id uuid.UUID, name string, category Category, purchaseDate, expiryDate time.Time, quantityLabel string, units int, used bool) *FoodItem {
	return &FoodItem{
		id:              id,
		name:            name,
		category:        category,
		purchaseDate:    purchaseDate,
		expiryDate:      expiryDate,
		quantityLabel:   quantityLabel,
		currentQuantity: units,
		used:            used,
	}
}

// ID returns the item's unique identifier
func (f *FoodItem) ID() uuid.UUID {
	return f.id
}

// Name returns the item's display name
func (f *FoodItem) Name() string {
	return f.name
}

// Category returns the item's category
func (f *FoodItem) Category() Category {
	return f.category
}

// PurchaseDate returns when the batch was purchased
func (f *FoodItem) PurchaseDate() time.Time {
	return f.purchaseDate
}

// ExpiryDate returns when the batch expires
func (f *FoodItem) ExpiryDate() time.Time {
	return f.expiryDate
}

// QuantityLabel returns the free-text quantity description
func (f *FoodItem) QuantityLabel() string {
	return f.quantityLabel
}

// CurrentQuantity returns the remaining unit count
func (f *FoodItem) CurrentQuantity() int {
	return f.currentQuantity
}

// IsUsed reports whether the batch has been fully consumed
func (f *FoodItem) IsUsed() bool {
	return f.used
}

// Consume reduces the remaining unit count. When consumeAll is true, or the
// count is already at one or below, the batch is marked fully used and the
// count forced to zero; otherwise the count decrements by exactly one.
// Consuming an already-used batch is a no-op.
func (f *FoodItem) Consume(consumeAll bool) {
	if f.used {
		return
	}

	if consumeAll || f.currentQuantity <= 1 {
		f.used = true
		f.currentQuantity = 0
	} else {
		f.currentQuantity--
	}

	f.AddEvent(ItemConsumedEvent{
		ItemID:     f.id,
		Name:       f.name,
		FullyUsed:  f.used,
		Remaining:  f.currentQuantity,
		ConsumedAt: time.Now(),
	})
}

// ReviseExpiry overwrites the expiry date after validation.
func (f *FoodItem) ReviseExpiry(newDate time.Time) error {
	if newDate.IsZero() {
		return ErrInvalidExpiryDate
	}

	oldDate := f.expiryDate
	f.expiryDate = newDate

	f.AddEvent(ItemExpiryRevisedEvent{
		ItemID:    f.id,
		OldDate:   oldDate,
		NewDate:   newDate,
		RevisedAt: time.Now(),
	})

	return nil
}

// Rename replaces the display name in place. Identity is unchanged, so
// translation passes do not disturb the rest of the record.
func (f *FoodItem) Rename(newName string) error {
	if newName == "" {
		return ErrEmptyName
	}
	if newName == f.name {
		return nil
	}

	oldName := f.name
	f.name = newName

	f.AddEvent(ItemRenamedEvent{
		ItemID:    f.id,
		OldName:   oldName,
		NewName:   newName,
		RenamedAt: time.Now(),
	})

	return nil
}
