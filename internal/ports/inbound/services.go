// Package inbound defines the interfaces for inbound ports (primary/driving adapters)
// These are the use cases the application exposes to its callers
package inbound

import (
	"context"

	"github.com/frigozen/v1/internal/domain/inventory"
	"github.com/frigozen/v1/internal/domain/recipe"
	"github.com/frigozen/v1/internal/domain/user"
	"github.com/google/uuid"
)

// InventoryService owns the food item collection and its derived views.
type InventoryService interface {
	// AddBatch prepends the given items to the collection, preserving their
	// relative order. Duplicate names are distinct batches.
	AddBatch(ctx context.Context, items []*inventory.FoodItem) error

	// DecrementOrConsume reduces the remaining unit count of the item, or
	// marks it fully used when consumeAll is set or one unit remains.
	DecrementOrConsume(ctx context.Context, id uuid.UUID, consumeAll bool) error

	// ReviseExpiry overwrites the expiry date after validating that the
	// given value parses as a calendar date.
	ReviseExpiry(ctx context.Context, id uuid.UUID, newDate string) error

	// ClearAll empties the collection unconditionally. Confirmation is the
	// caller's concern.
	ClearAll(ctx context.Context) error

	// RenameMany replaces the name of every item whose current name is a
	// key in the mapping; other items are untouched.
	RenameMany(ctx context.Context, mapping map[string]string) error

	// Items returns the full collection in order.
	Items(ctx context.Context) []*inventory.FoodItem

	// ActiveItems returns items not yet marked used, in collection order.
	ActiveItems(ctx context.Context) []*inventory.FoodItem

	// ExpiringSoon returns active items inside the warning window, earliest
	// expiry first. A positive limit caps the result.
	ExpiringSoon(ctx context.Context, limit int) []*inventory.FoodItem

	// ConsumptionStats summarizes how much of the tracked food was used.
	ConsumptionStats(ctx context.Context) ConsumptionStats
}

// ConsumptionStats is the dashboard summary of consumption progress.
type ConsumptionStats struct {
	Total      int
	Consumed   int
	Percentage int
}

// KitchenService orchestrates the AI-backed workflows: receipt scanning,
// recipe suggestion, and language-triggered translation.
type KitchenService interface {
	// ScanReceipt parses a captured receipt image and ingests the
	// recognized line items into the inventory. Returns the number of items
	// added. On failure nothing is ingested.
	ScanReceipt(ctx context.Context, image []byte) (int, error)

	// SuggestRecipes proposes recipes from the active inventory, attaching
	// a generated or placeholder image to each. A no-op when the active
	// inventory is empty.
	SuggestRecipes(ctx context.Context) ([]recipe.Suggestion, error)

	// ApplyLanguage translates all item names when the language actually
	// changed and the inventory is non-empty. Failure leaves names
	// unchanged and is non-fatal.
	ApplyLanguage(ctx context.Context, language string) error
}

// PreferenceService holds session and preference state, persisting each value
// immediately on change.
type PreferenceService interface {
	Load(ctx context.Context) error

	Language() string
	SetLanguage(ctx context.Context, language string) error

	Theme() string
	SetTheme(ctx context.Context, theme string) error

	DarkMode() bool
	SetDarkMode(ctx context.Context, enabled bool) error

	CurrentUser() *user.User
	Login(ctx context.Context, u *user.User) error
	Logout(ctx context.Context) error
}
