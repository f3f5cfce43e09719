// Package outbound defines the interfaces for outbound ports (secondary/driven adapters)
// These are the interfaces that the application uses to interact with external systems
package outbound

import (
	"context"
	"errors"
	"time"

	"github.com/frigozen/v1/internal/domain/inventory"
	"github.com/frigozen/v1/internal/domain/recipe"
)

// Sentinel errors shared by adapter implementations
var (
	ErrPreferenceNotFound = errors.New("preference not found")
	ErrCacheMiss          = errors.New("cache key not found")
)

// AIGateway defines the interface for the external generative-AI collaborator.
// Each operation is a single stateless request/response exchange with no
// internal retries.
type AIGateway interface {
	// ParseReceipt extracts line items from a captured receipt image. The
	// language steers the names in the response. A malformed payload yields
	// an empty result, not an error.
	ParseReceipt(ctx context.Context, image []byte, language string) ([]ParsedReceiptItem, error)

	// SuggestRecipes proposes recipes restricted to the given ingredient
	// names, answering in the given language.
	SuggestRecipes(ctx context.Context, ingredientNames []string, language string) ([]recipe.Suggestion, error)

	// GenerateRecipeImage produces an image reference for a recipe title.
	// An empty reference with a nil error is a valid "no image available"
	// outcome.
	GenerateRecipeImage(ctx context.Context, title string) (string, error)

	// TranslateNames maps original names to their translations in the
	// target language. The mapping may be partial.
	TranslateNames(ctx context.Context, names []string, targetLanguage string) (map[string]string, error)
}

// ParsedReceiptItem is one recognized line item from a receipt.
type ParsedReceiptItem struct {
	Name            string `json:"name"`
	Category        string `json:"category"`
	ShelfLifeDays   int    `json:"shelfLifeDays"`
	QuantityLabel   string `json:"quantity,omitempty"`
	NumericQuantity int    `json:"numericQuantity"`
}

// InventoryRepository persists the full item collection as a snapshot,
// written on every mutation and read once at startup. Last write wins.
type InventoryRepository interface {
	SaveSnapshot(ctx context.Context, items []*inventory.FoodItem) error
	LoadSnapshot(ctx context.Context) ([]*inventory.FoodItem, error)
}

// PreferenceRepository stores named scalar values (session, language, theme,
// dark-mode flag), each persisted independently on change.
type PreferenceRepository interface {
	Get(ctx context.Context, key string) (string, error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// CacheRepository defines the interface for caching operations
type CacheRepository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}
