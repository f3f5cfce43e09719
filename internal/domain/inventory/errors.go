package inventory

import "errors"

// Domain errors for inventory operations

var (
	// Entity validation errors
	ErrEmptyName         = errors.New("food item name is required")
	ErrNegativeQuantity  = errors.New("remaining unit count cannot be negative")
	ErrInvalidExpiryDate = errors.New("expiry date must be a valid calendar date")

	// Lookup errors
	ErrItemNotFound = errors.New("food item not found")
)
