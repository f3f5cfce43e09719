package inventory

import "strings"

// Category classifies a food item into one of the fixed pantry groups.
type Category string

const (
	CategoryFruitsVeggies Category = "FRUITS_VEGGIES"
	CategoryDairy         Category = "DAIRY"
	CategoryMeatFish      Category = "MEAT_FISH"
	CategoryPantry        Category = "PANTRY"
	CategoryBeverages     Category = "BEVERAGES"
	CategoryFrozen        Category = "FROZEN"
	CategoryOther         Category = "OTHER"
)

// Categories lists every valid category.
func Categories() []Category {
	return []Category{
		CategoryFruitsVeggies,
		CategoryDairy,
		CategoryMeatFish,
		CategoryPantry,
		CategoryBeverages,
		CategoryFrozen,
		CategoryOther,
	}
}

// IsValid reports whether the category is one of the known values.
func (c Category) IsValid() bool {
	switch c {
	case CategoryFruitsVeggies, CategoryDairy, CategoryMeatFish,
		CategoryPantry, CategoryBeverages, CategoryFrozen, CategoryOther:
		return true
	}
	return false
}

// CategoryFromString maps a raw label onto the closed category set.
// Unrecognized input falls back to CategoryOther rather than failing,
// since receipt parsing may return labels outside the schema.
func CategoryFromString(raw string) Category {
	c := Category(strings.ToUpper(strings.TrimSpace(raw)))
	if c.IsValid() {
		return c
	}
	return CategoryOther
}
