package menu

import (
	"cmp"
	"slices"

	"campuseats/models"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// Process filters items by the active predicates of f and orders the result by key.
// canteens is only used to resolve f.CanteenName to a canteen id. The input slice is
// never modified and the result is never nil.
func Process(items []models.MenuItem, f models.FilterSpec, key models.SortKey, canteens []models.Canteen) []models.MenuItem {
	out := Filter(items, f, canteens)
	Sort(out, key)
	return out
}

// Filter returns the items satisfying every active predicate of f, in input order.
func Filter(items []models.MenuItem, f models.FilterSpec, canteens []models.Canteen) []models.MenuItem {
	canteenID, byCanteen := resolveCanteen(f.CanteenName, canteens)
	diet := newDietaryRule(f.DietaryOptions)

	out := make([]models.MenuItem, 0, len(items))
	for _, item := range items {
		if f.AvailableOnly && !item.IsAvailable {
			continue
		}
		if byCanteen && item.CanteenID != canteenID {
			continue
		}
		if f.Category != "" && item.Category != f.Category {
			continue
		}
		if !diet.keep(item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// resolveCanteen maps a canteen name to its id. An empty or unknown name disables
// the canteen predicate.
func resolveCanteen(name string, canteens []models.Canteen) (string, bool) {
	if name == "" {
		return "", false
	}
	for _, c := range canteens {
		if c.Name == name {
			return c.ID, true
		}
	}
	return "", false
}

// Sort orders items in place by key. Unrecognised keys, popularity and rating
// leave the order untouched.
func Sort(items []models.MenuItem, key models.SortKey) {
	switch key {
	case models.SortPriceAsc:
		slices.SortStableFunc(items, func(a, b models.MenuItem) int {
			return cmp.Compare(a.Price, b.Price)
		})
	case models.SortPriceDesc:
		slices.SortStableFunc(items, func(a, b models.MenuItem) int {
			return cmp.Compare(b.Price, a.Price)
		})
	case models.SortName:
		// Collators keep internal buffers and must not be shared across goroutines.
		c := collate.New(language.English)
		slices.SortStableFunc(items, func(a, b models.MenuItem) int {
			return c.CompareString(a.Name, b.Name)
		})
	default:
	}
}

// IsKnownSortKey reports whether key changes or intentionally preserves ordering.
func IsKnownSortKey(key models.SortKey) bool {
	return slices.Contains(models.SortKeys, key)
}
