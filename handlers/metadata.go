package handlers

import (
	"net/http"

	"campuseats/catalog"
	"campuseats/models"
	"campuseats/pricing"
)

// CanteensHandler lists the canteens used to populate the canteen filter.
func CanteensHandler(cache *catalog.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := snapshot(w, cache)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, snap.Canteens)
	}
}

// CategoriesHandler lists the distinct menu categories.
func CategoriesHandler(cache *catalog.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := snapshot(w, cache)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, snap.Categories())
	}
}

// FiltersHandler lists the selectable dietary options and sort keys.
func FiltersHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{
			"dietaryOptions": models.DietaryOptions,
			"sortKeys":       models.SortKeys,
		})
	}
}

// OptionsHandler lists the customization options.
func OptionsHandler(options *pricing.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, options.Options())
	}
}
