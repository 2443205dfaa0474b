package handlers

import (
	"errors"
	"net/http"
	"net/url"
	"strings"
	"time"

	"campuseats/catalog"
	"campuseats/menu"
	"campuseats/metrics"
	"campuseats/models"
)

// MenuParams is the parsed query of a menu listing.
type MenuParams struct {
	Filter models.FilterSpec
	Sort   models.SortKey
}

// ParseMenuParams extracts menu filters from the URL query. Both the short and the
// long parameter names are accepted (canteen/canteenName, dietary/dietaryOptions,
// available/availableOnly).
func ParseMenuParams(query url.Values) MenuParams {
	var p MenuParams

	p.Filter.CanteenName = query.Get("canteen")
	if p.Filter.CanteenName == "" {
		p.Filter.CanteenName = query.Get("canteenName")
	}

	p.Filter.Category = query.Get("category")

	for _, key := range []string{"dietary", "dietaryOptions"} {
		for _, v := range query[key] {
			for _, opt := range strings.Split(v, ",") {
				if opt = strings.TrimSpace(opt); opt != "" {
					p.Filter.DietaryOptions = append(p.Filter.DietaryOptions, opt)
				}
			}
		}
	}

	available := query.Get("available")
	if available == "" {
		available = query.Get("availableOnly")
	}
	p.Filter.AvailableOnly = available == "true" || available == "1"

	p.Sort = models.SortKey(query.Get("sort"))
	return p
}

type menuResponse struct {
	Items       []models.MenuItem `json:"items"`
	Count       int               `json:"count"`
	Sort        models.SortKey    `json:"sort,omitempty"`
	RefreshedAt time.Time         `json:"refreshedAt"`
}

// MenuHandler lists the filtered and sorted menu across all canteens.
func MenuHandler(cache *catalog.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := snapshot(w, cache)
		if !ok {
			return
		}

		p := ParseMenuParams(r.URL.Query())
		items := menu.Process(snap.Items, p.Filter, p.Sort, snap.Canteens)

		label := string(p.Sort)
		if !menu.IsKnownSortKey(p.Sort) {
			label = "none"
		}
		metrics.MenuQueries.WithLabelValues(label).Inc()

		writeJSON(w, http.StatusOK, menuResponse{
			Items:       items,
			Count:       len(items),
			Sort:        p.Sort,
			RefreshedAt: snap.RefreshedAt,
		})
	}
}

// MenuItemHandler returns a single menu item.
func MenuItemHandler(cache *catalog.Cache) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		snap, ok := snapshot(w, cache)
		if !ok {
			return
		}

		item, found := snap.Item(r.PathValue("id"))
		if !found {
			writeError(w, http.StatusNotFound, "menu item not found")
			return
		}
		writeJSON(w, http.StatusOK, item)
	}
}

// snapshot writes 503 while the catalog has not been loaded.
func snapshot(w http.ResponseWriter, cache *catalog.Cache) (catalog.Snapshot, bool) {
	snap, err := cache.Snapshot()
	if errors.Is(err, catalog.ErrNotReady) {
		writeError(w, http.StatusServiceUnavailable, "menu is loading, try again shortly")
		return snap, false
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Something went wrong")
		return snap, false
	}
	return snap, true
}
