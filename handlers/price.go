package handlers

import (
	"net/http"

	"campuseats/catalog"
	"campuseats/metrics"
	"campuseats/models"
	"campuseats/pricing"

	"github.com/rs/zerolog/log"
)

// PriceHandler quotes a customization. With an itemId the catalog price replaces
// the basePrice sent by the client, so the item must exist (404) and the catalog
// must be loaded (503). Without an itemId basePrice is quoted as sent.
func PriceHandler(cache *catalog.Cache, options *pricing.Catalog) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var c models.Customization
		if !decodeJSON(w, r, &c, "invalid request body") {
			return
		}

		if c.ItemID != "" {
			snap, ok := snapshot(w, cache)
			if !ok {
				return
			}
			item, found := snap.Item(c.ItemID)
			if !found {
				writeError(w, http.StatusNotFound, "menu item not found")
				return
			}
			c.BasePrice = item.Price
		}
		if c.BasePrice < 0 {
			writeError(w, http.StatusBadRequest, "basePrice must not be negative")
			return
		}

		q := options.Quote(c)
		outcome := "ok"
		if len(q.Unknown) > 0 {
			outcome = "unknown_option"
			log.Warn().Str("item_id", c.ItemID).Strs("unknown", q.Unknown).Msg("Quote ignored unknown options")
		}
		metrics.PriceQuotes.WithLabelValues(outcome).Inc()

		writeJSON(w, http.StatusOK, q)
	}
}
