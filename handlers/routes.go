package handlers

import (
	"net/http"

	"campuseats/cart"
	"campuseats/catalog"
	"campuseats/metrics"
	"campuseats/pricing"
)

// Deps are the long-lived objects the handlers close over.
type Deps struct {
	Catalog        *catalog.Cache
	Options        *pricing.Catalog
	Carts          *cart.Registry
	AllowedOrigins []string
}

// NewMux registers every route. Patterns double as metric route labels.
func NewMux(d Deps) *http.ServeMux {
	mux := http.NewServeMux()
	handle := func(pattern string, h http.Handler) {
		mux.Handle(pattern, Instrument(pattern, h))
	}

	handle("GET /health", http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}))
	mux.Handle("GET /metrics", metrics.Handler())

	handle("GET /api/menu", MenuHandler(d.Catalog))
	handle("GET /api/menu/{id}", MenuItemHandler(d.Catalog))
	handle("GET /api/canteens", CanteensHandler(d.Catalog))
	handle("GET /api/categories", CategoriesHandler(d.Catalog))
	handle("GET /api/filters", FiltersHandler())
	handle("GET /api/options", OptionsHandler(d.Options))
	handle("POST /api/price", PriceHandler(d.Catalog, d.Options))

	handle("GET /api/cart", GetCartHandler(d.Carts))
	handle("DELETE /api/cart", ClearCartHandler(d.Carts))
	handle("POST /api/cart/items", AddCartItemHandler(d.Catalog, d.Carts))
	handle("PATCH /api/cart/items/{lineID}", UpdateCartItemHandler(d.Carts))
	handle("DELETE /api/cart/items/{lineID}", RemoveCartItemHandler(d.Carts))
	handle("GET /api/cart/stream", CartStreamHandler(d.Carts, d.AllowedOrigins))

	return mux
}
