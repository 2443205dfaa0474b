package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campuseats_http_requests_total",
		Help: "HTTP requests by route, method and status code.",
	}, []string{"route", "method", "status"})

	HTTPDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "campuseats_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})

	MenuQueries = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campuseats_menu_queries_total",
		Help: "Menu listings served, by sort key.",
	}, []string{"sort"})

	PriceQuotes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campuseats_price_quotes_total",
		Help: "Customization price quotes, by outcome.",
	}, []string{"outcome"})

	CartMutations = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campuseats_cart_mutations_total",
		Help: "Cart mutations, by operation.",
	}, []string{"op"})

	CartSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "campuseats_cart_sessions",
		Help: "Carts currently held in memory.",
	})

	CatalogRefreshes = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "campuseats_catalog_refresh_total",
		Help: "Catalog refresh cycles, by result.",
	}, []string{"result"})

	CatalogItems = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "campuseats_catalog_items",
		Help: "Menu items in the current catalog snapshot.",
	})
)

// Handler exposes the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
