package metrics

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	before := testutil.ToFloat64(MenuQueries.WithLabelValues("priceAsc"))
	MenuQueries.WithLabelValues("priceAsc").Inc()
	assert.Equal(t, before+1, testutil.ToFloat64(MenuQueries.WithLabelValues("priceAsc")))

	CatalogItems.Set(42)
	assert.Equal(t, float64(42), testutil.ToFloat64(CatalogItems))
}

func TestHandler(t *testing.T) {
	PriceQuotes.WithLabelValues("ok").Inc()

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "campuseats_price_quotes_total")
}
