package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/bazaar/pkg/metrics"
)

func TestMiddlewareLabelsByRoutePattern(t *testing.T) {
	r := chi.NewRouter()
	r.Use(metrics.Middleware())
	r.Get("/api/v1/product/get-product/{slug}", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	before := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/api/v1/product/get-product/{slug}", "200"))
	for _, slug := range []string{"lamp", "desk"} {
		r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/product/get-product/"+slug, nil))
	}
	after := testutil.ToFloat64(metrics.RequestTotal.WithLabelValues("GET", "/api/v1/product/get-product/{slug}", "200"))

	assert.Equal(t, 2.0, after-before)
}

func TestHandlerExposesShopCounters(t *testing.T) {
	metrics.OrdersTotal.WithLabelValues("created").Inc()
	metrics.PaymentsTotal.WithLabelValues("success").Inc()

	rec := httptest.NewRecorder()
	metrics.Handler()(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	body := rec.Body.String()
	assert.True(t, strings.Contains(body, "bazaar_shop_orders_total"))
	assert.True(t, strings.Contains(body, "bazaar_shop_payments_total"))
}
