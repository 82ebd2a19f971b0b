package observability

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rr := httptest.NewRecorder()
	m.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rr.Code)
	return rr.Body.String()
}

func TestMetricsMiddlewareRecordsRequest(t *testing.T) {
	metrics := NewMetrics()

	handler := metrics.Middleware(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))

	routeCtx := chi.NewRouteContext()
	routeCtx.RoutePatterns = append(routeCtx.RoutePatterns, "/test")

	req := httptest.NewRequest(http.MethodGet, "/test", nil)
	ctx := context.WithValue(req.Context(), chi.RouteCtxKey, routeCtx)
	req = req.WithContext(ctx)

	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)
	assert.Equal(t, http.StatusTeapot, rr.Code)

	body := scrape(t, metrics)
	assert.Contains(t, body, `backoffice_http_requests_total{code="418",route="/test"} 1`)
	assert.Contains(t, body, `backoffice_http_request_duration_seconds_bucket{route="/test"`)
}

func TestMetricsGridCounters(t *testing.T) {
	metrics := NewMetrics()
	metrics.ObserveInteraction("products", "sort")
	metrics.ObserveInteraction("products", "sort")
	metrics.ObserveCache("products", "hit")
	metrics.ObserveBump("products", 3)
	metrics.ObserveBump("products", 4)

	body := scrape(t, metrics)
	assert.Contains(t, body, `backoffice_datatable_interactions_total{kind="sort",table="products"} 2`)
	assert.Contains(t, body, `backoffice_list_cache_total{resource="products",result="hit"} 1`)
	assert.Contains(t, body, `backoffice_list_cache_bumps_total{resource="products"} 2`)
	assert.Contains(t, body, `backoffice_list_cache_version{resource="products"} 4`)
}

func TestNilMetricsAreSafe(t *testing.T) {
	var metrics *Metrics
	metrics.ObserveInteraction("x", "y")
	metrics.ObserveCache("x", "y")
	metrics.ObserveBump("x", 1)

	rr := httptest.NewRecorder()
	metrics.Handler().ServeHTTP(rr, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	assert.Equal(t, http.StatusServiceUnavailable, rr.Code)
	assert.True(t, strings.HasPrefix(rr.Body.String(), "Service Unavailable"))
}
