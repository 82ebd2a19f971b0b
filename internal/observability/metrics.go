package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics mengumpulkan metrik Prometheus untuk backoffice.
type Metrics struct {
	registry        *prometheus.Registry
	handler         http.Handler
	requestsTotal   *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	interactions    *prometheus.CounterVec
	listCache       *prometheus.CounterVec
	cacheBumps      *prometheus.CounterVec
	cacheVersion    *prometheus.GaugeVec
}

// NewMetrics menginisialisasi registry dan metrik dasar.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	requests := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_http_requests_total",
		Help: "HTTP requests by route and status code.",
	}, []string{"route", "code"})
	duration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "backoffice_http_request_duration_seconds",
		Help:    "HTTP request latency by route.",
		Buckets: prometheus.DefBuckets,
	}, []string{"route"})
	interactions := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_datatable_interactions_total",
		Help: "Grid interactions (sort, filter, panel) by table and kind.",
	}, []string{"table", "kind"})
	listCache := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_list_cache_total",
		Help: "List cache lookups by resource and result.",
	}, []string{"resource", "result"})
	cacheBumps := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "backoffice_list_cache_bumps_total",
		Help: "List cache invalidations announced on the bump channel.",
	}, []string{"resource"})
	cacheVersion := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: "backoffice_list_cache_version",
		Help: "Latest announced list cache version by resource.",
	}, []string{"resource"})
	registry.MustRegister(requests, duration, interactions, listCache, cacheBumps, cacheVersion)
	return &Metrics{
		registry:        registry,
		handler:         promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestsTotal:   requests,
		requestDuration: duration,
		interactions:    interactions,
		listCache:       listCache,
		cacheBumps:      cacheBumps,
		cacheVersion:    cacheVersion,
	}
}

// Handler mengembalikan http.Handler untuk endpoint /metrics.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			http.Error(w, http.StatusText(http.StatusServiceUnavailable), http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// Middleware mencatat metrik untuk setiap permintaan HTTP.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	if m == nil {
		return next
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		recorder := statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(&recorder, r)
		route := routePattern(r)
		m.requestsTotal.WithLabelValues(route, strconv.Itoa(recorder.status)).Inc()
		m.requestDuration.WithLabelValues(route).Observe(time.Since(start).Seconds())
	})
}

// ObserveInteraction counts one accepted grid interaction.
func (m *Metrics) ObserveInteraction(table, kind string) {
	if m == nil {
		return
	}
	m.interactions.WithLabelValues(table, kind).Inc()
}

// ObserveCache counts one list cache lookup.
func (m *Metrics) ObserveCache(resource, result string) {
	if m == nil {
		return
	}
	m.listCache.WithLabelValues(resource, result).Inc()
}

// ObserveBump records an announced list cache version.
func (m *Metrics) ObserveBump(resource string, version int64) {
	if m == nil {
		return
	}
	m.cacheBumps.WithLabelValues(resource).Inc()
	m.cacheVersion.WithLabelValues(resource).Set(float64(version))
}

// Registerer mengekspos registry untuk pendaftaran metrik khusus.
func (m *Metrics) Registerer() prometheus.Registerer {
	if m == nil {
		return prometheus.DefaultRegisterer
	}
	return m.registry
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func routePattern(r *http.Request) string {
	if routeCtx := chi.RouteContext(r.Context()); routeCtx != nil {
		if pattern := routeCtx.RoutePattern(); pattern != "" {
			return pattern
		}
	}
	return "unknown"
}
