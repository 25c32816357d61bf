package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "catalog_inventory"

// Metrics holds the collectors of the service. A nil *Metrics records nothing.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	StockAdjustments *prometheus.CounterVec
	PriceChanges     prometheus.Counter
	DiscountChanges  prometheus.Counter
	HistoryCleanups  prometheus.Counter
	ImagesStored     *prometheus.CounterVec
	ImagesRejected   *prometheus.CounterVec
}

// New creates the collectors and registers them on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		HTTPRequestsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total HTTP requests",
		}, []string{"method", "route", "status"}),
		HTTPRequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
		StockAdjustments: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_adjustments_total",
			Help:      "Variant stock adjustments by transaction type",
		}, []string{"transaction_type"}),
		PriceChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "price_changes_total",
			Help:      "Price history rows written",
		}),
		DiscountChanges: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_changes_total",
			Help:      "Discount history rows written",
		}),
		HistoryCleanups: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "discount_history_cleaned_total",
			Help:      "Discount history rows removed with their discount",
		}),
		ImagesStored: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_stored_total",
			Help:      "Validated images written to storage",
		}, []string{"kind"}),
		ImagesRejected: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "images_rejected_total",
			Help:      "Uploads rejected by image validation",
		}, []string{"kind"}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequestsTotal,
		m.HTTPRequestDuration,
		m.StockAdjustments,
		m.PriceChanges,
		m.DiscountChanges,
		m.HistoryCleanups,
		m.ImagesStored,
		m.ImagesRejected,
	)

	return m
}

// Registry exposes the registry for scraping and tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Middleware records request counts and latency per chi route pattern.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}

		m.HTTPRequestsTotal.WithLabelValues(r.Method, route, strconv.Itoa(status)).Inc()
		m.HTTPRequestDuration.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) RecordStockAdjustment(transactionType string) {
	if m == nil {
		return
	}
	m.StockAdjustments.WithLabelValues(transactionType).Inc()
}

func (m *Metrics) RecordPriceChange() {
	if m == nil {
		return
	}
	m.PriceChanges.Inc()
}

func (m *Metrics) RecordDiscountChange() {
	if m == nil {
		return
	}
	m.DiscountChanges.Inc()
}

func (m *Metrics) RecordHistoryCleanup(rows int64) {
	if m == nil {
		return
	}
	m.HistoryCleanups.Add(float64(rows))
}

func (m *Metrics) RecordImageStored(kind string) {
	if m == nil {
		return
	}
	m.ImagesStored.WithLabelValues(kind).Inc()
}

func (m *Metrics) RecordImageRejected(kind string) {
	if m == nil {
		return
	}
	m.ImagesRejected.WithLabelValues(kind).Inc()
}
