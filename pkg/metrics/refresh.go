package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// RefreshMetrics records catalog refresh outcomes.
type RefreshMetrics struct {
	duration    prometheus.Histogram
	success     prometheus.Counter
	failure     prometheus.Counter
	catalogSize prometheus.Gauge
	excluded    *prometheus.CounterVec
}

// NewRefreshMetrics registers the refresh metrics on the provided registerer.
func NewRefreshMetrics(reg prometheus.Registerer) *RefreshMetrics {
	if reg == nil {
		return &RefreshMetrics{}
	}
	duration := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "catalog_refresh_duration_seconds",
		Help:    "Duration of catalog refreshes in seconds.",
		Buckets: prometheus.DefBuckets,
	})
	success := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_refresh_success",
		Help: "Catalog refreshes that published a new generation.",
	})
	failure := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "catalog_refresh_failure",
		Help: "Catalog refreshes where the listing call failed outright.",
	})
	catalogSize := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "catalog_size",
		Help: "Number of products in the current catalog generation.",
	})
	excluded := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "catalog_items_excluded",
		Help: "Raw items dropped during normalization, by reason.",
	}, []string{"reason"})
	reg.MustRegister(duration, success, failure, catalogSize, excluded)
	return &RefreshMetrics{
		duration:    duration,
		success:     success,
		failure:     failure,
		catalogSize: catalogSize,
		excluded:    excluded,
	}
}

// ObserveDuration records how long a refresh took.
func (r *RefreshMetrics) ObserveDuration(duration time.Duration) {
	if r == nil || r.duration == nil {
		return
	}
	r.duration.Observe(duration.Seconds())
}

// IncSuccess increments the successful refresh counter.
func (r *RefreshMetrics) IncSuccess() {
	if r == nil || r.success == nil {
		return
	}
	r.success.Inc()
}

// IncFailure increments the failed refresh counter.
func (r *RefreshMetrics) IncFailure() {
	if r == nil || r.failure == nil {
		return
	}
	r.failure.Inc()
}

// SetCatalogSize records the size of the published generation.
func (r *RefreshMetrics) SetCatalogSize(size int) {
	if r == nil || r.catalogSize == nil {
		return
	}
	r.catalogSize.Set(float64(size))
}

// IncExcluded counts a raw item dropped for the given reason.
func (r *RefreshMetrics) IncExcluded(reason string) {
	if r == nil || r.excluded == nil {
		return
	}
	r.excluded.WithLabelValues(normalizeLabel(reason)).Inc()
}

func normalizeLabel(value string) string {
	trimmed := strings.TrimSpace(strings.ToLower(value))
	if trimmed == "" {
		return "unknown"
	}
	return strings.ReplaceAll(trimmed, " ", "_")
}
