// Package metrics exposes Prometheus metrics for the gosignal service.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all gosignal Prometheus metrics
type Metrics struct {
	// SubmissionsTotal counts submission records by engine and outcome
	SubmissionsTotal *prometheus.CounterVec

	// SubmissionDuration observes the latency of one endpoint submission
	// (including retries)
	SubmissionDuration prometheus.Histogram

	// QuotaUsed tracks today's consumed submission units
	QuotaUsed prometheus.Gauge

	// ContentMutations counts content create/update/delete operations
	ContentMutations *prometheus.CounterVec

	// SEOCacheHits counts sitemap/feed cache hits and misses
	SEOCacheHits *prometheus.CounterVec
}

// New registers and returns the service metrics on the default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the service metrics on the given registerer. Tests use
// a fresh registry to avoid duplicate registration.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		SubmissionsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gosignal_submissions_total",
			Help: "Submission records by engine and outcome",
		}, []string{"engine", "outcome"}),

		SubmissionDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "gosignal_submission_duration_seconds",
			Help:    "Latency of one endpoint submission including retries",
			Buckets: prometheus.DefBuckets,
		}),

		QuotaUsed: factory.NewGauge(prometheus.GaugeOpts{
			Name: "gosignal_quota_used",
			Help: "Submission units consumed today",
		}),

		ContentMutations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gosignal_content_mutations_total",
			Help: "Content mutations by entity and operation",
		}, []string{"entity", "operation"}),

		SEOCacheHits: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "gosignal_seo_cache_requests_total",
			Help: "SEO artifact cache lookups by artifact and result",
		}, []string{"artifact", "result"}),
	}
}

// Handler returns the Prometheus HTTP handler for the /metrics endpoint.
func Handler() http.Handler {
	return promhttp.Handler()
}
