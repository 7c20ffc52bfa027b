package observability

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// PrometheusHooks implements every hook interface by recording Prometheus
// metrics. All metric names are prefixed with "podlens_":
//   - podlens_cache_hits_total{key_type}
//   - podlens_cache_misses_total{key_type}
//   - podlens_cache_sets_total{key_type}
//   - podlens_cache_evictions_total{key_type, reason}
//   - podlens_http_requests_total{host, status}
//   - podlens_http_request_duration_seconds{host}
//   - podlens_parse_examples{source}
//   - podlens_parse_duration_seconds{source}
type PrometheusHooks struct {
	cacheHits      *prometheus.CounterVec
	cacheMisses    *prometheus.CounterVec
	cacheSets      *prometheus.CounterVec
	cacheEvictions *prometheus.CounterVec
	httpRequests   *prometheus.CounterVec
	httpDuration   *prometheus.HistogramVec
	parseExamples  *prometheus.HistogramVec
	parseDuration  *prometheus.HistogramVec
}

// NewPrometheusHooks creates the metrics and registers them with reg.
// Registering twice on the same registerer panics, so the binary creates
// exactly one instance; tests pass a fresh prometheus.NewRegistry().
func NewPrometheusHooks(reg prometheus.Registerer) *PrometheusHooks {
	f := promauto.With(reg)
	return &PrometheusHooks{
		cacheHits: f.NewCounterVec(prometheus.CounterOpts{
			Name: "podlens_cache_hits_total",
			Help: "Total number of cache hits",
		}, []string{"key_type"}),
		cacheMisses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "podlens_cache_misses_total",
			Help: "Total number of cache misses",
		}, []string{"key_type"}),
		cacheSets: f.NewCounterVec(prometheus.CounterOpts{
			Name: "podlens_cache_sets_total",
			Help: "Total number of cache writes",
		}, []string{"key_type"}),
		cacheEvictions: f.NewCounterVec(prometheus.CounterOpts{
			Name: "podlens_cache_evictions_total",
			Help: "Total number of entries removed by expiry or capacity eviction",
		}, []string{"key_type", "reason"}),
		httpRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "podlens_http_requests_total",
			Help: "Total number of outgoing registry requests",
		}, []string{"host", "status"}), // status is "error" for transport failures
		httpDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "podlens_http_request_duration_seconds",
			Help:    "Duration of outgoing registry requests in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"host"}),
		parseExamples: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "podlens_parse_examples",
			Help:    "Number of usage examples extracted per document",
			Buckets: []float64{0, 1, 2, 3, 5, 8, 13, 21},
		}, []string{"source"}),
		parseDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "podlens_parse_duration_seconds",
			Help:    "Duration of README parsing in seconds",
			Buckets: []float64{.0005, .001, .0025, .005, .01, .025, .05, .1},
		}, []string{"source"}),
	}
}

func (h *PrometheusHooks) OnParseStart(context.Context, string) {}

func (h *PrometheusHooks) OnParseComplete(_ context.Context, source string, examples int, d time.Duration, err error) {
	if err != nil {
		return
	}
	h.parseExamples.WithLabelValues(source).Observe(float64(examples))
	h.parseDuration.WithLabelValues(source).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnCacheHit(_ context.Context, keyType string) {
	h.cacheHits.WithLabelValues(keyType).Inc()
}

func (h *PrometheusHooks) OnCacheMiss(_ context.Context, keyType string) {
	h.cacheMisses.WithLabelValues(keyType).Inc()
}

func (h *PrometheusHooks) OnCacheSet(_ context.Context, keyType string, _ int) {
	h.cacheSets.WithLabelValues(keyType).Inc()
}

func (h *PrometheusHooks) OnCacheEvict(_ context.Context, keyType, reason string) {
	h.cacheEvictions.WithLabelValues(keyType, reason).Inc()
}

func (h *PrometheusHooks) OnRequest(context.Context, string, string, string) {}

func (h *PrometheusHooks) OnResponse(_ context.Context, _, host, _ string, status int, d time.Duration) {
	h.httpRequests.WithLabelValues(host, statusLabel(status)).Inc()
	h.httpDuration.WithLabelValues(host).Observe(d.Seconds())
}

func (h *PrometheusHooks) OnError(_ context.Context, _, host, _ string, _ error) {
	h.httpRequests.WithLabelValues(host, "error").Inc()
}

// statusLabel buckets status codes ("2xx", "4xx", ...) to bound label cardinality.
func statusLabel(code int) string {
	if code < 100 || code > 599 {
		return "unknown"
	}
	return string(rune('0'+code/100)) + "xx"
}

var (
	_ ParseHooks = (*PrometheusHooks)(nil)
	_ CacheHooks = (*PrometheusHooks)(nil)
	_ HTTPHooks  = (*PrometheusHooks)(nil)
)
