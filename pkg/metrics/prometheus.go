package metrics

import (
	"strings"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder exposes pipeline observability via Prometheus.
type Recorder struct {
	fetches       *prometheus.CounterVec
	errorsTotal   *prometheus.CounterVec
	cacheLookups  *prometheus.CounterVec
	stageDuration *prometheus.HistogramVec
}

// New creates a Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		fetches: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_fetches_total",
				Help: "Market data fetches by ticker and result",
			},
			[]string{"ticker", "result"},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_classified_errors_total",
				Help: "Classified pipeline errors by kind",
			},
			[]string{"kind"},
		),
		cacheLookups: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dashboard_cache_lookups_total",
				Help: "Derived-series cache lookups by stage and outcome",
			},
			[]string{"stage", "outcome"},
		),
		stageDuration: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dashboard_stage_duration_seconds",
				Help:    "Duration of pipeline stages in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"stage"},
		),
	}
}

// RecordFetch records a market data fetch outcome.
func (r *Recorder) RecordFetch(ticker, result string) {
	r.fetches.WithLabelValues(ticker, result).Inc()
}

// RecordClassifiedError records a classified pipeline error.
func (r *Recorder) RecordClassifiedError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordStageDuration records stage latency in seconds.
func (r *Recorder) RecordStageDuration(stage string, seconds float64) {
	r.stageDuration.WithLabelValues(stage).Observe(seconds)
}

// CacheHit implements cache.Stats.
func (r *Recorder) CacheHit(key string) {
	r.cacheLookups.WithLabelValues(stageOf(key), "hit").Inc()
}

// CacheMiss implements cache.Stats.
func (r *Recorder) CacheMiss(key string) {
	r.cacheLookups.WithLabelValues(stageOf(key), "miss").Inc()
}

func stageOf(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return "other"
}
