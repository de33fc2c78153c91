package service

import (
	"fmt"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/noah-isme/edu-signal-api/internal/models"
)

// MetricsService encapsulates Prometheus instrumentation and provides lightweight snapshots for API consumption.
type MetricsService struct {
	registry         *prometheus.Registry
	handler          http.Handler
	requestDuration  *prometheus.HistogramVec
	requestTotal     *prometheus.CounterVec
	cacheLatency     prometheus.Observer
	cacheWrite       prometheus.Observer
	cacheHitRatio    prometheus.Gauge
	cacheHits        prometheus.Counter
	cacheMisses      prometheus.Counter
	fetchDuration    *prometheus.HistogramVec
	fetchFailures    *prometheus.CounterVec
	analysisDuration *prometheus.HistogramVec
	warmupJobs       *prometheus.CounterVec

	cacheHitCount      uint64
	cacheMissCount     uint64
	requestCount       uint64
	requestDurationSum uint64
	fetchCount         uint64
	fetchDurationSum   uint64
	fetchFailureCount  uint64
}

// NewMetricsService registers the HTTP, cache and signal collectors.
func NewMetricsService() *MetricsService {
	registry := prometheus.NewRegistry()

	requestDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "http_request_duration_seconds",
		Help:    "Duration of HTTP requests in seconds",
		Buckets: prometheus.DefBuckets,
	}, []string{"method", "path", "status"})

	requestTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "http_requests_total",
		Help: "Total number of HTTP requests",
	}, []string{"method", "path", "status"})

	cacheLatency := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_latency_seconds",
		Help:    "Latency for cache lookups",
		Buckets: prometheus.DefBuckets,
	})

	cacheWrite := prometheus.NewHistogram(prometheus.HistogramOpts{
		Name:    "cache_write_seconds",
		Help:    "Latency for cache set operations",
		Buckets: prometheus.DefBuckets,
	})

	cacheHitRatio := prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "cache_hit_ratio",
		Help: "Ratio of cache hits to total cache lookups",
	})

	cacheHits := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_hits_total",
		Help: "Total cache hits",
	})

	cacheMisses := prometheus.NewCounter(prometheus.CounterOpts{
		Name: "cache_misses_total",
		Help: "Total cache misses",
	})

	fetchDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "history_fetch_duration_seconds",
		Help:    "Duration of history provider queries",
		Buckets: prometheus.DefBuckets,
	}, []string{"query"})

	fetchFailures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_fetch_failures_total",
		Help: "History fetches that failed and were reported as partial results",
	}, []string{"scope"})

	analysisDuration := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "signal_analysis_duration_seconds",
		Help:    "End-to-end duration of a signal analysis including history fetches",
		Buckets: prometheus.DefBuckets,
	}, []string{"analysis"})

	warmupJobs := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "signal_warmup_jobs_total",
		Help: "Cache warm-up jobs by outcome",
	}, []string{"outcome"})

	goroutines := prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "goroutines_total",
		Help: "Total number of goroutines",
	}, func() float64 {
		return float64(runtime.NumGoroutine())
	})

	registry.MustRegister(requestDuration, requestTotal, cacheLatency, cacheWrite, cacheHitRatio, cacheHits, cacheMisses,
		fetchDuration, fetchFailures, analysisDuration, warmupJobs, goroutines)

	return &MetricsService{
		registry:         registry,
		handler:          promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
		requestDuration:  requestDuration,
		requestTotal:     requestTotal,
		cacheLatency:     cacheLatency,
		cacheWrite:       cacheWrite,
		cacheHitRatio:    cacheHitRatio,
		cacheHits:        cacheHits,
		cacheMisses:      cacheMisses,
		fetchDuration:    fetchDuration,
		fetchFailures:    fetchFailures,
		analysisDuration: analysisDuration,
		warmupJobs:       warmupJobs,
	}
}

// Registry exposes the underlying registry, mainly for tests.
func (m *MetricsService) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler exposes the Prometheus HTTP handler.
func (m *MetricsService) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return m.handler
}

// ObserveHTTPRequest records request metrics and aggregates simple stats for snapshots.
func (m *MetricsService) ObserveHTTPRequest(method, path string, status int, duration time.Duration) {
	if m == nil {
		return
	}
	labelStatus := fmt.Sprintf("%d", status)
	m.requestDuration.WithLabelValues(method, path, labelStatus).Observe(duration.Seconds())
	m.requestTotal.WithLabelValues(method, path, labelStatus).Inc()
	atomic.AddUint64(&m.requestCount, 1)
	atomic.AddUint64(&m.requestDurationSum, uint64(duration.Nanoseconds()))
}

// RecordCacheOperation records cache hit/miss metrics and updates hit ratio.
func (m *MetricsService) RecordCacheOperation(hit bool, duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheLatency.Observe(duration.Seconds())
	if hit {
		m.cacheHits.Inc()
		atomic.AddUint64(&m.cacheHitCount, 1)
	} else {
		m.cacheMisses.Inc()
		atomic.AddUint64(&m.cacheMissCount, 1)
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	total := hits + atomic.LoadUint64(&m.cacheMissCount)
	if total > 0 {
		m.cacheHitRatio.Set(float64(hits) / float64(total))
	}
}

// ObserveCacheWrite tracks the duration for cache write operations.
func (m *MetricsService) ObserveCacheWrite(duration time.Duration) {
	if m == nil {
		return
	}
	m.cacheWrite.Observe(duration.Seconds())
}

// ObserveHistoryFetch records the timing of one history query.
func (m *MetricsService) ObserveHistoryFetch(query string, duration time.Duration) {
	if m == nil {
		return
	}
	m.fetchDuration.WithLabelValues(query).Observe(duration.Seconds())
	atomic.AddUint64(&m.fetchCount, 1)
	atomic.AddUint64(&m.fetchDurationSum, uint64(duration.Nanoseconds()))
}

// RecordFetchFailure counts an entity whose history could not be read.
func (m *MetricsService) RecordFetchFailure(scope string) {
	if m == nil {
		return
	}
	m.fetchFailures.WithLabelValues(scope).Inc()
	atomic.AddUint64(&m.fetchFailureCount, 1)
}

// ObserveAnalysis records how long an analysis took.
func (m *MetricsService) ObserveAnalysis(analysis string, duration time.Duration) {
	if m == nil {
		return
	}
	m.analysisDuration.WithLabelValues(analysis).Observe(duration.Seconds())
}

// RecordWarmupJob counts a finished warm-up job.
func (m *MetricsService) RecordWarmupJob(outcome string) {
	if m == nil {
		return
	}
	m.warmupJobs.WithLabelValues(outcome).Inc()
}

// Snapshot returns aggregated metrics for the system endpoint.
func (m *MetricsService) Snapshot() models.SystemMetrics {
	if m == nil {
		return models.SystemMetrics{}
	}
	hits := atomic.LoadUint64(&m.cacheHitCount)
	misses := atomic.LoadUint64(&m.cacheMissCount)
	requests := atomic.LoadUint64(&m.requestCount)
	fetches := atomic.LoadUint64(&m.fetchCount)

	out := models.SystemMetrics{
		CacheHits:         hits,
		CacheMisses:       misses,
		RequestsTotal:     requests,
		HistoryFetchCount: fetches,
		FetchFailures:     atomic.LoadUint64(&m.fetchFailureCount),
		Goroutines:        runtime.NumGoroutine(),
		GeneratedAt:       time.Now().UTC(),
	}
	if lookups := hits + misses; lookups > 0 {
		out.CacheHitRatio = float64(hits) / float64(lookups)
	}
	if requests > 0 {
		out.AverageRequestDurationMs = averageMillis(atomic.LoadUint64(&m.requestDurationSum), requests)
	}
	if fetches > 0 {
		out.AverageFetchDurationMs = averageMillis(atomic.LoadUint64(&m.fetchDurationSum), fetches)
	}
	return out
}

func averageMillis(totalNanos, count uint64) float64 {
	return float64(totalNanos) / float64(count) / float64(time.Millisecond)
}
