package models

import "time"

// SystemMetrics represents process level figures captured from instrumentation.
type SystemMetrics struct {
	CacheHitRatio            float64   `json:"cache_hit_ratio"`
	CacheHits                uint64    `json:"cache_hits"`
	CacheMisses              uint64    `json:"cache_misses"`
	RequestsTotal            uint64    `json:"requests_total"`
	AverageRequestDurationMs float64   `json:"average_request_duration_ms"`
	HistoryFetchCount        uint64    `json:"history_fetch_count"`
	AverageFetchDurationMs   float64   `json:"average_fetch_duration_ms"`
	FetchFailures            uint64    `json:"fetch_failures"`
	Goroutines               int       `json:"goroutines"`
	GeneratedAt              time.Time `json:"generated_at"`
}
