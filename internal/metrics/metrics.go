package metrics

import (
	"embed"
	"math"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"ollamarouter/internal/core"

	"github.com/gin-gonic/gin"
)

// StatsPageHTML holds the embedded monitoring dashboard HTML.
//
//go:embed static/index.html
var StatsPageHTML embed.FS

// AtomicRequestStats thread-safe request statistics. Successful requests
// are derived: total minus failed.
type AtomicRequestStats struct {
	TotalRequests     atomic.Int64
	FailedRequests    atomic.Int64
	TotalResponseTime atomic.Int64
	CacheHits         atomic.Int64
	CacheMisses       atomic.Int64
}

// RequestStats is a point-in-time snapshot of the HTTP-level counters.
// These are transport metrics; per-model performance lives in the ledger.
type RequestStats struct {
	TotalRequests      int64     `json:"total_requests"`
	SuccessfulRequests int64     `json:"successful_requests"`
	FailedRequests     int64     `json:"failed_requests"`
	AvgResponseTimeMs  int64     `json:"avg_response_time_ms"`
	CacheHits          int64     `json:"cache_hits"`
	CacheMisses        int64     `json:"cache_misses"`
	QPS                float64   `json:"qps"`
	LastRequestTime    time.Time `json:"last_request_time"`
}

// MetricsService collects request-level metrics in memory.
type MetricsService struct {
	atomicStats     AtomicRequestStats
	lastRequestTime atomic.Int64 // unix nanos

	recentRequests []time.Time
	recentMu       sync.Mutex
}

// NewMetricsService creates a new MetricsService
func NewMetricsService() *MetricsService {
	return &MetricsService{}
}

// RecordHTTPRequest records one completed request and its duration.
func (ms *MetricsService) RecordHTTPRequest(duration time.Duration) {
	now := time.Now()
	ms.lastRequestTime.Store(now.UnixNano())
	ms.atomicStats.TotalRequests.Add(1)
	ms.atomicStats.TotalResponseTime.Add(duration.Milliseconds())

	ms.recentMu.Lock()
	ms.recentRequests = append(ms.recentRequests, now)
	ms.pruneRecentLocked(now)
	ms.recentMu.Unlock()
}

// RecordHTTPError records a failed request.
func (ms *MetricsService) RecordHTTPError() {
	ms.atomicStats.FailedRequests.Add(1)
}

// RecordCacheHit records cache hit
func (ms *MetricsService) RecordCacheHit() {
	ms.atomicStats.CacheHits.Add(1)
}

// RecordCacheMiss records cache miss
func (ms *MetricsService) RecordCacheMiss() {
	ms.atomicStats.CacheMisses.Add(1)
}

// GetQPS returns the request rate over the trailing minute.
func (ms *MetricsService) GetQPS() float64 {
	ms.recentMu.Lock()
	defer ms.recentMu.Unlock()

	ms.pruneRecentLocked(time.Now())
	if len(ms.recentRequests) == 0 {
		return 0
	}
	return math.Round(float64(len(ms.recentRequests))/60.0*1000) / 1000
}

// pruneRecentLocked drops timestamps older than one minute.
func (ms *MetricsService) pruneRecentLocked(now time.Time) {
	cutoff := now.Add(-1 * time.Minute)
	startIdx := 0
	for startIdx < len(ms.recentRequests) && ms.recentRequests[startIdx].Before(cutoff) {
		startIdx++
	}
	if startIdx > 0 {
		newRecent := make([]time.Time, len(ms.recentRequests)-startIdx)
		copy(newRecent, ms.recentRequests[startIdx:])
		ms.recentRequests = newRecent
	}
}

// GetRequestStats returns current stats snapshot
func (ms *MetricsService) GetRequestStats() RequestStats {
	total := ms.atomicStats.TotalRequests.Load()
	failed := ms.atomicStats.FailedRequests.Load()
	stats := RequestStats{
		TotalRequests:      total,
		SuccessfulRequests: total - failed,
		FailedRequests:     failed,
		CacheHits:          ms.atomicStats.CacheHits.Load(),
		CacheMisses:        ms.atomicStats.CacheMisses.Load(),
		QPS:                ms.GetQPS(),
	}
	if total > 0 {
		stats.AvgResponseTimeMs = ms.atomicStats.TotalResponseTime.Load() / total
	}
	if nanos := ms.lastRequestTime.Load(); nanos > 0 {
		stats.LastRequestTime = time.Unix(0, nanos)
	}
	return stats
}

var _ core.MetricsCollector = (*MetricsService)(nil)

// ShowStatsPage serves the dashboard HTML page
func ShowStatsPage(c *gin.Context) {
	data, err := StatsPageHTML.ReadFile("static/index.html")
	if err != nil {
		c.String(http.StatusInternalServerError, "Failed to load stats page")
		return
	}
	c.Data(http.StatusOK, "text/html; charset=utf-8", data)
}
