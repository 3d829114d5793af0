package core

import "time"

// Logger interface
type Logger interface {
	Debug(format string, args ...any)
	Info(format string, args ...any)
	Warn(format string, args ...any)
	Error(format string, args ...any)
	Fatal(format string, args ...any)
}

// Cache interface
type Cache interface {
	Get(key string) (any, bool)
	Set(key string, value any, duration time.Duration)
	Stop()
}

// StorageInterface persists the performance ledger history.
type StorageInterface interface {
	SaveHistory(history *PerformanceHistory) error
	LoadHistory() (*PerformanceHistory, error)
	Close() error
}

// MetricsCollector collects HTTP-level request metrics.
type MetricsCollector interface {
	RecordHTTPRequest(duration time.Duration)
	RecordHTTPError()
	RecordCacheHit()
	RecordCacheMiss()
	GetQPS() float64
}

// Clock abstracts time for deterministic tests of recency decay and
// last-used stamping.
type Clock interface {
	Now() time.Time
}

// NopLogger empty logger implementation
type NopLogger struct{}

func (*NopLogger) Debug(format string, args ...any) {}
func (*NopLogger) Info(format string, args ...any)  {}
func (*NopLogger) Warn(format string, args ...any)  {}
func (*NopLogger) Error(format string, args ...any) {}
func (*NopLogger) Fatal(format string, args ...any) {}

// NopMetrics empty metrics collector implementation
type NopMetrics struct{}

func (*NopMetrics) RecordHTTPRequest(duration time.Duration) {}
func (*NopMetrics) RecordHTTPError()                         {}
func (*NopMetrics) RecordCacheHit()                          {}
func (*NopMetrics) RecordCacheMiss()                         {}
func (*NopMetrics) GetQPS() float64                          { return 0 }

// SystemClock is the production Clock backed by time.Now.
type SystemClock struct{}

// Now returns the current time.
func (SystemClock) Now() time.Time { return time.Now() }

var _ Clock = SystemClock{}
