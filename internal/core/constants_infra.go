package core

import "time"

// Backend call timeouts. A timeout is treated the same as a transport
// failure: a failed observation and a structured error, never a fault.
const (
	RefreshTimeout   = 10 * time.Second
	LoadProbeTimeout = 30 * time.Second
	GenerateTimeout  = 120 * time.Second
)

// Server defaults
const (
	DefaultPort            = "7860"
	DefaultGinMode         = "release"
	DefaultTasksConfigPath = "tasks.json"
)

// HTTP client config constants
const (
	HTTPRequestTimeout        = 5 * time.Minute
	HTTPMaxIdleConns          = 100
	HTTPMaxIdleConnsPerHost   = 50
	HTTPMaxConnsPerHost       = 100
	HTTPIdleConnTimeout       = 600 * time.Second
	HTTPTLSHandshakeTimeout   = 30 * time.Second
	HTTPResponseHeaderTimeout = 30 * time.Second
	HTTPExpectContinueTimeout = 5 * time.Second
)

// Cache config constants
const (
	CacheDefaultCapacity = 1000
	CacheCleanupInterval = 5 * time.Minute
	RefreshCacheTTL      = 2 * time.Second
	RefreshCacheKey      = "catalog:refresh"
)

// Ledger persistence constants
const (
	HistoryFilePath   = "performance.json"
	LedgerHistorySize = 1000
	MinSaveInterval   = 5 * time.Second
)

// Response body size limits
const (
	MaxResponseBodySize = 10 * 1024 * 1024
)

// HTTP header constants
const (
	HeaderAuthorization = "Authorization"
	HeaderXAPIKey       = "x-api-key"
	HeaderRequestID     = "X-Request-ID"
	AuthBearerPrefix    = "Bearer "
	CORSMaxAge          = "86400"
)

// File permission constants
const (
	FilePermissionReadWrite = 0644
)

// Logging config constants
const (
	MaxDebugFilePathLength = 260
)

// Time format constants
const (
	TimeFormatDateTime = "2006-01-02 15:04:05"
)
