package core

import "time"

// ModelInfo mirrors one model known to the Ollama backend, plus the
// runtime state this service tracks for it. Entries are replaced wholesale
// on catalog refresh; PerformanceScore and LastUsed survive the refresh.
type ModelInfo struct {
	Name             string     `json:"name"`
	Size             int64      `json:"size"`
	ModifiedAt       string     `json:"modified_at"`
	Digest           string     `json:"digest"`
	Loaded           bool       `json:"loaded"`
	LastUsed         *time.Time `json:"last_used,omitempty"`
	PerformanceScore float64    `json:"performance_score"`
}

// SizeTier classifies a model's parameter-count class. Resolved once from
// the capability table; the selector never inspects identifier substrings.
type SizeTier string

// Size tier constants, largest first.
const (
	TierXL     SizeTier = "xl"
	TierLarge  SizeTier = "large"
	TierMedium SizeTier = "medium"
	TierSmall  SizeTier = "small"
)

// CapabilityEntry declares what a model can do. The table is an ordered
// list: the selector's capability scan walks it in declaration order.
type CapabilityEntry struct {
	Name         string   `json:"name"`
	Capabilities []string `json:"capabilities"`
	SizeTier     SizeTier `json:"size_tier,omitempty"`
}

// HasAll reports whether the entry covers every required capability.
func (e CapabilityEntry) HasAll(required []string) bool {
	for _, req := range required {
		found := false
		for _, cap := range e.Capabilities {
			if cap == req {
				found = true
				break
			}
		}
		if !found {
			return false
		}
	}
	return true
}

// TaskDefinition describes a task type for model routing.
type TaskDefinition struct {
	Name                 string   `json:"name"`
	Description          string   `json:"description"`
	RequiredCapabilities []string `json:"required_capabilities"`
	PreferredModels      []string `json:"preferred_models"`
	FallbackModels       []string `json:"fallback_models"`
}

// PerformanceRecord is one immutable observation of a model invocation.
type PerformanceRecord struct {
	ModelName    string    `json:"model_name"`
	TaskType     string    `json:"task_type"`
	ResponseTime float64   `json:"response_time"` // seconds
	TokenCount   int       `json:"token_count"`
	Success      bool      `json:"success"`
	Timestamp    time.Time `json:"timestamp"`
}

// PerformanceHistory is the persisted form of the ledger.
type PerformanceHistory struct {
	Records []PerformanceRecord `json:"records"`
}

// ModelStats aggregates a model's ledger observations for status reporting.
type ModelStats struct {
	TotalRequests    int     `json:"total_requests"`
	SuccessRate      float64 `json:"success_rate"`
	AvgResponseTime  float64 `json:"avg_response_time"`
	AvgTokens        float64 `json:"avg_tokens"`
	TokensPerSecond  float64 `json:"tokens_per_second"`
	PerformanceScore float64 `json:"performance_score"`
}
