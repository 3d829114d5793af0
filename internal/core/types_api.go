package core

// GenerateRequest is the client-facing generation request. Model may be
// empty, in which case task-type based selection runs first.
type GenerateRequest struct {
	Model         string         `json:"model,omitempty"`
	Prompt        string         `json:"prompt"`
	TaskType      string         `json:"task_type,omitempty"`
	Context       string         `json:"context,omitempty"`
	ContextLength int            `json:"context_length,omitempty"`
	Optimize      bool           `json:"optimize,omitempty"`
	Options       map[string]any `json:"options,omitempty"`
}

// GenerateResult is the structured outcome of one generation attempt.
// Expected failures (backend error, timeout) come back here with
// Success=false and a message; they are never raised as errors.
type GenerateResult struct {
	Success      bool    `json:"success"`
	Response     string  `json:"response,omitempty"`
	Model        string  `json:"model"`
	ResponseTime float64 `json:"response_time"`
	TokenCount   int     `json:"token_count"`
	Error        string  `json:"error,omitempty"`
}

// SelectRequest asks the selector for a model identifier.
type SelectRequest struct {
	TaskType      string `json:"task_type"`
	ContextLength int    `json:"context_length,omitempty"`
	Optimize      bool   `json:"optimize,omitempty"`
}

// SelectResponse carries the chosen identifier back to the client.
type SelectResponse struct {
	Model    string `json:"model"`
	TaskType string `json:"task_type"`
}

// LoadRequest asks the catalog to materialize a model on the backend.
type LoadRequest struct {
	Model string `json:"model"`
}

// LoadResponse reports the probe outcome.
type LoadResponse struct {
	Model   string `json:"model"`
	Success bool   `json:"success"`
}

// RefreshResponse reports the catalog size after a re-sync.
type RefreshResponse struct {
	TotalModels int  `json:"total_models"`
	Refreshed   bool `json:"refreshed"`
}

// StatusResponse is the full manager status snapshot.
type StatusResponse struct {
	TotalModels      int                       `json:"total_models"`
	ActiveModels     int                       `json:"active_models"`
	Models           map[string]ModelInfo      `json:"models"`
	ActiveModelNames []string                  `json:"active_model_names"`
	TaskDefinitions  map[string]TaskDefinition `json:"task_definitions"`
	PerformanceStats map[string]ModelStats     `json:"performance_stats"`
}
