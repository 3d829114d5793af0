package core

// OllamaModelEntry is one entry in the backend's /api/tags response.
type OllamaModelEntry struct {
	Name       string `json:"name"`
	Size       int64  `json:"size"`
	ModifiedAt string `json:"modified_at"`
	Digest     string `json:"digest"`
}

// OllamaTagsResponse is the /api/tags response body.
type OllamaTagsResponse struct {
	Models []OllamaModelEntry `json:"models"`
}

// OllamaGenerateRequest is the /api/generate request body. Stream is
// always false: this service only consumes the synchronous completion form.
type OllamaGenerateRequest struct {
	Model   string         `json:"model"`
	Prompt  string         `json:"prompt"`
	Stream  bool           `json:"stream"`
	Options map[string]any `json:"options,omitempty"`
}

// OllamaGenerateResponse is the non-streaming /api/generate response body.
// The backend returns more fields (timings, context); only the text is used.
type OllamaGenerateResponse struct {
	Response string `json:"response"`
}
