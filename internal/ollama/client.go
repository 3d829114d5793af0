package ollama

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"ollamarouter/internal/core"
	"ollamarouter/internal/util"

	"github.com/bytedance/sonic"
)

// DefaultBaseURL is the local Ollama endpoint.
const DefaultBaseURL = "http://localhost:11434"

// API paths on the Ollama backend.
const (
	tagsPath     = "/api/tags"
	generatePath = "/api/generate"
)

// Client is a typed HTTP client for the Ollama backend. Callers own the
// timeout policy: every method takes a context and does not retry.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     core.Logger
}

// NewClient creates a backend client. An empty baseURL selects the local
// default; a nil logger is replaced with a no-op.
func NewClient(baseURL string, httpClient *http.Client, logger core.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	if logger == nil {
		logger = &core.NopLogger{}
	}
	return &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: httpClient,
		logger:     logger,
	}
}

// BaseURL returns the configured backend endpoint.
func (c *Client) BaseURL() string {
	return c.baseURL
}

// Tags fetches the backend's current model list.
func (c *Client) Tags(ctx context.Context) (*core.OllamaTagsResponse, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+tagsPath, nil)
	if err != nil {
		return nil, err
	}

	body, err := c.do(req, "tags")
	if err != nil {
		return nil, err
	}

	var tags core.OllamaTagsResponse
	if err := sonic.Unmarshal(body, &tags); err != nil {
		return nil, core.NewAppError(core.ErrCodeBackendUnavailable, "Malformed tags response", err)
	}
	return &tags, nil
}

// Generate runs a synchronous completion. Stream is forced off: this
// client only speaks the non-streaming form of the API.
func (c *Client) Generate(ctx context.Context, genReq *core.OllamaGenerateRequest) (*core.OllamaGenerateResponse, error) {
	genReq.Stream = false

	payload, err := util.MarshalJSON(genReq)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+generatePath, bytes.NewReader(payload))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")

	body, err := c.do(req, "generate")
	if err != nil {
		return nil, err
	}

	var genResp core.OllamaGenerateResponse
	if err := sonic.Unmarshal(body, &genResp); err != nil {
		return nil, core.NewAppError(core.ErrCodeBackendUnavailable, "Malformed generate response", err)
	}
	return &genResp, nil
}

// do executes the request and returns the body on 2xx, or an AppError on
// transport failure and non-2xx status.
func (c *Client) do(req *http.Request, operation string) ([]byte, error) {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, core.ErrBackendUnavailable(operation, err)
	}
	defer func() { _ = resp.Body.Close() }()

	body, err := io.ReadAll(io.LimitReader(resp.Body, core.MaxResponseBodySize))
	if err != nil {
		return nil, core.ErrBackendUnavailable(operation, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		c.logger.Debug("Backend %s returned %d: %s", operation, resp.StatusCode, truncateForLog(body))
		code := core.ErrCodeBackendUnavailable
		if resp.StatusCode == http.StatusNotFound {
			code = core.ErrCodeModelNotFound
		}
		return nil, core.NewAppErrorf(code, nil, "API error: %d", resp.StatusCode)
	}

	return body, nil
}

func truncateForLog(body []byte) string {
	const maxLen = 200
	if len(body) <= maxLen {
		return string(body)
	}
	return fmt.Sprintf("%s... (%d bytes)", body[:maxLen], len(body))
}
