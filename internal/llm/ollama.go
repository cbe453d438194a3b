package llm

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/mimircode/mimircode/pkg/types"
)

const (
	// DefaultEndpoint is the local Ollama generate URL.
	DefaultEndpoint = "http://localhost:11434/api/generate"

	// DefaultTimeout bounds one completion round trip. Local models can be
	// slow on large chunks, so this is generous.
	DefaultTimeout = 300 * time.Second
)

// OllamaClient implements Client against an Ollama-compatible
// /api/generate endpoint.
type OllamaClient struct {
	endpoint   string
	model      string
	httpClient *http.Client
	cache      *Cache
}

// NewOllama creates a client for the given generate endpoint and model.
// A nil cache disables response caching.
func NewOllama(endpoint, model string, cache *Cache) *OllamaClient {
	if endpoint == "" {
		endpoint = DefaultEndpoint
	}
	return &OllamaClient{
		endpoint: endpoint,
		model:    model,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
		cache: cache,
	}
}

// generateRequest is the Ollama generate API payload.
type generateRequest struct {
	Model   string          `json:"model"`
	Prompt  string          `json:"prompt"`
	Stream  bool            `json:"stream"`
	Options generateOptions `json:"options"`
}

type generateOptions struct {
	Temperature float64 `json:"temperature"`
	NumPredict  int     `json:"num_predict"`
}

// generateResponse is the subset of the Ollama response we consume.
type generateResponse struct {
	Response string `json:"response"`
	Done     bool   `json:"done"`
}

// Complete performs one blocking generate call. The outcome is always a
// tagged Result: unreachable endpoint, non-2xx status (body attached) and
// any other failure each map to their own kind, and no retry is attempted.
func (c *OllamaClient) Complete(ctx context.Context, req Request) types.Result {
	key := CacheKey(c.model, req)
	if c.cache != nil {
		if text, ok := c.cache.Get(key); ok {
			return types.Result{Kind: types.ResultOK, Text: text}
		}
	}

	payload := generateRequest{
		Model:  c.model,
		Prompt: req.Prompt,
		Stream: false,
		Options: generateOptions{
			Temperature: req.Temperature,
			NumPredict:  req.MaxTokens,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return types.Result{Kind: types.ResultInternalError, Detail: "marshal request: " + err.Error()}
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, bytes.NewReader(body))
	if err != nil {
		return types.Result{Kind: types.ResultInternalError, Detail: "create request: " + err.Error()}
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return types.Result{Kind: types.ResultConnectionFailed, Detail: err.Error()}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		raw, _ := io.ReadAll(resp.Body)
		return types.Result{
			Kind:       types.ResultProtocolError,
			StatusCode: resp.StatusCode,
			Detail:     strings.TrimSpace(string(raw)),
		}
	}

	var genResp generateResponse
	if err := json.NewDecoder(resp.Body).Decode(&genResp); err != nil {
		return types.Result{Kind: types.ResultInternalError, Detail: "decode response: " + err.Error()}
	}

	text := strings.TrimSpace(genResp.Response)
	if c.cache != nil {
		c.cache.Set(key, text)
	}
	return types.Result{Kind: types.ResultOK, Text: text}
}

// Endpoint returns the configured generate URL.
func (c *OllamaClient) Endpoint() string {
	return c.endpoint
}

// Model returns the configured model identifier.
func (c *OllamaClient) Model() string {
	return c.model
}

// Close releases idle HTTP connections.
func (c *OllamaClient) Close() error {
	c.httpClient.CloseIdleConnections()
	return nil
}
