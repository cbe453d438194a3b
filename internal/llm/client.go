package llm

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/mimircode/mimircode/pkg/types"
)

// Request is one text-completion request: a prompt plus decoding
// parameters. Streaming is always off; every call is a single blocking
// round trip attempted exactly once.
type Request struct {
	Prompt      string
	Temperature float64
	MaxTokens   int // maximum output length (num_predict)
}

// Client is a synchronous wrapper around a completion endpoint. Transport
// and protocol failures are mapped into tagged results rather than errors
// so aggregators can degrade in place.
type Client interface {
	// Complete performs one blocking completion call. It never returns a
	// Go error for endpoint failures; the failure kind is carried in the
	// Result.
	Complete(ctx context.Context, req Request) types.Result

	// Endpoint returns the completion URL, for rendering failure text.
	Endpoint() string

	// Model returns the configured model identifier.
	Model() string

	// Close releases any resources held by the client.
	Close() error
}

// Cache is an in-memory LRU of successful completions keyed by request
// hash. Identical chunks across files (empty __init__.py, repeated license
// stubs) then cost one call instead of many. Failures are never cached.
type Cache struct {
	cache *lru.Cache[string, string]
}

// NewCache creates a completion cache holding up to maxLen entries.
func NewCache(maxLen int) *Cache {
	if maxLen <= 0 {
		maxLen = 1024
	}
	cache, err := lru.New[string, string](maxLen)
	if err != nil {
		cache, _ = lru.New[string, string](1024)
	}
	return &Cache{cache: cache}
}

// Get retrieves a cached response text.
func (c *Cache) Get(key string) (string, bool) {
	return c.cache.Get(key)
}

// Set stores a response text with automatic LRU eviction.
func (c *Cache) Set(key, text string) {
	c.cache.Add(key, text)
}

// Size returns the current number of cached responses.
func (c *Cache) Size() int {
	return c.cache.Len()
}

// CacheKey computes the lookup key for a request: SHA-256 over the model,
// prompt and decoding parameters.
func CacheKey(model string, req Request) string {
	h := sha256.Sum256(fmt.Appendf(nil, "%s\x00%s\x00%g\x00%d", model, req.Prompt, req.Temperature, req.MaxTokens))
	return hex.EncodeToString(h[:])
}
