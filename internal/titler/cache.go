package titler

import (
	"context"
	"crypto/sha1"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// Generator is what handlers consume: paragraph plus bounds in, title out.
// Client and CachedClient both satisfy it.
type Generator interface {
	Generate(ctx context.Context, paragraph string, maxLen, minLen int) (string, error)
	Model() string
}

// CachedClient wraps a Client with a Redis cache keyed by the paragraph and
// its bounds.  Caching a model output is only sound because generation is
// deterministic: the same key always maps to the same title, so a cached
// entry can never disagree with a fresh inference.  Cache failures fall
// through to the model; the cache is an accelerator, not a dependency.
type CachedClient struct {
	gen *Client
	rdb *redis.Client
	ttl time.Duration
}

// NewCachedClient wraps gen with a title cache.  A nil Redis client or a
// non-positive TTL returns a CachedClient that always calls through.
func NewCachedClient(gen *Client, rdb *redis.Client, ttl time.Duration) *CachedClient {
	return &CachedClient{gen: gen, rdb: rdb, ttl: ttl}
}

// Model reports the underlying model name.
func (c *CachedClient) Model() string { return c.gen.Model() }

// Generate serves from the cache when possible, otherwise invokes the
// model and stores the result.
func (c *CachedClient) Generate(ctx context.Context, paragraph string, maxLen, minLen int) (string, error) {
	if c.rdb == nil || c.ttl <= 0 {
		return c.gen.Generate(ctx, paragraph, maxLen, minLen)
	}

	key := titleCacheKey(paragraph, maxLen, minLen)
	if cached, err := c.rdb.Get(ctx, key).Result(); err == nil && cached != "" {
		return cached, nil
	}

	title, err := c.gen.Generate(ctx, paragraph, maxLen, minLen)
	if err != nil {
		return "", err
	}
	// Best effort: a failed SET only costs the next caller an inference.
	_ = c.rdb.Set(ctx, key, title, c.ttl).Err()
	return title, nil
}

// titleCacheKey builds a stable key from the full generation input.  The
// paragraph is hashed so arbitrarily long inputs produce fixed-size keys.
func titleCacheKey(paragraph string, maxLen, minLen int) string {
	sum := sha1.Sum([]byte(fmt.Sprintf("%d:%d:%s", maxLen, minLen, paragraph)))
	return fmt.Sprintf("title:%x", sum[:])
}
