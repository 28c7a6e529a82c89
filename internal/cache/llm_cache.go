// Package cache keeps language-model completions in Redis so repeated
// extractions of the same storefront do not pay for identical prompts.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const keyPrefix = "llm:"

// LLMCache stores completions keyed by model and prompt digest.
type LLMCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLLMCache connects to redisURL and verifies the connection.
func NewLLMCache(ctx context.Context, redisURL string, ttl time.Duration) (*LLMCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}
	return NewLLMCacheWithClient(client, ttl), nil
}

// NewLLMCacheWithClient wraps an existing client.
func NewLLMCacheWithClient(client *redis.Client, ttl time.Duration) *LLMCache {
	return &LLMCache{client: client, ttl: ttl}
}

// KeyFrom builds a cache key from model and prompt.
func KeyFrom(model, prompt string) string {
	h := sha256.Sum256([]byte(model + "\n\n" + prompt))
	return keyPrefix + hex.EncodeToString(h[:])
}

// Get returns the cached completion for key. Lookup errors count as a miss.
func (c *LLMCache) Get(ctx context.Context, key string) (string, bool) {
	out, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return "", false
	}
	if err != nil {
		zerolog.Ctx(ctx).Debug().Err(err).Str("key", key).Msg("llm cache get error")
		return "", false
	}
	return out, true
}

// Set stores a completion for the configured TTL.
func (c *LLMCache) Set(ctx context.Context, key, completion string) error {
	return c.client.Set(ctx, key, completion, c.ttl).Err()
}

// Close releases the Redis connection.
func (c *LLMCache) Close() error {
	return c.client.Close()
}
