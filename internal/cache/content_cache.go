package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"
)

// Cache keys for public content lists. Kept flat: the whole list is cached
// as one JSON blob and invalidated wholesale on any admin mutation.
const (
	KeyProjects       = "content:projects"
	KeySkills         = "content:skills"
	KeyCertifications = "content:certifications"
	KeyContact        = "content:contact"
)

// ContentCache provides read-through caching for public portfolio content.
// A nil ContentCache is valid and disables caching.
type ContentCache struct {
	redis *RedisClient
	ttl   time.Duration
}

// NewContentCache creates a new ContentCache.
func NewContentCache(redis *RedisClient, ttl time.Duration) *ContentCache {
	return &ContentCache{redis: redis, ttl: ttl}
}

// Get unmarshals the cached value for key into dest. It returns false when
// caching is disabled or the key is absent.
func (c *ContentCache) Get(ctx context.Context, key string, dest interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}
	raw, err := c.redis.Get(ctx, key)
	if err != nil {
		return false, nil
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("failed to unmarshal cached content for %s: %w", key, err)
	}
	return true, nil
}

// Set stores value under key for the configured TTL.
func (c *ContentCache) Set(ctx context.Context, key string, value interface{}) error {
	if c == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal content for %s: %w", key, err)
	}
	return c.redis.Set(ctx, key, string(raw), c.ttl)
}

// Invalidate drops the given content keys.
func (c *ContentCache) Invalidate(ctx context.Context, keys ...string) error {
	if c == nil {
		return nil
	}
	return c.redis.Delete(ctx, keys...)
}
