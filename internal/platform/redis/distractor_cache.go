package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
)

// DistractorCache stores generated distractor lists as JSON strings with a TTL.
type DistractorCache struct {
	client goredis.Cmdable
	prefix string
	ttl    time.Duration
}

// NewDistractorCache creates a cache that namespaces keys under prefix.
// A zero ttl stores entries without expiry.
func NewDistractorCache(client goredis.Cmdable, prefix string, ttl time.Duration) *DistractorCache {
	return &DistractorCache{client: client, prefix: prefix, ttl: ttl}
}

// Get returns the cached values for key. The boolean is false on a cache miss.
func (c *DistractorCache) Get(ctx context.Context, key string) ([]string, bool, error) {
	raw, err := c.client.Get(ctx, c.key(key)).Result()
	if errors.Is(err, goredis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var values []string
	if err := json.Unmarshal([]byte(raw), &values); err != nil {
		// Corrupt entries are treated as misses and overwritten on the next Set.
		return nil, false, nil
	}
	return values, true, nil
}

// Set stores values under key.
func (c *DistractorCache) Set(ctx context.Context, key string, values []string) error {
	data, err := json.Marshal(values)
	if err != nil {
		return fmt.Errorf("marshal distractors: %w", err)
	}
	if err := c.client.Set(ctx, c.key(key), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *DistractorCache) key(key string) string {
	return c.prefix + "distractors:" + key
}
