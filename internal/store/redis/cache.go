package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultSearchTTL bounds how long a cached search outcome lives
const DefaultSearchTTL = 10 * time.Minute

// SearchCache stores encoded search outcomes in Redis
type SearchCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSearchCache creates a cache; a non-positive ttl uses DefaultSearchTTL
func NewSearchCache(client *redis.Client, ttl time.Duration) *SearchCache {
	if ttl <= 0 {
		ttl = DefaultSearchTTL
	}
	return &SearchCache{client: client, ttl: ttl}
}

// Get retrieves a cached outcome, nil on a miss
func (c *SearchCache) Get(ctx context.Context, key string) ([]byte, error) {
	data, err := c.client.Get(ctx, SearchKey(key)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil // Cache miss
		}
		return nil, fmt.Errorf("failed to get cached search: %w", err)
	}
	return data, nil
}

// Set stores an outcome with the cache TTL
func (c *SearchCache) Set(ctx context.Context, key string, value []byte) error {
	if err := c.client.Set(ctx, SearchKey(key), value, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache search: %w", err)
	}
	return nil
}

// Flush removes all cached outcomes
func (c *SearchCache) Flush(ctx context.Context) error {
	iter := c.client.Scan(ctx, 0, KeyPrefixSearch+"*", 100).Iterator()
	var keys []string
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return fmt.Errorf("failed to scan search cache: %w", err)
	}
	if len(keys) == 0 {
		return nil
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("failed to flush search cache: %w", err)
	}
	return nil
}
