package utils

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"github.com/go-redis/redis/v8"
)

// ProductListCacheSet tracks every cached catalog-listing key so catalog
// mutations and stock decrements can invalidate them all at once.
const ProductListCacheSet = "product_list_keys"

// Cache is an optional Redis read cache for catalog listings. A nil *Cache
// is valid and turns every operation into a no-op, so callers never need to
// branch on whether Redis is configured.
type Cache struct {
	client *redis.Client
}

// NewCache connects to Redis at the given address. Returns an error when the
// server cannot be reached.
func NewCache(addr string) (*Cache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if _, err := client.Ping(ctx).Result(); err != nil {
		return nil, fmt.Errorf("failed to connect to Redis: %w", err)
	}
	log.Println("Connected to Redis")

	return &Cache{client: client}, nil
}

// Close closes the Redis connection.
func (c *Cache) Close() {
	if c != nil && c.client != nil {
		c.client.Close()
	}
}

// GetJSON loads the cached value at key into v. The second return is false
// on a miss.
func (c *Cache) GetJSON(ctx context.Context, key string, v interface{}) (bool, error) {
	if c == nil {
		return false, nil
	}
	data, err := c.client.Get(ctx, key).Result()
	if err == redis.Nil {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(data), v); err != nil {
		return false, err
	}
	return true, nil
}

// SetJSON stores v at key with a TTL and records the key in trackSet so the
// whole family can be invalidated at once.
func (c *Cache) SetJSON(ctx context.Context, key string, v interface{}, ttl time.Duration, trackSet string) error {
	if c == nil {
		return nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	pipe := c.client.Pipeline()
	pipe.Set(ctx, key, data, ttl)
	pipe.SAdd(ctx, trackSet, key)
	_, err = pipe.Exec(ctx)
	return err
}

// InvalidateSet deletes every key recorded in trackSet, then the set itself.
func (c *Cache) InvalidateSet(ctx context.Context, trackSet string) error {
	if c == nil {
		return nil
	}
	keys, err := c.client.SMembers(ctx, trackSet).Result()
	if err != nil && err != redis.Nil {
		return err
	}
	pipe := c.client.Pipeline()
	if len(keys) > 0 {
		pipe.Del(ctx, keys...)
	}
	pipe.Del(ctx, trackSet)
	_, err = pipe.Exec(ctx)
	return err
}
