package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces cache entries in a shared Redis database,
// apart from the job records under jobs.DefaultRedisPrefix.
const DefaultRedisPrefix = "flipbook:cache:"

// RedisCache stores entries in Redis using native key expiry.
type RedisCache struct {
	client *redis.Client
	prefix string
}

// Connection check attempts made by NewRedisCache.
const (
	pingAttempts = 3
	pingDelay    = 200 * time.Millisecond
)

// NewRedisCache connects to the Redis server at url
// (redis://[user:pass@]host:port/db) and verifies it with PING, retrying
// briefly while the server comes up.
func NewRedisCache(ctx context.Context, url, prefix string) (*RedisCache, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("parse redis url: %w", err)
	}
	client := redis.NewClient(opts)
	ping := func() error { return client.Ping(ctx).Err() }
	if err := retry(ctx, pingAttempts, pingDelay, ping); err != nil {
		client.Close()
		return nil, fmt.Errorf("connect to redis %s: %w", opts.Addr, err)
	}
	return NewRedisCacheFromClient(client, prefix), nil
}

// NewRedisCacheFromClient wraps an existing client. An empty prefix uses
// [DefaultRedisPrefix].
func NewRedisCacheFromClient(client *redis.Client, prefix string) *RedisCache {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisCache{client: client, prefix: prefix}
}

// Get retrieves a value.
func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, c.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return data, true, nil
}

// Set stores a value. A zero ttl keeps the key until it is deleted.
func (c *RedisCache) Set(ctx context.Context, key string, data []byte, ttl time.Duration) error {
	return c.client.Set(ctx, c.prefix+key, data, ttl).Err()
}

// Delete removes a value.
func (c *RedisCache) Delete(ctx context.Context, key string) error {
	return c.client.Del(ctx, c.prefix+key).Err()
}

// Clear deletes every key under the cache prefix.
func (c *RedisCache) Clear(ctx context.Context) (int, error) {
	const batch = 256

	count := 0
	keys := make([]string, 0, batch)
	flush := func() error {
		if len(keys) == 0 {
			return nil
		}
		n, err := c.client.Del(ctx, keys...).Result()
		count += int(n)
		keys = keys[:0]
		return err
	}

	iter := c.client.Scan(ctx, 0, c.prefix+"*", batch).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
		if len(keys) == batch {
			if err := flush(); err != nil {
				return count, err
			}
		}
	}
	if err := iter.Err(); err != nil {
		return count, err
	}
	return count, flush()
}

// Close closes the client.
func (c *RedisCache) Close() error {
	return c.client.Close()
}

var (
	_ Cache   = (*RedisCache)(nil)
	_ Clearer = (*RedisCache)(nil)
)
