package jobs

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces job keys.
const DefaultRedisPrefix = "flipbook:job:"

// RedisStore keeps jobs as JSON values whose Redis expiry follows
// Job.ExpiresAt.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps client. An empty prefix uses [DefaultRedisPrefix].
func NewRedisStore(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

func (s *RedisStore) Get(ctx context.Context, id string) (*Job, error) {
	data, err := s.client.Get(ctx, s.prefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get job %s: %w", id, err)
	}
	var j Job
	if err := json.Unmarshal(data, &j); err != nil {
		return nil, fmt.Errorf("decode job %s: %w", id, err)
	}
	return &j, nil
}

func (s *RedisStore) Set(ctx context.Context, job *Job) error {
	data, err := json.Marshal(job)
	if err != nil {
		return err
	}
	var ttl time.Duration
	if !job.ExpiresAt.IsZero() {
		ttl = time.Until(job.ExpiresAt)
		if ttl <= 0 {
			return s.Delete(ctx, job.ID)
		}
	}
	return s.client.Set(ctx, s.prefix+job.ID, data, ttl).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.client.Del(ctx, s.prefix+id).Err()
}

func (s *RedisStore) List(ctx context.Context) ([]*Job, error) {
	var keys []string
	iter := s.client.Scan(ctx, 0, s.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		keys = append(keys, iter.Val())
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("scan jobs: %w", err)
	}
	if len(keys) == 0 {
		return nil, nil
	}

	values, err := s.client.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, fmt.Errorf("load jobs: %w", err)
	}
	out := make([]*Job, 0, len(values))
	for _, v := range values {
		str, ok := v.(string)
		if !ok {
			continue // expired between SCAN and MGET
		}
		var j Job
		if err := json.Unmarshal([]byte(str), &j); err != nil {
			continue
		}
		out = append(out, &j)
	}
	sortNewestFirst(out)
	return out, nil
}

// Cleanup is a no-op; Redis expires keys itself.
func (s *RedisStore) Cleanup(ctx context.Context) error {
	return nil
}

var _ Store = (*RedisStore)(nil)
