package usage

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

// DefaultKeyPrefix namespaces usage counters in Redis
const DefaultKeyPrefix = "fincalc:usage:"

// RedisStore keeps counters in Redis, one INCR key per calculator
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore connects lazily to addr
func NewRedisStore(addr string) *RedisStore {
	rdb := redis.NewClient(&redis.Options{
		Addr: addr,
	})
	return NewRedisStoreWithClient(rdb, DefaultKeyPrefix)
}

// NewRedisStoreWithClient uses an existing client and key prefix
func NewRedisStoreWithClient(client *redis.Client, prefix string) *RedisStore {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisStore{client: client, prefix: prefix}
}

// Key is the Redis key holding calculatorID's counter
func (r *RedisStore) Key(calculatorID string) string {
	return r.prefix + calculatorID
}

func (r *RedisStore) Increment(ctx context.Context, calculatorID string) (int64, error) {
	n, err := r.client.Incr(ctx, r.Key(calculatorID)).Result()
	if err != nil {
		return 0, fmt.Errorf("redis incr: %w", err)
	}
	return n, nil
}

func (r *RedisStore) Counts(ctx context.Context) (map[string]int64, error) {
	out := make(map[string]int64)
	iter := r.client.Scan(ctx, 0, r.prefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		key := iter.Val()
		n, err := r.client.Get(ctx, key).Int64()
		if err != nil {
			if errors.Is(err, redis.Nil) {
				continue
			}
			return nil, fmt.Errorf("redis get %s: %w", key, err)
		}
		out[strings.TrimPrefix(key, r.prefix)] = n
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("redis scan: %w", err)
	}
	return out, nil
}

// Close releases the client's connections
func (r *RedisStore) Close() error {
	return r.client.Close()
}
