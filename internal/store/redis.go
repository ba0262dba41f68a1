package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
)

// RedisKV stores each key as a plain Redis string under prefix. Writes go
// through MULTI/EXEC so a snapshot is never half-applied.
type RedisKV struct {
	rdb    *redis.Client
	prefix string
}

// NewRedisKV wraps an existing client. The client is owned by the caller
// unless Close is called.
func NewRedisKV(rdb *redis.Client, prefix string) *RedisKV {
	if prefix == "" {
		prefix = "workspace"
	}
	return &RedisKV{rdb: rdb, prefix: prefix}
}

func (r *RedisKV) key(k string) string { return r.prefix + ":" + k }

func (r *RedisKV) Get(ctx context.Context, key string) ([]byte, error) {
	b, err := r.rdb.Get(ctx, r.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("redis get %s: %w", key, err)
	}
	return b, nil
}

func (r *RedisKV) Apply(ctx context.Context, set map[string][]byte, del []string) error {
	_, err := r.rdb.TxPipelined(ctx, func(p redis.Pipeliner) error {
		for k, v := range set {
			p.Set(ctx, r.key(k), v, 0)
		}
		if len(del) > 0 {
			keys := make([]string, len(del))
			for i, k := range del {
				keys[i] = r.key(k)
			}
			p.Del(ctx, keys...)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("redis apply: %w", err)
	}
	return nil
}

func (r *RedisKV) Close() error { return r.rdb.Close() }
