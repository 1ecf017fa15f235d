package cache

import (
	"context"
	"time"
)

// LayeredStore is a two-level store: L1 memory, L2 Redis. Reads fill L1 on a
// Redis hit; writes go through to both levels.
type LayeredStore struct {
	mem   *MemoryStore
	redis *RedisStore
}

// NewLayeredStore creates a layered store over an existing Redis store.
func NewLayeredStore(redis *RedisStore, opts ...MemoryOption) *LayeredStore {
	return &LayeredStore{
		mem:   NewMemoryStore(opts...),
		redis: redis,
	}
}

func (ls *LayeredStore) GetBytes(ctx context.Context, key string) ([]byte, bool, error) {
	if b, ok, err := ls.mem.GetBytes(ctx, key); err == nil && ok {
		return b, true, nil
	}

	b, ok, err := ls.redis.GetBytes(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}

	_ = ls.mem.SetBytes(ctx, key, b, 0)
	return b, true, nil
}

func (ls *LayeredStore) SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if err := ls.redis.SetBytes(ctx, key, value, ttl); err != nil {
		return err
	}
	_ = ls.mem.SetBytes(ctx, key, value, ttl)
	return nil
}

func (ls *LayeredStore) Delete(ctx context.Context, keys ...string) error {
	_ = ls.mem.Delete(ctx, keys...)
	return ls.redis.Delete(ctx, keys...)
}

func (ls *LayeredStore) Close() error {
	_ = ls.mem.Close()
	return ls.redis.Close()
}
