package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"
)

var ErrCacheMiss = errors.New("cache: key not found")

// Store is a byte-oriented cache backend. GetBytes reports a miss with
// ok=false rather than an error so backend failures stay distinguishable.
type Store interface {
	GetBytes(ctx context.Context, key string) ([]byte, bool, error)
	SetBytes(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, keys ...string) error
	Close() error
}

// Stats counts hits, misses and computations for observability.
type Stats interface {
	CacheHit(key string)
	CacheMiss(key string)
}

type nopStats struct{}

func (nopStats) CacheHit(string)  {}
func (nopStats) CacheMiss(string) {}

// Memo memoizes derived computations on top of a Store. Concurrent requests
// for the same key are serialized so the computation runs at most once per
// miss (single writer per key).
type Memo struct {
	store  Store
	stats  Stats
	flight sync.Map // key -> *sync.Mutex
}

// NewMemo creates a memoizer over the given store.
func NewMemo(store Store, stats Stats) *Memo {
	if stats == nil {
		stats = nopStats{}
	}
	return &Memo{store: store, stats: stats}
}

// Store returns the underlying backend.
func (m *Memo) Store() Store {
	return m.store
}

// Invalidate drops the given keys.
func (m *Memo) Invalidate(ctx context.Context, keys ...string) error {
	return m.store.Delete(ctx, keys...)
}

// GetOrCompute returns the cached value for key, or invokes compute exactly
// once, stores the result and returns it. Values round-trip through JSON so
// memory and Redis backends behave identically. Computed values that encode a
// failure are cached like any other value; compute should only return an
// error for conditions that must not be cached.
func GetOrCompute[T any](ctx context.Context, m *Memo, key string, ttl time.Duration, compute func(ctx context.Context) (T, error)) (T, error) {
	if v, ok := lookup[T](ctx, m, key); ok {
		m.stats.CacheHit(key)
		return v, nil
	}

	muAny, _ := m.flight.LoadOrStore(key, &sync.Mutex{})
	mu := muAny.(*sync.Mutex)
	mu.Lock()
	defer mu.Unlock()

	// Another goroutine may have filled the entry while we waited.
	if v, ok := lookup[T](ctx, m, key); ok {
		m.stats.CacheHit(key)
		return v, nil
	}
	m.stats.CacheMiss(key)

	v, err := compute(ctx)
	if err != nil {
		var zero T
		return zero, err
	}

	b, err := json.Marshal(v)
	if err != nil {
		return v, fmt.Errorf("cache marshal %s: %w", key, err)
	}
	if err := m.store.SetBytes(ctx, key, b, ttl); err != nil {
		// A write failure degrades to recomputation next time.
		return v, nil
	}
	return v, nil
}

func lookup[T any](ctx context.Context, m *Memo, key string) (T, bool) {
	var v T
	b, ok, err := m.store.GetBytes(ctx, key)
	if err != nil || !ok {
		return v, false
	}
	if err := json.Unmarshal(b, &v); err != nil {
		return v, false
	}
	return v, true
}

// Cache key layout for the analysis pipeline. Derived entries embed the
// ticker so a ticker change selects fresh keys without explicit eviction.

func SeriesKey(ticker string) string {
	return "series:" + ticker
}

func StrategyKey(ticker string, level int) string {
	return fmt.Sprintf("strategy:%s:%d", ticker, level)
}

func ForecastKey(ticker string) string {
	return "forecast:" + ticker
}
