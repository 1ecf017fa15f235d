package cache

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

type payload struct {
	Value string `json:"value"`
	N     int    `json:"n"`
}

func newTestMemo(t *testing.T) (*Memo, *MemoryStore) {
	t.Helper()
	store := NewMemoryStore(WithMaxEntries(8), WithCleanupInterval(time.Hour))
	t.Cleanup(func() { _ = store.Close() })
	return NewMemo(store, nil), store
}

func TestGetOrComputeComputesOnce(t *testing.T) {
	memo, _ := newTestMemo(t)
	ctx := context.Background()

	calls := 0
	compute := func(ctx context.Context) (payload, error) {
		calls++
		return payload{Value: "hello", N: 7}, nil
	}

	for i := 0; i < 3; i++ {
		got, err := GetOrCompute(ctx, memo, "k", time.Minute, compute)
		require.NoError(t, err)
		require.Equal(t, payload{Value: "hello", N: 7}, got)
	}
	require.Equal(t, 1, calls)
}

func TestGetOrComputeConcurrent(t *testing.T) {
	memo, _ := newTestMemo(t)
	ctx := context.Background()

	var calls int64
	compute := func(ctx context.Context) (payload, error) {
		atomic.AddInt64(&calls, 1)
		time.Sleep(10 * time.Millisecond)
		return payload{Value: "x"}, nil
	}

	var wg sync.WaitGroup
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			got, err := GetOrCompute(ctx, memo, "shared", time.Minute, compute)
			require.NoError(t, err)
			require.Equal(t, "x", got.Value)
		}()
	}
	wg.Wait()
	require.Equal(t, int64(1), atomic.LoadInt64(&calls))
}

func TestGetOrComputeErrorNotCached(t *testing.T) {
	memo, _ := newTestMemo(t)
	ctx := context.Background()

	calls := 0
	boom := errors.New("boom")
	compute := func(ctx context.Context) (payload, error) {
		calls++
		return payload{}, boom
	}

	_, err := GetOrCompute(ctx, memo, "k", time.Minute, compute)
	require.ErrorIs(t, err, boom)
	_, err = GetOrCompute(ctx, memo, "k", time.Minute, compute)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 2, calls)
}

func TestGetOrComputeTTLExpiry(t *testing.T) {
	memo, _ := newTestMemo(t)
	ctx := context.Background()

	calls := 0
	compute := func(ctx context.Context) (payload, error) {
		calls++
		return payload{N: calls}, nil
	}

	first, err := GetOrCompute(ctx, memo, "k", 20*time.Millisecond, compute)
	require.NoError(t, err)
	require.Equal(t, 1, first.N)

	time.Sleep(30 * time.Millisecond)

	second, err := GetOrCompute(ctx, memo, "k", 20*time.Millisecond, compute)
	require.NoError(t, err)
	require.Equal(t, 2, second.N)
}

func TestInvalidate(t *testing.T) {
	memo, _ := newTestMemo(t)
	ctx := context.Background()

	calls := 0
	compute := func(ctx context.Context) (payload, error) {
		calls++
		return payload{}, nil
	}

	_, err := GetOrCompute(ctx, memo, "k", time.Minute, compute)
	require.NoError(t, err)
	require.NoError(t, memo.Invalidate(ctx, "k"))
	_, err = GetOrCompute(ctx, memo, "k", time.Minute, compute)
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}

func TestMemoryStoreLRUBound(t *testing.T) {
	store := NewMemoryStore(WithMaxEntries(4), WithCleanupInterval(time.Hour))
	t.Cleanup(func() { _ = store.Close() })
	ctx := context.Background()

	for i := 0; i < 10; i++ {
		key := fmt.Sprintf("k%d", i)
		require.NoError(t, store.SetBytes(ctx, key, []byte("v"), time.Minute))
	}
	require.Equal(t, 4, store.Len())

	// Oldest entries were evicted, the newest survive.
	_, ok, err := store.GetBytes(ctx, "k0")
	require.NoError(t, err)
	require.False(t, ok)
	_, ok, err = store.GetBytes(ctx, "k9")
	require.NoError(t, err)
	require.True(t, ok)
}

func TestKeyLayout(t *testing.T) {
	require.Equal(t, "series:AAPL", SeriesKey("AAPL"))
	require.Equal(t, "strategy:AAPL:2", StrategyKey("AAPL", 2))
	require.Equal(t, "forecast:AAPL", ForecastKey("AAPL"))
}
