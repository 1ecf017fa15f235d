package cache

import (
	"context"
	"sync"
	"time"
)

type memoryItem struct {
	value    []byte
	expireAt time.Time
}

func (m *memoryItem) expired() bool {
	return !m.expireAt.IsZero() && time.Now().After(m.expireAt)
}

// MemoryStore implements Store with a bounded in-memory map and LRU eviction.
type MemoryStore struct {
	mu            sync.Mutex
	data          map[string]*memoryItem
	access        map[string]time.Time
	maxEntries    int
	cleanupTicker *time.Ticker
	done          chan struct{}
}

// NewMemoryStore creates an in-memory store.
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	cfg := &MemoryConfig{
		MaxEntries:      256,
		CleanupInterval: 5 * time.Minute,
	}
	for _, opt := range opts {
		opt(cfg)
	}

	ms := &MemoryStore{
		data:          make(map[string]*memoryItem),
		access:        make(map[string]time.Time),
		maxEntries:    cfg.MaxEntries,
		cleanupTicker: time.NewTicker(cfg.CleanupInterval),
		done:          make(chan struct{}),
	}

	go ms.cleanupExpired()
	return ms
}

func (ms *MemoryStore) GetBytes(_ context.Context, key string) ([]byte, bool, error) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	item, exists := ms.data[key]
	if !exists {
		return nil, false, nil
	}
	if item.expired() {
		delete(ms.data, key)
		delete(ms.access, key)
		return nil, false, nil
	}

	ms.access[key] = time.Now()
	return item.value, true, nil
}

func (ms *MemoryStore) SetBytes(_ context.Context, key string, value []byte, ttl time.Duration) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	if _, exists := ms.data[key]; !exists && len(ms.data) >= ms.maxEntries {
		ms.evictLRU()
	}

	var expireAt time.Time
	if ttl > 0 {
		expireAt = time.Now().Add(ttl)
	}
	ms.data[key] = &memoryItem{value: value, expireAt: expireAt}
	ms.access[key] = time.Now()
	return nil
}

func (ms *MemoryStore) Delete(_ context.Context, keys ...string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	for _, key := range keys {
		delete(ms.data, key)
		delete(ms.access, key)
	}
	return nil
}

// Len reports the number of live entries.
func (ms *MemoryStore) Len() int {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	return len(ms.data)
}

func (ms *MemoryStore) evictLRU() {
	var oldestKey string
	oldestTime := time.Now()

	for key, accessTime := range ms.access {
		if accessTime.Before(oldestTime) {
			oldestTime = accessTime
			oldestKey = key
		}
	}

	if oldestKey != "" {
		delete(ms.data, oldestKey)
		delete(ms.access, oldestKey)
	}
}

func (ms *MemoryStore) cleanupExpired() {
	for {
		select {
		case <-ms.done:
			return
		case <-ms.cleanupTicker.C:
			ms.mu.Lock()
			for key, item := range ms.data {
				if item.expired() {
					delete(ms.data, key)
					delete(ms.access, key)
				}
			}
			ms.mu.Unlock()
		}
	}
}

// Close stops the cleanup goroutine.
func (ms *MemoryStore) Close() error {
	ms.cleanupTicker.Stop()
	close(ms.done)
	return nil
}
