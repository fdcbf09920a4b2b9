package cache

import (
	"context"
	"sync"
	"time"
)

type entry[V any] struct {
	value   V
	expires time.Time
}

func (e entry[V]) expired(now time.Time) bool {
	return !e.expires.IsZero() && now.After(e.expires)
}

// MemoryCache is a process-local cache. Expired keys are dropped lazily on
// read and periodically by a janitor goroutine.
type MemoryCache[V any] struct {
	mu    sync.RWMutex
	items map[string]entry[V]
	quit  chan struct{}
	once  sync.Once
}

// NewMemoryCache starts the janitor when sweep is positive.
func NewMemoryCache[V any](sweep time.Duration) *MemoryCache[V] {
	mc := &MemoryCache[V]{
		items: make(map[string]entry[V]),
		quit:  make(chan struct{}),
	}
	if sweep > 0 {
		go mc.janitor(sweep)
	}
	return mc
}

// Stop terminates the janitor goroutine.
func (mc *MemoryCache[V]) Stop() {
	mc.once.Do(func() { close(mc.quit) })
}

func (mc *MemoryCache[V]) Get(_ context.Context, key string) (V, error) {
	var zero V
	mc.mu.RLock()
	e, ok := mc.items[key]
	mc.mu.RUnlock()
	if !ok {
		return zero, ErrCacheMiss
	}
	if e.expired(time.Now()) {
		mc.mu.Lock()
		if cur, ok := mc.items[key]; ok && cur.expired(time.Now()) {
			delete(mc.items, key)
		}
		mc.mu.Unlock()
		return zero, ErrCacheMiss
	}
	return e.value, nil
}

func (mc *MemoryCache[V]) Set(_ context.Context, key string, value V, ttl time.Duration) error {
	e := entry[V]{value: value}
	if ttl > 0 {
		e.expires = time.Now().Add(ttl)
	}
	mc.mu.Lock()
	mc.items[key] = e
	mc.mu.Unlock()
	return nil
}

func (mc *MemoryCache[V]) Delete(_ context.Context, key string) error {
	mc.mu.Lock()
	delete(mc.items, key)
	mc.mu.Unlock()
	return nil
}

// Len counts live and not yet swept entries.
func (mc *MemoryCache[V]) Len() int {
	mc.mu.RLock()
	defer mc.mu.RUnlock()
	return len(mc.items)
}

func (mc *MemoryCache[V]) janitor(every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			mc.sweep(time.Now())
		case <-mc.quit:
			return
		}
	}
}

func (mc *MemoryCache[V]) sweep(now time.Time) {
	mc.mu.Lock()
	defer mc.mu.Unlock()
	for k, e := range mc.items {
		if e.expired(now) {
			delete(mc.items, k)
		}
	}
}
