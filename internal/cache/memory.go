package cache

import (
	"context"
	"fmt"
	"sync"
	"time"
)

const (
	defaultMaxEntries  = 100_000
	memoryCleanupEvery = 60 * time.Second
)

type memoryEntry struct {
	value     []byte
	expiresAt time.Time // zero means no expiry
}

func (e memoryEntry) live(now time.Time) bool {
	return e.expiresAt.IsZero() || now.Before(e.expiresAt)
}

// Memory is a bounded in-process cache.
type Memory struct {
	mu         sync.RWMutex
	entries    map[string]memoryEntry
	maxEntries int
}

// NewMemory creates a Memory cache holding at most maxEntries keys (0 means
// the default). The context controls the lifetime of the eviction goroutine.
func NewMemory(ctx context.Context, maxEntries int) *Memory {
	if maxEntries <= 0 {
		maxEntries = defaultMaxEntries
	}

	m := &Memory{
		entries:    make(map[string]memoryEntry),
		maxEntries: maxEntries,
	}
	go m.evictLoop(ctx)

	return m
}

// evictLoop periodically removes expired entries.
func (m *Memory) evictLoop(ctx context.Context) {
	ticker := time.NewTicker(memoryCleanupEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			m.mu.Lock()
			m.evictExpired(now)
			m.mu.Unlock()
		}
	}
}

// evictExpired must be called with mu held.
func (m *Memory) evictExpired(now time.Time) {
	for k, e := range m.entries {
		if !e.live(now) {
			delete(m.entries, k)
		}
	}
}

// Exists reports whether a live entry is stored under key.
func (m *Memory) Exists(ctx context.Context, key string) (bool, error) {
	if err := checkContext(ctx); err != nil {
		return false, err
	}

	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	return ok && e.live(time.Now()), nil
}

// Get returns a copy of the value stored under key.
func (m *Memory) Get(ctx context.Context, key string) ([]byte, error) {
	if err := checkContext(ctx); err != nil {
		return nil, err
	}

	m.mu.RLock()
	e, ok := m.entries[key]
	m.mu.RUnlock()

	if !ok || !e.live(time.Now()) {
		return nil, fmt.Errorf("%s: %w", key, ErrKeyNotFound)
	}

	out := make([]byte, len(e.value))
	copy(out, e.value)

	return out, nil
}

// Set stores value under key with no expiry.
func (m *Memory) Set(ctx context.Context, key string, value []byte) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	stored := make([]byte, len(value))
	copy(stored, value)

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.entries[key]; !ok && len(m.entries) >= m.maxEntries {
		m.evictExpired(time.Now())
		for k := range m.entries {
			if len(m.entries) < m.maxEntries {
				break
			}
			delete(m.entries, k)
		}
	}

	m.entries[key] = memoryEntry{value: stored}

	return nil
}

// Expire sets the time-to-live of an existing key.
func (m *Memory) Expire(ctx context.Context, key string, ttl time.Duration) error {
	if err := checkContext(ctx); err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	e, ok := m.entries[key]
	if !ok {
		return nil
	}

	if ttl <= 0 {
		delete(m.entries, key)

		return nil
	}

	e.expiresAt = time.Now().Add(ttl)
	m.entries[key] = e

	return nil
}

// Len returns the number of stored entries, expired or not.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()

	return len(m.entries)
}

// Ping always succeeds.
func (m *Memory) Ping(context.Context) error { return nil }

// Close drops all entries.
func (m *Memory) Close() error {
	m.mu.Lock()
	m.entries = make(map[string]memoryEntry)
	m.mu.Unlock()

	return nil
}
