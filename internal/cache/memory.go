package cache

import (
	"context"
	"sync"
	"time"
)

type memoryEntry struct {
	value   string
	expires time.Time // zero means no expiry
}

func (e memoryEntry) expired(now time.Time) bool {
	return !e.expires.IsZero() && !now.Before(e.expires)
}

// MemoryCache is an in-process Repository
type MemoryCache struct {
	mu   sync.RWMutex
	data map[string]memoryEntry
	now  func() time.Time
}

// NewMemoryCache creates an empty in-process cache
func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		data: make(map[string]memoryEntry),
		now:  time.Now,
	}
}

// Get returns the value for key if present and not expired
func (m *MemoryCache) Get(_ context.Context, key string) (string, bool, error) {
	m.mu.RLock()
	entry, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return "", false, nil
	}
	if entry.expired(m.now()) {
		m.evict(key)
		return "", false, nil
	}
	return entry.value, true, nil
}

// evict deletes key if it is still expired once the write lock is held. A
// Set that landed after the read keeps its entry.
func (m *MemoryCache) evict(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if entry, ok := m.data[key]; ok && entry.expired(m.now()) {
		delete(m.data, key)
	}
}

// Set stores value under key. A ttl <= 0 keeps the entry until overwritten.
func (m *MemoryCache) Set(_ context.Context, key string, value string, ttl time.Duration) error {
	entry := memoryEntry{value: value}
	if ttl > 0 {
		entry.expires = m.now().Add(ttl)
	}
	m.mu.Lock()
	m.data[key] = entry
	m.mu.Unlock()
	return nil
}

// Len returns the number of stored entries, expired ones included
func (m *MemoryCache) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}
