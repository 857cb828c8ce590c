package query

import (
	"context"
	"encoding/json"
	"sync"
	"time"
)

// Entry is a cached query result.
type Entry struct {
	Data      json.RawMessage `json:"data"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// Backend stores entries. Get returns (nil, nil) for a missing key.
type Backend interface {
	Get(ctx context.Context, key string) (*Entry, error)
	Set(ctx context.Context, key string, entry Entry, ttl time.Duration) error
	DeletePrefix(ctx context.Context, prefix string) error
	Close() error
}

type memoryItem struct {
	entry   Entry
	expires time.Time
}

// Memory is a process-local Backend.
type Memory struct {
	mu    sync.Mutex
	items map[string]memoryItem
	now   func() time.Time
}

func NewMemory() *Memory {
	return &Memory{
		items: make(map[string]memoryItem),
		now:   time.Now,
	}
}

func (m *Memory) Get(_ context.Context, key string) (*Entry, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, ok := m.items[key]
	if !ok {
		return nil, nil
	}
	if !item.expires.IsZero() && !m.now().Before(item.expires) {
		delete(m.items, key)
		return nil, nil
	}

	entry := item.entry
	return &entry, nil
}

func (m *Memory) Set(_ context.Context, key string, entry Entry, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	item := memoryItem{entry: entry}
	if ttl > 0 {
		item.expires = m.now().Add(ttl)
	}
	m.items[key] = item
	return nil
}

func (m *Memory) DeletePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for key := range m.items {
		if matchesPrefix(key, prefix) {
			delete(m.items, key)
		}
	}
	return nil
}

func (m *Memory) Close() error { return nil }

// Len returns the number of stored entries, expired ones included.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.items)
}
