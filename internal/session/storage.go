// AngelaMos | 2026
// storage.go

package session

import (
	"context"
	"sync"
	"time"
)

// Storage persists the named values of one scope under a single key.
// Save must apply all values at once and refresh the key's expiry.
type Storage interface {
	Load(ctx context.Context, key string) (map[string]string, error)
	Save(
		ctx context.Context,
		key string,
		values map[string]string,
		ttl time.Duration,
	) error
	Remove(ctx context.Context, key string, names ...string) error
	Ping(ctx context.Context) error
}

type memoryEntry struct {
	values    map[string]string
	expiresAt time.Time
}

// MemoryStorage keeps scopes in process memory. It is meant for local
// development and tests.
type MemoryStorage struct {
	mu      sync.Mutex
	entries map[string]*memoryEntry
	now     func() time.Time
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{
		entries: make(map[string]*memoryEntry),
		now:     time.Now,
	}
}

func (m *MemoryStorage) Load(
	_ context.Context,
	key string,
) (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return map[string]string{}, nil
	}

	if !m.now().Before(entry.expiresAt) {
		delete(m.entries, key)
		return map[string]string{}, nil
	}

	out := make(map[string]string, len(entry.values))
	for k, v := range entry.values {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryStorage) Save(
	_ context.Context,
	key string,
	values map[string]string,
	ttl time.Duration,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	entry, ok := m.entries[key]
	if !ok || !now.Before(entry.expiresAt) {
		entry = &memoryEntry{values: make(map[string]string, len(values))}
		m.entries[key] = entry
	}

	for k, v := range values {
		entry.values[k] = v
	}
	entry.expiresAt = now.Add(ttl)

	return nil
}

func (m *MemoryStorage) Remove(
	_ context.Context,
	key string,
	names ...string,
) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	entry, ok := m.entries[key]
	if !ok {
		return nil
	}

	for _, name := range names {
		delete(entry.values, name)
	}

	if len(entry.values) == 0 {
		delete(m.entries, key)
	}

	return nil
}

func (m *MemoryStorage) Ping(context.Context) error {
	return nil
}
