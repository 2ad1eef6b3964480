package session

import (
	"context"
	"errors"
	"sync"
)

// ErrNotFound is returned by Storage.GetItem when the key is absent.
var ErrNotFound = errors.New("storage key not found")

// Storage is a string key/value store scoped to one client, the
// server-side stand-in for the browser's local storage.
type Storage interface {
	GetItem(ctx context.Context, key string) (string, error)
	SetItem(ctx context.Context, key, value string) error
	RemoveItem(ctx context.Context, key string) error
}

// MemoryStorage is an in-process Storage. Safe for concurrent use.
type MemoryStorage struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryStorage returns an empty MemoryStorage.
func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{items: make(map[string]string)}
}

func (m *MemoryStorage) GetItem(_ context.Context, key string) (string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	if !ok {
		return "", ErrNotFound
	}
	return v, nil
}

func (m *MemoryStorage) SetItem(_ context.Context, key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryStorage) RemoveItem(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.items, key)
	return nil
}

// Backend hands out per-client Storage namespaces.
type Backend interface {
	ForClient(clientID string) Storage
}

// MemoryBackend keeps one MemoryStorage per client id.
type MemoryBackend struct {
	mu      sync.Mutex
	clients map[string]*MemoryStorage
}

// NewMemoryBackend returns an empty MemoryBackend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{clients: make(map[string]*MemoryStorage)}
}

// ForClient returns the storage of clientID, creating it on first use.
func (b *MemoryBackend) ForClient(clientID string) Storage {
	b.mu.Lock()
	defer b.mu.Unlock()
	s, ok := b.clients[clientID]
	if !ok {
		s = NewMemoryStorage()
		b.clients[clientID] = s
	}
	return s
}
