package offline

import (
	"net/http"
	"sort"
	"sync"
)

// CachedResponse is a response snapshot the controller can replay when the
// network is unreachable.
type CachedResponse struct {
	Header http.Header
	Body   []byte
	Status int
}

// CacheStore holds cached responses keyed by request URL.
type CacheStore interface {
	Put(key string, resp CachedResponse)
	Match(key string) (CachedResponse, bool)
}

// CacheOpener manages named cache stores. Store names carry the controller
// version so activation can sweep stale generations.
type CacheOpener interface {
	// Open returns the store with the given name, creating it if needed.
	Open(name string) CacheStore
	// Names lists every existing store.
	Names() []string
	// Delete removes a store and its contents.
	Delete(name string)
}

// MemoryCaches is the in-process CacheOpener. Safe for concurrent use.
type MemoryCaches struct {
	stores map[string]*MemoryCache
	mu     sync.Mutex
}

// NewMemoryCaches returns an empty in-memory cache set.
func NewMemoryCaches() *MemoryCaches {
	return &MemoryCaches{stores: make(map[string]*MemoryCache)}
}

// Open returns the named store, creating it on first use.
func (m *MemoryCaches) Open(name string) CacheStore {
	m.mu.Lock()
	defer m.mu.Unlock()
	store, ok := m.stores[name]
	if !ok {
		store = &MemoryCache{entries: make(map[string]CachedResponse)}
		m.stores[name] = store
	}
	return store
}

// Names lists the existing stores in stable order.
func (m *MemoryCaches) Names() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	names := make([]string, 0, len(m.stores))
	for name := range m.stores {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Delete drops a store.
func (m *MemoryCaches) Delete(name string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.stores, name)
}

// MemoryCache is one named store of cached responses.
type MemoryCache struct {
	entries map[string]CachedResponse
	mu      sync.RWMutex
}

// Put stores or replaces the response for key.
func (c *MemoryCache) Put(key string, resp CachedResponse) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = resp
}

// Match returns the cached response for key, if any.
func (c *MemoryCache) Match(key string) (CachedResponse, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	resp, ok := c.entries[key]
	return resp, ok
}
