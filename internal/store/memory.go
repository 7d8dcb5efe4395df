package store

import (
	"context"
	"sort"
	"strings"
	"sync"
)

// MemoryBackend is a concurrency-safe in-memory Backend.
type MemoryBackend struct {
	mu sync.RWMutex

	prefs     map[string][]byte
	favorites map[string]Favorite
	cache     map[string]CacheEntry

	// retention configuration
	maxCacheEntries int // max number of weather_cache records
}

// NewMemoryBackend creates a MemoryBackend. If maxCacheEntries is <= 0, the
// weather cache is unlimited.
func NewMemoryBackend(maxCacheEntries int) *MemoryBackend {
	return &MemoryBackend{
		prefs:           make(map[string][]byte),
		favorites:       make(map[string]Favorite),
		cache:           make(map[string]CacheEntry),
		maxCacheEntries: maxCacheEntries,
	}
}

func (m *MemoryBackend) GetPreference(_ context.Context, key string) ([]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	v, ok := m.prefs[key]
	if !ok {
		return nil, ErrNotFound
	}
	return append([]byte(nil), v...), nil
}

func (m *MemoryBackend) PutPreference(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs[key] = append([]byte(nil), value...)
	return nil
}

func (m *MemoryBackend) Preferences(_ context.Context) (map[string][]byte, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make(map[string][]byte, len(m.prefs))
	for k, v := range m.prefs {
		out[k] = append([]byte(nil), v...)
	}
	return out, nil
}

func (m *MemoryBackend) GetFavorite(_ context.Context, key string) (Favorite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	f, ok := m.favorites[key]
	if !ok {
		return Favorite{}, ErrNotFound
	}
	return f, nil
}

func (m *MemoryBackend) PutFavorite(_ context.Context, f Favorite) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.favorites[f.Key] = f
	return nil
}

func (m *MemoryBackend) DeleteFavorite(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.favorites, key)
	return nil
}

func (m *MemoryBackend) Favorites(_ context.Context) ([]Favorite, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	out := make([]Favorite, 0, len(m.favorites))
	for _, f := range m.favorites {
		out = append(out, f)
	}
	return out, nil
}

func (m *MemoryBackend) GetCache(_ context.Context, key string) (CacheEntry, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	e, ok := m.cache[key]
	if !ok {
		return CacheEntry{}, ErrNotFound
	}
	return e, nil
}

// PutCache stores e and enforces retention by evicting the oldest records.
func (m *MemoryBackend) PutCache(_ context.Context, e CacheEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	e.Data = append([]byte(nil), e.Data...)
	m.cache[e.Key] = e

	if m.maxCacheEntries > 0 && len(m.cache) > m.maxCacheEntries {
		entries := make([]CacheEntry, 0, len(m.cache))
		for _, c := range m.cache {
			entries = append(entries, c)
		}
		sort.Slice(entries, func(i, j int) bool {
			return entries[i].StoredAt.Before(entries[j].StoredAt)
		})
		over := len(entries) - m.maxCacheEntries
		for _, old := range entries[:over] {
			delete(m.cache, old.Key)
		}
	}
	return nil
}

func (m *MemoryBackend) DeleteCachePrefix(_ context.Context, prefix string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for k := range m.cache {
		if strings.HasPrefix(k, prefix) {
			delete(m.cache, k)
		}
	}
	return nil
}

func (m *MemoryBackend) Clear(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.prefs = make(map[string][]byte)
	m.favorites = make(map[string]Favorite)
	m.cache = make(map[string]CacheEntry)
	return nil
}

func (m *MemoryBackend) Close() error {
	return nil
}
