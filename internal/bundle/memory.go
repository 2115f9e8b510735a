package bundle

import (
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
)

// MemoryStore is an in-process Store bounded by entry count and TTL. The
// eviction policy lives here at the port boundary so unbounded growth never
// becomes the orchestrators' problem.
type MemoryStore struct {
	cache *expirable.LRU[string, *Bundle]
}

// NewMemoryStore creates a bounded in-memory store. maxEntries <= 0 defaults
// to 256; ttl <= 0 means entries never expire by age.
func NewMemoryStore(maxEntries int, ttl time.Duration) *MemoryStore {
	if maxEntries <= 0 {
		maxEntries = 256
	}
	return &MemoryStore{
		cache: expirable.NewLRU[string, *Bundle](maxEntries, nil, ttl),
	}
}

// Put stores a copy of the bundle. The copy keeps later in-process edits to
// the caller's value from leaking into the stored entry.
func (s *MemoryStore) Put(b *Bundle) error {
	s.cache.Add(b.ID, b.Clone())
	return nil
}

// Get returns a copy of the stored bundle, or ErrNotFound.
func (s *MemoryStore) Get(id string) (*Bundle, error) {
	b, ok := s.cache.Get(id)
	if !ok {
		return nil, ErrNotFound
	}
	return b.Clone(), nil
}

// Len reports how many bundles are currently retained.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}

// Close is a no-op for the in-memory store.
func (s *MemoryStore) Close() error {
	return nil
}
