package store

import (
	"context"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/jonathan/variant-studio/internal/types"
)

const (
	// DefaultCapacity bounds the number of results kept in memory.
	DefaultCapacity = 1000
	// DefaultTTL is how long a result stays retrievable.
	DefaultTTL = 24 * time.Hour
)

// MemoryStore is a bounded in-process store. The least recently used result is
// evicted when capacity is reached, and results expire after the TTL.
type MemoryStore struct {
	cache *expirable.LRU[string, types.GenerationResult]
}

// NewMemoryStore creates a memory store. Non-positive arguments use the defaults.
func NewMemoryStore(capacity int, ttl time.Duration) *MemoryStore {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{cache: expirable.NewLRU[string, types.GenerationResult](capacity, nil, ttl)}
}

// Save stores a copy of result under its request id.
func (s *MemoryStore) Save(_ context.Context, result types.GenerationResult) error {
	s.cache.Add(result.RequestID, cloneResult(result))
	return nil
}

// Get returns a copy of the stored result or ErrNotFound.
func (s *MemoryStore) Get(_ context.Context, id string) (types.GenerationResult, error) {
	result, ok := s.cache.Get(id)
	if !ok {
		return types.GenerationResult{}, ErrNotFound
	}
	return cloneResult(result), nil
}

// Len returns the number of live results.
func (s *MemoryStore) Len() int {
	return s.cache.Len()
}

// Close is a no-op.
func (s *MemoryStore) Close() error {
	return nil
}
