// Package memory layers an in-process LRU in front of another cache store.
package memory

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/learnbuddy/learnbuddy/cache"
)

// DefaultMaxEntries bounds the in-process layer when no size is given.
const DefaultMaxEntries = 1024

// Store is a read-through LRU wrapper around an origin cache. Hits are
// served from memory; misses fall through to the origin and are promoted
// on the way back.
type Store struct {
	origin  cache.Store
	entries *lru.Cache[string, []byte]
}

// New wraps origin with an LRU holding at most maxEntries entries.
func New(origin cache.Store, maxEntries int) (*Store, error) {
	if origin == nil {
		return nil, fmt.Errorf("origin store is required")
	}
	if maxEntries <= 0 {
		maxEntries = DefaultMaxEntries
	}
	entries, err := lru.New[string, []byte](maxEntries)
	if err != nil {
		return nil, fmt.Errorf("create lru: %w", err)
	}
	return &Store{origin: origin, entries: entries}, nil
}

// Get serves from memory when possible, falling through to the origin.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	if value, ok := s.entries.Get(key); ok {
		return value, true, nil
	}

	value, ok, err := s.origin.Get(ctx, key)
	if err != nil || !ok {
		return nil, false, err
	}
	s.entries.Add(key, value)
	return value, true, nil
}

// Set writes through to the origin, then updates the memory layer.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if err := s.origin.Set(ctx, key, value); err != nil {
		return err
	}
	s.entries.Add(key, value)
	return nil
}

// Delete removes the entry from both layers.
func (s *Store) Delete(ctx context.Context, key string) error {
	s.entries.Remove(key)
	return s.origin.Delete(ctx, key)
}

// Len reports how many entries the memory layer currently holds.
func (s *Store) Len() int {
	return s.entries.Len()
}
