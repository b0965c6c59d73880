// Package natskv backs the result cache with a NATS JetStream KV bucket,
// letting several workers share one cache.
package natskv

import (
	"context"
	"errors"
	"fmt"

	"github.com/nats-io/nats.go/jetstream"
)

// DefaultBucket is the KV bucket name used when none is configured.
const DefaultBucket = "LEARNBUDDY_CACHE"

// Store is a cache.Store backed by a JetStream KV bucket.
type Store struct {
	kv jetstream.KeyValue
}

// New binds to the named KV bucket, creating it if it doesn't exist.
func New(ctx context.Context, js jetstream.JetStream, bucket string) (*Store, error) {
	if bucket == "" {
		bucket = DefaultBucket
	}

	kv, err := js.KeyValue(ctx, bucket)
	if err != nil {
		kv, err = js.CreateKeyValue(ctx, jetstream.KeyValueConfig{
			Bucket:      bucket,
			Description: "LearnBuddy result cache",
			History:     1,
		})
		if err != nil {
			return nil, fmt.Errorf("create cache bucket: %w", err)
		}
	}

	return &Store{kv: kv}, nil
}

// Get returns the cached value for key, or a miss when absent.
func (s *Store) Get(ctx context.Context, key string) ([]byte, bool, error) {
	entry, err := s.kv.Get(ctx, key)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, fmt.Errorf("get cache entry: %w", err)
	}
	return entry.Value(), true, nil
}

// Set stores value under key. Entries are content-addressed, so a plain
// Put is safe: a racing writer stores an equivalent value.
func (s *Store) Set(ctx context.Context, key string, value []byte) error {
	if _, err := s.kv.Put(ctx, key, value); err != nil {
		return fmt.Errorf("store cache entry: %w", err)
	}
	return nil
}

// Delete removes the entry for key if present.
func (s *Store) Delete(ctx context.Context, key string) error {
	if err := s.kv.Delete(ctx, key); err != nil && !isNotFound(err) {
		return fmt.Errorf("delete cache entry: %w", err)
	}
	return nil
}

func isNotFound(err error) bool {
	return errors.Is(err, jetstream.ErrKeyNotFound) ||
		errors.Is(err, jetstream.ErrKeyDeleted)
}
