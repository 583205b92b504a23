package cacheinfra

import (
	"context"
	"strings"

	"github.com/viccon/sturdyc"
)

// Record keeps the typed key next to the memoized value so that a cache keyed by
// serialized strings can still report its typed contents.
type Record[K comparable, V any] struct {
	Key   K
	Value V
}

// SturdycCache is a bounded, evicting memoization backend on top of a sturdyc client.
// sturdyc deduplicates concurrent fetches for the same key, which gives the
// at-most-once execution per key while the entry is cached.
type SturdycCache[K comparable, V any] struct {
	client *sturdyc.Client[Record[K, V]]
	keyFn  func(K) string
	prefix string
}

// NewSturdycCache creates a new sturdyc backed cache.
// It validates the configuration and initializes a dedicated sturdyc client.
//
// keyFn turns a typed key into the string sturdyc stores it under. Snapshot only
// reports keys starting with prefix.
func NewSturdycCache[K comparable, V any](cfg Config, prefix string, keyFn func(K) string) (*SturdycCache[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if keyFn == nil {
		return nil, &ConfigError{Field: "keyFn", Message: "cannot be nil"}
	}

	client := sturdyc.New[Record[K, V]](
		cfg.Capacity,
		cfg.NumShards,
		cfg.TTL,
		cfg.EvictionPercentage,
		cfg.ToSturdycOptions()...,
	)

	return &SturdycCache[K, V]{client: client, keyFn: keyFn, prefix: prefix}, nil
}

// GetIfPresent returns the cached value for key without fetching.
func (s *SturdycCache[K, V]) GetIfPresent(ctx context.Context, key K) (V, bool, error) {
	record, ok := s.client.Get(s.keyFn(key))
	if !ok {
		var zero V
		return zero, false, nil
	}
	return record.Value, true, nil
}

// ComputeIfAbsent returns the cached value for key or runs fetchFn once and caches it.
// Errors from fetchFn are not cached.
func (s *SturdycCache[K, V]) ComputeIfAbsent(ctx context.Context, key K, fetchFn func(context.Context) (V, error)) (V, error) {
	record, err := s.client.GetOrFetch(ctx, s.keyFn(key), func(ctx context.Context) (Record[K, V], error) {
		value, err := fetchFn(ctx)
		if err != nil {
			return Record[K, V]{}, err
		}
		return Record[K, V]{Key: key, Value: value}, nil
	})
	if err != nil {
		var zero V
		return zero, err
	}
	return record.Value, nil
}

// Snapshot lists the live entries under this cache's prefix.
func (s *SturdycCache[K, V]) Snapshot(ctx context.Context) (map[K]V, error) {
	entries := make(map[K]V)
	for _, key := range s.client.ScanKeys() {
		if !strings.HasPrefix(key, s.prefix) {
			continue
		}
		if record, ok := s.client.Get(key); ok {
			entries[record.Key] = record.Value
		}
	}
	return entries, nil
}

// ConfigError represents an invalid constructor argument.
type ConfigError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ConfigError) Error() string {
	return "config error in field " + e.Field + ": " + e.Message
}
