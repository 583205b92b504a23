package cache

import (
	"context"

	"github.com/goliatone/go-memoize/internal/cacheinfra"
)

// BoundedCache is a capacity bounded, TTL evicting backend built on sturdyc.
// Keys are serialized with a KeySerializer, so any comparable key type works.
type BoundedCache[K comparable, V any] struct {
	inner *cacheinfra.SturdycCache[K, V]
}

// NewBoundedCache creates a BoundedCache with its own sturdyc client.
// namespace prefixes every serialized key; serializer may be nil for the default.
func NewBoundedCache[K comparable, V any](cfg Config, namespace string, serializer KeySerializer) (*BoundedCache[K, V], error) {
	if serializer == nil {
		serializer = NewDefaultKeySerializer()
	}

	inner, err := cacheinfra.NewSturdycCache[K, V](cfg.toInternal(), namespacePrefix(namespace), func(key K) string {
		return serializer.SerializeKey(namespace, key)
	})
	if err != nil {
		return nil, err
	}
	return &BoundedCache[K, V]{inner: inner}, nil
}

// GetIfPresent implements Cache.
func (c *BoundedCache[K, V]) GetIfPresent(ctx context.Context, key K) (V, bool, error) {
	return c.inner.GetIfPresent(ctx, key)
}

// ComputeIfAbsent implements Cache.
func (c *BoundedCache[K, V]) ComputeIfAbsent(ctx context.Context, key K, fn FetchFn[V]) (V, error) {
	return c.inner.ComputeIfAbsent(ctx, key, fn)
}

// Snapshot implements Snapshotter.
func (c *BoundedCache[K, V]) Snapshot(ctx context.Context) (map[K]V, error) {
	return c.inner.Snapshot(ctx)
}

// AdmissionCache is a cost bounded backend built on ristretto's admission policy.
// A value that ristretto declines to admit is still returned to the caller but is
// not memoized. Call Close when done with it.
type AdmissionCache[K comparable, V any] struct {
	inner *cacheinfra.RistrettoCache[K, V]
}

// NewAdmissionCache creates an AdmissionCache. serializer may be nil for the default.
func NewAdmissionCache[K comparable, V any](cfg AdmissionConfig, serializer KeySerializer) (*AdmissionCache[K, V], error) {
	if serializer == nil {
		serializer = NewDefaultKeySerializer()
	}

	inner, err := cacheinfra.NewRistrettoCache[K, V](cfg.toInternal(), func(key K) string {
		return serializer.SerializeKey("", key)
	})
	if err != nil {
		return nil, err
	}
	return &AdmissionCache[K, V]{inner: inner}, nil
}

// GetIfPresent implements Cache.
func (c *AdmissionCache[K, V]) GetIfPresent(ctx context.Context, key K) (V, bool, error) {
	return c.inner.GetIfPresent(ctx, key)
}

// ComputeIfAbsent implements Cache.
func (c *AdmissionCache[K, V]) ComputeIfAbsent(ctx context.Context, key K, fn FetchFn[V]) (V, error) {
	return c.inner.ComputeIfAbsent(ctx, key, fn)
}

// Close releases ristretto's goroutines.
func (c *AdmissionCache[K, V]) Close() {
	c.inner.Close()
}

func namespacePrefix(namespace string) string {
	if namespace == "" {
		return ""
	}
	return namespace + KeySeparator
}
