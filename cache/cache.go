package cache

import "context"

// KeySerializer builds a cache key string from a namespace + arbitrary key parts.
// It is responsible for producing stable keys across calls.
type KeySerializer interface {
	SerializeKey(namespace string, parts ...any) string
}

// FetchFn is the function signature a Cache calls when a key is absent.
type FetchFn[V any] func(ctx context.Context) (V, error)

// Cache is the capability a memoizer needs from its storage backend.
//
// ComputeIfAbsent must run fn at most once per key for concurrent callers of the same
// Cache and must not hold a cache wide lock while fn runs. An error returned by fn is
// handed back unchanged and nothing is stored for the key.
type Cache[K comparable, V any] interface {
	GetIfPresent(ctx context.Context, key K) (V, bool, error)
	ComputeIfAbsent(ctx context.Context, key K, fn FetchFn[V]) (V, error)
}

// Snapshotter is implemented by backends that can list what they hold.
// It exists for tests and diagnostics, not for the memoization path.
type Snapshotter[K comparable, V any] interface {
	Snapshot(ctx context.Context) (map[K]V, error)
}
