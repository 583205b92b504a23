// Package cache provides the storage backends memoizers compute into and the key
// serialization used by backends that store string keys.
//
// # Overview
//
// A backend implements Cache:
//
//   - GetIfPresent reports a completed value without computing anything
//   - ComputeIfAbsent returns the value for a key, running a FetchFn at most once
//     for concurrent callers of the same key
//
// Errors returned by the FetchFn are handed back unchanged and never stored, so the
// next call for that key computes again.
//
// # Backends
//
//   - MapCache: unbounded, built on xsync.MapOf; the default for memoizers
//   - BoundedCache: sturdyc client with capacity, shards and TTL eviction
//   - AdmissionCache: ristretto with TinyLFU admission; values it declines to keep
//     are returned but not memoized
//
// The distcache package adds a backend over a Store shared between processes.
//
// # Basic Usage
//
//	users := cache.NewMapCache[string, User]()
//	user, err := users.ComputeIfAbsent(ctx, "user-123", func(ctx context.Context) (User, error) {
//		return repository.GetByID(ctx, "user-123")
//	})
//
// Bounded caches are configured with Config, which can also be read from YAML:
//
//	cfg, err := cache.ParseConfig([]byte("capacity: 5000\nttl: 30m\n"))
//	orders, err := cache.NewBoundedCache[OrderKey, Order](cfg, "orders", nil)
//
// # Key Serialization Strategy
//
// The default key serializer uses reflection to handle various Go types:
//
//   - Function pointers: Uses %p formatting for stability within a process
//   - Basic types: Direct string representation
//   - Floats: Shortest representation, -0 folded into 0, every NaN rendered alike
//   - Slices/arrays: Recursive serialization of elements
//   - Maps: Sorted key-value pairs for deterministic output
//   - Structs: Exported fields with name:value pairs
//   - Complex types: JSON fallback with error handling
//
// Segments are joined with KeySeparator after an optional namespace, so
// SerializeKey("orders", "acme", 7) yields "orders::acme::7".
//
// # Important Warnings for Function Keys
//
//   - Function pointers are stable only within a single process lifetime
//   - Closures with different captured variables will have different pointers
//   - For distributed caching, use keys whose serialized form is stable across
//     processes, or a custom KeySerializer
//
// # Custom Key Serializers
//
//	type prefixedSerializer struct {
//		prefix string
//	}
//
//	func (s prefixedSerializer) SerializeKey(namespace string, parts ...any) string {
//		return s.prefix + cache.NewDefaultKeySerializer().SerializeKey(namespace, parts...)
//	}
//
// # Thread Safety
//
// All backends and the default KeySerializer are safe for concurrent use.
package cache
