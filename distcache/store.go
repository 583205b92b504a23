package distcache

import "context"

// Store is the byte level contract of a shared cache. Implementations talk to
// something other processes can see, so every call may fail.
type Store interface {
	// Get returns the stored bytes for key, or ok=false when there are none.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// PutIfAbsent stores value only if key has no value yet and reports whether it did.
	// Existing values are never replaced.
	PutIfAbsent(ctx context.Context, key string, value []byte) (stored bool, err error)

	// Scan calls fn for every stored entry until fn returns false.
	Scan(ctx context.Context, fn func(key string, value []byte) bool) error
}
