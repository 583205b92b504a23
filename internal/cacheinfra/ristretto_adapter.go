package cacheinfra

import (
	"context"
	"sync"

	ristretto "github.com/dgraph-io/ristretto/v2"
	"golang.org/x/sync/singleflight"
)

// entryCost is the cost charged per memoized entry, making MaxCost an entry count.
const entryCost = 1

// RistrettoCache is a memoization backend on top of ristretto. Ristretto decides
// admission itself, so a computed value may be returned without being kept; the
// wrapped function then runs again on the next call for that key.
type RistrettoCache[K comparable, V any] struct {
	cache  *ristretto.Cache[string, Record[K, V]]
	keyFn  func(K) string
	flight singleflight.Group

	// mu orders writes from detached flights against Close.
	mu     sync.RWMutex
	closed bool
}

// NewRistrettoCache creates a ristretto backed cache. Close releases its goroutines.
func NewRistrettoCache[K comparable, V any](cfg AdmissionConfig, keyFn func(K) string) (*RistrettoCache[K, V], error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if keyFn == nil {
		return nil, &ConfigError{Field: "keyFn", Message: "cannot be nil"}
	}

	cache, err := ristretto.NewCache(&ristretto.Config[string, Record[K, V]]{
		NumCounters:        cfg.NumCounters,
		MaxCost:            cfg.MaxCost,
		BufferItems:        cfg.BufferItems,
		// cost counts entries, not bytes
		IgnoreInternalCost: true,
	})
	if err != nil {
		return nil, err
	}

	return &RistrettoCache[K, V]{cache: cache, keyFn: keyFn}, nil
}

// GetIfPresent returns the cached value for key without fetching.
func (r *RistrettoCache[K, V]) GetIfPresent(ctx context.Context, key K) (V, bool, error) {
	record, ok := r.get(r.keyFn(key))
	return record.Value, ok, nil
}

// ComputeIfAbsent returns the cached value for key or runs fetchFn once for all
// concurrent callers of the same key.
func (r *RistrettoCache[K, V]) ComputeIfAbsent(ctx context.Context, key K, fetchFn func(context.Context) (V, error)) (V, error) {
	skey := r.keyFn(key)
	if record, ok := r.get(skey); ok {
		return record.Value, nil
	}

	// the flight outlives callers that give up, so it must not see their cancellation
	flightCtx := context.WithoutCancel(ctx)
	ch := r.flight.DoChan(skey, func() (any, error) {
		if record, ok := r.get(skey); ok {
			return record.Value, nil
		}

		value, err := Guard(flightCtx, fetchFn)
		if err != nil {
			return nil, err
		}

		r.set(skey, Record[K, V]{Key: key, Value: value})
		return value, nil
	})

	var zero V
	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		// comma-ok keeps a nil interface value from panicking
		value, _ := res.Val.(V)
		return value, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Close stops ristretto's background goroutines. It waits for flights that are
// storing a value; flights finishing afterwards hand their value to their callers
// without storing it. Calling Close twice is a no-op.
func (r *RistrettoCache[K, V]) Close() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return
	}
	r.closed = true
	r.cache.Close()
}

func (r *RistrettoCache[K, V]) get(skey string) (Record[K, V], bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return Record[K, V]{}, false
	}
	return r.cache.Get(skey)
}

func (r *RistrettoCache[K, V]) set(skey string, record Record[K, V]) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	if r.closed {
		return
	}
	if r.cache.Set(skey, record, entryCost) {
		// make the value visible before the flight ends
		r.cache.Wait()
	}
}
