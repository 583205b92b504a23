package cache

import (
	"context"

	"github.com/goliatone/go-memoize/internal/cacheinfra"
	"github.com/puzpuzpuz/xsync/v3"
)

// ErrComputePanicked is handed to callers that were waiting on a computation whose
// fetch function panicked. MapCache lets the panic itself propagate in the goroutine
// that ran it; backends computing on a goroutine of their own return a *PanicError
// matching it instead.
var ErrComputePanicked = cacheinfra.ErrComputePanicked

// PanicError carries the value a fetch function panicked with.
type PanicError = cacheinfra.PanicError

// Guard runs fn and turns a panic into a *PanicError.
func Guard[V any](ctx context.Context, fn FetchFn[V]) (V, error) {
	return cacheinfra.Guard[V](ctx, fn)
}

// entry is a single slot of a MapCache. done is closed once value or err is final.
type entry[V any] struct {
	done  chan struct{}
	value V
	err   error
}

func newEntry[V any]() *entry[V] {
	return &entry[V]{done: make(chan struct{})}
}

func completedEntry[V any](value V) *entry[V] {
	e := &entry[V]{done: make(chan struct{}), value: value}
	close(e.done)
	return e
}

func (e *entry[V]) completed() bool {
	select {
	case <-e.done:
		return true
	default:
		return false
	}
}

// MapCache is an unbounded concurrent map backend and the default memoization cache.
//
// Each key owns an in-flight entry: the first caller runs the fetch function outside
// of any map lock while later callers for the same key wait for it. A failed or
// panicking computation is removed again, so the next call retries it.
type MapCache[K comparable, V any] struct {
	entries *xsync.MapOf[K, *entry[V]]
}

// NewMapCache creates an empty MapCache.
func NewMapCache[K comparable, V any]() *MapCache[K, V] {
	return &MapCache[K, V]{entries: xsync.NewMapOf[K, *entry[V]]()}
}

// NewMapCacheFrom creates a MapCache holding a copy of values.
func NewMapCacheFrom[K comparable, V any](values map[K]V) *MapCache[K, V] {
	c := NewMapCache[K, V]()
	for key, value := range values {
		c.entries.Store(key, completedEntry(value))
	}
	return c
}

// GetIfPresent reports the value for key if a computation for it has completed.
func (c *MapCache[K, V]) GetIfPresent(ctx context.Context, key K) (V, bool, error) {
	var zero V
	e, ok := c.entries.Load(key)
	if !ok || !e.completed() || e.err != nil {
		return zero, false, nil
	}
	return e.value, true, nil
}

// ComputeIfAbsent returns the value for key, running fn if no entry exists yet.
// Waiting callers give up when their ctx is done; the running computation does not.
func (c *MapCache[K, V]) ComputeIfAbsent(ctx context.Context, key K, fn FetchFn[V]) (V, error) {
	e, loaded := c.entries.LoadOrCompute(key, newEntry[V])
	if !loaded {
		return c.run(ctx, key, e, fn)
	}

	var zero V
	select {
	case <-e.done:
		if e.err != nil {
			return zero, e.err
		}
		return e.value, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

func (c *MapCache[K, V]) run(ctx context.Context, key K, e *entry[V], fn FetchFn[V]) (value V, err error) {
	finished := false
	defer func() {
		if finished {
			return
		}
		e.err = ErrComputePanicked
		c.forget(key, e)
		close(e.done)
	}()

	value, err = fn(ctx)
	finished = true

	if err != nil {
		e.err = err
		c.forget(key, e)
		close(e.done)
		return value, err
	}

	e.value = value
	close(e.done)
	return value, nil
}

// forget removes key only while it still maps to e.
func (c *MapCache[K, V]) forget(key K, e *entry[V]) {
	c.entries.Compute(key, func(current *entry[V], loaded bool) (*entry[V], bool) {
		return current, !loaded || current == e
	})
}

// Len returns the number of completed entries.
func (c *MapCache[K, V]) Len() int {
	n := 0
	c.entries.Range(func(_ K, e *entry[V]) bool {
		if e.completed() && e.err == nil {
			n++
		}
		return true
	})
	return n
}

// Snapshot copies the completed entries. It never fails.
func (c *MapCache[K, V]) Snapshot(ctx context.Context) (map[K]V, error) {
	out := make(map[K]V)
	c.entries.Range(func(key K, e *entry[V]) bool {
		if e.completed() && e.err == nil {
			out[key] = e.value
		}
		return true
	})
	return out, nil
}
