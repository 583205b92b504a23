// Package memoize wraps functions so each distinct key is computed at most once.
//
// # Overview
//
// Every callable shape (Supplier, Function, BiFunction, Predicate, BiPredicate,
// Consumer, BiConsumer) is turned into a memoized callable of the same shape by one
// compute-or-fetch algorithm:
//
//   - derive a key from the arguments with a key function
//   - return the cached value for that key if there is one
//   - otherwise run the wrapped callable once, store its result and return it
//
// Concurrent callers asking for the same key share a single execution. Consumers and
// BiConsumers have no result; the cache remembers which keys have been consumed by
// storing each key as its own value.
//
// # Basic Usage
//
//	loadConfig, err := memoize.NewSupplier(func(ctx context.Context) (Config, error) {
//		return readConfig(ctx, "app.yaml")
//	})
//	if err != nil {
//		return err
//	}
//	cfg, err := loadConfig(ctx) // reads the file
//	cfg, err = loadConfig(ctx)  // cached
//
// Functions use their argument as the key, two argument functions use a keys.Pair:
//
//	lookup, err := memoize.NewBiFunction(func(ctx context.Context, tenant string, id int) (User, error) {
//		return repo.Get(ctx, tenant, id)
//	})
//
// Custom keys are passed to the WithKey constructors:
//
//	send, err := memoize.NewBiConsumerWithKey(notify, keys.Concat[string, float64])
//
// # Backends
//
// By default each memoizer owns an unbounded cache.MapCache. WithBackend selects
// another one:
//
//   - MapBackend: unbounded concurrent map (default)
//   - BoundedBackend: sturdyc cache with capacity and TTL eviction
//   - DistributedBackend: distcache.Cache over a Store shared between processes,
//     namespaced by the memoizer's name, so WithName is required
//
// WithCache hands in a cache the caller built and keeps, which allows inspecting it
// or sharing it between memoizers. WithPrecomputed seeds the cache before first use.
//
// # Errors
//
// Construction fails fast with an *ArgumentError when the callable, the key
// function, the cache, the precomputed map or the name of a distributed memoizer is
// missing. Use errors.Is with ErrNilCallable, ErrNilKeyFunction, ErrNilCache,
// ErrNilPrecomputed, ErrMissingName or ErrCacheType.
//
// At call time:
//
//   - errors returned by the wrapped callable come back unchanged and nothing is cached
//   - cancellation of the caller's context comes back as ctx.Err()
//   - a panic in the wrapped callable reaches the caller that ran it; callers that
//     were waiting on that computation get a *MemoizationError matching
//     cache.ErrComputePanicked
//   - any other backend failure is a *MemoizationError matching ErrMemoizationFailed
package memoize
