package memoize

import (
	"context"

	"github.com/goliatone/go-memoize/cache"
	"github.com/goliatone/go-memoize/keys"
)

// Supplier produces a value without arguments.
type Supplier[V any] func(ctx context.Context) (V, error)

// Function maps one argument to a value.
type Function[T, V any] func(ctx context.Context, in T) (V, error)

// BiFunction maps two arguments to a value.
type BiFunction[T, U, V any] func(ctx context.Context, first T, second U) (V, error)

// Predicate tests one argument.
type Predicate[T any] func(ctx context.Context, in T) (bool, error)

// BiPredicate tests two arguments.
type BiPredicate[T, U any] func(ctx context.Context, first T, second U) (bool, error)

// Consumer acts on one argument.
type Consumer[T any] func(ctx context.Context, in T) error

// BiConsumer acts on two arguments.
type BiConsumer[T, U any] func(ctx context.Context, first T, second U) error

// NewSupplier memoizes fn under the keys.Supplied key: fn runs at most once for the
// lifetime of the returned Supplier, unless it fails.
func NewSupplier[V any](fn Supplier[V], opts ...Option) (Supplier[V], error) {
	return NewSupplierWithKey(fn, keys.DefaultSupplierKey, opts...)
}

// NewSupplierWithKey memoizes fn under the key produced by keyFn on every call.
func NewSupplierWithKey[K comparable, V any](fn Supplier[V], keyFn func() K, opts ...Option) (Supplier[V], error) {
	if fn == nil {
		return nil, nilCallable("Supplier")
	}
	if keyFn == nil {
		return nil, nilKeyFunction("keys.DefaultSupplierKey")
	}

	m, err := build[K, V](opts)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context) (V, error) {
		return m.get(ctx, keyFn(), cache.FetchFn[V](fn))
	}, nil
}

// NewFunction memoizes fn using its argument as the key.
//
// Float arguments make poor map keys (NaN never equals itself); use
// NewFunctionWithKey with keys.Float64 for those.
func NewFunction[T comparable, V any](fn Function[T, V], opts ...Option) (Function[T, V], error) {
	return NewFunctionWithKey(fn, keys.Identity[T], opts...)
}

// NewFunctionWithKey memoizes fn under keyFn(in).
func NewFunctionWithKey[T any, K comparable, V any](fn Function[T, V], keyFn func(T) K, opts ...Option) (Function[T, V], error) {
	if fn == nil {
		return nil, nilCallable("Function")
	}
	if keyFn == nil {
		return nil, nilKeyFunction("keys.Identity")
	}

	m, err := build[K, V](opts)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, in T) (V, error) {
		return m.get(ctx, keyFn(in), func(ctx context.Context) (V, error) {
			return fn(ctx, in)
		})
	}, nil
}

// NewBiFunction memoizes fn using keys.PairOf(first, second) as the key.
func NewBiFunction[T, U comparable, V any](fn BiFunction[T, U, V], opts ...Option) (BiFunction[T, U, V], error) {
	return NewBiFunctionWithKey(fn, keys.PairOf[T, U], opts...)
}

// NewBiFunctionWithKey memoizes fn under keyFn(first, second).
func NewBiFunctionWithKey[T, U any, K comparable, V any](fn BiFunction[T, U, V], keyFn func(T, U) K, opts ...Option) (BiFunction[T, U, V], error) {
	if fn == nil {
		return nil, nilCallable("BiFunction")
	}
	if keyFn == nil {
		return nil, nilKeyFunction("keys.PairOf")
	}

	m, err := build[K, V](opts)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, first T, second U) (V, error) {
		return m.get(ctx, keyFn(first, second), func(ctx context.Context) (V, error) {
			return fn(ctx, first, second)
		})
	}, nil
}

// NewPredicate memoizes fn using its argument as the key.
func NewPredicate[T comparable](fn Predicate[T], opts ...Option) (Predicate[T], error) {
	return NewPredicateWithKey(fn, keys.Identity[T], opts...)
}

// NewPredicateWithKey memoizes fn under keyFn(in).
func NewPredicateWithKey[T any, K comparable](fn Predicate[T], keyFn func(T) K, opts ...Option) (Predicate[T], error) {
	if fn == nil {
		return nil, nilCallable("Predicate")
	}
	if keyFn == nil {
		return nil, nilKeyFunction("keys.Identity")
	}

	m, err := build[K, bool](opts)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, in T) (bool, error) {
		return m.get(ctx, keyFn(in), func(ctx context.Context) (bool, error) {
			return fn(ctx, in)
		})
	}, nil
}

// NewBiPredicate memoizes fn using keys.PairOf(first, second) as the key.
func NewBiPredicate[T, U comparable](fn BiPredicate[T, U], opts ...Option) (BiPredicate[T, U], error) {
	return NewBiPredicateWithKey(fn, keys.PairOf[T, U], opts...)
}

// NewBiPredicateWithKey memoizes fn under keyFn(first, second).
func NewBiPredicateWithKey[T, U any, K comparable](fn BiPredicate[T, U], keyFn func(T, U) K, opts ...Option) (BiPredicate[T, U], error) {
	if fn == nil {
		return nil, nilCallable("BiPredicate")
	}
	if keyFn == nil {
		return nil, nilKeyFunction("keys.PairOf")
	}

	m, err := build[K, bool](opts)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, first T, second U) (bool, error) {
		return m.get(ctx, keyFn(first, second), func(ctx context.Context) (bool, error) {
			return fn(ctx, first, second)
		})
	}, nil
}

// NewConsumer makes fn run at most once per argument. The cache stores each key as
// its own value, so WithCache and WithPrecomputed take a cache.Cache[T, T] and a
// map[T]T.
func NewConsumer[T comparable](fn Consumer[T], opts ...Option) (Consumer[T], error) {
	return NewConsumerWithKey(fn, keys.Identity[T], opts...)
}

// NewConsumerWithKey makes fn run at most once per keyFn(in).
func NewConsumerWithKey[T any, K comparable](fn Consumer[T], keyFn func(T) K, opts ...Option) (Consumer[T], error) {
	if fn == nil {
		return nil, nilCallable("Consumer")
	}
	if keyFn == nil {
		return nil, nilKeyFunction("keys.Identity")
	}

	m, err := build[K, K](opts)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, in T) error {
		key := keyFn(in)
		_, err := m.get(ctx, key, func(ctx context.Context) (K, error) {
			return key, fn(ctx, in)
		})
		return err
	}, nil
}

// NewBiConsumer makes fn run at most once per keys.PairOf(first, second).
func NewBiConsumer[T, U comparable](fn BiConsumer[T, U], opts ...Option) (BiConsumer[T, U], error) {
	return NewBiConsumerWithKey(fn, keys.PairOf[T, U], opts...)
}

// NewBiConsumerWithKey makes fn run at most once per keyFn(first, second).
func NewBiConsumerWithKey[T, U any, K comparable](fn BiConsumer[T, U], keyFn func(T, U) K, opts ...Option) (BiConsumer[T, U], error) {
	if fn == nil {
		return nil, nilCallable("BiConsumer")
	}
	if keyFn == nil {
		return nil, nilKeyFunction("keys.PairOf")
	}

	m, err := build[K, K](opts)
	if err != nil {
		return nil, err
	}

	return func(ctx context.Context, first T, second U) error {
		key := keyFn(first, second)
		_, err := m.get(ctx, key, func(ctx context.Context) (K, error) {
			return key, fn(ctx, first, second)
		})
		return err
	}, nil
}
