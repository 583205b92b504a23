package memoize

import (
	"context"
	"errors"
	"reflect"
	"sync/atomic"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-memoize/cache"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// memoizer is the one compute-or-fetch algorithm every callable shape is built on.
type memoizer[K comparable, V any] struct {
	cache    cache.Cache[K, V]
	logger   *zap.Logger
	reporter Reporter
}

// build resolves the options into a ready memoizer: explicit cache or one built from
// the backend, seeded with any precomputed values.
func build[K comparable, V any](opts []Option) (*memoizer[K, V], error) {
	s := newSettings(opts)

	var (
		supplied cache.Cache[K, V]
		seed     map[K]V
	)

	if s.cacheSet {
		if err := validation.Validate(s.cache, validation.NotNil); err != nil {
			return nil, nilCache()
		}
		c, ok := s.cache.(cache.Cache[K, V])
		if !ok {
			return nil, cacheTypeMismatch("cache", s.cache, typeName[cache.Cache[K, V]]())
		}
		supplied = c
	}

	if s.precomputedSet {
		if s.precomputed == nil {
			return nil, nilPrecomputed()
		}
		values, ok := s.precomputed.(map[K]V)
		if !ok {
			return nil, cacheTypeMismatch("precomputed values", s.precomputed, typeName[map[K]V]())
		}
		if values == nil {
			return nil, nilPrecomputed()
		}
		seed = values
	}

	c := supplied
	if c == nil {
		built, err := newCache[K, V](s)
		if err != nil {
			return nil, err
		}
		c = built
	}

	name := s.name
	if name == "" {
		name = uuid.New().String()
	}

	m := &memoizer[K, V]{
		cache:    c,
		logger:   s.logger.With(zap.String("memoizer", name)),
		reporter: s.reporter,
	}

	if err := m.seed(seed); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *memoizer[K, V]) seed(values map[K]V) error {
	ctx := context.Background()
	for key, value := range values {
		_, err := m.cache.ComputeIfAbsent(ctx, key, func(context.Context) (V, error) {
			return value, nil
		})
		if err != nil {
			return &MemoizationError{Key: key, Cause: err}
		}
	}
	if len(values) > 0 {
		m.logger.Debug("seeded precomputed values", zap.Int("count", len(values)))
	}
	return nil
}

// get returns the value memoized under key, running fn if there is none yet.
// Errors from fn come back unchanged and are not cached. A panic in fn reaches the
// caller whose fn ran; callers that were waiting on it get a MemoizationError
// matching cache.ErrComputePanicked.
func (m *memoizer[K, V]) get(ctx context.Context, key K, fn cache.FetchFn[V]) (V, error) {
	var zero V

	value, ok, err := m.cache.GetIfPresent(ctx, key)
	if err != nil {
		return zero, m.fault(key, err)
	}
	if ok {
		m.reporter.ReportHit()
		return value, nil
	}

	var computed atomic.Bool
	value, err = m.cache.ComputeIfAbsent(ctx, key, func(ctx context.Context) (V, error) {
		computed.Store(true)
		v, err := cache.Guard(ctx, fn)
		var pe *cache.PanicError
		if err != nil && !errors.As(err, &pe) {
			return v, &callableError{err: err}
		}
		return v, err
	})
	if err != nil {
		var (
			ce *callableError
			pe *cache.PanicError
		)
		switch {
		case errors.As(err, &ce):
			return zero, ce.err
		case computed.Load() && errors.As(err, &pe):
			// re-raised on the caller's goroutine whichever goroutine the backend ran fn on
			panic(pe.Value)
		case isContextError(ctx, err):
			return zero, err
		default:
			return zero, m.fault(key, err)
		}
	}

	if computed.Load() {
		m.reporter.ReportMiss()
		m.logger.Debug("memoized value computed", zap.Any("key", key))
	} else {
		m.reporter.ReportHit()
	}
	return value, nil
}

func (m *memoizer[K, V]) fault(key K, err error) error {
	m.reporter.ReportFault()
	m.logger.Warn("memoization backend failed", zap.Any("key", key), zap.Error(err))
	return &MemoizationError{Key: key, Cause: err}
}

// isContextError reports whether err is the caller's own cancellation.
func isContextError(ctx context.Context, err error) bool {
	return ctx.Err() != nil && errors.Is(err, ctx.Err())
}

func typeName[T any]() string {
	return reflect.TypeOf((*T)(nil)).Elem().String()
}
