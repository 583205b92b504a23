// Package distcache memoizes into a Store shared between processes.
//
// Values are encoded with a Codec (msgpack by default) together with their typed
// key. Inside one process concurrent computations of a key are collapsed into one;
// across processes the first successful PutIfAbsent wins and every other process
// adopts the stored value, so all callers observe the same result per key.
//
// Store and Codec failures are returned as plain errors; the memoize package turns
// them into MemoizationError.
package distcache

import (
	"context"
	"errors"
	"fmt"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/goliatone/go-memoize/cache"
	"golang.org/x/sync/singleflight"
)

// ErrNamespaceRequired is returned by New when no namespace is configured. Caches
// sharing a Store are told apart by namespace alone, so there is no safe default.
var ErrNamespaceRequired = errors.New("distcache: namespace is required")

// envelope is what a Store holds per key.
type envelope[K comparable, V any] struct {
	Key   K `msgpack:"k"`
	Value V `msgpack:"v"`
}

type result[V any] struct {
	value V
}

type options struct {
	codec      Codec
	serializer cache.KeySerializer
	namespace  string
}

// Option configures a Cache.
type Option func(*options)

// WithCodec replaces the msgpack codec.
func WithCodec(codec Codec) Option {
	return func(o *options) {
		if codec != nil {
			o.codec = codec
		}
	}
}

// WithKeySerializer replaces the default key serializer.
func WithKeySerializer(serializer cache.KeySerializer) Option {
	return func(o *options) {
		if serializer != nil {
			o.serializer = serializer
		}
	}
}

// WithNamespace prefixes every key, letting several memoizers share one Store. It is
// required. Processes that should share entries must use the same namespace.
func WithNamespace(namespace string) Option {
	return func(o *options) {
		o.namespace = namespace
	}
}

// Cache implements cache.Cache on top of a Store.
type Cache[K comparable, V any] struct {
	store      Store
	codec      Codec
	serializer cache.KeySerializer
	namespace  string
	flight     singleflight.Group
}

var (
	_ cache.Cache[string, any]       = (*Cache[string, any])(nil)
	_ cache.Snapshotter[string, any] = (*Cache[string, any])(nil)
)

// New creates a Cache over store. WithNamespace must be among opts.
func New[K comparable, V any](store Store, opts ...Option) (*Cache[K, V], error) {
	if err := validation.Validate(store, validation.NotNil); err != nil {
		return nil, fmt.Errorf("distcache: store %w", err)
	}

	o := options{
		codec:      MsgpackCodec(),
		serializer: cache.NewDefaultKeySerializer(),
	}
	for _, opt := range opts {
		opt(&o)
	}
	if err := validation.Validate(o.namespace, validation.Required); err != nil {
		return nil, ErrNamespaceRequired
	}

	return &Cache[K, V]{
		store:      store,
		codec:      o.codec,
		serializer: o.serializer,
		namespace:  o.namespace,
	}, nil
}

// GetIfPresent implements cache.Cache.
func (c *Cache[K, V]) GetIfPresent(ctx context.Context, key K) (V, bool, error) {
	return c.load(ctx, c.storeKey(key))
}

// ComputeIfAbsent implements cache.Cache.
func (c *Cache[K, V]) ComputeIfAbsent(ctx context.Context, key K, fn cache.FetchFn[V]) (V, error) {
	var zero V
	skey := c.storeKey(key)

	if value, ok, err := c.load(ctx, skey); err != nil {
		return zero, err
	} else if ok {
		return value, nil
	}

	// the flight is shared, so one caller giving up must not cancel it for the others
	flightCtx := context.WithoutCancel(ctx)
	ch := c.flight.DoChan(skey, func() (any, error) {
		ctx := flightCtx
		if value, ok, err := c.load(ctx, skey); err != nil {
			return nil, err
		} else if ok {
			return result[V]{value: value}, nil
		}

		// a panic on the flight goroutine would not reach any caller
		value, err := cache.Guard(ctx, fn)
		if err != nil {
			return nil, err
		}

		data, err := c.codec.Marshal(envelope[K, V]{Key: key, Value: value})
		if err != nil {
			return nil, fmt.Errorf("distcache: encode %q: %w", skey, err)
		}

		stored, err := c.store.PutIfAbsent(ctx, skey, data)
		if err != nil {
			return nil, err
		}
		if stored {
			return result[V]{value: value}, nil
		}

		// another process won the write; everybody uses its value
		winner, ok, err := c.load(ctx, skey)
		if err != nil {
			return nil, err
		}
		if !ok {
			return nil, fmt.Errorf("distcache: %q lost a write race but holds no value", skey)
		}
		return result[V]{value: winner}, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(result[V]).value, nil
	case <-ctx.Done():
		return zero, ctx.Err()
	}
}

// Snapshot implements cache.Snapshotter for the entries under this namespace.
func (c *Cache[K, V]) Snapshot(ctx context.Context) (map[K]V, error) {
	out := make(map[K]V)
	prefix := c.prefix()

	var decodeErr error
	err := c.store.Scan(ctx, func(key string, data []byte) bool {
		if !strings.HasPrefix(key, prefix) {
			return true
		}
		var env envelope[K, V]
		if err := c.codec.Unmarshal(data, &env); err != nil {
			decodeErr = fmt.Errorf("distcache: decode %q: %w", key, err)
			return false
		}
		out[env.Key] = env.Value
		return true
	})
	if err != nil {
		return nil, err
	}
	if decodeErr != nil {
		return nil, decodeErr
	}
	return out, nil
}

func (c *Cache[K, V]) load(ctx context.Context, skey string) (V, bool, error) {
	var zero V
	data, ok, err := c.store.Get(ctx, skey)
	if err != nil || !ok {
		return zero, false, err
	}

	var env envelope[K, V]
	if err := c.codec.Unmarshal(data, &env); err != nil {
		return zero, false, fmt.Errorf("distcache: decode %q: %w", skey, err)
	}
	return env.Value, true, nil
}

func (c *Cache[K, V]) storeKey(key K) string {
	return c.serializer.SerializeKey(c.namespace, key)
}

func (c *Cache[K, V]) prefix() string {
	return c.namespace + cache.KeySeparator
}
