package memoize

import (
	"errors"

	"github.com/goliatone/go-memoize/cache"
	"github.com/goliatone/go-memoize/distcache"
)

// Backend describes the cache a memoizer builds for itself when none is supplied.
type Backend interface {
	backend()
}

type mapBackend struct{}

type boundedBackend struct {
	cfg cache.Config
}

type distributedBackend struct {
	store distcache.Store
	opts  []distcache.Option
}

func (mapBackend) backend()         {}
func (boundedBackend) backend()     {}
func (distributedBackend) backend() {}

// MapBackend builds an unbounded cache.MapCache. It is the default.
func MapBackend() Backend {
	return mapBackend{}
}

// BoundedBackend builds a sturdyc backed cache.BoundedCache per memoizer.
func BoundedBackend(cfg cache.Config) Backend {
	return boundedBackend{cfg: cfg}
}

// DistributedBackend builds a distcache.Cache over store. The memoizer's name is used
// as namespace unless opts set one; construction fails with ErrMissingName when
// neither is given.
func DistributedBackend(store distcache.Store, opts ...distcache.Option) Backend {
	return distributedBackend{store: store, opts: opts}
}

func newCache[K comparable, V any](s settings) (cache.Cache[K, V], error) {
	switch b := s.backend.(type) {
	case boundedBackend:
		c, err := cache.NewBoundedCache[K, V](b.cfg, s.name, s.serializer)
		if err != nil {
			return nil, err
		}
		return c, nil
	case distributedBackend:
		opts := append([]distcache.Option{
			distcache.WithNamespace(s.name),
			distcache.WithKeySerializer(s.serializer),
		}, b.opts...)
		c, err := distcache.New[K, V](b.store, opts...)
		if errors.Is(err, distcache.ErrNamespaceRequired) {
			return nil, missingName()
		}
		if err != nil {
			return nil, err
		}
		return c, nil
	default:
		return cache.NewMapCache[K, V](), nil
	}
}
