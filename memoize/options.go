package memoize

import (
	"github.com/goliatone/go-memoize/cache"
	"go.uber.org/zap"
)

type settings struct {
	name       string
	logger     *zap.Logger
	reporter   Reporter
	backend    Backend
	serializer cache.KeySerializer

	cache          any
	cacheSet       bool
	precomputed    any
	precomputedSet bool
}

func newSettings(opts []Option) settings {
	s := settings{
		logger:     zap.NewNop(),
		reporter:   nopReporter{},
		backend:    MapBackend(),
		serializer: cache.NewDefaultKeySerializer(),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// Option configures a memoizer at construction time.
type Option func(*settings)

// WithCache makes the memoizer use c instead of building a cache from its backend.
// c must implement cache.Cache for the memoizer's key and value types, and for
// consumers the value type is the key type. The caller keeps ownership of c and may
// inspect or share it.
func WithCache(c any) Option {
	return func(s *settings) {
		s.cache = c
		s.cacheSet = true
	}
}

// WithPrecomputed seeds the cache with values before the first call.
func WithPrecomputed[K comparable, V any](values map[K]V) Option {
	return func(s *settings) {
		s.precomputed = values
		s.precomputedSet = true
	}
}

// WithBackend selects how the default cache is built. Ignored when WithCache is set.
func WithBackend(backend Backend) Option {
	return func(s *settings) {
		if backend != nil {
			s.backend = backend
		}
	}
}

// WithName names the memoizer in logs and namespaces its keys in shared backends.
func WithName(name string) Option {
	return func(s *settings) {
		s.name = name
	}
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *settings) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithReporter sets the hit/miss/fault reporter.
func WithReporter(reporter Reporter) Option {
	return func(s *settings) {
		if reporter != nil {
			s.reporter = reporter
		}
	}
}

// WithKeySerializer sets how keys are turned into strings by backends that store
// string keys (bounded and distributed).
func WithKeySerializer(serializer cache.KeySerializer) Option {
	return func(s *settings) {
		if serializer != nil {
			s.serializer = serializer
		}
	}
}
