package di

import (
	"github.com/goliatone/go-memoize/cache"
	"github.com/goliatone/go-memoize/distcache"
	"github.com/goliatone/go-memoize/memoize"
	"github.com/goliatone/go-memoize/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

// Container holds the shared dependencies of the memoizers an application builds:
// one logger, one metrics collector, one key serializer and the backend every
// memoizer should default to.
type Container struct {
	logger     *zap.Logger
	collector  *metrics.Collector
	serializer cache.KeySerializer
	config     cache.Config
	store      distcache.Store
	registerer prometheus.Registerer
}

// ContainerOption configures a Container.
type ContainerOption func(*Container)

// WithLogger sets the logger handed to every memoizer.
func WithLogger(logger *zap.Logger) ContainerOption {
	return func(c *Container) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// WithStore makes memoizers default to a distributed backend over store instead of
// a bounded in-process cache.
func WithStore(store distcache.Store) ContainerOption {
	return func(c *Container) {
		c.store = store
	}
}

// WithRegisterer registers memoizer metrics on reg.
func WithRegisterer(reg prometheus.Registerer) ContainerOption {
	return func(c *Container) {
		c.registerer = reg
	}
}

// NewContainer creates a container whose memoizers default to a bounded cache
// configured by config.
func NewContainer(config cache.Config, opts ...ContainerOption) (*Container, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	c := &Container{
		logger:     zap.NewNop(),
		serializer: cache.NewDefaultKeySerializer(),
		config:     config,
	}
	for _, opt := range opts {
		opt(c)
	}

	if c.registerer != nil {
		collector, err := metrics.NewCollector(c.registerer, metrics.DefaultNamespace)
		if err != nil {
			return nil, err
		}
		c.collector = collector
	}
	return c, nil
}

// NewContainerWithDefaults creates a container using cache.DefaultConfig.
func NewContainerWithDefaults(opts ...ContainerOption) (*Container, error) {
	return NewContainer(cache.DefaultConfig(), opts...)
}

// Logger returns the shared logger.
func (c *Container) Logger() *zap.Logger {
	return c.logger
}

// KeySerializer returns the shared key serializer.
func (c *Container) KeySerializer() cache.KeySerializer {
	return c.serializer
}

// Config returns the bounded cache configuration.
func (c *Container) Config() cache.Config {
	return c.config
}

// Backend returns the backend memoizers built from this container default to.
func (c *Container) Backend() memoize.Backend {
	if c.store != nil {
		return memoize.DistributedBackend(c.store)
	}
	return memoize.BoundedBackend(c.config)
}

// Options returns the memoize options for a memoizer called name. extra options are
// applied last and win over the container defaults.
//
// Example:
//
//	lookup, err := memoize.NewFunction(loadUser, container.Options("users")...)
func (c *Container) Options(name string, extra ...memoize.Option) []memoize.Option {
	opts := []memoize.Option{
		memoize.WithName(name),
		memoize.WithLogger(c.logger),
		memoize.WithKeySerializer(c.serializer),
		memoize.WithBackend(c.Backend()),
	}
	if c.collector != nil {
		opts = append(opts, memoize.WithReporter(c.collector.Reporter(name)))
	}
	return append(opts, extra...)
}
