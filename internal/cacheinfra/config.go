package cacheinfra

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/viccon/sturdyc"
)

// Config holds the configuration for the sturdyc backed bounded cache.
type Config struct {
	// Capacity defines the maximum number of entries that the cache can store.
	// Must be greater than 0.
	Capacity int

	// NumShards determines the number of cache shards for concurrent access.
	// Higher values improve concurrency but increase memory overhead.
	// Must be greater than 0. Default: 256
	NumShards int

	// TTL is how long a memoized value is kept before it expires and the wrapped
	// function runs again for that key. Must be greater than 0.
	TTL time.Duration

	// EvictionPercentage specifies what percentage of entries to evict
	// when the cache reaches its capacity. Must be between 1-100.
	// Default: 10 (evict 10% of entries)
	EvictionPercentage int

	// EvictionInterval sets how often the cache checks for expired entries.
	// Zero value uses the default interval.
	EvictionInterval time.Duration
}

// DefaultConfig returns a Config with sensible defaults for memoization.
func DefaultConfig() Config {
	return Config{
		Capacity:           10000,
		NumShards:          256,
		TTL:                24 * time.Hour,
		EvictionPercentage: 10,
		EvictionInterval:   0, // Use default
	}
}

// ToSturdycOptions converts the optional parts of Config to sturdyc options.
// Capacity, NumShards, TTL and EvictionPercentage go straight to sturdyc.New.
func (c Config) ToSturdycOptions() []sturdyc.Option {
	var options []sturdyc.Option

	if c.EvictionInterval > 0 {
		options = append(options, sturdyc.WithEvictionInterval(c.EvictionInterval))
	}

	return options
}

// Validate checks if the configuration values are valid.
func (c Config) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.Capacity, validation.Required, validation.Min(1)),
		validation.Field(&c.NumShards, validation.Required, validation.Min(1)),
		validation.Field(&c.TTL, validation.Required, validation.Min(time.Nanosecond)),
		validation.Field(&c.EvictionPercentage, validation.Required, validation.Min(1), validation.Max(100)),
		validation.Field(&c.EvictionInterval, validation.Min(time.Duration(0))),
	)
}

// AdmissionConfig configures the ristretto backed admission cache.
type AdmissionConfig struct {
	// NumCounters is the number of keys whose access frequency is tracked.
	// Ristretto recommends ten times the expected number of entries.
	NumCounters int64

	// MaxCost bounds the cache. Every memoized entry costs 1, so this is the
	// maximum number of entries.
	MaxCost int64

	// BufferItems is the size of ristretto's Get buffers. 64 is the recommended value.
	BufferItems int64
}

// DefaultAdmissionConfig returns an AdmissionConfig sized for 10k entries.
func DefaultAdmissionConfig() AdmissionConfig {
	return AdmissionConfig{
		NumCounters: 100000,
		MaxCost:     10000,
		BufferItems: 64,
	}
}

// Validate checks if the configuration values are valid.
func (c AdmissionConfig) Validate() error {
	return validation.ValidateStruct(&c,
		validation.Field(&c.NumCounters, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.MaxCost, validation.Required, validation.Min(int64(1))),
		validation.Field(&c.BufferItems, validation.Required, validation.Min(int64(1))),
	)
}
