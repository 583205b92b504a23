package cache

import (
	"fmt"
	"time"

	"github.com/goliatone/go-memoize/internal/cacheinfra"
	"gopkg.in/yaml.v3"
)

// Config exposes the bounded cache configuration to consumers of the cache package.
type Config struct {
	Capacity           int           `yaml:"capacity"`
	NumShards          int           `yaml:"num_shards"`
	TTL                time.Duration `yaml:"ttl"`
	EvictionPercentage int           `yaml:"eviction_percentage"`
	EvictionInterval   time.Duration `yaml:"eviction_interval"`
}

// DefaultConfig returns a Config populated with sensible defaults.
func DefaultConfig() Config {
	return convertFromInternal(cacheinfra.DefaultConfig())
}

// Validate checks whether the configuration values are valid.
func (c Config) Validate() error {
	return c.toInternal().Validate()
}

// ParseConfig reads a YAML document on top of DefaultConfig and validates the result.
// Durations use Go syntax, e.g. "30m".
func ParseConfig(data []byte) (Config, error) {
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse cache config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) toInternal() cacheinfra.Config {
	return cacheinfra.Config{
		Capacity:           c.Capacity,
		NumShards:          c.NumShards,
		TTL:                c.TTL,
		EvictionPercentage: c.EvictionPercentage,
		EvictionInterval:   c.EvictionInterval,
	}
}

func convertFromInternal(cfg cacheinfra.Config) Config {
	return Config{
		Capacity:           cfg.Capacity,
		NumShards:          cfg.NumShards,
		TTL:                cfg.TTL,
		EvictionPercentage: cfg.EvictionPercentage,
		EvictionInterval:   cfg.EvictionInterval,
	}
}

// AdmissionConfig exposes the ristretto admission cache configuration.
type AdmissionConfig struct {
	NumCounters int64 `yaml:"num_counters"`
	MaxCost     int64 `yaml:"max_cost"`
	BufferItems int64 `yaml:"buffer_items"`
}

// DefaultAdmissionConfig returns an AdmissionConfig sized for 10k entries.
func DefaultAdmissionConfig() AdmissionConfig {
	cfg := cacheinfra.DefaultAdmissionConfig()
	return AdmissionConfig{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
	}
}

// Validate checks whether the configuration values are valid.
func (c AdmissionConfig) Validate() error {
	return c.toInternal().Validate()
}

func (c AdmissionConfig) toInternal() cacheinfra.AdmissionConfig {
	return cacheinfra.AdmissionConfig{
		NumCounters: c.NumCounters,
		MaxCost:     c.MaxCost,
		BufferItems: c.BufferItems,
	}
}
