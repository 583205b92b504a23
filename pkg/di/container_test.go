package di

import (
	"strings"
	"testing"
	"time"

	"github.com/goliatone/go-memoize/cache"
	"github.com/goliatone/go-memoize/distcache"
	"github.com/goliatone/go-memoize/memoize"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"
)

func TestNewContainer(t *testing.T) {
	config := cache.Config{
		Capacity:           1000,
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}

	container, err := NewContainer(config)
	if err != nil {
		t.Fatalf("NewContainer() failed: %v", err)
	}

	if container == nil {
		t.Fatal("NewContainer() returned nil container")
	}

	if container.Logger() == nil {
		t.Error("Container should have a non-nil logger")
	}

	if container.KeySerializer() == nil {
		t.Error("Container should have a non-nil key serializer")
	}

	storedConfig := container.Config()
	if storedConfig.Capacity != config.Capacity {
		t.Errorf("Expected capacity %d, got %d", config.Capacity, storedConfig.Capacity)
	}

	if storedConfig.TTL != config.TTL {
		t.Errorf("Expected TTL %v, got %v", config.TTL, storedConfig.TTL)
	}
}

func TestNewContainerWithDefaults(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	config := container.Config()
	defaultConfig := cache.DefaultConfig()

	if config.Capacity != defaultConfig.Capacity {
		t.Errorf("Expected default capacity %d, got %d", defaultConfig.Capacity, config.Capacity)
	}

	if config.TTL != defaultConfig.TTL {
		t.Errorf("Expected default TTL %v, got %v", defaultConfig.TTL, config.TTL)
	}
}

func TestNewContainer_InvalidConfig(t *testing.T) {
	invalidConfig := cache.Config{
		Capacity:           0, // must be > 0
		NumShards:          256,
		TTL:                5 * time.Minute,
		EvictionPercentage: 10,
	}

	_, err := NewContainer(invalidConfig)
	if err == nil {
		t.Error("NewContainer() should fail with invalid config")
	}
}

func TestContainerSingletonBehavior(t *testing.T) {
	logger := zap.NewExample()
	container, err := NewContainerWithDefaults(WithLogger(logger))
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	if container.Logger() != logger {
		t.Error("Logger() should return the configured logger")
	}

	if container.KeySerializer() != container.KeySerializer() {
		t.Error("KeySerializer() should return the same instance")
	}
}

func TestContainerBackend(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}
	bounded := memoize.BoundedBackend(container.Config())
	if container.Backend() != bounded {
		t.Errorf("Expected bounded backend, got %#v", container.Backend())
	}

	store, err := distcache.NewMemoryStore()
	if err != nil {
		t.Fatalf("NewMemoryStore() failed: %v", err)
	}
	withStore, err := NewContainerWithDefaults(WithStore(store))
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}
	if withStore.Backend() == bounded {
		t.Error("Expected distributed backend when a store is configured")
	}
}

func TestContainerOptions(t *testing.T) {
	reg := prometheus.NewRegistry()
	container, err := NewContainerWithDefaults(WithRegisterer(reg))
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	plain, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	if got := len(container.Options("users")); got != 5 {
		t.Errorf("Expected 5 options with metrics, got %d", got)
	}
	if got := len(plain.Options("users")); got != 4 {
		t.Errorf("Expected 4 options without metrics, got %d", got)
	}
	if got := len(plain.Options("users", memoize.WithName("override"))); got != 5 {
		t.Errorf("Expected extra options to be appended, got %d", got)
	}
}

func TestKeySerializerIntegration(t *testing.T) {
	container, err := NewContainerWithDefaults()
	if err != nil {
		t.Fatalf("NewContainerWithDefaults() failed: %v", err)
	}

	keySerializer := container.KeySerializer()

	testCases := []struct {
		name      string
		namespace string
		args      []any
		expected  string
	}{
		{
			name:      "no args",
			namespace: "users",
			args:      []any{},
			expected:  "users",
		},
		{
			name:      "single string arg",
			namespace: "users",
			args:      []any{"123"},
			expected:  "users::123",
		},
		{
			name:      "multiple args",
			namespace: "list",
			args:      []any{"user", 10, true},
			expected:  "list::user::10::true",
		},
		{
			name:      "no namespace",
			namespace: "",
			args:      []any{"123"},
			expected:  "123",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			result := keySerializer.SerializeKey(tc.namespace, tc.args...)
			if result != tc.expected {
				t.Errorf("Expected key %q, got %q", tc.expected, result)
			}
			if strings.Contains(result, "::::") {
				t.Errorf("Key %q has an empty segment", result)
			}
		})
	}
}
