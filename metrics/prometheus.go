// Package metrics exports memoizer hit, miss and fault counts to Prometheus.
package metrics

import (
	"errors"
	"fmt"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/prometheus/client_golang/prometheus"
)

// DefaultNamespace prefixes every metric registered by this package.
const DefaultNamespace = "memoize"

// Collector holds the counter vectors shared by all reporters on one registry.
type Collector struct {
	calls *prometheus.CounterVec
}

// NewCollector registers the memoize counters on reg. Registering twice on the same
// registry reuses the existing collector.
func NewCollector(reg prometheus.Registerer, namespace string) (*Collector, error) {
	if err := validation.Validate(reg, validation.NotNil); err != nil {
		return nil, fmt.Errorf("metrics: registerer %w", err)
	}
	if namespace == "" {
		namespace = DefaultNamespace
	}

	calls := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: MetricName(namespace),
		Name:      "calls_total",
		Help:      "Memoized calls by memoizer and outcome (hit, miss, fault).",
	}, []string{"memoizer", "outcome"})

	if err := reg.Register(calls); err != nil {
		var already prometheus.AlreadyRegisteredError
		if !errors.As(err, &already) {
			return nil, fmt.Errorf("metrics: register calls_total: %w", err)
		}
		existing, ok := already.ExistingCollector.(*prometheus.CounterVec)
		if !ok {
			return nil, fmt.Errorf("metrics: calls_total registered with another type: %w", err)
		}
		calls = existing
	}

	return &Collector{calls: calls}, nil
}

// Reporter returns a reporter for the memoizer called name. It satisfies
// memoize.Reporter.
func (c *Collector) Reporter(name string) *PrometheusReporter {
	label := MetricName(name)
	if label == "" {
		label = "unnamed"
	}
	return &PrometheusReporter{
		hits:   c.calls.WithLabelValues(label, "hit"),
		misses: c.calls.WithLabelValues(label, "miss"),
		faults: c.calls.WithLabelValues(label, "fault"),
	}
}

// PrometheusReporter counts the outcomes of one memoizer.
type PrometheusReporter struct {
	hits   prometheus.Counter
	misses prometheus.Counter
	faults prometheus.Counter
}

// ReportHit counts a call answered from the cache.
func (r *PrometheusReporter) ReportHit() { r.hits.Inc() }

// ReportMiss counts a call that ran the wrapped callable.
func (r *PrometheusReporter) ReportMiss() { r.misses.Inc() }

// ReportFault counts a backend failure.
func (r *PrometheusReporter) ReportFault() { r.faults.Inc() }
