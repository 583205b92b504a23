// Package testsupport holds helpers shared by the memoize test suites: callables
// that count their executions, a gate for holding computations in flight and a
// reporter that records outcomes.
package testsupport

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"
)

// Counter counts executions. The zero value is ready to use.
type Counter struct {
	n atomic.Int64
}

// Inc adds one execution.
func (c *Counter) Inc() {
	c.n.Add(1)
}

// Load returns the number of executions so far.
func (c *Counter) Load() int {
	return int(c.n.Load())
}

// Counting wraps fn so that every execution is counted.
func Counting[V any](fn func(context.Context) (V, error)) (func(context.Context) (V, error), *Counter) {
	counter := &Counter{}
	return func(ctx context.Context) (V, error) {
		counter.Inc()
		return fn(ctx)
	}, counter
}

// Returning is a fetch function that always returns value.
func Returning[V any](value V) func(context.Context) (V, error) {
	return func(context.Context) (V, error) {
		return value, nil
	}
}

// Failing is a fetch function that always returns err.
func Failing[V any](err error) func(context.Context) (V, error) {
	return func(context.Context) (V, error) {
		var zero V
		return zero, err
	}
}

// Gate holds computations in flight until Open is called.
type Gate struct {
	entered chan struct{}
	release chan struct{}
	once    sync.Once
}

// NewGate creates a closed gate.
func NewGate() *Gate {
	return &Gate{
		entered: make(chan struct{}, 1024),
		release: make(chan struct{}),
	}
}

// Wait records that a computation reached the gate and blocks until Open or ctx.
func (g *Gate) Wait(ctx context.Context) error {
	g.entered <- struct{}{}
	select {
	case <-g.release:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Open releases every current and future waiter.
func (g *Gate) Open() {
	g.once.Do(func() { close(g.release) })
}

// AwaitEntered blocks until a computation is waiting at the gate, failing the test
// after a second.
func (g *Gate) AwaitEntered(t *testing.T) {
	t.Helper()
	select {
	case <-g.entered:
	case <-time.After(time.Second):
		t.Fatal("no computation reached the gate")
	}
}

// Blocking is a fetch function that waits at gate and then returns value.
func Blocking[V any](gate *Gate, value V) func(context.Context) (V, error) {
	return func(ctx context.Context) (V, error) {
		if err := gate.Wait(ctx); err != nil {
			var zero V
			return zero, err
		}
		return value, nil
	}
}

// Recorder counts reported hits, misses and faults.
type Recorder struct {
	Hits   Counter
	Misses Counter
	Faults Counter
}

// ReportHit counts a hit.
func (r *Recorder) ReportHit() { r.Hits.Inc() }

// ReportMiss counts a miss.
func (r *Recorder) ReportMiss() { r.Misses.Inc() }

// ReportFault counts a fault.
func (r *Recorder) ReportFault() { r.Faults.Inc() }
