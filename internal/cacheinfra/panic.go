package cacheinfra

import (
	"context"
	"errors"
	"fmt"
)

// ErrComputePanicked matches every PanicError.
var ErrComputePanicked = errors.New("cache: fetch function panicked")

// PanicError carries the value a fetch function panicked with.
type PanicError struct {
	Value any
}

// Error implements the error interface.
func (e *PanicError) Error() string {
	return fmt.Sprintf("cache: fetch function panicked: %v", e.Value)
}

// Is matches ErrComputePanicked.
func (e *PanicError) Is(target error) bool {
	return target == ErrComputePanicked
}

// Guard runs fn and turns a panic into a *PanicError. Backends that run fetch
// functions on a goroutine of their own use it, since a panic there would take the
// whole process down instead of reaching the caller.
func Guard[V any](ctx context.Context, fn func(context.Context) (V, error)) (value V, err error) {
	defer func() {
		if r := recover(); r != nil {
			var zero V
			value, err = zero, &PanicError{Value: r}
		}
	}()
	return fn(ctx)
}
