package memoize

import (
	"errors"
	"fmt"
)

var (
	// ErrMemoizationFailed matches every MemoizationError.
	ErrMemoizationFailed = errors.New("memoization failed")

	// ErrNilCallable is returned when the function to memoize is nil.
	ErrNilCallable = errors.New("nil callable")
	// ErrNilKeyFunction is returned when the key function is nil.
	ErrNilKeyFunction = errors.New("nil key function")
	// ErrNilCache is returned when WithCache is given a nil cache.
	ErrNilCache = errors.New("nil cache")
	// ErrNilPrecomputed is returned when WithPrecomputed is given a nil map.
	ErrNilPrecomputed = errors.New("nil precomputed values")
	// ErrCacheType is returned when a supplied cache or map does not fit the memoizer's
	// key and value types.
	ErrCacheType = errors.New("cache type mismatch")
	// ErrMissingName is returned when a backend shared between memoizers is chosen
	// without WithName.
	ErrMissingName = errors.New("missing memoizer name")
)

// ArgumentError reports a missing or unusable constructor argument.
type ArgumentError struct {
	Argument string
	Message  string
	kind     error
}

// Error implements the error interface.
func (e *ArgumentError) Error() string {
	return "memoize: invalid " + e.Argument + ": " + e.Message
}

// Unwrap exposes the sentinel describing the kind of violation.
func (e *ArgumentError) Unwrap() error {
	return e.kind
}

func nilCallable(shape string) error {
	return &ArgumentError{
		Argument: "callable",
		Message:  fmt.Sprintf("cannot memoize a nil %s - provide an actual %s to fix this", shape, shape),
		kind:     ErrNilCallable,
	}
}

func nilKeyFunction(suggestion string) error {
	return &ArgumentError{
		Argument: "key function",
		Message:  "provide a key function, might just be " + suggestion,
		kind:     ErrNilKeyFunction,
	}
}

func nilCache() error {
	return &ArgumentError{
		Argument: "cache",
		Message:  "provide a cache instance instead of nil, or drop WithCache to use the default backend",
		kind:     ErrNilCache,
	}
}

func nilPrecomputed() error {
	return &ArgumentError{
		Argument: "precomputed values",
		Message:  "provide an empty map instead of nil",
		kind:     ErrNilPrecomputed,
	}
}

func missingName() error {
	return &ArgumentError{
		Argument: "name",
		Message:  "memoizers sharing a distributed store are kept apart by name, set one with WithName",
		kind:     ErrMissingName,
	}
}

func cacheTypeMismatch(argument string, got any, want string) error {
	return &ArgumentError{
		Argument: argument,
		Message:  fmt.Sprintf("%T does not implement %s", got, want),
		kind:     ErrCacheType,
	}
}

// MemoizationError wraps a backend failure met while looking up or storing a value.
// Errors returned by the memoized function itself are never wrapped.
type MemoizationError struct {
	Key   any
	Cause error
}

// Error implements the error interface.
func (e *MemoizationError) Error() string {
	return fmt.Sprintf("memoization failed for key %v: %v", e.Key, e.Cause)
}

// Unwrap matches both ErrMemoizationFailed and the cause.
func (e *MemoizationError) Unwrap() []error {
	return []error{ErrMemoizationFailed, e.Cause}
}

// callableError tags errors produced by the memoized function on their way through
// a backend, so they can be told apart from backend failures.
type callableError struct {
	err error
}

func (e *callableError) Error() string {
	return e.err.Error()
}

func (e *callableError) Unwrap() error {
	return e.err
}
