// Package keys holds the stateless key functions memoizers use by default, plus a few
// alternatives for callers who need a different key shape.
package keys

import (
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/goliatone/go-memoize/cache"
)

// Supplied is the key a zero argument memoizer stores its single value under.
const Supplied = "SUPPLIED"

// DefaultSupplierKey returns Supplied.
func DefaultSupplierKey() string {
	return Supplied
}

// Identity uses the argument itself as the key.
func Identity[T comparable](in T) T {
	return in
}

// Constant returns a key supplier that always yields key.
func Constant[K comparable](key K) func() K {
	return func() K {
		return key
	}
}

// Pair is a composite key for two argument calls. Two pairs are equal when both
// fields are equal, so distinct argument pairs never share a key.
type Pair[T, U comparable] struct {
	First  T
	Second U
}

// PairOf is the default two argument key function.
func PairOf[T, U comparable](first T, second U) Pair[T, U] {
	return Pair[T, U]{First: first, Second: second}
}

// Concat renders both arguments with the default serializer and joins them without a
// delimiter, e.g. ("test", 123.456) becomes "test123.456". Distinct pairs can collide
// ("ab", "c" and "a", "bc"); prefer PairOf unless a readable string key is wanted.
func Concat[T, U any](first T, second U) string {
	return cache.SerializeValue(first) + cache.SerializeValue(second)
}

// Hash reduces both arguments to a 64 bit xxhash of their serialized forms. The
// arguments are length prefixed, so the split between them is never ambiguous, but
// two different pairs can still hash to the same value and then share a cache entry.
func Hash[T, U any](first T, second U) uint64 {
	d := xxhash.New()
	writeSegment(d, cache.SerializeValue(first))
	writeSegment(d, cache.SerializeValue(second))
	return d.Sum64()
}

func writeSegment(d *xxhash.Digest, segment string) {
	var size [8]byte
	n := uint64(len(segment))
	for i := range size {
		size[i] = byte(n >> (8 * i))
	}
	_, _ = d.Write(size[:])
	_, _ = d.WriteString(segment)
}

// canonicalNaN is the bit pattern every NaN is folded into.
const canonicalNaN = 0x7ff8000000000001

// Float64 maps a float to a key that is safe in a map: every NaN becomes the same key
// and -0 shares the key of +0. Using a float64 directly as a key would never hit for NaN.
func Float64(in float64) uint64 {
	switch {
	case math.IsNaN(in):
		return canonicalNaN
	case in == 0:
		return 0
	}
	return math.Float64bits(in)
}

// Float32 is Float64 for float32 arguments.
func Float32(in float32) uint64 {
	return Float64(float64(in))
}
