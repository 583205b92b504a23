package keys

import (
	"math"
	"testing"
)

func TestDefaultSupplierKey(t *testing.T) {
	if DefaultSupplierKey() != "SUPPLIED" {
		t.Errorf("expected SUPPLIED, got %q", DefaultSupplierKey())
	}
	if Constant(42)() != 42 {
		t.Error("Constant should always return its key")
	}
}

func TestPairOf(t *testing.T) {
	a := PairOf("ab", "c")
	b := PairOf("a", "bc")
	if a == b {
		t.Error("pairs with different fields must differ")
	}
	if PairOf("x", 1) != (Pair[string, int]{First: "x", Second: 1}) {
		t.Error("PairOf should fill First and Second")
	}

	seen := map[Pair[string, int]]bool{PairOf("x", 1): true}
	if !seen[PairOf("x", 1)] {
		t.Error("equal pairs must map to the same entry")
	}
}

func TestConcat(t *testing.T) {
	tests := []struct {
		name   string
		first  any
		second any
		want   string
	}{
		{name: "string and float", first: "test", second: 123.456, want: "test123.456"},
		{name: "ints", first: 1, second: 23, want: "123"},
		{name: "whole float", first: "v", second: 2.0, want: "v2"},
		{name: "nil", first: nil, second: "x", want: "nilx"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Concat(tt.first, tt.second); got != tt.want {
				t.Errorf("Concat() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestHash(t *testing.T) {
	if Hash("test", 123.456) != Hash("test", 123.456) {
		t.Error("Hash must be deterministic")
	}
	if Hash("ab", "c") == Hash("a", "bc") {
		t.Error("length prefixes should separate the arguments")
	}
}

func TestFloat64(t *testing.T) {
	tests := []struct {
		name string
		a, b float64
		same bool
	}{
		{name: "nan", a: math.NaN(), b: math.Float64frombits(0x7ff8000000000002), same: true},
		{name: "signed zero", a: 0, b: math.Copysign(0, -1), same: true},
		{name: "distinct", a: 1.5, b: 2.5, same: false},
		{name: "equal", a: 0.1, b: 0.1, same: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Float64(tt.a) == Float64(tt.b); got != tt.same {
				t.Errorf("Float64(%v) == Float64(%v) is %v, want %v", tt.a, tt.b, got, tt.same)
			}
		})
	}

	if Float32(float32(math.NaN())) != Float64(math.NaN()) {
		t.Error("Float32 should fold NaN like Float64")
	}
}
