package cache

import (
	"math"
	"strings"
	"testing"
)

type keyStruct struct {
	Name   string
	Count  int
	hidden string
}

func TestDefaultKeySerializer_BasicTypes(t *testing.T) {
	serializer := NewDefaultKeySerializer()

	tests := []struct {
		name      string
		namespace string
		args      []any
		want      string
	}{
		{name: "no args", namespace: "users", args: nil, want: "users"},
		{name: "string", namespace: "users", args: []any{"123"}, want: "users::123"},
		{name: "int", namespace: "users", args: []any{42}, want: "users::42"},
		{name: "bool", namespace: "flags", args: []any{true}, want: "flags::true"},
		{name: "mixed", namespace: "list", args: []any{"user", 10, true}, want: "list::user::10::true"},
		{name: "no namespace", namespace: "", args: []any{"a", "b"}, want: "a::b"},
		{name: "bytes", namespace: "", args: []any{[]byte("hi")}, want: `bytes:"hi"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := serializer.SerializeKey(tt.namespace, tt.args...)
			if got != tt.want {
				t.Errorf("SerializeKey() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_Floats(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "decimal", in: 123.456, want: "123.456"},
		{name: "whole number matches int", in: 1.0, want: "1"},
		{name: "float32", in: float32(0.5), want: "0.5"},
		{name: "negative zero", in: math.Copysign(0, -1), want: "0"},
		{name: "nan", in: math.NaN(), want: "NaN"},
		{name: "infinity", in: math.Inf(1), want: "+Inf"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SerializeValue(tt.in); got != tt.want {
				t.Errorf("SerializeValue(%v) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_NilValues(t *testing.T) {
	var nilPtr *keyStruct
	var nilSlice []string
	var nilMap map[string]int

	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "nil", in: nil, want: "nil"},
		{name: "nil pointer", in: nilPtr, want: "nil"},
		{name: "nil slice", in: nilSlice, want: "slice:nil"},
		{name: "nil map", in: nilMap, want: "map:nil"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SerializeValue(tt.in); got != tt.want {
				t.Errorf("SerializeValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_Collections(t *testing.T) {
	tests := []struct {
		name string
		in   any
		want string
	}{
		{name: "slice", in: []string{"a", "b"}, want: `slice[2]:{"a","b"}`},
		{name: "empty slice", in: []int{}, want: "slice[0]:{}"},
		{name: "array", in: [2]int{1, 2}, want: "array[2]:{1,2}"},
		{name: "map sorted", in: map[string]int{"b": 2, "a": 1}, want: `map[2]:{"a"=1,"b"=2}`},
		{name: "struct fields", in: keyStruct{Name: "n", Count: 3, hidden: "x"}, want: `struct:{Name:"n",Count:3,hidden:"x"}`},
		{name: "pointer to struct", in: &keyStruct{Name: "p"}, want: `struct:{Name:"p",Count:0,hidden:""}`},
		{name: "nested bytes", in: struct{ Raw []byte }{Raw: []byte("a,b")}, want: `struct:{Raw:bytes:"a,b"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := SerializeValue(tt.in); got != tt.want {
				t.Errorf("SerializeValue() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDefaultKeySerializer_DistinctKeys(t *testing.T) {
	type point struct{ x, y int }
	type pair struct {
		First  string
		Second string
	}

	tests := []struct {
		name string
		a, b any
	}{
		{name: "unexported fields", a: point{1, 2}, b: point{10, 20}},
		{name: "separator in struct field", a: pair{"a", "b,Second:c"}, b: pair{"a,Second:b", "c"}},
		{name: "separator in slice element", a: []string{"a,b"}, b: []string{"a", "b"}},
		{name: "separator in map key", a: map[string]string{"a=b": "c"}, b: map[string]string{"a": "b=c"}},
		{name: "quote in string", a: []string{`a","b`}, b: []string{"a", "b"}},
		{name: "unexported string fields", a: struct{ s string }{"x"}, b: struct{ s string }{"y"}},
	}

	serializer := NewDefaultKeySerializer()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a := serializer.SerializeKey("ns", tt.a)
			b := serializer.SerializeKey("ns", tt.b)
			if a == b {
				t.Errorf("distinct keys share the serialized form %q", a)
			}
		})
	}
}

func TestDefaultKeySerializer_Functions(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	testFunc := func() {}

	key1 := serializer.SerializeKey("fn", testFunc)
	key2 := serializer.SerializeKey("fn", testFunc)

	if key1 != key2 {
		t.Errorf("function keys should be stable within a process: %q != %q", key1, key2)
	}
	if !strings.HasPrefix(key1, "fn::func:") {
		t.Errorf("unexpected function key %q", key1)
	}
}

func TestDefaultKeySerializer_Stability(t *testing.T) {
	serializer := NewDefaultKeySerializer()
	args := []any{"a", 1, map[string]int{"z": 26, "y": 25, "x": 24}}

	first := serializer.SerializeKey("stable", args...)
	for i := 0; i < 20; i++ {
		if got := serializer.SerializeKey("stable", args...); got != first {
			t.Fatalf("serialization is not deterministic: %q != %q", got, first)
		}
	}
}

func TestDefaultKeySerializer_Channels(t *testing.T) {
	ch := make(chan int)
	key := SerializeValue(ch)
	if !strings.HasPrefix(key, "chan:") {
		t.Errorf("expected a chan prefix, got %q", key)
	}
}

func BenchmarkDefaultKeySerializer(b *testing.B) {
	serializer := NewDefaultKeySerializer()
	args := []any{"user-123", 42, keyStruct{Name: "bench", Count: 1}}

	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		serializer.SerializeKey("bench", args...)
	}
}
