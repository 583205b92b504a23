package cache

import (
	"fmt"
	"math"
	"reflect"
	"sort"
	"strconv"
	"strings"
)

// KeySeparator defines the delimiter used between cache key segments.
const KeySeparator = "::"

// defaultKeySerializer implements KeySerializer using reflection-based serialization.
// Equal keys always produce equal strings, and keys differing in any field, element
// or string content produce different ones. Numbers are rendered by value so that
// int 1 and float64 1 map to the same segment.
type defaultKeySerializer struct{}

// NewDefaultKeySerializer creates a new instance of the default key serializer.
func NewDefaultKeySerializer() KeySerializer {
	return &defaultKeySerializer{}
}

// SerializeKey joins the namespace and every serialized part with KeySeparator.
// An empty namespace is omitted.
func (s *defaultKeySerializer) SerializeKey(namespace string, parts ...any) string {
	segments := make([]string, 0, len(parts)+1)
	if namespace != "" {
		segments = append(segments, namespace)
	}

	for _, part := range parts {
		segments = append(segments, s.serializeValue(part))
	}

	return strings.Join(segments, KeySeparator)
}

// SerializeValue renders a single value with the default rules. Key functions use it
// to build composite keys without a namespace.
func SerializeValue(v any) string {
	return (&defaultKeySerializer{}).serializeValue(v)
}

func (s *defaultKeySerializer) serializeValue(v any) string {
	if v == nil {
		return "nil"
	}
	return s.serialize(reflect.ValueOf(v), false)
}

// serialize renders rv. Strings nested inside composites are quoted so separators
// they contain cannot be mistaken for the composite's own. Unexported fields are
// read through reflect, never through Interface.
func (s *defaultKeySerializer) serialize(rv reflect.Value, nested bool) string {
	switch rv.Kind() {
	case reflect.Invalid:
		return "nil"
	case reflect.String:
		if nested {
			return strconv.Quote(rv.String())
		}
		return rv.String()
	case reflect.Bool:
		return strconv.FormatBool(rv.Bool())
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return strconv.FormatInt(rv.Int(), 10)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return strconv.FormatUint(rv.Uint(), 10)
	case reflect.Float32, reflect.Float64:
		return formatFloat(rv.Float(), rv.Type().Bits())
	case reflect.Complex64, reflect.Complex128:
		return strconv.FormatComplex(rv.Complex(), 'g', -1, rv.Type().Bits())
	case reflect.Func:
		// stable within a single process only
		return "func:" + pointer(rv)
	case reflect.Chan:
		return "chan:" + pointer(rv)
	case reflect.UnsafePointer:
		return "unsafe:" + pointer(rv)
	case reflect.Ptr:
		if rv.IsNil() {
			return "nil"
		}
		return s.serialize(rv.Elem(), nested)
	case reflect.Interface:
		if rv.IsNil() {
			return "interface:nil"
		}
		return s.serialize(rv.Elem(), nested)
	case reflect.Slice:
		if rv.IsNil() {
			return "slice:nil"
		}
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return "bytes:" + strconv.Quote(string(rv.Bytes()))
		}
		return s.serializeList("slice", rv)
	case reflect.Array:
		return s.serializeList("array", rv)
	case reflect.Map:
		if rv.IsNil() {
			return "map:nil"
		}
		return s.serializeMap(rv)
	case reflect.Struct:
		return s.serializeStruct(rv)
	}

	return fmt.Sprintf("%v", rv)
}

func (s *defaultKeySerializer) serializeList(kind string, rv reflect.Value) string {
	length := rv.Len()
	parts := make([]string, length)

	for i := 0; i < length; i++ {
		parts[i] = s.serialize(rv.Index(i), true)
	}

	return fmt.Sprintf("%s[%d]:{%s}", kind, length, strings.Join(parts, ","))
}

// serializeMap renders entries sorted by their serialized key.
func (s *defaultKeySerializer) serializeMap(rv reflect.Value) string {
	pairs := make([]string, 0, rv.Len())

	iter := rv.MapRange()
	for iter.Next() {
		key := s.serialize(iter.Key(), true)
		value := s.serialize(iter.Value(), true)
		pairs = append(pairs, key+"="+value)
	}
	sort.Strings(pairs)

	return fmt.Sprintf("map[%d]:{%s}", len(pairs), strings.Join(pairs, ","))
}

// serializeStruct renders every field, exported or not, by name.
func (s *defaultKeySerializer) serializeStruct(rv reflect.Value) string {
	rt := rv.Type()
	numFields := rv.NumField()
	parts := make([]string, 0, numFields)

	for i := 0; i < numFields; i++ {
		parts = append(parts, rt.Field(i).Name+":"+s.serialize(rv.Field(i), true))
	}

	return fmt.Sprintf("struct:{%s}", strings.Join(parts, ","))
}

func pointer(rv reflect.Value) string {
	return "0x" + strconv.FormatUint(uint64(rv.Pointer()), 16)
}

// formatFloat uses the shortest representation and folds -0 into 0.
func formatFloat(f float64, bits int) string {
	switch {
	case math.IsNaN(f):
		return "NaN"
	case f == 0:
		return "0"
	}
	return strconv.FormatFloat(f, 'g', -1, bits)
}
