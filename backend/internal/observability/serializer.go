package observability

import (
	"encoding/json"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"
)

const (
	// CircularMarker replaces any composite value whose identity was already
	// visited during the current serialization call.
	CircularMarker = "[Circular Reference]"

	// UnserializableMarker replaces values that have no JSON representation
	// (functions, channels, complex numbers, NaN).
	UnserializableMarker = "[Unserializable]"
)

// RedactFunc decides whether a (key, value) pair is omitted from serialized
// output. Redacted pairs are dropped entirely, not replaced by a placeholder.
type RedactFunc func(key string, value any) bool

// RedactPrefix returns a RedactFunc that omits every key starting with the
// given prefix. An empty prefix redacts nothing.
func RedactPrefix(prefix string) RedactFunc {
	return func(key string, _ any) bool {
		return prefix != "" && strings.HasPrefix(key, prefix)
	}
}

// Serialize converts an arbitrary value into pretty-printed JSON text suitable
// for log output. Reference cycles are broken by substituting CircularMarker
// the second time an identity is encountered; the visited set is scoped to
// this call, so any repeated identity is treated as circular, including
// acyclic diamond sharing. Serialize never panics; if the value cannot be
// rendered at all, the result is the UnserializableMarker as a JSON string.
func Serialize(v any, redact RedactFunc) (out string) {
	defer func() {
		if recover() != nil {
			out = strconv.Quote(UnserializableMarker)
		}
	}()

	if redact == nil {
		redact = func(string, any) bool { return false }
	}

	seen := make(map[identity]struct{})
	tree := sanitize(reflect.ValueOf(v), seen, redact)

	data, err := json.MarshalIndent(tree, "", "  ")
	if err != nil {
		return strconv.Quote(UnserializableMarker)
	}
	return string(data)
}

// identity names a composite value for cycle detection. The type is part of
// the key because a struct and its first field share an address.
type identity struct {
	ptr uintptr
	typ reflect.Type
}

var timeType = reflect.TypeOf(time.Time{})

// sanitize converts v into a tree of JSON-safe values (maps, slices,
// primitives, marker strings).
func sanitize(v reflect.Value, seen map[identity]struct{}, redact RedactFunc) any {
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Interface:
		if v.IsNil() {
			return nil
		}
		return sanitize(v.Elem(), seen, redact)

	case reflect.Pointer:
		if v.IsNil() {
			return nil
		}
		id := identity{ptr: v.Pointer(), typ: v.Type()}
		if _, ok := seen[id]; ok {
			return CircularMarker
		}
		seen[id] = struct{}{}
		return sanitize(v.Elem(), seen, redact)

	case reflect.String:
		return v.String()

	case reflect.Bool:
		return v.Bool()

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return v.Uint()

	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) || math.IsInf(f, 0) {
			return UnserializableMarker
		}
		return f

	case reflect.Slice:
		if v.IsNil() {
			return nil
		}
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return string(v.Bytes())
		}
		id := identity{ptr: v.Pointer(), typ: v.Type()}
		if _, ok := seen[id]; ok {
			return CircularMarker
		}
		seen[id] = struct{}{}
		return sanitizeElements(v, seen, redact)

	case reflect.Array:
		return sanitizeElements(v, seen, redact)

	case reflect.Map:
		if v.IsNil() {
			return nil
		}
		id := identity{ptr: v.Pointer(), typ: v.Type()}
		if _, ok := seen[id]; ok {
			return CircularMarker
		}
		seen[id] = struct{}{}

		out := make(map[string]any, v.Len())
		iter := v.MapRange()
		for iter.Next() {
			key := mapKey(iter.Key())
			val := iter.Value()
			if redact(key, exportable(val)) {
				continue
			}
			out[key] = sanitize(val, seen, redact)
		}
		return out

	case reflect.Struct:
		if v.Type() == timeType {
			return v.Interface().(time.Time).Format(time.RFC3339Nano)
		}
		out := make(map[string]any)
		t := v.Type()
		for i := 0; i < t.NumField(); i++ {
			field := t.Field(i)
			if field.PkgPath != "" {
				continue // unexported
			}
			key := fieldKey(field)
			if key == "" {
				continue
			}
			val := v.Field(i)
			if redact(key, exportable(val)) {
				continue
			}
			out[key] = sanitize(val, seen, redact)
		}
		return out

	default:
		// Func, Chan, Complex64/128, UnsafePointer.
		return UnserializableMarker
	}
}

// sanitizeElements converts the elements of a slice or array. The redaction
// key is the element index, which a prefix-based policy never matches.
func sanitizeElements(v reflect.Value, seen map[identity]struct{}, redact RedactFunc) []any {
	out := make([]any, 0, v.Len())
	for i := 0; i < v.Len(); i++ {
		elem := v.Index(i)
		if redact(strconv.Itoa(i), exportable(elem)) {
			continue
		}
		out = append(out, sanitize(elem, seen, redact))
	}
	return out
}

// fieldKey resolves the output name of a struct field, honoring json tags.
// An empty return means the field is excluded.
func fieldKey(field reflect.StructField) string {
	tag, ok := field.Tag.Lookup("json")
	if !ok {
		return field.Name
	}
	name, _, _ := strings.Cut(tag, ",")
	if name == "-" {
		return ""
	}
	if name == "" {
		return field.Name
	}
	return name
}

func mapKey(k reflect.Value) string {
	if k.Kind() == reflect.String {
		return k.String()
	}
	if k.CanInterface() {
		return fmt.Sprint(k.Interface())
	}
	return fmt.Sprint(k)
}

// exportable returns the value for redaction predicates, or nil when the
// value cannot be read reflectively.
func exportable(v reflect.Value) any {
	if v.IsValid() && v.CanInterface() {
		return v.Interface()
	}
	return nil
}
