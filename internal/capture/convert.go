package capture

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"

	"github.com/roach88/emit/internal/ir"
)

// ErrFloat is returned when a value contains a floating point number.
// Floats have no canonical form; capture them with #[debug] or convert them.
var ErrFloat = errors.New("floats are not capturable")

// FromGo converts a Go value into an ir.Value.
//
// ir.Value inputs pass through. Errors and fmt.Stringer values become their
// text. Pointers are followed; a nil pointer, interface, slice or map becomes
// Null. Structs, floats, channels and functions are rejected.
func FromGo(raw any) (ir.Value, error) {
	if v, ok := raw.(ir.Value); ok {
		return v, nil
	}
	return fromReflect(reflect.ValueOf(raw), 0)
}

const maxDepth = 64

func fromReflect(rv reflect.Value, depth int) (ir.Value, error) {
	if depth > maxDepth {
		return nil, fmt.Errorf("value nested deeper than %d levels", maxDepth)
	}
	if !rv.IsValid() {
		return ir.Null{}, nil
	}

	if rv.CanInterface() {
		switch v := rv.Interface().(type) {
		case ir.Value:
			return v, nil
		case error:
			if isNil(rv) {
				return ir.Null{}, nil
			}
			return ir.String(v.Error()), nil
		case fmt.Stringer:
			if isNil(rv) {
				return ir.Null{}, nil
			}
			return ir.String(v.String()), nil
		}
	}

	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return ir.Null{}, nil
		}
		return fromReflect(rv.Elem(), depth+1)
	case reflect.String:
		return ir.String(rv.String()), nil
	case reflect.Bool:
		return ir.Bool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return ir.Int(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("integer %d overflows int64", u)
		}
		return ir.Int(int64(u)), nil
	case reflect.Float32, reflect.Float64:
		return nil, ErrFloat
	case reflect.Slice:
		if rv.IsNil() {
			return ir.Null{}, nil
		}
		fallthrough
	case reflect.Array:
		list := make(ir.List, rv.Len())
		for i := range list {
			item, err := fromReflect(rv.Index(i), depth+1)
			if err != nil {
				return nil, fmt.Errorf("[%d]: %w", i, err)
			}
			list[i] = item
		}
		return list, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("map key type %s is not a string", rv.Type().Key())
		}
		if rv.IsNil() {
			return ir.Null{}, nil
		}
		m := make(ir.Map, rv.Len())
		keys := rv.MapKeys()
		sort.Slice(keys, func(i, j int) bool { return keys[i].String() < keys[j].String() })
		for _, k := range keys {
			item, err := fromReflect(rv.MapIndex(k), depth+1)
			if err != nil {
				return nil, fmt.Errorf("[%q]: %w", k.String(), err)
			}
			m[k.String()] = item
		}
		return m, nil
	default:
		return nil, fmt.Errorf("cannot capture %s as a plain value; use #[debug] or #[serde]", rv.Type())
	}
}

func isNil(rv reflect.Value) bool {
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}

// ToGo converts an ir.Value into plain Go data: nil, string, int64, bool,
// []any and map[string]any.
func ToGo(v ir.Value) any {
	switch val := v.(type) {
	case ir.String:
		return string(val)
	case ir.Int:
		return int64(val)
	case ir.Bool:
		return bool(val)
	case ir.List:
		out := make([]any, len(val))
		for i, item := range val {
			out[i] = ToGo(item)
		}
		return out
	case ir.Map:
		out := make(map[string]any, len(val))
		for k, item := range val {
			out[k] = ToGo(item)
		}
		return out
	default:
		return nil
	}
}
