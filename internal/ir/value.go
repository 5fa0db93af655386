package ir

import (
	"encoding"
	"fmt"
	"math"
	"reflect"
	"slices"
	"unicode/utf16"
)

// IRValue is a sealed interface representing constrained value types.
// Only IRString, IRInt, IRBool, IRArray, and IRObject implement this.
type IRValue interface {
	irValue() // Sealed - only these types implement it
}

// IRString represents a string value in the IR.
type IRString string

func (IRString) irValue() {}

// IRInt represents an integer value in the IR.
// Always int64, never float64.
type IRInt int64

func (IRInt) irValue() {}

// IRBool represents a boolean value in the IR.
type IRBool bool

func (IRBool) irValue() {}

// IRArray represents an array of IRValue elements.
type IRArray []IRValue

func (IRArray) irValue() {}

// IRObject represents a map of string keys to IRValue elements.
// MarshalCanonical writes keys in RFC 8785 order.
type IRObject map[string]IRValue

func (IRObject) irValue() {}

// compareUTF16 orders strings by UTF-16 code units as RFC 8785 requires.
// Go's string comparison uses UTF-8 byte order, which differs for
// characters outside the Basic Multilingual Plane.
func compareUTF16(a, b string) int {
	a16 := utf16.Encode([]rune(a))
	b16 := utf16.Encode([]rune(b))
	return slices.Compare(a16, b16)
}

// FromGo converts a scalar Go value to an IRValue.
//
// Booleans, integers and strings (including named types over them) map
// directly. Values implementing fmt.Stringer or encoding.TextMarshaler are
// encoded as their text form, so a uuid.UUID becomes an IRString.
// Floats are rejected; callers that need them choose a textual form.
func FromGo(v any) (IRValue, error) {
	switch val := v.(type) {
	case nil:
		return nil, fmt.Errorf("null is forbidden in IR")
	case IRValue:
		return val, nil
	case encoding.TextMarshaler:
		text, err := val.MarshalText()
		if err != nil {
			return nil, fmt.Errorf("marshal %T as text: %w", v, err)
		}
		return IRString(text), nil
	case fmt.Stringer:
		return IRString(val.String()), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Bool:
		return IRBool(rv.Bool()), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return IRInt(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return nil, fmt.Errorf("unsigned value %d overflows int64", u)
		}
		return IRInt(int64(u)), nil
	case reflect.String:
		return IRString(rv.String()), nil
	case reflect.Float32, reflect.Float64:
		return nil, fmt.Errorf("floats are forbidden in IR: %v", v)
	default:
		return nil, fmt.Errorf("unsupported type for IR: %T", v)
	}
}
