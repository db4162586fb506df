package record

import (
	"bytes"
	"encoding/hex"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
	"time"
)

// Kind identifies the concrete type stored in a Value.
type Kind uint8

const (
	// KindInvalid represents an invalid kind.
	KindInvalid Kind = iota
	// KindInt represents an integer value.
	KindInt
	// KindFloat represents a float value.
	KindFloat
	// KindString represents a string value.
	KindString
	// KindBool represents a boolean value.
	KindBool
	// KindTimestamp represents a point-in-time value.
	KindTimestamp
	// KindBytes represents a raw byte slice value.
	KindBytes
	// KindArray represents an array value.
	KindArray
	// KindObject represents a nested object value.
	KindObject
)

// String returns the schema type-tag name of the kind.
func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindBool:
		return "bool"
	case KindTimestamp:
		return "timestamp"
	case KindBytes:
		return "bytes"
	case KindArray:
		return "array"
	case KindObject:
		return "object"
	default:
		return "invalid"
	}
}

// ParseKind maps a schema type-tag name to its Kind.
func ParseKind(s string) (Kind, error) {
	switch s {
	case "int":
		return KindInt, nil
	case "float":
		return KindFloat, nil
	case "string":
		return KindString, nil
	case "bool":
		return KindBool, nil
	case "timestamp":
		return KindTimestamp, nil
	case "bytes":
		return KindBytes, nil
	case "array":
		return KindArray, nil
	case "object":
		return KindObject, nil
	default:
		return KindInvalid, fmt.Errorf("unknown type tag %q", s)
	}
}

// MarshalText implements encoding.TextMarshaler so schemas serialize with
// readable type-tag names.
func (k Kind) MarshalText() ([]byte, error) {
	if k == KindInvalid {
		return nil, fmt.Errorf("cannot marshal invalid kind")
	}
	return []byte(k.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (k *Kind) UnmarshalText(text []byte) error {
	parsed, err := ParseKind(string(text))
	if err != nil {
		return err
	}
	*k = parsed
	return nil
}

// Orderable reports whether values of this kind participate in the sorted
// order structure of a field index (range and prefix queries).
func (k Kind) Orderable() bool {
	switch k {
	case KindInt, KindFloat, KindTimestamp, KindString:
		return true
	default:
		return false
	}
}

// Value is a small typed value used for record fields and query conditions.
//
// NOTE: This is also used for persistence; keep the layout stable.
type Value struct {
	Kind Kind             `json:"k"`
	I64  int64            `json:"i,omitempty"`
	F64  float64          `json:"f,omitempty"`
	S    string           `json:"s,omitempty"`
	B    bool             `json:"b,omitempty"`
	T    time.Time        `json:"t,omitzero"`
	Y    []byte           `json:"y,omitempty"`
	A    []Value          `json:"a,omitempty"`
	O    map[string]Value `json:"o,omitempty"`
}

// Int returns an int64 Value.
func Int(v int64) Value { return Value{Kind: KindInt, I64: v} }

// Float returns a float64 Value.
func Float(v float64) Value { return Value{Kind: KindFloat, F64: v} }

// String returns a string Value.
func String(v string) Value { return Value{Kind: KindString, S: v} }

// Bool returns a boolean Value.
func Bool(v bool) Value { return Value{Kind: KindBool, B: v} }

// Timestamp returns a timestamp Value.
func Timestamp(v time.Time) Value { return Value{Kind: KindTimestamp, T: v} }

// Bytes returns a raw bytes Value.
func Bytes(v []byte) Value { return Value{Kind: KindBytes, Y: v} }

// Array returns an array Value.
func Array(v ...Value) Value { return Value{Kind: KindArray, A: v} }

// Object returns a nested object Value.
func Object(v map[string]Value) Value { return Value{Kind: KindObject, O: v} }

// Default returns the documented default value for a kind: 0 for numeric
// kinds, empty string, false, the zero timestamp and empty bytes, array and
// object.
func Default(k Kind) Value {
	switch k {
	case KindInt:
		return Int(0)
	case KindFloat:
		return Float(0)
	case KindString:
		return String("")
	case KindBool:
		return Bool(false)
	case KindTimestamp:
		return Timestamp(time.Time{})
	case KindBytes:
		return Bytes([]byte{})
	case KindArray:
		return Value{Kind: KindArray, A: []Value{}}
	case KindObject:
		return Object(map[string]Value{})
	default:
		return Value{}
	}
}

// AsInt64 returns the int64 value if Kind is KindInt.
func (v Value) AsInt64() (int64, bool) {
	if v.Kind != KindInt {
		return 0, false
	}
	return v.I64, true
}

// AsFloat64 returns the float64 value if Kind is KindFloat.
func (v Value) AsFloat64() (float64, bool) {
	if v.Kind != KindFloat {
		return 0, false
	}
	return v.F64, true
}

// AsString returns the string value if Kind is KindString.
func (v Value) AsString() (string, bool) {
	if v.Kind != KindString {
		return "", false
	}
	return v.S, true
}

// AsBool returns the boolean value if Kind is KindBool.
func (v Value) AsBool() (bool, bool) {
	if v.Kind != KindBool {
		return false, false
	}
	return v.B, true
}

// AsTime returns the timestamp value if Kind is KindTimestamp.
func (v Value) AsTime() (time.Time, bool) {
	if v.Kind != KindTimestamp {
		return time.Time{}, false
	}
	return v.T, true
}

// AsBytes returns the byte slice if Kind is KindBytes.
func (v Value) AsBytes() ([]byte, bool) {
	if v.Kind != KindBytes {
		return nil, false
	}
	return v.Y, true
}

// AsArray returns the array value if Kind is KindArray.
func (v Value) AsArray() ([]Value, bool) {
	if v.Kind != KindArray {
		return nil, false
	}
	return v.A, true
}

// AsObject returns the object value if Kind is KindObject.
func (v Value) AsObject() (map[string]Value, bool) {
	if v.Kind != KindObject {
		return nil, false
	}
	return v.O, true
}

// Key returns a stable string representation for use in posting maps.
//
// It is intended for internal indexing (exact-match buckets) and must remain
// stable across versions for persisted data.
func (v Value) Key() string {
	switch v.Kind {
	case KindInt:
		return "i:" + strconv.FormatInt(v.I64, 10)
	case KindFloat:
		return "f:" + strconv.FormatUint(math.Float64bits(v.F64), 16)
	case KindString:
		return "s:" + v.S
	case KindBool:
		if v.B {
			return "b:1"
		}
		return "b:0"
	case KindTimestamp:
		return "t:" + strconv.FormatInt(v.T.UnixNano(), 10)
	case KindBytes:
		return "y:" + hex.EncodeToString(v.Y)
	case KindArray:
		if len(v.A) == 0 {
			return "a:"
		}
		parts := make([]string, len(v.A))
		for i := range v.A {
			parts[i] = v.A[i].Key()
		}
		return "a:" + strings.Join(parts, "\x1f")
	case KindObject:
		if len(v.O) == 0 {
			return "o:"
		}
		keys := make([]string, 0, len(v.O))
		for k := range v.O {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		parts := make([]string, len(keys))
		for i, k := range keys {
			parts[i] = k + "=" + v.O[k].Key()
		}
		return "o:" + strings.Join(parts, "\x1f")
	default:
		return "invalid"
	}
}

// Equal reports whether two values are equal. Numeric values compare across
// int/float kinds; all other kinds require an exact kind match.
func Equal(a, b Value) bool {
	if isNumber(a) && isNumber(b) {
		if a.Kind == KindInt && b.Kind == KindInt {
			return a.I64 == b.I64
		}
		return asFloat64(a) == asFloat64(b)
	}
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case KindString:
		return a.S == b.S
	case KindBool:
		return a.B == b.B
	case KindTimestamp:
		return a.T.Equal(b.T)
	case KindBytes:
		return bytes.Equal(a.Y, b.Y)
	case KindArray:
		if len(a.A) != len(b.A) {
			return false
		}
		for i := range a.A {
			if !Equal(a.A[i], b.A[i]) {
				return false
			}
		}
		return true
	case KindObject:
		if len(a.O) != len(b.O) {
			return false
		}
		for k, av := range a.O {
			bv, ok := b.O[k]
			if !ok || !Equal(av, bv) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Compare orders two values: negative when a < b, zero when equal, positive
// when a > b. Numeric values compare across int/float kinds; strings and
// bytes compare lexicographically; timestamps chronologically. Values of
// non-orderable kinds fall back to comparing their stable keys so the order
// structure stays total.
func Compare(a, b Value) int {
	if isNumber(a) && isNumber(b) {
		if a.Kind == KindInt && b.Kind == KindInt {
			switch {
			case a.I64 < b.I64:
				return -1
			case a.I64 > b.I64:
				return 1
			default:
				return 0
			}
		}
		af, bf := asFloat64(a), asFloat64(b)
		switch {
		case af < bf:
			return -1
		case af > bf:
			return 1
		default:
			return 0
		}
	}
	if a.Kind == b.Kind {
		switch a.Kind {
		case KindString:
			return strings.Compare(a.S, b.S)
		case KindTimestamp:
			return a.T.Compare(b.T)
		case KindBytes:
			return bytes.Compare(a.Y, b.Y)
		case KindBool:
			switch {
			case a.B == b.B:
				return 0
			case b.B:
				return -1
			default:
				return 1
			}
		}
	}
	return strings.Compare(a.Key(), b.Key())
}

// Clone creates a deep copy of a Value, including nested arrays, objects and
// byte slices.
func (v Value) Clone() Value {
	out := v
	if len(v.Y) > 0 {
		out.Y = append([]byte(nil), v.Y...)
	}
	if len(v.A) > 0 {
		out.A = make([]Value, len(v.A))
		for i := range v.A {
			out.A[i] = v.A[i].Clone()
		}
	}
	if len(v.O) > 0 {
		out.O = make(map[string]Value, len(v.O))
		for k, ov := range v.O {
			out.O[k] = ov.Clone()
		}
	}
	return out
}

func isNumber(v Value) bool {
	return v.Kind == KindInt || v.Kind == KindFloat
}

func asFloat64(v Value) float64 {
	switch v.Kind {
	case KindInt:
		return float64(v.I64)
	case KindFloat:
		return v.F64
	default:
		return 0
	}
}
