package record

import (
	"encoding/binary"
	"errors"
	"math"
	"time"
)

// AppendValue encodes a Value into its compact binary form and appends it to
// dst. The layout is a kind byte followed by a kind-specific payload with
// uvarint length framing.
func AppendValue(dst []byte, v Value) ([]byte, error) {
	dst = append(dst, byte(v.Kind))

	switch v.Kind {
	case KindInt:
		dst = binary.AppendVarint(dst, v.I64)
	case KindFloat:
		dst = binary.LittleEndian.AppendUint64(dst, math.Float64bits(v.F64))
	case KindString:
		dst = binary.AppendUvarint(dst, uint64(len(v.S)))
		dst = append(dst, v.S...)
	case KindBool:
		if v.B {
			dst = append(dst, 1)
		} else {
			dst = append(dst, 0)
		}
	case KindTimestamp:
		if v.T.IsZero() {
			// Zero timestamps round-trip exactly; UnixNano is undefined for them.
			dst = append(dst, 0)
		} else {
			dst = append(dst, 1)
			dst = binary.AppendVarint(dst, v.T.UnixNano())
		}
	case KindBytes:
		dst = binary.AppendUvarint(dst, uint64(len(v.Y)))
		dst = append(dst, v.Y...)
	case KindArray:
		dst = binary.AppendUvarint(dst, uint64(len(v.A)))
		for _, item := range v.A {
			var err error
			dst, err = AppendValue(dst, item)
			if err != nil {
				return nil, err
			}
		}
	case KindObject:
		dst = binary.AppendUvarint(dst, uint64(len(v.O)))
		for k, item := range v.O {
			dst = binary.AppendUvarint(dst, uint64(len(k)))
			dst = append(dst, k...)
			var err error
			dst, err = AppendValue(dst, item)
			if err != nil {
				return nil, err
			}
		}
	default:
		return nil, errors.New("unknown value kind")
	}
	return dst, nil
}

// ParseValue decodes a Value from data, returning the remaining bytes.
func ParseValue(data []byte) (Value, []byte, error) {
	if len(data) == 0 {
		return Value{}, nil, errors.New("short buffer for value kind")
	}
	kind := Kind(data[0])
	data = data[1:]

	var v Value
	v.Kind = kind

	switch kind {
	case KindInt:
		i, n := binary.Varint(data)
		if n <= 0 {
			return v, nil, errors.New("invalid int value")
		}
		v.I64 = i
		data = data[n:]
	case KindFloat:
		if len(data) < 8 {
			return v, nil, errors.New("short buffer for float")
		}
		v.F64 = math.Float64frombits(binary.LittleEndian.Uint64(data))
		data = data[8:]
	case KindString:
		s, rest, err := parseLenPrefixed(data)
		if err != nil {
			return v, nil, err
		}
		v.S = string(s)
		data = rest
	case KindBool:
		if len(data) == 0 {
			return v, nil, errors.New("short buffer for bool")
		}
		v.B = data[0] != 0
		data = data[1:]
	case KindTimestamp:
		if len(data) == 0 {
			return v, nil, errors.New("short buffer for timestamp")
		}
		present := data[0] != 0
		data = data[1:]
		if present {
			ns, n := binary.Varint(data)
			if n <= 0 {
				return v, nil, errors.New("invalid timestamp value")
			}
			v.T = time.Unix(0, ns).UTC()
			data = data[n:]
		}
	case KindBytes:
		b, rest, err := parseLenPrefixed(data)
		if err != nil {
			return v, nil, err
		}
		v.Y = append([]byte(nil), b...)
		data = rest
	case KindArray:
		count, n := binary.Uvarint(data)
		if n <= 0 {
			return v, nil, errors.New("invalid array length")
		}
		data = data[n:]
		v.A = make([]Value, count)
		for i := range v.A {
			item, rest, err := ParseValue(data)
			if err != nil {
				return v, nil, err
			}
			v.A[i] = item
			data = rest
		}
	case KindObject:
		count, n := binary.Uvarint(data)
		if n <= 0 {
			return v, nil, errors.New("invalid object length")
		}
		data = data[n:]
		v.O = make(map[string]Value, count)
		for range count {
			key, rest, err := parseLenPrefixed(data)
			if err != nil {
				return v, nil, err
			}
			item, rest, err := ParseValue(rest)
			if err != nil {
				return v, nil, err
			}
			v.O[string(key)] = item
			data = rest
		}
	default:
		return v, nil, errors.New("unknown value kind")
	}
	return v, data, nil
}

// AppendRecord encodes a record into its compact binary form.
func AppendRecord(dst []byte, r Record) ([]byte, error) {
	dst = binary.AppendUvarint(dst, uint64(len(r)))
	for k, v := range r {
		dst = binary.AppendUvarint(dst, uint64(len(k)))
		dst = append(dst, k...)
		var err error
		dst, err = AppendValue(dst, v)
		if err != nil {
			return nil, err
		}
	}
	return dst, nil
}

// ParseRecord decodes a record from data, returning the remaining bytes.
func ParseRecord(data []byte) (Record, []byte, error) {
	count, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, nil, errors.New("invalid record length")
	}
	data = data[n:]

	r := make(Record, count)
	for range count {
		key, rest, err := parseLenPrefixed(data)
		if err != nil {
			return nil, nil, err
		}
		v, rest, err := ParseValue(rest)
		if err != nil {
			return nil, nil, err
		}
		r[string(key)] = v
		data = rest
	}
	return r, data, nil
}

// AppendSchema encodes a schema into its compact binary form.
func AppendSchema(dst []byte, s Schema) []byte {
	dst = binary.AppendUvarint(dst, uint64(len(s)))
	for k, kind := range s {
		dst = binary.AppendUvarint(dst, uint64(len(k)))
		dst = append(dst, k...)
		dst = append(dst, byte(kind))
	}
	return dst
}

// ParseSchema decodes a schema from data, returning the remaining bytes.
func ParseSchema(data []byte) (Schema, []byte, error) {
	count, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, nil, errors.New("invalid schema length")
	}
	data = data[n:]

	s := make(Schema, count)
	for range count {
		key, rest, err := parseLenPrefixed(data)
		if err != nil {
			return nil, nil, err
		}
		if len(rest) == 0 {
			return nil, nil, errors.New("short buffer for schema kind")
		}
		s[string(key)] = Kind(rest[0])
		data = rest[1:]
	}
	return s, data, nil
}

func parseLenPrefixed(data []byte) ([]byte, []byte, error) {
	l, n := binary.Uvarint(data)
	if n <= 0 {
		return nil, nil, errors.New("invalid length prefix")
	}
	data = data[n:]
	if uint64(len(data)) < l {
		return nil, nil, errors.New("short buffer")
	}
	return data[:l], data[l:], nil
}
