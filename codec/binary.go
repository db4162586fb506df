package codec

import (
	"encoding"
	"errors"
	"fmt"
)

// Binary is the compact schema-driven codec. It delegates to the payload's
// own encoding.BinaryMarshaler / encoding.BinaryUnmarshaler implementation,
// which writes a magic prefix distinguishing it from the '{'-led text
// encoding.
type Binary struct{}

// ErrNotBinaryEncodable is returned when a value does not implement the
// binary marshaling interfaces.
var ErrNotBinaryEncodable = errors.New("value does not support binary encoding")

// Marshal encodes the value via its BinaryMarshaler implementation.
func (Binary) Marshal(v any) ([]byte, error) {
	m, ok := v.(encoding.BinaryMarshaler)
	if !ok {
		return nil, fmt.Errorf("%w: %T", ErrNotBinaryEncodable, v)
	}
	return m.MarshalBinary()
}

// Unmarshal decodes the data via the value's BinaryUnmarshaler
// implementation.
func (Binary) Unmarshal(data []byte, v any) error {
	u, ok := v.(encoding.BinaryUnmarshaler)
	if !ok {
		return fmt.Errorf("%w: %T", ErrNotBinaryEncodable, v)
	}
	return u.UnmarshalBinary(data)
}

// Name returns the unique name of the codec ("binary").
func (Binary) Name() string { return "binary" }
