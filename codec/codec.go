// Package codec centralizes snapshot payload encoding.
//
// Two encodings exist: a compact schema-driven binary layout and a UTF-8
// JSON fallback of the identical logical structure. The two are
// distinguishable unambiguously on decode because JSON payloads start with
// the character '{' while binary payloads start with a magic byte that can
// never be '{'.
package codec

import "fmt"

// Codec encodes/decodes snapshot payloads.
// Implementations must be safe for concurrent use.
type Codec interface {
	Marshal(v any) ([]byte, error)
	Unmarshal(data []byte, v any) error
	Name() string
}

// ByName returns a built-in codec by its stable name.
func ByName(name string) (Codec, bool) {
	switch name {
	case "json":
		return JSON{}, true
	case "jsonv2":
		return JSONv2{}, true
	case "binary":
		return Binary{}, true
	default:
		return nil, false
	}
}

// Detect picks the decode path for persisted bytes: payloads beginning with
// '{' are the text encoding, everything else is binary.
func Detect(data []byte) Codec {
	if len(data) > 0 && data[0] == '{' {
		return Default
	}
	return Binary{}
}

// MustMarshal is a helper for internal tests.
func MustMarshal(c Codec, v any) []byte {
	if c == nil {
		c = Default
	}
	b, err := c.Marshal(v)
	if err != nil {
		panic(fmt.Errorf("codec %s marshal failed: %w", c.Name(), err))
	}
	return b
}
