package codec

import (
	"encoding/json"

	jsonv2 "github.com/go-json-experiment/json"
)

// JSON is the standard-library JSON codec. It is the most portable option
// and produces the text fallback encoding (leading '{').
type JSON struct{}

// Marshal encodes the value to JSON.
func (JSON) Marshal(v any) ([]byte, error) { return json.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSON) Unmarshal(data []byte, v any) error { return json.Unmarshal(data, v) }

// Name returns the unique name of the codec ("json").
func (JSON) Name() string { return "json" }

// JSONv2 is a JSON codec backed by github.com/go-json-experiment/json. It
// produces the same logical text encoding as JSON with a faster
// implementation.
type JSONv2 struct{}

// Marshal encodes the value to JSON.
func (JSONv2) Marshal(v any) ([]byte, error) { return jsonv2.Marshal(v) }

// Unmarshal decodes the JSON data into v.
func (JSONv2) Unmarshal(data []byte, v any) error { return jsonv2.Unmarshal(data, v) }

// Name returns the unique name of the codec ("jsonv2").
func (JSONv2) Name() string { return "jsonv2" }

// Default is the codec used for the text encoding when none is configured.
var Default Codec = JSON{}
