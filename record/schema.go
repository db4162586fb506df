package record

import "fmt"

// IDField is the reserved field carrying a record's unique identifier.
const IDField = "_id"

// Record is a typed document: field name → Value.
type Record map[string]Value

// ID returns the record's identifier, or empty string if not yet assigned.
func (r Record) ID() string {
	v, ok := r[IDField]
	if !ok {
		return ""
	}
	return v.S
}

// Clone creates a deep copy of the record.
//
// This is the safe default to prevent external mutation after insert.
func (r Record) Clone() Record {
	if r == nil {
		return nil
	}
	clone := make(Record, len(r))
	for k, v := range r {
		clone[k] = v.Clone()
	}
	return clone
}

// Schema declares the required fields of a collection and their kinds.
type Schema map[string]Kind

// MissingFieldError reports a record lacking a field the schema requires.
type MissingFieldError struct {
	Field string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("missing required field %q", e.Field)
}

// KindMismatchError reports a field value whose kind does not satisfy the
// schema's declared kind.
type KindMismatchError struct {
	Field string
	Want  Kind
	Got   Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("field %q has kind %s, schema requires %s", e.Field, e.Got, e.Want)
}

// Validate checks the record against the schema. Every declared field must
// be present with a compatible kind; an int is accepted where a float is
// declared. Fields outside the schema (including the reserved id) pass
// through unchecked.
func (s Schema) Validate(r Record) error {
	for field, want := range s {
		v, ok := r[field]
		if !ok {
			return &MissingFieldError{Field: field}
		}
		if !kindSatisfies(v.Kind, want) {
			return &KindMismatchError{Field: field, Want: want, Got: v.Kind}
		}
	}
	return nil
}

// Clone returns a copy of the schema.
func (s Schema) Clone() Schema {
	if s == nil {
		return nil
	}
	clone := make(Schema, len(s))
	for k, v := range s {
		clone[k] = v
	}
	return clone
}

// Equal reports whether two schemas declare the same fields with the same
// kinds.
func (s Schema) Equal(other Schema) bool {
	if len(s) != len(other) {
		return false
	}
	for k, v := range s {
		if other[k] != v {
			return false
		}
	}
	return true
}

func kindSatisfies(got, want Kind) bool {
	if got == want {
		return true
	}
	// Allow upgrading Int to Float.
	return want == KindFloat && got == KindInt
}
