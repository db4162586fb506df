package index

import (
	"fmt"

	"github.com/RoaringBitmap/roaring/v2"

	"github.com/hupe1980/lattice/record"
)

// CollectionIndex maintains a FieldIndex per schema field plus one for the
// reserved id field, and evaluates condition maps against them.
type CollectionIndex struct {
	schema record.Schema
	fields map[string]*FieldIndex
	size   uint32
}

// New creates an empty index for the given schema.
func New(schema record.Schema) *CollectionIndex {
	ci := &CollectionIndex{
		schema: schema,
		fields: make(map[string]*FieldIndex, len(schema)+1),
	}
	for field, kind := range schema {
		ci.fields[field] = NewFieldIndex(field, kind)
	}
	// The id field is always indexed so lookups by id use the same path as
	// any other equality query.
	if _, ok := ci.fields[record.IDField]; !ok {
		ci.fields[record.IDField] = NewFieldIndex(record.IDField, record.KindString)
	}
	return ci
}

// Len returns the number of indexed records (the position universe size).
func (ci *CollectionIndex) Len() int { return int(ci.size) }

// AddRecord appends a record's field values at the given position.
// Positions must be assigned strictly increasing with no gaps; anything else
// means the caller mutated history and must Rebuild instead.
func (ci *CollectionIndex) AddRecord(pos uint32, rec record.Record) error {
	if pos != ci.size {
		return fmt.Errorf("append-only index: expected position %d, got %d", ci.size, pos)
	}
	for field, fi := range ci.fields {
		v, ok := rec[field]
		if !ok {
			// Schema validation runs before indexing; an absent value here
			// can only be a missing id on a not-yet-assigned record.
			v = record.Default(fi.kind)
		}
		fi.Add(pos, v)
	}
	ci.size++
	return nil
}

// Rebuild discards all structures and re-indexes the full record sequence.
// Required after any update or delete.
func (ci *CollectionIndex) Rebuild(records []record.Record) error {
	fresh := New(ci.schema)
	for i, rec := range records {
		if err := fresh.AddRecord(uint32(i), rec); err != nil {
			return err
		}
	}
	*ci = *fresh
	return nil
}

// Build constructs the succinct encodings for every field. Queries work
// without it; structural lookups build lazily when needed.
func (ci *CollectionIndex) Build() error {
	for _, fi := range ci.fields {
		if err := fi.Build(); err != nil {
			return err
		}
	}
	return nil
}

// Field returns the index of a single field, or nil if not indexed.
func (ci *CollectionIndex) Field(name string) *FieldIndex {
	return ci.fields[name]
}

// Universe returns the full position set [0, Len).
func (ci *CollectionIndex) Universe() *roaring.Bitmap {
	u := roaring.New()
	if ci.size > 0 {
		u.AddRange(0, uint64(ci.size))
	}
	return u
}

// QueryAnd returns the positions matching every condition. An empty
// condition map matches every position.
func (ci *CollectionIndex) QueryAnd(conds Conditions) *roaring.Bitmap {
	if len(conds) == 0 {
		return ci.Universe()
	}
	var result *roaring.Bitmap
	for field, cond := range conds {
		set := ci.evaluate(field, cond)
		if result == nil {
			result = set
			continue
		}
		result.And(set)
		if result.IsEmpty() {
			break
		}
	}
	return result
}

// QueryOr returns the positions matching any condition. An empty condition
// map matches nothing: the union of no sets is empty, unlike QueryAnd's
// identity.
func (ci *CollectionIndex) QueryOr(conds Conditions) *roaring.Bitmap {
	result := roaring.New()
	for field, cond := range conds {
		result.Or(ci.evaluate(field, cond))
	}
	return result
}

// evaluate resolves one field condition to a position set. Unknown fields
// yield the empty set; "no match" is a valid, not exceptional, outcome.
func (ci *CollectionIndex) evaluate(field string, cond Condition) *roaring.Bitmap {
	fi, ok := ci.fields[field]
	if !ok {
		return roaring.New()
	}
	switch cond.Op {
	case OpEq:
		return fi.lookup(cond.Value).Clone()
	case OpRange:
		return fi.lookupRange(cond.Lo, cond.Hi)
	case OpRegex:
		re := cond.re
		if re == nil {
			// Condition built without the constructor; treat an invalid
			// pattern as matching nothing.
			c, err := Regex(cond.Pattern)
			if err != nil {
				return roaring.New()
			}
			re = c.re
		}
		return fi.lookupRegex(re)
	case OpPrefix:
		return fi.lookupPrefix(cond.Pattern)
	case OpIn:
		return fi.lookupIn(cond.Values)
	case OpNot:
		return fi.lookupNot(cond.Value, ci.Universe())
	default:
		return roaring.New()
	}
}
