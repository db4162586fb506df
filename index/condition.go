package index

import (
	"errors"
	"fmt"
	"regexp"

	"github.com/hupe1980/lattice/record"
)

// Op identifies the form of a query condition.
type Op uint8

const (
	// OpEq matches records whose field equals a literal value.
	OpEq Op = iota
	// OpRange matches records whose field lies in [Lo, Hi].
	OpRange
	// OpRegex matches records whose string field matches a pattern
	// (unanchored search).
	OpRegex
	// OpPrefix matches records whose string field starts with a prefix.
	OpPrefix
	// OpIn matches records whose field equals any of a list of values.
	OpIn
	// OpNot matches records whose field does not equal a value.
	OpNot
)

var (
	// ErrAmbiguousCondition is returned when a condition map supplies more
	// than one recognized form.
	ErrAmbiguousCondition = errors.New("ambiguous condition: multiple forms supplied")
	// ErrUnknownCondition is returned when a condition map supplies no
	// recognized form.
	ErrUnknownCondition = errors.New("unknown condition form")
)

// Condition is a closed query condition variant. Construct via Eq, Range,
// Regex, Prefix, In, Not or ParseConditionMap.
type Condition struct {
	Op      Op
	Value   record.Value   // Eq, Not
	Lo, Hi  record.Value   // Range
	Pattern string         // Regex, Prefix
	Values  []record.Value // In

	re *regexp.Regexp
}

// Eq matches field values equal to v.
func Eq(v record.Value) Condition { return Condition{Op: OpEq, Value: v} }

// Range matches field values in [lo, hi], both inclusive.
func Range(lo, hi record.Value) Condition { return Condition{Op: OpRange, Lo: lo, Hi: hi} }

// Regex matches string field values containing a match of pattern. The
// pattern is compiled at construction time.
func Regex(pattern string) (Condition, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return Condition{}, fmt.Errorf("invalid regex condition: %w", err)
	}
	return Condition{Op: OpRegex, Pattern: pattern, re: re}, nil
}

// Prefix matches string field values starting with p.
func Prefix(p string) Condition { return Condition{Op: OpPrefix, Pattern: p} }

// In matches field values equal to any of vs.
func In(vs ...record.Value) Condition { return Condition{Op: OpIn, Values: vs} }

// Not matches field values different from v, within the full position
// universe.
func Not(v record.Value) Condition { return Condition{Op: OpNot, Value: v} }

// Conditions maps field names to their conditions. A field name absent from
// the schema contributes an empty match set, never an error.
type Conditions map[string]Condition

// ParseConditionMap builds a Condition from its wire form: either a literal
// value (equality) or a single-keyword map such as {"range": [lo, hi]},
// {"regex": pattern}, {"prefix": p}, {"in": [v1, v2]}, {"not": v}.
//
// Supplying more than one recognized keyword is a construction-time error
// rather than a silent pick.
func ParseConditionMap(raw any) (Condition, error) {
	m, ok := raw.(map[string]any)
	if !ok {
		v, err := record.FromAny(raw)
		if err != nil {
			return Condition{}, err
		}
		return Eq(v), nil
	}

	var (
		cond  Condition
		forms int
	)

	if rv, ok := m["range"]; ok {
		forms++
		bounds, ok := rv.([]any)
		if !ok || len(bounds) != 2 {
			return Condition{}, fmt.Errorf("range condition requires [lo, hi], got %v", rv)
		}
		lo, err := record.FromAny(bounds[0])
		if err != nil {
			return Condition{}, err
		}
		hi, err := record.FromAny(bounds[1])
		if err != nil {
			return Condition{}, err
		}
		cond = Range(lo, hi)
	}
	if rv, ok := m["regex"]; ok {
		forms++
		pattern, ok := rv.(string)
		if !ok {
			return Condition{}, fmt.Errorf("regex condition requires a string pattern, got %T", rv)
		}
		c, err := Regex(pattern)
		if err != nil {
			return Condition{}, err
		}
		cond = c
	}
	if rv, ok := m["prefix"]; ok {
		forms++
		p, ok := rv.(string)
		if !ok {
			return Condition{}, fmt.Errorf("prefix condition requires a string, got %T", rv)
		}
		cond = Prefix(p)
	}
	if rv, ok := m["in"]; ok {
		forms++
		items, ok := rv.([]any)
		if !ok {
			return Condition{}, fmt.Errorf("in condition requires a list, got %T", rv)
		}
		vs := make([]record.Value, len(items))
		for i, item := range items {
			v, err := record.FromAny(item)
			if err != nil {
				return Condition{}, err
			}
			vs[i] = v
		}
		cond = In(vs...)
	}
	if rv, ok := m["not"]; ok {
		forms++
		v, err := record.FromAny(rv)
		if err != nil {
			return Condition{}, err
		}
		cond = Not(v)
	}

	switch forms {
	case 0:
		return Condition{}, fmt.Errorf("%w: %v", ErrUnknownCondition, m)
	case 1:
		return cond, nil
	default:
		return Condition{}, fmt.Errorf("%w: %v", ErrAmbiguousCondition, m)
	}
}
