package evolution

import (
	"fmt"
	"strconv"
	"time"

	"github.com/hupe1980/lattice/record"
)

// MigrateRecord transforms a record from the old schema's representation to
// the new one. It is pure: the input record is never mutated.
//
// Unchanged fields are copied verbatim, type-changed fields pass through the
// coercion for their (from, to) pair, removed fields are dropped and added
// fields are set to their kind's default. Fields outside both schemas (the
// id included) are carried over untouched, so an unchanged schema migrates
// every record to itself. A value that cannot be coerced fails the whole
// call with a *MigrationError.
func MigrateRecord(rec record.Record, old, new record.Schema) (record.Record, error) {
	out := make(record.Record, len(rec))

	// Only a field the old schema declared and the new one dropped is
	// removed; undeclared fields travel with the record.
	for name, v := range rec {
		_, declaredOld := old[name]
		_, declaredNew := new[name]
		if declaredOld && !declaredNew {
			continue
		}
		if !declaredNew {
			out[name] = v.Clone()
		}
	}

	for name, newKind := range new {
		oldKind, existed := old[name]
		v, present := rec[name]

		switch {
		case !existed || !present:
			out[name] = record.Default(newKind)
		case oldKind == newKind:
			out[name] = v.Clone()
		default:
			coerced, err := Coerce(v, newKind)
			if err != nil {
				return nil, &MigrationError{Field: name, From: oldKind, To: newKind, Cause: err}
			}
			out[name] = coerced
		}
	}

	return out, nil
}

// Coerce converts a value to the target kind. Pairs on the widening
// allow-list always succeed; a few narrowing conversions (string to numeric
// kinds) are attempted and fail when the stored value does not parse.
func Coerce(v record.Value, to record.Kind) (record.Value, error) {
	if v.Kind == to {
		return v.Clone(), nil
	}

	switch v.Kind {
	case record.KindInt:
		switch to {
		case record.KindFloat:
			return record.Float(float64(v.I64)), nil
		case record.KindString:
			return record.String(strconv.FormatInt(v.I64, 10)), nil
		case record.KindBool:
			return record.Bool(v.I64 != 0), nil
		case record.KindTimestamp:
			return record.Timestamp(time.Unix(v.I64, 0).UTC()), nil
		}
	case record.KindFloat:
		switch to {
		case record.KindString:
			return record.String(strconv.FormatFloat(v.F64, 'g', -1, 64)), nil
		case record.KindInt:
			if v.F64 != float64(int64(v.F64)) {
				return record.Value{}, fmt.Errorf("float %v is not an integer", v.F64)
			}
			return record.Int(int64(v.F64)), nil
		}
	case record.KindBool:
		switch to {
		case record.KindInt:
			if v.B {
				return record.Int(1), nil
			}
			return record.Int(0), nil
		case record.KindString:
			return record.String(strconv.FormatBool(v.B)), nil
		}
	case record.KindString:
		switch to {
		case record.KindInt:
			i, err := strconv.ParseInt(v.S, 10, 64)
			if err != nil {
				return record.Value{}, fmt.Errorf("string %q is not an integer", v.S)
			}
			return record.Int(i), nil
		case record.KindFloat:
			f, err := strconv.ParseFloat(v.S, 64)
			if err != nil {
				return record.Value{}, fmt.Errorf("string %q is not a number", v.S)
			}
			return record.Float(f), nil
		case record.KindBool:
			b, err := strconv.ParseBool(v.S)
			if err != nil {
				return record.Value{}, fmt.Errorf("string %q is not a bool", v.S)
			}
			return record.Bool(b), nil
		case record.KindBytes:
			return record.Bytes([]byte(v.S)), nil
		}
	case record.KindTimestamp:
		switch to {
		case record.KindInt:
			return record.Int(v.T.Unix()), nil
		case record.KindString:
			return record.String(v.T.UTC().Format(time.RFC3339Nano)), nil
		}
	case record.KindBytes:
		if to == record.KindString {
			return record.String(string(v.Y)), nil
		}
	}

	return record.Value{}, fmt.Errorf("no conversion from %s to %s", v.Kind, to)
}
