// Package evolution implements schema-evolution analysis and per-record
// migration for lattice collections.
//
// Evolve classifies the transition between two schemas and decides
// compatibility against a fixed allow-list of widening coercions.
// MigrateRecord is a pure function transforming one record from the old
// schema's representation to the new one; migrating a collection is
// all-or-nothing and handled by the owning database.
package evolution

import (
	"fmt"

	"github.com/hupe1980/lattice/record"
)

// FieldChange describes one field's transition between schema versions.
type FieldChange struct {
	Name    string      `json:"name"`
	OldKind record.Kind `json:"old_kind,omitempty"`
	NewKind record.Kind `json:"new_kind,omitempty"`
}

// Info summarizes a schema transition.
type Info struct {
	Added      []FieldChange `json:"added_fields"`
	Removed    []FieldChange `json:"removed_fields"`
	Changed    []FieldChange `json:"changed_types"`
	Compatible bool          `json:"compatible"`
}

// Empty reports whether the transition changes nothing.
func (i *Info) Empty() bool {
	return len(i.Added) == 0 && len(i.Removed) == 0 && len(i.Changed) == 0
}

// coercions is the allow-list of widening type transitions. A type change
// outside this list makes the evolution incompatible.
var coercions = map[record.Kind][]record.Kind{
	record.KindInt:       {record.KindFloat, record.KindString},
	record.KindFloat:     {record.KindString},
	record.KindBool:      {record.KindInt, record.KindString},
	record.KindTimestamp: {record.KindInt, record.KindString},
}

// CanCoerce reports whether values of kind from can always be widened to
// kind to.
func CanCoerce(from, to record.Kind) bool {
	if from == to {
		return true
	}
	for _, k := range coercions[from] {
		if k == to {
			return true
		}
	}
	return false
}

// Evolve classifies every field present in old ∪ new as added, removed,
// type-changed or unchanged. The evolved schema equals new; removed fields
// detach their prior constraint entirely, so dropping a field and re-adding
// it later with any type is compatible. Added and removed fields never block
// compatibility; only a type change outside the coercion allow-list does.
func Evolve(old, new record.Schema) (record.Schema, *Info) {
	info := &Info{Compatible: true}

	for name, kind := range new {
		if _, ok := old[name]; !ok {
			info.Added = append(info.Added, FieldChange{Name: name, NewKind: kind})
		}
	}
	for name, kind := range old {
		newKind, ok := new[name]
		switch {
		case !ok:
			info.Removed = append(info.Removed, FieldChange{Name: name, OldKind: kind})
		case newKind != kind:
			info.Changed = append(info.Changed, FieldChange{Name: name, OldKind: kind, NewKind: newKind})
			if !CanCoerce(kind, newKind) {
				info.Compatible = false
			}
		}
	}

	return new.Clone(), info
}

// MigrationError reports a record value that could not be coerced during
// migration.
type MigrationError struct {
	Field string
	From  record.Kind
	To    record.Kind
	Cause error
}

func (e *MigrationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cannot migrate field %q from %s to %s: %v", e.Field, e.From, e.To, e.Cause)
	}
	return fmt.Sprintf("cannot migrate field %q from %s to %s", e.Field, e.From, e.To)
}

func (e *MigrationError) Unwrap() error { return e.Cause }
