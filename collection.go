package lattice

import (
	"fmt"
	"sort"

	"github.com/google/uuid"

	"github.com/hupe1980/lattice/index"
	"github.com/hupe1980/lattice/record"
)

// QueryMode selects how per-field condition results combine.
type QueryMode string

const (
	// ModeAnd intersects per-field results; an empty condition map matches
	// every record.
	ModeAnd QueryMode = "and"
	// ModeOr unions per-field results; an empty condition map matches
	// nothing.
	ModeOr QueryMode = "or"
)

// Collection is a named, schema-validated sequence of records with a derived
// index. Record positions are insertion-stable while only appends occur; the
// index is extended incrementally on insert and fully rebuilt after update
// or delete.
type Collection struct {
	name    string
	schema  record.Schema
	records []record.Record
	idx     *index.CollectionIndex
	logger  *Logger
}

func newCollection(name string, schema record.Schema, logger *Logger) *Collection {
	return &Collection{
		name:   name,
		schema: schema,
		idx:    index.New(schema),
		logger: logger,
	}
}

// Name returns the collection name.
func (c *Collection) Name() string { return c.name }

// Len returns the number of records.
func (c *Collection) Len() int { return len(c.records) }

// Schema returns a copy of the current schema.
func (c *Collection) Schema() record.Schema { return c.schema.Clone() }

// Insert validates the record against the schema, assigns an id when the
// record carries none and appends it. The stored copy is independent of the
// argument. Returns the record id.
func (c *Collection) Insert(rec record.Record) (string, error) {
	if err := c.schema.Validate(rec); err != nil {
		c.logger.LogInsert(c.name, "", err)
		return "", err
	}

	stored := rec.Clone()
	if stored.ID() == "" {
		stored[record.IDField] = record.String(uuid.NewString())
	}

	pos := uint32(len(c.records))
	c.records = append(c.records, stored)
	if err := c.idx.AddRecord(pos, stored); err != nil {
		// The append-only contract cannot fail here; positions come from
		// len(records). Rebuild defensively if it ever does.
		if rerr := c.idx.Rebuild(c.records); rerr != nil {
			return "", rerr
		}
	}

	id := stored.ID()
	c.logger.LogInsert(c.name, id, nil)
	return id, nil
}

// Find returns copies of the records matching the conditions, in position
// order. Unknown condition fields match nothing; with ModeAnd they force an
// empty result, with ModeOr they contribute nothing.
func (c *Collection) Find(conds index.Conditions, mode QueryMode) []record.Record {
	positions := c.match(conds, mode)

	out := make([]record.Record, 0, len(positions))
	for _, pos := range positions {
		out = append(out, c.records[pos].Clone())
	}
	c.logger.LogQuery(c.name, string(mode), len(conds), len(out))
	return out
}

// FindOne returns the first record matching the conditions with ModeAnd.
func (c *Collection) FindOne(conds index.Conditions) (record.Record, bool) {
	results := c.Find(conds, ModeAnd)
	if len(results) == 0 {
		return nil, false
	}
	return results[0], true
}

// FindByID returns the record with the given id.
func (c *Collection) FindByID(id string) (record.Record, bool) {
	return c.FindOne(index.Conditions{record.IDField: index.Eq(record.String(id))})
}

// Update applies the patch to every record matching the conditions (ModeAnd)
// and rebuilds the index. Only schema fields can be patched; the id is
// immutable. Returns the number of records updated.
func (c *Collection) Update(conds index.Conditions, patch record.Record) (int, error) {
	for field, v := range patch {
		kind, ok := c.schema[field]
		if !ok {
			if field == record.IDField {
				return 0, fmt.Errorf("field %q is immutable", record.IDField)
			}
			continue
		}
		probe := record.Record{field: v}
		if err := (record.Schema{field: kind}).Validate(probe); err != nil {
			return 0, err
		}
	}

	positions := c.match(conds, ModeAnd)
	for _, pos := range positions {
		for field, v := range patch {
			if _, ok := c.schema[field]; ok {
				c.records[pos][field] = v.Clone()
			}
		}
	}

	if len(positions) > 0 {
		if err := c.idx.Rebuild(c.records); err != nil {
			return 0, err
		}
	}
	return len(positions), nil
}

// Delete removes every record matching the conditions (ModeAnd) and rebuilds
// the index. Returns the number of records deleted.
func (c *Collection) Delete(conds index.Conditions) (int, error) {
	positions := c.match(conds, ModeAnd)
	if len(positions) == 0 {
		return 0, nil
	}

	// Remove back to front so earlier positions stay valid.
	sort.Sort(sort.Reverse(sortableUint32(positions)))
	for _, pos := range positions {
		c.records = append(c.records[:pos], c.records[pos+1:]...)
	}

	if err := c.idx.Rebuild(c.records); err != nil {
		return 0, err
	}
	return len(positions), nil
}

// BuildIndex constructs the succinct field encodings eagerly. Queries do not
// require it; structural lookups build lazily when needed.
func (c *Collection) BuildIndex() error {
	return c.idx.Build()
}

// ValueAt returns the value of a field at a record position, answered from
// the index's succinct encoding without touching the stored records.
func (c *Collection) ValueAt(field string, pos int) (record.Value, error) {
	fi := c.idx.Field(field)
	if fi == nil {
		return record.Value{}, fmt.Errorf("field %q is not indexed", field)
	}
	return fi.ValueAt(pos)
}

// Occurrences counts how many of the first upTo records hold the given value
// in a field, answered from the index's succinct encoding.
func (c *Collection) Occurrences(field string, v record.Value, upTo int) (int, error) {
	fi := c.idx.Field(field)
	if fi == nil {
		return 0, fmt.Errorf("field %q is not indexed", field)
	}
	return fi.Occurrences(v, upTo)
}

// match evaluates conditions to a sorted position slice.
func (c *Collection) match(conds index.Conditions, mode QueryMode) []uint32 {
	if mode == ModeOr {
		return c.idx.QueryOr(conds).ToArray()
	}
	return c.idx.QueryAnd(conds).ToArray()
}

// replace swaps in a new schema and record sequence, rebuilding the index.
// Used by schema migration after all records migrated successfully.
func (c *Collection) replace(schema record.Schema, records []record.Record) error {
	fresh := index.New(schema)
	for i, rec := range records {
		if err := fresh.AddRecord(uint32(i), rec); err != nil {
			return err
		}
	}
	c.schema = schema
	c.records = records
	c.idx = fresh
	return nil
}

type sortableUint32 []uint32

func (s sortableUint32) Len() int           { return len(s) }
func (s sortableUint32) Less(i, j int) bool { return s[i] < s[j] }
func (s sortableUint32) Swap(i, j int)      { s[i], s[j] = s[j], s[i] }
