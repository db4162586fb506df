// Package index provides per-collection, per-field auxiliary structures and
// the query evaluator over them.
//
// Each schema field gets a FieldIndex with three layers: exact-match posting
// bitmaps (Roaring), a sorted order structure for range and prefix lookups on
// orderable kinds, and a wavelet-tree encoding of the field's value sequence
// for positional structural queries.
//
// The index is a derived cache: it is always regenerable from the schema and
// record sequence and is never the source of truth. Appends extend it
// incrementally; any update or delete requires a full Rebuild.
package index
