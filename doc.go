// Package lattice provides an embedded, file-based document store that
// answers structural queries over compressed, serialized records without
// full decompression.
//
// Collections hold typed records validated against a declared schema. Each
// collection maintains a derived index built from succinct bit-level
// structures (rank/select bit vectors and wavelet trees) plus Roaring
// posting bitmaps and a sorted order table, supporting equality, range,
// prefix, regex, in and not conditions combined with AND or OR logic.
//
// # Quick Start
//
//	db := lattice.New("mydb")
//	db.CreateCollection("users", record.Schema{
//	    "name": record.KindString,
//	    "age":  record.KindInt,
//	})
//
//	users, _ := db.Collection("users")
//	id, err := users.Insert(record.Record{
//	    "name": record.String("Ada"),
//	    "age":  record.Int(36),
//	})
//
//	matches := users.Find(index.Conditions{
//	    "age": index.Range(record.Int(18), record.Int(30)),
//	}, lattice.ModeAnd)
//
// Schema changes flow through a compatibility analysis and an all-or-nothing
// migration of the stored records:
//
//	info, err := db.UpdateCollectionSchema("users", record.Schema{
//	    "name": record.KindString,
//	    "age":  record.KindFloat, // widening int→float coercion
//	}, true)
//
// Databases persist as a single compressed snapshot, binary by default with
// a JSON text fallback:
//
//	err := db.Save(ctx, "mydb.lattice")
//	err = db.Load(ctx, "mydb.lattice")
//
// The design targets single-process, single-writer, in-memory-resident
// collections of modest size. Callers requiring concurrent access must
// serialize externally.
package lattice
