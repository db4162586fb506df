package lattice

import (
	"context"
	"time"

	"github.com/hupe1980/lattice/codec"
	"github.com/hupe1980/lattice/record"
)

// Save serializes the database, compresses the payload and writes it to the
// configured blob store under the given name. A failure leaves any previous
// on-disk snapshot untouched; the local store replaces files atomically.
func (db *DB) Save(ctx context.Context, name string) error {
	snap := db.snapshot()

	data, err := db.codec.Marshal(snap)
	if err != nil {
		serr := &ErrSerialization{Codec: db.codec.Name(), cause: err}
		db.logger.LogSnapshot(ctx, name, 0, serr)
		return serr
	}

	compressed, err := db.compressor.Compress(data)
	if err != nil {
		db.logger.LogSnapshot(ctx, name, 0, err)
		return err
	}

	if err := db.store.Put(ctx, name, compressed); err != nil {
		db.logger.LogSnapshot(ctx, name, 0, err)
		return err
	}

	db.logger.LogSnapshot(ctx, name, len(compressed), nil)
	return nil
}

// Load reads a snapshot from the configured blob store and replaces the
// database's in-memory state with it, rebuilding every collection index.
// The encoding is detected from the payload: text snapshots start with '{',
// anything else decodes through the binary codec. On any failure the
// in-memory state is left untouched.
func (db *DB) Load(ctx context.Context, name string) error {
	compressed, err := db.store.Get(ctx, name)
	if err != nil {
		db.logger.LogLoad(ctx, name, 0, err)
		return err
	}

	data, err := db.compressor.Decompress(compressed)
	if err != nil {
		derr := &ErrDecompression{Compressor: db.compressor.Name(), cause: err}
		db.logger.LogLoad(ctx, name, 0, derr)
		return derr
	}

	var snap snapshot
	c := codec.Detect(data)
	if err := c.Unmarshal(data, &snap); err != nil {
		serr := &ErrSerialization{Codec: c.Name(), cause: err}
		db.logger.LogLoad(ctx, name, 0, serr)
		return serr
	}

	if err := db.restore(&snap); err != nil {
		db.logger.LogLoad(ctx, name, 0, err)
		return err
	}

	db.logger.LogLoad(ctx, name, len(db.collections), nil)
	return nil
}

// snapshot captures the serializable state of the database.
func (db *DB) snapshot() *snapshot {
	snap := &snapshot{
		Name:           db.name,
		Version:        db.version,
		CreatedAt:      db.createdAt,
		UpdatedAt:      db.updatedAt,
		SchemaVersions: make(map[string][]SchemaVersion, len(db.schemaVersions)),
		Collections:    make(map[string]collectionSnapshot, len(db.collections)),
	}
	for name, versions := range db.schemaVersions {
		snap.SchemaVersions[name] = append([]SchemaVersion(nil), versions...)
	}
	for name, col := range db.collections {
		snap.Collections[name] = collectionSnapshot{
			Name:    col.name,
			Schema:  col.schema.Clone(),
			Records: cloneRecords(col.records),
		}
	}
	return snap
}

// restore replaces the in-memory state with a decoded snapshot. Collections
// are rebuilt from their record sequences; indexes are derived and never
// persisted.
func (db *DB) restore(snap *snapshot) error {
	collections := make(map[string]*Collection, len(snap.Collections))
	for name, cs := range snap.Collections {
		col := newCollection(cs.Name, cs.Schema, db.logger)
		if err := col.replace(cs.Schema, cs.Records); err != nil {
			return err
		}
		collections[name] = col
	}

	db.name = snap.Name
	db.version = snap.Version
	db.createdAt = snap.CreatedAt
	db.updatedAt = snap.UpdatedAt
	db.collections = collections
	db.schemaVersions = snap.SchemaVersions
	if db.schemaVersions == nil {
		db.schemaVersions = make(map[string][]SchemaVersion)
	}

	// Creation time defaults for snapshots written by older versions.
	if db.createdAt.IsZero() {
		db.createdAt = time.Now().UTC()
	}
	return nil
}

func cloneRecords(records []record.Record) []record.Record {
	out := make([]record.Record, len(records))
	for i, rec := range records {
		out[i] = rec.Clone()
	}
	return out
}
