package lattice

import (
	"fmt"
	"time"

	"github.com/hupe1980/lattice/blobstore"
	"github.com/hupe1980/lattice/codec"
	"github.com/hupe1980/lattice/compress"
	"github.com/hupe1980/lattice/evolution"
	"github.com/hupe1980/lattice/record"
)

// Version is the database format version recorded in snapshots.
const Version = "0.1.0"

// SchemaVersion is one entry in a collection's append-only schema history.
// Entries are created only by collection creation and successful schema
// evolutions and are never mutated or removed.
type SchemaVersion struct {
	Version       int             `json:"version"`
	Schema        record.Schema   `json:"schema"`
	CreatedAt     time.Time       `json:"created_at"`
	MigrationInfo *evolution.Info `json:"migration_info,omitempty"`
}

// DB is an embedded lattice database: a set of named collections with their
// schema histories, plus the codec/compressor/store collaborators used for
// persistence.
//
// DB assumes a single logical writer; callers requiring concurrent access
// must serialize externally.
type DB struct {
	name      string
	version   string
	createdAt time.Time
	updatedAt time.Time

	collections    map[string]*Collection
	schemaVersions map[string][]SchemaVersion

	codec      codec.Codec
	compressor compress.Compressor
	store      blobstore.BlobStore
	logger     *Logger
}

// New creates an empty database with the given name.
func New(name string, optFns ...Option) *DB {
	opts := options{
		codec:      codec.Binary{},
		compressor: compress.NewZstd(),
		store:      blobstore.NewLocalStore(""),
		logger:     NoopLogger(),
		version:    Version,
	}
	for _, fn := range optFns {
		fn(&opts)
	}

	now := time.Now().UTC()
	return &DB{
		name:           name,
		version:        opts.version,
		createdAt:      now,
		updatedAt:      now,
		collections:    make(map[string]*Collection),
		schemaVersions: make(map[string][]SchemaVersion),
		codec:          opts.codec,
		compressor:     opts.compressor,
		store:          opts.store,
		logger:         opts.logger,
	}
}

// Name returns the database name.
func (db *DB) Name() string { return db.name }

// CreatedAt returns the database creation time.
func (db *DB) CreatedAt() time.Time { return db.createdAt }

// UpdatedAt returns the time of the last structural change.
func (db *DB) UpdatedAt() time.Time { return db.updatedAt }

// CreateCollection creates a collection with the given schema and appends a
// schema version entry: 1 for a fresh name, the next number when a dropped
// collection's history already exists under the name. It returns false if
// the name already exists; an existing collection is never replaced.
func (db *DB) CreateCollection(name string, schema record.Schema) bool {
	if _, exists := db.collections[name]; exists {
		db.logger.Warn("collection already exists", "collection", name)
		return false
	}

	db.collections[name] = newCollection(name, schema.Clone(), db.logger)
	db.schemaVersions[name] = append(db.schemaVersions[name], SchemaVersion{
		Version:   len(db.schemaVersions[name]) + 1,
		Schema:    schema.Clone(),
		CreatedAt: time.Now().UTC(),
	})
	db.touch()
	return true
}

// Collection returns the named collection.
func (db *DB) Collection(name string) (*Collection, bool) {
	c, ok := db.collections[name]
	return c, ok
}

// CollectionNames returns the names of all collections.
func (db *DB) CollectionNames() []string {
	names := make([]string, 0, len(db.collections))
	for name := range db.collections {
		names = append(names, name)
	}
	return names
}

// DropCollection removes a collection and its index. The schema history is
// retained; a later collection with the same name continues the version
// numbering. Returns false if the collection does not exist.
func (db *DB) DropCollection(name string) bool {
	if _, ok := db.collections[name]; !ok {
		return false
	}
	delete(db.collections, name)
	db.touch()
	return true
}

// SchemaHistory returns the append-only schema version history of a
// collection, oldest first.
func (db *DB) SchemaHistory(name string) []SchemaVersion {
	history := db.schemaVersions[name]
	out := make([]SchemaVersion, len(history))
	copy(out, history)
	return out
}

// UpdateCollectionSchema evolves a collection to a new schema.
//
// The transition is first analyzed for compatibility: added and removed
// fields never block, type changes must be on the widening coercion
// allow-list. When migrateData is true every stored record is migrated;
// migration is all-or-nothing — if any record fails, no record is committed
// and the collection keeps its old schema. A SchemaVersion entry is appended
// only on success.
func (db *DB) UpdateCollectionSchema(name string, newSchema record.Schema, migrateData bool) (*evolution.Info, error) {
	col, ok := db.collections[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrCollectionNotFound, name)
	}

	oldSchema := col.schema
	evolved, info := evolution.Evolve(oldSchema, newSchema)
	if !info.Compatible {
		db.logger.LogMigration(name, 0, 0, &ErrSchemaIncompatible{Collection: name, Info: info})
		return info, &ErrSchemaIncompatible{Collection: name, Info: info}
	}

	if migrateData {
		// Migrate into a staging slice so a failure leaves the collection
		// untouched.
		migrated := make([]record.Record, len(col.records))
		for i, rec := range col.records {
			m, err := evolution.MigrateRecord(rec, oldSchema, evolved)
			if err != nil {
				db.logger.LogMigration(name, 0, 0, err)
				return info, err
			}
			migrated[i] = m
		}
		if err := col.replace(evolved, migrated); err != nil {
			return info, err
		}
	} else {
		col.schema = evolved
	}

	version := len(db.schemaVersions[name]) + 1
	db.schemaVersions[name] = append(db.schemaVersions[name], SchemaVersion{
		Version:       version,
		Schema:        evolved.Clone(),
		CreatedAt:     time.Now().UTC(),
		MigrationInfo: info,
	})
	db.touch()
	db.logger.LogMigration(name, version, col.Len(), nil)

	return info, nil
}

func (db *DB) touch() {
	db.updatedAt = time.Now().UTC()
}
