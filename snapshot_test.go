package lattice

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lattice/evolution"
	"github.com/hupe1980/lattice/record"
)

func TestSnapshotBinaryRoundTrip(t *testing.T) {
	now := time.Date(2024, 3, 1, 10, 0, 0, 500, time.UTC)
	in := &snapshot{
		Name:      "testdb",
		Version:   Version,
		CreatedAt: now,
		UpdatedAt: now.Add(time.Hour),
		SchemaVersions: map[string][]SchemaVersion{
			"users": {
				{
					Version:   1,
					Schema:    record.Schema{"name": record.KindString, "age": record.KindInt},
					CreatedAt: now,
				},
				{
					Version:   2,
					Schema:    record.Schema{"name": record.KindString, "age": record.KindFloat},
					CreatedAt: now.Add(time.Minute),
					MigrationInfo: &evolution.Info{
						Changed:    []evolution.FieldChange{{Name: "age", OldKind: record.KindInt, NewKind: record.KindFloat}},
						Compatible: true,
					},
				},
			},
		},
		Collections: map[string]collectionSnapshot{
			"users": {
				Name:   "users",
				Schema: record.Schema{"name": record.KindString, "age": record.KindFloat},
				Records: []record.Record{
					{
						record.IDField: record.String("r1"),
						"name":         record.String("alice"),
						"age":          record.Float(30),
					},
					{
						record.IDField: record.String("r2"),
						"name":         record.String("bob"),
						"age":          record.Float(25.5),
					},
				},
			},
		},
	}

	data, err := in.MarshalBinary()
	require.NoError(t, err)
	require.Equal(t, snapshotMagic, data[:len(snapshotMagic)])
	assert.NotEqual(t, byte('{'), data[0], "binary payload must not look like the text encoding")

	var out snapshot
	require.NoError(t, out.UnmarshalBinary(data))

	assert.Equal(t, in.Name, out.Name)
	assert.Equal(t, in.Version, out.Version)
	assert.True(t, in.CreatedAt.Equal(out.CreatedAt))
	assert.True(t, in.UpdatedAt.Equal(out.UpdatedAt))

	require.Len(t, out.SchemaVersions["users"], 2)
	assert.True(t, out.SchemaVersions["users"][0].Schema.Equal(in.SchemaVersions["users"][0].Schema))
	mi := out.SchemaVersions["users"][1].MigrationInfo
	require.NotNil(t, mi)
	assert.True(t, mi.Compatible)
	require.Len(t, mi.Changed, 1)
	assert.Equal(t, "age", mi.Changed[0].Name)

	users := out.Collections["users"]
	require.Len(t, users.Records, 2)
	for i, want := range in.Collections["users"].Records {
		got := users.Records[i]
		require.Len(t, got, len(want))
		for field, v := range want {
			assert.True(t, record.Equal(v, got[field]), "record %d field %q", i, field)
		}
	}
}

func TestSnapshotUnmarshalRejectsGarbage(t *testing.T) {
	var s snapshot
	assert.ErrorIs(t, s.UnmarshalBinary([]byte("garbage")), ErrInvalidSnapshot)
	assert.ErrorIs(t, s.UnmarshalBinary(nil), ErrInvalidSnapshot)
	assert.ErrorIs(t, s.UnmarshalBinary([]byte("LTC")), ErrInvalidSnapshot)
}

func TestSnapshotBinaryTruncated(t *testing.T) {
	in := &snapshot{
		Name:           "db",
		Version:        Version,
		CreatedAt:      time.Now().UTC(),
		UpdatedAt:      time.Now().UTC(),
		SchemaVersions: map[string][]SchemaVersion{},
		Collections: map[string]collectionSnapshot{
			"c": {
				Name:    "c",
				Schema:  record.Schema{"x": record.KindInt},
				Records: []record.Record{{record.IDField: record.String("r"), "x": record.Int(1)}},
			},
		},
	}
	data, err := in.MarshalBinary()
	require.NoError(t, err)

	for i := len(snapshotMagic); i < len(data); i++ {
		var out snapshot
		assert.Error(t, out.UnmarshalBinary(data[:i]), "parsing %d of %d bytes", i, len(data))
	}
}
