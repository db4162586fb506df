package lattice

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hupe1980/lattice/blobstore"
	"github.com/hupe1980/lattice/codec"
	"github.com/hupe1980/lattice/compress"
)

func TestNilOptionValuesFallBackToDefaults(t *testing.T) {
	db := New("testdb", WithCodec(nil), WithCompressor(nil), WithBlobStore(blobstore.NewMemoryStore()))

	assert.Equal(t, "binary", db.codec.Name())
	assert.Equal(t, "zstd", db.compressor.Name())
}

func TestWithVersion(t *testing.T) {
	store := blobstore.NewMemoryStore()
	db := New("testdb", WithVersion("9.9.9"), WithBlobStore(store))

	ctx := context.Background()
	require.NoError(t, db.Save(ctx, "snap.db"))

	loaded := New("other", WithBlobStore(store))
	require.NoError(t, loaded.Load(ctx, "snap.db"))
	assert.Equal(t, "9.9.9", loaded.version)
}

func TestLoggerEmitsStructuredRecords(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug}))

	store := blobstore.NewMemoryStore()
	db := New("testdb", WithLogger(logger), WithBlobStore(store), WithCompressor(compress.Noop{}), WithCodec(codec.JSON{}))
	db.CreateCollection("users", userSchema())
	col, _ := db.Collection("users")
	seedUsers(t, col, 1)
	require.NoError(t, db.Save(context.Background(), "snap.db"))

	out := buf.String()
	assert.Contains(t, out, `"collection":"users"`)
	assert.Contains(t, out, "snapshot saved")
}

func TestErrSerializationUnwraps(t *testing.T) {
	cause := errors.New("boom")
	err := &ErrSerialization{Codec: "binary", cause: cause}
	assert.ErrorIs(t, err, cause)

	derr := &ErrDecompression{Compressor: "zstd", cause: cause}
	assert.ErrorIs(t, derr, cause)
}
