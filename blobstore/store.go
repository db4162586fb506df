// Package blobstore provides storage abstraction for lattice database
// snapshots.
//
// Snapshots are modest, immutable byte payloads written and read whole, so
// the interface is deliberately small. Implementations must be safe for
// concurrent use.
//
// # Built-in Implementations
//
//   - LocalStore: local filesystem with atomic replace
//   - MemoryStore: in-process map, for tests
//   - s3.Store: Amazon S3
//   - minio.Store: MinIO and other S3-compatible endpoints
package blobstore

import (
	"context"
	"os"
)

// ErrNotFound is returned when a blob does not exist.
//
// Implementations should return an error that satisfies
// `errors.Is(err, ErrNotFound)`. The default maps to `os.ErrNotExist`.
var ErrNotFound = os.ErrNotExist

// BlobStore reads and writes immutable snapshot blobs.
type BlobStore interface {
	// Put writes a blob atomically, replacing any previous content.
	Put(ctx context.Context, name string, data []byte) error
	// Get reads a blob whole.
	Get(ctx context.Context, name string) ([]byte, error)
	// Delete removes a blob. Deleting a missing blob is not an error.
	Delete(ctx context.Context, name string) error
}
