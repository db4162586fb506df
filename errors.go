package lattice

import (
	"errors"
	"fmt"

	"github.com/hupe1980/lattice/evolution"
)

var (
	// ErrCollectionNotFound is returned when an operation names a collection
	// the database does not hold.
	ErrCollectionNotFound = errors.New("collection not found")

	// ErrDuplicateCollection identifies a create on an existing collection
	// name. CreateCollection itself reports the case as a boolean false;
	// the sentinel exists for callers wrapping that result in an error.
	ErrDuplicateCollection = errors.New("collection already exists")
)

// ErrSchemaIncompatible indicates a schema evolution outside the coercion
// allow-list.
//
// The rejected transition's details can be accessed via the Info field.
type ErrSchemaIncompatible struct {
	Collection string
	Info       *evolution.Info
}

func (e *ErrSchemaIncompatible) Error() string {
	return fmt.Sprintf("incompatible schema evolution for collection %q", e.Collection)
}

// ErrSerialization indicates a snapshot that could not be encoded or
// decoded.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrSerialization struct {
	Codec string
	cause error
}

func (e *ErrSerialization) Error() string {
	return fmt.Sprintf("serialization failed (codec %s): %v", e.Codec, e.cause)
}

func (e *ErrSerialization) Unwrap() error { return e.cause }

// ErrDecompression indicates on-disk content that could not be
// decompressed, typically format corruption.
//
// The original underlying error can be accessed via errors.Unwrap.
type ErrDecompression struct {
	Compressor string
	cause      error
}

func (e *ErrDecompression) Error() string {
	return fmt.Sprintf("decompression failed (compressor %s): %v", e.Compressor, e.cause)
}

func (e *ErrDecompression) Unwrap() error { return e.cause }
