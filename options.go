package lattice

import (
	"github.com/hupe1980/lattice/blobstore"
	"github.com/hupe1980/lattice/codec"
	"github.com/hupe1980/lattice/compress"
)

type options struct {
	codec      codec.Codec
	compressor compress.Compressor
	store      blobstore.BlobStore
	logger     *Logger
	version    string
}

// Option configures database constructor behavior.
//
// Options primarily exist to avoid exploding the API surface
// (e.g. codec-specific constructor variants).
type Option func(*options)

// WithCodec configures the codec used to encode snapshots. Binary by
// default; pass codec.JSON{} (or codec.JSONv2{}) for the text encoding.
// Decoding always detects the encoding from the payload itself.
//
// If nil is passed, the binary codec is used.
func WithCodec(c codec.Codec) Option {
	return func(o *options) {
		if c == nil {
			c = codec.Binary{}
		}
		o.codec = c
	}
}

// WithCompressor configures the compressor applied to serialized snapshots.
// Zstandard by default.
//
// If nil is passed, the default Zstandard compressor is used.
func WithCompressor(c compress.Compressor) Option {
	return func(o *options) {
		if c == nil {
			c = compress.NewZstd()
		}
		o.compressor = c
	}
}

// WithBlobStore configures where snapshots are written. The local
// filesystem (working-directory relative) by default.
func WithBlobStore(s blobstore.BlobStore) Option {
	return func(o *options) {
		if s == nil {
			s = blobstore.NewLocalStore("")
		}
		o.store = s
	}
}

// WithLogger configures structured logging. Logging is disabled by default.
func WithLogger(l *Logger) Option {
	return func(o *options) {
		if l == nil {
			l = NoopLogger()
		}
		o.logger = l
	}
}

// WithVersion overrides the database format version string recorded in
// snapshots.
func WithVersion(v string) Option {
	return func(o *options) {
		o.version = v
	}
}
