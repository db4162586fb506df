// Package compress provides the opaque byte compressors applied to
// serialized snapshots before file I/O. On-disk content is exactly the
// compressed bytes, with no extra header.
package compress

// Compressor compresses and decompresses opaque byte payloads.
// Implementations must be safe for concurrent use.
type Compressor interface {
	Compress(data []byte) ([]byte, error)
	Decompress(data []byte) ([]byte, error)
	Name() string
}

// ByName returns a built-in compressor by its stable name.
func ByName(name string) (Compressor, bool) {
	switch name {
	case "zstd":
		return NewZstd(), true
	case "lz4":
		return LZ4{}, true
	case "noop":
		return Noop{}, true
	default:
		return nil, false
	}
}

// Noop passes payloads through unchanged. Useful for tests and debugging
// persisted files.
type Noop struct{}

// Compress returns data unchanged.
func (Noop) Compress(data []byte) ([]byte, error) { return data, nil }

// Decompress returns data unchanged.
func (Noop) Decompress(data []byte) ([]byte, error) { return data, nil }

// Name returns "noop".
func (Noop) Name() string { return "noop" }
