package compress

import (
	"fmt"

	"github.com/klauspost/compress/zstd"
)

// Zstd compresses payloads with Zstandard. It is the default compressor.
type Zstd struct {
	enc *zstd.Encoder
	dec *zstd.Decoder
}

// NewZstd creates a Zstandard compressor with the default level.
func NewZstd(opts ...zstd.EOption) *Zstd {
	// Stateless EncodeAll/DecodeAll usage; errors only occur on invalid
	// options, which the defaults cannot produce.
	enc, _ := zstd.NewWriter(nil, opts...)
	dec, _ := zstd.NewReader(nil)
	return &Zstd{enc: enc, dec: dec}
}

// Compress returns the Zstandard-compressed payload.
func (z *Zstd) Compress(data []byte) ([]byte, error) {
	return z.enc.EncodeAll(data, make([]byte, 0, len(data)/2)), nil
}

// Decompress returns the original payload.
func (z *Zstd) Decompress(data []byte) ([]byte, error) {
	out, err := z.dec.DecodeAll(data, nil)
	if err != nil {
		return nil, fmt.Errorf("zstd decompress: %w", err)
	}
	return out, nil
}

// Name returns "zstd".
func (z *Zstd) Name() string { return "zstd" }
