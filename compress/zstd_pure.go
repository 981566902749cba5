//go:build !cgo_zstd

package compress

import (
	"io"

	"github.com/klauspost/compress/zstd"
)

// ZstdCodec streams Zstandard frames using the pure Go implementation.
// Build with the cgo_zstd tag to use the libzstd binding instead.
type ZstdCodec struct{}

// Name returns "zst".
func (ZstdCodec) Name() string { return "zst" }

type zstdReader struct {
	*zstd.Decoder
}

func (r zstdReader) Close() error {
	r.Decoder.Close()

	return nil
}

// NewReader wraps r in a Zstandard decoder.
func (ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r, zstd.WithDecoderConcurrency(1))
	if err != nil {
		return nil, err
	}

	return zstdReader{dec}, nil
}

// NewWriter wraps w in a Zstandard encoder.
func (ZstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return zstd.NewWriter(w, zstd.WithEncoderLevel(zstd.SpeedDefault))
}
