//go:build cgo_zstd

package compress

import (
	"io"

	"github.com/valyala/gozstd"
)

// ZstdCodec streams Zstandard frames through the libzstd binding. This is
// the build selected by the cgo_zstd tag; the default build uses the pure Go
// implementation.
type ZstdCodec struct{}

// Name returns "zst".
func (ZstdCodec) Name() string { return "zst" }

type gozstdReader struct {
	*gozstd.Reader
}

func (r gozstdReader) Close() error {
	r.Release()

	return nil
}

// NewReader wraps r in a Zstandard decoder.
func (ZstdCodec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return gozstdReader{gozstd.NewReader(r)}, nil
}

// NewWriter wraps w in a Zstandard encoder.
func (ZstdCodec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return gozstd.NewWriterLevel(w, 3), nil
}
