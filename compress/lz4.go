package compress

import (
	"io"

	"github.com/pierrec/lz4/v4"
)

// LZ4Codec streams LZ4 frames.
type LZ4Codec struct{}

// Name returns "lz4".
func (LZ4Codec) Name() string { return "lz4" }

type lz4Reader struct {
	*lz4.Reader
}

func (lz4Reader) Close() error { return nil }

// NewReader wraps r in an LZ4 frame decoder.
func (LZ4Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return lz4Reader{lz4.NewReader(r)}, nil
}

// NewWriter wraps w in an LZ4 frame encoder.
func (LZ4Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return lz4.NewWriter(w), nil
}
