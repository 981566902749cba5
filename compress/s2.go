package compress

import (
	"io"

	"github.com/klauspost/compress/s2"
)

// S2Codec streams S2 frames (the Snappy-compatible successor format).
type S2Codec struct{}

// Name returns "s2".
func (S2Codec) Name() string { return "s2" }

type s2Reader struct {
	*s2.Reader
}

func (s2Reader) Close() error { return nil }

// NewReader wraps r in an S2 frame decoder.
func (S2Codec) NewReader(r io.Reader) (io.ReadCloser, error) {
	return s2Reader{s2.NewReader(r)}, nil
}

// NewWriter wraps w in an S2 frame encoder.
func (S2Codec) NewWriter(w io.Writer) (io.WriteCloser, error) {
	return s2.NewWriter(w), nil
}
