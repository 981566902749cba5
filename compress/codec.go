// Package compress wraps the stream compression codecs used for file
// endpoints. Acquisition archives are routinely stored compressed; the
// source and sink factories pick a codec from the file extension so the
// converter reads and writes them in place.
package compress

import (
	"io"
	"path/filepath"
)

// Codec pairs a decompressing reader with a compressing writer for one
// algorithm.
type Codec interface {
	// Name returns the codec's short name, matching the file extension it
	// is selected by.
	Name() string
	// NewReader wraps r so reads return decompressed bytes. The returned
	// reader must be closed to release codec resources; closing it does not
	// close r.
	NewReader(r io.Reader) (io.ReadCloser, error)
	// NewWriter wraps w so writes are compressed. The returned writer must
	// be closed to flush the codec's trailer; closing it does not close w.
	NewWriter(w io.Writer) (io.WriteCloser, error)
}

// ForPath returns the codec matching path's extension, or nil when the path
// names an uncompressed file.
func ForPath(path string) Codec {
	switch filepath.Ext(path) {
	case ".zst", ".zstd":
		return ZstdCodec{}
	case ".lz4":
		return LZ4Codec{}
	case ".s2":
		return S2Codec{}
	default:
		return nil
	}
}

// nopWriteCloser adapts writers that need no trailer flush.
type nopWriteCloser struct {
	io.Writer
}

func (nopWriteCloser) Close() error { return nil }
