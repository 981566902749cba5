// Package daqio provides the byte-stream endpoints the mediators read from
// and write to: stdin/stdout, plain or compressed files, and a pluggable
// ring transport. Endpoints are named by URI; see MakeSource and MakeSink.
package daqio

import (
	"fmt"
	"io"
	"os"

	"github.com/daqforge/daqconv/compress"
)

// DataSource is the pull side of a conversion: a byte stream that ends with
// io.EOF. Record framing lives in the dialect packages.
type DataSource interface {
	io.ReadCloser
}

// fileSource layers optional decompression over a file handle.
type fileSource struct {
	io.Reader
	file  *os.File
	codec io.ReadCloser
}

func (s *fileSource) Close() error {
	var err error
	if s.codec != nil {
		err = s.codec.Close()
	}
	if s.file != nil {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
	}

	return err
}

// newFileSource opens path for reading, decoding compressed archives by
// extension.
func newFileSource(path string) (DataSource, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}

	src := &fileSource{Reader: f, file: f}
	if c := compress.ForPath(path); c != nil {
		dec, err := c.NewReader(f)
		if err != nil {
			f.Close()

			return nil, fmt.Errorf("open %s: %w", path, err)
		}
		src.Reader = dec
		src.codec = dec
	}

	return src, nil
}

// stdinSource wraps standard input; Close leaves the process stream open.
type stdinSource struct {
	io.Reader
}

func (stdinSource) Close() error { return nil }

func newStdinSource() DataSource {
	return stdinSource{os.Stdin}
}
