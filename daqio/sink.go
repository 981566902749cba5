package daqio

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/daqforge/daqconv/compress"
)

// DataSink is the push side of a conversion. Flush must be called before
// Close when the caller wants errors surfaced rather than swallowed by the
// final Close.
type DataSink interface {
	io.WriteCloser
	Flush() error
}

// fileSink layers buffering and optional compression over a file handle.
type fileSink struct {
	w     *bufio.Writer
	codec io.WriteCloser
	file  *os.File
}

func (s *fileSink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s *fileSink) Flush() error {
	return s.w.Flush()
}

func (s *fileSink) Close() error {
	err := s.w.Flush()
	if s.codec != nil {
		if cerr := s.codec.Close(); err == nil {
			err = cerr
		}
	}
	if s.file != nil {
		if cerr := s.file.Close(); err == nil {
			err = cerr
		}
	}

	return err
}

// newFileSink creates or truncates path for writing, encoding compressed
// archives by extension.
func newFileSink(path string) (DataSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}

	sink := &fileSink{file: f}
	var dst io.Writer = f
	if c := compress.ForPath(path); c != nil {
		enc, err := c.NewWriter(f)
		if err != nil {
			f.Close()

			return nil, fmt.Errorf("create %s: %w", path, err)
		}
		sink.codec = enc
		dst = enc
	}
	sink.w = bufio.NewWriter(dst)

	return sink, nil
}

// stdoutSink wraps standard output; Close flushes but leaves the process
// stream open.
type stdoutSink struct {
	w *bufio.Writer
}

func (s stdoutSink) Write(p []byte) (int, error) {
	return s.w.Write(p)
}

func (s stdoutSink) Flush() error {
	return s.w.Flush()
}

func (s stdoutSink) Close() error {
	return s.w.Flush()
}

func newStdoutSink() DataSink {
	return stdoutSink{bufio.NewWriter(os.Stdout)}
}
