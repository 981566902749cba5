package daqio

import "bytes"

// BufferSource is an in-memory data source for tests and loopback use.
type BufferSource struct {
	*bytes.Reader
}

// NewBufferSource returns a source that reads data.
func NewBufferSource(data []byte) *BufferSource {
	return &BufferSource{bytes.NewReader(data)}
}

// Close is a no-op.
func (*BufferSource) Close() error { return nil }

// BufferSink is an in-memory data sink for tests and loopback use.
type BufferSink struct {
	bytes.Buffer
}

// NewBufferSink returns an empty sink.
func NewBufferSink() *BufferSink {
	return &BufferSink{}
}

// Flush is a no-op.
func (*BufferSink) Flush() error { return nil }

// Close is a no-op.
func (*BufferSink) Close() error { return nil }
