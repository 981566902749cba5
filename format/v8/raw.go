package v8

import (
	"fmt"
	"io"

	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
	"github.com/daqforge/daqconv/errs"
)

// RawBuffer is the uniform I/O vehicle for the dialect: one fixed-size block
// of bytes with its header parsed out and the stream byte order detected.
//
// SetBytes parses the leading header assuming native ordering; if the 16-bit
// byte-order signature does not read back as BOM16 the header is re-parsed in
// swap mode and the swap flag is latched for body parsing.
type RawBuffer struct {
	header Header
	bytes  []byte
	swap   bool
}

// NewRawBuffer returns an empty raw buffer sized for cfg.
func NewRawBuffer(cfg Config) *RawBuffer {
	return &RawBuffer{bytes: make([]byte, 0, cfg.BufferSize)}
}

// Header returns the parsed buffer header, in native field order.
func (b *RawBuffer) Header() Header {
	return b.header
}

// Bytes returns the full serialized buffer, padded to the configured size.
func (b *RawBuffer) Bytes() []byte {
	return b.bytes
}

// NeedsSwap reports whether the buffer's bytes are in foreign byte order.
func (b *RawBuffer) NeedsSwap() bool {
	return b.swap
}

// Body returns the bytes following the header.
func (b *RawBuffer) Body() []byte {
	if len(b.bytes) < HeaderSize {
		return nil
	}

	return b.bytes[HeaderSize:]
}

// SetBytes installs data as the buffer's content, padding with zeros to
// cfg.BufferSize, and parses the header with byte-order detection.
func (b *RawBuffer) SetBytes(data []byte, cfg Config) error {
	if len(data) < HeaderSize {
		return fmt.Errorf("%w: %d bytes is smaller than a buffer header", errs.ErrUnderrun, len(data))
	}
	if len(data) > cfg.BufferSize {
		return fmt.Errorf("%w: %d bytes exceeds the %d byte buffer size",
			errs.ErrOverflow, len(data), cfg.BufferSize)
	}

	b.bytes = make([]byte, cfg.BufferSize)
	copy(b.bytes, data)

	h, err := decodeHeader(codec.NewReader(b.bytes, false))
	if err != nil {
		return err
	}

	if h.ShortSignature == BOM16 {
		b.header = h
		b.swap = false

		return nil
	}

	// Foreign byte order; the signature must read back once swapped.
	h, err = decodeHeader(codec.NewReader(b.bytes, true))
	if err != nil {
		return err
	}
	if h.ShortSignature != BOM16 {
		return fmt.Errorf("%w: byte order signature 0x%04x", errs.ErrMalformed, h.ShortSignature)
	}
	b.header = h
	b.swap = true

	return nil
}

// ReadRawBuffer pulls one fixed-size buffer from r. It returns io.EOF when
// the source is exhausted at a buffer boundary and ErrUnderrun when a partial
// buffer is present.
func ReadRawBuffer(r io.Reader, cfg Config) (*RawBuffer, error) {
	block := make([]byte, cfg.BufferSize)
	n, err := io.ReadFull(r, block)
	if err == io.EOF {
		return nil, io.EOF
	}
	if err == io.ErrUnexpectedEOF {
		return nil, fmt.Errorf("%w: partial buffer of %d bytes at end of stream", errs.ErrUnderrun, n)
	}
	if err != nil {
		return nil, err
	}

	buf := NewRawBuffer(cfg)
	if err := buf.SetBytes(block, cfg); err != nil {
		return nil, err
	}

	return buf, nil
}

// WriteRawBuffer pushes one fixed-size buffer to w.
func WriteRawBuffer(w io.Writer, b *RawBuffer) error {
	_, err := w.Write(b.Bytes())

	return err
}

// serializeInto finalizes header bookkeeping shared by the typed buffers:
// body is appended after the encoded header and the result installed in a
// fresh RawBuffer, enforcing the configured size.
func serializeInto(h Header, swapped bool, body []byte, cfg Config) (*RawBuffer, error) {
	total := HeaderSize + len(body)
	if total > cfg.BufferSize {
		return nil, fmt.Errorf("%w: %d bytes cannot fit in the %d byte buffer size",
			errs.ErrOverflow, total, cfg.BufferSize)
	}

	w := codec.NewWriter(endian.GetLittleEndianEngine())
	h.encode(w, swapped)
	w.WriteBytes(body)

	buf := NewRawBuffer(cfg)
	if err := buf.SetBytes(w.Finish(), cfg); err != nil {
		return nil, err
	}

	return buf, nil
}
