// Package codec implements the byte-level codec shared by the dialect models:
// an appending Writer that serializes plain values in a chosen byte order, and
// a cursor-holding Reader that extracts values from a record's bytes, swapping
// multi-byte fields when the record was produced on a foreign-endian host.
package codec

import (
	"fmt"

	"github.com/daqforge/daqconv/endian"
	"github.com/daqforge/daqconv/errs"
)

// Reader extracts typed values from a byte slice, advancing a cursor.
//
// A Reader constructed with swap=true reverses the bytes of every multi-byte
// value it reads; Bytes is exempt, since opaque payloads keep their original
// byte order. Construction sites decide swap from the dialect's byte-order
// signature (V8 header marks, V10/V11 type high-half rule).
type Reader struct {
	buf  []byte
	pos  int
	swap bool
}

// NewReader creates a Reader over buf. When swap is true, multi-byte reads
// are byte-reversed.
func NewReader(buf []byte, swap bool) *Reader {
	return &Reader{buf: buf, swap: swap}
}

// Swapping reports whether the reader byte-reverses multi-byte values.
func (r *Reader) Swapping() bool {
	return r.swap
}

// Pos returns the current cursor offset.
func (r *Reader) Pos() int {
	return r.pos
}

// Remaining returns the number of unread bytes.
func (r *Reader) Remaining() int {
	return len(r.buf) - r.pos
}

func (r *Reader) need(n int) error {
	if r.Remaining() < n {
		return fmt.Errorf("%w: need %d bytes, have %d", errs.ErrUnderrun, n, r.Remaining())
	}

	return nil
}

// Uint8 extracts one byte.
func (r *Reader) Uint8() (uint8, error) {
	if err := r.need(1); err != nil {
		return 0, err
	}
	v := r.buf[r.pos]
	r.pos++

	return v, nil
}

// Uint16 extracts a 16-bit word in the stream's byte order.
func (r *Reader) Uint16() (uint16, error) {
	if err := r.need(2); err != nil {
		return 0, err
	}
	v := endian.GetLittleEndianEngine().Uint16(r.buf[r.pos : r.pos+2])
	if r.swap {
		v = endian.Swap16(v)
	}
	r.pos += 2

	return v, nil
}

// Uint32 extracts a 32-bit word in the stream's byte order.
func (r *Reader) Uint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := endian.GetLittleEndianEngine().Uint32(r.buf[r.pos : r.pos+4])
	if r.swap {
		v = endian.Swap32(v)
	}
	r.pos += 4

	return v, nil
}

// Uint64 extracts a 64-bit word in the stream's byte order.
func (r *Reader) Uint64() (uint64, error) {
	if err := r.need(8); err != nil {
		return 0, err
	}
	v := endian.GetLittleEndianEngine().Uint64(r.buf[r.pos : r.pos+8])
	if r.swap {
		v = endian.Swap64(v)
	}
	r.pos += 8

	return v, nil
}

// PeekUint32 reads the next 32-bit word without advancing the cursor.
func (r *Reader) PeekUint32() (uint32, error) {
	if err := r.need(4); err != nil {
		return 0, err
	}
	v := endian.GetLittleEndianEngine().Uint32(r.buf[r.pos : r.pos+4])
	if r.swap {
		v = endian.Swap32(v)
	}

	return v, nil
}

// Bytes extracts n bytes literally, without swapping. The returned slice is
// a copy owned by the caller.
func (r *Reader) Bytes(n int) ([]byte, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: negative byte count %d", errs.ErrMalformed, n)
	}
	if err := r.need(n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, r.buf[r.pos:r.pos+n])
	r.pos += n

	return out, nil
}

// Skip advances the cursor by n bytes.
func (r *Reader) Skip(n int) error {
	if err := r.need(n); err != nil {
		return err
	}
	r.pos += n

	return nil
}

// CString extracts bytes up to and including the next NUL and returns the
// string without the terminator.
func (r *Reader) CString() (string, error) {
	start := r.pos
	for i := r.pos; i < len(r.buf); i++ {
		if r.buf[i] == 0 {
			s := string(r.buf[start:i])
			r.pos = i + 1

			return s, nil
		}
	}

	return "", fmt.Errorf("%w: unterminated string", errs.ErrUnderrun)
}
