package v8

import (
	"fmt"

	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
	"github.com/daqforge/daqconv/errs"
)

// TextBuffer carries consecutive NUL-terminated documentation strings. Each
// string is followed by its NUL and, when that leaves the cursor on an odd
// offset, one padding byte so the next string starts even.
type TextBuffer struct {
	header  Header
	strings []string
}

// IsTextType reports whether t is one of the documentation string tags.
func IsTextType(t BufferType) bool {
	switch t {
	case TypeStateVar, TypeRunVar, TypePacketDoc, TypeParamDescription:
		return true
	default:
		return false
	}
}

// NewTextBuffer builds an empty text buffer of the given type; strings are
// added with AppendString so callers can watch the capacity.
func NewTextBuffer(header Header) *TextBuffer {
	return &TextBuffer{header: header}
}

// ParseTextBuffer decodes the string body of raw. It fails with
// ErrKindMismatch unless the buffer type is one of the text tags.
func ParseTextBuffer(raw *RawBuffer) (*TextBuffer, error) {
	h := raw.Header()
	if !IsTextType(h.Type) {
		return nil, fmt.Errorf("%w: %v is not a text buffer", errs.ErrKindMismatch, h.Type)
	}

	r := codec.NewReader(raw.Body(), raw.NeedsSwap())

	strs := make([]string, 0, h.EntityCount)
	for i := 0; i < int(h.EntityCount); i++ {
		s, err := r.CString()
		if err != nil {
			return nil, fmt.Errorf("string %d of %d: %w", i, h.EntityCount, err)
		}
		strs = append(strs, s)
		if (len(s)+1)%2 != 0 && r.Remaining() > 0 {
			if err := r.Skip(1); err != nil {
				return nil, err
			}
		}
	}

	return &TextBuffer{header: h, strings: strs}, nil
}

// Header returns the buffer header.
func (b *TextBuffer) Header() Header {
	return b.header
}

// Strings returns the strings in body order.
func (b *TextBuffer) Strings() []string {
	return b.strings
}

// stringBytes is the serialized length of one string: the characters, the
// NUL, and the even-alignment pad byte when needed.
func stringBytes(s string) int {
	n := len(s) + 1
	if n%2 != 0 {
		n++
	}

	return n
}

func (b *TextBuffer) bytesUsed() int {
	n := HeaderSize
	for _, s := range b.strings {
		n += stringBytes(s)
	}

	return n
}

// BytesFree returns the body bytes still available under cfg.BufferSize.
func (b *TextBuffer) BytesFree(cfg Config) int {
	return cfg.BufferSize - b.bytesUsed()
}

// AppendString adds s when it fits in the remaining space and reports whether
// it was added.
func (b *TextBuffer) AppendString(s string, cfg Config) bool {
	if b.bytesUsed()+stringBytes(s) > cfg.BufferSize {
		return false
	}
	b.strings = append(b.strings, s)

	return true
}

// ToRaw serializes the buffer, recomputing the word and string counts.
func (b *TextBuffer) ToRaw(cfg Config) (*RawBuffer, error) {
	h := b.header
	h.Words = uint16(b.bytesUsed() / 2)
	h.EntityCount = uint16(len(b.strings))

	w := codec.NewWriter(endian.GetLittleEndianEngine())
	for _, s := range b.strings {
		w.WriteBytes([]byte(s))
		w.WriteUint8(0)
		if (len(s)+1)%2 != 0 {
			w.WriteUint8(0)
		}
	}

	return serializeInto(h, false, w.Finish(), cfg)
}
