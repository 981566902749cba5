package v8

import (
	"fmt"
	"strings"

	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
	"github.com/daqforge/daqconv/errs"
)

// ControlBuffer marks a run state change: begin, end, pause, or resume. The
// body is a fixed 80-byte title, the elapsed run seconds, and a packed
// calendar time.
type ControlBuffer struct {
	header Header
	title  string
	offset uint32
	tod    BufTime
}

// IsControlType reports whether t is one of the run state-change tags.
func IsControlType(t BufferType) bool {
	switch t {
	case TypeBeginRun, TypeEndRun, TypePauseRun, TypeResumeRun:
		return true
	default:
		return false
	}
}

// NewControlBuffer builds a control buffer. Titles longer than 79 characters
// are truncated; the 80th serialized byte is always NUL.
func NewControlBuffer(header Header, title string, offset uint32, tod BufTime) ControlBuffer {
	if len(title) > TitleSize-1 {
		title = title[:TitleSize-1]
	}

	return ControlBuffer{
		header: header,
		title:  title,
		offset: offset,
		tod:    tod,
	}
}

// ParseControlBuffer decodes the control body of raw. It fails with
// ErrKindMismatch unless the buffer type is one of the state-change tags.
func ParseControlBuffer(raw *RawBuffer) (ControlBuffer, error) {
	h := raw.Header()
	if !IsControlType(h.Type) {
		return ControlBuffer{}, fmt.Errorf("%w: %v is not a control buffer", errs.ErrKindMismatch, h.Type)
	}

	r := codec.NewReader(raw.Body(), raw.NeedsSwap())

	titleBytes, err := r.Bytes(TitleSize)
	if err != nil {
		return ControlBuffer{}, err
	}
	title := string(titleBytes)
	if i := strings.IndexByte(title, 0); i >= 0 {
		title = title[:i]
	}

	offset, err := r.Uint32()
	if err != nil {
		return ControlBuffer{}, err
	}
	tod, err := decodeBufTime(r)
	if err != nil {
		return ControlBuffer{}, err
	}

	return ControlBuffer{header: h, title: title, offset: offset, tod: tod}, nil
}

// Header returns the buffer header.
func (b ControlBuffer) Header() Header {
	return b.header
}

// Title returns the title up to its NUL terminator. Space padding added at
// serialization time is part of the title and is not stripped.
func (b ControlBuffer) Title() string {
	return b.title
}

// Offset returns the elapsed seconds since the start of the run.
func (b ControlBuffer) Offset() uint32 {
	return b.offset
}

// Time returns the packed calendar time of the state change.
func (b ControlBuffer) Time() BufTime {
	return b.tod
}

func (b ControlBuffer) words() int {
	return HeaderWords + (TitleSize+4+14)/2
}

// ToRaw serializes the buffer. The title is padded with spaces to 80 bytes
// and the final byte forced to NUL.
func (b ControlBuffer) ToRaw(cfg Config) (*RawBuffer, error) {
	h := b.header
	h.Words = uint16(b.words())
	h.EntityCount = 0

	title := make([]byte, TitleSize)
	for i := range title {
		title[i] = ' '
	}
	copy(title, b.title)
	title[TitleSize-1] = 0

	w := codec.NewWriter(endian.GetLittleEndianEngine())
	w.WriteBytes(title)
	w.WriteUint32(b.offset)
	b.tod.encode(w)

	return serializeInto(h, false, w.Finish(), cfg)
}
