package v11

import (
	"fmt"
	"io"

	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
	"github.com/daqforge/daqconv/errs"
)

// RawItem is the uniform I/O vehicle for ring items. The body bytes include
// the body header block; construction decodes it so accessors can answer
// without re-parsing.
type RawItem struct {
	typ        ItemType
	body       []byte
	swap       bool
	bodyHeader *BodyHeader
}

// NewRawItem builds a native-order raw item whose body leads with a zero
// word (no body header).
func NewRawItem(typ ItemType, payload []byte) *RawItem {
	w := codec.NewWriter(endian.GetLittleEndianEngine())
	w.WriteUint32(0)
	w.WriteBytes(payload)

	return &RawItem{typ: typ, body: w.Finish()}
}

// NewRawItemWithBodyHeader builds a native-order raw item carrying bh ahead
// of payload.
func NewRawItemWithBodyHeader(typ ItemType, bh BodyHeader, payload []byte) *RawItem {
	w := codec.NewWriter(endian.GetLittleEndianEngine())
	w.WriteUint32(BodyHeaderSize)
	w.WriteUint64(bh.Timestamp)
	w.WriteUint32(bh.Source)
	w.WriteUint32(bh.Barrier)
	w.WriteBytes(payload)

	item := &RawItem{typ: typ, body: w.Finish()}
	item.bodyHeader = &bh

	return item
}

// wrapBody validates the body header block of an already-read body.
func wrapBody(typ ItemType, body []byte, swap bool) (*RawItem, error) {
	item := &RawItem{typ: typ, body: body, swap: swap}

	r := codec.NewReader(body, swap)
	declared, err := r.Uint32()
	if err != nil {
		return nil, err
	}

	switch declared {
	case 0:
		// no body header
	case BodyHeaderSize:
		var bh BodyHeader
		if bh.Timestamp, err = r.Uint64(); err != nil {
			return nil, err
		}
		if bh.Source, err = r.Uint32(); err != nil {
			return nil, err
		}
		if bh.Barrier, err = r.Uint32(); err != nil {
			return nil, err
		}
		item.bodyHeader = &bh
	default:
		return nil, fmt.Errorf("%w: body header declares %d bytes", errs.ErrMalformed, declared)
	}

	return item, nil
}

// Type returns the item's type tag.
func (i *RawItem) Type() ItemType {
	return i.typ
}

// Size returns the total serialized length, header included.
func (i *RawItem) Size() uint32 {
	return uint32(HeaderSize + len(i.body))
}

// Body returns the bytes following the {size, type} header, body header
// block included.
func (i *RawItem) Body() []byte {
	return i.body
}

// NeedsSwap reports whether the body bytes are in foreign byte order.
func (i *RawItem) NeedsSwap() bool {
	return i.swap
}

// HasBodyHeader reports whether the item carries a body header.
func (i *RawItem) HasBodyHeader() bool {
	return i.bodyHeader != nil
}

// BodyHeader returns the body header, or nil when absent.
func (i *RawItem) BodyHeader() *BodyHeader {
	return i.bodyHeader
}

// EventTimestamp returns the body header timestamp, or NullTimestamp when
// the item has none.
func (i *RawItem) EventTimestamp() uint64 {
	if i.bodyHeader == nil {
		return NullTimestamp
	}

	return i.bodyHeader.Timestamp
}

// SourceID returns the body header source id, or 0 when the item has none.
func (i *RawItem) SourceID() uint32 {
	if i.bodyHeader == nil {
		return 0
	}

	return i.bodyHeader.Source
}

// BarrierType returns the body header barrier type, or 0 when the item has
// none.
func (i *RawItem) BarrierType() uint32 {
	if i.bodyHeader == nil {
		return 0
	}

	return i.bodyHeader.Barrier
}

// payloadOffset is the index of the first byte after the body header block.
func (i *RawItem) payloadOffset() int {
	if i.bodyHeader != nil {
		return BodyHeaderSize
	}

	return 4
}

// Payload returns the body bytes after the body header block.
func (i *RawItem) Payload() []byte {
	return i.body[i.payloadOffset():]
}

// PayloadReader returns a codec reader positioned after the body header
// block, in the item's byte order.
func (i *RawItem) PayloadReader() *codec.Reader {
	return codec.NewReader(i.Payload(), i.swap)
}

// ReadRawItem pulls one ring item from r, detecting foreign byte order from
// the type word's upper half. Returns io.EOF when the source is exhausted at
// a record boundary.
func ReadRawItem(r io.Reader) (*RawItem, error) {
	var hdr [HeaderSize]byte
	if _, err := io.ReadFull(r, hdr[:]); err != nil {
		if err == io.ErrUnexpectedEOF {
			return nil, fmt.Errorf("%w: partial ring item header", errs.ErrUnderrun)
		}

		return nil, err
	}

	engine := endian.GetLittleEndianEngine()
	size := engine.Uint32(hdr[0:4])
	typ := engine.Uint32(hdr[4:8])

	swap := typ&0xffff0000 != 0
	if swap {
		size = endian.Swap32(size)
		typ = endian.Swap32(typ)
	}

	if size < HeaderSize+4 {
		return nil, fmt.Errorf("%w: ring item declares %d bytes", errs.ErrMalformed, size)
	}

	body := make([]byte, size-HeaderSize)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("%w: ring item body truncated: %v", errs.ErrUnderrun, err)
	}

	return wrapBody(ItemType(typ), body, swap)
}

// WriteRawItem pushes one ring item to w in native order. Items carried in
// foreign byte order are passed through byte-identically.
func WriteRawItem(w io.Writer, item *RawItem) error {
	engine := endian.GetLittleEndianEngine()

	size := item.Size()
	typ := uint32(item.typ)
	if item.swap {
		size = endian.Swap32(size)
		typ = endian.Swap32(typ)
	}

	var hdr [HeaderSize]byte
	engine.PutUint32(hdr[0:4], size)
	engine.PutUint32(hdr[4:8], typ)

	if _, err := w.Write(hdr[:]); err != nil {
		return err
	}
	_, err := w.Write(item.body)

	return err
}

func checkKind(i *RawItem, want ...ItemType) error {
	for _, t := range want {
		if i.typ == t {
			return nil
		}
	}

	return fmt.Errorf("%w: ring item type %v", errs.ErrKindMismatch, i.typ)
}
