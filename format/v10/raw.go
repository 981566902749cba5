package v10

import (
	"fmt"
	"io"

	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
	"github.com/daqforge/daqconv/errs"
)

// RawItem is the uniform I/O vehicle for ring items: the type tag, the body
// bytes, and the detected byte order. Typed records parse from and serialize
// to this form.
type RawItem struct {
	typ  ItemType
	body []byte
	swap bool
}

// NewRawItem builds a native-order raw item around body.
func NewRawItem(typ ItemType, body []byte) *RawItem {
	return &RawItem{typ: typ, body: body}
}

// Type returns the item's type tag.
func (i *RawItem) Type() ItemType {
	return i.typ
}

// Size returns the total serialized length, header included.
func (i *RawItem) Size() uint32 {
	return uint32(HeaderSize + len(i.body))
}

// Body returns the bytes following the {size, type} header.
func (i *RawItem) Body() []byte {
	return i.body
}

// NeedsSwap reports whether the body bytes are in foreign byte order.
func (i *RawItem) NeedsSwap() bool {
	return i.swap
}

// Reader returns a codec reader over the body in the item's byte order.
func (i *RawItem) Reader() *codec.Reader {
	return codec.NewReader(i.body, i.swap)
}

// ReadRawItem pulls one ring item from r. A type word with a non-zero upper
// half indicates the producer's byte order differs; the header is re-read
// swapped and the swap flag latched for body parsing. Returns io.EOF when the
// source is exhausted at a record boundary.
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

	if size < HeaderSize {
		return nil, fmt.Errorf("%w: ring item declares %d bytes", errs.ErrMalformed, size)
	}

	body := make([]byte, size-HeaderSize)
	if _, err := io.ReadFull(r, body); err != nil {
		return nil, fmt.Errorf("%w: ring item body truncated: %v", errs.ErrUnderrun, err)
	}

	return &RawItem{typ: ItemType(typ), body: body, swap: swap}, nil
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

// checkKind is shared by the typed parsers.
func checkKind(i *RawItem, want ...ItemType) error {
	for _, t := range want {
		if i.typ == t {
			return nil
		}
	}

	return fmt.Errorf("%w: ring item type %v", errs.ErrKindMismatch, i.typ)
}
