package v11

import (
	"fmt"

	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
	"github.com/daqforge/daqconv/errs"
)

// Text carries a list of NUL-terminated documentation strings.
type Text struct {
	typ        ItemType
	offset     uint32
	timestamp  uint32
	divisor    uint32
	strings    []string
	bodyHeader *BodyHeader
}

// NewText builds a text item of the given tag without a body header.
func NewText(typ ItemType, offset, timestamp, divisor uint32, strs []string) Text {
	return Text{typ: typ, offset: offset, timestamp: timestamp, divisor: divisor, strings: strs}
}

// ParseText decodes a text item from raw.
func ParseText(raw *RawItem) (Text, error) {
	if err := checkKind(raw, TypePacketTypes, TypeMonitoredVariables); err != nil {
		return Text{}, err
	}

	r := raw.PayloadReader()
	offset, err := r.Uint32()
	if err != nil {
		return Text{}, err
	}
	timestamp, err := r.Uint32()
	if err != nil {
		return Text{}, err
	}
	count, err := r.Uint32()
	if err != nil {
		return Text{}, err
	}
	divisor, err := r.Uint32()
	if err != nil {
		return Text{}, err
	}

	strs := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		s, err := r.CString()
		if err != nil {
			return Text{}, fmt.Errorf("%w: string %d of %d: %v", errs.ErrMalformed, i, count, err)
		}
		strs = append(strs, s)
	}

	return Text{
		typ:        raw.Type(),
		offset:     offset,
		timestamp:  timestamp,
		divisor:    divisor,
		strings:    strs,
		bodyHeader: raw.BodyHeader(),
	}, nil
}

// Type returns the text tag.
func (t Text) Type() ItemType { return t.typ }

// Offset returns the elapsed time since the start of the run, in divisor
// ticks.
func (t Text) Offset() uint32 { return t.offset }

// Timestamp returns the Unix wall-clock time of the snapshot.
func (t Text) Timestamp() uint32 { return t.timestamp }

// Divisor returns the offset divisor.
func (t Text) Divisor() uint32 { return t.divisor }

// Strings returns the strings in body order.
func (t Text) Strings() []string { return t.strings }

// Size returns the serialized byte count.
func (t Text) Size() uint32 {
	n := HeaderSize + 4 + 16
	if t.bodyHeader != nil {
		n += BodyHeaderSize - 4
	}
	for _, s := range t.strings {
		n += len(s) + 1
	}

	return uint32(n)
}

// ToRaw serializes the item, preserving a parsed body header.
func (t Text) ToRaw() *RawItem {
	w := codec.NewWriter(endian.GetLittleEndianEngine())
	w.WriteUint32(t.offset)
	w.WriteUint32(t.timestamp)
	w.WriteUint32(uint32(len(t.strings)))
	w.WriteUint32(t.divisor)
	for _, s := range t.strings {
		w.WriteBytes([]byte(s))
		w.WriteUint8(0)
	}

	if t.bodyHeader != nil {
		return NewRawItemWithBodyHeader(t.typ, *t.bodyHeader, w.Finish())
	}

	return NewRawItem(t.typ, w.Finish())
}
