package v10

import (
	"fmt"

	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
	"github.com/daqforge/daqconv/errs"
)

// Text carries a list of NUL-terminated documentation strings: packet type
// descriptions or monitored variable settings.
type Text struct {
	typ       ItemType
	offset    uint32
	timestamp uint32
	strings   []string
}

// NewText builds a text item of the given tag.
func NewText(typ ItemType, offset, timestamp uint32, strs []string) Text {
	return Text{typ: typ, offset: offset, timestamp: timestamp, strings: strs}
}

// ParseText decodes a text item from raw.
func ParseText(raw *RawItem) (Text, error) {
	if err := checkKind(raw, TypePacketTypes, TypeMonitoredVariables); err != nil {
		return Text{}, err
	}

	r := raw.Reader()
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

	strs := make([]string, 0, count)
	for i := uint32(0); i < count; i++ {
		s, err := r.CString()
		if err != nil {
			return Text{}, fmt.Errorf("%w: string %d of %d: %v", errs.ErrMalformed, i, count, err)
		}
		strs = append(strs, s)
	}

	return Text{typ: raw.Type(), offset: offset, timestamp: timestamp, strings: strs}, nil
}

// Type returns the text tag.
func (t Text) Type() ItemType { return t.typ }

// Offset returns the elapsed seconds since the start of the run.
func (t Text) Offset() uint32 { return t.offset }

// Timestamp returns the Unix wall-clock time of the snapshot.
func (t Text) Timestamp() uint32 { return t.timestamp }

// Strings returns the strings in body order.
func (t Text) Strings() []string { return t.strings }

// Size returns the serialized byte count.
func (t Text) Size() uint32 {
	n := HeaderSize + 12
	for _, s := range t.strings {
		n += len(s) + 1
	}

	return uint32(n)
}

// ToRaw serializes the item in native order.
func (t Text) ToRaw() *RawItem {
	w := codec.NewWriter(endian.GetLittleEndianEngine())
	w.WriteUint32(t.offset)
	w.WriteUint32(t.timestamp)
	w.WriteUint32(uint32(len(t.strings)))
	for _, s := range t.strings {
		w.WriteBytes([]byte(s))
		w.WriteUint8(0)
	}

	return NewRawItem(t.typ, w.Finish())
}
