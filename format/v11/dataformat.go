package v11

import (
	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
)

// RingFormat announces the dialect revision at the head of a stream so
// decoders know what format follows.
type RingFormat struct {
	major uint16
	minor uint16
}

// NewRingFormat returns the announcement for this dialect revision.
func NewRingFormat() RingFormat {
	return RingFormat{major: FormatMajor, minor: FormatMinor}
}

// ParseRingFormat decodes a format announcement from raw.
func ParseRingFormat(raw *RawItem) (RingFormat, error) {
	if err := checkKind(raw, TypeRingFormat); err != nil {
		return RingFormat{}, err
	}

	r := raw.PayloadReader()
	major, err := r.Uint16()
	if err != nil {
		return RingFormat{}, err
	}
	minor, err := r.Uint16()
	if err != nil {
		return RingFormat{}, err
	}

	return RingFormat{major: major, minor: minor}, nil
}

// Major returns the major revision.
func (f RingFormat) Major() uint16 { return f.major }

// Minor returns the minor revision.
func (f RingFormat) Minor() uint16 { return f.minor }

// Size returns the serialized byte count.
func (f RingFormat) Size() uint32 {
	return HeaderSize + 4 + 4
}

// Type returns TypeRingFormat.
func (f RingFormat) Type() ItemType { return TypeRingFormat }

// ToRaw serializes the announcement in native order.
func (f RingFormat) ToRaw() *RawItem {
	w := codec.NewWriter(endian.GetLittleEndianEngine())
	w.WriteUint16(f.major)
	w.WriteUint16(f.minor)

	return NewRawItem(TypeRingFormat, w.Finish())
}

// AbnormalEnd marks a run that was torn down without a proper end-of-run
// transition. The body is empty.
type AbnormalEnd struct{}

// ParseAbnormalEnd decodes an abnormal-end marker from raw.
func ParseAbnormalEnd(raw *RawItem) (AbnormalEnd, error) {
	if err := checkKind(raw, TypeAbnormalEnd); err != nil {
		return AbnormalEnd{}, err
	}

	return AbnormalEnd{}, nil
}

// Size returns the serialized byte count.
func (AbnormalEnd) Size() uint32 {
	return HeaderSize + 4
}

// Type returns TypeAbnormalEnd.
func (AbnormalEnd) Type() ItemType { return TypeAbnormalEnd }

// ToRaw serializes the marker.
func (AbnormalEnd) ToRaw() *RawItem {
	return NewRawItem(TypeAbnormalEnd, nil)
}
