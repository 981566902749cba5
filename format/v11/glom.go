package v11

import (
	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
)

// Timestamp policies a glom stage can apply when building events.
const (
	GlomTimestampFirst   uint16 = 0
	GlomTimestampLast    uint16 = 1
	GlomTimestampAverage uint16 = 2
)

// GlomParameters documents the event builder's coincidence window and
// timestamp policy.
type GlomParameters struct {
	coincidenceTicks uint64
	isBuilding       bool
	timestampPolicy  uint16
}

// NewGlomParameters builds a glom info item.
func NewGlomParameters(coincidenceTicks uint64, isBuilding bool, timestampPolicy uint16) GlomParameters {
	return GlomParameters{
		coincidenceTicks: coincidenceTicks,
		isBuilding:       isBuilding,
		timestampPolicy:  timestampPolicy,
	}
}

// ParseGlomParameters decodes a glom info item from raw.
func ParseGlomParameters(raw *RawItem) (GlomParameters, error) {
	if err := checkKind(raw, TypeGlomInfo); err != nil {
		return GlomParameters{}, err
	}

	r := raw.PayloadReader()
	ticks, err := r.Uint64()
	if err != nil {
		return GlomParameters{}, err
	}
	building, err := r.Uint16()
	if err != nil {
		return GlomParameters{}, err
	}
	policy, err := r.Uint16()
	if err != nil {
		return GlomParameters{}, err
	}

	return GlomParameters{
		coincidenceTicks: ticks,
		isBuilding:       building != 0,
		timestampPolicy:  policy,
	}, nil
}

// CoincidenceTicks returns the coincidence window width in clock ticks.
func (g GlomParameters) CoincidenceTicks() uint64 { return g.coincidenceTicks }

// IsBuilding reports whether the glom stage was building events.
func (g GlomParameters) IsBuilding() bool { return g.isBuilding }

// TimestampPolicy returns the policy used to stamp built events.
func (g GlomParameters) TimestampPolicy() uint16 { return g.timestampPolicy }

// Size returns the serialized byte count.
func (GlomParameters) Size() uint32 {
	return HeaderSize + 4 + 12
}

// Type returns TypeGlomInfo.
func (GlomParameters) Type() ItemType { return TypeGlomInfo }

// ToRaw serializes the item in native order.
func (g GlomParameters) ToRaw() *RawItem {
	w := codec.NewWriter(endian.GetLittleEndianEngine())
	w.WriteUint64(g.coincidenceTicks)
	if g.isBuilding {
		w.WriteUint16(1)
	} else {
		w.WriteUint16(0)
	}
	w.WriteUint16(g.timestampPolicy)

	return NewRawItem(TypeGlomInfo, w.Finish())
}
