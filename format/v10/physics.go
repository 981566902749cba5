package v10

import (
	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
)

// PhysicsEvent is one detector trigger with an opaque payload. The payload
// is carried verbatim in the byte order it arrived in.
type PhysicsEvent struct {
	body []byte
	swap bool
}

// NewPhysicsEvent wraps body as a physics event carried in the given byte
// order.
func NewPhysicsEvent(body []byte, swap bool) PhysicsEvent {
	return PhysicsEvent{body: body, swap: swap}
}

// ParsePhysicsEvent decodes a physics event from raw; the body is copied
// verbatim.
func ParsePhysicsEvent(raw *RawItem) (PhysicsEvent, error) {
	if err := checkKind(raw, TypePhysicsEvent); err != nil {
		return PhysicsEvent{}, err
	}

	body := make([]byte, len(raw.Body()))
	copy(body, raw.Body())

	return PhysicsEvent{body: body, swap: raw.NeedsSwap()}, nil
}

// Body returns the opaque payload bytes.
func (e PhysicsEvent) Body() []byte { return e.body }

// NeedsSwap reports whether the payload is in foreign byte order.
func (e PhysicsEvent) NeedsSwap() bool { return e.swap }

// Size returns the serialized byte count.
func (e PhysicsEvent) Size() uint32 {
	return uint32(HeaderSize + len(e.body))
}

// Type returns TypePhysicsEvent.
func (e PhysicsEvent) Type() ItemType { return TypePhysicsEvent }

// ToRaw serializes the event. The payload keeps its original byte order; the
// swap flag travels with the raw item so the header is written consistently.
func (e PhysicsEvent) ToRaw() *RawItem {
	body := make([]byte, len(e.body))
	copy(body, e.body)

	item := NewRawItem(TypePhysicsEvent, body)
	item.swap = e.swap

	return item
}

// PhysicsEventCount reports how many triggers have been produced so far so
// sampling clients can compute their sampling fraction.
type PhysicsEventCount struct {
	offset    uint32
	timestamp uint32
	count     uint64
}

// NewPhysicsEventCount builds a trigger-count item.
func NewPhysicsEventCount(offset, timestamp uint32, count uint64) PhysicsEventCount {
	return PhysicsEventCount{offset: offset, timestamp: timestamp, count: count}
}

// ParsePhysicsEventCount decodes a trigger-count item from raw.
func ParsePhysicsEventCount(raw *RawItem) (PhysicsEventCount, error) {
	if err := checkKind(raw, TypePhysicsEventCount); err != nil {
		return PhysicsEventCount{}, err
	}

	r := raw.Reader()
	offset, err := r.Uint32()
	if err != nil {
		return PhysicsEventCount{}, err
	}
	timestamp, err := r.Uint32()
	if err != nil {
		return PhysicsEventCount{}, err
	}
	count, err := r.Uint64()
	if err != nil {
		return PhysicsEventCount{}, err
	}

	return PhysicsEventCount{offset: offset, timestamp: timestamp, count: count}, nil
}

// Offset returns the elapsed seconds since the start of the run.
func (c PhysicsEventCount) Offset() uint32 { return c.offset }

// Timestamp returns the Unix wall-clock time of the report.
func (c PhysicsEventCount) Timestamp() uint32 { return c.timestamp }

// Count returns the number of triggers produced so far.
func (c PhysicsEventCount) Count() uint64 { return c.count }

// Size returns the serialized byte count.
func (c PhysicsEventCount) Size() uint32 {
	return HeaderSize + 16
}

// Type returns TypePhysicsEventCount.
func (c PhysicsEventCount) Type() ItemType { return TypePhysicsEventCount }

// ToRaw serializes the item in native order.
func (c PhysicsEventCount) ToRaw() *RawItem {
	w := codec.NewWriter(endian.GetLittleEndianEngine())
	w.WriteUint32(c.offset)
	w.WriteUint32(c.timestamp)
	w.WriteUint64(c.count)

	return NewRawItem(TypePhysicsEventCount, w.Finish())
}
