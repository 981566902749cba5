package v11

import (
	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
)

// PhysicsEvent is one detector trigger with an opaque payload.
type PhysicsEvent struct {
	body       []byte
	swap       bool
	bodyHeader *BodyHeader
}

// NewPhysicsEvent wraps body as a physics event without a body header.
func NewPhysicsEvent(body []byte, swap bool) PhysicsEvent {
	return PhysicsEvent{body: body, swap: swap}
}

// ParsePhysicsEvent decodes a physics event from raw; the payload is copied
// verbatim.
func ParsePhysicsEvent(raw *RawItem) (PhysicsEvent, error) {
	if err := checkKind(raw, TypePhysicsEvent); err != nil {
		return PhysicsEvent{}, err
	}

	payload := raw.Payload()
	body := make([]byte, len(payload))
	copy(body, payload)

	return PhysicsEvent{body: body, swap: raw.NeedsSwap(), bodyHeader: raw.BodyHeader()}, nil
}

// Body returns the opaque payload bytes.
func (e PhysicsEvent) Body() []byte { return e.body }

// NeedsSwap reports whether the payload is in foreign byte order.
func (e PhysicsEvent) NeedsSwap() bool { return e.swap }

// HasBodyHeader reports whether the parsed item carried a body header.
func (e PhysicsEvent) HasBodyHeader() bool { return e.bodyHeader != nil }

// Size returns the serialized byte count.
func (e PhysicsEvent) Size() uint32 {
	n := uint32(HeaderSize + 4 + len(e.body))
	if e.bodyHeader != nil {
		n += BodyHeaderSize - 4
	}

	return n
}

// Type returns TypePhysicsEvent.
func (e PhysicsEvent) Type() ItemType { return TypePhysicsEvent }

// ToRaw serializes the event, preserving a parsed body header. The payload
// keeps its original byte order.
func (e PhysicsEvent) ToRaw() *RawItem {
	var item *RawItem
	if e.bodyHeader != nil {
		item = NewRawItemWithBodyHeader(TypePhysicsEvent, *e.bodyHeader, e.body)
	} else {
		item = NewRawItem(TypePhysicsEvent, e.body)
	}
	item.swap = e.swap

	return item
}

// PhysicsEventCount reports how many triggers have been produced so far.
type PhysicsEventCount struct {
	offset     uint32
	divisor    uint32
	timestamp  uint32
	count      uint64
	bodyHeader *BodyHeader
}

// NewPhysicsEventCount builds a trigger-count item without a body header.
func NewPhysicsEventCount(offset, divisor, timestamp uint32, count uint64) PhysicsEventCount {
	return PhysicsEventCount{offset: offset, divisor: divisor, timestamp: timestamp, count: count}
}

// ParsePhysicsEventCount decodes a trigger-count item from raw.
func ParsePhysicsEventCount(raw *RawItem) (PhysicsEventCount, error) {
	if err := checkKind(raw, TypePhysicsEventCount); err != nil {
		return PhysicsEventCount{}, err
	}

	r := raw.PayloadReader()
	offset, err := r.Uint32()
	if err != nil {
		return PhysicsEventCount{}, err
	}
	divisor, err := r.Uint32()
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

	return PhysicsEventCount{
		offset:     offset,
		divisor:    divisor,
		timestamp:  timestamp,
		count:      count,
		bodyHeader: raw.BodyHeader(),
	}, nil
}

// Offset returns the elapsed time since the start of the run, in divisor
// ticks.
func (c PhysicsEventCount) Offset() uint32 { return c.offset }

// Divisor returns the offset divisor.
func (c PhysicsEventCount) Divisor() uint32 { return c.divisor }

// Timestamp returns the Unix wall-clock time of the report.
func (c PhysicsEventCount) Timestamp() uint32 { return c.timestamp }

// Count returns the number of triggers produced so far.
func (c PhysicsEventCount) Count() uint64 { return c.count }

// Size returns the serialized byte count.
func (c PhysicsEventCount) Size() uint32 {
	n := uint32(HeaderSize + 4 + 20)
	if c.bodyHeader != nil {
		n += BodyHeaderSize - 4
	}

	return n
}

// Type returns TypePhysicsEventCount.
func (c PhysicsEventCount) Type() ItemType { return TypePhysicsEventCount }

// ToRaw serializes the item, preserving a parsed body header.
func (c PhysicsEventCount) ToRaw() *RawItem {
	w := codec.NewWriter(endian.GetLittleEndianEngine())
	w.WriteUint32(c.offset)
	w.WriteUint32(c.divisor)
	w.WriteUint32(c.timestamp)
	w.WriteUint64(c.count)

	if c.bodyHeader != nil {
		return NewRawItemWithBodyHeader(TypePhysicsEventCount, *c.bodyHeader, w.Finish())
	}

	return NewRawItem(TypePhysicsEventCount, w.Finish())
}
