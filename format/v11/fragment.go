package v11

import (
	"fmt"

	"github.com/daqforge/daqconv/errs"
)

// Fragment is an event-builder record. Unlike the other variants the
// timestamp, source, and barrier live in a mandatory body header; the body
// proper is the opaque sub-payload, its size derived from the item size.
type Fragment struct {
	typ     ItemType
	header  BodyHeader
	payload []byte
}

// NewFragment builds a fragment item of the given tag.
func NewFragment(typ ItemType, timestamp uint64, source, barrier uint32, payload []byte) Fragment {
	return Fragment{
		typ:     typ,
		header:  BodyHeader{Timestamp: timestamp, Source: source, Barrier: barrier},
		payload: payload,
	}
}

// ParseFragment decodes a fragment item from raw. A fragment without a body
// header is malformed.
func ParseFragment(raw *RawItem) (Fragment, error) {
	if err := checkKind(raw, TypeFragment, TypeUnknownPayload); err != nil {
		return Fragment{}, err
	}
	if !raw.HasBodyHeader() {
		return Fragment{}, fmt.Errorf("%w: fragment without body header", errs.ErrMalformed)
	}

	src := raw.Payload()
	payload := make([]byte, len(src))
	copy(payload, src)

	return Fragment{typ: raw.Type(), header: *raw.BodyHeader(), payload: payload}, nil
}

// Type returns the fragment tag.
func (f Fragment) Type() ItemType { return f.typ }

// Timestamp returns the event-clock timestamp.
func (f Fragment) Timestamp() uint64 { return f.header.Timestamp }

// Source returns the source id.
func (f Fragment) Source() uint32 { return f.header.Source }

// Barrier returns the barrier type.
func (f Fragment) Barrier() uint32 { return f.header.Barrier }

// Payload returns the opaque sub-payload.
func (f Fragment) Payload() []byte { return f.payload }

// Size returns the serialized byte count.
func (f Fragment) Size() uint32 {
	return uint32(HeaderSize + BodyHeaderSize + len(f.payload))
}

// ToRaw serializes the item with its body header.
func (f Fragment) ToRaw() *RawItem {
	return NewRawItemWithBodyHeader(f.typ, f.header, f.payload)
}
