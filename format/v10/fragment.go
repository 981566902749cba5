package v10

import (
	"fmt"

	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
	"github.com/daqforge/daqconv/errs"
)

// Fragment is an event-builder record: an opaque sub-payload stamped with the
// event clock, a source id, and a barrier type. The EVB_UNKNOWN_PAYLOAD tag
// shares the layout and marks payloads the builder could not classify.
type Fragment struct {
	typ       ItemType
	timestamp uint64
	source    uint32
	barrier   uint32
	payload   []byte
}

// NewFragment builds a fragment item of the given tag.
func NewFragment(typ ItemType, timestamp uint64, source, barrier uint32, payload []byte) Fragment {
	return Fragment{typ: typ, timestamp: timestamp, source: source, barrier: barrier, payload: payload}
}

// ParseFragment decodes a fragment item from raw, checking the declared
// payload size against the bytes present.
func ParseFragment(raw *RawItem) (Fragment, error) {
	if err := checkKind(raw, TypeFragment, TypeUnknownPayload); err != nil {
		return Fragment{}, err
	}

	r := raw.Reader()
	timestamp, err := r.Uint64()
	if err != nil {
		return Fragment{}, err
	}
	source, err := r.Uint32()
	if err != nil {
		return Fragment{}, err
	}
	payloadSize, err := r.Uint32()
	if err != nil {
		return Fragment{}, err
	}
	barrier, err := r.Uint32()
	if err != nil {
		return Fragment{}, err
	}

	if int(payloadSize) != r.Remaining() {
		return Fragment{}, fmt.Errorf("%w: fragment declares %d payload bytes, %d present",
			errs.ErrMalformed, payloadSize, r.Remaining())
	}
	payload, err := r.Bytes(int(payloadSize))
	if err != nil {
		return Fragment{}, err
	}

	return Fragment{typ: raw.Type(), timestamp: timestamp, source: source, barrier: barrier, payload: payload}, nil
}

// Type returns the fragment tag.
func (f Fragment) Type() ItemType { return f.typ }

// Timestamp returns the event-clock timestamp.
func (f Fragment) Timestamp() uint64 { return f.timestamp }

// Source returns the source id.
func (f Fragment) Source() uint32 { return f.source }

// Barrier returns the barrier type.
func (f Fragment) Barrier() uint32 { return f.barrier }

// Payload returns the opaque sub-payload.
func (f Fragment) Payload() []byte { return f.payload }

// Size returns the serialized byte count.
func (f Fragment) Size() uint32 {
	return uint32(HeaderSize + 20 + len(f.payload))
}

// ToRaw serializes the item in native order.
func (f Fragment) ToRaw() *RawItem {
	w := codec.NewWriter(endian.GetLittleEndianEngine())
	w.WriteUint64(f.timestamp)
	w.WriteUint32(f.source)
	w.WriteUint32(uint32(len(f.payload)))
	w.WriteUint32(f.barrier)
	w.WriteBytes(f.payload)

	return NewRawItem(f.typ, w.Finish())
}
