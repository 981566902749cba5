package v8

import (
	"fmt"

	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
	"github.com/daqforge/daqconv/errs"
)

// PhysicsEvent is one detector trigger: an opaque, self-delimited byte range
// copied verbatim from its producer. The swap flag records the byte order the
// bytes arrived in; the payload is never reordered because its internal
// structure is unknown.
type PhysicsEvent struct {
	body []byte
	swap bool
}

// NewPhysicsEvent wraps body as an event carried in the given byte order.
func NewPhysicsEvent(body []byte, swap bool) PhysicsEvent {
	return PhysicsEvent{body: body, swap: swap}
}

// Bytes returns the event's bytes, size prefix included.
func (e PhysicsEvent) Bytes() []byte {
	return e.body
}

// NeedsSwap reports whether the event bytes are in foreign byte order.
func (e PhysicsEvent) NeedsSwap() bool {
	return e.swap
}

// Words returns the event length in 16-bit words, truncating an odd byte.
func (e PhysicsEvent) Words() int {
	return len(e.body) / 2
}

// parseEvents delimits up to nEvents events from body according to the size
// policy. Event bytes are copied verbatim; only the leading size field is
// interpreted (swapped when the producing host's order differs).
func parseEvents(body []byte, nEvents int, swap bool, policy SizePolicy) ([]PhysicsEvent, error) {
	r := codec.NewReader(body, swap)
	events := make([]PhysicsEvent, 0, nEvents)

	for i := 0; i < nEvents; i++ {
		start := r.Pos()

		var nBytes int
		switch policy {
		case Inclusive16BitWords:
			w, err := r.Uint16()
			if err != nil {
				return nil, err
			}
			nBytes = int(w) * 2
		case Exclusive16BitWords:
			w, err := r.Uint16()
			if err != nil {
				return nil, err
			}
			nBytes = (int(w) + 1) * 2
		case Inclusive32BitWords:
			w, err := r.Uint32()
			if err != nil {
				return nil, err
			}
			nBytes = int(w) * 2
		case Inclusive32BitBytes:
			w, err := r.Uint32()
			if err != nil {
				return nil, err
			}
			nBytes = int(w)
		default:
			return nil, fmt.Errorf("%w: size policy %v", errs.ErrConfig, policy)
		}

		if nBytes <= 0 {
			return nil, fmt.Errorf("%w: event %d has zero size", errs.ErrMalformed, i)
		}
		if start+nBytes < r.Pos() {
			return nil, fmt.Errorf("%w: event %d declares %d bytes, smaller than its size field",
				errs.ErrMalformed, i, nBytes)
		}
		if start+nBytes > len(body) {
			return nil, fmt.Errorf("%w: event %d declares %d bytes with %d remaining",
				errs.ErrMalformed, i, nBytes, len(body)-start)
		}

		evt := make([]byte, nBytes)
		copy(evt, body[start:start+nBytes])
		events = append(events, NewPhysicsEvent(evt, swap))

		if err := r.Skip(start + nBytes - r.Pos()); err != nil {
			return nil, err
		}
	}

	return events, nil
}

// PhysicsEventBuffer is the physics container: a header plus a train of
// self-delimited events. It doubles as the accumulator used when packing
// per-record physics events into fixed-size buffers.
type PhysicsEventBuffer struct {
	header Header
	events []PhysicsEvent
	swap   bool
}

// NewPhysicsEventBuffer returns an empty container with the given header.
// The header's type is forced to DATABF.
func NewPhysicsEventBuffer(header Header) *PhysicsEventBuffer {
	header.Type = TypeData

	return &PhysicsEventBuffer{header: header}
}

// ParsePhysicsEventBuffer delimits the events of raw under cfg.SizePolicy.
// It fails with ErrKindMismatch unless the buffer type is DATABF.
func ParsePhysicsEventBuffer(raw *RawBuffer, cfg Config) (*PhysicsEventBuffer, error) {
	h := raw.Header()
	if h.Type != TypeData {
		return nil, fmt.Errorf("%w: %v is not a physics buffer", errs.ErrKindMismatch, h.Type)
	}

	events, err := parseEvents(raw.Body(), int(h.EntityCount), raw.NeedsSwap(), cfg.SizePolicy)
	if err != nil {
		return nil, err
	}

	return &PhysicsEventBuffer{header: h, events: events, swap: raw.NeedsSwap()}, nil
}

// Header returns the buffer header.
func (b *PhysicsEventBuffer) Header() Header {
	return b.header
}

// Events returns the delimited events in body order.
func (b *PhysicsEventBuffer) Events() []PhysicsEvent {
	return b.events
}

// EventCount returns the number of events held.
func (b *PhysicsEventBuffer) EventCount() int {
	return len(b.events)
}

// words returns the used size in 16-bit words, rounding an odd trailing byte
// up to a full word.
func (b *PhysicsEventBuffer) words() int {
	nBytes := HeaderSize
	for _, e := range b.events {
		nBytes += len(e.body)
	}

	return (nBytes + 1) / 2
}

// BytesFree returns the body bytes still available under cfg.BufferSize.
func (b *PhysicsEventBuffer) BytesFree(cfg Config) int {
	return cfg.BufferSize - b.words()*2
}

// AppendEvent adds e when the buffer stays within cfg.BufferSize and reports
// whether it was added.
func (b *PhysicsEventBuffer) AppendEvent(e PhysicsEvent, cfg Config) bool {
	if (b.words()+e.Words())*2 > cfg.BufferSize {
		return false
	}
	if len(b.events) == 0 {
		b.swap = e.NeedsSwap()
	}
	b.events = append(b.events, e)

	return true
}

// ToRaw serializes the container. When the events arrived in foreign byte
// order the header is written swapped wholesale, keeping the entire buffer
// consistently in the producing host's order; event bytes are never touched.
func (b *PhysicsEventBuffer) ToRaw(cfg Config) (*RawBuffer, error) {
	h := b.header
	h.Type = TypeData
	h.Words = uint16(b.words())
	h.EntityCount = uint16(len(b.events))

	w := codec.NewWriter(endian.GetLittleEndianEngine())
	for _, e := range b.events {
		w.WriteBytes(e.body)
	}
	body := w.Finish()

	total := HeaderSize + len(body)
	if total > cfg.BufferSize {
		return nil, fmt.Errorf("%w: %d bytes cannot fit in the %d byte buffer size",
			errs.ErrOverflow, total, cfg.BufferSize)
	}

	return serializeInto(h, b.swap, body, cfg)
}
