package v11

import (
	"fmt"

	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
	"github.com/daqforge/daqconv/errs"
)

// PeriodicScalers unifies the prior dialect's two scaler flavors behind an
// explicit incremental flag and interval divisor.
type PeriodicScalers struct {
	start       uint32
	end         uint32
	timestamp   uint32
	divisor     uint32
	incremental bool
	scalers     []uint32
	bodyHeader  *BodyHeader
}

// NewPeriodicScalers builds a scaler item without a body header.
func NewPeriodicScalers(start, end, timestamp, divisor uint32, incremental bool, scalers []uint32) PeriodicScalers {
	return PeriodicScalers{
		start:       start,
		end:         end,
		timestamp:   timestamp,
		divisor:     divisor,
		incremental: incremental,
		scalers:     scalers,
	}
}

// WithBodyHeader returns a copy of s carrying bh.
func (s PeriodicScalers) WithBodyHeader(bh BodyHeader) PeriodicScalers {
	s.bodyHeader = &bh

	return s
}

// ParsePeriodicScalers decodes a scaler item from raw, keeping any body
// header it carries.
func ParsePeriodicScalers(raw *RawItem) (PeriodicScalers, error) {
	if err := checkKind(raw, TypePeriodicScalers); err != nil {
		return PeriodicScalers{}, err
	}

	r := raw.PayloadReader()
	start, err := r.Uint32()
	if err != nil {
		return PeriodicScalers{}, err
	}
	end, err := r.Uint32()
	if err != nil {
		return PeriodicScalers{}, err
	}
	timestamp, err := r.Uint32()
	if err != nil {
		return PeriodicScalers{}, err
	}
	divisor, err := r.Uint32()
	if err != nil {
		return PeriodicScalers{}, err
	}
	count, err := r.Uint32()
	if err != nil {
		return PeriodicScalers{}, err
	}
	incremental, err := r.Uint32()
	if err != nil {
		return PeriodicScalers{}, err
	}

	if int(count)*4 > r.Remaining() {
		return PeriodicScalers{}, fmt.Errorf("%w: %d scalers declared with %d body bytes left",
			errs.ErrMalformed, count, r.Remaining())
	}
	scalers := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := r.Uint32()
		if err != nil {
			return PeriodicScalers{}, err
		}
		scalers = append(scalers, v)
	}

	return PeriodicScalers{
		start:       start,
		end:         end,
		timestamp:   timestamp,
		divisor:     divisor,
		incremental: incremental != 0,
		scalers:     scalers,
		bodyHeader:  raw.BodyHeader(),
	}, nil
}

// Start returns the interval start offset in divisor ticks.
func (s PeriodicScalers) Start() uint32 { return s.start }

// End returns the interval end offset in divisor ticks.
func (s PeriodicScalers) End() uint32 { return s.end }

// Timestamp returns the Unix wall-clock time of the readout.
func (s PeriodicScalers) Timestamp() uint32 { return s.timestamp }

// Divisor returns the interval divisor.
func (s PeriodicScalers) Divisor() uint32 { return s.divisor }

// IsIncremental reports whether the counters clear after each readout.
func (s PeriodicScalers) IsIncremental() bool { return s.incremental }

// Scalers returns the counter values.
func (s PeriodicScalers) Scalers() []uint32 { return s.scalers }

// HasBodyHeader reports whether the parsed item carried a body header.
func (s PeriodicScalers) HasBodyHeader() bool { return s.bodyHeader != nil }

// EventTimestamp returns the body header timestamp, or NullTimestamp when
// the item has none.
func (s PeriodicScalers) EventTimestamp() uint64 {
	if s.bodyHeader == nil {
		return NullTimestamp
	}

	return s.bodyHeader.Timestamp
}

// Size returns the serialized byte count.
func (s PeriodicScalers) Size() uint32 {
	n := uint32(HeaderSize + 4 + 24 + 4*len(s.scalers))
	if s.bodyHeader != nil {
		n += BodyHeaderSize - 4
	}

	return n
}

// Type returns TypePeriodicScalers.
func (s PeriodicScalers) Type() ItemType { return TypePeriodicScalers }

// ToRaw serializes the item, preserving a parsed body header.
func (s PeriodicScalers) ToRaw() *RawItem {
	w := codec.NewWriter(endian.GetLittleEndianEngine())
	w.WriteUint32(s.start)
	w.WriteUint32(s.end)
	w.WriteUint32(s.timestamp)
	w.WriteUint32(s.divisor)
	w.WriteUint32(uint32(len(s.scalers)))
	if s.incremental {
		w.WriteUint32(1)
	} else {
		w.WriteUint32(0)
	}
	for _, v := range s.scalers {
		w.WriteUint32(v)
	}

	if s.bodyHeader != nil {
		return NewRawItemWithBodyHeader(TypePeriodicScalers, *s.bodyHeader, w.Finish())
	}

	return NewRawItem(TypePeriodicScalers, w.Finish())
}
