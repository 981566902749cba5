package v10

import (
	"fmt"

	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
	"github.com/daqforge/daqconv/errs"
)

// IncrementalScalers is the periodic scaler readout: counters cleared after
// each read, with interval offsets in whole seconds.
type IncrementalScalers struct {
	start     uint32
	end       uint32
	timestamp uint32
	scalers   []uint32
}

// NewIncrementalScalers builds an incremental scaler item.
func NewIncrementalScalers(start, end, timestamp uint32, scalers []uint32) IncrementalScalers {
	return IncrementalScalers{start: start, end: end, timestamp: timestamp, scalers: scalers}
}

// ParseIncrementalScalers decodes an incremental scaler item from raw.
func ParseIncrementalScalers(raw *RawItem) (IncrementalScalers, error) {
	if err := checkKind(raw, TypeIncrementalScalers); err != nil {
		return IncrementalScalers{}, err
	}

	r := raw.Reader()
	start, err := r.Uint32()
	if err != nil {
		return IncrementalScalers{}, err
	}
	end, err := r.Uint32()
	if err != nil {
		return IncrementalScalers{}, err
	}
	timestamp, err := r.Uint32()
	if err != nil {
		return IncrementalScalers{}, err
	}
	count, err := r.Uint32()
	if err != nil {
		return IncrementalScalers{}, err
	}
	scalers, err := readScalers(r, count)
	if err != nil {
		return IncrementalScalers{}, err
	}

	return IncrementalScalers{start: start, end: end, timestamp: timestamp, scalers: scalers}, nil
}

// Start returns the interval start offset in seconds.
func (s IncrementalScalers) Start() uint32 { return s.start }

// End returns the interval end offset in seconds.
func (s IncrementalScalers) End() uint32 { return s.end }

// Timestamp returns the Unix wall-clock time of the readout.
func (s IncrementalScalers) Timestamp() uint32 { return s.timestamp }

// Scalers returns the counter values.
func (s IncrementalScalers) Scalers() []uint32 { return s.scalers }

// Size returns the serialized byte count.
func (s IncrementalScalers) Size() uint32 {
	return uint32(HeaderSize + 16 + 4*len(s.scalers))
}

// Type returns TypeIncrementalScalers.
func (s IncrementalScalers) Type() ItemType { return TypeIncrementalScalers }

// ToRaw serializes the item in native order.
func (s IncrementalScalers) ToRaw() *RawItem {
	w := codec.NewWriter(endian.GetLittleEndianEngine())
	w.WriteUint32(s.start)
	w.WriteUint32(s.end)
	w.WriteUint32(s.timestamp)
	w.WriteUint32(uint32(len(s.scalers)))
	for _, v := range s.scalers {
		w.WriteUint32(v)
	}

	return NewRawItem(TypeIncrementalScalers, w.Finish())
}

// TimestampedScalers is the non-incremental scaler readout, synchronized to
// the event clock: counters run freely and the interval carries a divisor
// for sub-second offsets.
type TimestampedScalers struct {
	eventTimestamp uint64
	start          uint32
	stop           uint32
	divisor        uint32
	timestamp      uint32
	scalers        []uint32
}

// NewTimestampedScalers builds a timestamped non-incremental scaler item.
func NewTimestampedScalers(eventTimestamp uint64, start, stop, divisor, timestamp uint32, scalers []uint32) TimestampedScalers {
	return TimestampedScalers{
		eventTimestamp: eventTimestamp,
		start:          start,
		stop:           stop,
		divisor:        divisor,
		timestamp:      timestamp,
		scalers:        scalers,
	}
}

// ParseTimestampedScalers decodes a timestamped scaler item from raw.
func ParseTimestampedScalers(raw *RawItem) (TimestampedScalers, error) {
	if err := checkKind(raw, TypeTimestampedScalers); err != nil {
		return TimestampedScalers{}, err
	}

	r := raw.Reader()
	eventTimestamp, err := r.Uint64()
	if err != nil {
		return TimestampedScalers{}, err
	}
	start, err := r.Uint32()
	if err != nil {
		return TimestampedScalers{}, err
	}
	stop, err := r.Uint32()
	if err != nil {
		return TimestampedScalers{}, err
	}
	divisor, err := r.Uint32()
	if err != nil {
		return TimestampedScalers{}, err
	}
	timestamp, err := r.Uint32()
	if err != nil {
		return TimestampedScalers{}, err
	}
	count, err := r.Uint32()
	if err != nil {
		return TimestampedScalers{}, err
	}
	scalers, err := readScalers(r, count)
	if err != nil {
		return TimestampedScalers{}, err
	}

	return TimestampedScalers{
		eventTimestamp: eventTimestamp,
		start:          start,
		stop:           stop,
		divisor:        divisor,
		timestamp:      timestamp,
		scalers:        scalers,
	}, nil
}

// EventTimestamp returns the event-clock timestamp of the readout.
func (s TimestampedScalers) EventTimestamp() uint64 { return s.eventTimestamp }

// Start returns the interval start offset.
func (s TimestampedScalers) Start() uint32 { return s.start }

// Stop returns the interval end offset.
func (s TimestampedScalers) Stop() uint32 { return s.stop }

// Divisor returns the interval divisor for sub-second offsets.
func (s TimestampedScalers) Divisor() uint32 { return s.divisor }

// Timestamp returns the Unix wall-clock time of the readout.
func (s TimestampedScalers) Timestamp() uint32 { return s.timestamp }

// Scalers returns the counter values.
func (s TimestampedScalers) Scalers() []uint32 { return s.scalers }

// Size returns the serialized byte count.
func (s TimestampedScalers) Size() uint32 {
	return uint32(HeaderSize + 28 + 4*len(s.scalers))
}

// Type returns TypeTimestampedScalers.
func (s TimestampedScalers) Type() ItemType { return TypeTimestampedScalers }

// ToRaw serializes the item in native order.
func (s TimestampedScalers) ToRaw() *RawItem {
	w := codec.NewWriter(endian.GetLittleEndianEngine())
	w.WriteUint64(s.eventTimestamp)
	w.WriteUint32(s.start)
	w.WriteUint32(s.stop)
	w.WriteUint32(s.divisor)
	w.WriteUint32(s.timestamp)
	w.WriteUint32(uint32(len(s.scalers)))
	for _, v := range s.scalers {
		w.WriteUint32(v)
	}

	return NewRawItem(TypeTimestampedScalers, w.Finish())
}

func readScalers(r *codec.Reader, count uint32) ([]uint32, error) {
	if int(count)*4 > r.Remaining() {
		return nil, fmt.Errorf("%w: %d scalers declared with %d body bytes left",
			errs.ErrMalformed, count, r.Remaining())
	}

	scalers := make([]uint32, 0, count)
	for i := uint32(0); i < count; i++ {
		v, err := r.Uint32()
		if err != nil {
			return nil, err
		}
		scalers = append(scalers, v)
	}

	return scalers, nil
}
