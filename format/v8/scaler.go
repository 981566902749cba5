package v8

import (
	"fmt"

	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
	"github.com/daqforge/daqconv/errs"
)

// scalerReservedWords is the count of unused 16-bit words after each interval
// offset in a scaler body.
const scalerReservedWords = 3

// ScalerBuffer carries counter readings over a run-time interval. Both the
// periodic (SCALERBF) and snapshot (SNAPSCBF) tags parse into this type.
type ScalerBuffer struct {
	header      Header
	offsetBegin uint32
	offsetEnd   uint32
	scalers     []uint32
}

// NewScalerBuffer builds a scaler buffer from its semantic fields. The
// header's entity count and word count are recomputed on serialization; a
// header not already tagged as a scaler kind is tagged SCALERBF.
func NewScalerBuffer(header Header, offsetBegin, offsetEnd uint32, scalers []uint32) ScalerBuffer {
	if header.Type != TypeScaler && header.Type != TypeSnapshotScaler {
		header.Type = TypeScaler
	}

	return ScalerBuffer{
		header:      header,
		offsetBegin: offsetBegin,
		offsetEnd:   offsetEnd,
		scalers:     scalers,
	}
}

// ParseScalerBuffer decodes the scaler body of raw. It fails with
// ErrKindMismatch unless the buffer type is SCALERBF or SNAPSCBF.
func ParseScalerBuffer(raw *RawBuffer) (ScalerBuffer, error) {
	h := raw.Header()
	if h.Type != TypeScaler && h.Type != TypeSnapshotScaler {
		return ScalerBuffer{}, fmt.Errorf("%w: %v is not a scaler buffer", errs.ErrKindMismatch, h.Type)
	}

	r := codec.NewReader(raw.Body(), raw.NeedsSwap())

	offsetEnd, err := r.Uint32()
	if err != nil {
		return ScalerBuffer{}, err
	}
	if err := r.Skip(2 * scalerReservedWords); err != nil {
		return ScalerBuffer{}, err
	}
	offsetBegin, err := r.Uint32()
	if err != nil {
		return ScalerBuffer{}, err
	}
	if err := r.Skip(2 * scalerReservedWords); err != nil {
		return ScalerBuffer{}, err
	}

	scalers := make([]uint32, 0, h.EntityCount)
	for i := 0; i < int(h.EntityCount); i++ {
		v, err := r.Uint32()
		if err != nil {
			return ScalerBuffer{}, fmt.Errorf("scaler %d of %d: %w", i, h.EntityCount, err)
		}
		scalers = append(scalers, v)
	}

	return ScalerBuffer{
		header:      h,
		offsetBegin: offsetBegin,
		offsetEnd:   offsetEnd,
		scalers:     scalers,
	}, nil
}

// Header returns the buffer header.
func (b ScalerBuffer) Header() Header {
	return b.header
}

// OffsetBegin returns the interval start offset in seconds.
func (b ScalerBuffer) OffsetBegin() uint32 {
	return b.offsetBegin
}

// OffsetEnd returns the interval end offset in seconds.
func (b ScalerBuffer) OffsetEnd() uint32 {
	return b.offsetEnd
}

// Scalers returns the counter values.
func (b ScalerBuffer) Scalers() []uint32 {
	return b.scalers
}

func (b ScalerBuffer) words() int {
	return HeaderWords + 2*(2+scalerReservedWords) + 2*len(b.scalers)
}

// ToRaw serializes the buffer, recomputing the word and entity counts and
// zero-filling the reserved words.
func (b ScalerBuffer) ToRaw(cfg Config) (*RawBuffer, error) {
	h := b.header
	h.Words = uint16(b.words())
	h.EntityCount = uint16(len(b.scalers))

	w := codec.NewWriter(endian.GetLittleEndianEngine())
	w.WriteUint32(b.offsetEnd)
	w.WriteZeros(2 * scalerReservedWords)
	w.WriteUint32(b.offsetBegin)
	w.WriteZeros(2 * scalerReservedWords)
	for _, v := range b.scalers {
		w.WriteUint32(v)
	}

	return serializeInto(h, false, w.Finish(), cfg)
}
