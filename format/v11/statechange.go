package v11

import (
	"strings"

	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
)

// StateChange marks a run transition: begin, end, pause, or resume. Relative
// to the prior dialect it adds the offset divisor for sub-second elapsed
// times.
type StateChange struct {
	typ        ItemType
	run        uint32
	offset     uint32
	timestamp  uint32
	divisor    uint32
	title      string
	bodyHeader *BodyHeader
}

// NewStateChange builds a state-change item without a body header. Titles
// longer than 79 characters are truncated.
func NewStateChange(typ ItemType, run, offset, timestamp, divisor uint32, title string) StateChange {
	if len(title) > TitleSize-1 {
		title = title[:TitleSize-1]
	}

	return StateChange{typ: typ, run: run, offset: offset, timestamp: timestamp, divisor: divisor, title: title}
}

// ParseStateChange decodes a state-change item from raw, keeping any body
// header it carries.
func ParseStateChange(raw *RawItem) (StateChange, error) {
	if err := checkKind(raw, TypeBeginRun, TypeEndRun, TypePauseRun, TypeResumeRun); err != nil {
		return StateChange{}, err
	}

	r := raw.PayloadReader()
	run, err := r.Uint32()
	if err != nil {
		return StateChange{}, err
	}
	offset, err := r.Uint32()
	if err != nil {
		return StateChange{}, err
	}
	timestamp, err := r.Uint32()
	if err != nil {
		return StateChange{}, err
	}
	divisor, err := r.Uint32()
	if err != nil {
		return StateChange{}, err
	}
	titleBytes, err := r.Bytes(TitleSize)
	if err != nil {
		return StateChange{}, err
	}
	title := string(titleBytes)
	if i := strings.IndexByte(title, 0); i >= 0 {
		title = title[:i]
	}

	return StateChange{
		typ:        raw.Type(),
		run:        run,
		offset:     offset,
		timestamp:  timestamp,
		divisor:    divisor,
		title:      title,
		bodyHeader: raw.BodyHeader(),
	}, nil
}

// Type returns the state-change tag.
func (s StateChange) Type() ItemType { return s.typ }

// Run returns the run number.
func (s StateChange) Run() uint32 { return s.run }

// Offset returns the elapsed time since the start of the run, in divisor
// ticks.
func (s StateChange) Offset() uint32 { return s.offset }

// Timestamp returns the Unix wall-clock time of the transition.
func (s StateChange) Timestamp() uint32 { return s.timestamp }

// Divisor returns the offset divisor.
func (s StateChange) Divisor() uint32 { return s.divisor }

// Title returns the run title.
func (s StateChange) Title() string { return s.title }

// HasBodyHeader reports whether the parsed item carried a body header.
func (s StateChange) HasBodyHeader() bool { return s.bodyHeader != nil }

// Size returns the serialized byte count.
func (s StateChange) Size() uint32 {
	n := uint32(HeaderSize + 4 + 16 + TitleSize)
	if s.bodyHeader != nil {
		n += BodyHeaderSize - 4
	}

	return n
}

// ToRaw serializes the item, preserving a parsed body header.
func (s StateChange) ToRaw() *RawItem {
	w := codec.NewWriter(endian.GetLittleEndianEngine())
	w.WriteUint32(s.run)
	w.WriteUint32(s.offset)
	w.WriteUint32(s.timestamp)
	w.WriteUint32(s.divisor)

	title := make([]byte, TitleSize)
	copy(title, s.title)
	w.WriteBytes(title)

	if s.bodyHeader != nil {
		return NewRawItemWithBodyHeader(s.typ, *s.bodyHeader, w.Finish())
	}

	return NewRawItem(s.typ, w.Finish())
}
