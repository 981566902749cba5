package v10

import (
	"strings"

	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
)

// StateChange marks a run transition: begin, end, pause, or resume.
type StateChange struct {
	typ       ItemType
	run       uint32
	offset    uint32
	timestamp uint32
	title     string
}

// NewStateChange builds a state-change item. Titles longer than 79
// characters are truncated so the serialized field keeps its NUL.
func NewStateChange(typ ItemType, run, offset, timestamp uint32, title string) StateChange {
	if len(title) > TitleSize-1 {
		title = title[:TitleSize-1]
	}

	return StateChange{typ: typ, run: run, offset: offset, timestamp: timestamp, title: title}
}

// ParseStateChange decodes a state-change item from raw.
func ParseStateChange(raw *RawItem) (StateChange, error) {
	if err := checkKind(raw, TypeBeginRun, TypeEndRun, TypePauseRun, TypeResumeRun); err != nil {
		return StateChange{}, err
	}

	r := raw.Reader()
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
	titleBytes, err := r.Bytes(TitleSize)
	if err != nil {
		return StateChange{}, err
	}
	title := string(titleBytes)
	if i := strings.IndexByte(title, 0); i >= 0 {
		title = title[:i]
	}

	return StateChange{typ: raw.Type(), run: run, offset: offset, timestamp: timestamp, title: title}, nil
}

// Type returns the state-change tag.
func (s StateChange) Type() ItemType { return s.typ }

// Run returns the run number.
func (s StateChange) Run() uint32 { return s.run }

// Offset returns the elapsed seconds since the start of the run.
func (s StateChange) Offset() uint32 { return s.offset }

// Timestamp returns the Unix wall-clock time of the transition.
func (s StateChange) Timestamp() uint32 { return s.timestamp }

// Title returns the run title.
func (s StateChange) Title() string { return s.title }

// Size returns the serialized byte count.
func (s StateChange) Size() uint32 {
	return HeaderSize + 12 + TitleSize
}

// ToRaw serializes the item in native order.
func (s StateChange) ToRaw() *RawItem {
	w := codec.NewWriter(endian.GetLittleEndianEngine())
	w.WriteUint32(s.run)
	w.WriteUint32(s.offset)
	w.WriteUint32(s.timestamp)

	title := make([]byte, TitleSize)
	copy(title, s.title)
	w.WriteBytes(title)

	return NewRawItem(s.typ, w.Finish())
}
