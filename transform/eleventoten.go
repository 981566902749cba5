package transform

import (
	"log/slog"

	"github.com/daqforge/daqconv/format/v10"
	"github.com/daqforge/daqconv/format/v11"
)

// ElevenToTen converts body-header dialect items back down. Body headers are
// discarded everywhere except event-builder fragments, whose body header
// fields move into the downgraded record's body. Items the older dialect
// cannot express are dropped.
type ElevenToTen struct {
	log   *slog.Logger
	state State
}

// NewElevenToTen returns the stateless downgrade converter.
func NewElevenToTen(log *slog.Logger) *ElevenToTen {
	if log == nil {
		log = slog.Default()
	}

	return &ElevenToTen{log: log}
}

// State returns the converter's buffering state.
func (t *ElevenToTen) State() State {
	return t.state
}

// Push converts one item into at most one downgraded item. Types with no
// downgrade (format announcements, glom info, abnormal end, unknowns) return
// no output and no error.
func (t *ElevenToTen) Push(item *v11.RawItem) ([]*v10.RawItem, error) {
	if t.state == StateInitial {
		t.state = StateRunning
	}

	switch item.Type() {
	case v11.TypePeriodicScalers:
		return t.convertScaler(item)

	case v11.TypeBeginRun, v11.TypeEndRun, v11.TypePauseRun, v11.TypeResumeRun:
		sc, err := v11.ParseStateChange(item)
		if err != nil {
			return nil, err
		}
		out := v10.NewStateChange(v10.ItemType(sc.Type()), sc.Run(), sc.Offset(),
			sc.Timestamp(), sc.Title())

		return []*v10.RawItem{out.ToRaw()}, nil

	case v11.TypePhysicsEvent:
		pe, err := v11.ParsePhysicsEvent(item)
		if err != nil {
			return nil, err
		}
		out := v10.NewPhysicsEvent(pe.Body(), pe.NeedsSwap())

		return []*v10.RawItem{out.ToRaw()}, nil

	case v11.TypePhysicsEventCount:
		c, err := v11.ParsePhysicsEventCount(item)
		if err != nil {
			return nil, err
		}
		out := v10.NewPhysicsEventCount(c.Offset(), c.Timestamp(), c.Count())

		return []*v10.RawItem{out.ToRaw()}, nil

	case v11.TypePacketTypes, v11.TypeMonitoredVariables:
		txt, err := v11.ParseText(item)
		if err != nil {
			return nil, err
		}
		out := v10.NewText(v10.ItemType(txt.Type()), txt.Offset(), txt.Timestamp(), txt.Strings())

		return []*v10.RawItem{out.ToRaw()}, nil

	case v11.TypeFragment, v11.TypeUnknownPayload:
		f, err := v11.ParseFragment(item)
		if err != nil {
			return nil, err
		}
		out := v10.NewFragment(v10.ItemType(f.Type()), f.Timestamp(), f.Source(),
			f.Barrier(), f.Payload())

		return []*v10.RawItem{out.ToRaw()}, nil

	default:
		// RING_FORMAT, EVB_GLOM_INFO, ABNORMAL_ENDRUN, and unknown types
		// have no downgrade.
		t.log.Debug("dropping ring item with no downgrade", "type", item.Type().String())

		return nil, nil
	}
}

// convertScaler dispatches on the incremental flag: incremental readouts
// downgrade to the plain scaler record (divisor and event timestamp
// discarded), free-running ones to the timestamped record (divisor kept,
// event timestamp drawn from the body header when present).
func (t *ElevenToTen) convertScaler(item *v11.RawItem) ([]*v10.RawItem, error) {
	s, err := v11.ParsePeriodicScalers(item)
	if err != nil {
		return nil, err
	}

	if s.IsIncremental() {
		out := v10.NewIncrementalScalers(s.Start(), s.End(), s.Timestamp(), s.Scalers())

		return []*v10.RawItem{out.ToRaw()}, nil
	}

	out := v10.NewTimestampedScalers(s.EventTimestamp(), s.Start(), s.End(),
		s.Divisor(), s.Timestamp(), s.Scalers())

	return []*v10.RawItem{out.ToRaw()}, nil
}

// Flush is a no-op; the converter holds nothing between pushes.
func (t *ElevenToTen) Flush() ([]*v10.RawItem, error) {
	t.state = StateRunning

	return nil, nil
}
