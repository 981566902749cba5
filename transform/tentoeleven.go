package transform

import (
	"fmt"
	"log/slog"

	"github.com/daqforge/daqconv/errs"
	"github.com/daqforge/daqconv/format/v10"
	"github.com/daqforge/daqconv/format/v11"
)

// TenToEleven converts ring items to the body-header dialect. The mapping is
// stateless and one-to-one: no output ever carries a body header except
// event-builder fragments, where the body's timestamp, source, and barrier
// migrate into a created body header.
type TenToEleven struct {
	log   *slog.Logger
	state State
}

// NewTenToEleven returns the stateless upgrade converter.
func NewTenToEleven(log *slog.Logger) *TenToEleven {
	if log == nil {
		log = slog.Default()
	}

	return &TenToEleven{log: log}
}

// State returns the converter's buffering state.
func (t *TenToEleven) State() State {
	return t.state
}

// Push converts one ring item into exactly one upgraded item, or none.
func (t *TenToEleven) Push(item *v10.RawItem) ([]*v11.RawItem, error) {
	if t.state == StateInitial {
		t.state = StateRunning
	}

	switch item.Type() {
	case v10.TypeIncrementalScalers:
		s, err := v10.ParseIncrementalScalers(item)
		if err != nil {
			return nil, err
		}
		out := v11.NewPeriodicScalers(s.Start(), s.End(), s.Timestamp(), 1, true, s.Scalers())

		return []*v11.RawItem{out.ToRaw()}, nil

	case v10.TypeTimestampedScalers:
		s, err := v10.ParseTimestampedScalers(item)
		if err != nil {
			return nil, err
		}
		// The event timestamp has no home without a body header; discarded.
		out := v11.NewPeriodicScalers(s.Start(), s.Stop(), s.Timestamp(), 1, false, s.Scalers())

		return []*v11.RawItem{out.ToRaw()}, nil

	case v10.TypeBeginRun, v10.TypeEndRun, v10.TypePauseRun, v10.TypeResumeRun:
		sc, err := v10.ParseStateChange(item)
		if err != nil {
			return nil, err
		}
		out := v11.NewStateChange(v11.ItemType(sc.Type()), sc.Run(), sc.Offset(),
			sc.Timestamp(), 1, sc.Title())

		return []*v11.RawItem{out.ToRaw()}, nil

	case v10.TypePhysicsEvent:
		pe, err := v10.ParsePhysicsEvent(item)
		if err != nil {
			return nil, err
		}
		out := v11.NewPhysicsEvent(pe.Body(), pe.NeedsSwap())

		return []*v11.RawItem{out.ToRaw()}, nil

	case v10.TypePhysicsEventCount:
		c, err := v10.ParsePhysicsEventCount(item)
		if err != nil {
			return nil, err
		}
		out := v11.NewPhysicsEventCount(c.Offset(), 1, c.Timestamp(), c.Count())

		return []*v11.RawItem{out.ToRaw()}, nil

	case v10.TypePacketTypes, v10.TypeMonitoredVariables:
		txt, err := v10.ParseText(item)
		if err != nil {
			return nil, err
		}
		out := v11.NewText(v11.ItemType(txt.Type()), txt.Offset(), txt.Timestamp(), 1, txt.Strings())

		return []*v11.RawItem{out.ToRaw()}, nil

	case v10.TypeFragment, v10.TypeUnknownPayload:
		f, err := v10.ParseFragment(item)
		if err != nil {
			return nil, err
		}
		out := v11.NewFragment(v11.ItemType(f.Type()), f.Timestamp(), f.Source(),
			f.Barrier(), f.Payload())

		return []*v11.RawItem{out.ToRaw()}, nil

	default:
		return nil, fmt.Errorf("%w: no mapping for %v", errs.ErrUnsupportedType, item.Type())
	}
}

// Flush is a no-op; the converter holds nothing between pushes.
func (t *TenToEleven) Flush() ([]*v11.RawItem, error) {
	t.state = StateRunning

	return nil, nil
}
