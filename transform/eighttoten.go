package transform

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/daqforge/daqconv/errs"
	"github.com/daqforge/daqconv/format/v10"
	"github.com/daqforge/daqconv/format/v8"
)

// EightToTen converts fixed-size buffers into per-record ring items.
//
// A physics container fans out into one ring item per delimited event: Push
// returns the first and queues the rest, which the mediator drains before
// the next input. Scaler and text buffers have no wall-clock field, so a
// Unix timestamp is synthesized at conversion time; the clock is injectable
// so fixtures stay deterministic.
type EightToTen struct {
	cfg     v8.Config
	log     *slog.Logger
	now     func() time.Time
	state   State
	pending []*v10.RawItem
}

// NewEightToTen returns a converter reading buffers laid out per cfg.
func NewEightToTen(cfg v8.Config, log *slog.Logger) *EightToTen {
	if log == nil {
		log = slog.Default()
	}

	return &EightToTen{cfg: cfg, log: log, now: time.Now}
}

// SetClock overrides the wall-clock used for synthesized timestamps.
func (t *EightToTen) SetClock(now func() time.Time) {
	t.now = now
}

// State returns the converter's buffering state.
func (t *EightToTen) State() State {
	return t.state
}

// PendingEventCount returns the number of queued physics events.
func (t *EightToTen) PendingEventCount() int {
	return len(t.pending)
}

// Push converts one buffer, returning zero or more ring items. For physics
// containers only the first event is returned; the rest queue until
// DrainPendingEvents.
func (t *EightToTen) Push(raw *v8.RawBuffer) ([]*v10.RawItem, error) {
	if t.state == StateInitial {
		t.state = StateRunning
	}

	switch h := raw.Header(); h.Type {
	case v8.TypeScaler, v8.TypeSnapshotScaler:
		item, err := t.convertScaler(raw)
		if err != nil {
			return nil, err
		}

		return []*v10.RawItem{item}, nil

	case v8.TypeBeginRun, v8.TypeEndRun, v8.TypePauseRun, v8.TypeResumeRun:
		item, err := t.convertControl(raw)
		if err != nil {
			return nil, err
		}

		return []*v10.RawItem{item}, nil

	case v8.TypeData:
		return t.convertPhysics(raw)

	case v8.TypeStateVar, v8.TypeRunVar, v8.TypePacketDoc, v8.TypeParamDescription:
		item, err := t.convertText(raw)
		if err != nil {
			return nil, err
		}

		return []*v10.RawItem{item}, nil

	default:
		return nil, fmt.Errorf("%w: no mapping for %v", errs.ErrUnsupportedType, h.Type)
	}
}

func (t *EightToTen) convertScaler(raw *v8.RawBuffer) (*v10.RawItem, error) {
	sclr, err := v8.ParseScalerBuffer(raw)
	if err != nil {
		return nil, err
	}

	item := v10.NewIncrementalScalers(sclr.OffsetBegin(), sclr.OffsetEnd(),
		uint32(t.now().Unix()), sclr.Scalers())

	return item.ToRaw(), nil
}

func (t *EightToTen) convertControl(raw *v8.RawBuffer) (*v10.RawItem, error) {
	ctl, err := v8.ParseControlBuffer(raw)
	if err != nil {
		return nil, err
	}

	typ, err := mapBufferControlType(ctl.Header().Type)
	if err != nil {
		return nil, err
	}

	item := v10.NewStateChange(typ, uint32(ctl.Header().Run), ctl.Offset(),
		uint32(ctl.Time().Unix()), ctl.Title())

	return item.ToRaw(), nil
}

func (t *EightToTen) convertPhysics(raw *v8.RawBuffer) ([]*v10.RawItem, error) {
	buf, err := v8.ParsePhysicsEventBuffer(raw, t.cfg)
	if err != nil {
		return nil, err
	}

	events := buf.Events()
	if len(events) == 0 {
		return nil, nil
	}

	t.state = StateFlushing
	t.pending = t.pending[:0]
	items := make([]*v10.RawItem, 0, len(events))
	for _, e := range events {
		items = append(items, v10.NewPhysicsEvent(e.Bytes(), e.NeedsSwap()).ToRaw())
	}

	t.pending = append(t.pending, items[1:]...)
	if len(t.pending) > 0 {
		t.state = StateDraining
	} else {
		t.state = StateRunning
	}

	return items[:1], nil
}

func (t *EightToTen) convertText(raw *v8.RawBuffer) (*v10.RawItem, error) {
	txt, err := v8.ParseTextBuffer(raw)
	if err != nil {
		return nil, err
	}

	typ, err := mapBufferTextType(txt.Header().Type)
	if err != nil {
		return nil, err
	}

	item := v10.NewText(typ, 0, uint32(t.now().Unix()), txt.Strings())

	return item.ToRaw(), nil
}

// DrainPendingEvents returns and clears the queued physics events. The
// mediator calls this right after a physics conversion so the fan-out stays
// contiguous in the output stream.
func (t *EightToTen) DrainPendingEvents() []*v10.RawItem {
	out := t.pending
	t.pending = nil
	if t.state == StateDraining {
		t.state = StateRunning
	}

	return out
}

// Flush emits any queued physics events. Invoked at end of stream.
func (t *EightToTen) Flush() ([]*v10.RawItem, error) {
	out := t.DrainPendingEvents()
	t.state = StateRunning

	return out, nil
}

func mapBufferControlType(typ v8.BufferType) (v10.ItemType, error) {
	switch typ {
	case v8.TypeBeginRun:
		return v10.TypeBeginRun, nil
	case v8.TypeEndRun:
		return v10.TypeEndRun, nil
	case v8.TypePauseRun:
		return v10.TypePauseRun, nil
	case v8.TypeResumeRun:
		return v10.TypeResumeRun, nil
	default:
		return 0, fmt.Errorf("%w: %v is not a control buffer", errs.ErrUnsupportedType, typ)
	}
}

func mapBufferTextType(typ v8.BufferType) (v10.ItemType, error) {
	switch typ {
	case v8.TypeStateVar, v8.TypeRunVar:
		return v10.TypeMonitoredVariables, nil
	case v8.TypePacketDoc:
		return v10.TypePacketTypes, nil
	default:
		return 0, fmt.Errorf("%w: no ring item mapping for text buffer %v", errs.ErrUnsupportedType, typ)
	}
}
