package transform

import (
	"fmt"
	"log/slog"

	"github.com/daqforge/daqconv/errs"
	"github.com/daqforge/daqconv/format/v10"
	"github.com/daqforge/daqconv/format/v8"
)

// TenToEight converts per-record ring items into fixed-size buffers.
//
// Physics events are deferred: they accumulate into the current physics
// buffer, which is emitted only when an event no longer fits or fills it
// exactly. Text items pack greedily and may expand into several buffers; the
// first is returned from Push and the rest staged for the mediator to drain.
// Stream-wide header state (run number, trigger count, sampling factor) is
// captured from the records that carry it.
type TenToEight struct {
	cfg      v8.Config
	log      *slog.Logger
	state    State
	run      uint16
	triggers uint64
	sampling float64
	physics  *v8.PhysicsEventBuffer
	staged   []*v8.TextBuffer
}

// NewTenToEight returns a converter emitting buffers sized per cfg.
func NewTenToEight(cfg v8.Config, log *slog.Logger) *TenToEight {
	if log == nil {
		log = slog.Default()
	}
	t := &TenToEight{
		cfg:      cfg,
		log:      log,
		sampling: 1.0,
	}
	t.startNewPhysicsBuffer()

	return t
}

// State returns the converter's buffering state.
func (t *TenToEight) State() State {
	return t.state
}

// Run returns the run number captured from the last state change.
func (t *TenToEight) Run() uint16 {
	return t.run
}

// sequence scales the processed trigger count by the sampling factor; the
// result is stamped into every emitted buffer header.
func (t *TenToEight) sequence() uint32 {
	return uint32(float64(t.triggers) / t.sampling)
}

func (t *TenToEight) newHeader(typ v8.BufferType) v8.Header {
	h := v8.NewHeader()
	h.Type = typ
	h.Run = t.run
	h.Sequence = t.sequence()

	return h
}

func (t *TenToEight) startNewPhysicsBuffer() {
	t.physics = v8.NewPhysicsEventBuffer(t.newHeader(v8.TypeData))
}

// PhysicsBufferEventCount returns the number of events held in the physics
// accumulator.
func (t *TenToEight) PhysicsBufferEventCount() int {
	return t.physics.EventCount()
}

// StagedTextCount returns the number of overflow text buffers awaiting drain.
func (t *TenToEight) StagedTextCount() int {
	return len(t.staged)
}

// typeDemandsFlush reports whether an input type forces the physics
// accumulator out first, preserving stream order.
func typeDemandsFlush(typ v10.ItemType) bool {
	switch typ {
	case v10.TypePhysicsEvent, v10.TypePhysicsEventCount, v10.TypeFragment, v10.TypeUnknownPayload:
		return false
	default:
		return true
	}
}

// Push converts one ring item, returning zero or more buffers in emission
// order. Inputs with no mapping return ErrUnsupportedType and the stream may
// continue; like any other non-physics input they first flush a non-empty
// physics accumulator, and that buffer is returned along with the error.
func (t *TenToEight) Push(item *v10.RawItem) ([]*v8.RawBuffer, error) {
	if t.state == StateInitial {
		t.state = StateRunning
	}

	var out []*v8.RawBuffer
	if typeDemandsFlush(item.Type()) && t.physics.EventCount() > 0 {
		t.state = StateFlushing
		buf, err := t.physics.ToRaw(t.cfg)
		if err != nil {
			return nil, err
		}
		out = append(out, buf)
		t.startNewPhysicsBuffer()
	}

	switch item.Type() {
	case v10.TypeIncrementalScalers:
		s, err := v10.ParseIncrementalScalers(item)
		if err != nil {
			return out, err
		}
		buf, err := t.convertScaler(s.Start(), s.End(), s.Scalers())
		if err != nil {
			return out, err
		}
		t.state = StateRunning

		return append(out, buf), nil

	case v10.TypeTimestampedScalers:
		s, err := v10.ParseTimestampedScalers(item)
		if err != nil {
			return out, err
		}
		buf, err := t.convertScaler(s.Start(), s.Stop(), s.Scalers())
		if err != nil {
			return out, err
		}
		t.state = StateRunning

		return append(out, buf), nil

	case v10.TypeBeginRun, v10.TypeEndRun, v10.TypePauseRun, v10.TypeResumeRun:
		buf, err := t.convertStateChange(item)
		if err != nil {
			return out, err
		}
		t.state = StateRunning

		return append(out, buf), nil

	case v10.TypePhysicsEvent:
		return t.convertPhysicsEvent(item, out)

	case v10.TypePacketTypes, v10.TypeMonitoredVariables:
		return t.convertText(item, out)

	case v10.TypeFragment, v10.TypeUnknownPayload:
		// No equivalent; dropped.
		t.log.Debug("dropping event builder item", "type", item.Type().String())

		return out, nil

	case v10.TypePhysicsEventCount:
		if err := t.updateSamplingFactor(item); err != nil {
			return out, err
		}

		return out, nil

	default:
		return out, fmt.Errorf("%w: no mapping for %v", errs.ErrUnsupportedType, item.Type())
	}
}

func (t *TenToEight) convertScaler(begin, end uint32, scalers []uint32) (*v8.RawBuffer, error) {
	sclr := v8.NewScalerBuffer(t.newHeader(v8.TypeScaler), begin, end, scalers)

	return sclr.ToRaw(t.cfg)
}

func (t *TenToEight) convertStateChange(item *v10.RawItem) (*v8.RawBuffer, error) {
	sc, err := v10.ParseStateChange(item)
	if err != nil {
		return nil, err
	}

	if sc.Type() == v10.TypeBeginRun {
		t.resetStatistics()
	}
	t.run = uint16(sc.Run())
	// The accumulator is empty here; restart it so it carries the new run.
	t.startNewPhysicsBuffer()

	typ, err := mapControlType(sc.Type())
	if err != nil {
		return nil, err
	}

	ctl := v8.NewControlBuffer(t.newHeader(typ), sc.Title(), sc.Offset(),
		v8.ToBufTime(int64(sc.Timestamp())))

	return ctl.ToRaw(t.cfg)
}

func (t *TenToEight) convertPhysicsEvent(item *v10.RawItem, out []*v8.RawBuffer) ([]*v8.RawBuffer, error) {
	pe, err := v10.ParsePhysicsEvent(item)
	if err != nil {
		return out, err
	}
	evt := v8.NewPhysicsEvent(pe.Body(), pe.NeedsSwap())

	if t.physics.AppendEvent(evt, t.cfg) {
		t.triggers++

		if t.physics.BytesFree(t.cfg) == 0 {
			t.state = StateFlushing
			buf, err := t.physics.ToRaw(t.cfg)
			if err != nil {
				return out, err
			}
			t.startNewPhysicsBuffer()
			t.state = StateRunning

			return append(out, buf), nil
		}

		return out, nil
	}

	// The event did not fit: emit the full accumulator and retry in a
	// fresh one. An event too large for an empty buffer is fatal.
	t.state = StateFlushing
	buf, err := t.physics.ToRaw(t.cfg)
	if err != nil {
		return out, err
	}
	t.startNewPhysicsBuffer()
	if !t.physics.AppendEvent(evt, t.cfg) {
		return out, fmt.Errorf("%w: %d byte event cannot fit in a %d byte buffer",
			errs.ErrOverflow, len(pe.Body()), t.cfg.BufferSize)
	}
	t.triggers++
	t.state = StateRunning

	return append(out, buf), nil
}

func (t *TenToEight) convertText(item *v10.RawItem, out []*v8.RawBuffer) ([]*v8.RawBuffer, error) {
	txt, err := v10.ParseText(item)
	if err != nil {
		return out, err
	}
	typ, err := mapTextType(txt.Type())
	if err != nil {
		return out, err
	}

	buffers := []*v8.TextBuffer{v8.NewTextBuffer(t.newHeader(typ))}
	for _, s := range txt.Strings() {
		last := buffers[len(buffers)-1]
		if last.AppendString(s, t.cfg) {
			if last.BytesFree(t.cfg) == 0 {
				buffers = append(buffers, v8.NewTextBuffer(t.newHeader(typ)))
			}

			continue
		}

		next := v8.NewTextBuffer(t.newHeader(typ))
		if !next.AppendString(s, t.cfg) {
			return out, fmt.Errorf("%w: %d byte string cannot fit in a %d byte buffer",
				errs.ErrOverflow, len(s), t.cfg.BufferSize)
		}
		buffers = append(buffers, next)
	}

	first, err := buffers[0].ToRaw(t.cfg)
	if err != nil {
		return out, err
	}
	t.staged = append(t.staged, buffers[1:]...)
	if len(t.staged) > 0 {
		t.state = StateDraining
	} else {
		t.state = StateRunning
	}

	return append(out, first), nil
}

// DrainStagedText serializes and clears the overflow text buffers. The
// mediator calls this immediately after a text conversion so the overflow
// precedes any output derived from the next input.
func (t *TenToEight) DrainStagedText() ([]*v8.RawBuffer, error) {
	out := make([]*v8.RawBuffer, 0, len(t.staged))
	for _, tb := range t.staged {
		buf, err := tb.ToRaw(t.cfg)
		if err != nil {
			return out, err
		}
		out = append(out, buf)
	}
	t.staged = nil
	if t.state == StateDraining {
		t.state = StateRunning
	}

	return out, nil
}

// Flush emits everything still buffered: staged text first, then a partial
// physics accumulator. Invoked at end of stream.
func (t *TenToEight) Flush() ([]*v8.RawBuffer, error) {
	out, err := t.DrainStagedText()
	if err != nil {
		return out, err
	}

	if t.physics.EventCount() > 0 {
		buf, err := t.physics.ToRaw(t.cfg)
		if err != nil {
			return out, err
		}
		out = append(out, buf)
		t.startNewPhysicsBuffer()
	}
	t.state = StateRunning

	return out, nil
}

// updateSamplingFactor retunes the sequence scale from a trigger-count
// report: observed over declared triggers, or 1 when nothing was declared.
func (t *TenToEight) updateSamplingFactor(item *v10.RawItem) error {
	count, err := v10.ParsePhysicsEventCount(item)
	if err != nil {
		return err
	}

	if count.Count() > 0 {
		t.sampling = float64(t.triggers) / float64(count.Count())
	} else {
		t.sampling = 1.0
	}

	return nil
}

func (t *TenToEight) resetStatistics() {
	t.triggers = 0
	t.sampling = 1.0
}

func mapControlType(typ v10.ItemType) (v8.BufferType, error) {
	switch typ {
	case v10.TypeBeginRun:
		return v8.TypeBeginRun, nil
	case v10.TypeEndRun:
		return v8.TypeEndRun, nil
	case v10.TypePauseRun:
		return v8.TypePauseRun, nil
	case v10.TypeResumeRun:
		return v8.TypeResumeRun, nil
	default:
		return 0, fmt.Errorf("%w: %v is not a state change", errs.ErrUnsupportedType, typ)
	}
}

func mapTextType(typ v10.ItemType) (v8.BufferType, error) {
	switch typ {
	case v10.TypeMonitoredVariables:
		return v8.TypeRunVar, nil
	case v10.TypePacketTypes:
		return v8.TypePacketDoc, nil
	default:
		return 0, fmt.Errorf("%w: %v is not a text item", errs.ErrUnsupportedType, typ)
	}
}
