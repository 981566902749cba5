package transform

import (
	"testing"
	"time"

	"github.com/daqforge/daqconv/errs"
	"github.com/daqforge/daqconv/format/v10"
	"github.com/daqforge/daqconv/format/v8"
	"github.com/stretchr/testify/require"
)

func cfg(size int) v8.Config {
	return v8.Config{BufferSize: size, SizePolicy: v8.Inclusive16BitWords}
}

func TestTenToEightStateChange(t *testing.T) {
	tr := NewTenToEight(cfg(v8.DefaultBufferSize), nil)
	unix := uint32(time.Date(2015, time.April, 9, 13, 0, 0, 0, time.Local).Unix())

	item := v10.NewStateChange(v10.TypeBeginRun, 3, 10203, unix, "test").ToRaw()
	outs, err := tr.Push(item)
	require.NoError(t, err)
	require.Len(t, outs, 1)

	h := outs[0].Header()
	require.Equal(t, v8.TypeBeginRun, h.Type)
	require.Equal(t, uint16(3), h.Run)
	require.Equal(t, v8.StandardVersion, h.Format)
	require.Equal(t, v8.BOM16, h.ShortSignature)
	require.Equal(t, v8.BOM32, h.LongSignature)

	ctl, err := v8.ParseControlBuffer(outs[0])
	require.NoError(t, err)
	require.Equal(t, uint32(10203), ctl.Offset())
	require.Equal(t, "test", ctl.Title()[:4])
	require.Equal(t, byte(0), outs[0].Body()[v8.TitleSize-1])

	want := v8.ToBufTime(int64(unix))
	require.Equal(t, want, ctl.Time())

	// The run number sticks for subsequent buffers.
	require.Equal(t, uint16(3), tr.Run())
}

func TestTenToEightControlTypeMap(t *testing.T) {
	tests := []struct {
		in   v10.ItemType
		want v8.BufferType
	}{
		{v10.TypeBeginRun, v8.TypeBeginRun},
		{v10.TypeEndRun, v8.TypeEndRun},
		{v10.TypePauseRun, v8.TypePauseRun},
		{v10.TypeResumeRun, v8.TypeResumeRun},
	}

	for _, tt := range tests {
		tr := NewTenToEight(cfg(v8.DefaultBufferSize), nil)
		outs, err := tr.Push(v10.NewStateChange(tt.in, 1, 0, 0, "t").ToRaw())
		require.NoError(t, err)
		require.Len(t, outs, 1)
		require.Equal(t, tt.want, outs[0].Header().Type)
	}
}

func TestTenToEightScalers(t *testing.T) {
	tr := NewTenToEight(cfg(v8.DefaultBufferSize), nil)

	counters := []uint32{10, 20, 30}
	outs, err := tr.Push(v10.NewIncrementalScalers(5, 15, 0x12345678, counters).ToRaw())
	require.NoError(t, err)
	require.Len(t, outs, 1)

	sclr, err := v8.ParseScalerBuffer(outs[0])
	require.NoError(t, err)
	require.Equal(t, v8.TypeScaler, sclr.Header().Type)
	require.Equal(t, uint32(5), sclr.OffsetBegin())
	require.Equal(t, uint32(15), sclr.OffsetEnd())
	require.Equal(t, counters, sclr.Scalers())
	require.Equal(t, uint16(3), sclr.Header().EntityCount)

	// The timestamped flavor maps identically, discarding its extra fields.
	outs, err = tr.Push(v10.NewTimestampedScalers(999, 5, 15, 2, 0, counters).ToRaw())
	require.NoError(t, err)
	require.Len(t, outs, 1)

	sclr, err = v8.ParseScalerBuffer(outs[0])
	require.NoError(t, err)
	require.Equal(t, uint32(5), sclr.OffsetBegin())
	require.Equal(t, uint32(15), sclr.OffsetEnd())
}

func TestTenToEightPhysicsAccumulation(t *testing.T) {
	// 40 byte buffers leave 8 body bytes; 6 byte events cannot share one.
	tr := NewTenToEight(cfg(40), nil)
	body := []byte{0x03, 0x00, 0x11, 0x22, 0x33, 0x44}

	outs, err := tr.Push(v10.NewPhysicsEvent(body, false).ToRaw())
	require.NoError(t, err)
	require.Empty(t, outs)
	require.Equal(t, 1, tr.PhysicsBufferEventCount())

	outs, err = tr.Push(v10.NewPhysicsEvent(body, false).ToRaw())
	require.NoError(t, err)
	require.Len(t, outs, 1)
	require.Equal(t, uint16(1), outs[0].Header().EntityCount)
	require.Equal(t, 1, tr.PhysicsBufferEventCount())

	// The emitted container body is the event bytes verbatim.
	require.Equal(t, body, outs[0].Body()[:len(body)])
}

func TestTenToEightPhysicsExactFill(t *testing.T) {
	// 40 byte buffers with 4 byte events: the second fills the buffer
	// exactly and forces it out.
	tr := NewTenToEight(cfg(40), nil)
	body := []byte{0x02, 0x00, 0x34, 0x12}

	outs, err := tr.Push(v10.NewPhysicsEvent(body, false).ToRaw())
	require.NoError(t, err)
	require.Empty(t, outs)

	outs, err = tr.Push(v10.NewPhysicsEvent(body, false).ToRaw())
	require.NoError(t, err)
	require.Len(t, outs, 1)
	require.Equal(t, uint16(2), outs[0].Header().EntityCount)
	require.Equal(t, 0, tr.PhysicsBufferEventCount())
}

func TestTenToEightPhysicsSingleEventTooLarge(t *testing.T) {
	tr := NewTenToEight(cfg(36), nil)
	body := make([]byte, 32)
	body[0] = 16

	_, err := tr.Push(v10.NewPhysicsEvent(body, false).ToRaw())
	require.ErrorIs(t, err, errs.ErrOverflow)
}

func TestTenToEightBoundaryFlush(t *testing.T) {
	tr := NewTenToEight(cfg(v8.DefaultBufferSize), nil)

	_, err := tr.Push(v10.NewPhysicsEvent([]byte{0x02, 0x00, 0xaa, 0xbb}, false).ToRaw())
	require.NoError(t, err)
	require.Equal(t, 1, tr.PhysicsBufferEventCount())

	// A scaler is a buffer boundary: the partial physics container goes
	// first, then the scaler buffer.
	outs, err := tr.Push(v10.NewIncrementalScalers(0, 1, 0, []uint32{1}).ToRaw())
	require.NoError(t, err)
	require.Len(t, outs, 2)
	require.Equal(t, v8.TypeData, outs[0].Header().Type)
	require.Equal(t, v8.TypeScaler, outs[1].Header().Type)
	require.Equal(t, 0, tr.PhysicsBufferEventCount())
}

func TestTenToEightFragmentAndCountEmitNothing(t *testing.T) {
	tr := NewTenToEight(cfg(v8.DefaultBufferSize), nil)

	_, err := tr.Push(v10.NewPhysicsEvent([]byte{0x02, 0x00, 0xaa, 0xbb}, false).ToRaw())
	require.NoError(t, err)

	// Neither fragments nor trigger counts disturb the accumulator.
	outs, err := tr.Push(v10.NewFragment(v10.TypeFragment, 1, 2, 3, []byte{4}).ToRaw())
	require.NoError(t, err)
	require.Empty(t, outs)

	outs, err = tr.Push(v10.NewPhysicsEventCount(0, 0, 10).ToRaw())
	require.NoError(t, err)
	require.Empty(t, outs)
	require.Equal(t, 1, tr.PhysicsBufferEventCount())
}

func TestTenToEightTextPacking(t *testing.T) {
	// 43 byte buffers fit exactly two 3-letter strings each.
	tr := NewTenToEight(cfg(43), nil)

	strs := []string{"why", "did", "the", "cat", "nap"}
	outs, err := tr.Push(v10.NewText(v10.TypePacketTypes, 0, 0, strs).ToRaw())
	require.NoError(t, err)
	require.Len(t, outs, 1)
	require.Equal(t, StateDraining, tr.State())
	require.Equal(t, 2, tr.StagedTextCount())

	first, err := v8.ParseTextBuffer(outs[0])
	require.NoError(t, err)
	require.Equal(t, v8.TypePacketDoc, first.Header().Type)
	require.Equal(t, []string{"why", "did"}, first.Strings())

	staged, err := tr.DrainStagedText()
	require.NoError(t, err)
	require.Len(t, staged, 2)
	require.Equal(t, StateRunning, tr.State())

	second, err := v8.ParseTextBuffer(staged[0])
	require.NoError(t, err)
	require.Equal(t, []string{"the", "cat"}, second.Strings())

	third, err := v8.ParseTextBuffer(staged[1])
	require.NoError(t, err)
	require.Equal(t, []string{"nap"}, third.Strings())
}

func TestTenToEightTextTypeMap(t *testing.T) {
	tr := NewTenToEight(cfg(v8.DefaultBufferSize), nil)

	outs, err := tr.Push(v10.NewText(v10.TypeMonitoredVariables, 0, 0, []string{"x=1"}).ToRaw())
	require.NoError(t, err)
	require.Equal(t, v8.TypeRunVar, outs[0].Header().Type)
	require.Zero(t, tr.StagedTextCount())
}

func TestTenToEightSequenceNumbering(t *testing.T) {
	tr := NewTenToEight(cfg(v8.DefaultBufferSize), nil)

	// Ten triggers observed.
	for i := 0; i < 10; i++ {
		_, err := tr.Push(v10.NewPhysicsEvent([]byte{0x02, 0x00, 0x00, 0x00}, false).ToRaw())
		require.NoError(t, err)
	}

	// The producer declares 100: sampling factor 0.1.
	_, err := tr.Push(v10.NewPhysicsEventCount(0, 0, 100).ToRaw())
	require.NoError(t, err)

	// seq = floor(10 / 0.1) = 100 on the next emitted buffer.
	outs, err := tr.Push(v10.NewIncrementalScalers(0, 1, 0, []uint32{1}).ToRaw())
	require.NoError(t, err)
	require.Len(t, outs, 2) // physics flush + scaler
	require.Equal(t, uint32(100), outs[1].Header().Sequence)
}

func TestTenToEightBeginRunResetsStatistics(t *testing.T) {
	tr := NewTenToEight(cfg(v8.DefaultBufferSize), nil)

	for i := 0; i < 4; i++ {
		_, err := tr.Push(v10.NewPhysicsEvent([]byte{0x02, 0x00, 0x00, 0x00}, false).ToRaw())
		require.NoError(t, err)
	}
	_, err := tr.Push(v10.NewPhysicsEventCount(0, 0, 8).ToRaw())
	require.NoError(t, err)

	outs, err := tr.Push(v10.NewStateChange(v10.TypeBeginRun, 2, 0, 0, "next").ToRaw())
	require.NoError(t, err)

	// Statistics reset before the begin-run buffer is stamped.
	ctl := outs[len(outs)-1]
	require.Equal(t, uint32(0), ctl.Header().Sequence)
	require.Equal(t, uint16(2), ctl.Header().Run)
}

func TestTenToEightUnsupportedType(t *testing.T) {
	tr := NewTenToEight(cfg(v8.DefaultBufferSize), nil)

	_, err := tr.Push(v10.NewRawItem(v10.ItemType(999), nil))
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
}

func TestTenToEightFlushEmitsPartialPhysics(t *testing.T) {
	tr := NewTenToEight(cfg(v8.DefaultBufferSize), nil)

	_, err := tr.Push(v10.NewPhysicsEvent([]byte{0x02, 0x00, 0x12, 0x34}, false).ToRaw())
	require.NoError(t, err)

	outs, err := tr.Flush()
	require.NoError(t, err)
	require.Len(t, outs, 1)
	require.Equal(t, v8.TypeData, outs[0].Header().Type)
	require.Equal(t, uint16(1), outs[0].Header().EntityCount)
	require.Equal(t, 0, tr.PhysicsBufferEventCount())
}

func TestTenToEightStateTransitions(t *testing.T) {
	tr := NewTenToEight(cfg(40), nil)
	require.Equal(t, StateInitial, tr.State())

	_, err := tr.Push(v10.NewPhysicsEvent([]byte{0x02, 0x00, 0x00, 0x00}, false).ToRaw())
	require.NoError(t, err)
	require.Equal(t, StateRunning, tr.State())
}
