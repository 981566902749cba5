package transform

import (
	"strings"
	"testing"
	"time"

	"github.com/daqforge/daqconv/errs"
	"github.com/daqforge/daqconv/format/v10"
	"github.com/daqforge/daqconv/format/v8"
	"github.com/stretchr/testify/require"
)

func fixedClock(unix int64) func() time.Time {
	return func() time.Time { return time.Unix(unix, 0) }
}

// dataBuffer packs the given events into one serialized physics container.
func dataBuffer(t *testing.T, c v8.Config, events ...[]byte) *v8.RawBuffer {
	t.Helper()

	buf := v8.NewPhysicsEventBuffer(v8.NewHeader())
	for _, e := range events {
		require.True(t, buf.AppendEvent(v8.NewPhysicsEvent(e, false), c))
	}
	raw, err := buf.ToRaw(c)
	require.NoError(t, err)

	return raw
}

func TestEightToTenPhysicsFanOut(t *testing.T) {
	c := cfg(v8.DefaultBufferSize)
	tr := NewEightToTen(c, nil)

	e1 := []byte{0x02, 0x00, 0x34, 0x12}
	e2 := []byte{0x02, 0x00, 0x78, 0x56}
	e3 := []byte{0x02, 0x00, 0xbc, 0x9a}

	outs, err := tr.Push(dataBuffer(t, c, e1, e2, e3))
	require.NoError(t, err)
	require.Len(t, outs, 1)
	require.Equal(t, 2, tr.PendingEventCount())
	require.Equal(t, StateDraining, tr.State())

	first, err := v10.ParsePhysicsEvent(outs[0])
	require.NoError(t, err)
	require.Equal(t, e1, first.Body())

	rest := tr.DrainPendingEvents()
	require.Len(t, rest, 2)
	require.Equal(t, StateRunning, tr.State())

	second, err := v10.ParsePhysicsEvent(rest[0])
	require.NoError(t, err)
	require.Equal(t, e2, second.Body())

	third, err := v10.ParsePhysicsEvent(rest[1])
	require.NoError(t, err)
	require.Equal(t, e3, third.Body())
}

func TestEightToTenScaler(t *testing.T) {
	c := cfg(v8.DefaultBufferSize)
	tr := NewEightToTen(c, nil)
	tr.SetClock(fixedClock(1700000000))

	counters := []uint32{1, 2, 3}
	raw, err := v8.NewScalerBuffer(v8.NewHeader(), 10, 25, counters).ToRaw(c)
	require.NoError(t, err)

	outs, err := tr.Push(raw)
	require.NoError(t, err)
	require.Len(t, outs, 1)

	s, err := v10.ParseIncrementalScalers(outs[0])
	require.NoError(t, err)
	require.Equal(t, uint32(10), s.Start())
	require.Equal(t, uint32(25), s.End())
	require.Equal(t, counters, s.Scalers())
	require.Equal(t, uint32(1700000000), s.Timestamp())
}

func TestEightToTenSnapshotScalerCollapses(t *testing.T) {
	c := cfg(v8.DefaultBufferSize)
	tr := NewEightToTen(c, nil)

	h := v8.NewHeader()
	h.Type = v8.TypeSnapshotScaler
	raw, err := v8.NewScalerBuffer(h, 0, 1, []uint32{9}).ToRaw(c)
	require.NoError(t, err)

	outs, err := tr.Push(raw)
	require.NoError(t, err)
	require.Equal(t, v10.TypeIncrementalScalers, outs[0].Type())
}

func TestEightToTenControl(t *testing.T) {
	c := cfg(v8.DefaultBufferSize)
	tr := NewEightToTen(c, nil)

	when := time.Date(2015, time.June, 1, 9, 30, 0, 0, time.Local)
	h := v8.NewHeader()
	h.Type = v8.TypeEndRun
	h.Run = 12
	ctl := v8.NewControlBuffer(h, "ending", 3600, v8.ToBufTime(when.Unix()))
	raw, err := ctl.ToRaw(c)
	require.NoError(t, err)

	outs, err := tr.Push(raw)
	require.NoError(t, err)

	sc, err := v10.ParseStateChange(outs[0])
	require.NoError(t, err)
	require.Equal(t, v10.TypeEndRun, sc.Type())
	require.Equal(t, uint32(12), sc.Run())
	require.Equal(t, uint32(3600), sc.Offset())
	require.Equal(t, uint32(when.Unix()), sc.Timestamp())
	// The fixed-width title keeps its space fill across the conversion.
	require.Equal(t, "ending", strings.TrimRight(sc.Title(), " "))
}

func TestEightToTenText(t *testing.T) {
	c := cfg(v8.DefaultBufferSize)

	tests := []struct {
		in   v8.BufferType
		want v10.ItemType
	}{
		{v8.TypeRunVar, v10.TypeMonitoredVariables},
		{v8.TypeStateVar, v10.TypeMonitoredVariables},
		{v8.TypePacketDoc, v10.TypePacketTypes},
	}

	for _, tt := range tests {
		tr := NewEightToTen(c, nil)
		tr.SetClock(fixedClock(42))

		h := v8.NewHeader()
		h.Type = tt.in
		tb := v8.NewTextBuffer(h)
		require.True(t, tb.AppendString("a=1", c))
		require.True(t, tb.AppendString("b=2", c))
		raw, err := tb.ToRaw(c)
		require.NoError(t, err)

		outs, err := tr.Push(raw)
		require.NoError(t, err)

		txt, err := v10.ParseText(outs[0])
		require.NoError(t, err)
		require.Equal(t, tt.want, txt.Type())
		require.Equal(t, []string{"a=1", "b=2"}, txt.Strings())
		require.Equal(t, uint32(0), txt.Offset())
		require.Equal(t, uint32(42), txt.Timestamp())
	}
}

func TestEightToTenParamDescriptionUnsupported(t *testing.T) {
	c := cfg(v8.DefaultBufferSize)
	tr := NewEightToTen(c, nil)

	h := v8.NewHeader()
	h.Type = v8.TypeParamDescription
	tb := v8.NewTextBuffer(h)
	require.True(t, tb.AppendString("p", c))
	raw, err := tb.ToRaw(c)
	require.NoError(t, err)

	_, err = tr.Push(raw)
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
}

func TestEightToTenUnknownType(t *testing.T) {
	c := cfg(v8.DefaultBufferSize)
	tr := NewEightToTen(c, nil)

	h := v8.NewHeader()
	h.Type = v8.BufferType(77)
	raw, err := v8.NewControlBuffer(h, "", 0, v8.BufTime{}).ToRaw(c)
	require.NoError(t, err)

	_, err = tr.Push(raw)
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
}
