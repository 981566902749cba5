package transform

import (
	"testing"

	"github.com/daqforge/daqconv/errs"
	"github.com/daqforge/daqconv/format/v10"
	"github.com/daqforge/daqconv/format/v11"
	"github.com/stretchr/testify/require"
)

func pushOne11(t *testing.T, tr *TenToEleven, item *v10.RawItem) *v11.RawItem {
	t.Helper()

	outs, err := tr.Push(item)
	require.NoError(t, err)
	require.Len(t, outs, 1)

	return outs[0]
}

func TestTenToElevenIncrementalScalers(t *testing.T) {
	tr := NewTenToEleven(nil)

	out := pushOne11(t, tr, v10.NewIncrementalScalers(5, 10, 99, []uint32{1, 2}).ToRaw())
	require.False(t, out.HasBodyHeader())

	s, err := v11.ParsePeriodicScalers(out)
	require.NoError(t, err)
	require.True(t, s.IsIncremental())
	require.Equal(t, uint32(1), s.Divisor())
	require.Equal(t, uint32(5), s.Start())
	require.Equal(t, uint32(10), s.End())
	require.Equal(t, uint32(99), s.Timestamp())
	require.Equal(t, []uint32{1, 2}, s.Scalers())
}

func TestTenToElevenTimestampedScalers(t *testing.T) {
	tr := NewTenToEleven(nil)

	out := pushOne11(t, tr, v10.NewTimestampedScalers(777, 5, 10, 4, 99, []uint32{3}).ToRaw())
	require.False(t, out.HasBodyHeader())

	s, err := v11.ParsePeriodicScalers(out)
	require.NoError(t, err)
	require.False(t, s.IsIncremental())
	// The event timestamp and source divisor are discarded.
	require.Equal(t, uint32(1), s.Divisor())
	require.Equal(t, v11.NullTimestamp, s.EventTimestamp())
}

func TestTenToElevenStateChange(t *testing.T) {
	tr := NewTenToEleven(nil)

	out := pushOne11(t, tr, v10.NewStateChange(v10.TypePauseRun, 7, 60, 1234, "pause").ToRaw())
	require.Equal(t, v11.TypePauseRun, out.Type())
	require.False(t, out.HasBodyHeader())

	sc, err := v11.ParseStateChange(out)
	require.NoError(t, err)
	require.Equal(t, uint32(7), sc.Run())
	require.Equal(t, uint32(60), sc.Offset())
	require.Equal(t, uint32(1234), sc.Timestamp())
	require.Equal(t, uint32(1), sc.Divisor())
	require.Equal(t, "pause", sc.Title())
}

func TestTenToElevenPhysicsEvent(t *testing.T) {
	tr := NewTenToEleven(nil)

	body := []byte{0xca, 0xfe, 0xba, 0xbe}
	out := pushOne11(t, tr, v10.NewPhysicsEvent(body, false).ToRaw())

	pe, err := v11.ParsePhysicsEvent(out)
	require.NoError(t, err)
	require.Equal(t, body, pe.Body())
}

func TestTenToElevenPhysicsEventCount(t *testing.T) {
	tr := NewTenToEleven(nil)

	out := pushOne11(t, tr, v10.NewPhysicsEventCount(30, 999, 1000).ToRaw())

	c, err := v11.ParsePhysicsEventCount(out)
	require.NoError(t, err)
	require.Equal(t, uint32(30), c.Offset())
	require.Equal(t, uint32(1), c.Divisor())
	require.Equal(t, uint32(999), c.Timestamp())
	require.Equal(t, uint64(1000), c.Count())
}

func TestTenToElevenText(t *testing.T) {
	tr := NewTenToEleven(nil)

	out := pushOne11(t, tr, v10.NewText(v10.TypeMonitoredVariables, 8, 9, []string{"a", "b"}).ToRaw())
	require.Equal(t, v11.TypeMonitoredVariables, out.Type())

	txt, err := v11.ParseText(out)
	require.NoError(t, err)
	require.Equal(t, uint32(1), txt.Divisor())
	require.Equal(t, []string{"a", "b"}, txt.Strings())
}

func TestTenToElevenFragmentCreatesBodyHeader(t *testing.T) {
	tr := NewTenToEleven(nil)

	payload := []byte{0, 1, 2, 3}
	out := pushOne11(t, tr, v10.NewFragment(v10.TypeFragment, 1234567, 3, 10, payload).ToRaw())

	require.True(t, out.HasBodyHeader())
	require.Equal(t, uint64(1234567), out.EventTimestamp())
	require.Equal(t, uint32(3), out.SourceID())
	require.Equal(t, uint32(10), out.BarrierType())

	f, err := v11.ParseFragment(out)
	require.NoError(t, err)
	require.Equal(t, payload, f.Payload())
}

func TestTenToElevenUnknownPayloadFragment(t *testing.T) {
	tr := NewTenToEleven(nil)

	out := pushOne11(t, tr, v10.NewFragment(v10.TypeUnknownPayload, 5, 6, 7, []byte{8}).ToRaw())
	require.Equal(t, v11.TypeUnknownPayload, out.Type())
	require.True(t, out.HasBodyHeader())
}

func TestTenToElevenUnsupported(t *testing.T) {
	tr := NewTenToEleven(nil)

	_, err := tr.Push(v10.NewRawItem(v10.ItemType(500), nil))
	require.ErrorIs(t, err, errs.ErrUnsupportedType)
}

func TestTenToElevenFlushIsEmpty(t *testing.T) {
	tr := NewTenToEleven(nil)

	outs, err := tr.Flush()
	require.NoError(t, err)
	require.Empty(t, outs)
}
