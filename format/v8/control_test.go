package v8

import (
	"bytes"
	"testing"

	"github.com/daqforge/daqconv/errs"
	"github.com/stretchr/testify/require"
)

func TestControlBufferRoundTrip(t *testing.T) {
	cfg := testConfig(DefaultBufferSize)

	h := NewHeader()
	h.Type = TypeBeginRun
	h.Run = 3

	tod := BufTime{Month: 4, Day: 1, Year: 2015, Hours: 12, Min: 30, Sec: 15}
	ctl := NewControlBuffer(h, "a title for you and me", 10203, tod)

	raw, err := ctl.ToRaw(cfg)
	require.NoError(t, err)
	require.Equal(t, uint16(HeaderWords+(TitleSize+4+14)/2), raw.Header().Words)

	parsed, err := ParseControlBuffer(raw)
	require.NoError(t, err)
	require.Equal(t, uint32(10203), parsed.Offset())
	require.Equal(t, tod, parsed.Time())

	// The on-wire title is space padded; the significant prefix survives.
	require.Equal(t, "a title for you and me", parsed.Title()[:22])
}

func TestControlBufferTitleLayout(t *testing.T) {
	cfg := testConfig(DefaultBufferSize)

	h := NewHeader()
	h.Type = TypePauseRun
	raw, err := NewControlBuffer(h, "test", 0, BufTime{}).ToRaw(cfg)
	require.NoError(t, err)

	title := raw.Body()[:TitleSize]
	require.Equal(t, []byte("test"), title[:4])
	require.Equal(t, byte(0), title[TitleSize-1])
	// Everything between text and the forced NUL is space fill.
	require.Equal(t, bytes.Repeat([]byte{' '}, TitleSize-5), title[4:TitleSize-1])
}

func TestControlBufferTruncatesLongTitle(t *testing.T) {
	cfg := testConfig(DefaultBufferSize)

	long := string(bytes.Repeat([]byte{'x'}, 200))
	h := NewHeader()
	h.Type = TypeResumeRun
	raw, err := NewControlBuffer(h, long, 0, BufTime{}).ToRaw(cfg)
	require.NoError(t, err)

	parsed, err := ParseControlBuffer(raw)
	require.NoError(t, err)
	require.Len(t, parsed.Title(), TitleSize-1)
}

func TestControlBufferKindMismatch(t *testing.T) {
	cfg := testConfig(DefaultBufferSize)

	raw, err := NewScalerBuffer(NewHeader(), 0, 0, nil).ToRaw(cfg)
	require.NoError(t, err)

	_, err = ParseControlBuffer(raw)
	require.ErrorIs(t, err, errs.ErrKindMismatch)
}
