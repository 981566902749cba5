package v8

import (
	"testing"

	"github.com/daqforge/daqconv/errs"
	"github.com/stretchr/testify/require"
)

func newTextHeader(typ BufferType) Header {
	h := NewHeader()
	h.Type = typ

	return h
}

func TestTextBufferRoundTrip(t *testing.T) {
	cfg := testConfig(DefaultBufferSize)

	tb := NewTextBuffer(newTextHeader(TypeRunVar))
	strs := []string{"why", "did", "the", "chicken", "cross", "the", "road?"}
	for _, s := range strs {
		require.True(t, tb.AppendString(s, cfg))
	}

	raw, err := tb.ToRaw(cfg)
	require.NoError(t, err)
	require.Equal(t, uint16(len(strs)), raw.Header().EntityCount)

	parsed, err := ParseTextBuffer(raw)
	require.NoError(t, err)
	require.Equal(t, strs, parsed.Strings())
}

func TestTextBufferEvenAlignment(t *testing.T) {
	cfg := testConfig(DefaultBufferSize)

	tb := NewTextBuffer(newTextHeader(TypePacketDoc))
	require.True(t, tb.AppendString("even", cfg)) // 4+1 chars, needs pad
	require.True(t, tb.AppendString("odd", cfg))  // 3+1 chars, already even

	raw, err := tb.ToRaw(cfg)
	require.NoError(t, err)

	body := raw.Body()
	// "even\0" plus one pad byte: next string starts at offset 6.
	require.Equal(t, byte(0), body[4])
	require.Equal(t, byte(0), body[5])
	require.Equal(t, byte('o'), body[6])

	parsed, err := ParseTextBuffer(raw)
	require.NoError(t, err)
	require.Equal(t, []string{"even", "odd"}, parsed.Strings())
}

func TestTextBufferCapacity(t *testing.T) {
	// 43 bytes leaves 11 bytes of body: two 3-letter words fit, not three.
	cfg := testConfig(43)

	tb := NewTextBuffer(newTextHeader(TypePacketDoc))
	require.True(t, tb.AppendString("why", cfg))
	require.True(t, tb.AppendString("did", cfg))
	require.False(t, tb.AppendString("the", cfg))
	require.Equal(t, 3, tb.BytesFree(cfg))
}

func TestTextBufferWordCount(t *testing.T) {
	cfg := testConfig(DefaultBufferSize)

	tb := NewTextBuffer(newTextHeader(TypeStateVar))
	require.True(t, tb.AppendString("abc", cfg))

	raw, err := tb.ToRaw(cfg)
	require.NoError(t, err)
	require.Equal(t, uint16(HeaderWords+2), raw.Header().Words)
}

func TestTextBufferKindMismatch(t *testing.T) {
	cfg := testConfig(DefaultBufferSize)

	raw, err := NewScalerBuffer(NewHeader(), 0, 0, nil).ToRaw(cfg)
	require.NoError(t, err)

	_, err = ParseTextBuffer(raw)
	require.ErrorIs(t, err, errs.ErrKindMismatch)
}
