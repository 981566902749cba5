package v8

import (
	"testing"
	"time"

	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
	"github.com/stretchr/testify/require"
)

func testConfig(size int) Config {
	return Config{BufferSize: size, SizePolicy: Inclusive16BitWords}
}

func TestNewHeader(t *testing.T) {
	h := NewHeader()

	require.Equal(t, StandardVersion, h.Format)
	require.Equal(t, BOM16, h.ShortSignature)
	require.Equal(t, BOM32, h.LongSignature)
	require.Equal(t, TypeVoid, h.Type)
}

func TestHeaderRoundTrip(t *testing.T) {
	h := NewHeader()
	h.Words = 65
	h.Type = TypeBeginRun
	h.Run = 42
	h.Sequence = 1234567
	h.EntityCount = 3

	w := codec.NewWriter(endian.GetLittleEndianEngine())
	h.encode(w, false)
	data := w.Finish()
	require.Len(t, data, HeaderSize)

	parsed, err := decodeHeader(codec.NewReader(data, false))
	require.NoError(t, err)
	require.Equal(t, h, parsed)
}

func TestHeaderSwappedRoundTrip(t *testing.T) {
	h := NewHeader()
	h.Words = 20
	h.Type = TypeScaler
	h.Run = 7
	h.Sequence = 99

	w := codec.NewWriter(endian.GetLittleEndianEngine())
	h.encode(w, true)
	data := w.Finish()

	// Natively the signature is garbled; the swapping reader restores it.
	native, err := decodeHeader(codec.NewReader(data, false))
	require.NoError(t, err)
	require.NotEqual(t, BOM16, native.ShortSignature)

	parsed, err := decodeHeader(codec.NewReader(data, true))
	require.NoError(t, err)
	require.Equal(t, h, parsed)
}

func TestSizePolicyParse(t *testing.T) {
	tests := []struct {
		name string
		want SizePolicy
	}{
		{"Inclusive16BitWords", Inclusive16BitWords},
		{"Exclusive16BitWords", Exclusive16BitWords},
		{"Inclusive32BitWords", Inclusive32BitWords},
		{"Inclusive32BitBytes", Inclusive32BitBytes},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseSizePolicy(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
			require.Equal(t, tt.name, got.String())
		})
	}

	_, err := ParseSizePolicy("Bogus")
	require.Error(t, err)
}

func TestBufTimeRoundTrip(t *testing.T) {
	// Pick an instant with no sub-second component; tenths do not survive.
	want := time.Date(2015, time.April, 9, 13, 5, 30, 0, time.Local)

	bt := ToBufTime(want.Unix())
	require.Equal(t, uint16(4), bt.Month)
	require.Equal(t, uint16(9), bt.Day)
	require.Equal(t, uint16(2015), bt.Year)
	require.Equal(t, uint16(13), bt.Hours)
	require.Equal(t, uint16(5), bt.Min)
	require.Equal(t, uint16(30), bt.Sec)
	require.Equal(t, uint16(0), bt.Tenths)

	require.Equal(t, want.Unix(), bt.Unix())
}

func TestRawBufferDetectsByteOrder(t *testing.T) {
	cfg := testConfig(DefaultBufferSize)

	t.Run("native", func(t *testing.T) {
		h := NewHeader()
		h.Type = TypeEndRun
		h.Words = HeaderWords

		w := codec.NewWriter(endian.GetLittleEndianEngine())
		h.encode(w, false)

		buf := NewRawBuffer(cfg)
		require.NoError(t, buf.SetBytes(w.Finish(), cfg))
		require.False(t, buf.NeedsSwap())
		require.Equal(t, TypeEndRun, buf.Header().Type)
		require.Len(t, buf.Bytes(), cfg.BufferSize)
	})

	t.Run("swapped", func(t *testing.T) {
		h := NewHeader()
		h.Type = TypeEndRun
		h.Words = HeaderWords
		h.Run = 300

		w := codec.NewWriter(endian.GetLittleEndianEngine())
		h.encode(w, true)

		buf := NewRawBuffer(cfg)
		require.NoError(t, buf.SetBytes(w.Finish(), cfg))
		require.True(t, buf.NeedsSwap())
		require.Equal(t, TypeEndRun, buf.Header().Type)
		require.Equal(t, uint16(300), buf.Header().Run)
	})

	t.Run("garbage", func(t *testing.T) {
		junk := make([]byte, HeaderSize)
		for i := range junk {
			junk[i] = 0x5a
		}

		buf := NewRawBuffer(cfg)
		require.Error(t, buf.SetBytes(junk, cfg))
	})
}
