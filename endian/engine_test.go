package endian

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCheckEndianness(t *testing.T) {
	order := CheckEndianness()
	require.NotNil(t, order)

	if IsNativeLittleEndian() {
		require.Equal(t, binary.ByteOrder(binary.LittleEndian), order)
		require.False(t, IsNativeBigEndian())
	} else {
		require.Equal(t, binary.ByteOrder(binary.BigEndian), order)
		require.True(t, IsNativeBigEndian())
	}

	require.Equal(t, order, binary.ByteOrder(GetNativeEngine()))
}

func TestEngines(t *testing.T) {
	require.Equal(t, EndianEngine(binary.LittleEndian), GetLittleEndianEngine())
	require.Equal(t, EndianEngine(binary.BigEndian), GetBigEndianEngine())
}

func TestSwap(t *testing.T) {
	require.Equal(t, uint16(0x0201), Swap16(0x0102))
	require.Equal(t, uint32(0x04030201), Swap32(0x01020304))
	require.Equal(t, uint64(0x0807060504030201), Swap64(0x0102030405060708))

	// Swapping twice is the identity.
	require.Equal(t, uint32(0xdeadbeef), Swap32(Swap32(0xdeadbeef)))
}
