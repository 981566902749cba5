package daqio

import (
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/daqforge/daqconv/errs"
	"github.com/stretchr/testify/require"
)

func TestMakeSourceStdin(t *testing.T) {
	src, err := MakeSource("-")
	require.NoError(t, err)
	require.NoError(t, src.Close())
}

func TestFileRoundTrip(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run.evt")

	sink, err := MakeSink("file://" + path)
	require.NoError(t, err)
	_, err = sink.Write([]byte("payload"))
	require.NoError(t, err)
	require.NoError(t, sink.Close())

	src, err := MakeSource("file://" + path)
	require.NoError(t, err)
	data, err := io.ReadAll(src)
	require.NoError(t, err)
	require.NoError(t, src.Close())
	require.Equal(t, []byte("payload"), data)
}

func TestBarePathAccepted(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bare.evt")
	require.NoError(t, os.WriteFile(path, []byte{1, 2, 3}, 0o644))

	src, err := MakeSource(path)
	require.NoError(t, err)
	data, err := io.ReadAll(src)
	require.NoError(t, err)
	require.Equal(t, []byte{1, 2, 3}, data)
	require.NoError(t, src.Close())
}

func TestCompressedFileRoundTrip(t *testing.T) {
	for _, ext := range []string{".zst", ".lz4", ".s2"} {
		t.Run(ext, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), "run.evt"+ext)

			sink, err := MakeSink(path)
			require.NoError(t, err)
			_, err = sink.Write([]byte("compressed payload"))
			require.NoError(t, err)
			require.NoError(t, sink.Close())

			// The file on disk is not the raw payload.
			onDisk, err := os.ReadFile(path)
			require.NoError(t, err)
			require.NotEqual(t, []byte("compressed payload"), onDisk)

			src, err := MakeSource(path)
			require.NoError(t, err)
			data, err := io.ReadAll(src)
			require.NoError(t, err)
			require.NoError(t, src.Close())
			require.Equal(t, []byte("compressed payload"), data)
		})
	}
}

func TestRemoteRingRejected(t *testing.T) {
	_, err := MakeSource("ring://daq02.example.org/rawring")
	require.ErrorIs(t, err, errs.ErrRemoteNotSupported)

	_, err = MakeSink("tcp://daq02.example.org/rawring")
	require.ErrorIs(t, err, errs.ErrRemoteNotSupported)
}

func TestRingWithoutTransport(t *testing.T) {
	_, err := MakeSource("ring://localhost/rawring")
	require.ErrorIs(t, err, errs.ErrConfig)
}

func TestRegisteredRingTransport(t *testing.T) {
	t.Cleanup(func() { RegisterRingTransport(nil) })
	RegisterRingTransport(loopbackTransport{})

	src, err := MakeSource("ring://localhost/loop")
	require.NoError(t, err)
	data, err := io.ReadAll(src)
	require.NoError(t, err)
	require.Equal(t, []byte("loop"), data)
}

func TestUnknownScheme(t *testing.T) {
	_, err := MakeSource("grumpy://thing")
	require.ErrorIs(t, err, errs.ErrConfig)

	_, err = MakeSink("grumpy://thing")
	require.ErrorIs(t, err, errs.ErrConfig)
}

func TestRingWithoutName(t *testing.T) {
	_, err := MakeSource("ring://localhost/")
	require.ErrorIs(t, err, errs.ErrConfig)
}

// loopbackTransport hands back the ring name as the stream content.
type loopbackTransport struct{}

func (loopbackTransport) OpenSource(name string) (DataSource, error) {
	return NewBufferSource([]byte(name)), nil
}

func (loopbackTransport) OpenSink(string) (DataSink, error) {
	return NewBufferSink(), nil
}

func TestDigestSink(t *testing.T) {
	sink := NewDigestSink(NewBufferSink())

	n, err := sink.Write([]byte("abc"))
	require.NoError(t, err)
	require.Equal(t, 3, n)

	first := sink.Sum64()
	require.NotZero(t, first)
	require.Equal(t, uint64(3), sink.BytesWritten())

	_, err = sink.Write([]byte("def"))
	require.NoError(t, err)
	require.NotEqual(t, first, sink.Sum64())
	require.Equal(t, uint64(6), sink.BytesWritten())
}
