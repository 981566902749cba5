package codec

import (
	"github.com/daqforge/daqconv/endian"
	"github.com/daqforge/daqconv/internal/pool"
)

// Writer serializes plain values into a pooled byte buffer using a fixed
// endian engine. Records are always emitted in little-endian order; foreign
// order output (a V8 buffer carried unswapped) is produced by pre-swapping
// the header fields, not by changing the engine.
type Writer struct {
	buf    *pool.ByteBuffer
	engine endian.EndianEngine
}

// NewWriter creates a Writer using the given endian engine.
func NewWriter(engine endian.EndianEngine) *Writer {
	return &Writer{
		engine: engine,
		buf:    pool.GetRecordBuffer(),
	}
}

// Len returns the number of bytes written so far.
func (w *Writer) Len() int {
	return w.buf.Len()
}

// WriteUint8 appends one byte.
func (w *Writer) WriteUint8(v uint8) {
	w.buf.B = append(w.buf.B, v)
}

// WriteUint16 appends a 16-bit word.
func (w *Writer) WriteUint16(v uint16) {
	w.buf.B = w.engine.AppendUint16(w.buf.B, v)
}

// WriteUint32 appends a 32-bit word.
func (w *Writer) WriteUint32(v uint32) {
	w.buf.B = w.engine.AppendUint32(w.buf.B, v)
}

// WriteUint64 appends a 64-bit word.
func (w *Writer) WriteUint64(v uint64) {
	w.buf.B = w.engine.AppendUint64(w.buf.B, v)
}

// WriteBytes appends raw bytes without reordering.
func (w *Writer) WriteBytes(b []byte) {
	w.buf.MustWrite(b)
}

// WriteZeros appends n zero bytes.
func (w *Writer) WriteZeros(n int) {
	w.buf.Grow(n)
	for i := 0; i < n; i++ {
		w.buf.B = append(w.buf.B, 0)
	}
}

// PadTo extends the buffer with zeros until it is n bytes long. It does
// nothing if the buffer is already at least that long.
func (w *Writer) PadTo(n int) {
	for w.buf.Len() < n {
		w.buf.B = append(w.buf.B, 0)
	}
}

// Finish returns the serialized bytes and releases the internal buffer back
// to the pool. The returned slice is a copy owned by the caller; the Writer
// must not be reused afterwards.
func (w *Writer) Finish() []byte {
	out := make([]byte, w.buf.Len())
	copy(out, w.buf.Bytes())
	pool.PutRecordBuffer(w.buf)
	w.buf = nil

	return out
}
