// Package v8 models the fixed-size buffer dialect: every record on the wire
// occupies exactly one configured buffer (8192 bytes by default), led by a
// packed 16-word header whose byte-order signatures make the stream
// self-describing.
package v8

import (
	"fmt"
	"time"

	"github.com/daqforge/daqconv/codec"
	"github.com/daqforge/daqconv/endian"
	"github.com/daqforge/daqconv/errs"
)

// BufferType is the 16-bit type tag of a buffer header.
type BufferType uint16

// Buffer type tags.
const (
	TypeVoid             BufferType = 0
	TypeData             BufferType = 1
	TypeScaler           BufferType = 2
	TypeSnapshotScaler   BufferType = 3
	TypeStateVar         BufferType = 4
	TypeRunVar           BufferType = 5
	TypePacketDoc        BufferType = 6
	TypeBeginRun         BufferType = 11
	TypeEndRun           BufferType = 12
	TypePauseRun         BufferType = 13
	TypeResumeRun        BufferType = 14
	TypeParamDescription BufferType = 30
)

func (t BufferType) String() string {
	switch t {
	case TypeVoid:
		return "VOID"
	case TypeData:
		return "DATABF"
	case TypeScaler:
		return "SCALERBF"
	case TypeSnapshotScaler:
		return "SNAPSCBF"
	case TypeStateVar:
		return "STATEVARBF"
	case TypeRunVar:
		return "RUNVARBF"
	case TypePacketDoc:
		return "PKTDOCBF"
	case TypeBeginRun:
		return "BEGRUNBF"
	case TypeEndRun:
		return "ENDRUNBF"
	case TypePauseRun:
		return "PAUSEBF"
	case TypeResumeRun:
		return "RESUMEBF"
	case TypeParamDescription:
		return "PARAMDESCRIP"
	default:
		return fmt.Sprintf("BufferType(%d)", uint16(t))
	}
}

const (
	// HeaderWords is the number of 16-bit words in a buffer header.
	HeaderWords = 16
	// HeaderSize is the serialized header size in bytes.
	HeaderSize = 2 * HeaderWords

	// BOM16 is the value of the 16-bit byte-order signature read in the
	// producing host's order.
	BOM16 uint16 = 0x0102
	// BOM32 is the value of the 32-bit byte-order signature.
	BOM32 uint32 = 0x01020304

	// StandardVersion is the buffer format revision stamped into emitted
	// headers.
	StandardVersion uint16 = 5

	// DefaultBufferSize is the default fixed serialized length of a buffer.
	DefaultBufferSize = 8192

	// TitleSize is the fixed serialized length of a control buffer title,
	// including the forced NUL at the last byte.
	TitleSize = 80
)

// SizePolicy selects the convention used to delimit events inside a physics
// buffer body. The dialect is ambiguous here; the operator must supply the
// policy that matches the data.
type SizePolicy int

const (
	// Inclusive16BitWords delimits by a leading 16-bit count of 16-bit
	// words, including the count word itself. This is the native convention.
	Inclusive16BitWords SizePolicy = iota
	// Exclusive16BitWords delimits by a leading 16-bit word count that does
	// not include the count word.
	Exclusive16BitWords
	// Inclusive32BitWords delimits by a leading 32-bit count of 16-bit words.
	Inclusive32BitWords
	// Inclusive32BitBytes delimits by a leading 32-bit byte count.
	Inclusive32BitBytes
)

func (p SizePolicy) String() string {
	switch p {
	case Inclusive16BitWords:
		return "Inclusive16BitWords"
	case Exclusive16BitWords:
		return "Exclusive16BitWords"
	case Inclusive32BitWords:
		return "Inclusive32BitWords"
	case Inclusive32BitBytes:
		return "Inclusive32BitBytes"
	default:
		return fmt.Sprintf("SizePolicy(%d)", int(p))
	}
}

// ParseSizePolicy maps a policy name (as accepted on the command line) to its
// SizePolicy value.
func ParseSizePolicy(name string) (SizePolicy, error) {
	switch name {
	case "Inclusive16BitWords":
		return Inclusive16BitWords, nil
	case "Exclusive16BitWords":
		return Exclusive16BitWords, nil
	case "Inclusive32BitWords":
		return Inclusive32BitWords, nil
	case "Inclusive32BitBytes":
		return Inclusive32BitBytes, nil
	default:
		return 0, fmt.Errorf("%w: unknown size policy %q", errs.ErrConfig, name)
	}
}

// Config carries the process-wide dialect settings, threaded explicitly
// through constructors so tests can override per case.
type Config struct {
	// BufferSize is the fixed serialized length of every buffer in bytes.
	BufferSize int
	// SizePolicy delimits events inside physics buffer bodies.
	SizePolicy SizePolicy
}

// DefaultConfig returns the stock configuration: 8192-byte buffers and the
// native inclusive 16-bit word count policy.
func DefaultConfig() Config {
	return Config{
		BufferSize: DefaultBufferSize,
		SizePolicy: Inclusive16BitWords,
	}
}

// Header is the packed 16-word buffer header.
type Header struct {
	Words          uint16     // used size in 16-bit words, header included
	Type           BufferType // buffer type tag
	Checksum       uint16
	Run            uint16
	Sequence       uint32
	EntityCount    uint16 // events, scalers, or strings in the body
	LAMCount       uint16
	CPU            uint16
	BitRegisters   uint16
	Format         uint16 // buffer format revision
	ShortSignature uint16
	LongSignature  uint32
	Unused         [2]uint16
}

// NewHeader returns a header stamped with the standard format revision and
// native byte-order signatures.
func NewHeader() Header {
	return Header{
		Format:         StandardVersion,
		ShortSignature: BOM16,
		LongSignature:  BOM32,
	}
}

// decodeHeader parses a header from r, which must already be positioned at
// the start of the buffer.
func decodeHeader(r *codec.Reader) (Header, error) {
	var h Header
	var err error

	read16 := func(dst *uint16) {
		if err != nil {
			return
		}
		*dst, err = r.Uint16()
	}

	read16(&h.Words)
	var t uint16
	read16(&t)
	h.Type = BufferType(t)
	read16(&h.Checksum)
	read16(&h.Run)
	if err == nil {
		h.Sequence, err = r.Uint32()
	}
	read16(&h.EntityCount)
	read16(&h.LAMCount)
	read16(&h.CPU)
	read16(&h.BitRegisters)
	read16(&h.Format)
	read16(&h.ShortSignature)
	if err == nil {
		h.LongSignature, err = r.Uint32()
	}
	read16(&h.Unused[0])
	read16(&h.Unused[1])

	return h, err
}

// encode writes the header. When swapped is true every field is written
// byte-reversed, reproducing a whole buffer held in foreign byte order.
func (h Header) encode(w *codec.Writer, swapped bool) {
	w16 := func(v uint16) {
		if swapped {
			v = endian.Swap16(v)
		}
		w.WriteUint16(v)
	}
	w32 := func(v uint32) {
		if swapped {
			v = endian.Swap32(v)
		}
		w.WriteUint32(v)
	}

	w16(h.Words)
	w16(uint16(h.Type))
	w16(h.Checksum)
	w16(h.Run)
	w32(h.Sequence)
	w16(h.EntityCount)
	w16(h.LAMCount)
	w16(h.CPU)
	w16(h.BitRegisters)
	w16(h.Format)
	w16(h.ShortSignature)
	w32(h.LongSignature)
	w16(h.Unused[0])
	w16(h.Unused[1])
}

// BufTime is the packed calendar time carried by control buffers.
type BufTime struct {
	Month  uint16
	Day    uint16
	Year   uint16
	Hours  uint16
	Min    uint16
	Sec    uint16
	Tenths uint16
}

// ToBufTime decomposes a Unix timestamp into calendar fields using the local
// time zone. Tenths is always zero; there is nothing to derive it from.
func ToBufTime(unix int64) BufTime {
	t := time.Unix(unix, 0)

	return BufTime{
		Month: uint16(t.Month()),
		Day:   uint16(t.Day()),
		Year:  uint16(t.Year()),
		Hours: uint16(t.Hour()),
		Min:   uint16(t.Minute()),
		Sec:   uint16(t.Second()),
	}
}

// Unix recomposes the calendar fields into a Unix timestamp via the local
// time zone, discarding tenths.
func (bt BufTime) Unix() int64 {
	t := time.Date(int(bt.Year), time.Month(bt.Month), int(bt.Day),
		int(bt.Hours), int(bt.Min), int(bt.Sec), 0, time.Local)

	return t.Unix()
}

func (bt BufTime) encode(w *codec.Writer) {
	w.WriteUint16(bt.Month)
	w.WriteUint16(bt.Day)
	w.WriteUint16(bt.Year)
	w.WriteUint16(bt.Hours)
	w.WriteUint16(bt.Min)
	w.WriteUint16(bt.Sec)
	w.WriteUint16(bt.Tenths)
}

func decodeBufTime(r *codec.Reader) (BufTime, error) {
	var bt BufTime
	var err error

	read := func(dst *uint16) {
		if err != nil {
			return
		}
		*dst, err = r.Uint16()
	}

	read(&bt.Month)
	read(&bt.Day)
	read(&bt.Year)
	read(&bt.Hours)
	read(&bt.Min)
	read(&bt.Sec)
	read(&bt.Tenths)

	return bt, err
}
