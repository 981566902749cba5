// Package v11 models the ring item dialect that added the optional body
// header: a per-record block carrying the event clock timestamp, source id,
// and barrier type. Items without one lead their body with a single zero
// word.
package v11

import "fmt"

// ItemType is the 32-bit type tag of a ring item.
type ItemType uint32

// Ring item type tags.
const (
	TypeVoid               ItemType = 0
	TypeBeginRun           ItemType = 1
	TypeEndRun             ItemType = 2
	TypePauseRun           ItemType = 3
	TypeResumeRun          ItemType = 4
	TypeAbnormalEnd        ItemType = 5
	TypePacketTypes        ItemType = 10
	TypeMonitoredVariables ItemType = 11
	TypeRingFormat         ItemType = 12
	TypePeriodicScalers    ItemType = 20
	TypePhysicsEvent       ItemType = 30
	TypePhysicsEventCount  ItemType = 31
	TypeFragment           ItemType = 40
	TypeUnknownPayload     ItemType = 41
	TypeGlomInfo           ItemType = 42
)

func (t ItemType) String() string {
	switch t {
	case TypeVoid:
		return "VOID"
	case TypeBeginRun:
		return "BEGIN_RUN"
	case TypeEndRun:
		return "END_RUN"
	case TypePauseRun:
		return "PAUSE_RUN"
	case TypeResumeRun:
		return "RESUME_RUN"
	case TypeAbnormalEnd:
		return "ABNORMAL_ENDRUN"
	case TypePacketTypes:
		return "PACKET_TYPES"
	case TypeMonitoredVariables:
		return "MONITORED_VARIABLES"
	case TypeRingFormat:
		return "RING_FORMAT"
	case TypePeriodicScalers:
		return "PERIODIC_SCALERS"
	case TypePhysicsEvent:
		return "PHYSICS_EVENT"
	case TypePhysicsEventCount:
		return "PHYSICS_EVENT_COUNT"
	case TypeFragment:
		return "EVB_FRAGMENT"
	case TypeUnknownPayload:
		return "EVB_UNKNOWN_PAYLOAD"
	case TypeGlomInfo:
		return "EVB_GLOM_INFO"
	default:
		return fmt.Sprintf("ItemType(%d)", uint32(t))
	}
}

const (
	// HeaderSize is the serialized {size, type} prefix length in bytes.
	HeaderSize = 8

	// BodyHeaderSize is the serialized length of a present body header,
	// its own size word included.
	BodyHeaderSize = 20

	// TitleSize is the fixed serialized length of a state-change title,
	// NUL terminator included.
	TitleSize = 80

	// FormatMajor and FormatMinor identify this dialect revision in
	// RING_FORMAT announcements.
	FormatMajor uint16 = 11
	FormatMinor uint16 = 0
)

// NullTimestamp is the sentinel returned for the event timestamp of an item
// without a body header.
const NullTimestamp = ^uint64(0)

// BodyHeader is the optional per-record block linking an item to the event
// builder's clock.
type BodyHeader struct {
	Timestamp uint64
	Source    uint32
	Barrier   uint32
}

// IsControlType reports whether t is one of the run state-change tags.
func IsControlType(t ItemType) bool {
	switch t {
	case TypeBeginRun, TypeEndRun, TypePauseRun, TypeResumeRun:
		return true
	default:
		return false
	}
}

// IsTextType reports whether t is one of the documentation string tags.
func IsTextType(t ItemType) bool {
	return t == TypePacketTypes || t == TypeMonitoredVariables
}

// IsFragmentType reports whether t is one of the event-builder tags.
func IsFragmentType(t ItemType) bool {
	return t == TypeFragment || t == TypeUnknownPayload
}
