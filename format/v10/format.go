// Package v10 models the per-record ring item dialect: each record is a
// {size, type} header followed by a typed body. The type field's upper half
// is always zero, which makes it double as the byte-order mark.
package v10

import "fmt"

// ItemType is the 32-bit type tag of a ring item.
type ItemType uint32

// Ring item type tags.
const (
	TypeVoid                ItemType = 0
	TypeBeginRun            ItemType = 1
	TypeEndRun              ItemType = 2
	TypePauseRun            ItemType = 3
	TypeResumeRun           ItemType = 4
	TypePacketTypes         ItemType = 10
	TypeMonitoredVariables  ItemType = 11
	TypeIncrementalScalers  ItemType = 20
	TypeTimestampedScalers  ItemType = 21
	TypePhysicsEvent        ItemType = 30
	TypePhysicsEventCount   ItemType = 31
	TypeFragment            ItemType = 40
	TypeUnknownPayload      ItemType = 41
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
	case TypePacketTypes:
		return "PACKET_TYPES"
	case TypeMonitoredVariables:
		return "MONITORED_VARIABLES"
	case TypeIncrementalScalers:
		return "INCREMENTAL_SCALERS"
	case TypeTimestampedScalers:
		return "TIMESTAMPED_NONINCR_SCALERS"
	case TypePhysicsEvent:
		return "PHYSICS_EVENT"
	case TypePhysicsEventCount:
		return "PHYSICS_EVENT_COUNT"
	case TypeFragment:
		return "EVB_FRAGMENT"
	case TypeUnknownPayload:
		return "EVB_UNKNOWN_PAYLOAD"
	default:
		return fmt.Sprintf("ItemType(%d)", uint32(t))
	}
}

// HeaderSize is the serialized {size, type} prefix length in bytes.
const HeaderSize = 8

// TitleSize is the fixed serialized length of a state-change title, NUL
// terminator included.
const TitleSize = 80

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
