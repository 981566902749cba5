// Package transform implements the four pairwise record converters. Each
// converter is a small state machine driven by Push and drained by Flush;
// the stateful pairs own the buffering that bridges the dialects' cardinality
// mismatch (many events per fixed-size buffer on one side, one record per
// event on the other).
package transform

import "fmt"

// State tracks where a converter is in its buffering cycle. The stateless
// pairs never leave StateRunning after the first push.
type State int

const (
	// StateInitial is the state before the first push.
	StateInitial State = iota
	// StateRunning is the steady state: records convert as they arrive.
	StateRunning
	// StateFlushing is entered when a boundary rule forces buffered output
	// out: the physics accumulator reached capacity, a text item overflowed
	// one buffer, or a physics container expanded to multiple records.
	StateFlushing
	// StateDraining is held while an overflow queue still has records the
	// mediator must emit before the next input is processed.
	StateDraining
)

func (s State) String() string {
	switch s {
	case StateInitial:
		return "initial"
	case StateRunning:
		return "running"
	case StateFlushing:
		return "flushing"
	case StateDraining:
		return "draining"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}
