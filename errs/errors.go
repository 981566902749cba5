// Package errs defines the sentinel errors shared across daqconv packages.
//
// Callers should match errors with errors.Is; most errors produced by the
// codec, dialect, and transform layers wrap one of these sentinels with
// additional context via fmt.Errorf("...: %w", ...).
package errs

import "errors"

// Codec and dialect parse errors.
var (
	// ErrUnderrun indicates a read past the end of a record's bytes.
	ErrUnderrun = errors.New("buffer underrun")
	// ErrKindMismatch indicates a raw item whose type tag does not match the
	// record variant asked to parse it.
	ErrKindMismatch = errors.New("record kind mismatch")
	// ErrMalformed indicates a declared size or count that is inconsistent
	// with the bytes actually present.
	ErrMalformed = errors.New("malformed record")
)

// Transform errors.
var (
	// ErrUnsupportedType indicates an input type with no mapping in the
	// active converter. The stream continues after logging.
	ErrUnsupportedType = errors.New("unsupported record type")
	// ErrOverflow indicates a serialization that would exceed the configured
	// V8 buffer size. Fatal; re-run with a larger buffer size.
	ErrOverflow = errors.New("buffer size overflow")
)

// Configuration and endpoint errors.
var (
	// ErrConfig indicates an invalid URI, unknown version pair, or other
	// startup misconfiguration.
	ErrConfig = errors.New("invalid configuration")
	// ErrRemoteNotSupported indicates a ring or tcp endpoint naming a host
	// other than the local one.
	ErrRemoteNotSupported = errors.New("remote ring access not supported")
)
