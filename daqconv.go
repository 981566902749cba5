// Package daqconv converts streams of nuclear-physics data-acquisition
// records between three on-wire dialects.
//
// The fixed-size buffer dialect (version 8) packs many physics events,
// scaler readouts, or documentation strings into one configurable-length
// buffer led by a packed 16-word header. The ring item dialects (versions 10
// and 11) give each record its own {size, type} framed item; version 11 adds
// the optional body header linking records to the event builder's clock.
// Producers and consumers of these formats evolved asynchronously, so a
// converter lets an old analyzer consume new data or a new recorder preserve
// old archives.
//
// # Architecture
//
// Four layers, leaves first:
//
//   - codec: typed field read/write with byte-order awareness. Every record
//     header is self-describing; readers detect a foreign byte order and
//     swap on read.
//   - v8, v10, v11: the dialect models. Each record kind parses from and
//     serializes to a uniform raw item.
//   - transform: the four pairwise converters. The stateful pairs own the
//     buffering that bridges the cardinality mismatch between one-buffer-
//     many-events and one-record-per-event.
//   - mediator: the streaming loop and the version-pair registry.
//
// # Basic Usage
//
// Converting a ring item stream to fixed-size buffers:
//
//	import "github.com/daqforge/daqconv"
//
//	src, _ := daqio.MakeSource("file://run0042.evt")
//	sink, _ := daqio.MakeSink("file://run0042-v8.evt")
//	err := daqconv.Convert(10, 8, daqconv.Options{
//	    Source: src,
//	    Sink:   sink,
//	    V8:     v8.DefaultConfig(),
//	})
//
// The daqconv command wraps the same entry point behind a URI-driven CLI.
package daqconv

import (
	"github.com/daqforge/daqconv/mediator"
)

// Options aliases the mediator options; see mediator.Options.
type Options = mediator.Options

// Convert runs one conversion stream from the configured source to the
// configured sink, returning when the source reaches end of stream or a
// fatal error occurs. Sources and sinks stay open; the caller closes them.
func Convert(fromVersion, toVersion int, opts Options) error {
	m, err := mediator.New(fromVersion, toVersion, opts)
	if err != nil {
		return err
	}

	return m.Run()
}
