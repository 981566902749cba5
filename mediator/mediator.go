// Package mediator drives a converter across an unbounded stream: pull a
// record from the source, push it through the transform, write whatever
// comes out, and at end of stream flush what the transform still holds.
// A registry keyed by version pair picks the concrete mediator.
package mediator

import (
	"errors"
	"log/slog"

	"github.com/daqforge/daqconv/daqio"
	"github.com/daqforge/daqconv/errs"
	"github.com/daqforge/daqconv/format/v8"
)

// Mediator runs one conversion stream to completion.
type Mediator interface {
	// Run pulls records until end of stream, converts them, and pushes the
	// results. It returns nil on a clean EOF and the first fatal error
	// otherwise.
	Run() error
}

// Options carries everything a mediator needs: the endpoints, the fixed
// buffer dialect configuration, and a logger.
type Options struct {
	Source daqio.DataSource
	Sink   daqio.DataSink
	V8     v8.Config
	Log    *slog.Logger
}

func (o *Options) logger() *slog.Logger {
	if o.Log == nil {
		return slog.Default()
	}

	return o.Log
}

// recoverable reports whether a per-record error should be logged and the
// record skipped, keeping the stream alive. Overflow and I/O errors are
// fatal.
func recoverable(err error) bool {
	return errors.Is(err, errs.ErrUnsupportedType) ||
		errors.Is(err, errs.ErrMalformed) ||
		errors.Is(err, errs.ErrKindMismatch) ||
		errors.Is(err, errs.ErrUnderrun)
}

// finalize flushes the sink and, when digest accounting is attached, logs
// the stream digest.
func finalize(sink daqio.DataSink, log *slog.Logger) error {
	if ds, ok := sink.(*daqio.DigestSink); ok {
		log.Info("stream complete",
			"bytes", ds.BytesWritten(),
			"digest", ds.Sum64())
	}

	return sink.Flush()
}
