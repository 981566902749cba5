package mediator

import (
	"io"
	"log/slog"

	"github.com/daqforge/daqconv/daqio"
	"github.com/daqforge/daqconv/transform"
	"github.com/daqforge/daqconv/format/v10"
	"github.com/daqforge/daqconv/format/v8"
)

// EightToTen streams fixed-size buffers into ring items. A physics container
// fans out into several items; the pending queue is drained right after the
// first so the expansion precedes any later input's output.
type EightToTen struct {
	source daqio.DataSource
	sink   daqio.DataSink
	cfg    v8.Config
	tr     *transform.EightToTen
	log    *slog.Logger
}

// NewEightToTen builds the mediator for the (8, 10) pair.
func NewEightToTen(opts Options) *EightToTen {
	return &EightToTen{
		source: opts.Source,
		sink:   opts.Sink,
		cfg:    opts.V8,
		tr:     transform.NewEightToTen(opts.V8, opts.logger()),
		log:    opts.logger(),
	}
}

// Transform exposes the converter, letting callers inject a deterministic
// clock before Run.
func (m *EightToTen) Transform() *transform.EightToTen {
	return m.tr
}

// Run implements Mediator.
func (m *EightToTen) Run() error {
	for {
		buf, err := v8.ReadRawBuffer(m.source, m.cfg)
		if err == io.EOF {
			break
		}
		if err != nil {
			if recoverable(err) {
				m.log.Warn("skipping malformed buffer", "err", err)

				continue
			}

			return err
		}

		outs, err := m.tr.Push(buf)
		if err != nil && !recoverable(err) {
			return err
		}
		if err != nil {
			m.log.Warn("skipping buffer", "type", buf.Header().Type.String(), "err", err)
		}
		if err := m.writeAll(outs); err != nil {
			return err
		}

		if m.tr.PendingEventCount() > 0 {
			if err := m.writeAll(m.tr.DrainPendingEvents()); err != nil {
				return err
			}
		}
	}

	outs, err := m.tr.Flush()
	if err != nil {
		return err
	}
	if err := m.writeAll(outs); err != nil {
		return err
	}

	return finalize(m.sink, m.log)
}

func (m *EightToTen) writeAll(items []*v10.RawItem) error {
	for _, item := range items {
		if err := v10.WriteRawItem(m.sink, item); err != nil {
			return err
		}
	}

	return nil
}
