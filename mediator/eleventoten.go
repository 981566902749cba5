package mediator

import (
	"io"
	"log/slog"

	"github.com/daqforge/daqconv/daqio"
	"github.com/daqforge/daqconv/transform"
	"github.com/daqforge/daqconv/format/v10"
	"github.com/daqforge/daqconv/format/v11"
)

// ElevenToTen streams body-header dialect items down to the older ring item
// dialect, silently dropping what the older dialect cannot express.
type ElevenToTen struct {
	source daqio.DataSource
	sink   daqio.DataSink
	tr     *transform.ElevenToTen
	log    *slog.Logger
}

// NewElevenToTen builds the mediator for the (11, 10) pair.
func NewElevenToTen(opts Options) *ElevenToTen {
	return &ElevenToTen{
		source: opts.Source,
		sink:   opts.Sink,
		tr:     transform.NewElevenToTen(opts.logger()),
		log:    opts.logger(),
	}
}

// Run implements Mediator.
func (m *ElevenToTen) Run() error {
	for {
		item, err := v11.ReadRawItem(m.source)
		if err == io.EOF {
			break
		}
		if err != nil {
			return err
		}

		outs, err := m.tr.Push(item)
		if err != nil && !recoverable(err) {
			return err
		}
		if err != nil {
			m.log.Warn("skipping ring item", "type", item.Type().String(), "err", err)
		}
		for _, out := range outs {
			if err := v10.WriteRawItem(m.sink, out); err != nil {
				return err
			}
		}
	}

	if _, err := m.tr.Flush(); err != nil {
		return err
	}

	return finalize(m.sink, m.log)
}
