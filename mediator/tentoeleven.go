package mediator

import (
	"io"
	"log/slog"

	"github.com/daqforge/daqconv/daqio"
	"github.com/daqforge/daqconv/transform"
	"github.com/daqforge/daqconv/format/v10"
	"github.com/daqforge/daqconv/format/v11"
)

// TenToEleven streams ring items into the body-header dialect. Before any
// input is processed it announces the output revision with one RING_FORMAT
// record.
type TenToEleven struct {
	source daqio.DataSource
	sink   daqio.DataSink
	tr     *transform.TenToEleven
	log    *slog.Logger
}

// NewTenToEleven builds the mediator for the (10, 11) pair.
func NewTenToEleven(opts Options) *TenToEleven {
	return &TenToEleven{
		source: opts.Source,
		sink:   opts.Sink,
		tr:     transform.NewTenToEleven(opts.logger()),
		log:    opts.logger(),
	}
}

// Run implements Mediator.
func (m *TenToEleven) Run() error {
	if err := v11.WriteRawItem(m.sink, v11.NewRingFormat().ToRaw()); err != nil {
		return err
	}

	for {
		item, err := v10.ReadRawItem(m.source)
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
			if err := v11.WriteRawItem(m.sink, out); err != nil {
				return err
			}
		}
	}

	if _, err := m.tr.Flush(); err != nil {
		return err
	}

	return finalize(m.sink, m.log)
}
