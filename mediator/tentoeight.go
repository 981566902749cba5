package mediator

import (
	"io"
	"log/slog"

	"github.com/daqforge/daqconv/daqio"
	"github.com/daqforge/daqconv/transform"
	"github.com/daqforge/daqconv/format/v10"
	"github.com/daqforge/daqconv/format/v8"
)

// TenToEight streams ring items into fixed-size buffers. After any text
// conversion it drains the transform's staged overflow buffers before the
// next record is pulled, so a text item's fan-out stays contiguous.
type TenToEight struct {
	source daqio.DataSource
	sink   daqio.DataSink
	tr     *transform.TenToEight
	log    *slog.Logger
}

// NewTenToEight builds the mediator for the (10, 8) pair.
func NewTenToEight(opts Options) *TenToEight {
	return &TenToEight{
		source: opts.Source,
		sink:   opts.Sink,
		tr:     transform.NewTenToEight(opts.V8, opts.logger()),
		log:    opts.logger(),
	}
}

// Run implements Mediator.
func (m *TenToEight) Run() error {
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
		if err := m.writeAll(outs); err != nil {
			return err
		}

		// A text item may have overflowed into staged buffers; emit them
		// before the next pull.
		if m.tr.StagedTextCount() > 0 {
			staged, err := m.tr.DrainStagedText()
			if err != nil {
				return err
			}
			if err := m.writeAll(staged); err != nil {
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

func (m *TenToEight) writeAll(bufs []*v8.RawBuffer) error {
	for _, b := range bufs {
		if err := v8.WriteRawBuffer(m.sink, b); err != nil {
			return err
		}
	}

	return nil
}
