package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/daqforge/daqconv/daqio"
	"github.com/daqforge/daqconv/errs"
	"github.com/daqforge/daqconv/mediator"
	"github.com/daqforge/daqconv/format/v8"
	"github.com/lmittmann/tint"
	"github.com/spf13/cobra"
)

func main() {
	var (
		sourceURI     string
		sinkURI       string
		inputVersion  int
		outputVersion int
		v8BufferSize  int
		v8SizePolicy  string
		logLevel      string
	)

	rootCmd := &cobra.Command{
		Use:   "daqconv",
		Short: "Convert acquisition data between on-wire format versions",
		Long: `daqconv reads a stream of data-acquisition records in one on-wire
dialect (8, 10, or 11), converts each record, and emits the transformed
stream. Sources and sinks are URIs: "-" for stdin/stdout, file://<path>
for regular files (.zst/.lz4/.s2 archives are handled transparently), and
tcp:// or ring:// for a local ring buffer.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newLogger(logLevel)
			if err != nil {
				return err
			}

			if !validVersion(inputVersion) || !validVersion(outputVersion) {
				return fmt.Errorf("%w: versions must be 8, 10, or 11", errs.ErrConfig)
			}

			cfg := v8.DefaultConfig()
			if v8BufferSize < 2*v8.HeaderSize {
				return fmt.Errorf("%w: buffer size %d is too small", errs.ErrConfig, v8BufferSize)
			}
			cfg.BufferSize = v8BufferSize
			cfg.SizePolicy, err = v8.ParseSizePolicy(v8SizePolicy)
			if err != nil {
				return err
			}

			source, err := daqio.MakeSource(sourceURI)
			if err != nil {
				return err
			}
			defer source.Close()

			rawSink, err := daqio.MakeSink(sinkURI)
			if err != nil {
				return err
			}
			sink := daqio.NewDigestSink(rawSink)
			defer rawSink.Close()

			m, err := mediator.New(inputVersion, outputVersion, mediator.Options{
				Source: source,
				Sink:   sink,
				V8:     cfg,
				Log:    log,
			})
			if err != nil {
				return err
			}

			log.Info("starting conversion",
				"from", inputVersion,
				"to", outputVersion,
				"source", sourceURI,
				"sink", sinkURI)

			start := time.Now()
			if err := m.Run(); err != nil {
				if errors.Is(err, errs.ErrOverflow) {
					log.Error("conversion aborted; re-run with a larger --v8-buffer-size", "err", err)
				}

				return err
			}
			log.Info("conversion finished", "elapsed", time.Since(start))

			return nil
		},
	}

	flags := rootCmd.Flags()
	flags.StringVar(&sourceURI, "source", "", "source URI (required)")
	flags.StringVar(&sinkURI, "sink", "", "sink URI (required)")
	flags.IntVar(&inputVersion, "input-version", 0, "input dialect version: 8, 10, or 11 (required)")
	flags.IntVar(&outputVersion, "output-version", 0, "output dialect version: 8, 10, or 11 (required)")
	flags.IntVar(&v8BufferSize, "v8-buffer-size", v8.DefaultBufferSize,
		"fixed buffer size in bytes; effective when either endpoint is version 8")
	flags.StringVar(&v8SizePolicy, "v8-size-policy", v8.Inclusive16BitWords.String(),
		"event delimiter convention for version 8 physics buffers: Inclusive16BitWords, "+
			"Exclusive16BitWords, Inclusive32BitWords, or Inclusive32BitBytes")
	flags.StringVar(&logLevel, "log-level", "info", "log level: debug, info, warn, or error")

	for _, f := range []string{"source", "sink", "input-version", "output-version"} {
		if err := rootCmd.MarkFlagRequired(f); err != nil {
			panic(err)
		}
	}

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func validVersion(v int) bool {
	return v == 8 || v == 10 || v == 11
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	switch level {
	case "debug":
		lvl = slog.LevelDebug
	case "info":
		lvl = slog.LevelInfo
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		return nil, fmt.Errorf("%w: unknown log level %q", errs.ErrConfig, level)
	}

	return slog.New(tint.NewHandler(os.Stderr, &tint.Options{
		Level:      lvl,
		TimeFormat: time.TimeOnly,
	})), nil
}
