package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/layoutflow/layoutflow/internal/bridge"
	"github.com/layoutflow/layoutflow/internal/config"
	"github.com/layoutflow/layoutflow/internal/layout"
	"github.com/layoutflow/layoutflow/internal/logger"
	"github.com/layoutflow/layoutflow/internal/metrics"
)

var Logger = logger.GetLogger("layoutflow")

type flags struct {
	config      string
	workers     int
	debug       bool
	metricsFile string
}

func newRootCmd() *cobra.Command {
	var f flags
	cmd := &cobra.Command{
		Use:   "layoutflow <input> [output]",
		Short: "Rebuild reading-order paragraphs and tables from positioned page content",
		Long: `layoutflow reads pages of positioned text, images, rules and grouping
hints, either as one {"pages": [...]} document or a directory of
page_<n>.json files, and writes the reconstructed layout as JSON.
The output goes to stdout when no output path is given or it is "-".`,
		Args:          cobra.RangeArgs(1, 2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(f.config)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("workers") {
				cfg.Workers = f.workers
			}
			if cmd.Flags().Changed("metrics-file") {
				cfg.MetricsFile = f.metricsFile
			}
			if f.debug {
				cfg.Logging.Debug = true
			}
			if err := cfg.Validate(); err != nil {
				return err
			}
			opts := cfg.LoggerOptions()
			opts.Console = cmd.ErrOrStderr()
			if err := logger.Init(opts); err != nil {
				return err
			}
			defer logger.Close()

			output := "-"
			if len(args) == 2 {
				output = args[1]
			}
			return run(cmd.Context(), cfg, args[0], output, cmd.OutOrStdout())
		},
	}
	cmd.Flags().StringVarP(&f.config, "config", "c", "", "YAML config file")
	cmd.Flags().IntVarP(&f.workers, "workers", "w", 0, "pages processed concurrently (default: number of CPUs)")
	cmd.Flags().BoolVar(&f.debug, "debug", false, "enable debug logging")
	cmd.Flags().StringVar(&f.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")
	return cmd
}

func run(ctx context.Context, cfg config.Config, input, output string, stdout io.Writer) error {
	startTotal := time.Now()
	Logger.Info("beginning reconstruction", "input", input, "workers", cfg.Workers)

	startRead := time.Now()
	pages, err := bridge.ReadDocument(input, cfg.PageSize())
	if err != nil {
		Logger.Error("read error", "error", err)
		return err
	}
	readElapsed := time.Since(startRead)

	startLayout := time.Now()
	results, err := layout.ProcessPages(ctx, pages, cfg.Workers)
	if err != nil {
		Logger.Error("processing error", "error", err)
		return err
	}
	layoutElapsed := time.Since(startLayout)

	if err := writeDocument(layout.Document(results), output, stdout); err != nil {
		Logger.Error("write error", "error", err)
		return err
	}
	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			Logger.Error("metrics error", "error", err)
			return err
		}
	}

	Logger.Info("input decoding", "pages", len(pages), "time", readElapsed)
	Logger.Info("layout reconstruction", "time", layoutElapsed)
	Logger.Info("total time", "time", time.Since(startTotal))
	return nil
}

func writeDocument(doc any, output string, stdout io.Writer) (err error) {
	dst := stdout
	if output != "-" {
		f, cerr := os.Create(output)
		if cerr != nil {
			return fmt.Errorf("create output: %w", cerr)
		}
		defer func() {
			if cerr := f.Close(); err == nil && cerr != nil {
				err = fmt.Errorf("close output: %w", cerr)
			}
		}()
		dst = f
	}

	w := bufio.NewWriterSize(dst, 256*1024)
	if err := json.NewEncoder(w).Encode(doc); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	if err := w.Flush(); err != nil {
		return fmt.Errorf("flush output: %w", err)
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		Logger.Error("layoutflow failed", "error", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
