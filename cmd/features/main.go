// Command features loads the marketplace CSV exports of a directory, builds
// the per-order training table and optionally exports it.
//
// Usage:
//
//	features -dir data/csv -out reports/training.csv -format csv \
//	         -delivered=true -distance=false -strict=false -config config.yaml
//
// Flags override values from the configuration file and OLIST_* variables.
package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"olistcli/internal/config"
	"olistcli/internal/dataset"
	apperrors "olistcli/internal/errors"
	"olistcli/internal/exporter"
	"olistcli/internal/features"
	"olistcli/internal/infrastructure"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if code := finish(ctx, run(ctx, os.Args[1:], os.Stderr)); code != 0 {
		stop()
		os.Exit(code)
	}
}

// finish logs a failed run and closes the log file afterwards, so the
// failure reaches file output too. It returns the process exit code.
func finish(ctx context.Context, err error) int {
	defer infrastructure.CloseLogFile()
	if err == nil {
		return 0
	}
	slog.LogAttrs(ctx, slog.LevelError, "feature build failed", apperrors.LogAttrs(err)...)
	return 1
}

// options are the command line flags
type options struct {
	configPath string
	dir        string
	out        string
	format     string
	delivered  bool
	distance   bool
	strict     bool
	bom        bool
}

func parseFlags(args []string, output io.Writer) (*options, *flag.FlagSet, error) {
	opts := &options{}
	fs := flag.NewFlagSet("features", flag.ContinueOnError)
	fs.SetOutput(output)
	fs.StringVar(&opts.configPath, "config", "", "path to a YAML config file (searched in config.yaml, configs/ by default)")
	fs.StringVar(&opts.dir, "dir", "", "directory containing the CSV tables")
	fs.StringVar(&opts.out, "out", "", "export path for the training table (no export when empty)")
	fs.StringVar(&opts.format, "format", "", "export format: csv | xlsx | sqlite")
	fs.BoolVar(&opts.delivered, "delivered", true, "only use delivered orders")
	fs.BoolVar(&opts.distance, "distance", false, "add the seller-customer distance feature")
	fs.BoolVar(&opts.strict, "strict", false, "fail when a join drops orders")
	fs.BoolVar(&opts.bom, "bom", false, "prefix CSV output with a UTF-8 BOM")
	if err := fs.Parse(args); err != nil {
		return nil, nil, err
	}
	return opts, fs, nil
}

// applyFlags overrides cfg with the flags that were set explicitly
func applyFlags(cfg *config.Config, opts *options, fs *flag.FlagSet) {
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "dir":
			cfg.Data.Dir = opts.dir
		case "out":
			cfg.Output.Path = opts.out
		case "format":
			cfg.Output.Format = opts.format
		case "delivered":
			cfg.Features.IsDelivered = opts.delivered
		case "distance":
			cfg.Features.WithDistance = opts.distance
		case "strict":
			cfg.Features.StrictJoins = opts.strict
		case "bom":
			cfg.Output.BOM = opts.bom
		}
	})
}

func run(ctx context.Context, args []string, output io.Writer) error {
	start := time.Now()

	opts, fs, err := parseFlags(args, output)
	if err != nil {
		return err
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlags(cfg, opts, fs)
	if err := cfg.Validate(); err != nil {
		return err
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}

	ctx = infrastructure.EnsureTraceID(ctx)

	tel, err := infrastructure.InitializeTelemetry(ctx, cfg.Telemetry, logger)
	if err != nil {
		return err
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if serr := tel.Shutdown(shutdownCtx); serr != nil {
			logger.WarnContext(ctx, "telemetry shutdown failed", slog.String("error", serr.Error()))
		}
	}()

	logger.InfoContext(ctx, "Starting feature build",
		slog.String("data_dir", cfg.Data.Dir),
		slog.Bool("is_delivered", cfg.Features.IsDelivered),
		slog.Bool("with_distance", cfg.Features.WithDistance),
		slog.Bool("strict_joins", cfg.Features.StrictJoins),
		slog.String("output", cfg.Output.Path))

	loader := dataset.NewLoader(cfg.Data, logger)
	loader.Tracer = tel.Tracer
	loader.Metrics = tel.Metrics

	builder, err := features.NewBuilder(ctx, loader,
		features.WithLogger(logger),
		features.WithTracer(tel.Tracer),
		features.WithMetrics(tel.Metrics),
		features.WithStrictJoins(cfg.Features.StrictJoins))
	if err != nil {
		return err
	}

	table, err := builder.TrainingData(ctx, cfg.Features.IsDelivered, cfg.Features.WithDistance)
	if err != nil {
		return err
	}

	if cfg.Output.Path == "" {
		logger.InfoContext(ctx, "No output path configured, skipping export")
	} else {
		sink, err := exporter.New(cfg.Output.Format, cfg.Output.Path,
			exporter.WithBOM(cfg.Output.BOM),
			exporter.WithLogger(logger))
		if err != nil {
			return err
		}
		result, err := sink.Write(ctx, table)
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}
		logger.InfoContext(ctx, "Training table exported",
			slog.String("format", result.Format),
			slog.String("path", result.Path),
			slog.Int("records", result.RecordCount),
			slog.Duration("duration", result.Duration))
	}

	logger.InfoContext(ctx, "Feature build completed",
		slog.Int("rows", table.Len()),
		slog.Int("columns", len(table.Columns())),
		slog.Duration("duration", time.Since(start)),
		slog.Any("runtime", tel.Runtime.Collect(ctx, start)))
	return nil
}
