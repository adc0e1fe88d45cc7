// Command reportgen builds one report from the dataset without starting the
// HTTP server and writes it to a file or stdout.
//
//	reportgen -mode rolling-five-days -country AUT
//	reportgen -mode total-data -format xlsx -out totals.xlsx
package main

import (
	"bytes"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"go.opentelemetry.io/otel/metric/noop"

	"covidreport/internal/config"
	apierrors "covidreport/internal/errors"
	"covidreport/internal/exporter"
	"covidreport/internal/infrastructure"
	"covidreport/internal/middleware"
	"covidreport/internal/report"
	"covidreport/internal/services"
	"covidreport/internal/storage"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Warn("Failed to load config, using defaults", slog.String("error", err.Error()))
		cfg = config.Default()
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", slog.String("error", err.Error()))
		logger = slog.Default()
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, os.Args[1:], os.Stdout, logger); err != nil {
		fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

// options are the parsed command line flags
type options struct {
	mode    string
	country string
	format  string
	out     string
	source  string
	path    string
	url     string
}

func parseFlags(args []string) (options, error) {
	var opts options

	fs := flag.NewFlagSet("reportgen", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&opts.mode, "mode", string(report.KindTotals), "rolling-five-days | total-data")
	fs.StringVar(&opts.country, "country", "", "countryterritoryCode, required for rolling-five-days")
	fs.StringVar(&opts.format, "format", string(exporter.FormatJSON), "json | csv | xlsx")
	fs.StringVar(&opts.out, "out", "-", "output file, - for stdout")
	fs.StringVar(&opts.source, "source", "", "dataset source override: file | http | azblob")
	fs.StringVar(&opts.path, "path", "", "local dataset path override")
	fs.StringVar(&opts.url, "url", "", "remote dataset url override")

	if err := fs.Parse(args); err != nil {
		return opts, err
	}
	return opts, nil
}

// run generates one report. Validation messages match the HTTP API.
func run(ctx context.Context, cfg *config.Config, args []string, stdout io.Writer, logger *slog.Logger) error {
	opts, err := parseFlags(args)
	if err != nil {
		return err
	}

	params := middleware.ReportParams{
		Endpoint:    opts.mode,
		CountryCode: opts.country,
		Format:      opts.format,
	}
	if err := middleware.NewParamValidator().Validate(&params); err != nil {
		return err
	}
	kind, _ := report.ParseKind(params.Endpoint)
	format, _ := exporter.ParseFormat(params.Format)

	dsCfg := cfg.Dataset
	if opts.source != "" {
		dsCfg.Source = opts.source
	}
	if opts.path != "" {
		dsCfg.Path = opts.path
	}
	if opts.url != "" {
		dsCfg.URL = opts.url
	}
	source, err := storage.New(dsCfg)
	if err != nil {
		return fmt.Errorf("dataset source: %w", err)
	}

	metrics, err := infrastructure.NewReportMetrics(noop.NewMeterProvider().Meter(infrastructure.InstrumentationName))
	if err != nil {
		return err
	}
	svc := services.NewReportService(source, report.NewBuilder(cfg.Report), metrics, logger)

	logger.InfoContext(ctx, "Generating report",
		slog.String("mode", string(kind)),
		slog.String("country", params.CountryCode),
		slog.String("format", string(format)),
		slog.String("source", source.Describe()))

	doc, err := svc.Generate(ctx, kind, params.CountryCode)
	switch {
	case errors.Is(err, services.ErrCountryNotFound):
		return apierrors.CountryNotFound(params.CountryCode)
	case errors.Is(err, services.ErrNoDataFound):
		return apierrors.ErrNoDataFound
	case err != nil:
		return apierrors.Processing(err)
	}

	var buf bytes.Buffer
	if err := exporter.New(logger).Export(&buf, doc, format); err != nil {
		return fmt.Errorf("export %s: %w", format, err)
	}

	if opts.out == "-" {
		_, err := stdout.Write(buf.Bytes())
		return err
	}

	if dir := filepath.Dir(opts.out); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}
	if err := os.WriteFile(opts.out, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("write %s: %w", opts.out, err)
	}

	logger.InfoContext(ctx, "Report written",
		slog.String("path", opts.out),
		slog.Int("bytes", buf.Len()))
	return nil
}
