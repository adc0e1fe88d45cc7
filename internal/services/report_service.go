package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"covidreport/internal/dataset"
	"covidreport/internal/infrastructure"
	"covidreport/internal/query"
	"covidreport/internal/report"
	"covidreport/internal/storage"
)

// ReportService loads the dataset and turns query results into documents.
// Every call reads the source afresh; nothing is cached between calls.
type ReportService struct {
	source  storage.Source
	builder *report.Builder
	metrics *infrastructure.ReportMetrics
	tracer  trace.Tracer
	logger  *slog.Logger
}

// NewReportService creates a report service. metrics may be nil.
func NewReportService(source storage.Source, builder *report.Builder, metrics *infrastructure.ReportMetrics, logger *slog.Logger) *ReportService {
	if logger == nil {
		logger = slog.Default()
	}
	return &ReportService{
		source:  source,
		builder: builder,
		metrics: metrics,
		tracer:  otel.Tracer(infrastructure.InstrumentationName),
		logger:  logger.With(slog.String("component", "report_service")),
	}
}

// Generate builds the report of the given kind. countryCode is only used by
// the rolling report.
func (s *ReportService) Generate(ctx context.Context, kind report.Kind, countryCode string) (report.Document, error) {
	switch kind {
	case report.KindRolling:
		return s.RollingFiveDays(ctx, countryCode)
	case report.KindTotals:
		return s.TotalData(ctx)
	default:
		return nil, fmt.Errorf("unsupported report kind: %s", kind)
	}
}

// RollingFiveDays returns the last five days of the country's records,
// counted back from the dataset's latest date for that country
func (s *ReportService) RollingFiveDays(ctx context.Context, countryCode string) (*report.RollingDocument, error) {
	ctx, span := s.tracer.Start(ctx, "report.rolling_five_days",
		trace.WithAttributes(attribute.String("report.country_code", countryCode)))
	defer span.End()

	ds, err := s.loadDataset(ctx)
	if err != nil {
		return nil, s.fail(ctx, report.KindRolling, err)
	}

	start := time.Now()
	result, err := query.RollingWindow(ds, countryCode)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, query.ErrNotFound) {
			err = fmt.Errorf("%w: %s", ErrCountryNotFound, countryCode)
		}
		return nil, s.fail(ctx, report.KindRolling, err)
	}

	s.metrics.RecordReport(ctx, string(report.KindRolling), "ok", elapsed)
	s.logger.InfoContext(ctx, "Rolling report generated",
		slog.String("country_code", countryCode),
		slog.String("start_date", result.Reconciliation.StartDate),
		slog.String("end_date", result.Reconciliation.EndDate),
		slog.Int("records", result.Reconciliation.TotalRecords),
		slog.Duration("query_duration", elapsed))

	return s.builder.Rolling(result), nil
}

// TotalData returns lifetime case and death totals for every country
func (s *ReportService) TotalData(ctx context.Context) (*report.TotalsDocument, error) {
	ctx, span := s.tracer.Start(ctx, "report.total_data")
	defer span.End()

	ds, err := s.loadDataset(ctx)
	if err != nil {
		return nil, s.fail(ctx, report.KindTotals, err)
	}

	start := time.Now()
	result, err := query.TotalsByCountry(ds)
	elapsed := time.Since(start)
	if err != nil {
		if errors.Is(err, query.ErrEmptyDataset) {
			err = ErrNoDataFound
		}
		return nil, s.fail(ctx, report.KindTotals, err)
	}

	s.metrics.RecordReport(ctx, string(report.KindTotals), "ok", elapsed)
	s.logger.InfoContext(ctx, "Totals report generated",
		slog.Int("countries", result.Reconciliation.TotalRecords),
		slog.Int64("total_cases", result.Reconciliation.TotalCases),
		slog.Int64("total_deaths", result.Reconciliation.TotalDeaths),
		slog.Duration("query_duration", elapsed))

	return s.builder.Totals(result), nil
}

// loadDataset opens the source, parses and cleans it. An empty dataset after
// cleaning is ErrNoDataFound.
func (s *ReportService) loadDataset(ctx context.Context) (dataset.Dataset, error) {
	ctx, span := s.tracer.Start(ctx, "dataset.load",
		trace.WithAttributes(attribute.String("dataset.source", s.source.Describe())))
	defer span.End()

	start := time.Now()
	raw, err := s.readSource(ctx)
	s.metrics.RecordDatasetLoad(ctx, s.source.Describe(), time.Since(start), raw.Len(), err)
	if err != nil {
		infrastructure.RecordError(ctx, err)
		return dataset.Dataset{}, err
	}

	cleaned, stats := dataset.CleanWithStats(raw)
	s.metrics.RecordRowsDropped(ctx, "negative", stats.DroppedNegative)
	s.metrics.RecordRowsDropped(ctx, "bad_date", stats.DroppedBadDate)
	s.metrics.RecordRowsDropped(ctx, "duplicate", stats.DroppedDuplicates)

	infrastructure.AddSpanEvent(ctx, "dataset.cleaned", map[string]interface{}{
		"rows.input":   stats.Input,
		"rows.kept":    cleaned.Len(),
		"rows.filled":  stats.FilledMissing,
		"rows.dropped": stats.Dropped(),
	})
	s.logger.DebugContext(ctx, "Dataset loaded",
		slog.String("source", s.source.Describe()),
		slog.Int("rows", stats.Input),
		slog.Int("kept", cleaned.Len()),
		slog.Int("filled_missing", stats.FilledMissing),
		slog.Int("dropped_negative", stats.DroppedNegative),
		slog.Int("dropped_bad_date", stats.DroppedBadDate),
		slog.Int("dropped_duplicates", stats.DroppedDuplicates),
		slog.Duration("duration", time.Since(start)))

	if cleaned.IsEmpty() {
		return dataset.Dataset{}, ErrNoDataFound
	}
	return cleaned, nil
}

func (s *ReportService) readSource(ctx context.Context) (dataset.Dataset, error) {
	rc, err := s.source.Open(ctx)
	if err != nil {
		return dataset.Dataset{}, err
	}
	defer rc.Close()

	ds, err := dataset.Load(rc)
	if err != nil {
		return dataset.Dataset{}, err
	}
	// A slow source may outlive the request deadline mid-read
	if err := ctx.Err(); err != nil {
		return dataset.Dataset{}, err
	}
	return ds, nil
}

func (s *ReportService) fail(ctx context.Context, kind report.Kind, err error) error {
	outcome := "error"
	level := slog.LevelError
	switch {
	case errors.Is(err, ErrNoDataFound), errors.Is(err, ErrCountryNotFound):
		outcome = "not_found"
		level = slog.LevelInfo
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		outcome = "timeout"
		level = slog.LevelWarn
	}

	if outcome == "error" {
		infrastructure.RecordError(ctx, err)
	}
	s.metrics.RecordReport(ctx, string(kind), outcome, 0)
	s.logger.Log(ctx, level, "Report not generated",
		slog.String("kind", string(kind)),
		slog.String("outcome", outcome),
		slog.String("error", err.Error()))
	return err
}
