package http

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	apierrors "covidreport/internal/errors"
	"covidreport/internal/exporter"
	"covidreport/internal/middleware"
	"covidreport/internal/report"
	"covidreport/internal/services"
)

// Route parameter names
const (
	ParamEndpoint    = "endpoint"
	ParamCountryCode = "countryterritoryCode"
	QueryFormat      = "format"
)

// ReportHandler serves the rolling-five-days and total-data reports
type ReportHandler struct {
	service      ReportServiceInterface
	validator    *middleware.ParamValidator
	exporter     *exporter.Exporter
	logger       *slog.Logger
	errorHandler *apierrors.ErrorHandler
}

// NewReportHandler creates a new report handler
func NewReportHandler(service ReportServiceInterface, exp *exporter.Exporter, logger *slog.Logger, errorHandler *apierrors.ErrorHandler) *ReportHandler {
	return &ReportHandler{
		service:      service,
		validator:    middleware.NewParamValidator(),
		exporter:     exp,
		logger:       logger.With(slog.String("component", "report_handler")),
		errorHandler: errorHandler,
	}
}

// Routes returns the report routes. Mounted under /api/http_trigger, the
// bare prefix reaches GetReport with no endpoint.
func (h *ReportHandler) Routes() chi.Router {
	r := chi.NewRouter()

	r.Get("/", h.GetReport)
	r.Get("/{endpoint}", h.GetReport)
	r.Get("/{endpoint}/", h.GetReport)
	r.Get("/{endpoint}/{countryterritoryCode}", h.GetReport)

	return r
}

// GetReport handles GET /api/http_trigger/{endpoint}/{countryterritoryCode}
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	params := middleware.ReportParams{
		Endpoint:    urlParam(r, ParamEndpoint),
		CountryCode: urlParam(r, ParamCountryCode),
		Format:      r.URL.Query().Get(QueryFormat),
	}
	if err := h.validator.Validate(&params); err != nil {
		h.errorHandler.HandleError(w, r, err)
		return
	}

	kind, _ := report.ParseKind(params.Endpoint)
	format, _ := exporter.ParseFormat(params.Format)

	doc, err := h.service.Generate(r.Context(), kind, params.CountryCode)
	if err != nil {
		h.errorHandler.HandleError(w, r, h.mapError(err, params.CountryCode))
		return
	}

	// Render fully before touching the response so an export failure still
	// yields a clean error response
	var buf bytes.Buffer
	if err := h.exporter.Export(&buf, doc, format); err != nil {
		h.errorHandler.HandleError(w, r, fmt.Errorf("export %s: %w", format, err))
		return
	}

	w.Header().Set("Content-Type", format.ContentType())
	if format != exporter.FormatJSON {
		w.Header().Set("Content-Disposition",
			fmt.Sprintf("attachment; filename=%q", exporter.Filename(doc, format)))
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(buf.Bytes()); err != nil {
		h.logger.WarnContext(r.Context(), "Failed to write report",
			slog.String("error", err.Error()))
	}
}

func (h *ReportHandler) mapError(err error, countryCode string) error {
	switch {
	case errors.Is(err, services.ErrCountryNotFound):
		return apierrors.CountryNotFound(countryCode)
	case errors.Is(err, services.ErrNoDataFound):
		return apierrors.ErrNoDataFound
	default:
		return err
	}
}

// urlParam returns the decoded route parameter
func urlParam(r *http.Request, key string) string {
	raw := chi.URLParam(r, key)
	if v, err := url.PathUnescape(raw); err == nil {
		return v
	}
	return raw
}
