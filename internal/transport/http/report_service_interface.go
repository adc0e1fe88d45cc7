package http

import (
	"context"

	"covidreport/internal/report"
)

// ReportServiceInterface defines the report operations the handler needs
type ReportServiceInterface interface {
	Generate(ctx context.Context, kind report.Kind, countryCode string) (report.Document, error)
}
