// Package services implements the business logic between the HTTP handlers
// and the dataset.
//
// ReportService runs one synchronous pipeline per call:
//
//	source.Open -> dataset.Load -> dataset.CleanWithStats -> query -> report.Builder
//
// It returns ErrNoDataFound when nothing survives cleaning and
// ErrCountryNotFound when a rolling report names an unknown country. Other
// errors pass through wrapped with %w so callers can inspect them with
// errors.Is and errors.As.
//
// HealthService serves the health, readiness, liveness and version endpoints.
// Readiness reflects the last background probe of the dataset source.
package services
