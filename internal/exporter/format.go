package exporter

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"covidreport/internal/report"
)

// Format is an output representation of a report
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a user supplied format name. An empty name selects JSON.
func ParseFormat(s string) (Format, bool) {
	switch f := Format(strings.ToLower(strings.TrimSpace(s))); f {
	case "":
		return FormatJSON, true
	case FormatJSON, FormatCSV, FormatXLSX:
		return f, true
	}
	return "", false
}

// ContentType returns the MIME type of the format
func (f Format) ContentType() string {
	switch f {
	case FormatCSV:
		return "text/csv; charset=utf-8"
	case FormatXLSX:
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/json"
	}
}

// Filename builds the attachment name for a report, for example
// rolling-five-days-AUT.csv
func Filename(doc report.Document, f Format) string {
	name := string(doc.Kind())
	if rolling, ok := doc.(*report.RollingDocument); ok && rolling.CountryCode != "" {
		name += "-" + rolling.CountryCode
	}
	return name + "." + string(f)
}

// Exporter writes documents in any supported format
type Exporter struct {
	csv  *CSVWriter
	xlsx *XLSXWriter
}

// New creates an exporter
func New(logger *slog.Logger) *Exporter {
	return &Exporter{
		csv:  NewCSVWriter(logger),
		xlsx: NewXLSXWriter(logger),
	}
}

// Export writes doc to w in format f
func (e *Exporter) Export(w io.Writer, doc report.Document, f Format) error {
	switch f {
	case FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if err := enc.Encode(doc); err != nil {
			return fmt.Errorf("failed to encode json: %w", err)
		}
		return nil
	case FormatCSV:
		return e.csv.WriteDocument(w, doc, true)
	case FormatXLSX:
		return e.xlsx.WriteDocument(w, doc)
	default:
		return fmt.Errorf("unsupported format: %s", f)
	}
}
