package exporter

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"

	"github.com/xuri/excelize/v2"

	"covidreport/internal/report"
)

// Workbook sheet names
const (
	RecordsSheet = "Records"
	SummarySheet = "Summary"
)

// XLSXWriter renders a report as an Excel workbook with a Records sheet and
// a Summary sheet holding metadata and the reconciliation record.
type XLSXWriter struct {
	logger *slog.Logger
}

// NewXLSXWriter creates a new workbook writer
func NewXLSXWriter(logger *slog.Logger) *XLSXWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &XLSXWriter{logger: logger.With(slog.String("component", "xlsx_writer"))}
}

// WriteDocument writes doc as a workbook to w
func (x *XLSXWriter) WriteDocument(w io.Writer, doc report.Document) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), RecordsSheet); err != nil {
		return fmt.Errorf("failed to rename sheet: %w", err)
	}

	table := doc.Table()
	if err := writeRow(f, RecordsSheet, 1, toCells(table.Headers, false)); err != nil {
		return err
	}
	for i, row := range table.Rows {
		if err := writeRow(f, RecordsSheet, i+2, toCells(row, true)); err != nil {
			return err
		}
	}

	if _, err := f.NewSheet(SummarySheet); err != nil {
		return fmt.Errorf("failed to create summary sheet: %w", err)
	}
	for i, field := range doc.Summary() {
		if err := writeRow(f, SummarySheet, i+1, []any{field.Key, field.Value}); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(SummarySheet, "A", "B", 36); err != nil {
		return fmt.Errorf("failed to size summary columns: %w", err)
	}

	x.logger.Debug("Writing XLSX report",
		slog.String("kind", string(doc.Kind())),
		slog.Int("record_count", len(table.Rows)))

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return fmt.Errorf("failed to write %s row %d: %w", sheet, row, err)
	}
	return nil
}

// toCells converts text cells, storing whole numbers as numeric cells when
// numeric is set so spreadsheets can sum them.
func toCells(values []string, numeric bool) []any {
	cells := make([]any, len(values))
	for i, v := range values {
		cells[i] = v
		if !numeric {
			continue
		}
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			cells[i] = n
		}
	}
	return cells
}
