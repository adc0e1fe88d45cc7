// Package exporter renders report documents as JSON, CSV or XLSX.
//
// This package contains two writers:
//
// CSVWriter: Core CSV writing functionality with headers and an optional
// UTF-8 BOM for Excel compatibility. Only the records table is written.
//
// XLSXWriter: Builds a workbook with a Records sheet and a Summary sheet
// holding the metadata block and the reconciliation record.
//
// Example usage:
//
//	exp := exporter.New(logger)
//	format, ok := exporter.ParseFormat(r.URL.Query().Get("format"))
//	if !ok {
//		// reject the request
//	}
//	err := exp.Export(w, doc, format)
package exporter
