// Package exporter writes pipeline results to files.
//
// This package contains four main components:
//
// OrderWriter: serializes processed orders as a JSON array or as JSON lines.
//
// CSVWriter: core CSV writing functionality with support for headers, streaming,
// and UTF-8 BOM for Excel compatibility.
//
// ReportExporter: writes the daily report and the top customers list as CSV.
//
// WorkbookExporter: writes both reports into a single Excel workbook.
//
// Example usage:
//
//	writer := exporter.NewOrderWriter(logger)
//	err := writer.Save(ctx, "processed_orders.json", orders, exporter.FormatJSON)
//
//	// Export every enabled report artifact concurrently
//	err = exporter.ExportAll(ctx, paths, cfg.Reports, logger, report, top)
package exporter
