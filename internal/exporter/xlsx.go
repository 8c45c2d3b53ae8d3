package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/xuri/excelize/v2"

	"orderpulse/internal/config"
	"orderpulse/internal/infrastructure"
	"orderpulse/pkg/contracts/domain"
)

// moneyNumFmt is the built-in "0.00" number format.
const moneyNumFmt = 2

// WorkbookExporter writes both reports into one Excel workbook.
type WorkbookExporter struct {
	paths  *config.Paths
	logger *slog.Logger
}

// NewWorkbookExporter creates a workbook exporter writing paths.ReportWorkbook.
func NewWorkbookExporter(paths *config.Paths, logger *slog.Logger) *WorkbookExporter {
	if logger == nil {
		logger = slog.Default()
	}
	return &WorkbookExporter{
		paths:  paths,
		logger: infrastructure.WithComponent(logger, "workbook_exporter"),
	}
}

// Export writes the "Daily Report" and "Top Customers" sheets.
func (e *WorkbookExporter) Export(ctx context.Context, report *domain.DailyReport, top []domain.CustomerTotal) error {
	f := excelize.NewFile()
	defer f.Close()

	moneyStyle, err := f.NewStyle(&excelize.Style{NumFmt: moneyNumFmt})
	if err != nil {
		return fmt.Errorf("create money style: %w", err)
	}

	// The default sheet is renamed so the workbook has no empty first tab.
	if err := f.SetSheetName("Sheet1", config.DailyReportSheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	if _, err := f.NewSheet(config.TopCustomersSheetName); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}

	dailyRows := make([][]interface{}, 0, report.Len())
	for _, s := range report.Rows() {
		dailyRows = append(dailyRows, []interface{}{
			s.Date, s.Channel, s.Sum.Float64(), s.Count, s.Mean.Float64(), s.DistinctCustomers,
		})
	}
	if err := writeSheet(f, config.DailyReportSheetName, dailyHeaders, dailyRows, moneyStyle, "C", "E"); err != nil {
		return err
	}

	customerRows := make([][]interface{}, 0, len(top))
	for i, c := range top {
		customerRows = append(customerRows, []interface{}{
			i + 1, c.CustomerID, c.Total.Float64(), c.OrderCount,
		})
	}
	if err := writeSheet(f, config.TopCustomersSheetName, customerHeaders, customerRows, moneyStyle, "C"); err != nil {
		return err
	}

	if err := f.SaveAs(e.paths.ReportWorkbook); err != nil {
		return fmt.Errorf("save workbook %s: %w", e.paths.ReportWorkbook, err)
	}

	e.logger.InfoContext(ctx, "report workbook exported",
		slog.String("file", e.paths.ReportWorkbook),
		slog.Int("daily_rows", len(dailyRows)),
		slog.Int("customer_rows", len(customerRows)))
	return nil
}

// writeSheet writes a header row and data rows starting at A1, applying
// style to the money columns.
func writeSheet(f *excelize.File, sheet string, headers []string, rows [][]interface{}, style int, moneyCols ...string) error {
	header := make([]interface{}, len(headers))
	for i, h := range headers {
		header[i] = h
	}
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}

	for i := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(sheet, cell, &rows[i]); err != nil {
			return fmt.Errorf("write %s row %d: %w", sheet, i+1, err)
		}
	}

	for _, col := range moneyCols {
		if err := f.SetColStyle(sheet, col, style); err != nil {
			return fmt.Errorf("style %s column %s: %w", sheet, col, err)
		}
	}
	return nil
}
