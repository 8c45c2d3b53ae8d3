package exporter

import (
	"context"
	"fmt"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"orderpulse/internal/config"
	"orderpulse/internal/infrastructure"
	"orderpulse/pkg/contracts/domain"
)

// ReportExporter writes the daily and top customers reports as CSV files.
type ReportExporter struct {
	paths  *config.Paths
	csv    *CSVWriter
	logger *slog.Logger
}

// NewReportExporter creates a CSV report exporter writing into paths.ReportsDir.
func NewReportExporter(paths *config.Paths, logger *slog.Logger) *ReportExporter {
	if logger == nil {
		logger = slog.Default()
	}
	logger = infrastructure.WithComponent(logger, "report_exporter")
	return &ReportExporter{
		paths:  paths,
		csv:    NewCSVWriter(paths, logger),
		logger: logger,
	}
}

// ExportDailyReport writes one row per (date, channel) group, sorted by date
// then channel.
func (e *ReportExporter) ExportDailyReport(ctx context.Context, report *domain.DailyReport) error {
	stream, err := e.csv.CreateStreamWriter(e.paths.DailyReportCSV, dailyHeaders)
	if err != nil {
		return fmt.Errorf("create daily report: %w", err)
	}

	rows := report.Rows()
	for _, stat := range rows {
		if err := stream.WriteRecord(dailyRecord(stat)); err != nil {
			stream.Close()
			return fmt.Errorf("write daily report row %s/%s: %w", stat.Date, stat.Channel, err)
		}
	}
	if err := stream.Close(); err != nil {
		return fmt.Errorf("close daily report: %w", err)
	}

	e.logger.InfoContext(ctx, "daily report exported",
		slog.String("file", e.paths.DailyReportCSV),
		slog.Int("rows", len(rows)))
	return nil
}

// ExportTopCustomers writes the ranked customers in the given order.
func (e *ReportExporter) ExportTopCustomers(ctx context.Context, top []domain.CustomerTotal) error {
	records := make([][]string, 0, len(top))
	for i, c := range top {
		records = append(records, customerRecord(i+1, c))
	}

	if err := e.csv.WriteSimpleCSV(e.paths.TopCustomersCSV, customerHeaders, records); err != nil {
		return fmt.Errorf("write top customers: %w", err)
	}

	e.logger.InfoContext(ctx, "top customers exported",
		slog.String("file", e.paths.TopCustomersCSV),
		slog.Int("rows", len(records)))
	return nil
}

// ExportAll writes every report artifact enabled in cfg concurrently. The
// report values must not be modified until it returns.
func ExportAll(ctx context.Context, paths *config.Paths, cfg config.ReportsConfig, logger *slog.Logger,
	report *domain.DailyReport, top []domain.CustomerTotal) error {
	if err := paths.EnsureDirectories(); err != nil {
		return err
	}

	g, ctx := errgroup.WithContext(ctx)

	if cfg.CSV {
		csvExporter := NewReportExporter(paths, logger)
		g.Go(func() error {
			return csvExporter.ExportDailyReport(ctx, report)
		})
		g.Go(func() error {
			return csvExporter.ExportTopCustomers(ctx, top)
		})
	}
	if cfg.XLSX {
		workbook := NewWorkbookExporter(paths, logger)
		g.Go(func() error {
			return workbook.Export(ctx, report, top)
		})
	}

	return g.Wait()
}
