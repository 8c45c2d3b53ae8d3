package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"
	"time"

	"orderpulse/internal/config"
	"orderpulse/internal/dataprocessing"
	apperrors "orderpulse/internal/errors"
	"orderpulse/internal/exporter"
	"orderpulse/internal/infrastructure"
	"orderpulse/internal/validation"
	"orderpulse/pkg/contracts"
	"orderpulse/pkg/contracts/domain"
)

// cliOptions holds the command line flags. Only flags the user set override
// the loaded configuration.
type cliOptions struct {
	configPath  string
	in          string
	out         string
	format      string
	reportsDir  string
	top         int
	failOnEmpty bool
	metricsFile string
	version     bool
	set         map[string]bool
}

func parseFlags(args []string, stderr io.Writer) (*cliOptions, error) {
	opts := &cliOptions{set: map[string]bool{}}

	fs := flag.NewFlagSet("orderpipe", flag.ContinueOnError)
	fs.SetOutput(stderr)
	fs.StringVar(&opts.configPath, "config", "", "path to orderpulse.yaml (defaults to ./orderpulse.yaml or configs/orderpulse.yaml)")
	fs.StringVar(&opts.in, "in", config.DefaultInputFile, "input file of newline-delimited JSON orders")
	fs.StringVar(&opts.out, "out", config.DefaultOutputFile, "output file for processed orders")
	fs.StringVar(&opts.format, "format", config.OutputFormatJSON, "output format: json or jsonl")
	fs.StringVar(&opts.reportsDir, "reports", config.DefaultReportsDir, "directory for CSV and XLSX reports")
	fs.IntVar(&opts.top, "top", config.DefaultTopCustomers, "number of top customers to report")
	fs.BoolVar(&opts.failOnEmpty, "fail-on-empty", false, "exit with an error when no confirmed orders are found")
	fs.StringVar(&opts.metricsFile, "metrics-file", "", "write Prometheus metrics to this textfile after the run")
	fs.BoolVar(&opts.version, "version", false, "print version information and exit")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}
	fs.Visit(func(f *flag.Flag) {
		opts.set[f.Name] = true
	})
	return opts, nil
}

// applyFlags overrides cfg with the flags that were given explicitly.
func applyFlags(cfg *config.Config, opts *cliOptions) error {
	if opts.set["in"] {
		cfg.Pipeline.InputFile = opts.in
	}
	if opts.set["out"] {
		cfg.Pipeline.OutputFile = opts.out
	}
	if opts.set["format"] {
		cfg.Pipeline.OutputFormat = opts.format
	}
	if opts.set["reports"] {
		cfg.Reports.Dir = opts.reportsDir
	}
	if opts.set["top"] {
		cfg.Pipeline.TopCustomers = opts.top
	}
	if opts.set["fail-on-empty"] {
		cfg.Pipeline.FailOnEmpty = opts.failOnEmpty
	}
	if opts.set["metrics-file"] {
		cfg.Telemetry.MetricsFile = opts.metricsFile
	}
	return cfg.Validate()
}

func main() {
	opts, err := parseFlags(os.Args[1:], os.Stderr)
	if err != nil {
		if errors.Is(err, flag.ErrHelp) {
			os.Exit(0)
		}
		os.Exit(2)
	}
	if opts.version {
		fmt.Println(contracts.GetFullVersionString())
		return
	}

	cfg, err := config.Load(opts.configPath)
	if err != nil {
		slog.Error("Failed to load config", "error", err)
		os.Exit(1)
	}
	if err := applyFlags(cfg, opts); err != nil {
		slog.Error("Invalid command line options", "error", err)
		os.Exit(2)
	}

	logger, err := infrastructure.InitializeLogger(cfg.Logging)
	if err != nil {
		slog.Warn("Failed to initialize logger, using default", "error", err)
		logger = slog.Default()
	}
	defer infrastructure.CloseLogFile()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx = infrastructure.EnsureRunID(ctx)

	if err := run(ctx, cfg, logger, os.Stdout); err != nil {
		logger.ErrorContext(ctx, "Order pipeline failed",
			slog.String("error", err.Error()),
			slog.String("error_type", string(apperrors.TypeOf(err))))
		stop()
		infrastructure.CloseLogFile()
		os.Exit(1)
	}
}

// run executes one pipeline run and prints both reports to stdout.
func run(ctx context.Context, cfg *config.Config, logger *slog.Logger, stdout io.Writer) error {
	start := time.Now()

	logger.InfoContext(ctx, "Starting order pipeline",
		slog.String("version", contracts.Version),
		slog.String("input", cfg.Pipeline.InputFile),
		slog.String("output", cfg.Pipeline.OutputFile),
		slog.String("format", cfg.Pipeline.OutputFormat),
		slog.String("reports_dir", cfg.Reports.Dir),
		slog.Int("top_customers", cfg.Pipeline.TopCustomers))

	providers, err := infrastructure.InitializeOTel(infrastructure.OTelConfigFromTelemetry(cfg.Telemetry), logger)
	if err != nil {
		return apperrors.NewConfigError("initialize telemetry", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := providers.Shutdown(shutdownCtx); err != nil {
			infrastructure.WithError(logger, err).WarnContext(ctx, "Telemetry shutdown failed")
		}
	}()

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	if err != nil {
		return apperrors.NewConfigError("create pipeline metrics", err)
	}

	paths, err := config.NewPaths("", cfg)
	if err != nil {
		return apperrors.NewConfigError("resolve paths", err)
	}
	inputFile := paths.Resolve(cfg.Pipeline.InputFile)
	outputFile := paths.Resolve(cfg.Pipeline.OutputFile)

	validator := validation.NewFileValidator(logger)
	if err := validator.ValidateOrderFile(inputFile); err != nil {
		return err
	}
	if err := validator.ValidateOutputFile(outputFile); err != nil {
		return err
	}

	format, err := exporter.ParseFormat(cfg.Pipeline.OutputFormat)
	if err != nil {
		return err
	}

	processor := dataprocessing.NewOrderProcessor(logger,
		dataprocessing.ProcessorConfigFrom(cfg.Pipeline),
		dataprocessing.WithMetrics(metrics))

	if err := processor.ProcessFile(ctx, inputFile); err != nil {
		return err
	}

	report, err := processor.DailyReport(ctx)
	if err != nil {
		return err
	}
	top := processor.TopCustomers(ctx, cfg.Pipeline.TopCustomers)

	if err := processor.SaveResults(ctx, outputFile, format); err != nil {
		return err
	}

	if cfg.Reports.CSV || cfg.Reports.XLSX {
		if err := exporter.ExportAll(ctx, paths, cfg.Reports, logger, report, top); err != nil {
			return apperrors.NewStorageError("export reports", err)
		}
	}

	printDailyReport(stdout, report)
	fmt.Fprintln(stdout)
	printTopCustomers(stdout, top)

	if cfg.Telemetry.MetricsFile != "" {
		if err := providers.WriteMetricsFile(paths.Resolve(cfg.Telemetry.MetricsFile)); err != nil {
			infrastructure.WithError(logger, err).WarnContext(ctx, "Failed to write metrics file")
		}
	}

	stats := processor.Stats()
	logger.InfoContext(ctx, "Order pipeline completed",
		slog.Int("loaded", stats.Loaded),
		slog.Int("processed", stats.Processed),
		slog.Int("dropped", stats.DroppedTotal()),
		slog.Int("report_groups", report.Len()),
		slog.Duration("duration", time.Since(start)))
	return nil
}

func printDailyReport(w io.Writer, report *domain.DailyReport) {
	fmt.Fprintln(w, "Daily report")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "date\tchannel\tsum\tcount\tmean\tdistinct_customers\t")
	for _, s := range report.Rows() {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%d\t\n",
			s.Date, s.Channel, s.Sum.Fixed(2), s.Count, s.Mean.Fixed(2), s.DistinctCustomers)
	}
	tw.Flush()
}

func printTopCustomers(w io.Writer, top []domain.CustomerTotal) {
	fmt.Fprintln(w, "Top customers")
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', tabwriter.AlignRight)
	fmt.Fprintln(tw, "rank\tcustomer_id\ttotal\torders\t")
	for i, c := range top {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%d\t\n", i+1, c.CustomerID, c.Total.Fixed(2), c.OrderCount)
	}
	tw.Flush()
}
