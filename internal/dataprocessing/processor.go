package dataprocessing

import (
	"context"
	"io"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel/attribute"

	"orderpulse/internal/config"
	apperrors "orderpulse/internal/errors"
	"orderpulse/internal/exporter"
	"orderpulse/internal/infrastructure"
	"orderpulse/pkg/contracts/domain"
)

// ProcessorConfig holds configuration options for the OrderProcessor.
type ProcessorConfig struct {
	MaxLineBytes int  // Longest accepted input line
	FailOnEmpty  bool // Return EmptyInputSet when no confirmed orders remain
}

// DefaultProcessorConfig returns the configuration used when none is given.
func DefaultProcessorConfig() ProcessorConfig {
	return ProcessorConfig{
		MaxLineBytes: config.DefaultMaxLineBytes,
		FailOnEmpty:  false,
	}
}

// ProcessorConfigFrom maps the pipeline section of the app config.
func ProcessorConfigFrom(cfg config.PipelineConfig) ProcessorConfig {
	return ProcessorConfig{
		MaxLineBytes: cfg.MaxLineBytes,
		FailOnEmpty:  cfg.FailOnEmpty,
	}
}

// RunStats summarizes the last pipeline run.
type RunStats struct {
	Loaded    int            `json:"loaded"`
	Processed int            `json:"processed"`
	Dropped   map[string]int `json:"dropped"`
	Duration  time.Duration  `json:"duration"`
}

// DroppedTotal returns the number of orders removed by the status filter.
func (s RunStats) DroppedTotal() int {
	n := 0
	for _, c := range s.Dropped {
		n += c
	}
	return n
}

// Option customizes an OrderProcessor.
type Option func(*OrderProcessor)

// WithClock sets the clock used to stamp processed_at.
func WithClock(now Clock) Option {
	return func(p *OrderProcessor) {
		p.clock = now
	}
}

// WithMetrics records pipeline metrics on m.
func WithMetrics(m *infrastructure.PipelineMetrics) Option {
	return func(p *OrderProcessor) {
		p.metrics = m
	}
}

// OrderProcessor runs load → transform → filter and owns the resulting
// processed order set. Reports are recomputed from that set on every call.
//
// An OrderProcessor is not safe for concurrent use.
type OrderProcessor struct {
	logger      *slog.Logger
	config      ProcessorConfig
	clock       Clock
	metrics     *infrastructure.PipelineMetrics
	loader      *Loader
	transformer *Transformer

	processed []*domain.Order
	stats     RunStats
}

// NewOrderProcessor creates a processor. A nil logger uses slog.Default.
func NewOrderProcessor(logger *slog.Logger, cfg ProcessorConfig, opts ...Option) *OrderProcessor {
	if logger == nil {
		logger = slog.Default()
	}

	p := &OrderProcessor{
		logger:    infrastructure.WithComponent(logger, "order_processor"),
		config:    cfg,
		clock:     UTCClock,
		processed: []*domain.Order{},
		stats:     RunStats{Dropped: map[string]int{}},
	}
	for _, opt := range opts {
		opt(p)
	}

	p.loader = NewLoader(logger, LoaderConfig{MaxLineBytes: cfg.MaxLineBytes})
	p.transformer = NewTransformer(logger, p.clock)
	return p
}

// ProcessFile runs the pipeline over the orders in path.
func (p *OrderProcessor) ProcessFile(ctx context.Context, path string) error {
	ctx, span := infrastructure.StartSpan(ctx, "pipeline.process_file", attribute.String("input.path", path))
	defer span.End()

	err := p.run(ctx, func(ctx context.Context) ([]*domain.Order, error) {
		return p.loader.LoadFile(ctx, path)
	})
	if err != nil {
		infrastructure.RecordError(ctx, err)
	}
	return err
}

// Process runs the pipeline over the orders read from r. The previous
// processed set is replaced only when the run succeeds, or fails solely
// because the set is empty.
func (p *OrderProcessor) Process(ctx context.Context, r io.Reader) error {
	return p.run(ctx, func(ctx context.Context) ([]*domain.Order, error) {
		return p.loader.Load(ctx, r)
	})
}

func (p *OrderProcessor) run(ctx context.Context, load func(context.Context) ([]*domain.Order, error)) error {
	start := time.Now()

	var orders []*domain.Order
	err := p.stage(ctx, "load", func(ctx context.Context) error {
		var err error
		orders, err = load(ctx)
		return err
	})
	if err != nil {
		return err
	}
	p.metrics.RecordLoaded(ctx, len(orders))

	// Totals are computed for every order, before filtering.
	err = p.stage(ctx, "transform", func(ctx context.Context) error {
		return p.transformer.Transform(ctx, orders)
	})
	if err != nil {
		return err
	}

	var kept []*domain.Order
	var dropped map[string]int
	p.step(ctx, "filter", func(context.Context) {
		kept, dropped = partition(orders, ConfirmedOnly)
	})
	p.metrics.RecordDropped(ctx, dropped)
	p.metrics.RecordProcessed(ctx, len(kept))

	p.processed = kept
	p.stats = RunStats{
		Loaded:    len(orders),
		Processed: len(kept),
		Dropped:   dropped,
		Duration:  time.Since(start),
	}

	p.logger.InfoContext(ctx, "orders processed",
		slog.Int("loaded", p.stats.Loaded),
		slog.Int("processed", p.stats.Processed),
		slog.Int("dropped", p.stats.DroppedTotal()),
		slog.Duration("duration", p.stats.Duration))

	if len(kept) == 0 {
		p.logger.WarnContext(ctx, "no confirmed orders in input",
			slog.Int("loaded", len(orders)))
		if p.config.FailOnEmpty {
			return apperrors.NewEmptyInputSetError(len(orders))
		}
	}
	return nil
}

// stage runs fn inside a span and records its duration and error type.
func (p *OrderProcessor) stage(ctx context.Context, name string, fn func(context.Context) error) error {
	ctx, span := infrastructure.StartSpan(ctx, "pipeline."+name)
	defer span.End()

	start := time.Now()
	err := fn(ctx)
	if err != nil {
		infrastructure.RecordError(ctx, err)
	}
	p.metrics.RecordStage(ctx, name, time.Since(start), err, string(apperrors.TypeOf(err)))
	return err
}

// step is stage for work that cannot fail.
func (p *OrderProcessor) step(ctx context.Context, name string, fn func(context.Context)) {
	ctx, span := infrastructure.StartSpan(ctx, "pipeline."+name)
	defer span.End()

	start := time.Now()
	fn(ctx)
	p.metrics.RecordStage(ctx, name, time.Since(start), nil, "")
}

// ProcessedOrders returns the confirmed, enriched orders of the last run in
// input order.
func (p *OrderProcessor) ProcessedOrders() []*domain.Order {
	out := make([]*domain.Order, len(p.processed))
	copy(out, p.processed)
	return out
}

// Stats returns the counters of the last run.
func (p *OrderProcessor) Stats() RunStats {
	stats := p.stats
	stats.Dropped = make(map[string]int, len(p.stats.Dropped))
	for k, v := range p.stats.Dropped {
		stats.Dropped[k] = v
	}
	return stats
}

// DailyReport computes statistics by (date, channel) over the processed set.
func (p *OrderProcessor) DailyReport(ctx context.Context) (*domain.DailyReport, error) {
	var report *domain.DailyReport
	err := p.stage(ctx, "daily_report", func(ctx context.Context) error {
		var err error
		report, err = GenerateDailyReport(p.processed)
		return err
	})
	if err != nil {
		return nil, err
	}

	p.logger.DebugContext(ctx, "daily report generated", slog.Int("groups", report.Len()))
	return report, nil
}

// TopCustomers ranks customers of the processed set by total spend.
func (p *OrderProcessor) TopCustomers(ctx context.Context, limit int) []domain.CustomerTotal {
	var top []domain.CustomerTotal
	p.step(ctx, "top_customers", func(context.Context) {
		top = TopCustomers(p.processed, limit)
	})
	return top
}

// SaveResults writes the processed set to path.
func (p *OrderProcessor) SaveResults(ctx context.Context, path string, format exporter.Format) error {
	return p.stage(ctx, "save", func(ctx context.Context) error {
		return exporter.NewOrderWriter(p.logger).Save(ctx, path, p.processed, format)
	})
}
