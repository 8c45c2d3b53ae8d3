package dataprocessing

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "orderpulse/internal/errors"
	"orderpulse/internal/exporter"
	"orderpulse/internal/infrastructure"
	"orderpulse/internal/shared/testutil"
	"orderpulse/pkg/contracts/domain"
)

func newTestProcessor(t *testing.T, cfg ProcessorConfig, opts ...Option) (*OrderProcessor, *testutil.BufferedSlogHandler) {
	t.Helper()
	logger, handler := testutil.NewTestLogger(t)
	opts = append([]Option{WithClock(fixedClock)}, opts...)
	return NewOrderProcessor(logger, cfg, opts...), handler
}

func TestOrderProcessor_Example(t *testing.T) {
	processor, handler := newTestProcessor(t, DefaultProcessorConfig())
	ctx := context.Background()

	path := testutil.WriteOrdersFile(t, "orders_stream.jsonl", testutil.ExampleOrders(t))
	require.NoError(t, processor.ProcessFile(ctx, path))

	processed := processor.ProcessedOrders()
	require.Len(t, processed, 1)
	assert.Equal(t, domain.OrderID("1"), processed[0].ID)
	assertMoney(t, "10", processed[0].Total())
	require.NotNil(t, processed[0].ProcessedAt)
	assert.True(t, processed[0].ProcessedAt.Equal(fixedTime))

	report, err := processor.DailyReport(ctx)
	require.NoError(t, err)
	require.Equal(t, 1, report.Len())
	stat, ok := report.Get("2024-01-01", "web")
	require.True(t, ok)
	assertMoney(t, "10", stat.Sum)
	assert.Equal(t, 1, stat.Count)
	assertMoney(t, "10", stat.Mean)
	assert.Equal(t, 1, stat.DistinctCustomers)

	top := processor.TopCustomers(ctx, domain.DefaultTopCustomersLimit)
	require.Len(t, top, 1)
	assert.Equal(t, "A", top[0].CustomerID)
	assertMoney(t, "10", top[0].Total)

	stats := processor.Stats()
	assert.Equal(t, 2, stats.Loaded)
	assert.Equal(t, 1, stats.Processed)
	assert.Equal(t, map[string]int{"pending": 1}, stats.Dropped)
	assert.Equal(t, 1, stats.DroppedTotal())

	record, ok := handler.FindMessage("orders processed")
	require.True(t, ok)
	assert.Equal(t, "order_processor", record.Attrs["component"])
	testutil.AssertNoErrors(t, handler)
}

func TestOrderProcessor_TotalsComputedBeforeFiltering(t *testing.T) {
	processor, _ := newTestProcessor(t, DefaultProcessorConfig())

	// A dropped order with a negative item still fails the run.
	input := testutil.NDJSON(t,
		testutil.NewOrderLine("1", "A", "web", "2024-01-01T10:00:00Z", "confirmed", testutil.ItemLine(1, 1)),
		testutil.NewOrderLine("2", "B", "web", "2024-01-01T10:00:00Z", "cancelled", testutil.ItemLine(-1, 1)),
	)

	err := processor.Process(context.Background(), strings.NewReader(input))
	assert.ErrorIs(t, err, apperrors.ErrInvalidItem)
	assert.Empty(t, processor.ProcessedOrders(), "failed run does not replace the processed set")
}

func TestOrderProcessor_EmptyInputSet(t *testing.T) {
	onlyPending := testutil.NDJSON(t,
		testutil.NewOrderLine("1", "A", "web", "2024-01-01T10:00:00Z", "pending", testutil.ItemLine(1, 1)),
	)

	t.Run("empty reports by default", func(t *testing.T) {
		processor, handler := newTestProcessor(t, DefaultProcessorConfig())
		ctx := context.Background()

		require.NoError(t, processor.Process(ctx, strings.NewReader(onlyPending)))

		report, err := processor.DailyReport(ctx)
		require.NoError(t, err)
		assert.Equal(t, 0, report.Len())
		assert.Empty(t, processor.TopCustomers(ctx, 10))
		testutil.AssertLogContains(t, handler, slog.LevelWarn, "no confirmed orders")
	})

	t.Run("fail on empty", func(t *testing.T) {
		processor, _ := newTestProcessor(t, ProcessorConfig{FailOnEmpty: true})

		err := processor.Process(context.Background(), strings.NewReader(onlyPending))
		assert.ErrorIs(t, err, apperrors.ErrEmptyInputSet)
		assert.Equal(t, 1, processor.Stats().Loaded)
	})

	t.Run("empty file", func(t *testing.T) {
		processor, _ := newTestProcessor(t, ProcessorConfig{FailOnEmpty: true})

		err := processor.Process(context.Background(), strings.NewReader(""))
		assert.ErrorIs(t, err, apperrors.ErrEmptyInputSet)
	})
}

func TestOrderProcessor_MalformedInput(t *testing.T) {
	processor, _ := newTestProcessor(t, DefaultProcessorConfig())

	err := processor.Process(context.Background(), strings.NewReader(testutil.ExampleOrders(t)+"{not json}\n"))
	assert.ErrorIs(t, err, apperrors.ErrMalformedRecord)
	assert.Empty(t, processor.ProcessedOrders())
}

func TestOrderProcessor_ReportsAreRecomputed(t *testing.T) {
	processor, _ := newTestProcessor(t, DefaultProcessorConfig())
	ctx := context.Background()

	require.NoError(t, processor.Process(ctx, strings.NewReader(testutil.ExampleOrders(t))))
	first, err := processor.DailyReport(ctx)
	require.NoError(t, err)

	second := testutil.NDJSON(t,
		testutil.NewOrderLine("9", "Z", "api", "2024-05-05T10:00:00Z", "confirmed", testutil.ItemLine(1, 1)),
	)
	require.NoError(t, processor.Process(ctx, strings.NewReader(second)))
	again, err := processor.DailyReport(ctx)
	require.NoError(t, err)

	_, ok := first.Get("2024-01-01", "web")
	assert.True(t, ok)
	_, ok = again.Get("2024-05-05", "api")
	assert.True(t, ok)
	assert.Equal(t, 1, again.Len())
}

func TestOrderProcessor_ProcessedOrdersIsACopy(t *testing.T) {
	processor, _ := newTestProcessor(t, DefaultProcessorConfig())
	require.NoError(t, processor.Process(context.Background(), strings.NewReader(testutil.ExampleOrders(t))))

	orders := processor.ProcessedOrders()
	orders[0] = nil
	assert.NotNil(t, processor.ProcessedOrders()[0])

	stats := processor.Stats()
	stats.Dropped["pending"] = 99
	assert.Equal(t, 1, processor.Stats().Dropped["pending"])
}

func TestOrderProcessor_RoundTrip(t *testing.T) {
	for _, format := range []exporter.Format{exporter.FormatJSON, exporter.FormatJSONL} {
		t.Run(string(format), func(t *testing.T) {
			ctx := context.Background()
			input := testutil.NDJSON(t,
				testutil.NewOrderLine("1", "A", "web", "2024-01-01T10:00:00+03:00", "confirmed",
					testutil.ItemLine(3, "19.99"), testutil.ItemLine(1, 0.1)),
				testutil.NewOrderLine(2, "B", "mobile", "2024-01-01 11:00:00", "confirmed", testutil.ItemLine(7, 0.07)),
			)

			processor, _ := newTestProcessor(t, DefaultProcessorConfig())
			require.NoError(t, processor.Process(ctx, strings.NewReader(input)))

			out := filepath.Join(t.TempDir(), "processed_orders."+string(format))
			require.NoError(t, processor.SaveResults(ctx, out, format))

			// A later clock proves reloaded orders are not reprocessed.
			reloader := NewOrderProcessor(nil, DefaultProcessorConfig(), WithClock(UTCClock))
			require.NoError(t, reloader.ProcessFile(ctx, out))

			before := processor.ProcessedOrders()
			after := reloader.ProcessedOrders()
			require.Len(t, after, len(before))
			for i := range before {
				assert.Equal(t, before[i].ID, after[i].ID)
				assert.True(t, before[i].Total().Equal(after[i].Total().Decimal),
					"order_total %s != %s", before[i].Total(), after[i].Total())
				assert.True(t, before[i].ProcessedAt.Equal(*after[i].ProcessedAt))
				assert.Equal(t, before[i].Timestamp, after[i].Timestamp)
			}
		})
	}
}

func TestOrderProcessor_RecordsMetrics(t *testing.T) {
	providers, err := infrastructure.InitializeOTel(infrastructure.DefaultOTelConfig(),
		slog.New(slog.NewJSONHandler(io.Discard, nil)))
	require.NoError(t, err)
	defer providers.Shutdown(context.Background())

	metrics, err := infrastructure.NewPipelineMetrics(providers.Meter)
	require.NoError(t, err)

	processor, _ := newTestProcessor(t, DefaultProcessorConfig(), WithMetrics(metrics))
	ctx := context.Background()
	require.NoError(t, processor.Process(ctx, strings.NewReader(testutil.ExampleOrders(t))))
	processor.TopCustomers(ctx, 5)

	families, err := providers.Registry.Gather()
	require.NoError(t, err)

	counters := map[string]float64{}
	stages := map[string]uint64{}
	for _, mf := range families {
		for _, m := range mf.GetMetric() {
			if c := m.GetCounter(); c != nil {
				counters[mf.GetName()] += c.GetValue()
			}
			if h := m.GetHistogram(); h != nil {
				for _, label := range m.GetLabel() {
					if label.GetName() == "stage" {
						stages[label.GetValue()] += h.GetSampleCount()
					}
				}
			}
		}
	}
	for _, stage := range []string{"load", "transform", "filter", "top_customers"} {
		assert.Equal(t, uint64(1), stages[stage], "stage %s", stage)
	}
	assert.Equal(t, 2.0, counters["orderpulse_orders_loaded_total"])
	assert.Equal(t, 1.0, counters["orderpulse_orders_dropped_total"])
	assert.Equal(t, 1.0, counters["orderpulse_orders_processed_total"])
}
