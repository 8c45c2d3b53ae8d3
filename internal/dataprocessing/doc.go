// Package dataprocessing implements the order aggregation pipeline.
// It turns a stream of raw order records into enriched orders and the two
// reports derived from them.
//
// # Architecture
//
// The package is organized into four stages:
//
//  1. Loader: reads one JSON order per line (or a JSON array of orders)
//  2. Transformer: computes order_total and stamps processed_at
//  3. Filter: keeps orders whose status is exactly "confirmed"
//  4. Aggregators: daily statistics by (date, channel) and top customers
//
// OrderProcessor wires the stages together and owns the processed order set
// for the lifetime of one run.
//
// # Usage
//
//	processor := dataprocessing.NewOrderProcessor(logger, dataprocessing.DefaultProcessorConfig())
//	if err := processor.ProcessFile(ctx, "orders_stream.jsonl"); err != nil {
//	    return err
//	}
//	report, err := processor.DailyReport(ctx)
//	top := processor.TopCustomers(ctx, domain.DefaultTopCustomersLimit)
//
// # Data Flow
//
//	NDJSON → Loader → Orders → Transformer → Filter → Processed Orders → Reports
//
// # Error Handling
//
// Stage failures are returned as *errors.AppError values so callers can use
// errors.Is with errors.ErrMalformedRecord, errors.ErrInvalidItem and
// errors.ErrEmptyInputSet. Orders dropped by the status filter are not errors.
//
// # Numeric Semantics
//
// Currency is exact decimal arithmetic (shopspring/decimal). Totals do not
// depend on item order and means are divided with 16 digits of precision.
package dataprocessing
