package exporter

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"orderpulse/internal/config"
	apperrors "orderpulse/internal/errors"
	"orderpulse/pkg/contracts/domain"
)

// Format selects the encoding of processed orders.
type Format string

const (
	FormatJSON  Format = config.OutputFormatJSON  // JSON array
	FormatJSONL Format = config.OutputFormatJSONL // one object per line
)

// ParseFormat accepts "json" or "jsonl", case-insensitively. Empty means JSON.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatJSONL:
		return FormatJSONL, nil
	default:
		return "", apperrors.NewAppValidationError(fmt.Sprintf("unsupported output format %q", s))
	}
}

// OrderWriter serializes processed orders, including order_total and
// processed_at (RFC 3339 with nanoseconds).
type OrderWriter struct {
	logger *slog.Logger
}

// NewOrderWriter creates a writer. A nil logger uses slog.Default.
func NewOrderWriter(logger *slog.Logger) *OrderWriter {
	if logger == nil {
		logger = slog.Default()
	}
	return &OrderWriter{logger: logger}
}

// Write encodes orders to out. An empty set is written as [] in JSON format
// and as nothing in JSONL format.
func (w *OrderWriter) Write(out io.Writer, orders []*domain.Order, format Format) error {
	switch format {
	case FormatJSON, "":
		if orders == nil {
			orders = []*domain.Order{}
		}
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(orders)
	case FormatJSONL:
		enc := json.NewEncoder(out)
		for _, o := range orders {
			if err := enc.Encode(o); err != nil {
				return fmt.Errorf("encode order %s: %w", o.ID, err)
			}
		}
		return nil
	default:
		return apperrors.NewAppValidationError(fmt.Sprintf("unsupported output format %q", format))
	}
}

// Save writes orders to path, creating its directory if needed.
func (w *OrderWriter) Save(ctx context.Context, path string, orders []*domain.Order, format Format) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return apperrors.NewStorageError("create output directory", err)
	}

	file, err := os.Create(path)
	if err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("create output %s", path), err)
	}

	buf := bufio.NewWriter(file)
	if err := w.Write(buf, orders, format); err != nil {
		file.Close()
		return err
	}
	if err := buf.Flush(); err != nil {
		file.Close()
		return apperrors.NewStorageError(fmt.Sprintf("write output %s", path), err)
	}
	if err := file.Close(); err != nil {
		return apperrors.NewStorageError(fmt.Sprintf("close output %s", path), err)
	}

	w.logger.InfoContext(ctx, "processed orders saved",
		slog.String("file", path),
		slog.String("format", string(format)),
		slog.Int("count", len(orders)))
	return nil
}
