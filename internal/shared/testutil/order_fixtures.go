package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// OrderLine builds one input record. Fields set to nil are omitted, which is
// how tests produce records with missing keys.
type OrderLine map[string]any

// ItemLine builds one input line item.
func ItemLine(quantity any, unitPrice any) map[string]any {
	return map[string]any{"quantity": quantity, "unit_price": unitPrice}
}

// NewOrderLine returns a complete record with the given identity. Callers
// override or delete keys as needed.
func NewOrderLine(id any, customerID, channel, timestamp, status string, items ...map[string]any) OrderLine {
	if items == nil {
		items = []map[string]any{}
	}
	return OrderLine{
		"id":          id,
		"customer_id": customerID,
		"channel":     channel,
		"timestamp":   timestamp,
		"status":      status,
		"items":       items,
	}
}

// Without returns a copy of the record lacking key.
func (o OrderLine) Without(key string) OrderLine {
	out := make(OrderLine, len(o))
	for k, v := range o {
		if k != key {
			out[k] = v
		}
	}
	return out
}

// With returns a copy of the record with key set to value.
func (o OrderLine) With(key string, value any) OrderLine {
	out := make(OrderLine, len(o)+1)
	for k, v := range o {
		out[k] = v
	}
	out[key] = value
	return out
}

// JSON encodes the record as a single line.
func (o OrderLine) JSON(t *testing.T) string {
	t.Helper()
	b, err := json.Marshal(map[string]any(o))
	if err != nil {
		t.Fatalf("marshal order line: %v", err)
	}
	return string(b)
}

// NDJSON joins records into a newline-delimited stream.
func NDJSON(t *testing.T, lines ...OrderLine) string {
	t.Helper()
	encoded := make([]string, len(lines))
	for i, l := range lines {
		encoded[i] = l.JSON(t)
	}
	return strings.Join(encoded, "\n") + "\n"
}

// WriteOrdersFile writes content to name inside a fresh temp dir and returns
// the full path.
func WriteOrdersFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write orders file: %v", err)
	}
	return path
}

// ExampleOrders is the two-order stream used throughout the pipeline docs:
// one confirmed web order for customer A and one pending order for B.
func ExampleOrders(t *testing.T) string {
	t.Helper()
	return NDJSON(t,
		NewOrderLine(1, "A", "web", "2024-01-01T10:00:00Z", "confirmed", ItemLine(2, 5.0)),
		NewOrderLine(2, "B", "web", "2024-01-01T11:00:00Z", "pending", ItemLine(1, 3.0)),
	)
}
