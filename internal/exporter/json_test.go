package exporter

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "orderpulse/internal/errors"
	"orderpulse/pkg/contracts/domain"
)

func processedOrder(id, customer string, total string, at time.Time) *domain.Order {
	t := domain.MustMoney(total)
	return &domain.Order{
		ID:         domain.OrderID(id),
		CustomerID: customer,
		Channel:    domain.ChannelWeb,
		Timestamp:  "2024-01-01T10:00:00Z",
		Status:     domain.OrderStatusConfirmed,
		Items: []domain.Item{
			{Quantity: 1, UnitPrice: domain.MustMoney(total)},
		},
		OrderTotal:  &t,
		ProcessedAt: &at,
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		input   string
		want    Format
		wantErr bool
	}{
		{input: "", want: FormatJSON},
		{input: "json", want: FormatJSON},
		{input: "JSONL", want: FormatJSONL},
		{input: " jsonl ", want: FormatJSONL},
		{input: "csv", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseFormat(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.Equal(t, apperrors.ErrTypeValidation, apperrors.TypeOf(err))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrderWriter_Write(t *testing.T) {
	at := time.Date(2024, 1, 2, 3, 4, 5, 123456789, time.UTC)
	orders := []*domain.Order{
		processedOrder("1", "A", "10.5", at),
		processedOrder("2", "B", "3", at),
	}
	writer := NewOrderWriter(nil)

	t.Run("json array", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writer.Write(&buf, orders, FormatJSON))

		var decoded []map[string]interface{}
		require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
		require.Len(t, decoded, 2)
		assert.Equal(t, "1", decoded[0]["id"])
		assert.Equal(t, 10.5, decoded[0]["order_total"])
		assert.Equal(t, "2024-01-02T03:04:05.123456789Z", decoded[0]["processed_at"])
	})

	t.Run("json lines", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writer.Write(&buf, orders, FormatJSONL))

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 2)
		assert.Contains(t, lines[1], `"order_total":3`)
		assert.Contains(t, lines[1], `"customer_id":"B"`)
	})

	t.Run("empty set", func(t *testing.T) {
		var buf bytes.Buffer
		require.NoError(t, writer.Write(&buf, nil, FormatJSON))
		assert.Equal(t, "[]", strings.TrimSpace(buf.String()))

		buf.Reset()
		require.NoError(t, writer.Write(&buf, nil, FormatJSONL))
		assert.Empty(t, buf.String())
	})

	t.Run("unknown format", func(t *testing.T) {
		var buf bytes.Buffer
		err := writer.Write(&buf, orders, Format("xml"))
		assert.Error(t, err)
	})
}

func TestOrderWriter_Save(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out", "processed_orders.json")
	orders := []*domain.Order{processedOrder("1", "A", "10", time.Now().UTC())}

	require.NoError(t, NewOrderWriter(nil).Save(context.Background(), path, orders, FormatJSON))

	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `"order_total": 10`)
}
