package domain

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    OrderID
		wantErr bool
	}{
		{name: "string id", input: `"ORD-000001"`, want: "ORD-000001"},
		{name: "integer id", input: `1`, want: "1"},
		{name: "large integer keeps digits", input: `12345678901234567890`, want: "12345678901234567890"},
		{name: "null id", input: `null`, want: ""},
		{name: "object is rejected", input: `{"a":1}`, wantErr: true},
		{name: "bool is rejected", input: `true`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id OrderID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestMoney_JSON(t *testing.T) {
	t.Run("encodes as bare number", func(t *testing.T) {
		data, err := json.Marshal(struct {
			Total Money `json:"total"`
		}{Total: MustMoney("10.50")})
		require.NoError(t, err)
		assert.JSONEq(t, `{"total": 10.5}`, string(data))
	})

	t.Run("decodes bare and quoted numbers", func(t *testing.T) {
		var v struct {
			A Money `json:"a"`
			B Money `json:"b"`
		}
		require.NoError(t, json.Unmarshal([]byte(`{"a": 19.99, "b": "0.10"}`), &v))
		assert.True(t, v.A.Equal(MustMoney("19.99").Decimal))
		assert.True(t, v.B.Equal(MustMoney("0.1").Decimal))
	})

	t.Run("zero value encodes as zero", func(t *testing.T) {
		data, err := json.Marshal(Money{})
		require.NoError(t, err)
		assert.Equal(t, "0", string(data))
	})
}

func TestMoney_Fixed(t *testing.T) {
	assert.Equal(t, "13.40", MustMoney("13.4").Fixed(2))
	assert.Equal(t, "0.00", Money{}.Fixed(2))
	assert.InDelta(t, 2.5, MoneyFromFloat(2.5).Float64(), 1e-9)
}

func TestCalendarDate(t *testing.T) {
	tests := []struct {
		name      string
		timestamp string
		want      string
		wantErr   bool
	}{
		{name: "utc", timestamp: "2024-01-01T10:00:00Z", want: "2024-01-01"},
		{name: "javascript iso string", timestamp: "2024-03-05T23:59:59.999Z", want: "2024-03-05"},
		{name: "negative offset keeps its own day", timestamp: "2024-01-01T23:30:00-05:00", want: "2024-01-01"},
		{name: "positive offset keeps its own day", timestamp: "2024-01-02T00:30:00+03:00", want: "2024-01-02"},
		{name: "naive timestamp is taken literally", timestamp: "2024-01-01T23:59:00", want: "2024-01-01"},
		{name: "naive with space separator", timestamp: "2024-06-30 00:00:01", want: "2024-06-30"},
		{name: "date only", timestamp: "2024-02-29", want: "2024-02-29"},
		{name: "hour-only offset", timestamp: "2024-01-01T23:00:00+05", want: "2024-01-01"},
		{name: "basic offset", timestamp: "2024-01-01T10:00:00+0530", want: "2024-01-01"},
		{name: "basic negative offset keeps its own day", timestamp: "2024-01-01T23:30:00-0500", want: "2024-01-01"},
		{name: "space separator with basic offset", timestamp: "2024-01-01 23:30:00-0500", want: "2024-01-01"},
		{name: "space separator with hour-only offset", timestamp: "2024-01-02 00:30:00+03", want: "2024-01-02"},
		{name: "lowercase t and z", timestamp: "2024-01-01t10:00:00z", want: "2024-01-01"},
		{name: "basic format utc", timestamp: "20240101T100000Z", want: "2024-01-01"},
		{name: "basic format with fraction and offset", timestamp: "20240101T233000.25-0500", want: "2024-01-01"},
		{name: "surrounding whitespace", timestamp: "  2024-01-01T10:00:00Z ", want: "2024-01-01"},
		{name: "empty", timestamp: "", wantErr: true},
		{name: "not a timestamp", timestamp: "yesterday", wantErr: true},
		{name: "invalid month", timestamp: "2024-13-01T00:00:00Z", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := CalendarDate(tt.timestamp)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestOrder_StatusAndProcessing(t *testing.T) {
	total := MustMoney("3")
	now := time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)

	o := &Order{Status: "confirmed"}
	assert.True(t, o.IsConfirmed())
	assert.False(t, o.IsProcessed())
	assert.True(t, o.Total().IsZero())

	o.OrderTotal = &total
	o.ProcessedAt = &now
	assert.True(t, o.IsProcessed())
	assert.True(t, o.Total().Equal(total.Decimal))

	for _, status := range []OrderStatus{"Confirmed", "CONFIRMED", " confirmed", "pending", ""} {
		assert.False(t, (&Order{Status: status}).IsConfirmed(), "status %q", status)
	}
}

func TestDailyReport_Rows(t *testing.T) {
	r := NewDailyReport()
	r.Stats[DailyKey{Date: "2024-01-02", Channel: "api"}] = DailyStat{Date: "2024-01-02", Channel: "api", Count: 1}
	r.Stats[DailyKey{Date: "2024-01-01", Channel: "web"}] = DailyStat{Date: "2024-01-01", Channel: "web", Count: 2}
	r.Stats[DailyKey{Date: "2024-01-01", Channel: "mobile"}] = DailyStat{Date: "2024-01-01", Channel: "mobile", Count: 3}

	rows := r.Rows()
	require.Len(t, rows, 3)
	assert.Equal(t, DailyKey{Date: "2024-01-01", Channel: "mobile"}, rows[0].Key())
	assert.Equal(t, DailyKey{Date: "2024-01-01", Channel: "web"}, rows[1].Key())
	assert.Equal(t, DailyKey{Date: "2024-01-02", Channel: "api"}, rows[2].Key())

	stat, ok := r.Get("2024-01-01", "web")
	assert.True(t, ok)
	assert.Equal(t, 2, stat.Count)

	var nilReport *DailyReport
	assert.Equal(t, 0, nilReport.Len())
	assert.Empty(t, nilReport.Rows())
}
