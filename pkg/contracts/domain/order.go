package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"
)

// OrderStatus is the lifecycle status of an order as reported by the source.
type OrderStatus string

const (
	OrderStatusConfirmed OrderStatus = "confirmed"
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Channel values seen in the order stream. Any other string is accepted.
const (
	ChannelWeb    = "web"
	ChannelMobile = "mobile"
	ChannelAPI    = "api"
)

// OrderID identifies an order. Sources emit it either as a JSON string or as
// a JSON number; both decode to the same textual form.
type OrderID string

// UnmarshalJSON accepts a string, a number or null.
func (id *OrderID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	switch {
	case len(data) == 0 || bytes.Equal(data, []byte("null")):
		*id = ""
		return nil
	case data[0] == '"':
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*id = OrderID(s)
		return nil
	default:
		var n json.Number
		if err := json.Unmarshal(data, &n); err != nil {
			return fmt.Errorf("order id must be a string or number: %w", err)
		}
		*id = OrderID(n.String())
		return nil
	}
}

// String returns the textual id.
func (id OrderID) String() string {
	return string(id)
}

// Item is a single order line. Items are immutable once loaded.
type Item struct {
	ProductID string `json:"product_id,omitempty"`
	Quantity  int64  `json:"quantity"`
	UnitPrice Money  `json:"unit_price"`
}

// ShippingAddress is carried through from the source unchanged.
type ShippingAddress struct {
	Country string `json:"country,omitempty"`
	State   string `json:"state,omitempty"`
	City    string `json:"city,omitempty"`
}

// Order is one customer purchase.
//
// OrderTotal and ProcessedAt are nil until the order has been processed;
// once set they are never recomputed.
type Order struct {
	ID              OrderID          `json:"id" validate:"required"`
	CustomerID      string           `json:"customer_id" validate:"required"`
	Channel         string           `json:"channel" validate:"required"`
	Timestamp       string           `json:"timestamp" validate:"required,iso8601"`
	Status          OrderStatus      `json:"status"`
	Items           []Item           `json:"items"`
	ShippingAddress *ShippingAddress `json:"shipping_address,omitempty"`

	OrderTotal  *Money     `json:"order_total,omitempty"`
	ProcessedAt *time.Time `json:"processed_at,omitempty"`
}

// IsConfirmed reports whether the order status is exactly "confirmed".
func (o *Order) IsConfirmed() bool {
	return o.Status == OrderStatusConfirmed
}

// IsProcessed reports whether the order has already been enriched.
func (o *Order) IsProcessed() bool {
	return o.ProcessedAt != nil && o.OrderTotal != nil
}

// Total returns the computed order total, or zero if not yet processed.
func (o *Order) Total() Money {
	if o.OrderTotal == nil {
		return Money{}
	}
	return *o.OrderTotal
}

// OrderDate returns the calendar date of the order timestamp.
func (o *Order) OrderDate() (string, error) {
	return CalendarDate(o.Timestamp)
}
