package domain

import (
	"github.com/shopspring/decimal"
)

// Money is an exact decimal currency amount.
//
// It embeds decimal.Decimal for arithmetic and decoding (quoted or bare JSON
// numbers both decode), but always encodes as a bare JSON number so output
// stays numeric: {"order_total": 10.5} rather than {"order_total": "10.5"}.
type Money struct {
	decimal.Decimal
}

// NewMoney wraps a decimal value.
func NewMoney(d decimal.Decimal) Money {
	return Money{Decimal: d}
}

// MoneyFromFloat converts a float64. Intended for fixtures and tests.
func MoneyFromFloat(f float64) Money {
	return Money{Decimal: decimal.NewFromFloat(f)}
}

// MustMoney parses s and panics on failure. Intended for fixtures and tests.
func MustMoney(s string) Money {
	return Money{Decimal: decimal.RequireFromString(s)}
}

// MarshalJSON encodes the amount as a bare JSON number.
func (m Money) MarshalJSON() ([]byte, error) {
	return []byte(m.Decimal.String()), nil
}

// Float64 returns the nearest float64 and ignores exactness.
func (m Money) Float64() float64 {
	f, _ := m.Decimal.Float64()
	return f
}

// Fixed formats the amount with exactly places decimal digits.
func (m Money) Fixed(places int32) string {
	return m.Decimal.StringFixed(places)
}
