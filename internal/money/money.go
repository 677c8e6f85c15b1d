package money

import (
	"encoding/json"
	"fmt"

	"github.com/shopspring/decimal"
)

// Money is an exact amount in cents. Prices and totals are always carried as
// cents so repeated cart arithmetic cannot accumulate floating-point drift.
type Money struct {
	cents int64
}

// Zero is the zero amount.
var Zero = Money{}

// FromCents wraps a raw cent count.
func FromCents(cents int64) Money {
	return Money{cents: cents}
}

// NewFromString parses a decimal amount such as "12.50" into cents.
func NewFromString(amount string) (Money, error) {
	d, err := decimal.NewFromString(amount)
	if err != nil {
		return Money{}, fmt.Errorf("invalid amount format: %w", err)
	}
	return Money{cents: decimalToCents(d)}, nil
}

// Cents returns the raw cent count.
func (m Money) Cents() int64 {
	return m.cents
}

// IsNegative reports whether the amount is below zero.
func (m Money) IsNegative() bool {
	return m.cents < 0
}

// IsZero reports whether the amount is exactly zero.
func (m Money) IsZero() bool {
	return m.cents == 0
}

// Add returns m + other.
func (m Money) Add(other Money) Money {
	return Money{cents: m.cents + other.cents}
}

// Sub returns m - other.
func (m Money) Sub(other Money) Money {
	return Money{cents: m.cents - other.cents}
}

// MulQty returns the amount multiplied by an item quantity.
func (m Money) MulQty(quantity int) Money {
	return Money{cents: m.cents * int64(quantity)}
}

// Equal reports whether two amounts are the same.
func (m Money) Equal(other Money) bool {
	return m.cents == other.cents
}

func (m Money) String() string {
	return centsToDecimal(m.cents).StringFixed(2)
}

// MarshalJSON encodes the amount as a decimal string, e.g. "12.50".
func (m Money) MarshalJSON() ([]byte, error) {
	return json.Marshal(m.String())
}

// UnmarshalJSON accepts a decimal string amount.
func (m *Money) UnmarshalJSON(data []byte) error {
	var valueStr string
	if err := json.Unmarshal(data, &valueStr); err != nil {
		return err
	}

	d, err := decimal.NewFromString(valueStr)
	if err != nil {
		return fmt.Errorf("invalid amount: %w", err)
	}

	m.cents = decimalToCents(d)
	return nil
}

func decimalToCents(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

func centsToDecimal(cents int64) decimal.Decimal {
	return decimal.NewFromInt(cents).Div(decimal.NewFromInt(100))
}
