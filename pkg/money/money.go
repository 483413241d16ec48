// Package money provides the fixed-point monetary amount used across the
// engine. Amounts are backed by shopspring/decimal and validated against a
// configured scale (number of decimal places) on construction, so no layer
// below this one ever sees an amount with stray precision.
package money

import (
	"github.com/shopspring/decimal"
)

// DefaultScale is the number of decimal places used when no scale is
// configured. Matches the scale of the persisted columns.
const DefaultScale int32 = 2

// Amount is an immutable fixed-point monetary amount.
type Amount struct {
	value decimal.Decimal
	scale int32
}

// New creates an Amount from a decimal value, rejecting values that carry
// more decimal places than the given scale.
func New(value decimal.Decimal, scale int32) (Amount, error) {
	if !value.Equal(value.Round(scale)) {
		return Amount{}, ErrTooManyDecimals
	}
	return Amount{value: value, scale: scale}, nil
}

// NewPositive is New restricted to strictly positive values.
func NewPositive(value decimal.Decimal, scale int32) (Amount, error) {
	a, err := New(value, scale)
	if err != nil {
		return Amount{}, err
	}
	if !a.IsPositive() {
		return Amount{}, ErrNotPositive
	}
	return a, nil
}

// Parse creates an Amount from its string form.
func Parse(s string, scale int32) (Amount, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return Amount{}, ErrMalformed
	}
	return New(d, scale)
}

// Zero returns the zero Amount at the given scale.
func Zero(scale int32) Amount {
	return Amount{value: decimal.Zero, scale: scale}
}

// FromDecimal wraps a stored decimal without re-validating precision.
// Intended for hydrating amounts that already passed through New.
func FromDecimal(value decimal.Decimal, scale int32) Amount {
	return Amount{value: value, scale: scale}
}

// Decimal returns the underlying decimal value.
func (a Amount) Decimal() decimal.Decimal { return a.value }

// Scale returns the number of decimal places the amount was validated at.
func (a Amount) Scale() int32 { return a.scale }

// Add returns a + b.
func (a Amount) Add(b Amount) Amount {
	return Amount{value: a.value.Add(b.value), scale: a.scale}
}

// Sub returns a - b.
func (a Amount) Sub(b Amount) Amount {
	return Amount{value: a.value.Sub(b.value), scale: a.scale}
}

// Neg returns -a.
func (a Amount) Neg() Amount {
	return Amount{value: a.value.Neg(), scale: a.scale}
}

// Abs returns the absolute value of a.
func (a Amount) Abs() Amount {
	return Amount{value: a.value.Abs(), scale: a.scale}
}

// IsPositive reports whether a > 0.
func (a Amount) IsPositive() bool { return a.value.IsPositive() }

// IsNegative reports whether a < 0.
func (a Amount) IsNegative() bool { return a.value.IsNegative() }

// IsZero reports whether a == 0.
func (a Amount) IsZero() bool { return a.value.IsZero() }

// LessThan reports whether a < b.
func (a Amount) LessThan(b Amount) bool { return a.value.LessThan(b.value) }

// GreaterThan reports whether a > b.
func (a Amount) GreaterThan(b Amount) bool { return a.value.GreaterThan(b.value) }

// Equal reports whether a and b represent the same value.
func (a Amount) Equal(b Amount) bool { return a.value.Equal(b.value) }

// String renders the amount with its full scale, e.g. "500.00".
func (a Amount) String() string { return a.value.StringFixed(a.scale) }
