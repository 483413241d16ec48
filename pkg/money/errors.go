package money

import "errors"

var (
	// ErrTooManyDecimals is returned when a value carries more decimal
	// places than the configured scale.
	ErrTooManyDecimals = errors.New("amount has more decimal places than the configured scale")

	// ErrNotPositive is returned when a strictly positive amount is required.
	ErrNotPositive = errors.New("amount must be positive")

	// ErrMalformed is returned when a string cannot be parsed as a decimal.
	ErrMalformed = errors.New("amount is not a valid decimal")
)
