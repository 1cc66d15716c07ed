package money

import (
	"errors"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount   = errors.New("invalid amount")
	ErrTooManyDecimals = errors.New("amount has too many decimal places")
	ErrNotPositive     = errors.New("amount must be positive")
)

// ParseAmount parses a money amount into an exact decimal with at most two
// decimal places. The result is always strictly positive; direction of a
// ledger entry is carried by its type, not by the sign of the amount.
func ParseAmount(input string) (decimal.Decimal, error) {
	trimmed := strings.TrimSpace(input)
	if trimmed == "" {
		return decimal.Zero, ErrInvalidAmount
	}
	value, err := decimal.NewFromString(trimmed)
	if err != nil {
		return decimal.Zero, ErrInvalidAmount
	}
	if value.Exponent() < -2 {
		return decimal.Zero, ErrTooManyDecimals
	}
	if !value.IsPositive() {
		return decimal.Zero, ErrNotPositive
	}
	return value, nil
}

// ParseOptionalAmount parses like ParseAmount but maps an empty string to nil.
func ParseOptionalAmount(input string) (*decimal.Decimal, error) {
	if strings.TrimSpace(input) == "" {
		return nil, nil
	}
	value, err := ParseAmount(input)
	if err != nil {
		return nil, err
	}
	return &value, nil
}

// Format renders an amount with exactly two decimal places.
func Format(value decimal.Decimal) string {
	return value.StringFixed(2)
}
