// Package money provides exact decimal handling for ledger amounts.
// All amounts are shopspring decimals at minor-unit (two place) precision;
// floats never enter the arithmetic.
package money

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// Places is the number of fractional digits an amount may carry.
const Places = 2

var (
	ErrEmpty       = errors.New("amount is required")
	ErrNotNumeric  = errors.New("amount is not a number")
	ErrTooPrecise  = errors.New("amount has more than 2 decimal places")
	ErrNotPositive = errors.New("amount must be positive")
)

// Zero is the additive identity.
var Zero = decimal.Zero

// Parse reads a decimal string such as "40" or "40.25".
// Values with more than two fractional digits are rejected rather than rounded.
func Parse(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, ErrEmpty
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrNotNumeric, s)
	}
	if !d.Equal(d.Truncate(Places)) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrTooPrecise, s)
	}
	return d, nil
}

// CheckPositive reports why d cannot be an expense total or a payment:
// it must be greater than zero and carry at most two fractional digits.
func CheckPositive(d decimal.Decimal) error {
	if !d.Equal(d.Truncate(Places)) {
		return fmt.Errorf("%w: %s", ErrTooPrecise, d.String())
	}
	if !IsPositive(d) {
		return fmt.Errorf("%w: %s", ErrNotPositive, Format(d))
	}
	return nil
}

// MustParse is Parse for constants and tests. It panics on bad input.
func MustParse(s string) decimal.Decimal {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// Format renders d with exactly two decimals, e.g. "50.00".
func Format(d decimal.Decimal) string {
	return d.StringFixed(Places)
}

// IsPositive reports whether d > 0.
func IsPositive(d decimal.Decimal) bool {
	return d.Sign() > 0
}

// Sum adds all values.
func Sum(values ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(v)
	}
	return total
}
