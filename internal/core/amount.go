package core

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount converts a raw amount string into a positive decimal rounded
// to two fractional digits (half up). Rounding happens before the
// positivity check, so an input that rounds to zero is rejected and the
// stored invariant amount > 0 holds for every constructed expense.
//
// Examples:
//
//	ParseAmount("12.34")  -> 12.34
//	ParseAmount("12.345") -> 12.35
//	ParseAmount("0.004")  -> error (rounds to zero)
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: amount is empty", ErrInvalidAmount)
	}
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q is not a number", ErrInvalidAmount, s)
	}
	d = d.Round(2)
	if !d.IsPositive() {
		return decimal.Zero, fmt.Errorf("%w: %q is not a positive amount", ErrInvalidAmount, s)
	}
	return d, nil
}
