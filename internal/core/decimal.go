package core

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// FormatDecimal renders d the way the exchange expects decimals on the wire:
// plain notation, no exponent and no trailing fractional zeros.
// Trailing zeros are canonicalised away, so 50000.00 is sent as 50000.
func FormatDecimal(d decimal.Decimal) string {
	return d.String()
}

func ParseDecimal(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid decimal %q: %w", s, err)
	}
	return d, nil
}

func RoundDown(value, step decimal.Decimal) decimal.Decimal {
	if step.Cmp(decimal.Zero) <= 0 {
		return value
	}
	return value.Div(step).Floor().Mul(step)
}
