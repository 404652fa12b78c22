package domain

import (
	"github.com/shopspring/decimal"
)

// AmountPrecision is the number of fractional digits used for token amounts handed to the swap API.
const AmountPrecision = 8

var hundred = decimal.NewFromInt(100)

// Hundred returns the decimal constant 100.
func Hundred() decimal.Decimal { return hundred }

// SafeParse parses a string into a decimal, returning zero for invalid or empty input.
func SafeParse(value string) decimal.Decimal {
	if value == "" {
		return decimal.Zero
	}
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero
	}
	return d
}

// DivideFixed divides a by b and formats the quotient with exactly places fractional digits.
// Returns "0" when b is zero or negative (unknown price) or the quotient is not positive.
func DivideFixed(a, b decimal.Decimal, places int32) string {
	if !b.IsPositive() {
		return "0"
	}
	q := a.Div(b)
	if !q.IsPositive() {
		return "0"
	}
	return q.StringFixed(places)
}

// Percent returns part×100/total, or zero when total is not positive.
func Percent(part, total decimal.Decimal) decimal.Decimal {
	if !total.IsPositive() {
		return decimal.Zero
	}
	return part.Mul(hundred).Div(total)
}

// PercentOf returns pct/100 × total.
func PercentOf(pct, total decimal.Decimal) decimal.Decimal {
	return pct.Mul(total).Div(hundred)
}
