package grading

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Percentage returns obtained/total as a percentage rounded half-up to two decimals.
// total must be non-zero.
func Percentage(total, obtained float64) float64 {
	pct := decimal.NewFromFloat(obtained).Mul(hundred).Div(decimal.NewFromFloat(total))
	return pct.Round(2).InexactFloat64()
}

// Round2 rounds v half away from zero to two decimal places, working on the
// shortest decimal form of v so 1.005 becomes 1.01.
func Round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
