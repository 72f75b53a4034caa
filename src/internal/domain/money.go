package domain

import "github.com/shopspring/decimal"

// Money columns are NUMERIC(38, 18).
const (
	MaxScale         = 18
	MaxIntegerDigits = 20
)

// WithinPrecision reports whether d fits a money column. It only inspects the coefficient and
// exponent, so an absurd exponent is rejected without being expanded.
func WithinPrecision(d decimal.Decimal) bool {
	exp := int(d.Exponent())
	if exp < -MaxScale || exp > MaxIntegerDigits {
		return false
	}
	return d.NumDigits()+exp <= MaxIntegerDigits
}
