// Package money converts between integer cents, the storage unit for every
// amount in the system, and decimal values used for rates and display.
package money

import (
	"math"
	"strings"

	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// ToDecimal returns cents as a currency-unit decimal (12345 -> 123.45).
func ToDecimal(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FromDecimal rounds a currency-unit decimal half away from zero to cents.
func FromDecimal(d decimal.Decimal) int64 {
	return d.Mul(hundred).Round(0).IntPart()
}

// FromFloat converts a float amount coming from JSON into cents.
// NaN and infinities are treated as zero.
func FromFloat(f float64) int64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return FromDecimal(decimal.NewFromFloat(f))
}

// ToFloat is used by MarshalJSON implementations.
func ToFloat(cents int64) float64 {
	return ToDecimal(cents).InexactFloat64()
}

// Percent returns cents × rate / 100, rounded to the cent.
func Percent(cents int64, rate decimal.Decimal) int64 {
	return FromDecimal(ToDecimal(cents).Mul(rate).Div(hundred))
}

// NonNegative floors v at zero.
func NonNegative(v int64) int64 {
	if v < 0 {
		return 0
	}
	return v
}

// Format renders cents as Brazilian reais, e.g. "R$ 1.234,56".
func Format(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	fixed := ToDecimal(cents).StringFixed(2)
	intPart, frac, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "R$ " + b.String() + "," + frac
}
