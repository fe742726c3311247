package pricing

import "github.com/shopspring/decimal"

// RateTable maps an installment count to the monthly card interest percent.
type RateTable map[int]decimal.Decimal

var defaultRates = RateTable{
	1:  decimal.Zero,
	2:  decimal.RequireFromString("2.5"),
	3:  decimal.RequireFromString("4.8"),
	4:  decimal.RequireFromString("6.1"),
	5:  decimal.RequireFromString("7.4"),
	6:  decimal.RequireFromString("8.7"),
	7:  decimal.RequireFromString("9.9"),
	8:  decimal.RequireFromString("11.1"),
	9:  decimal.RequireFromString("12.3"),
	10: decimal.RequireFromString("13.5"),
	11: decimal.RequireFromString("14.6"),
	12: decimal.RequireFromString("15.8"),
}

// DefaultRates returns a copy of the built-in table used when the workshop
// has not configured its own.
func DefaultRates() RateTable {
	out := make(RateTable, len(defaultRates))
	for k, v := range defaultRates {
		out[k] = v
	}
	return out
}

// Rate looks up the percent for n installments, falling back to the default
// table for missing or negative entries.
func (t RateTable) Rate(n int) decimal.Decimal {
	if r, ok := t[n]; ok && !r.IsNegative() {
		return r
	}
	if r, ok := defaultRates[n]; ok {
		return r
	}
	return decimal.Zero
}

// Merge overlays configured rates on top of the defaults.
func Merge(configured map[int]decimal.Decimal) RateTable {
	table := DefaultRates()
	for k, v := range configured {
		if k < MinInstallments || k > MaxInstallments || v.IsNegative() {
			continue
		}
		table[k] = v
	}
	return table
}
