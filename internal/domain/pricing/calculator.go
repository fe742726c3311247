// Package pricing computes cart totals. Everything here is pure: malformed
// numbers are coerced to neutral values instead of returning errors.
package pricing

import (
	"encoding/json"

	"github.com/sangkips/estoque-motto-api/internal/domain/entity"
	"github.com/sangkips/estoque-motto-api/internal/domain/enum"
	"github.com/sangkips/estoque-motto-api/pkg/money"
	"github.com/shopspring/decimal"
)

const (
	MinInstallments = 1
	MaxInstallments = 12
)

// authorizationThreshold is the share of the subtotal a non-manager may
// give as discount without a manager PIN.
var authorizationThreshold = decimal.RequireFromString("0.05")

// Input is everything the calculator needs for one cart.
type Input struct {
	Items         []entity.SaleItem
	Discount      int64 // cents
	PaymentMethod enum.PaymentMethod
	Installments  int
	Rates         RateTable
}

// Result holds the computed amounts, all in cents.
type Result struct {
	Subtotal              int64
	Discount              int64
	InterestRate          decimal.Decimal
	Interest              int64
	Total                 int64
	Installments          int
	RequiresAuthorization bool
}

// MarshalJSON renders amounts in reais.
func (r Result) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Subtotal              float64 `json:"subtotal"`
		Discount              float64 `json:"discount_value"`
		InterestRate          float64 `json:"interest_rate"`
		Interest              float64 `json:"interest_value"`
		Total                 float64 `json:"total"`
		Installments          int     `json:"installments"`
		RequiresAuthorization bool    `json:"requires_authorization"`
	}{
		Subtotal:              money.ToFloat(r.Subtotal),
		Discount:              money.ToFloat(r.Discount),
		InterestRate:          r.InterestRate.InexactFloat64(),
		Interest:              money.ToFloat(r.Interest),
		Total:                 money.ToFloat(r.Total),
		Installments:          r.Installments,
		RequiresAuthorization: r.RequiresAuthorization,
	})
}

// Calculate prices a cart.
//
//	subtotal = Σ quantity × unit_price
//	interest = max(0, subtotal − discount) × rate / 100   (credit only)
//	total    = max(0, subtotal − discount + interest)
func Calculate(in Input) Result {
	subtotal := Subtotal(in.Items)
	discount := money.NonNegative(in.Discount)
	installments := NormalizeInstallments(in.PaymentMethod, in.Installments)

	rate := decimal.Zero
	if in.PaymentMethod == enum.PaymentMethodCredito {
		rate = in.Rates.Rate(installments)
	}
	interest := money.Percent(money.NonNegative(subtotal-discount), rate)

	return Result{
		Subtotal:              subtotal,
		Discount:              discount,
		InterestRate:          rate,
		Interest:              interest,
		Total:                 money.NonNegative(subtotal - discount + interest),
		Installments:          installments,
		RequiresAuthorization: RequiresAuthorization(subtotal, discount),
	}
}

// Subtotal sums the lines, recomputing each from quantity and unit price.
// Lines with a non-positive quantity or a negative price count as zero.
func Subtotal(items []entity.SaleItem) int64 {
	var total int64
	for _, item := range items {
		if item.Quantity <= 0 || item.UnitPrice < 0 {
			continue
		}
		total += int64(item.Quantity) * item.UnitPrice
	}
	return total
}

// RequiresAuthorization reports whether discount exceeds 5% of subtotal.
// The threshold is fixed; the max_discount_sem_pin setting is not consulted.
func RequiresAuthorization(subtotal, discount int64) bool {
	if discount <= 0 {
		return false
	}
	limit := decimal.NewFromInt(subtotal).Mul(authorizationThreshold)
	return decimal.NewFromInt(discount).GreaterThan(limit)
}

// NormalizeInstallments clamps the count into 1..12; anything other than
// credit is always a single payment.
func NormalizeInstallments(method enum.PaymentMethod, n int) int {
	if method != enum.PaymentMethodCredito || n < MinInstallments {
		return MinInstallments
	}
	if n > MaxInstallments {
		return MaxInstallments
	}
	return n
}
