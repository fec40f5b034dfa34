package billing

import (
	"math"
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// Totals is the result of pricing a bill.
type Totals struct {
	Subtotal    decimal.Decimal
	TaxAmount   decimal.Decimal
	TotalAmount decimal.Decimal
}

// Round2 rounds a monetary value to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// LineAmount prices one line: qty x rate x rentalDays. Sales bills pass rentalDays = 1.
func LineAmount(qty int, rate decimal.Decimal, rentalDays int) decimal.Decimal {
	return Round2(rate.Mul(decimal.NewFromInt(int64(qty))).Mul(decimal.NewFromInt(int64(rentalDays))))
}

// PriceItems returns a copy of items with Amount recomputed for the given rental days.
func PriceItems(items []domain.LineItem, rentalDays int) []domain.LineItem {
	priced := make([]domain.LineItem, len(items))
	for i, item := range items {
		item.Amount = LineAmount(item.Qty, item.Rate, rentalDays)
		priced[i] = item
	}
	return priced
}

// TaxPercentagePlaces is the precision a tax percentage is stored with.
const TaxPercentagePlaces = 3

// MaxTaxPercentage is the largest accepted tax percentage.
var MaxTaxPercentage = decimal.NewFromInt(100)

// ComputeTotals derives subtotal, tax and grand total from line items.
// With TaxModePercentage taxValue is a percentage of the subtotal; with TaxModeManual it is the tax amount itself.
// The advance is subtracted without a floor, so the total can go negative.
func ComputeTotals(items []domain.LineItem, taxMode domain.TaxMode, taxValue, advanceAmount, transportFees decimal.Decimal, rentalDays int) Totals {
	subtotal := decimal.Zero
	for _, item := range items {
		subtotal = subtotal.Add(LineAmount(item.Qty, item.Rate, rentalDays))
	}
	subtotal = Round2(subtotal)

	var taxAmount decimal.Decimal
	if taxMode == domain.TaxModePercentage {
		taxAmount = Round2(subtotal.Mul(taxValue).Div(hundred))
	} else {
		taxAmount = Round2(taxValue)
	}

	total := subtotal.Add(Round2(transportFees)).Add(taxAmount).Sub(Round2(advanceAmount))
	return Totals{
		Subtotal:    subtotal,
		TaxAmount:   taxAmount,
		TotalAmount: Round2(total),
	}
}

// RentalDays is the number of whole 24h periods between from and to, rounded up.
// A missing end (or start) is an open-ended rental billed as one day. Reversed ranges yield 0.
func RentalDays(from, to *time.Time) int {
	if from == nil || to == nil {
		return 1
	}
	hours := to.Sub(*from).Hours()
	if hours <= 0 {
		return 0
	}
	return int(math.Ceil(hours / 24))
}

// ApplyTotals prices t from its own items and tax settings and stores the results on it.
func ApplyTotals(t *domain.Transaction) {
	days := 1
	if t.Variant == domain.VariantRental {
		days = t.RentalDays
	} else {
		t.TransportFees = decimal.Zero
	}
	t.Items = PriceItems(t.Items, days)
	totals := ComputeTotals(t.Items, t.TaxMode, t.TaxValue(), t.AdvanceAmount, t.TransportFees, days)
	t.Subtotal = totals.Subtotal
	t.TaxAmount = totals.TaxAmount
	t.TotalAmount = totals.TotalAmount
}

// DueBeforeAdvance is the bill total before the advance is deducted.
func DueBeforeAdvance(t domain.Transaction) decimal.Decimal {
	return t.Subtotal.Add(t.TransportFees).Add(t.TaxAmount)
}
