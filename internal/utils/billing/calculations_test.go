package billing

import (
	"testing"
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ts(s string) *time.Time {
	t, err := time.Parse("2006-01-02T15:04", s)
	if err != nil {
		panic(err)
	}
	return &t
}

func TestComputeTotals_SalesWithPercentageTax(t *testing.T) {
	items := []domain.LineItem{
		{ItemName: "Chair", Qty: 3, Rate: dec("10")},
		{ItemName: "Table", Qty: 1, Rate: dec("50")},
	}

	totals := ComputeTotals(items, domain.TaxModePercentage, dec("18"), decimal.Zero, decimal.Zero, 1)

	assert.Equal(t, "80.00", totals.Subtotal.StringFixed(2))
	assert.Equal(t, "14.40", totals.TaxAmount.StringFixed(2))
	assert.Equal(t, "94.40", totals.TotalAmount.StringFixed(2))
}

func TestComputeTotals_ManualTaxTransportAndAdvance(t *testing.T) {
	items := []domain.LineItem{{ItemName: "Tent", Qty: 2, Rate: dec("125.50")}}

	totals := ComputeTotals(items, domain.TaxModeManual, dec("12.345"), dec("100"), dec("40"), 3)

	assert.True(t, totals.Subtotal.Equal(dec("753")))
	assert.True(t, totals.TaxAmount.Equal(dec("12.35")))
	assert.True(t, totals.TotalAmount.Equal(dec("705.35")))
}

func TestComputeTotals_AdvanceMayExceedTotal(t *testing.T) {
	items := []domain.LineItem{{ItemName: "Pen", Qty: 1, Rate: dec("10")}}

	totals := ComputeTotals(items, domain.TaxModeManual, decimal.Zero, dec("25"), decimal.Zero, 1)

	assert.True(t, totals.TotalAmount.Equal(dec("-15")))
}

func TestComputeTotals_RoundsPercentageTax(t *testing.T) {
	items := []domain.LineItem{{ItemName: "Bolt", Qty: 3, Rate: dec("0.33")}}

	totals := ComputeTotals(items, domain.TaxModePercentage, dec("12.5"), decimal.Zero, decimal.Zero, 1)

	assert.True(t, totals.Subtotal.Equal(dec("0.99")))
	assert.True(t, totals.TaxAmount.Equal(dec("0.12")))
	assert.True(t, totals.TotalAmount.Equal(dec("1.11")))
}

func TestRentalDays(t *testing.T) {
	tests := []struct {
		name string
		from *time.Time
		to   *time.Time
		want int
	}{
		{"two full days", ts("2024-01-01T09:00"), ts("2024-01-03T09:00"), 2},
		{"partial day rounds up", ts("2024-01-01T09:00"), ts("2024-01-01T20:00"), 1},
		{"one hour past a day", ts("2024-01-01T09:00"), ts("2024-01-02T10:00"), 2},
		{"open ended", ts("2024-01-01T09:00"), nil, 1},
		{"no dates", nil, nil, 1},
		{"same instant", ts("2024-01-01T09:00"), ts("2024-01-01T09:00"), 0},
		{"reversed range clamps", ts("2024-01-03T09:00"), ts("2024-01-01T09:00"), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RentalDays(tt.from, tt.to))
		})
	}
}

func TestApplyTotals_IsIdempotent(t *testing.T) {
	txn := domain.Transaction{
		Variant: domain.VariantRental,
		Items: []domain.LineItem{
			{ItemName: "Speaker", Qty: 2, Rate: dec("333.33")},
			{ItemName: "Cable", Qty: 7, Rate: dec("1.99")},
		},
		TaxMode:       domain.TaxModePercentage,
		TaxPercentage: dec("7.25"),
		AdvanceAmount: dec("150"),
		TransportFees: dec("35.5"),
		RentalDays:    3,
	}

	ApplyTotals(&txn)
	first := txn.TotalAmount

	for i := 0; i < 5; i++ {
		ApplyTotals(&txn)
		assert.True(t, first.Equal(txn.TotalAmount), "total drifted on recompute %d", i)
	}

	recomputed := ComputeTotals(txn.Items, txn.TaxMode, txn.TaxValue(), txn.AdvanceAmount, txn.TransportFees, txn.RentalDays)
	assert.True(t, recomputed.TotalAmount.Equal(txn.TotalAmount))
	assert.True(t, txn.Items[0].Amount.Equal(dec("1999.98")))
}

func TestApplyTotals_SalesIgnoresTransportFees(t *testing.T) {
	txn := domain.Transaction{
		Variant:       domain.VariantSales,
		Items:         []domain.LineItem{{ItemName: "Lamp", Qty: 1, Rate: dec("20")}},
		TaxMode:       domain.TaxModeManual,
		TransportFees: dec("99"),
		RentalDays:    4,
	}

	ApplyTotals(&txn)

	assert.True(t, txn.TransportFees.IsZero())
	assert.True(t, txn.TotalAmount.Equal(dec("20")))
	assert.True(t, DueBeforeAdvance(txn).Equal(dec("20")))
}
