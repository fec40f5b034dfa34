package services

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/SscSPs/shop_ledger_app/internal/apperrors"
	"github.com/SscSPs/shop_ledger_app/internal/core/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var ruleNow = time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)

func TestApplyStockChange_SaleWithinStock(t *testing.T) {
	p := &domain.Product{ProductID: 1, Name: "Chair", StockQuantity: 5}

	m, err := applyStockChange(p, -3, domain.ChangeSale, nil, ruleNow)

	require.NoError(t, err)
	assert.Equal(t, 2, p.StockQuantity)
	assert.Equal(t, 3, p.TotalSales)
	assert.False(t, m.Clamped)
	assert.Equal(t, 5, m.Entry.PreviousQuantity)
	assert.Equal(t, 2, m.Entry.NewQuantity)
	assert.Equal(t, -3, m.Entry.QuantityChange)
	assert.Nil(t, p.LastRestocked)
}

func TestApplyStockChange_OversellClampsAtZero(t *testing.T) {
	p := &domain.Product{ProductID: 1, Name: "Chair", StockQuantity: 2}

	m, err := applyStockChange(p, -5, domain.ChangeSale, nil, ruleNow)

	require.NoError(t, err)
	assert.Equal(t, 0, p.StockQuantity)
	assert.True(t, m.Clamped)
	assert.Equal(t, -5, m.RequestedDelta)
	assert.Equal(t, -2, m.Entry.QuantityChange)
	assert.Equal(t, 2, m.Entry.PreviousQuantity)
	assert.Equal(t, 0, m.Entry.NewQuantity)
	assert.Equal(t, 5, p.TotalSales)
}

func TestApplyStockChange_RentalCountsRentals(t *testing.T) {
	p := &domain.Product{ProductID: 2, Name: "Tent", StockQuantity: 4}

	_, err := applyStockChange(p, -4, domain.ChangeRental, nil, ruleNow)

	require.NoError(t, err)
	assert.Equal(t, 0, p.StockQuantity)
	assert.Equal(t, 4, p.TotalRentals)
	assert.Equal(t, 0, p.TotalSales)
}

func TestApplyStockChange_RestockSetsLastRestocked(t *testing.T) {
	p := &domain.Product{ProductID: 1, StockQuantity: 10}
	note := "supplier delivery"

	m, err := applyStockChange(p, 5, domain.ChangeRestock, &note, ruleNow)

	require.NoError(t, err)
	assert.Equal(t, 15, p.StockQuantity)
	require.NotNil(t, p.LastRestocked)
	assert.True(t, p.LastRestocked.Equal(ruleNow))
	assert.Equal(t, &note, m.Entry.Notes)
	assert.Equal(t, ruleNow, m.Entry.CreatedAt)
}

func TestApplyStockChange_ManualDecreaseBelowZeroFails(t *testing.T) {
	for _, ct := range []domain.ChangeType{domain.ChangeAdjustment, domain.ChangeDamage, domain.ChangeInventory} {
		t.Run(string(ct), func(t *testing.T) {
			p := &domain.Product{ProductID: 9, StockQuantity: 1}

			_, err := applyStockChange(p, -2, ct, nil, ruleNow)

			require.Error(t, err)
			assert.True(t, errors.Is(err, apperrors.ErrBusinessRule))
			assert.Equal(t, apperrors.CodeInsufficientStock, apperrors.CodeOf(err))
			assert.Equal(t, 1, p.StockQuantity, "product must be untouched")
		})
	}
}

func TestApplyStockChange_RejectsBadInput(t *testing.T) {
	tests := []struct {
		name       string
		delta      int
		changeType domain.ChangeType
	}{
		{"zero delta", 0, domain.ChangeAdjustment},
		{"unknown type", 1, domain.ChangeType("gift")},
		{"negative restock", -1, domain.ChangeRestock},
		{"negative return", -1, domain.ChangeReturn},
		{"positive sale", 1, domain.ChangeSale},
		{"positive damage", 1, domain.ChangeDamage},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := &domain.Product{ProductID: 1, StockQuantity: 3}

			_, err := applyStockChange(p, tt.delta, tt.changeType, nil, ruleNow)

			require.Error(t, err)
			assert.ErrorIs(t, err, apperrors.ErrValidation)
			assert.Equal(t, 3, p.StockQuantity)
		})
	}
}

func TestApplyStockChange_NeverNegative(t *testing.T) {
	p := &domain.Product{ProductID: 1, StockQuantity: 3}
	deltas := []struct {
		delta int
		ct    domain.ChangeType
	}{
		{-2, domain.ChangeSale}, {-4, domain.ChangeRental}, {6, domain.ChangeRestock},
		{-1, domain.ChangeDamage}, {-10, domain.ChangeSale}, {-3, domain.ChangeAdjustment},
		{2, domain.ChangeReturn}, {-7, domain.ChangeRental},
	}
	ledger := p.StockQuantity
	for _, d := range deltas {
		m, err := applyStockChange(p, d.delta, d.ct, nil, ruleNow)
		if err == nil {
			ledger += m.Entry.QuantityChange
		}
		assert.GreaterOrEqual(t, p.StockQuantity, 0)
		assert.Equal(t, ledger, p.StockQuantity)
	}
}

func TestApplyStockChange_HugeQuantities(t *testing.T) {
	t.Run("restock beyond the cap is a validation error", func(t *testing.T) {
		p := &domain.Product{ProductID: 1, StockQuantity: 5}
		_, err := applyStockChange(p, math.MaxInt, domain.ChangeRestock, nil, ruleNow)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
		assert.Equal(t, 5, p.StockQuantity)
	})

	t.Run("restock that would push stock past the cap fails", func(t *testing.T) {
		p := &domain.Product{ProductID: 1, StockQuantity: domain.MaxQuantity - 1}
		_, err := applyStockChange(p, 2, domain.ChangeRestock, nil, ruleNow)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
		assert.Equal(t, domain.MaxQuantity-1, p.StockQuantity)
	})

	t.Run("sale beyond the cap is rejected before touching counters", func(t *testing.T) {
		p := &domain.Product{ProductID: 1, StockQuantity: 5}
		_, err := applyStockChange(p, -math.MaxInt, domain.ChangeSale, nil, ruleNow)
		require.Error(t, err)
		assert.Equal(t, apperrors.CodeValidation, apperrors.CodeOf(err))
		assert.Equal(t, 0, p.TotalSales)
	})

	t.Run("sales counter saturates instead of wrapping", func(t *testing.T) {
		p := &domain.Product{ProductID: 1, StockQuantity: 5}
		for i := 0; i < 3; i++ {
			_, err := applyStockChange(p, -domain.MaxQuantity, domain.ChangeSale, nil, ruleNow)
			require.NoError(t, err)
			assert.Equal(t, domain.MaxQuantity, p.TotalSales)
		}
		assert.Equal(t, 0, p.StockQuantity)
	})
}
